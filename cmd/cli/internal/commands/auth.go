package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/syahrullah26/dewaunitedstore/cmd/cli/internal/credentials"
	"github.com/syahrullah26/dewaunitedstore/internal/api"
	"github.com/syahrullah26/dewaunitedstore/internal/models"
)

// LoginCmd exchanges email and password for a session token.
type LoginCmd struct {
	Email    string `arg:"" help:"Account email"`
	Password string `help:"Account password" env:"DEWA_PASSWORD" required:""`
}

func (c *LoginCmd) Run(ctx context.Context, globals *Globals) error {
	rt, err := NewRuntime(globals)
	if err != nil {
		return err
	}

	if err := rt.Session.Login(ctx, c.Email, c.Password); err != nil {
		return fmt.Errorf("login failed: %s", api.MessageOf(err, err.Error()))
	}

	user := rt.Session.User()
	fmt.Fprintf(globals.out(), "Logged in as %s <%s>\n", user.Name, user.Email)
	return nil
}

// RegisterCmd creates an account and logs it in.
type RegisterCmd struct {
	Name            string `help:"Full name" required:""`
	Email           string `help:"Account email" required:""`
	Phone           string `help:"Phone number" required:""`
	Password        string `help:"Account password" env:"DEWA_PASSWORD" required:""`
	PasswordConfirm string `name:"password-confirm" help:"Repeat the password" env:"DEWA_PASSWORD_CONFIRM" required:""`
}

func (c *RegisterCmd) Run(ctx context.Context, globals *Globals) error {
	rt, err := NewRuntime(globals)
	if err != nil {
		return err
	}

	form := models.RegisterForm{
		Name:            c.Name,
		Email:           c.Email,
		Phone:           c.Phone,
		Password:        c.Password,
		PasswordConfirm: c.PasswordConfirm,
	}
	if err := rt.Session.Register(ctx, form); err != nil {
		return fmt.Errorf("registration failed: %s", api.MessageOf(err, err.Error()))
	}

	user := rt.Session.User()
	fmt.Fprintf(globals.out(), "Welcome %s, you are now logged in\n", user.Name)
	return nil
}

// LogoutCmd ends the session locally and on the backend.
type LogoutCmd struct{}

func (c *LogoutCmd) Run(ctx context.Context, globals *Globals) error {
	rt, err := NewRuntime(globals)
	if err != nil {
		return err
	}

	if !rt.Session.IsLoggedIn() {
		fmt.Fprintln(globals.out(), "Not logged in.")
		return nil
	}

	rt.Session.Logout(ctx)
	fmt.Fprintln(globals.out(), "Logged out.")
	return nil
}

// WhoamiCmd resolves and prints the current user.
type WhoamiCmd struct{}

func (c *WhoamiCmd) Run(ctx context.Context, globals *Globals) error {
	rt, err := NewRuntime(globals)
	if err != nil {
		return err
	}

	rt.Session.FetchUser(ctx)

	user := rt.Session.User()
	if user == nil {
		fmt.Fprintln(globals.out(), "Not logged in.")
		return nil
	}

	out := globals.out()
	fmt.Fprintf(out, "ID:    %d\n", user.ID)
	fmt.Fprintf(out, "Name:  %s\n", user.Name)
	fmt.Fprintf(out, "Email: %s\n", user.Email)
	if user.Phone != "" {
		fmt.Fprintf(out, "Phone: %s\n", user.Phone)
	}
	fmt.Fprintf(out, "Role:  %s\n", user.Role)
	return nil
}

// SessionCmd shows the locally stored session without calling the backend.
type SessionCmd struct{}

func (c *SessionCmd) Run(ctx context.Context, globals *Globals) error {
	rt, err := NewRuntime(globals)
	if err != nil {
		return err
	}

	out := globals.out()
	fmt.Fprintf(out, "State:     %s\n", rt.Session.State())
	fmt.Fprintf(out, "State dir: %s\n", rt.Tokens.Dir())

	token := rt.Session.Token()
	if token == "" {
		return nil
	}

	info, err := credentials.Inspect(token)
	if errors.Is(err, credentials.ErrOpaqueToken) {
		fmt.Fprintln(out, "Token:     opaque")
		return nil
	}
	if err != nil {
		return err
	}

	if info.Subject != "" {
		fmt.Fprintf(out, "Subject:   %s\n", info.Subject)
	}
	if !info.ExpiresAt.IsZero() {
		status := "valid"
		if info.Expired(time.Now()) {
			status = "expired"
		}
		fmt.Fprintf(out, "Expires:   %s (%s)\n", info.ExpiresAt.Format(time.RFC3339), status)
	}
	return nil
}
