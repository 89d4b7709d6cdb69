package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/syahrullah26/dewaunitedstore/internal/api"
	"github.com/syahrullah26/dewaunitedstore/internal/session"
)

// ProfileCmd manages the account profile.
type ProfileCmd struct {
	Update ProfileUpdateCmd `cmd:"" help:"Update name, email, phone or avatar"`
}

// ProfileUpdateCmd sends profile changes. Only the flags given are sent.
type ProfileUpdateCmd struct {
	Name   string `help:"New name"`
	Email  string `help:"New email"`
	Phone  string `help:"New phone number"`
	Avatar string `help:"Path to a new avatar image" type:"existingfile"`
}

func (c *ProfileUpdateCmd) Run(ctx context.Context, globals *Globals) error {
	if c.Name == "" && c.Email == "" && c.Phone == "" && c.Avatar == "" {
		return fmt.Errorf("nothing to update, pass at least one of --name, --email, --phone or --avatar")
	}

	rt, err := NewRuntime(globals)
	if err != nil {
		return err
	}
	if err := rt.Enter(ctx, "/profile"); err != nil {
		return err
	}

	update := session.UpdateProfile{Name: c.Name, Email: c.Email, Phone: c.Phone}
	if c.Avatar != "" {
		f, err := os.Open(c.Avatar)
		if err != nil {
			return fmt.Errorf("failed to open avatar: %w", err)
		}
		defer f.Close()
		update.Avatar = &api.File{Field: "avatar", Filename: filepath.Base(c.Avatar), Content: f}
	}

	user, err := rt.Session.UpdateProfile(ctx, update)
	if err != nil {
		return rt.expired(fmt.Errorf("profile update failed: %s: %w", api.MessageOf(err, "request failed"), err))
	}

	fmt.Fprintf(globals.out(), "Profile updated: %s <%s>\n", user.Name, user.Email)
	return nil
}

// AddressCmd reads saved shipping addresses.
type AddressCmd struct {
	List AddressListCmd `cmd:"" help:"List saved addresses"`
}

type AddressListCmd struct{}

func (c *AddressListCmd) Run(ctx context.Context, globals *Globals) error {
	rt, err := NewRuntime(globals)
	if err != nil {
		return err
	}
	if err := rt.Enter(ctx, "/profile"); err != nil {
		return err
	}

	addresses, err := rt.Session.LoadAddresses(ctx)
	if err != nil {
		return rt.expired(fmt.Errorf("failed to load addresses: %w", err))
	}

	if len(addresses) == 0 {
		fmt.Fprintln(globals.out(), "No saved addresses.")
		return nil
	}

	w := tabwriter.NewWriter(globals.out(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tRECIPIENT\tPHONE\tADDRESS\tCITY\tPOSTAL")
	for _, a := range addresses {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
			a.ID, a.RecipientName, a.Phone, a.AddressDetail, a.Regency.Name, a.PostalCode)
	}

	return w.Flush()
}
