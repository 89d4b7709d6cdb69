// Package guard decides whether a navigation may proceed given the current
// session, redirecting to login or home when it may not.
package guard

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/syahrullah26/dewaunitedstore/internal/models"
	"github.com/syahrullah26/dewaunitedstore/internal/nav"
)

// Session is the part of the session store the guard reads.
type Session interface {
	Token() string
	User() *models.UserProfile
	FetchUser(ctx context.Context)
}

// Decision is the outcome of a guard check. Redirect is set when Allowed is
// false.
type Decision struct {
	Allowed  bool
	Redirect string
}

func allow() Decision {
	return Decision{Allowed: true}
}

func redirect(path string) Decision {
	return Decision{Redirect: path}
}

// Guard runs before each navigation.
type Guard struct {
	session Session
	nav     nav.Navigator
	table   *Table
}

// New creates a guard. A nil navigator discards navigations.
func New(session Session, navigator nav.Navigator, table *Table) *Guard {
	if navigator == nil {
		navigator = nav.Nop
	}
	return &Guard{session: session, nav: navigator, table: table}
}

// Check evaluates a guarded route against the session. It blocks while the
// current user is fetched.
func (g *Guard) Check(ctx context.Context, route Route) Decision {
	if g.session.Token() != "" && g.session.User() == nil {
		g.session.FetchUser(ctx)
	}

	// FetchUser logs out on failure, so the token is read again.
	if g.session.Token() == "" {
		return redirect(nav.LoginPath)
	}

	if len(route.Roles) > 0 && !g.session.User().HasRole(route.Roles...) {
		return redirect(nav.HomePath)
	}

	return allow()
}

// Navigate resolves path in the route table, runs the guard for guarded
// routes and sends the navigator to path or to the redirect target.
func (g *Guard) Navigate(ctx context.Context, path string) (Decision, error) {
	route, _, err := g.table.Match(path)
	if err != nil {
		return Decision{}, err
	}

	decision := allow()
	if route.Guarded() {
		decision = g.Check(ctx, route)
	}

	if !decision.Allowed {
		log.Debug().
			Str("route", route.Name).
			Str("path", path).
			Str("redirect", decision.Redirect).
			Msg("navigation blocked")
		g.nav.Navigate(ctx, decision.Redirect)
		return decision, nil
	}

	g.nav.Navigate(ctx, path)
	return decision, nil
}

func (d Decision) String() string {
	if d.Allowed {
		return "allowed"
	}
	return fmt.Sprintf("redirect to %s", d.Redirect)
}
