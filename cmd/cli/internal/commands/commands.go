package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/syahrullah26/dewaunitedstore/cmd/cli/internal/credentials"
	"github.com/syahrullah26/dewaunitedstore/internal/api"
	"github.com/syahrullah26/dewaunitedstore/internal/cart"
	"github.com/syahrullah26/dewaunitedstore/internal/catalog"
	"github.com/syahrullah26/dewaunitedstore/internal/client"
	"github.com/syahrullah26/dewaunitedstore/internal/guard"
	"github.com/syahrullah26/dewaunitedstore/internal/nav"
	"github.com/syahrullah26/dewaunitedstore/internal/session"
)

// ErrNavigationBlocked is returned when the route guard redirects a command.
var ErrNavigationBlocked = errors.New("navigation blocked")

type Globals struct {
	Debug    bool
	Version  string
	APIBase  string
	StateDir string
	CacheDir string
	Routes   string
	Timeout  time.Duration

	// Out receives command output; nil means stdout.
	Out io.Writer
}

func (g *Globals) out() io.Writer {
	if g.Out == nil {
		return os.Stdout
	}
	return g.Out
}

func (g *Globals) clientConfig() client.Config {
	config := client.DefaultConfig()
	config.Debug = g.Debug
	if g.APIBase != "" {
		config.BaseURL = g.APIBase
	}
	if g.Timeout > 0 {
		config.Timeout = g.Timeout
	}
	return config
}

// Runtime is the wired storefront client: one session, one cart store and
// the API clients they share.
type Runtime struct {
	Tokens  *credentials.Store
	Session *session.Session
	Cart    *cart.Operations
	Catalog *catalog.Catalog
	Guard   *guard.Guard
	Nav     *nav.Recorder
}

// NewRuntime wires the runtime from global flags.
func NewRuntime(globals *Globals) (*Runtime, error) {
	config := globals.clientConfig()

	tokens, err := credentials.NewStore(globals.StateDir)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token store: %w", err)
	}

	apiClient, err := api.NewClient(config.BaseURL,
		api.WithHTTPClient(client.NewHTTPClient(config, log.Logger)))
	if err != nil {
		return nil, fmt.Errorf("failed to create API client: %w", err)
	}

	// The catalog is public and cacheable, so it gets its own client with no
	// authenticator.
	catalogClient, err := api.NewClient(config.BaseURL,
		api.WithHTTPClient(client.NewCachingHTTPClient(globals.CacheDir, config.Timeout, log.Logger)))
	if err != nil {
		return nil, fmt.Errorf("failed to create catalog client: %w", err)
	}

	table, err := guard.LoadTable(globals.Routes)
	if err != nil {
		return nil, err
	}

	recorder := nav.NewRecorder()
	store := cart.NewStore()

	sess := session.New(apiClient, tokens,
		session.WithNavigator(recorder),
		session.WithCart(store))
	apiClient.SetAuthenticator(sess)

	return &Runtime{
		Tokens:  tokens,
		Session: sess,
		Cart:    cart.NewOperations(apiClient, store, sess),
		Catalog: catalog.New(catalogClient),
		Guard:   guard.New(sess, recorder, table),
		Nav:     recorder,
	}, nil
}

// Enter runs the route guard for path and fails if it redirects.
func (r *Runtime) Enter(ctx context.Context, path string) error {
	decision, err := r.Guard.Navigate(ctx, path)
	if err != nil {
		return err
	}
	if !decision.Allowed {
		if decision.Redirect == nav.LoginPath {
			return fmt.Errorf("%w: %s requires login, run `dewaunited-cli login`", ErrNavigationBlocked, path)
		}
		return fmt.Errorf("%w: %s is not available for this account", ErrNavigationBlocked, path)
	}
	return nil
}

// expired turns a failure caused by a 401 into a login hint.
func (r *Runtime) expired(err error) error {
	if api.IsUnauthorized(err) || r.Nav.Last() == nav.LoginPath {
		return fmt.Errorf("session expired, run `dewaunited-cli login`: %w", err)
	}
	return err
}
