package main

import (
	"context"
	"os"
	"os/signal"
	"time"

	"github.com/alecthomas/kong"
	"github.com/rs/zerolog/log"
	"github.com/syahrullah26/dewaunitedstore/cmd/cli/internal/commands"
	"github.com/syahrullah26/dewaunitedstore/internal/client"
	"github.com/syahrullah26/dewaunitedstore/internal/logger"
)

var (
	version = "dev"
	cli     struct {
		Login    commands.LoginCmd    `cmd:"" help:"Log in with email and password"`
		Register commands.RegisterCmd `cmd:"" help:"Create an account and log in"`
		Logout   commands.LogoutCmd   `cmd:"" help:"Log out and forget the stored token"`
		Whoami   commands.WhoamiCmd   `cmd:"" help:"Show the current user"`
		Session  commands.SessionCmd  `cmd:"" help:"Show the locally stored session"`
		Profile  commands.ProfileCmd  `cmd:"" help:"Manage the account profile"`
		Address  commands.AddressCmd  `cmd:"" help:"Saved shipping addresses"`
		Cart     commands.CartCmd     `cmd:"" help:"Manage the shopping cart"`
		Products commands.ProductsCmd `cmd:"" help:"Browse the product catalog"`
		Open     commands.OpenCmd     `cmd:"" help:"Check whether a storefront path is reachable"`

		Debug    bool          `help:"Enable debug mode." env:"DEWA_DEBUG"`
		APIBase  string        `name:"api-base" help:"Storefront API base URL." default:"${api_base}" env:"DEWA_API_BASE"`
		StateDir string        `help:"Directory holding the session token (default ~/.dewaunited)." env:"DEWA_STATE_DIR"`
		CacheDir string        `help:"Directory for the catalog HTTP cache (in memory when empty)." env:"DEWA_CACHE_DIR"`
		Routes   string        `help:"Route table YAML file (built-in table when empty)." env:"DEWA_ROUTES"`
		Timeout  time.Duration `help:"HTTP request timeout." default:"30s" env:"DEWA_TIMEOUT"`
		Version  kong.VersionFlag
	}
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cmd := kong.Parse(&cli,
		kong.Name("dewaunited-cli"),
		kong.Description("Command line client for the DEWA United store."),
		kong.Vars{
			"version":  version,
			"api_base": client.DefaultBaseURL,
		},
		kong.BindTo(ctx, (*context.Context)(nil)))

	log.Logger = logger.Setup(cli.Debug)

	err := cmd.Run(&commands.Globals{
		Debug:    cli.Debug,
		Version:  version,
		APIBase:  cli.APIBase,
		StateDir: cli.StateDir,
		CacheDir: cli.CacheDir,
		Routes:   cli.Routes,
		Timeout:  cli.Timeout,
	})
	cmd.FatalIfErrorf(err)
}
