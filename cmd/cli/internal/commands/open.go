package commands

import (
	"context"
	"fmt"
)

// OpenCmd runs the route guard for a storefront path and reports where the
// navigation ends up.
type OpenCmd struct {
	Path string `arg:"" help:"Storefront path, e.g. /checkout"`
}

func (c *OpenCmd) Run(ctx context.Context, globals *Globals) error {
	rt, err := NewRuntime(globals)
	if err != nil {
		return err
	}

	decision, err := rt.Guard.Navigate(ctx, c.Path)
	if err != nil {
		return err
	}

	if decision.Allowed {
		fmt.Fprintf(globals.out(), "%s: allowed\n", c.Path)
		return nil
	}

	fmt.Fprintf(globals.out(), "%s: %s\n", c.Path, decision)
	return nil
}
