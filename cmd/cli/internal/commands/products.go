package commands

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/syahrullah26/dewaunitedstore/internal/cart"
)

// ProductsCmd browses the public catalog.
type ProductsCmd struct {
	List ProductsListCmd `cmd:"" default:"1" help:"List products"`
	Show ProductsShowCmd `cmd:"" help:"Show a product and its stock"`
}

// price renders a decimal price string as Rupiah, falling back to the raw
// value if it does not parse.
func price(s string) string {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return s
	}
	return cart.FormatRupiah(v)
}

type ProductsListCmd struct{}

func (c *ProductsListCmd) Run(ctx context.Context, globals *Globals) error {
	rt, err := NewRuntime(globals)
	if err != nil {
		return err
	}
	if err := rt.Enter(ctx, "/products"); err != nil {
		return err
	}

	products, err := rt.Catalog.List(ctx)
	if err != nil {
		return err
	}

	if len(products) == 0 {
		fmt.Fprintln(globals.out(), "No products.")
		return nil
	}

	w := tabwriter.NewWriter(globals.out(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSLUG\tNAME\tCATEGORY\tPRICE")
	for _, p := range products {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", p.ID, p.Slug, p.Name, p.Category, price(p.Price))
	}

	return w.Flush()
}

type ProductsShowCmd struct {
	Slug string `arg:"" help:"Product slug"`
}

func (c *ProductsShowCmd) Run(ctx context.Context, globals *Globals) error {
	rt, err := NewRuntime(globals)
	if err != nil {
		return err
	}
	if err := rt.Enter(ctx, "/products/"+c.Slug); err != nil {
		return err
	}

	p, err := rt.Catalog.Get(ctx, c.Slug)
	if err != nil {
		return err
	}

	out := globals.out()
	fmt.Fprintf(out, "%s (#%d)\n", p.Name, p.ID)
	fmt.Fprintf(out, "Price: %s", price(p.Price))
	if p.OriginalPrice != nil {
		fmt.Fprintf(out, " (was %s)", price(*p.OriginalPrice))
	}
	fmt.Fprintln(out)

	if len(p.Stocks) > 0 {
		sizes := make([]string, 0, len(p.Stocks))
		for _, s := range p.Stocks {
			sizes = append(sizes, fmt.Sprintf("%s:%d", s.Size, s.Stock))
		}
		fmt.Fprintf(out, "Stock: %s\n", strings.Join(sizes, " "))
	}
	if p.Description != "" {
		fmt.Fprintf(out, "\n%s\n", p.Description)
	}
	return nil
}
