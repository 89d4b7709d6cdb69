package commands

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/rs/zerolog/log"
	"github.com/syahrullah26/dewaunitedstore/internal/cart"
	"github.com/syahrullah26/dewaunitedstore/internal/models"
)

// CartCmd manages the shopping cart.
type CartCmd struct {
	Show   CartShowCmd   `cmd:"" default:"1" help:"Show the cart"`
	Add    CartAddCmd    `cmd:"" help:"Add a product to the cart"`
	Update CartUpdateCmd `cmd:"" help:"Change the quantity of a cart item"`
	Remove CartRemoveCmd `cmd:"" help:"Remove a cart item"`
	Clear  CartClearCmd  `cmd:"" help:"Remove every item"`
}

// cartRuntime wires the runtime and passes the cart route guard.
func cartRuntime(ctx context.Context, globals *Globals) (*Runtime, error) {
	rt, err := NewRuntime(globals)
	if err != nil {
		return nil, err
	}
	if err := rt.Enter(ctx, "/cart"); err != nil {
		return nil, err
	}
	return rt, nil
}

func printCart(w io.Writer, snapshot models.CartSnapshot) error {
	if len(snapshot.Items) == 0 {
		fmt.Fprintln(w, "Cart is empty.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ITEM\tPRODUCT\tSIZE\tQTY\tPRICE\tSUBTOTAL")
	for _, it := range snapshot.Items {
		name := it.Name
		if name == "" {
			name = strconv.FormatInt(it.ProductID, 10)
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\t%s\n",
			it.ID, name, it.Size, it.Quantity, cart.FormatRupiah(it.Price), cart.FormatRupiah(it.Subtotal))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(w, "\n%d item(s), total %s\n",
		snapshot.Summary.TotalQuantity, cart.FormatRupiah(snapshot.Summary.TotalPrice))
	return nil
}

type CartShowCmd struct{}

func (c *CartShowCmd) Run(ctx context.Context, globals *Globals) error {
	rt, err := cartRuntime(ctx, globals)
	if err != nil {
		return err
	}

	snapshot, err := rt.Cart.Refresh(ctx)
	if err != nil {
		return rt.expired(err)
	}

	return printCart(globals.out(), snapshot)
}

type CartAddCmd struct {
	Product  string `arg:"" help:"Product ID or slug"`
	Size     string `arg:"" help:"Size, e.g. M"`
	Quantity int    `short:"q" help:"Quantity to add" default:"1"`
}

func (c *CartAddCmd) Run(ctx context.Context, globals *Globals) error {
	rt, err := cartRuntime(ctx, globals)
	if err != nil {
		return err
	}

	productID, err := c.resolve(ctx, rt)
	if err != nil {
		return err
	}

	snapshot, err := rt.Cart.AddToCart(ctx, models.AddToCartRequest{
		ProductID: productID,
		Size:      c.Size,
		Quantity:  c.Quantity,
	})
	if err != nil {
		return rt.expired(err)
	}

	return printCart(globals.out(), snapshot)
}

// resolve turns a slug into a product ID through the catalog. Numeric
// arguments are used as IDs directly.
func (c *CartAddCmd) resolve(ctx context.Context, rt *Runtime) (int64, error) {
	if id, err := strconv.ParseInt(c.Product, 10, 64); err == nil {
		return id, nil
	}

	product, err := rt.Catalog.Get(ctx, c.Product)
	if err != nil {
		return 0, err
	}

	stock, ok := product.StockFor(c.Size)
	if !ok {
		return 0, fmt.Errorf("%s has no size %s", product.Name, c.Size)
	}
	if stock < c.Quantity {
		// The backend has the final say on stock; the catalog may be cached.
		log.Warn().Int("stock", stock).Str("size", c.Size).Msg("catalog shows insufficient stock")
	}

	return product.ID, nil
}

type CartUpdateCmd struct {
	Item     int64 `arg:"" help:"Cart item ID"`
	Quantity int   `arg:"" help:"New quantity"`
}

func (c *CartUpdateCmd) Run(ctx context.Context, globals *Globals) error {
	rt, err := cartRuntime(ctx, globals)
	if err != nil {
		return err
	}

	snapshot, err := rt.Cart.UpdateQuantity(ctx, c.Item, c.Quantity)
	if err != nil {
		return rt.expired(err)
	}

	return printCart(globals.out(), snapshot)
}

type CartRemoveCmd struct {
	Item int64 `arg:"" help:"Cart item ID"`
}

func (c *CartRemoveCmd) Run(ctx context.Context, globals *Globals) error {
	rt, err := cartRuntime(ctx, globals)
	if err != nil {
		return err
	}

	snapshot, err := rt.Cart.RemoveItem(ctx, c.Item)
	if err != nil {
		return rt.expired(err)
	}

	return printCart(globals.out(), snapshot)
}

type CartClearCmd struct{}

func (c *CartClearCmd) Run(ctx context.Context, globals *Globals) error {
	rt, err := cartRuntime(ctx, globals)
	if err != nil {
		return err
	}

	if err := rt.Cart.ClearCart(ctx); err != nil {
		return rt.expired(err)
	}

	return printCart(globals.out(), rt.Cart.Store().Snapshot())
}
