package models

// CartItem is a single line in the server cart. Lookups use
// (ProductID, Size); mutations address the line by ID.
type CartItem struct {
	ID             int64   `json:"id" validate:"required"`
	ProductID      int64   `json:"product_id" validate:"required"`
	Name           string  `json:"name"`
	Slug           string  `json:"slug"`
	Image          *string `json:"image"`
	Size           string  `json:"size"`
	Price          float64 `json:"price" validate:"gte=0"`
	Quantity       int     `json:"quantity" validate:"gte=0"`
	StockAvailable int     `json:"stock_available"`
	Subtotal       float64 `json:"subtotal" validate:"gte=0"`
}

// CartSummary holds the server computed totals. The client never
// recomputes these.
type CartSummary struct {
	TotalItems    int     `json:"total_items"`
	TotalQuantity int     `json:"total_quantity"`
	TotalPrice    float64 `json:"total_price"`
}

// CartSnapshot is the canonical cart returned by GET /cart.
type CartSnapshot struct {
	CartID  *int64      `json:"cart_id"`
	Items   []CartItem  `json:"items" validate:"dive"`
	Summary CartSummary `json:"summary"`
}

// EmptyCart returns the snapshot of a cart with nothing in it.
func EmptyCart() CartSnapshot {
	return CartSnapshot{
		CartID:  nil,
		Items:   []CartItem{},
		Summary: CartSummary{},
	}
}

// Clone returns a deep copy so callers cannot mutate store state.
func (c CartSnapshot) Clone() CartSnapshot {
	out := CartSnapshot{Summary: c.Summary}
	if c.CartID != nil {
		id := *c.CartID
		out.CartID = &id
	}
	out.Items = make([]CartItem, len(c.Items))
	copy(out.Items, c.Items)
	return out
}

// AddToCartRequest is the body of POST /cart.
type AddToCartRequest struct {
	ProductID int64  `json:"product_id" validate:"required"`
	Size      string `json:"size" validate:"required"`
	Quantity  int    `json:"quantity" validate:"gte=1"`
}

// UpdateQuantityRequest is the body of PUT /cart/items/{id}.
type UpdateQuantityRequest struct {
	Quantity int `json:"quantity" validate:"gte=1"`
}
