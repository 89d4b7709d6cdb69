package cart

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"
	"github.com/syahrullah26/dewaunitedstore/internal/api"
	"github.com/syahrullah26/dewaunitedstore/internal/models"
	"github.com/syahrullah26/dewaunitedstore/internal/session"
)

// ErrNotLoggedIn is returned when a cart call is attempted without a session.
// It is the session package's sentinel, so errors.Is matches either name.
var ErrNotLoggedIn = session.ErrNotLoggedIn

// Fallback messages used when the backend gives no message of its own.
const (
	msgAdd    = "Failed to add to cart"
	msgUpdate = "Failed to update quantity"
	msgRemove = "Failed to remove item"
	msgClear  = "Failed to clear cart"
	msgLoad   = "Failed to load cart"
)

// Error is a cart operation failure with a message fit for display.
type Error struct {
	Op      string
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func normalize(op string, err error, fallback string) error {
	if errors.Is(err, models.ErrInvalid) {
		return &Error{Op: op, Message: err.Error(), Err: err}
	}
	return &Error{Op: op, Message: api.MessageOf(err, fallback), Err: err}
}

// Doer issues API requests. *api.Client implements it.
type Doer interface {
	Do(ctx context.Context, req api.Request, out any) error
}

// LoginChecker reports whether a session token is held.
type LoginChecker interface {
	IsLoggedIn() bool
}

// Operations runs cart mutations against the backend and pushes the
// resulting canonical cart into a Store.
type Operations struct {
	client  Doer
	store   *Store
	session LoginChecker
}

// NewOperations creates cart operations writing into store. When session is
// non-nil, calls made while logged out fail with ErrNotLoggedIn without
// reaching the backend.
func NewOperations(client Doer, store *Store, session LoginChecker) *Operations {
	return &Operations{client: client, store: store, session: session}
}

// Store returns the store the operations write into.
func (o *Operations) Store() *Store {
	return o.store
}

func (o *Operations) loggedIn() bool {
	return o.session == nil || o.session.IsLoggedIn()
}

// Refresh loads the canonical cart into the store.
func (o *Operations) Refresh(ctx context.Context) (models.CartSnapshot, error) {
	if !o.loggedIn() {
		return models.CartSnapshot{}, &Error{Op: "refresh", Message: msgLoad, Err: ErrNotLoggedIn}
	}

	snapshot, err := o.reconcile(ctx)
	if err != nil {
		return models.CartSnapshot{}, normalize("refresh", err, msgLoad)
	}
	return snapshot, nil
}

// AddToCart adds quantity of a product size, then reconciles.
func (o *Operations) AddToCart(ctx context.Context, req models.AddToCartRequest) (models.CartSnapshot, error) {
	if err := models.Validate(req); err != nil {
		return models.CartSnapshot{}, normalize("add", err, msgAdd)
	}
	return o.mutate(ctx, "add", api.Request{Method: http.MethodPost, Path: "/cart", Body: req}, msgAdd)
}

// UpdateQuantity sets the quantity of a cart line, then reconciles.
func (o *Operations) UpdateQuantity(ctx context.Context, itemID int64, quantity int) (models.CartSnapshot, error) {
	body := models.UpdateQuantityRequest{Quantity: quantity}
	if err := models.Validate(body); err != nil {
		return models.CartSnapshot{}, normalize("update", err, msgUpdate)
	}
	return o.mutate(ctx, "update", api.Request{
		Method: http.MethodPut,
		Path:   fmt.Sprintf("/cart/items/%d", itemID),
		Body:   body,
	}, msgUpdate)
}

// RemoveItem deletes a cart line, then reconciles.
func (o *Operations) RemoveItem(ctx context.Context, itemID int64) (models.CartSnapshot, error) {
	return o.mutate(ctx, "remove", api.Request{
		Method: http.MethodDelete,
		Path:   fmt.Sprintf("/cart/items/%d", itemID),
	}, msgRemove)
}

// ClearCart empties the server cart and then the store. There is no
// reconciliation fetch.
func (o *Operations) ClearCart(ctx context.Context) error {
	if !o.loggedIn() {
		return &Error{Op: "clear", Message: msgClear, Err: ErrNotLoggedIn}
	}

	if err := o.client.Do(ctx, api.Request{Method: http.MethodDelete, Path: "/cart/clear"}, nil); err != nil {
		return normalize("clear", err, msgClear)
	}

	o.store.ClearCart()
	return nil
}

// mutate issues req and, only if it succeeds, fetches the canonical cart.
// A failed reconciliation leaves the store as it was.
func (o *Operations) mutate(ctx context.Context, op string, req api.Request, fallback string) (models.CartSnapshot, error) {
	if !o.loggedIn() {
		return models.CartSnapshot{}, &Error{Op: op, Message: fallback, Err: ErrNotLoggedIn}
	}

	if err := o.client.Do(ctx, req, nil); err != nil {
		return models.CartSnapshot{}, normalize(op, err, fallback)
	}

	snapshot, err := o.reconcile(ctx)
	if err != nil {
		log.Warn().Err(err).Str("op", op).Msg("cart changed but reconciliation failed, local cart is stale")
		return models.CartSnapshot{}, normalize(op, err, fallback)
	}

	return snapshot, nil
}

// reconcile fetches GET /cart and applies it unless a newer snapshot landed
// first. The sequence number is taken before the fetch is issued.
func (o *Operations) reconcile(ctx context.Context) (models.CartSnapshot, error) {
	seq := o.store.begin()

	var snapshot models.CartSnapshot
	if err := o.client.Do(ctx, api.Request{Path: "/cart"}, &snapshot); err != nil {
		return models.CartSnapshot{}, err
	}
	if err := models.Validate(snapshot); err != nil {
		return models.CartSnapshot{}, fmt.Errorf("unexpected cart: %w", err)
	}
	if snapshot.Items == nil {
		snapshot.Items = []models.CartItem{}
	}

	if !o.store.apply(seq, snapshot) {
		return o.store.Snapshot(), nil
	}
	return snapshot.Clone(), nil
}
