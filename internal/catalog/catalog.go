// Package catalog reads the public product catalog. Requests go out without
// a bearer token and are expected to run over a caching transport.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/syahrullah26/dewaunitedstore/internal/api"
	"github.com/syahrullah26/dewaunitedstore/internal/models"
)

// ErrProductNotFound is returned by Get when the slug is unknown.
var ErrProductNotFound = errors.New("product not found")

// Doer issues API requests. *api.Client implements it.
type Doer interface {
	Do(ctx context.Context, req api.Request, out any) error
}

// Catalog lists and looks up products.
type Catalog struct {
	client Doer
}

// New creates a catalog reader.
func New(client Doer) *Catalog {
	return &Catalog{client: client}
}

// List returns every active product. An absent data field yields an empty
// list.
func (c *Catalog) List(ctx context.Context) ([]models.Product, error) {
	var resp models.Envelope[[]models.Product]
	if err := c.client.Do(ctx, api.Request{Path: "/products"}, &resp); err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	if resp.Data == nil {
		return []models.Product{}, nil
	}
	return resp.Data, nil
}

// Get returns the product with slug.
func (c *Catalog) Get(ctx context.Context, slug string) (*models.Product, error) {
	if slug == "" {
		return nil, fmt.Errorf("%w: empty slug", ErrProductNotFound)
	}

	var resp models.Envelope[*models.Product]
	err := c.client.Do(ctx, api.Request{Path: "/products/" + url.PathEscape(slug)}, &resp)
	if api.StatusOf(err) == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", ErrProductNotFound, slug)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product %s: %w", slug, err)
	}

	if resp.Data == nil {
		return nil, fmt.Errorf("%w: %s", ErrProductNotFound, slug)
	}
	return resp.Data, nil
}
