package models

// ProductStock is the stock level for one size of a product.
type ProductStock struct {
	ID        int64  `json:"id"`
	ProductID int64  `json:"product_id"`
	Size      string `json:"size"`
	Stock     int    `json:"stock"`
}

// ProductColor is a colour variant with its own gallery.
type ProductColor struct {
	Name   string   `json:"name"`
	Hex    string   `json:"hex"`
	Images []string `json:"images"`
}

// ExternalLinks points at the same product on marketplaces.
type ExternalLinks struct {
	Shopee     string `json:"shopee,omitempty"`
	Tokopedia  string `json:"tokopedia,omitempty"`
	TiktokShop string `json:"tiktok_shop,omitempty"`
}

// Product is a catalog entry. Prices are decimal strings as sent by the backend.
type Product struct {
	ID            int64          `json:"id"`
	Name          string         `json:"name"`
	Slug          string         `json:"slug"`
	Category      string         `json:"category"`
	Price         string         `json:"price"`
	OriginalPrice *string        `json:"original_price"`
	Images        []string       `json:"images"`
	Colors        []ProductColor `json:"colors"`
	Stocks        []ProductStock `json:"stocks"`
	Description   string         `json:"description"`
	ExternalLinks *ExternalLinks `json:"external_links,omitempty"`
	IsActive      bool           `json:"is_active"`
	CreatedAt     string         `json:"created_at"`
	UpdatedAt     string         `json:"updated_at"`
}

// StockFor returns the stock for size and whether the size exists.
func (p *Product) StockFor(size string) (int, bool) {
	for _, s := range p.Stocks {
		if s.Size == size {
			return s.Stock, true
		}
	}
	return 0, false
}
