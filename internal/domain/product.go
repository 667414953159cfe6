package domain

// Variant is a purchasable variation of a product (a size, a colorway).
// Price and Stock, when set, override the parent product's.
type Variant struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Price *int64 `json:"price,omitempty"`
	Stock *int   `json:"stock,omitempty"`
}

// Product is a catalog record. Stock is a ceiling on purchasable quantity;
// nil means unlimited.
type Product struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Brand    string    `json:"brand,omitempty"`
	Category string    `json:"category,omitempty"`
	Price    int64     `json:"price"`
	Stock    *int      `json:"stock,omitempty"`
	Sizes    []int     `json:"sizes,omitempty"`
	ImageURL string    `json:"image_url,omitempty"`
	IsNew    bool      `json:"is_new,omitempty"`
	IsBest   bool      `json:"is_best,omitempty"`
	IsSale   bool      `json:"is_sale,omitempty"`
	Variants []Variant `json:"variants,omitempty"`
}

// UnitPrice resolves the effective unit price for a product, honoring the
// variant override when present.
func UnitPrice(p *Product, v *Variant) int64 {
	if v != nil && v.Price != nil {
		return *v.Price
	}
	return p.Price
}

// StockCeiling resolves the effective purchasable ceiling: variant stock if
// the variant defines one, else product stock. The second return is false
// when the quantity is unlimited.
func StockCeiling(p *Product, v *Variant) (int, bool) {
	if v != nil && v.Stock != nil {
		return *v.Stock, true
	}
	if p.Stock != nil {
		return *p.Stock, true
	}
	return 0, false
}

// DisplayName builds the snapshot name stored on a cart line, embedding the
// variant name as "Product - Variant" when one is selected.
func DisplayName(p *Product, v *Variant) string {
	if v != nil && v.Name != "" {
		return p.Name + " - " + v.Name
	}
	return p.Name
}

// ProductFilter holds the catalog listing predicates. Zero values mean
// "no constraint".
type ProductFilter struct {
	Tag      string // "new", "best" or "sale"
	Category string
	Brand    string
	Size     int
	PriceMin *int64
	PriceMax *int64
}
