// Package catalog provides read-only access to the product catalog. The
// cart core consults it for price, name, image and stock ceilings; it never
// writes to it.
package catalog

import (
	"strings"

	"github.com/openkicks/storefront/internal/domain"
)

// Reader is the lookup interface the cart core depends on.
type Reader interface {
	// FindProduct returns the product with the given id, or nil.
	FindProduct(productID string) *domain.Product

	// FindVariant returns the variant with the given id under product, or
	// nil when the product is nil or carries no such variant.
	FindVariant(product *domain.Product, variantID string) *domain.Variant
}

// FindVariant resolves a variant id under a product. Shared by every Reader
// implementation.
func FindVariant(product *domain.Product, variantID string) *domain.Variant {
	if product == nil {
		return nil
	}
	for i := range product.Variants {
		if product.Variants[i].ID == variantID {
			return &product.Variants[i]
		}
	}
	return nil
}

// Filter evaluates the listing predicates over products and returns the
// matches in catalog order.
func Filter(products []domain.Product, f domain.ProductFilter) []domain.Product {
	tag := strings.ToLower(f.Tag)
	category := strings.ToLower(f.Category)
	brand := strings.ToLower(f.Brand)

	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		switch tag {
		case "new":
			if !p.IsNew {
				continue
			}
		case "best":
			if !p.IsBest {
				continue
			}
		case "sale":
			if !p.IsSale {
				continue
			}
		}
		if category != "" && category != "all" && strings.ToLower(p.Category) != category {
			continue
		}
		if brand != "" && strings.ToLower(p.Brand) != brand {
			continue
		}
		if f.Size != 0 && !hasSize(p.Sizes, f.Size) {
			continue
		}
		if f.PriceMin != nil && p.Price < *f.PriceMin {
			continue
		}
		if f.PriceMax != nil && p.Price > *f.PriceMax {
			continue
		}
		out = append(out, p)
	}
	return out
}

func hasSize(sizes []int, size int) bool {
	for _, s := range sizes {
		if s == size {
			return true
		}
	}
	return false
}
