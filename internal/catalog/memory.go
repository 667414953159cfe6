package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"github.com/openkicks/storefront/internal/domain"
)

//go:embed seed.json
var seedJSON []byte

// Memory is an in-memory catalog built once at startup. Reads are lock-free
// because the product set never changes after construction.
type Memory struct {
	products []domain.Product
	byID     map[string]*domain.Product
}

// Compile-time check that Memory implements Reader.
var _ Reader = (*Memory)(nil)

// New builds a catalog from a product slice.
func New(products []domain.Product) *Memory {
	m := &Memory{
		products: products,
		byID:     make(map[string]*domain.Product, len(products)),
	}
	for i := range m.products {
		m.byID[m.products[i].ID] = &m.products[i]
	}
	return m
}

// Load builds a catalog from a JSON file, or from the embedded seed when
// path is empty.
func Load(path string) (*Memory, error) {
	data := seedJSON
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read catalog file: %w", err)
		}
		data = b
	}

	var products []domain.Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	return New(products), nil
}

// FindProduct returns the product with the given id, or nil.
func (m *Memory) FindProduct(productID string) *domain.Product {
	return m.byID[productID]
}

// FindVariant returns the variant with the given id under product, or nil.
func (m *Memory) FindVariant(product *domain.Product, variantID string) *domain.Variant {
	return FindVariant(product, variantID)
}

// Products returns all catalog records in catalog order.
func (m *Memory) Products() []domain.Product {
	return m.products
}

// List returns the products matching the given filter.
func (m *Memory) List(f domain.ProductFilter) []domain.Product {
	return Filter(m.products, f)
}
