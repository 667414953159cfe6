package service

import (
	"context"

	"github.com/openkicks/storefront/internal/catalog"
	"github.com/openkicks/storefront/internal/domain"
)

// ProductService provides read-only catalog listing and lookup.
type ProductService interface {
	// ListProducts returns the products matching the filter, in catalog
	// order.
	ListProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error)

	// GetProduct returns a single product by id.
	GetProduct(ctx context.Context, productID string) (*domain.Product, error)
}

type productService struct {
	catalog *catalog.Memory
}

// NewProductService creates a new ProductService instance.
func NewProductService(c *catalog.Memory) ProductService {
	return &productService{catalog: c}
}

func (s *productService) ListProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	return s.catalog.List(filter), nil
}

func (s *productService) GetProduct(ctx context.Context, productID string) (*domain.Product, error) {
	product := s.catalog.FindProduct(productID)
	if product == nil {
		return nil, ErrProductNotFound
	}
	return product, nil
}
