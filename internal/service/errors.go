package service

import (
	"github.com/openkicks/storefront/internal/domain"
)

// Lookup failures - use domain.ENOTFOUND
var (
	ErrProductNotFound = domain.Errorf(domain.ENOTFOUND, "", "Product not found")
	ErrVariantNotFound = domain.Errorf(domain.ENOTFOUND, "", "Variant not found")
	ErrLineNotFound    = domain.Errorf(domain.ENOTFOUND, "", "Item not found")
	ErrOrderNotFound   = domain.Errorf(domain.ENOTFOUND, "", "Order not found")
)

// Business-rule failures - use domain.EINVALID
var (
	ErrEmptyCart          = domain.Errorf(domain.EINVALID, "", "Cart is empty")
	ErrInvalidQuantity    = domain.Errorf(domain.EINVALID, "", "Quantity must be greater than 0")
	ErrInvalidPaymentMeth = domain.Errorf(domain.EINVALID, "", "Unsupported payment method")
)

// insufficientStock builds an InsufficientStock error carrying the offending
// line, the attempted quantity and the ceiling, so the boundary can produce
// an actionable message.
func insufficientStock(lineID string, requested, ceiling int) error {
	return domain.Errorf(domain.EINVALID, "cart.stock",
		"Insufficient stock for %s: requested %d, only %d available", lineID, requested, ceiling)
}
