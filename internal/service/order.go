package service

import (
	"context"

	"github.com/openkicks/storefront/internal/domain"
	"github.com/openkicks/storefront/internal/store"
)

// OrderService provides read access to the order ledger. Orders are
// permanent history; there are no update or delete operations.
type OrderService interface {
	// GetOrder returns an order with its line snapshots.
	GetOrder(ctx context.Context, orderID string) (*OrderDetail, error)

	// ListOrders returns all orders in append order, without lines.
	ListOrders(ctx context.Context) ([]domain.Order, error)
}

// OrderDetail aggregates an order with its frozen line snapshots.
type OrderDetail struct {
	Order *domain.Order      `json:"order"`
	Lines []domain.OrderLine `json:"items"`
}

type orderService struct {
	store store.Store
}

// NewOrderService creates a new OrderService instance.
func NewOrderService(s store.Store) OrderService {
	return &orderService{store: s}
}

func (s *orderService) GetOrder(ctx context.Context, orderID string) (*OrderDetail, error) {
	order, err := s.store.Order(ctx, orderID)
	if domain.IsCode(err, domain.ENOTFOUND) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	lines, err := s.store.OrderLines(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return &OrderDetail{Order: order, Lines: lines}, nil
}

func (s *orderService) ListOrders(ctx context.Context) ([]domain.Order, error) {
	return s.store.Orders(ctx)
}
