package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/openkicks/storefront/internal/domain"
	"github.com/openkicks/storefront/internal/events"
	"github.com/openkicks/storefront/internal/store"
	"github.com/openkicks/storefront/internal/telemetry"
	"github.com/rs/zerolog"
)

// CheckoutService converts a non-empty cart into an immutable order.
type CheckoutService interface {
	// Checkout snapshots the cart's totals and lines into a new order
	// appended to the ledger and empties the source cart, all as one unit.
	Checkout(ctx context.Context, input CheckoutInput) (*CheckoutResult, error)
}

// CheckoutInput carries the boundary-validated checkout request.
type CheckoutInput struct {
	CartID        string
	Shipping      domain.ShippingInfo
	Note          string
	PaymentMethod domain.PaymentMethod
}

// CheckoutResult is the order plus the totals frozen at the checkout
// instant.
type CheckoutResult struct {
	Order  *domain.Order `json:"order"`
	Totals domain.Totals `json:"totals"`
}

type checkoutService struct {
	store     store.Store
	publisher events.Publisher
	metrics   *telemetry.BusinessMetrics
	logger    zerolog.Logger
	ids       orderIDSource
	now       func() time.Time
}

// NewCheckoutService creates a new CheckoutService instance. publisher and
// metrics may be nil.
func NewCheckoutService(s store.Store, publisher events.Publisher, metrics *telemetry.BusinessMetrics, logger zerolog.Logger) CheckoutService {
	return &checkoutService{
		store:     s,
		publisher: publisher,
		metrics:   metrics,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *checkoutService) Checkout(ctx context.Context, input CheckoutInput) (*CheckoutResult, error) {
	if !input.PaymentMethod.Valid() {
		return nil, ErrInvalidPaymentMeth
	}

	var totals domain.Totals
	order, err := s.store.Checkout(ctx, input.CartID, func(cart *domain.Cart) (*domain.Order, []domain.OrderLine, error) {
		if cart.IsEmpty() {
			return nil, nil, ErrEmptyCart
		}

		totals = cart.ComputeTotals()
		now := s.now()

		order := &domain.Order{
			ID:            s.ids.next(now),
			CartID:        cart.ID,
			Shipping:      input.Shipping,
			Note:          input.Note,
			PaymentMethod: input.PaymentMethod,
			Amount:        totals.Total,
			Status:        domain.OrderStatusCreated,
			PaymentStatus: domain.DerivePaymentStatus(input.PaymentMethod),
			CreatedAt:     now,
		}

		lines := make([]domain.OrderLine, len(cart.Lines))
		for i, l := range cart.Lines {
			lines[i] = domain.OrderLine{
				ID:        domain.OrderLineID(order.ID, l.ID),
				OrderID:   order.ID,
				ProductID: l.ProductID,
				VariantID: l.VariantID,
				Name:      l.Name,
				Price:     l.Price,
				Quantity:  l.Quantity,
				LineTotal: l.LineTotal,
				ImageURL:  l.ImageURL,
			}
		}
		return order, lines, nil
	})
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.OrdersCreated.Inc()
		s.metrics.OrderValue.Observe(float64(order.Amount))
	}

	// the order is committed; a failed publish is logged, never surfaced
	if s.publisher != nil {
		if err := s.publisher.OrderCreated(ctx, events.OrderCreated{
			OrderID:       order.ID,
			CartID:        order.CartID,
			Amount:        order.Amount,
			PaymentMethod: string(order.PaymentMethod),
			CreatedAt:     order.CreatedAt,
		}); err != nil {
			s.logger.Error().Err(err).Str("order_id", order.ID).Msg("failed to publish order created event")
		}
	}

	return &CheckoutResult{Order: order, Totals: totals}, nil
}

// orderIDSource mints time-derived order ids. Ids within the same
// millisecond are bumped so every id is distinct and ordered.
type orderIDSource struct {
	mu   sync.Mutex
	last int64
}

func (g *orderIDSource) next(now time.Time) string {
	g.mu.Lock()
	defer g.mu.Unlock()

	ms := now.UnixMilli()
	if ms <= g.last {
		ms = g.last + 1
	}
	g.last = ms
	return fmt.Sprintf("ord_%d", ms)
}
