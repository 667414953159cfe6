package service

import (
	"context"

	"github.com/openkicks/storefront/internal/catalog"
	"github.com/openkicks/storefront/internal/domain"
	"github.com/openkicks/storefront/internal/store"
	"github.com/openkicks/storefront/internal/telemetry"
)

// CartService provides business logic for shopping cart operations.
type CartService interface {
	// CreateCart allocates a fresh cart with a server-minted id.
	CreateCart(ctx context.Context) (*CartSummary, error)

	// GetCart returns the cart for cartID, creating an empty one if absent.
	GetCart(ctx context.Context, cartID string) (*CartSummary, error)

	// AddItem resolves the product (and variant) and merges the requested
	// quantity into the line keyed by productId[:variantId], refreshing the
	// price/name/image snapshots from the current catalog state.
	AddItem(ctx context.Context, cartID string, input AddItemInput) (*CartSummary, error)

	// UpdateItem sets the line's quantity to exactly quantity (replace, not
	// merge), re-validating stock and refreshing the price snapshot.
	// Returns ErrLineNotFound if the cart has no such line.
	UpdateItem(ctx context.Context, cartID, itemID string, quantity int) (*CartSummary, error)

	// RemoveItem filters out the line. Removing an absent line is a no-op.
	RemoveItem(ctx context.Context, cartID, itemID string) (*CartSummary, error)

	// ClearCart empties all lines. Idempotent.
	ClearCart(ctx context.Context, cartID string) (*CartSummary, error)
}

// AddItemInput carries the boundary-validated add request.
type AddItemInput struct {
	ProductID string
	VariantID string
	Quantity  int
}

// CartSummary aggregates a cart with its derived totals.
type CartSummary struct {
	Cart   *domain.Cart  `json:"cart"`
	Totals domain.Totals `json:"totals"`
}

type cartService struct {
	store   store.Store
	catalog catalog.Reader
	metrics *telemetry.BusinessMetrics
}

// NewCartService creates a new CartService instance. metrics may be nil.
func NewCartService(s store.Store, c catalog.Reader, metrics *telemetry.BusinessMetrics) CartService {
	return &cartService{store: s, catalog: c, metrics: metrics}
}

func summarize(cart *domain.Cart) *CartSummary {
	return &CartSummary{Cart: cart, Totals: cart.ComputeTotals()}
}

func (s *cartService) CreateCart(ctx context.Context) (*CartSummary, error) {
	cart, err := s.store.CreateCart(ctx)
	if err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.CartsCreated.Inc()
	}
	return summarize(cart), nil
}

func (s *cartService) GetCart(ctx context.Context, cartID string) (*CartSummary, error) {
	cart, err := s.store.GetCart(ctx, cartID)
	if err != nil {
		return nil, err
	}
	return summarize(cart), nil
}

// resolveItem looks up the product and, when a variant id is given, the
// variant beneath it.
func (s *cartService) resolveItem(productID, variantID string) (*domain.Product, *domain.Variant, error) {
	product := s.catalog.FindProduct(productID)
	if product == nil {
		return nil, nil, ErrProductNotFound
	}

	var variant *domain.Variant
	if variantID != "" {
		variant = s.catalog.FindVariant(product, variantID)
		if variant == nil {
			return nil, nil, ErrVariantNotFound
		}
	}
	return product, variant, nil
}

func (s *cartService) AddItem(ctx context.Context, cartID string, input AddItemInput) (*CartSummary, error) {
	if input.Quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	cart, err := s.store.UpdateCart(ctx, cartID, func(cart *domain.Cart) error {
		product, variant, err := s.resolveItem(input.ProductID, input.VariantID)
		if err != nil {
			return err
		}

		lineID := domain.LineID(input.ProductID, input.VariantID)
		merged := input.Quantity
		if existing := cart.Line(lineID); existing != nil {
			merged += existing.Quantity
		}

		if ceiling, limited := domain.StockCeiling(product, variant); limited && merged > ceiling {
			return insufficientStock(lineID, merged, ceiling)
		}

		price := domain.UnitPrice(product, variant)
		line := cart.Line(lineID)
		if line == nil {
			cart.Lines = append(cart.Lines, domain.CartLine{ID: lineID})
			line = &cart.Lines[len(cart.Lines)-1]
		}
		line.ProductID = input.ProductID
		line.VariantID = input.VariantID
		line.Name = domain.DisplayName(product, variant)
		line.Price = price
		line.Quantity = merged
		line.LineTotal = price * int64(merged)
		line.ImageURL = product.ImageURL
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.CartItemsAdded.Add(float64(input.Quantity))
	}
	return summarize(cart), nil
}

func (s *cartService) UpdateItem(ctx context.Context, cartID, itemID string, quantity int) (*CartSummary, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	cart, err := s.store.UpdateCart(ctx, cartID, func(cart *domain.Cart) error {
		line := cart.Line(itemID)
		if line == nil {
			return ErrLineNotFound
		}

		product, variant, err := s.resolveItem(line.ProductID, line.VariantID)
		if err != nil {
			return err
		}

		// update replaces the quantity outright, so the ceiling applies to
		// the new absolute value, not a merge
		if ceiling, limited := domain.StockCeiling(product, variant); limited && quantity > ceiling {
			return insufficientStock(itemID, quantity, ceiling)
		}

		line.Price = domain.UnitPrice(product, variant)
		line.Quantity = quantity
		line.LineTotal = line.Price * int64(quantity)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return summarize(cart), nil
}

func (s *cartService) RemoveItem(ctx context.Context, cartID, itemID string) (*CartSummary, error) {
	cart, err := s.store.UpdateCart(ctx, cartID, func(cart *domain.Cart) error {
		cart.RemoveLine(itemID)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return summarize(cart), nil
}

func (s *cartService) ClearCart(ctx context.Context, cartID string) (*CartSummary, error) {
	cart, err := s.store.UpdateCart(ctx, cartID, func(cart *domain.Cart) error {
		cart.Lines = nil
		return nil
	})
	if err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.CartsCleared.Inc()
	}
	return summarize(cart), nil
}
