package store

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/openkicks/storefront/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_CreateCart(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	a, err := m.CreateCart(ctx)
	require.NoError(t, err)
	b, err := m.CreateCart(ctx)
	require.NoError(t, err)

	assert.NotEmpty(t, a.ID)
	assert.NotEqual(t, a.ID, b.ID)
	assert.True(t, a.IsEmpty())
}

func TestMemory_GetCart_GetOrCreate(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	// unknown id registers an empty cart under that exact id
	cart, err := m.GetCart(ctx, "client-minted-id")
	require.NoError(t, err)
	assert.Equal(t, "client-minted-id", cart.ID)
	assert.True(t, cart.IsEmpty())

	// second get returns the same cart
	_, err = m.UpdateCart(ctx, "client-minted-id", func(c *domain.Cart) error {
		c.Lines = append(c.Lines, domain.CartLine{ID: "p1", ProductID: "p1", Price: 100, Quantity: 1, LineTotal: 100})
		return nil
	})
	require.NoError(t, err)

	again, err := m.GetCart(ctx, "client-minted-id")
	require.NoError(t, err)
	assert.Len(t, again.Lines, 1)
}

func TestMemory_UpdateCart_RollsBackOnError(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	_, err := m.UpdateCart(ctx, "c1", func(c *domain.Cart) error {
		c.Lines = append(c.Lines, domain.CartLine{ID: "p1", Quantity: 3, Price: 10, LineTotal: 30})
		return nil
	})
	require.NoError(t, err)

	boom := errors.New("validation failed")
	_, err = m.UpdateCart(ctx, "c1", func(c *domain.Cart) error {
		c.Lines[0].Quantity = 99
		return boom
	})
	require.ErrorIs(t, err, boom)

	cart, err := m.GetCart(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, 3, cart.Lines[0].Quantity, "failed mutation must leave prior state untouched")
}

func TestMemory_UpdateCart_ReturnsCopy(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	got, err := m.UpdateCart(ctx, "c1", func(c *domain.Cart) error {
		c.Lines = append(c.Lines, domain.CartLine{ID: "p1", Quantity: 1, Price: 10, LineTotal: 10})
		return nil
	})
	require.NoError(t, err)

	// mutating the returned cart must not leak into the store
	got.Lines[0].Quantity = 42

	cart, err := m.GetCart(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, 1, cart.Lines[0].Quantity)
}

func TestMemory_Checkout(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	_, err := m.UpdateCart(ctx, "c1", func(c *domain.Cart) error {
		c.Lines = append(c.Lines, domain.CartLine{ID: "p1", ProductID: "p1", Price: 100, Quantity: 5, LineTotal: 500})
		return nil
	})
	require.NoError(t, err)

	order, err := m.Checkout(ctx, "c1", func(c *domain.Cart) (*domain.Order, []domain.OrderLine, error) {
		o := &domain.Order{
			ID:        "ord_1",
			CartID:    c.ID,
			Amount:    c.ComputeTotals().Total,
			Status:    domain.OrderStatusCreated,
			CreatedAt: time.Now(),
		}
		lines := make([]domain.OrderLine, len(c.Lines))
		for i, l := range c.Lines {
			lines[i] = domain.OrderLine{
				ID:        domain.OrderLineID(o.ID, l.ID),
				OrderID:   o.ID,
				ProductID: l.ProductID,
				Price:     l.Price,
				Quantity:  l.Quantity,
				LineTotal: l.LineTotal,
			}
		}
		return o, lines, nil
	})
	require.NoError(t, err)
	assert.Equal(t, int64(500), order.Amount)

	// cart emptied
	cart, err := m.GetCart(ctx, "c1")
	require.NoError(t, err)
	assert.True(t, cart.IsEmpty())

	// order and lines visible in the ledger
	got, err := m.Order(ctx, "ord_1")
	require.NoError(t, err)
	assert.Equal(t, "c1", got.CartID)

	lines, err := m.OrderLines(ctx, "ord_1")
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, "ord_1:p1", lines[0].ID)
}

func TestMemory_Checkout_BuilderErrorKeepsCart(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	_, err := m.UpdateCart(ctx, "c1", func(c *domain.Cart) error {
		c.Lines = append(c.Lines, domain.CartLine{ID: "p1", Price: 10, Quantity: 1, LineTotal: 10})
		return nil
	})
	require.NoError(t, err)

	boom := errors.New("empty cart")
	_, err = m.Checkout(ctx, "c1", func(c *domain.Cart) (*domain.Order, []domain.OrderLine, error) {
		return nil, nil, boom
	})
	require.ErrorIs(t, err, boom)

	cart, err := m.GetCart(ctx, "c1")
	require.NoError(t, err)
	assert.Len(t, cart.Lines, 1, "failed checkout must not clear the cart")

	orders, err := m.Orders(ctx)
	require.NoError(t, err)
	assert.Empty(t, orders, "failed checkout must not append an order")
}

func TestMemory_Checkout_DuplicateOrderID(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	build := func(c *domain.Cart) (*domain.Order, []domain.OrderLine, error) {
		return &domain.Order{ID: "ord_dup", CartID: c.ID, Status: domain.OrderStatusCreated}, nil, nil
	}

	_, err := m.Checkout(ctx, "c1", build)
	require.NoError(t, err)

	_, err = m.Checkout(ctx, "c2", build)
	require.Error(t, err)
	assert.Equal(t, domain.ECONFLICT, domain.ErrorCode(err))
}

func TestMemory_Order_NotFound(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	_, err := m.Order(ctx, "nope")
	assert.Equal(t, domain.ENOTFOUND, domain.ErrorCode(err))

	_, err = m.OrderLines(ctx, "nope")
	assert.Equal(t, domain.ENOTFOUND, domain.ErrorCode(err))
}

// Two concurrent merged adds on the same line must not lose an update.
func TestMemory_UpdateCart_SerializesPerCart(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	const workers = 50
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			_, err := m.UpdateCart(ctx, "c1", func(c *domain.Cart) error {
				if line := c.Line("p1"); line != nil {
					line.Quantity++
					line.LineTotal = line.Price * int64(line.Quantity)
					return nil
				}
				c.Lines = append(c.Lines, domain.CartLine{ID: "p1", ProductID: "p1", Price: 10, Quantity: 1, LineTotal: 10})
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	cart, err := m.GetCart(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, cart.Lines, 1)
	assert.Equal(t, workers, cart.Lines[0].Quantity)
	assert.Equal(t, int64(10*workers), cart.Lines[0].LineTotal)
}
