package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/openkicks/storefront/internal/domain"
	"github.com/openkicks/storefront/internal/store"
)

// Store implements store.Store over a pgx connection pool.
type Store struct {
	pool *pgxpool.Pool
}

// Compile-time check that Store implements store.Store.
var _ store.Store = (*Store)(nil)

// NewStore creates a PostgreSQL-backed store.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// CreateCart allocates a fresh unique id and registers an empty cart.
func (s *Store) CreateCart(ctx context.Context) (*domain.Cart, error) {
	id := uuid.NewString()
	if _, err := s.pool.Exec(ctx, `INSERT INTO carts (id) VALUES ($1)`, id); err != nil {
		return nil, domain.Internal(err, "store.create_cart", "failed to create cart")
	}
	return &domain.Cart{ID: id}, nil
}

// GetCart returns the cart for cartID, registering an empty one if absent.
func (s *Store) GetCart(ctx context.Context, cartID string) (*domain.Cart, error) {
	if _, err := s.pool.Exec(ctx,
		`INSERT INTO carts (id) VALUES ($1) ON CONFLICT (id) DO NOTHING`, cartID); err != nil {
		return nil, domain.Internal(err, "store.get_cart", "failed to register cart")
	}

	lines, err := s.loadLines(ctx, s.pool, cartID)
	if err != nil {
		return nil, domain.Internal(err, "store.get_cart", "failed to load cart lines")
	}
	return &domain.Cart{ID: cartID, Lines: lines}, nil
}

// UpdateCart applies fn to the cart inside a transaction that holds the
// cart's row lock, serializing concurrent mutations on the same cart id.
func (s *Store) UpdateCart(ctx context.Context, cartID string, fn func(cart *domain.Cart) error) (*domain.Cart, error) {
	var out *domain.Cart
	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		cart, err := s.lockCart(ctx, tx, cartID)
		if err != nil {
			return err
		}
		if err := fn(cart); err != nil {
			return err
		}
		if err := s.writeLines(ctx, tx, cart); err != nil {
			return err
		}
		out = cart
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Checkout appends the order and its line snapshots and clears the cart in
// one transaction under the cart's row lock.
func (s *Store) Checkout(ctx context.Context, cartID string, fn func(cart *domain.Cart) (*domain.Order, []domain.OrderLine, error)) (*domain.Order, error) {
	var out *domain.Order
	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		cart, err := s.lockCart(ctx, tx, cartID)
		if err != nil {
			return err
		}

		order, lines, err := fn(cart)
		if err != nil {
			return err
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO orders (id, cart_id, shipping_name, shipping_phone, shipping_address,
			                    note, payment_method, amount, status, payment_status, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
			order.ID, order.CartID, order.Shipping.Name, order.Shipping.Phone, order.Shipping.Address,
			order.Note, string(order.PaymentMethod), order.Amount, order.Status, order.PaymentStatus, order.CreatedAt)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" {
				return domain.Errorf(domain.ECONFLICT, "store.checkout", "order id already exists: %s", order.ID)
			}
			return domain.Internal(err, "store.checkout", "failed to append order")
		}

		for i, line := range lines {
			_, err = tx.Exec(ctx, `
				INSERT INTO order_lines (id, order_id, product_id, variant_id, name,
				                         price, quantity, line_total, image_url, position)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
				line.ID, line.OrderID, line.ProductID, line.VariantID, line.Name,
				line.Price, line.Quantity, line.LineTotal, line.ImageURL, i)
			if err != nil {
				return domain.Internal(err, "store.checkout", "failed to append order line")
			}
		}

		if _, err = tx.Exec(ctx, `DELETE FROM cart_lines WHERE cart_id = $1`, cartID); err != nil {
			return domain.Internal(err, "store.checkout", "failed to clear cart")
		}

		out = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Order returns the order with the given id.
func (s *Store) Order(ctx context.Context, orderID string) (*domain.Order, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, cart_id, shipping_name, shipping_phone, shipping_address,
		       note, payment_method, amount, status, payment_status, created_at
		FROM orders WHERE id = $1`, orderID)

	var o domain.Order
	var method string
	err := row.Scan(&o.ID, &o.CartID, &o.Shipping.Name, &o.Shipping.Phone, &o.Shipping.Address,
		&o.Note, &method, &o.Amount, &o.Status, &o.PaymentStatus, &o.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFound("store.order", "order", orderID)
		}
		return nil, domain.Internal(err, "store.order", "failed to load order")
	}
	o.PaymentMethod = domain.PaymentMethod(method)
	return &o, nil
}

// OrderLines returns the line snapshots for an order in append order.
func (s *Store) OrderLines(ctx context.Context, orderID string) ([]domain.OrderLine, error) {
	if _, err := s.Order(ctx, orderID); err != nil {
		return nil, err
	}

	rows, err := s.pool.Query(ctx, `
		SELECT id, order_id, product_id, variant_id, name, price, quantity, line_total, image_url
		FROM order_lines WHERE order_id = $1 ORDER BY position`, orderID)
	if err != nil {
		return nil, domain.Internal(err, "store.order_lines", "failed to load order lines")
	}
	defer rows.Close()

	var lines []domain.OrderLine
	for rows.Next() {
		var l domain.OrderLine
		if err := rows.Scan(&l.ID, &l.OrderID, &l.ProductID, &l.VariantID, &l.Name,
			&l.Price, &l.Quantity, &l.LineTotal, &l.ImageURL); err != nil {
			return nil, domain.Internal(err, "store.order_lines", "failed to scan order line")
		}
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Internal(err, "store.order_lines", "failed to read order lines")
	}
	return lines, nil
}

// Orders returns all orders in append order.
func (s *Store) Orders(ctx context.Context) ([]domain.Order, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, cart_id, shipping_name, shipping_phone, shipping_address,
		       note, payment_method, amount, status, payment_status, created_at
		FROM orders ORDER BY seq`)
	if err != nil {
		return nil, domain.Internal(err, "store.orders", "failed to list orders")
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		var o domain.Order
		var method string
		if err := rows.Scan(&o.ID, &o.CartID, &o.Shipping.Name, &o.Shipping.Phone, &o.Shipping.Address,
			&o.Note, &method, &o.Amount, &o.Status, &o.PaymentStatus, &o.CreatedAt); err != nil {
			return nil, domain.Internal(err, "store.orders", "failed to scan order")
		}
		o.PaymentMethod = domain.PaymentMethod(method)
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Internal(err, "store.orders", "failed to read orders")
	}
	return orders, nil
}

// lockCart registers the cart if absent, acquires its row lock and loads its
// lines. Must run inside a transaction; the lock is held until commit.
func (s *Store) lockCart(ctx context.Context, tx pgx.Tx, cartID string) (*domain.Cart, error) {
	if _, err := tx.Exec(ctx,
		`INSERT INTO carts (id) VALUES ($1) ON CONFLICT (id) DO NOTHING`, cartID); err != nil {
		return nil, domain.Internal(err, "store.lock_cart", "failed to register cart")
	}

	var id string
	if err := tx.QueryRow(ctx, `SELECT id FROM carts WHERE id = $1 FOR UPDATE`, cartID).Scan(&id); err != nil {
		return nil, domain.Internal(err, "store.lock_cart", "failed to lock cart")
	}

	lines, err := s.loadLines(ctx, tx, cartID)
	if err != nil {
		return nil, domain.Internal(err, "store.lock_cart", "failed to load cart lines")
	}
	return &domain.Cart{ID: cartID, Lines: lines}, nil
}

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func (s *Store) loadLines(ctx context.Context, q querier, cartID string) ([]domain.CartLine, error) {
	rows, err := q.Query(ctx, `
		SELECT line_id, product_id, variant_id, name, price, quantity, line_total, image_url
		FROM cart_lines WHERE cart_id = $1 ORDER BY position`, cartID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []domain.CartLine
	for rows.Next() {
		var l domain.CartLine
		if err := rows.Scan(&l.ID, &l.ProductID, &l.VariantID, &l.Name,
			&l.Price, &l.Quantity, &l.LineTotal, &l.ImageURL); err != nil {
			return nil, err
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

// writeLines replaces the cart's stored lines with the in-memory state. The
// caller holds the cart's row lock.
func (s *Store) writeLines(ctx context.Context, tx pgx.Tx, cart *domain.Cart) error {
	if _, err := tx.Exec(ctx, `DELETE FROM cart_lines WHERE cart_id = $1`, cart.ID); err != nil {
		return domain.Internal(err, "store.write_lines", "failed to clear cart lines")
	}
	for i, line := range cart.Lines {
		_, err := tx.Exec(ctx, `
			INSERT INTO cart_lines (cart_id, line_id, product_id, variant_id, name,
			                        price, quantity, line_total, image_url, position)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			cart.ID, line.ID, line.ProductID, line.VariantID, line.Name,
			line.Price, line.Quantity, line.LineTotal, line.ImageURL, i)
		if err != nil {
			return domain.Internal(err, "store.write_lines", "failed to write cart line")
		}
	}
	return nil
}
