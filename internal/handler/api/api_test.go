package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openkicks/storefront/internal/catalog"
	"github.com/openkicks/storefront/internal/domain"
	"github.com/openkicks/storefront/internal/events"
	"github.com/openkicks/storefront/internal/service"
	"github.com/openkicks/storefront/internal/store"
)

func intPtr(v int) *int       { return &v }
func int64Ptr(v int64) *int64 { return &v }

func testProducts() []domain.Product {
	return []domain.Product{
		{
			ID: "p1", Name: "Runner One", Brand: "Acme", Category: "sneakers",
			Price: 100, Stock: intPtr(3), Sizes: []int{42, 43},
			Variants: []domain.Variant{
				{ID: "red", Name: "Red"},
				{ID: "gold", Name: "Gold", Price: int64Ptr(150), Stock: intPtr(1)},
			},
		},
		{
			ID: "p2", Name: "Court Classic", Brand: "Borealis", Category: "sneakers",
			Price: 250, IsNew: true,
		},
	}
}

// newTestServer wires the full API over the in-memory store so tests
// exercise routing, binding, validation and envelopes end to end.
func newTestServer(t *testing.T) *echo.Echo {
	t.Helper()

	cat := catalog.New(testProducts())
	st := store.NewMemory()

	cartService := service.NewCartService(st, cat, nil)
	checkoutService := service.NewCheckoutService(st, events.NoopPublisher{}, nil, zerolog.Nop())
	orderService := service.NewOrderService(st)
	productService := service.NewProductService(cat)

	e := echo.New()
	e.Validator = NewRequestValidator()
	e.HTTPErrorHandler = HTTPErrorHandler

	products := NewProductHandler(productService)
	cart := NewCartHandler(cartService)
	checkout := NewCheckoutHandler(checkoutService)
	orders := NewOrderHandler(orderService)

	e.GET("/api/products", products.List)
	e.GET("/api/products/:productId", products.Get)
	e.POST("/api/cart", cart.Create)
	e.GET("/api/cart/:cartId", cart.Get)
	e.POST("/api/cart/:cartId/items", cart.AddItem)
	e.PATCH("/api/cart/:cartId/items/:itemId", cart.UpdateItem)
	e.DELETE("/api/cart/:cartId/items/:itemId", cart.RemoveItem)
	e.DELETE("/api/cart/:cartId", cart.Clear)
	e.POST("/api/checkout", checkout.Create)
	e.GET("/api/orders", orders.List)
	e.GET("/api/orders/:orderId", orders.Get)

	return e
}

func doJSON(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

type testEnvelope struct {
	OK    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Message string          `json:"message"`
		Details json.RawMessage `json:"details"`
	} `json:"error"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) testEnvelope {
	t.Helper()
	var env testEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

type cartPayload struct {
	CartID string `json:"cart_id"`
	Cart   struct {
		ID    string `json:"id"`
		Items []struct {
			ID       string `json:"id"`
			Name     string `json:"name"`
			Price    int64  `json:"price"`
			Quantity int    `json:"quantity"`
		} `json:"items"`
	} `json:"cart"`
	Totals struct {
		Subtotal int64 `json:"subtotal"`
		Total    int64 `json:"total"`
		Count    int   `json:"count"`
	} `json:"totals"`
}

func decodeCart(t *testing.T, rec *httptest.ResponseRecorder) cartPayload {
	t.Helper()
	env := decodeEnvelope(t, rec)
	require.True(t, env.OK, "expected success envelope, got %s", rec.Body.String())
	var payload cartPayload
	require.NoError(t, json.Unmarshal(env.Data, &payload))
	return payload
}

func createCart(t *testing.T, e *echo.Echo) string {
	t.Helper()
	rec := doJSON(e, http.MethodPost, "/api/cart", "")
	require.Equal(t, http.StatusOK, rec.Code)
	cartID := rec.Header().Get("x-cart-id")
	require.NotEmpty(t, cartID)
	return cartID
}

func TestCreateCart(t *testing.T) {
	e := newTestServer(t)

	rec := doJSON(e, http.MethodPost, "/api/cart", "")
	require.Equal(t, http.StatusOK, rec.Code)

	payload := decodeCart(t, rec)
	assert.Equal(t, rec.Header().Get("x-cart-id"), payload.CartID)
	assert.Empty(t, payload.Cart.Items)
	assert.Zero(t, payload.Totals.Total)
}

func TestGetCartCreatesOnFirstUse(t *testing.T) {
	e := newTestServer(t)

	rec := doJSON(e, http.MethodGet, "/api/cart/fresh-cart", "")
	require.Equal(t, http.StatusOK, rec.Code)

	payload := decodeCart(t, rec)
	assert.Equal(t, "fresh-cart", payload.CartID)
	assert.Empty(t, payload.Cart.Items)
}

func TestAddItem(t *testing.T) {
	e := newTestServer(t)
	cartID := createCart(t, e)

	rec := doJSON(e, http.MethodPost, "/api/cart/"+cartID+"/items",
		`{"productId":"p1","qty":2}`)
	require.Equal(t, http.StatusOK, rec.Code)

	payload := decodeCart(t, rec)
	require.Len(t, payload.Cart.Items, 1)
	assert.Equal(t, "p1", payload.Cart.Items[0].ID)
	assert.Equal(t, 2, payload.Cart.Items[0].Quantity)
	assert.Equal(t, int64(200), payload.Totals.Subtotal)
}

func TestAddItemMergesQuantities(t *testing.T) {
	e := newTestServer(t)
	cartID := createCart(t, e)

	doJSON(e, http.MethodPost, "/api/cart/"+cartID+"/items", `{"productId":"p1","qty":1}`)
	rec := doJSON(e, http.MethodPost, "/api/cart/"+cartID+"/items", `{"productId":"p1","qty":2}`)
	require.Equal(t, http.StatusOK, rec.Code)

	payload := decodeCart(t, rec)
	require.Len(t, payload.Cart.Items, 1)
	assert.Equal(t, 3, payload.Cart.Items[0].Quantity)
}

func TestAddItemVariantAliases(t *testing.T) {
	e := newTestServer(t)

	for _, body := range []string{
		`{"productId":"p1","variantId":"gold","qty":1}`,
		`{"productId":"p1","variant_id":"gold","qty":1}`,
	} {
		cartID := createCart(t, e)
		rec := doJSON(e, http.MethodPost, "/api/cart/"+cartID+"/items", body)
		require.Equal(t, http.StatusOK, rec.Code, body)

		payload := decodeCart(t, rec)
		require.Len(t, payload.Cart.Items, 1)
		assert.Equal(t, "p1:gold", payload.Cart.Items[0].ID)
		assert.Equal(t, "Runner One - Gold", payload.Cart.Items[0].Name)
		assert.Equal(t, int64(150), payload.Cart.Items[0].Price)
	}
}

func TestAddItemInsufficientStock(t *testing.T) {
	e := newTestServer(t)
	cartID := createCart(t, e)

	rec := doJSON(e, http.MethodPost, "/api/cart/"+cartID+"/items",
		`{"productId":"p1","qty":4}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	env := decodeEnvelope(t, rec)
	assert.False(t, env.OK)
	assert.Contains(t, env.Error.Message, "Insufficient stock")

	// the failed add must not leave a partial line behind
	rec = doJSON(e, http.MethodGet, "/api/cart/"+cartID, "")
	assert.Empty(t, decodeCart(t, rec).Cart.Items)
}

func TestAddItemUnknownProduct(t *testing.T) {
	e := newTestServer(t)
	cartID := createCart(t, e)

	rec := doJSON(e, http.MethodPost, "/api/cart/"+cartID+"/items",
		`{"productId":"nope","qty":1}`)
	require.Equal(t, http.StatusNotFound, rec.Code)

	env := decodeEnvelope(t, rec)
	assert.Equal(t, "Product not found", env.Error.Message)
}

func TestAddItemValidation(t *testing.T) {
	e := newTestServer(t)
	cartID := createCart(t, e)

	tests := []struct {
		name string
		body string
	}{
		{"missing product", `{"qty":1}`},
		{"missing qty", `{"productId":"p1"}`},
		{"zero qty", `{"productId":"p1","qty":0}`},
		{"negative qty", `{"productId":"p1","qty":-2}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(e, http.MethodPost, "/api/cart/"+cartID+"/items", tt.body)
			require.Equal(t, http.StatusBadRequest, rec.Code)

			env := decodeEnvelope(t, rec)
			assert.False(t, env.OK)
			assert.Equal(t, "Validation failed", env.Error.Message)
			assert.NotEmpty(t, env.Error.Details)
		})
	}
}

func TestUpdateItemReplacesQuantity(t *testing.T) {
	e := newTestServer(t)
	cartID := createCart(t, e)
	doJSON(e, http.MethodPost, "/api/cart/"+cartID+"/items", `{"productId":"p1","qty":1}`)

	rec := doJSON(e, http.MethodPatch, "/api/cart/"+cartID+"/items/p1", `{"qty":3}`)
	require.Equal(t, http.StatusOK, rec.Code)

	payload := decodeCart(t, rec)
	require.Len(t, payload.Cart.Items, 1)
	assert.Equal(t, 3, payload.Cart.Items[0].Quantity)
	assert.Equal(t, int64(300), payload.Totals.Total)
}

func TestUpdateItemNotFound(t *testing.T) {
	e := newTestServer(t)
	cartID := createCart(t, e)

	rec := doJSON(e, http.MethodPatch, "/api/cart/"+cartID+"/items/ghost", `{"qty":3}`)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Item not found", decodeEnvelope(t, rec).Error.Message)
}

func TestRemoveItemIsIdempotent(t *testing.T) {
	e := newTestServer(t)
	cartID := createCart(t, e)
	doJSON(e, http.MethodPost, "/api/cart/"+cartID+"/items", `{"productId":"p1","qty":1}`)

	rec := doJSON(e, http.MethodDelete, "/api/cart/"+cartID+"/items/p1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decodeCart(t, rec).Cart.Items)

	rec = doJSON(e, http.MethodDelete, "/api/cart/"+cartID+"/items/p1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decodeCart(t, rec).Cart.Items)
}

func TestClearCart(t *testing.T) {
	e := newTestServer(t)
	cartID := createCart(t, e)
	doJSON(e, http.MethodPost, "/api/cart/"+cartID+"/items", `{"productId":"p1","qty":1}`)
	doJSON(e, http.MethodPost, "/api/cart/"+cartID+"/items", `{"productId":"p2","qty":2}`)

	rec := doJSON(e, http.MethodDelete, "/api/cart/"+cartID, "")
	require.Equal(t, http.StatusOK, rec.Code)

	payload := decodeCart(t, rec)
	assert.Empty(t, payload.Cart.Items)
	assert.Zero(t, payload.Totals.Count)
}

func TestCheckout(t *testing.T) {
	e := newTestServer(t)
	cartID := createCart(t, e)
	doJSON(e, http.MethodPost, "/api/cart/"+cartID+"/items", `{"productId":"p1","qty":2}`)

	body := fmt.Sprintf(`{
		"cart_id": %q,
		"shipping": {"name": "Ada", "phone": "5551234", "address": "1 Main St"},
		"payment_method": "COD"
	}`, cartID)
	rec := doJSON(e, http.MethodPost, "/api/checkout", body)
	require.Equal(t, http.StatusOK, rec.Code)

	env := decodeEnvelope(t, rec)
	require.True(t, env.OK)
	var result struct {
		OrderID       string `json:"order_id"`
		Amount        int64  `json:"amount"`
		PaymentStatus string `json:"payment_status"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &result))
	assert.True(t, strings.HasPrefix(result.OrderID, "ord_"))
	assert.Equal(t, int64(200), result.Amount)
	assert.Equal(t, "unpaid", result.PaymentStatus)

	// checkout empties the cart
	rec = doJSON(e, http.MethodGet, "/api/cart/"+cartID, "")
	assert.Empty(t, decodeCart(t, rec).Cart.Items)

	// the order is readable from the ledger with its line snapshots
	rec = doJSON(e, http.MethodGet, "/api/orders/"+result.OrderID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	env = decodeEnvelope(t, rec)
	require.True(t, env.OK)
	var detail struct {
		Order struct {
			ID            string `json:"id"`
			Amount        int64  `json:"amount"`
			PaymentStatus string `json:"payment_status"`
		} `json:"order"`
		Items []struct {
			Quantity int `json:"quantity"`
		} `json:"items"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &detail))
	assert.Equal(t, result.OrderID, detail.Order.ID)
	require.Len(t, detail.Items, 1)
	assert.Equal(t, 2, detail.Items[0].Quantity)
}

func TestCheckoutBankIsPending(t *testing.T) {
	e := newTestServer(t)
	cartID := createCart(t, e)
	doJSON(e, http.MethodPost, "/api/cart/"+cartID+"/items", `{"productId":"p2","qty":1}`)

	body := fmt.Sprintf(`{
		"cart_id": %q,
		"shipping": {"name": "Ada", "phone": "5551234", "address": "1 Main St"},
		"payment_method": "bank"
	}`, cartID)
	rec := doJSON(e, http.MethodPost, "/api/checkout", body)
	require.Equal(t, http.StatusOK, rec.Code)

	env := decodeEnvelope(t, rec)
	var result struct {
		PaymentStatus string `json:"payment_status"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &result))
	assert.Equal(t, "pending", result.PaymentStatus)
}

func TestCheckoutEmptyCart(t *testing.T) {
	e := newTestServer(t)
	cartID := createCart(t, e)

	body := fmt.Sprintf(`{
		"cart_id": %q,
		"shipping": {"name": "Ada", "phone": "5551234", "address": "1 Main St"},
		"payment_method": "COD"
	}`, cartID)
	rec := doJSON(e, http.MethodPost, "/api/checkout", body)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Cart is empty", decodeEnvelope(t, rec).Error.Message)
}

func TestCheckoutValidation(t *testing.T) {
	e := newTestServer(t)

	tests := []struct {
		name string
		body string
	}{
		{"missing cart", `{"shipping":{"name":"Ada","phone":"5551234","address":"1 Main St"},"payment_method":"COD"}`},
		{"missing shipping name", `{"cart_id":"c1","shipping":{"phone":"5551234","address":"1 Main St"},"payment_method":"COD"}`},
		{"short phone", `{"cart_id":"c1","shipping":{"name":"Ada","phone":"55","address":"1 Main St"},"payment_method":"COD"}`},
		{"bad method", `{"cart_id":"c1","shipping":{"name":"Ada","phone":"5551234","address":"1 Main St"},"payment_method":"paypal"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(e, http.MethodPost, "/api/checkout", tt.body)
			require.Equal(t, http.StatusBadRequest, rec.Code)
			assert.False(t, decodeEnvelope(t, rec).OK)
		})
	}
}

func TestGetOrderNotFound(t *testing.T) {
	e := newTestServer(t)

	rec := doJSON(e, http.MethodGet, "/api/orders/ord_missing", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Order not found", decodeEnvelope(t, rec).Error.Message)
}

func TestListProducts(t *testing.T) {
	e := newTestServer(t)

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"all", "", []string{"p1", "p2"}},
		{"by brand", "?brand=acme", []string{"p1"}},
		{"by tag", "?tag=new", []string{"p2"}},
		{"by size", "?size=42", []string{"p1"}},
		{"by price range", "?price_min=200&price_max=300", []string{"p2"}},
		{"no match", "?brand=nobody", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(e, http.MethodGet, "/api/products"+tt.query, "")
			require.Equal(t, http.StatusOK, rec.Code)

			env := decodeEnvelope(t, rec)
			require.True(t, env.OK)
			var products []struct {
				ID string `json:"id"`
			}
			require.NoError(t, json.Unmarshal(env.Data, &products))
			var ids []string
			for _, p := range products {
				ids = append(ids, p.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestListProductsBadFilter(t *testing.T) {
	e := newTestServer(t)

	tests := []struct {
		name    string
		query   string
		message string
	}{
		{"bad price_min", "?price_min=abc", "Invalid price_min filter"},
		{"bad price_max", "?price_max=1.5x", "Invalid price_max filter"},
		{"bad size", "?size=huge", "Invalid size filter"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(e, http.MethodGet, "/api/products"+tt.query, "")
			require.Equal(t, http.StatusBadRequest, rec.Code)

			env := decodeEnvelope(t, rec)
			assert.False(t, env.OK)
			require.NotNil(t, env.Error)
			assert.Equal(t, tt.message, env.Error.Message)
		})
	}
}

func TestGetProduct(t *testing.T) {
	e := newTestServer(t)

	rec := doJSON(e, http.MethodGet, "/api/products/p1", "")
	require.Equal(t, http.StatusOK, rec.Code)

	env := decodeEnvelope(t, rec)
	require.True(t, env.OK)
	var product struct {
		ID       string `json:"id"`
		Variants []struct {
			ID string `json:"id"`
		} `json:"variants"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &product))
	assert.Equal(t, "p1", product.ID)
	assert.Len(t, product.Variants, 2)

	rec = doJSON(e, http.MethodGet, "/api/products/nope", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Product not found", decodeEnvelope(t, rec).Error.Message)
}

func TestUnknownRouteUsesEnvelope(t *testing.T) {
	e := newTestServer(t)

	rec := doJSON(e, http.MethodGet, "/api/nope", "")
	require.Equal(t, http.StatusNotFound, rec.Code)

	env := decodeEnvelope(t, rec)
	assert.False(t, env.OK)
	require.NotNil(t, env.Error)
}
