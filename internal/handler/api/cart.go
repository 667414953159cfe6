package api

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/openkicks/storefront/internal/service"
)

// CartHandler handles all cart routes.
type CartHandler struct {
	carts service.CartService
}

// NewCartHandler creates a new cart handler.
func NewCartHandler(carts service.CartService) *CartHandler {
	return &CartHandler{carts: carts}
}

type addItemRequest struct {
	ProductID string `json:"productId" validate:"required"`
	VariantID string `json:"variantId"`
	// accepted as an alias for variantId, matching older clients
	VariantIDSnake string `json:"variant_id"`
	Qty            int    `json:"qty" validate:"required,gte=1"`
}

type updateItemRequest struct {
	Qty int `json:"qty" validate:"required,gte=1"`
}

// cartData is the payload shape shared by every cart response.
type cartData struct {
	*service.CartSummary
	CartID string `json:"cart_id"`
}

func wrapCart(summary *service.CartSummary) cartData {
	return cartData{CartSummary: summary, CartID: summary.Cart.ID}
}

// cartIDParam extracts and trims the :cartId path parameter.
func cartIDParam(c echo.Context) (string, bool) {
	cartID := strings.TrimSpace(c.Param("cartId"))
	if cartID == "" {
		_ = c.JSON(http.StatusBadRequest, envelope{
			Error: &apiError{Message: "Missing cartId"},
		})
		return "", false
	}
	return cartID, true
}

// Create handles POST /api/cart
func (h *CartHandler) Create(c echo.Context) error {
	summary, err := h.carts.CreateCart(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	c.Response().Header().Set("x-cart-id", summary.Cart.ID)
	return respond(c, wrapCart(summary))
}

// Get handles GET /api/cart/:cartId
func (h *CartHandler) Get(c echo.Context) error {
	cartID, ok := cartIDParam(c)
	if !ok {
		return nil
	}

	summary, err := h.carts.GetCart(c.Request().Context(), cartID)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, wrapCart(summary))
}

// AddItem handles POST /api/cart/:cartId/items
func (h *CartHandler) AddItem(c echo.Context) error {
	cartID, ok := cartIDParam(c)
	if !ok {
		return nil
	}

	var req addItemRequest
	if !bindAndValidate(c, &req) {
		return nil
	}

	variantID := req.VariantID
	if variantID == "" {
		variantID = req.VariantIDSnake
	}

	summary, err := h.carts.AddItem(c.Request().Context(), cartID, service.AddItemInput{
		ProductID: req.ProductID,
		VariantID: variantID,
		Quantity:  req.Qty,
	})
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, wrapCart(summary))
}

// UpdateItem handles PATCH /api/cart/:cartId/items/:itemId
func (h *CartHandler) UpdateItem(c echo.Context) error {
	cartID, ok := cartIDParam(c)
	if !ok {
		return nil
	}
	itemID := c.Param("itemId")

	var req updateItemRequest
	if !bindAndValidate(c, &req) {
		return nil
	}

	summary, err := h.carts.UpdateItem(c.Request().Context(), cartID, itemID, req.Qty)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, wrapCart(summary))
}

// RemoveItem handles DELETE /api/cart/:cartId/items/:itemId
func (h *CartHandler) RemoveItem(c echo.Context) error {
	cartID, ok := cartIDParam(c)
	if !ok {
		return nil
	}

	summary, err := h.carts.RemoveItem(c.Request().Context(), cartID, c.Param("itemId"))
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, wrapCart(summary))
}

// Clear handles DELETE /api/cart/:cartId
func (h *CartHandler) Clear(c echo.Context) error {
	cartID, ok := cartIDParam(c)
	if !ok {
		return nil
	}

	summary, err := h.carts.ClearCart(c.Request().Context(), cartID)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, wrapCart(summary))
}
