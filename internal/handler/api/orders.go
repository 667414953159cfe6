package api

import (
	"github.com/labstack/echo/v4"
	"github.com/openkicks/storefront/internal/service"
)

// OrderHandler serves the read-only order ledger routes.
type OrderHandler struct {
	orders service.OrderService
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(orders service.OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

// List handles GET /api/orders
func (h *OrderHandler) List(c echo.Context) error {
	orders, err := h.orders.ListOrders(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, orders)
}

// Get handles GET /api/orders/:orderId
func (h *OrderHandler) Get(c echo.Context) error {
	detail, err := h.orders.GetOrder(c.Request().Context(), c.Param("orderId"))
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, detail)
}
