package api

import (
	"github.com/labstack/echo/v4"
	"github.com/openkicks/storefront/internal/domain"
	"github.com/openkicks/storefront/internal/service"
)

// CheckoutHandler handles the checkout route.
type CheckoutHandler struct {
	checkout service.CheckoutService
}

// NewCheckoutHandler creates a new checkout handler.
func NewCheckoutHandler(checkout service.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{checkout: checkout}
}

type shippingRequest struct {
	Name    string `json:"name" validate:"required"`
	Phone   string `json:"phone" validate:"required,min=6"`
	Address string `json:"address" validate:"required,min=3"`
}

type checkoutRequest struct {
	CartID        string          `json:"cart_id" validate:"required"`
	Shipping      shippingRequest `json:"shipping" validate:"required"`
	Note          string          `json:"note"`
	PaymentMethod string          `json:"payment_method" validate:"required,oneof=COD bank"`
}

type checkoutResponse struct {
	OrderID       string `json:"order_id"`
	Amount        int64  `json:"amount"`
	PaymentStatus string `json:"payment_status"`
}

// Create handles POST /api/checkout
func (h *CheckoutHandler) Create(c echo.Context) error {
	var req checkoutRequest
	if !bindAndValidate(c, &req) {
		return nil
	}

	result, err := h.checkout.Checkout(c.Request().Context(), service.CheckoutInput{
		CartID: req.CartID,
		Shipping: domain.ShippingInfo{
			Name:    req.Shipping.Name,
			Phone:   req.Shipping.Phone,
			Address: req.Shipping.Address,
		},
		Note:          req.Note,
		PaymentMethod: domain.PaymentMethod(req.PaymentMethod),
	})
	if err != nil {
		return respondError(c, err)
	}

	return respond(c, checkoutResponse{
		OrderID:       result.Order.ID,
		Amount:        result.Order.Amount,
		PaymentStatus: result.Order.PaymentStatus,
	})
}
