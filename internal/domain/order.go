package domain

import "time"

// PaymentMethod is the buyer's intended payment method. Checkout only
// records the intent; no gateway is involved.
type PaymentMethod string

const (
	PaymentMethodCOD  PaymentMethod = "COD"
	PaymentMethodBank PaymentMethod = "bank"
)

// Valid reports whether m is a supported payment method.
func (m PaymentMethod) Valid() bool {
	return m == PaymentMethodCOD || m == PaymentMethodBank
}

// Order statuses. Orders are created and never transition further in this
// core.
const (
	OrderStatusCreated = "created"
)

// Payment status placeholders derived from the payment method at checkout.
const (
	PaymentStatusPending = "pending"
	PaymentStatusUnpaid  = "unpaid"
)

// DerivePaymentStatus maps a payment method to its initial payment status:
// bank transfers await confirmation, everything else starts unpaid.
func DerivePaymentStatus(method PaymentMethod) string {
	if method == PaymentMethodBank {
		return PaymentStatusPending
	}
	return PaymentStatusUnpaid
}

// ShippingInfo is the destination recorded on an order.
type ShippingInfo struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// Order is the immutable result of a checkout. Once appended to the ledger
// it is never mutated or deleted.
type Order struct {
	ID            string        `json:"id"`
	CartID        string        `json:"cart_id"`
	Shipping      ShippingInfo  `json:"shipping"`
	Note          string        `json:"note"`
	PaymentMethod PaymentMethod `json:"payment_method"`
	Amount        int64         `json:"amount"`
	Status        string        `json:"status"`
	PaymentStatus string        `json:"payment_status"`
	CreatedAt     time.Time     `json:"created_at"`
}

// OrderLine is a frozen copy of a cart line at checkout time. Later catalog
// price changes never retroactively alter it.
type OrderLine struct {
	ID        string `json:"id"`
	OrderID   string `json:"order_id"`
	ProductID string `json:"product_id"`
	VariantID string `json:"variant_id,omitempty"`
	Name      string `json:"name"`
	Price     int64  `json:"price"`
	Quantity  int    `json:"quantity"`
	LineTotal int64  `json:"line_total"`
	ImageURL  string `json:"image_url"`
}

// OrderLineID builds the ledger key for an order line snapshot.
func OrderLineID(orderID, cartLineID string) string {
	return orderID + ":" + cartLineID
}
