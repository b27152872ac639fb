package checkout

import (
	"fmt"
	"time"
)

// Order is the immutable checkout snapshot. Only Status changes after
// creation, driven by the (external) fulfillment workflow.
type Order struct {
	ID              string      `json:"id"`
	UserID          string      `json:"user_id"`
	Status          Status      `json:"status"`
	TotalCents      int         `json:"total_cents"`
	CustomerName    string      `json:"customer_name"`
	CustomerEmail   string      `json:"customer_email"`
	CustomerPhone   string      `json:"customer_phone"`
	ShippingAddress string      `json:"shipping_address"`
	PaymentMethod   string      `json:"payment_method"`
	PaymentMobile   string      `json:"payment_mobile"`
	PaymentRef      string      `json:"payment_ref"`
	CreatedAt       time.Time   `json:"created_at"`
	Lines           []OrderLine `json:"lines"`
}

// OrderLine freezes (product, quantity, price) as of checkout time.
type OrderLine struct {
	ID         string `json:"id"`
	OrderID    string `json:"order_id"`
	ProductID  string `json:"product_id"`
	Quantity   int    `json:"quantity"`
	PriceCents int    `json:"price_cents"`
}

type PaymentDetails struct {
	PaymentMethod   string `json:"payment_method"`
	PaymentRef      string `json:"payment_ref"`
	PaymentMobile   string `json:"payment_mobile"`
	ShippingAddress string `json:"shipping_address"`
	CustomerName    string `json:"customer_name"`
	CustomerEmail   string `json:"customer_email"`
	CustomerPhone   string `json:"customer_phone"`
}

// Validate rejects any missing required field, before any read happens.
func (d PaymentDetails) Validate() error {
	required := []struct{ name, val string }{
		{"payment_method", d.PaymentMethod},
		{"payment_ref", d.PaymentRef},
		{"payment_mobile", d.PaymentMobile},
		{"shipping_address", d.ShippingAddress},
		{"customer_name", d.CustomerName},
		{"customer_email", d.CustomerEmail},
		{"customer_phone", d.CustomerPhone},
	}
	for _, f := range required {
		if f.val == "" {
			return fmt.Errorf("%w: missing %s", ErrValidation, f.name)
		}
	}
	return nil
}
