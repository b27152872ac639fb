package checkout

import "errors"

var (
	// ErrValidation: a required payment/contact field is missing. Surfaced
	// before any read.
	ErrValidation = errors.New("invalid payment details")

	// ErrInvalidPaymentRef: the claimed reference hit the placeholder
	// denylist. Surfaced before touching cart or order state.
	ErrInvalidPaymentRef = errors.New("invalid payment reference")

	// ErrEmptyCart: checkout on a cart with no lines.
	ErrEmptyCart = errors.New("cart is empty")

	// ErrNotFound: the order does not exist or belongs to another user.
	ErrNotFound = errors.New("order not found")

	// ErrBadTransition: the requested status change is not allowed by the
	// fulfillment workflow.
	ErrBadTransition = errors.New("illegal order status transition")
)
