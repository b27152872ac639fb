package httpx

import (
	"errors"
	"log"
	"net/http"

	"github.com/ariefcatur/go-cart-checkout.git/internal/cart"
	"github.com/ariefcatur/go-cart-checkout.git/internal/checkout"
)

// writeDomainError maps the engine's error taxonomy onto HTTP. Anything
// unmapped is logged and surfaced as a generic 500; internals (conflict
// retries, rolled-back transactions) never leak details to the caller.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, checkout.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, cart.ErrNotFound), errors.Is(err, checkout.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, checkout.ErrInvalidPaymentRef):
		writeError(w, http.StatusUnprocessableEntity, "invalid payment reference")
	case errors.Is(err, cart.ErrProductUnavailable):
		writeError(w, http.StatusConflict, "product unavailable")
	case errors.Is(err, cart.ErrInsufficientStock):
		writeError(w, http.StatusConflict, "insufficient stock")
	case errors.Is(err, checkout.ErrEmptyCart):
		writeError(w, http.StatusConflict, "cart is empty")
	case errors.Is(err, checkout.ErrBadTransition):
		writeError(w, http.StatusConflict, "invalid status transition")
	default:
		log.Printf("internal error: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
