package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/ariefcatur/go-cart-checkout.git/internal/cart"
	"github.com/go-chi/chi/v5"
)

type CartService interface {
	GetCart(ctx context.Context, userID string) (cart.View, error)
	AddLine(ctx context.Context, userID, productID string, qty int) (cart.LineView, bool, error)
	UpdateLine(ctx context.Context, userID, lineID string, qty int) (cart.LineView, bool, error)
	RemoveLine(ctx context.Context, userID, lineID string) error
}

type CartHandler struct {
	Svc CartService
}

type addLineReq struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type updateLineReq struct {
	CartLineID string `json:"cart_line_id"`
	Quantity   int    `json:"quantity"`
}

type removedResp struct {
	Removed    bool   `json:"removed"`
	CartLineID string `json:"cart_line_id"`
}

func (h *CartHandler) Register(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(RequireUser)
		r.Get("/cart", h.getCart)
		r.Post("/cart", h.addLine)
		r.Put("/cart", h.updateLine)
		r.Delete("/cart/{lineID}", h.removeLine)
	})
}

func (h *CartHandler) getCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	v, err := h.Svc.GetCart(ctx, UserID(r.Context()))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (h *CartHandler) addLine(w http.ResponseWriter, r *http.Request) {
	var req addLineReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.ProductID == "" || req.Quantity < 1 {
		writeError(w, http.StatusBadRequest, "product_id and quantity >= 1 required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	lv, created, err := h.Svc.AddLine(ctx, UserID(r.Context()), req.ProductID, req.Quantity)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	code := http.StatusOK // merged into an existing line
	if created {
		code = http.StatusCreated
	}
	writeJSON(w, code, lv)
}

func (h *CartHandler) updateLine(w http.ResponseWriter, r *http.Request) {
	var req updateLineReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.CartLineID == "" {
		writeError(w, http.StatusBadRequest, "cart_line_id required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	lv, removed, err := h.Svc.UpdateLine(ctx, UserID(r.Context()), req.CartLineID, req.Quantity)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if removed {
		writeJSON(w, http.StatusOK, removedResp{Removed: true, CartLineID: req.CartLineID})
		return
	}
	writeJSON(w, http.StatusOK, lv)
}

func (h *CartHandler) removeLine(w http.ResponseWriter, r *http.Request) {
	lineID := chi.URLParam(r, "lineID")
	if lineID == "" {
		writeError(w, http.StatusBadRequest, "missing line id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.Svc.RemoveLine(ctx, UserID(r.Context()), lineID); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
