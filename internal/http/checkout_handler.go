package http

import (
	"context"
	"net/http"
	"time"
)

type Checkouter interface {
	Checkout(ctx context.Context, sessionID string) (int64, error)
}

type CheckoutHandler struct {
	checkout Checkouter
	timeout  time.Duration
}

func NewCheckoutHandler(checkout Checkouter, timeout time.Duration) *CheckoutHandler {
	return &CheckoutHandler{checkout: checkout, timeout: timeout}
}

// POST /api/checkout
func (h *CheckoutHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	orderID, err := h.checkout.Checkout(ctx, getSessionID(r.Context()))
	if err != nil {
		handleDomainError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusCreated, map[string]interface{}{
		"ok":       true,
		"order_id": orderID,
	})
}
