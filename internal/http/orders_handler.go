package http

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/ferchini45-svg/carrito/internal/domain"
	"github.com/ferchini45-svg/carrito/internal/receipt"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

type OrderReader interface {
	GetOrder(ctx context.Context, userID, orderID int64) (*domain.Order, error)
	ListOrders(ctx context.Context, userID int64) ([]domain.OrderSummary, error)
	Receipt(ctx context.Context, userID, orderID int64) (receipt.Receipt, error)
}

type CurrentUserReader interface {
	CurrentUser(ctx context.Context, sessionID string) (*domain.SessionUser, error)
}

type OrdersHandler struct {
	orders   OrderReader
	users    CurrentUserReader
	renderer receipt.Renderer
	timeout  time.Duration
}

func NewOrdersHandler(orders OrderReader, users CurrentUserReader, renderer receipt.Renderer, timeout time.Duration) *OrdersHandler {
	return &OrdersHandler{
		orders:   orders,
		users:    users,
		renderer: renderer,
		timeout:  timeout,
	}
}

// GET /api/orders
func (h *OrdersHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	user, ok := h.requireUser(ctx, w, r)
	if !ok {
		return
	}

	list, err := h.orders.ListOrders(ctx, user.ID)
	if err != nil {
		handleDomainError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, map[string]interface{}{
		"ok":     true,
		"orders": list,
	})
}

// GET /api/orders/{id}
func (h *OrdersHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	user, ok := h.requireUser(ctx, w, r)
	if !ok {
		return
	}
	orderID, ok := parseOrderID(w, r)
	if !ok {
		return
	}

	order, err := h.orders.GetOrder(ctx, user.ID, orderID)
	if err != nil {
		handleDomainError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, map[string]interface{}{
		"ok":    true,
		"order": order,
	})
}

// GET /api/orders/{id}/receipt.pdf
func (h *OrdersHandler) Receipt(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	user, ok := h.requireUser(ctx, w, r)
	if !ok {
		return
	}
	orderID, ok := parseOrderID(w, r)
	if !ok {
		return
	}

	rc, err := h.orders.Receipt(ctx, user.ID, orderID)
	if err != nil {
		handleDomainError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := h.renderer.Render(&buf, rc); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Int64("order_id", orderID).Msg("receipt rendering failed")
		respondError(w, r, http.StatusInternalServerError, "internal_error", "could not render receipt")
		return
	}

	w.Header().Set("Content-Type", h.renderer.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="receipt-%d.pdf"`, orderID))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func (h *OrdersHandler) requireUser(ctx context.Context, w http.ResponseWriter, r *http.Request) (*domain.SessionUser, bool) {
	user, err := h.users.CurrentUser(ctx, getSessionID(r.Context()))
	if err != nil {
		handleDomainError(w, r, err)
		return nil, false
	}
	if user == nil {
		handleDomainError(w, r, domain.ErrNotAuthenticated)
		return nil, false
	}
	return user, true
}

func parseOrderID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		// malformed ids are indistinguishable from unknown ones
		respondError(w, r, http.StatusNotFound, "not_found", domain.ErrOrderNotFound.Error())
		return 0, false
	}
	return id, true
}
