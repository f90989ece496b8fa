package http

import (
	"context"
	"net/http"
	"time"

	"github.com/ferchini45-svg/carrito/internal/cart"
	"github.com/ferchini45-svg/carrito/internal/domain"
	"github.com/shopspring/decimal"
)

type CartStore interface {
	Get(ctx context.Context, sessionID string) (domain.Cart, decimal.Decimal, error)
	Add(ctx context.Context, sessionID string, productID int64, rawQuantity string) (domain.Cart, error)
	Update(ctx context.Context, sessionID string, productID int64, rawQuantity string) (domain.Cart, decimal.Decimal, error)
	Remove(ctx context.Context, sessionID string, productID int64) (domain.Cart, decimal.Decimal, error)
}

type CartHandler struct {
	carts   CartStore
	timeout time.Duration
}

func NewCartHandler(carts CartStore, timeout time.Duration) *CartHandler {
	return &CartHandler{
		carts:   carts,
		timeout: timeout,
	}
}

type CartResponse struct {
	OK    bool            `json:"ok"`
	Cart  domain.Cart     `json:"cart"`
	Total decimal.Decimal `json:"total"`
}

func cartResponse(c domain.Cart, total decimal.Decimal) CartResponse {
	if c == nil {
		c = domain.NewCart()
	}
	return CartResponse{OK: true, Cart: c, Total: total}
}

// GET /api/cart
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	c, total, err := h.carts.Get(ctx, getSessionID(r.Context()))
	if err != nil {
		handleDomainError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, cartResponse(c, total))
}

// POST /api/cart/add  product_id, quantity
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	productID, ok := parseProductID(w, r)
	if !ok {
		return
	}

	c, err := h.carts.Add(ctx, getSessionID(r.Context()), productID, r.FormValue("quantity"))
	if err != nil {
		handleDomainError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, cartResponse(c, cart.Total(c)))
}

// POST /api/cart/update  product_id, quantity
func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	productID, ok := parseProductID(w, r)
	if !ok {
		return
	}

	c, total, err := h.carts.Update(ctx, getSessionID(r.Context()), productID, r.FormValue("quantity"))
	if err != nil {
		handleDomainError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, cartResponse(c, total))
}

// POST /api/cart/remove  product_id
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	productID, ok := parseProductID(w, r)
	if !ok {
		return
	}

	c, total, err := h.carts.Remove(ctx, getSessionID(r.Context()), productID)
	if err != nil {
		handleDomainError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, cartResponse(c, total))
}

func parseProductID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	if err := r.ParseForm(); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid_request", "invalid form body")
		return 0, false
	}
	productID, err := cart.ParseProductID(r.FormValue("product_id"))
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid_request", "product_id must be a positive integer")
		return 0, false
	}
	return productID, true
}
