package http

import (
	"context"
	"net/http"
	"time"

	"github.com/ferchini45-svg/carrito/internal/domain"
)

type ProductLister interface {
	List(ctx context.Context) ([]*domain.Product, error)
}

type ProductHandler struct {
	catalog ProductLister
	timeout time.Duration
}

func NewProductHandler(catalog ProductLister, timeout time.Duration) *ProductHandler {
	return &ProductHandler{catalog: catalog, timeout: timeout}
}

// GET /api/products
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	products, err := h.catalog.List(ctx)
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	if products == nil {
		products = []*domain.Product{}
	}

	respondJSON(w, r, http.StatusOK, map[string]interface{}{
		"ok":       true,
		"products": products,
	})
}
