package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

type Handlers struct {
	Products *ProductHandler
	Auth     *AuthHandler
	Cart     *CartHandler
	Checkout *CheckoutHandler
	Orders   *OrdersHandler
}

type RouterConfig struct {
	Logger         zerolog.Logger
	Cookie         SessionCookie
	RequestTimeout time.Duration
	// Health reports storage reachability for GET /health.
	Health func(ctx context.Context) error
}

func NewRouter(h Handlers, cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(LoggerMiddleware(cfg.Logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(cfg.RequestTimeout))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		if cfg.Health != nil {
			if err := cfg.Health(r.Context()); err != nil {
				respondJSON(w, r, http.StatusServiceUnavailable, map[string]interface{}{"ok": false, "status": "degraded"})
				return
			}
		}
		respondJSON(w, r, http.StatusOK, map[string]interface{}{"ok": true, "status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(SessionMiddleware(cfg.Cookie))

		r.Get("/products", h.Products.ListProducts)

		r.Post("/register", h.Auth.Register)
		r.Post("/login", h.Auth.Login)
		r.Post("/logout", h.Auth.Logout)

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", h.Cart.GetCart)
			r.Post("/add", h.Cart.AddItem)
			r.Post("/update", h.Cart.UpdateQuantity)
			r.Post("/remove", h.Cart.RemoveItem)
		})

		r.Post("/checkout", h.Checkout.Checkout)

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", h.Orders.ListOrders)
			r.Get("/{id}", h.Orders.GetOrder)
			r.Get("/{id}/receipt.pdf", h.Orders.Receipt)
		})
	})

	return r
}
