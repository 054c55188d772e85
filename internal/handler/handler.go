// Package handler is the HTTP layer: request decoding, routing, and mapping
// of domain errors to status codes. All business rules live in the domain
// services.
package handler

import (
	"github.com/go-chi/chi/v5"

	"github.com/dinehall/dinehall/internal/domain/account"
	"github.com/dinehall/dinehall/internal/domain/auth"
	"github.com/dinehall/dinehall/internal/domain/catalog"
	"github.com/dinehall/dinehall/internal/domain/order"
)

// Handler holds the domain services the HTTP surface delegates to.
type Handler struct {
	accounts *account.Service
	catalog  *catalog.Service
	orders   *order.Service
	tokens   *auth.Tokens
}

// New constructs a Handler with the required domain dependencies.
func New(
	accounts *account.Service,
	catalogSvc *catalog.Service,
	orders *order.Service,
	tokens *auth.Tokens,
) *Handler {
	return &Handler{
		accounts: accounts,
		catalog:  catalogSvc,
		orders:   orders,
		tokens:   tokens,
	}
}

// Routes returns the API router. Authorization beyond authentication (admin
// role, ownership) is enforced inside the domain services, which receive the
// caller identity explicitly.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	// Public.
	r.Post("/auth/register", h.register)
	r.Post("/auth/login", h.login)
	r.Get("/menu", h.listMenu)
	r.Get("/categories", h.listCategories)

	// Authenticated.
	r.Group(func(r chi.Router) {
		r.Use(h.authenticate)

		r.Get("/profile", h.profile)

		r.Post("/orders", h.checkout)
		r.Get("/orders", h.listMyOrders)
		r.Get("/orders/{id}", h.getOrder)
		r.Post("/orders/{id}/cancel", h.cancelOrder)

		r.Route("/admin", func(r chi.Router) {
			r.Get("/orders", h.listAllOrders)
			r.Post("/orders/{id}/status", h.updateOrderStatus)

			r.Post("/menu", h.createMenuItem)
			r.Put("/menu/{id}", h.updateMenuItem)
			r.Delete("/menu/{id}", h.deleteMenuItem)

			r.Post("/categories", h.createCategory)
			r.Delete("/categories/{id}", h.deleteCategory)
		})
	})

	return r
}
