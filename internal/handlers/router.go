package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Router mounts the API under /api. Everything except /login sits behind
// the bearer-token middleware.
func Router(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Post("/login", h.Auth.Login)

		r.Group(func(r chi.Router) {
			r.Use(h.Auth.Require)

			r.Post("/logout", h.Auth.Logout)
			r.Get("/user", h.Auth.User)

			r.Route("/customers", func(r chi.Router) {
				r.Get("/", h.Customers.List)
				r.Post("/", h.Customers.Create)
				r.Get("/{id}", h.Customers.Show)
				r.Put("/{id}", h.Customers.Update)
				r.Patch("/{id}", h.Customers.Update)
				r.Delete("/{id}", h.Customers.Delete)
				r.Get("/{id}/orders", h.Customers.Orders)
			})

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", h.Orders.List)
				r.Post("/", h.Orders.Create)
				r.Get("/{id}", h.Orders.Show)
				r.Put("/{id}", h.Orders.Update)
				r.Patch("/{id}", h.Orders.Update)
				r.Delete("/{id}", h.Orders.Delete)
			})
		})
	})

	return r
}
