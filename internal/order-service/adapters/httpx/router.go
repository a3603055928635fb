package httpx

import (
	"github.com/go-chi/chi/v5"

	"github.com/jcmexdev/shop-services/internal/pkg/httpkit"
)

// Routes mounts the order endpoints on r.
func Routes(r chi.Router, h *Handler) {
	r.Route("/orders", func(r chi.Router) {
		r.With(httpkit.AttachIdempotencyKey).Post("/", h.CreateOrder)
		r.Get("/", h.ListOrders)
		r.Get("/{id}", h.GetOrder)
		r.Put("/{id}", h.UpdateOrder)
		r.Delete("/{id}", h.DeleteOrder)
		r.Patch("/{id}/status", h.UpdateStatus)
		r.Get("/{id}/items", h.OrderItems)
	})
}
