// Package httpx exposes the customer service over HTTP.
package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jcmexdev/shop-services/internal/customer-service/app"
	"github.com/jcmexdev/shop-services/internal/customer-service/domain"
	"github.com/jcmexdev/shop-services/internal/pkg/httpkit"
)

type CustomerService interface {
	CreateCustomer(ctx context.Context, in app.CreateCustomerInput) (*domain.Customer, error)
	GetCustomer(ctx context.Context, id int64) (*domain.Customer, error)
	ListCustomers(ctx context.Context, skip, limit int) ([]*domain.Customer, error)
	UpdateCustomer(ctx context.Context, id int64, in app.UpdateCustomerInput) (*domain.Customer, error)
	DeleteCustomer(ctx context.Context, id int64) error
}

type Handler struct {
	customers CustomerService
}

func NewHandler(customers CustomerService) *Handler {
	return &Handler{customers: customers}
}

// Routes mounts the customer endpoints on r.
func Routes(r chi.Router, h *Handler) {
	r.Route("/customers", func(r chi.Router) {
		r.Post("/", h.CreateCustomer)
		r.Get("/", h.ListCustomers)
		r.Get("/{id}", h.GetCustomer)
		r.Put("/{id}", h.UpdateCustomer)
		r.Delete("/{id}", h.DeleteCustomer)
	})
}

func (h *Handler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	var req CustomerCreate
	if !httpkit.Bind(w, r, &req) {
		return
	}

	c, err := h.customers.CreateCustomer(r.Context(), app.CreateCustomerInput{
		Email:           req.Email,
		Password:        req.Password,
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		PhoneNumber:     req.PhoneNumber,
		ShippingAddress: req.ShippingAddress,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpkit.WriteJSON(w, http.StatusCreated, toResponse(c))
}

func (h *Handler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	page, err := httpkit.ParsePage(r)
	if err != nil {
		httpkit.WriteValidationError(w, err)
		return
	}

	list, err := h.customers.ListCustomers(r.Context(), page.Skip, page.Limit)
	if err != nil {
		writeError(w, r, err)
		return
	}

	out := make([]CustomerResponse, len(list))
	for i, c := range list {
		out[i] = toResponse(c)
	}
	httpkit.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) GetCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := httpkit.PathID(r, "id")
	if err != nil {
		httpkit.WriteValidationError(w, err)
		return
	}

	c, err := h.customers.GetCustomer(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpkit.WriteJSON(w, http.StatusOK, toResponse(c))
}

func (h *Handler) UpdateCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := httpkit.PathID(r, "id")
	if err != nil {
		httpkit.WriteValidationError(w, err)
		return
	}
	var req CustomerUpdate
	if !httpkit.Bind(w, r, &req) {
		return
	}

	c, err := h.customers.UpdateCustomer(r.Context(), id, app.UpdateCustomerInput{
		Email:           req.Email,
		Password:        req.Password,
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		PhoneNumber:     req.PhoneNumber,
		ShippingAddress: req.ShippingAddress,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpkit.WriteJSON(w, http.StatusOK, toResponse(c))
}

func (h *Handler) DeleteCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := httpkit.PathID(r, "id")
	if err != nil {
		httpkit.WriteValidationError(w, err)
		return
	}

	if err := h.customers.DeleteCustomer(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func toResponse(c *domain.Customer) CustomerResponse {
	return CustomerResponse{
		CustomerID:      c.ID,
		Email:           c.Email,
		FirstName:       c.FirstName,
		LastName:        c.LastName,
		PhoneNumber:     c.PhoneNumber,
		ShippingAddress: c.ShippingAddress,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrCustomerNotFound):
		httpkit.WriteError(w, http.StatusNotFound, "customer_not_found", "Customer not found")
	case errors.Is(err, domain.ErrEmailTaken):
		httpkit.WriteError(w, http.StatusBadRequest, "email_taken", "Email already registered")
	default:
		slog.ErrorContext(r.Context(), "customer request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		httpkit.WriteError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
