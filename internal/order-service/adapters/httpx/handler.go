// Package httpx exposes the order service over HTTP.
package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/jcmexdev/shop-services/internal/order-service/app"
	"github.com/jcmexdev/shop-services/internal/order-service/domain"
	"github.com/jcmexdev/shop-services/internal/order-service/ports"
	"github.com/jcmexdev/shop-services/internal/pkg/httpkit"
	"github.com/jcmexdev/shop-services/internal/pkg/validation"
)

// OrderService is what the handlers need from the application layer.
type OrderService interface {
	CreateOrder(ctx context.Context, in app.CreateOrderInput) (*domain.Order, error)
	GetOrder(ctx context.Context, id int64) (*domain.Order, error)
	ListOrders(ctx context.Context, f ports.OrderFilter) ([]*domain.Order, error)
	UpdateOrder(ctx context.Context, id int64, changes ports.OrderChanges) (*domain.Order, error)
	UpdateStatus(ctx context.Context, id int64, status domain.Status) (*domain.Order, error)
	DeleteOrder(ctx context.Context, id int64) error
	OrderItems(ctx context.Context, id int64) ([]domain.OrderItem, error)
}

// Handler serves the /orders routes.
type Handler struct {
	orders OrderService
}

func NewHandler(orders OrderService) *Handler {
	return &Handler{orders: orders}
}

// CreateOrder handles POST /orders/.
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req OrderCreate
	if !httpkit.Bind(w, r, &req) {
		return
	}

	order, err := h.orders.CreateOrder(r.Context(), app.CreateOrderInput{
		UserID:          req.UserID,
		ShippingAddress: req.ShippingAddress,
		Items:           linesFromRequest(req.Items),
		IdempotencyKey:  httpkit.IdempotencyKey(r.Context()),
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	httpkit.WriteJSON(w, http.StatusCreated, orderToResponse(order))
}

// ListOrders handles GET /orders/?user_id=&status=&skip=&limit=.
func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	page, err := httpkit.ParsePage(r)
	if err != nil {
		httpkit.WriteValidationError(w, err)
		return
	}
	userID, err := httpkit.QueryInt(r, "user_id")
	if err != nil {
		httpkit.WriteValidationError(w, err)
		return
	}

	query := OrderListQuery{UserID: userID}
	if s := r.URL.Query().Get("status"); s != "" {
		query.Status = &s
	}
	if err := validation.Validate(query); err != nil {
		httpkit.WriteValidationError(w, err)
		return
	}

	orders, err := h.orders.ListOrders(r.Context(), ports.OrderFilter{
		UserID: query.UserID,
		Status: statusPtr(query.Status),
		Skip:   page.Skip,
		Limit:  page.Limit,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	httpkit.WriteJSON(w, http.StatusOK, ordersToResponse(orders))
}

// GetOrder handles GET /orders/{id}.
func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, err := httpkit.PathID(r, "id")
	if err != nil {
		httpkit.WriteValidationError(w, err)
		return
	}

	order, err := h.orders.GetOrder(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	httpkit.WriteJSON(w, http.StatusOK, orderToResponse(order))
}

// UpdateOrder handles PUT /orders/{id}.
func (h *Handler) UpdateOrder(w http.ResponseWriter, r *http.Request) {
	id, err := httpkit.PathID(r, "id")
	if err != nil {
		httpkit.WriteValidationError(w, err)
		return
	}
	var req OrderUpdate
	if !httpkit.Bind(w, r, &req) {
		return
	}

	order, err := h.orders.UpdateOrder(r.Context(), id, ports.OrderChanges{
		UserID:          req.UserID,
		ShippingAddress: req.ShippingAddress,
		Status:          statusPtr(req.Status),
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	httpkit.WriteJSON(w, http.StatusOK, orderToResponse(order))
}

// UpdateStatus handles PATCH /orders/{id}/status.
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := httpkit.PathID(r, "id")
	if err != nil {
		httpkit.WriteValidationError(w, err)
		return
	}
	var req OrderStatusUpdate
	if !httpkit.Bind(w, r, &req) {
		return
	}

	order, err := h.orders.UpdateStatus(r.Context(), id, domain.Status(req.Status))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	httpkit.WriteJSON(w, http.StatusOK, orderToResponse(order))
}

// DeleteOrder handles DELETE /orders/{id}.
func (h *Handler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	id, err := httpkit.PathID(r, "id")
	if err != nil {
		httpkit.WriteValidationError(w, err)
		return
	}

	if err := h.orders.DeleteOrder(r.Context(), id); err != nil {
		h.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// OrderItems handles GET /orders/{id}/items.
func (h *Handler) OrderItems(w http.ResponseWriter, r *http.Request) {
	id, err := httpkit.PathID(r, "id")
	if err != nil {
		httpkit.WriteValidationError(w, err)
		return
	}

	items, err := h.orders.OrderItems(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	httpkit.WriteJSON(w, http.StatusOK, itemsToResponse(items))
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var notFound *app.CustomerNotFoundError

	switch {
	case errors.Is(err, domain.ErrOrderNotFound):
		httpkit.WriteError(w, http.StatusNotFound, "order_not_found", "Order not found")
	case errors.Is(err, app.ErrNoItems):
		httpkit.WriteError(w, http.StatusBadRequest, "invalid_order", "Order must contain at least one item")
	case errors.As(err, &notFound):
		httpkit.WriteError(w, http.StatusBadRequest, "customer_not_found", notFound.Error())
	case errors.Is(err, app.ErrIdempotencyMismatch):
		httpkit.WriteError(w, http.StatusUnprocessableEntity, "idempotency_key_reused", err.Error())
	case errors.Is(err, app.ErrRequestInFlight):
		httpkit.WriteError(w, http.StatusConflict, "request_in_progress", err.Error())
	case errors.Is(err, app.ErrCustomerLookup):
		slog.ErrorContext(r.Context(), "customer service unavailable", "error", err)
		httpkit.WriteError(w, http.StatusBadGateway, "customer_service_error", "customer service unavailable")
	default:
		slog.ErrorContext(r.Context(), "order request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		httpkit.WriteError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
