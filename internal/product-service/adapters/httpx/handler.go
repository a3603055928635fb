// Package httpx exposes the product catalogue over HTTP.
package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jcmexdev/shop-services/internal/pkg/httpkit"
	"github.com/jcmexdev/shop-services/internal/product-service/app"
	"github.com/jcmexdev/shop-services/internal/product-service/domain"
	"github.com/jcmexdev/shop-services/internal/product-service/ports"
)

type ProductService interface {
	CreateProduct(ctx context.Context, in app.CreateProductInput) (*domain.Product, error)
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
	ListProducts(ctx context.Context, skip, limit int) ([]*domain.Product, error)
	UpdateProduct(ctx context.Context, id int64, changes ports.ProductChanges) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id int64) error
	DeductStock(ctx context.Context, id int64, qty int) (*domain.Product, error)
}

type Handler struct {
	products ProductService
}

func NewHandler(products ProductService) *Handler {
	return &Handler{products: products}
}

// Routes mounts the product endpoints on r.
func Routes(r chi.Router, h *Handler) {
	r.Route("/products", func(r chi.Router) {
		r.Post("/", h.CreateProduct)
		r.Get("/", h.ListProducts)
		r.Get("/{id}", h.GetProduct)
		r.Put("/{id}", h.UpdateProduct)
		r.Delete("/{id}", h.DeleteProduct)
		r.Patch("/{id}/deduct-stock", h.DeductStock)
	})
}

func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req ProductCreate
	if !httpkit.Bind(w, r, &req) {
		return
	}

	p, err := h.products.CreateProduct(r.Context(), app.CreateProductInput{
		Name:          req.Name,
		Description:   req.Description,
		Price:         req.Price,
		StockQuantity: req.StockQuantity,
		ImageURL:      req.ImageURL,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpkit.WriteJSON(w, http.StatusCreated, toResponse(p))
}

func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	page, err := httpkit.ParsePage(r)
	if err != nil {
		httpkit.WriteValidationError(w, err)
		return
	}

	list, err := h.products.ListProducts(r.Context(), page.Skip, page.Limit)
	if err != nil {
		writeError(w, r, err)
		return
	}

	out := make([]ProductResponse, len(list))
	for i, p := range list {
		out[i] = toResponse(p)
	}
	httpkit.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := httpkit.PathID(r, "id")
	if err != nil {
		httpkit.WriteValidationError(w, err)
		return
	}

	p, err := h.products.GetProduct(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpkit.WriteJSON(w, http.StatusOK, toResponse(p))
}

func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := httpkit.PathID(r, "id")
	if err != nil {
		httpkit.WriteValidationError(w, err)
		return
	}
	var req ProductUpdate
	if !httpkit.Bind(w, r, &req) {
		return
	}

	p, err := h.products.UpdateProduct(r.Context(), id, ports.ProductChanges{
		Name:          req.Name,
		Description:   req.Description,
		Price:         req.Price,
		StockQuantity: req.StockQuantity,
		ImageURL:      req.ImageURL,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpkit.WriteJSON(w, http.StatusOK, toResponse(p))
}

func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := httpkit.PathID(r, "id")
	if err != nil {
		httpkit.WriteValidationError(w, err)
		return
	}

	if err := h.products.DeleteProduct(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) DeductStock(w http.ResponseWriter, r *http.Request) {
	id, err := httpkit.PathID(r, "id")
	if err != nil {
		httpkit.WriteValidationError(w, err)
		return
	}
	var req StockDeductRequest
	if !httpkit.Bind(w, r, &req) {
		return
	}

	p, err := h.products.DeductStock(r.Context(), id, req.QuantityToDeduct)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpkit.WriteJSON(w, http.StatusOK, toResponse(p))
}

func toResponse(p *domain.Product) ProductResponse {
	return ProductResponse{
		ProductID:     p.ID,
		Name:          p.Name,
		Description:   p.Description,
		Price:         p.Price,
		StockQuantity: p.StockQuantity,
		ImageURL:      p.ImageURL,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrProductNotFound):
		httpkit.WriteError(w, http.StatusNotFound, "product_not_found", "Product not found")
	case errors.Is(err, domain.ErrInsufficientStock):
		httpkit.WriteError(w, http.StatusBadRequest, "insufficient_stock", "Insufficient stock")
	default:
		slog.ErrorContext(r.Context(), "product request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		httpkit.WriteError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
