// Package ports declares the storage the product service depends on.
package ports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jcmexdev/shop-services/internal/product-service/domain"
)

// ProductChanges is a partial update; nil fields are left as they are.
type ProductChanges struct {
	Name          *string
	Description   *string
	Price         *decimal.Decimal
	StockQuantity *int
	ImageURL      *string
}

// ProductRepository persists products. Lookups by id return
// domain.ErrProductNotFound.
type ProductRepository interface {
	Create(ctx context.Context, p *domain.Product) error
	Get(ctx context.Context, id int64) (*domain.Product, error)
	List(ctx context.Context, skip, limit int) ([]*domain.Product, error)
	Update(ctx context.Context, id int64, changes ProductChanges, at time.Time) (*domain.Product, error)
	Delete(ctx context.Context, id int64) error
	// DeductStock lowers stock by qty in a single conditional write and
	// returns domain.ErrInsufficientStock when fewer than qty units remain.
	DeductStock(ctx context.Context, id int64, qty int, at time.Time) (*domain.Product, error)
}
