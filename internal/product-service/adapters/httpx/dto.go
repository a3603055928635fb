package httpx

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductCreate is the body of POST /products/.
type ProductCreate struct {
	Name          string          `json:"name" validate:"min=1,max=255"`
	Description   *string         `json:"description" validate:"omitnil,max=2000"`
	Price         decimal.Decimal `json:"price" validate:"dgt=0,money"`
	StockQuantity *int            `json:"stock_quantity" validate:"omitnil,gte=0"`
	ImageURL      *string         `json:"image_url" validate:"omitnil,max=2048"`
}

// ProductUpdate is the body of PUT /products/{id}.
type ProductUpdate struct {
	Name          *string          `json:"name" validate:"omitnil,min=1,max=255"`
	Description   *string          `json:"description" validate:"omitnil,max=2000"`
	Price         *decimal.Decimal `json:"price" validate:"omitnil,dgt=0,money"`
	StockQuantity *int             `json:"stock_quantity" validate:"omitnil,gte=0"`
	ImageURL      *string          `json:"image_url" validate:"omitnil,max=2048"`
}

// StockDeductRequest is the body of PATCH /products/{id}/deduct-stock.
type StockDeductRequest struct {
	QuantityToDeduct int `json:"quantity_to_deduct" validate:"gt=0"`
}

type ProductResponse struct {
	ProductID     int64           `json:"product_id" validate:"required"`
	Name          string          `json:"name"`
	Description   *string         `json:"description"`
	Price         decimal.Decimal `json:"price"`
	StockQuantity int             `json:"stock_quantity"`
	ImageURL      *string         `json:"image_url"`
	CreatedAt     time.Time       `json:"created_at" validate:"required"`
	UpdatedAt     *time.Time      `json:"updated_at"`
}
