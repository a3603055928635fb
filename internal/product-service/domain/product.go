// Package domain holds the product entity and its stock rules.
package domain

import (
	"errors"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrProductNotFound   = errors.New("product not found")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// Product is an item in the catalogue.
type Product struct {
	ID            int64
	Name          string
	Description   *string
	Price         decimal.Decimal
	StockQuantity int
	ImageURL      *string
	CreatedAt     time.Time
	UpdatedAt     *time.Time
}

// NewProduct returns a product with no stock on hand.
func NewProduct(name string, price decimal.Decimal) *Product {
	return &Product{
		Name:          name,
		Price:         price,
		StockQuantity: 0,
	}
}

// Deduct removes qty units from stock.
func (p *Product) Deduct(qty int) error {
	if qty > p.StockQuantity {
		return ErrInsufficientStock
	}
	p.StockQuantity -= qty
	return nil
}

const logURLMax = 30

func (p *Product) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int64("product_id", p.ID),
		slog.String("name", p.Name),
		slog.Int("stock", p.StockQuantity),
	}
	if p.ImageURL != nil {
		url := *p.ImageURL
		if len(url) > logURLMax {
			url = url[:logURLMax] + "..."
		}
		attrs = append(attrs, slog.String("image_url", url))
	}
	return slog.GroupValue(attrs...)
}
