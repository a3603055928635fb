package httpx

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderItemCreate is one line of a new order.
type OrderItemCreate struct {
	ProductID       int64           `json:"product_id" validate:"gte=1"`
	Quantity        int             `json:"quantity" validate:"gte=1"`
	PriceAtPurchase decimal.Decimal `json:"price_at_purchase" validate:"dgt=0,money"`
}

// OrderCreate is the body of POST /orders/. items is required, but an
// explicit empty list passes schema validation and is rejected by the order
// workflow.
type OrderCreate struct {
	UserID          int64             `json:"user_id" validate:"gte=1"`
	ShippingAddress *string           `json:"shipping_address" validate:"omitnil,max=1000"`
	Items           []OrderItemCreate `json:"items" validate:"required,dive"`
}

// OrderUpdate is the body of PUT /orders/{id}. Omitted fields are unchanged.
type OrderUpdate struct {
	UserID          *int64  `json:"user_id" validate:"omitnil,gte=1"`
	ShippingAddress *string `json:"shipping_address" validate:"omitnil,max=1000"`
	Status          *string `json:"status" validate:"omitnil,max=50,oneof=pending processing shipped cancelled confirmed completed failed"`
}

// OrderStatusUpdate is the body of PATCH /orders/{id}/status.
type OrderStatusUpdate struct {
	Status string `json:"status" validate:"required,max=50,oneof=pending processing shipped cancelled confirmed completed failed"`
}

// OrderListQuery holds the filters of GET /orders/.
type OrderListQuery struct {
	UserID *int64  `json:"user_id" validate:"omitnil,gte=1"`
	Status *string `json:"status" validate:"omitnil,oneof=pending processing shipped cancelled confirmed completed failed"`
}

type OrderItemResponse struct {
	OrderItemID     int64           `json:"order_item_id" validate:"required"`
	OrderID         int64           `json:"order_id" validate:"required"`
	ProductID       int64           `json:"product_id"`
	Quantity        int             `json:"quantity"`
	PriceAtPurchase decimal.Decimal `json:"price_at_purchase"`
	ItemTotal       decimal.Decimal `json:"item_total"`
	CreatedAt       time.Time       `json:"created_at" validate:"required"`
	UpdatedAt       *time.Time      `json:"updated_at"`
}

type OrderResponse struct {
	OrderID         int64               `json:"order_id" validate:"required"`
	UserID          int64               `json:"user_id"`
	Status          string              `json:"status"`
	ShippingAddress *string             `json:"shipping_address"`
	TotalAmount     decimal.Decimal     `json:"total_amount"`
	OrderDate       time.Time           `json:"order_date"`
	CreatedAt       time.Time           `json:"created_at" validate:"required"`
	UpdatedAt       *time.Time          `json:"updated_at"`
	Items           []OrderItemResponse `json:"items" validate:"required,dive"`
}
