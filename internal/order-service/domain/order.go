// Package domain holds the order entities and the money arithmetic applied to
// them.
package domain

import (
	"errors"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
)

// ErrOrderNotFound is returned when no order has the requested id.
var ErrOrderNotFound = errors.New("order not found")

// Order is a customer purchase and the lines it was placed with.
type Order struct {
	ID              int64
	UserID          int64
	Status          Status
	ShippingAddress *string
	TotalAmount     decimal.Decimal
	OrderDate       time.Time
	CreatedAt       time.Time
	UpdatedAt       *time.Time
	Items           []OrderItem
}

// OrderItem is one line of an order. PriceAtPurchase is a snapshot taken when
// the order was placed; later product price changes do not touch it.
type OrderItem struct {
	ID              int64
	OrderID         int64
	ProductID       int64
	Quantity        int
	PriceAtPurchase decimal.Decimal
	ItemTotal       decimal.Decimal
	CreatedAt       time.Time
	UpdatedAt       *time.Time
}

// Line is the caller's input for one order item.
type Line struct {
	ProductID       int64
	Quantity        int
	PriceAtPurchase decimal.Decimal
}

// LineTotal is quantity × price with no rounding.
func LineTotal(quantity int, price decimal.Decimal) decimal.Decimal {
	return decimal.NewFromInt(int64(quantity)).Mul(price)
}

// NewOrder builds a pending order for userID. Each line becomes its own item,
// even when two lines share a product id.
func NewOrder(userID int64, shippingAddress *string, lines []Line) *Order {
	o := &Order{
		UserID:          userID,
		Status:          StatusPending,
		ShippingAddress: shippingAddress,
		Items:           make([]OrderItem, 0, len(lines)),
	}
	for _, l := range lines {
		o.Items = append(o.Items, OrderItem{
			ProductID:       l.ProductID,
			Quantity:        l.Quantity,
			PriceAtPurchase: l.PriceAtPurchase,
			ItemTotal:       LineTotal(l.Quantity, l.PriceAtPurchase),
		})
	}
	o.TotalAmount = Total(o.Items)
	return o
}

// Total sums the item totals.
func Total(items []OrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.ItemTotal)
	}
	return total
}

// Stamp sets the order and item timestamps for a first write.
func (o *Order) Stamp(now time.Time) {
	o.OrderDate = now
	o.CreatedAt = now
	for i := range o.Items {
		o.Items[i].CreatedAt = now
	}
}

func (o *Order) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int64("order_id", o.ID),
		slog.Int64("user_id", o.UserID),
		slog.String("status", string(o.Status)),
		slog.String("total_amount", o.TotalAmount.StringFixed(2)),
		slog.Int("items", len(o.Items)),
	)
}

func (it OrderItem) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int64("order_item_id", it.ID),
		slog.Int64("order_id", it.OrderID),
		slog.Int64("product_id", it.ProductID),
		slog.Int("quantity", it.Quantity),
	)
}
