package domain

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func price(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestNewOrder_Totals(t *testing.T) {
	o := NewOrder(1, nil, []Line{
		{ProductID: 1, Quantity: 2, PriceAtPurchase: price("15.99")},
		{ProductID: 2, Quantity: 1, PriceAtPurchase: price("29.99")},
	})

	assert.Equal(t, StatusPending, o.Status)
	require.Len(t, o.Items, 2)
	assert.Equal(t, "31.98", o.Items[0].ItemTotal.String())
	assert.Equal(t, "29.99", o.Items[1].ItemTotal.String())
	assert.Equal(t, "61.97", o.TotalAmount.String())
}

func TestNewOrder_DuplicateProductsStaySeparate(t *testing.T) {
	o := NewOrder(1, nil, []Line{
		{ProductID: 7, Quantity: 1, PriceAtPurchase: price("0.10")},
		{ProductID: 7, Quantity: 2, PriceAtPurchase: price("0.20")},
	})

	require.Len(t, o.Items, 2)
	assert.True(t, o.TotalAmount.Equal(price("0.50")))
}

func TestLineTotal_Exact(t *testing.T) {
	// 0.1 + 0.2 style drift must not appear.
	total := decimal.Zero
	for range 10 {
		total = total.Add(LineTotal(1, price("0.1")))
	}
	assert.True(t, total.Equal(decimal.NewFromInt(1)))
	assert.True(t, LineTotal(3, price("33.33")).Equal(price("99.99")))
}

func TestStamp(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	o := NewOrder(1, nil, []Line{{ProductID: 1, Quantity: 1, PriceAtPurchase: price("1")}})
	o.Stamp(now)

	assert.Equal(t, now, o.OrderDate)
	assert.Equal(t, now, o.CreatedAt)
	assert.Equal(t, now, o.Items[0].CreatedAt)
	assert.Nil(t, o.UpdatedAt)
}

func TestParseStatus(t *testing.T) {
	for _, s := range Statuses {
		got, err := ParseStatus(string(s))
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}

	_, err := ParseStatus("lost")
	assert.Error(t, err)
	_, err = ParseStatus("PENDING")
	assert.Error(t, err)
}

func TestOrder_LogValue(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	o := NewOrder(9, nil, []Line{{ProductID: 1, Quantity: 2, PriceAtPurchase: price("15.99")}})
	o.ID = 3
	logger.Info("order", "order", o)

	var line struct {
		Order map[string]any `json:"order"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.EqualValues(t, 3, line.Order["order_id"])
	assert.EqualValues(t, 9, line.Order["user_id"])
	assert.Equal(t, "pending", line.Order["status"])
	assert.Equal(t, "31.98", line.Order["total_amount"])
}
