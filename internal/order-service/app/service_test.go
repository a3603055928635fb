package app_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcmexdev/shop-services/internal/order-service/adapters/sqlstore"
	"github.com/jcmexdev/shop-services/internal/order-service/app"
	"github.com/jcmexdev/shop-services/internal/order-service/domain"
	"github.com/jcmexdev/shop-services/internal/order-service/ports"
	"github.com/jcmexdev/shop-services/internal/pkg/cache"
	"github.com/jcmexdev/shop-services/internal/pkg/database"
)

type fakeDirectory struct {
	mu        sync.Mutex
	customers map[int64]ports.Customer
	err       error
	calls     int
}

func (f *fakeDirectory) LookupCustomer(_ context.Context, id int64) (ports.Customer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return ports.Customer{}, f.err
	}
	c, ok := f.customers[id]
	if !ok {
		return ports.Customer{}, ports.ErrCustomerNotFound
	}
	return c, nil
}

func strPtr(s string) *string { return &s }

type fixture struct {
	svc   *app.Service
	repo  *sqlstore.Repository
	dir   *fakeDirectory
	cache *cache.MemoryCache
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	db, err := database.Open("sqlite", filepath.Join(t.TempDir(), "orders.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, db.ApplySchema(context.Background(), sqlstore.Schema))

	dir := &fakeDirectory{customers: map[int64]ports.Customer{
		1: {ID: 1, Email: "john@example.com", ShippingAddress: strPtr("123 Main St, City, State 12345")},
		2: {ID: 2, Email: "jane@example.com"},
	}}
	repo := sqlstore.New(db)
	c := cache.NewMemoryCache("order")
	svc := app.NewService(repo, dir,
		app.WithCache(c),
		app.WithLogger(slog.New(slog.NewJSONHandler(io.Discard, nil))),
	)
	return fixture{svc: svc, repo: repo, dir: dir, cache: c}
}

func lines() []domain.Line {
	return []domain.Line{
		{ProductID: 1, Quantity: 2, PriceAtPurchase: decimal.RequireFromString("15.99")},
		{ProductID: 2, Quantity: 1, PriceAtPurchase: decimal.RequireFromString("29.99")},
	}
}

func countOrders(t *testing.T, f fixture) int {
	t.Helper()
	orders, err := f.repo.List(context.Background(), ports.OrderFilter{})
	require.NoError(t, err)
	return len(orders)
}

func TestCreateOrder_ComputesTotals(t *testing.T) {
	f := newFixture(t)

	order, err := f.svc.CreateOrder(context.Background(), app.CreateOrderInput{UserID: 1, Items: lines()})
	require.NoError(t, err)

	assert.NotZero(t, order.ID)
	assert.Equal(t, domain.StatusPending, order.Status)
	assert.Equal(t, "61.97", order.TotalAmount.String())
	assert.False(t, order.CreatedAt.IsZero())
	require.Len(t, order.Items, 2)
	assert.Equal(t, "31.98", order.Items[0].ItemTotal.String())
	assert.Equal(t, "29.99", order.Items[1].ItemTotal.String())

	stored, err := f.svc.GetOrder(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, "61.97", stored.TotalAmount.String())
	require.Len(t, stored.Items, 2)
	assert.Equal(t, 2, stored.Items[0].Quantity)
	assert.Equal(t, 1, stored.Items[1].Quantity)
}

func TestCreateOrder_EmptyItems(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.CreateOrder(context.Background(), app.CreateOrderInput{UserID: 1})
	require.ErrorIs(t, err, app.ErrNoItems)
	assert.Contains(t, err.Error(), "at least one item")
	assert.Zero(t, f.dir.calls, "customer service must not be called")
}

func TestCreateOrder_UnknownCustomer(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.CreateOrder(context.Background(), app.CreateOrderInput{UserID: 999, Items: lines()})

	var notFound *app.CustomerNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, int64(999), notFound.ID)
	assert.Contains(t, err.Error(), "999")
	assert.Contains(t, err.Error(), "not found")
	assert.Zero(t, countOrders(t, f))
}

func TestCreateOrder_LookupFailure(t *testing.T) {
	f := newFixture(t)
	f.dir.err = errors.New("connection refused")

	_, err := f.svc.CreateOrder(context.Background(), app.CreateOrderInput{UserID: 1, Items: lines()})
	require.ErrorIs(t, err, app.ErrCustomerLookup)
	assert.Contains(t, err.Error(), "connection refused")
	assert.Zero(t, countOrders(t, f))
}

func TestCreateOrder_ShippingAddress(t *testing.T) {
	tests := []struct {
		name    string
		userID  int64
		address *string
		want    *string
	}{
		{"defaults to customer address", 1, nil, strPtr("123 Main St, City, State 12345")},
		{"empty falls back to customer address", 1, strPtr(""), strPtr("123 Main St, City, State 12345")},
		{"explicit address wins", 1, strPtr("456 Custom St"), strPtr("456 Custom St")},
		{"customer without address", 2, nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			order, err := f.svc.CreateOrder(context.Background(), app.CreateOrderInput{
				UserID: tt.userID, ShippingAddress: tt.address, Items: lines(),
			})
			require.NoError(t, err)
			assert.Equal(t, tt.want, order.ShippingAddress)
		})
	}
}

func TestCreateOrder_LooksUpEveryTime(t *testing.T) {
	f := newFixture(t)
	for range 3 {
		_, err := f.svc.CreateOrder(context.Background(), app.CreateOrderInput{UserID: 1, Items: lines()})
		require.NoError(t, err)
	}
	assert.Equal(t, 3, f.dir.calls)
}

func TestCreateOrder_IdempotencyKey(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	in := app.CreateOrderInput{UserID: 1, Items: lines(), IdempotencyKey: "k-1"}

	first, err := f.svc.CreateOrder(ctx, in)
	require.NoError(t, err)
	second, err := f.svc.CreateOrder(ctx, in)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 1, countOrders(t, f))
	assert.Equal(t, 1, f.dir.calls)

	stored, _ := f.cache.Get(ctx, "order:create:k-1")
	assert.NotEmpty(t, stored)
}

func TestCreateOrder_IdempotencyKeyReleasedOnFailure(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.CreateOrder(ctx, app.CreateOrderInput{UserID: 999, Items: lines(), IdempotencyKey: "k-2"})
	require.Error(t, err)

	f.dir.customers[999] = ports.Customer{ID: 999, Email: "late@example.com"}
	order, err := f.svc.CreateOrder(ctx, app.CreateOrderInput{UserID: 999, Items: lines(), IdempotencyKey: "k-2"})
	require.NoError(t, err)
	assert.NotZero(t, order.ID)
}

func TestCreateOrder_IdempotencyKeyInFlight(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.cache.SetNX(ctx, "order:create:k-3", "pending", time.Minute)
	require.NoError(t, err)

	_, err = f.svc.CreateOrder(ctx, app.CreateOrderInput{UserID: 1, Items: lines(), IdempotencyKey: "k-3"})
	assert.ErrorIs(t, err, app.ErrRequestInFlight)
}

// flakyCache fails the next failSets calls to Set and records the TTL of
// every reservation.
type flakyCache struct {
	cache.Cache
	failSets int
	nxTTLs   []time.Duration
}

func (c *flakyCache) SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error) {
	c.nxTTLs = append(c.nxTTLs, ttl)
	return c.Cache.SetNX(ctx, key, value, ttl)
}

func (c *flakyCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	if c.failSets > 0 {
		c.failSets--
		return errors.New("redis: connection reset")
	}
	return c.Cache.Set(ctx, key, value, ttl)
}

func TestCreateOrder_IdempotencyRecordFailureReleasesKey(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	fc := &flakyCache{Cache: f.cache, failSets: 1}
	svc := app.NewService(f.repo, f.dir,
		app.WithCache(fc),
		app.WithLogger(slog.New(slog.NewJSONHandler(io.Discard, nil))),
	)
	in := app.CreateOrderInput{UserID: 1, Items: lines(), IdempotencyKey: "k-4"}

	first, err := svc.CreateOrder(ctx, in)
	require.NoError(t, err)
	assert.NotZero(t, first.ID)

	stored, err := f.cache.Get(ctx, "order:create:k-4")
	require.NoError(t, err)
	assert.Empty(t, stored, "a key that could not be recorded must not stay reserved")

	_, err = svc.CreateOrder(ctx, in)
	require.NoError(t, err, "a retry must not be reported as in flight")

	require.NotEmpty(t, fc.nxTTLs)
	for _, ttl := range fc.nxTTLs {
		assert.LessOrEqual(t, ttl, time.Minute)
	}
}

func TestCreateOrder_IdempotencyKeyDifferentPayload(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.svc.CreateOrder(ctx, app.CreateOrderInput{UserID: 1, Items: lines(), IdempotencyKey: "k-5"})
	require.NoError(t, err)

	_, err = f.svc.CreateOrder(ctx, app.CreateOrderInput{
		UserID:         2,
		Items:          []domain.Line{{ProductID: 9, Quantity: 1, PriceAtPurchase: decimal.RequireFromString("5.00")}},
		IdempotencyKey: "k-5",
	})
	assert.ErrorIs(t, err, app.ErrIdempotencyMismatch)
	assert.Equal(t, 1, countOrders(t, f))

	sameValue := lines()
	sameValue[0].PriceAtPurchase = decimal.RequireFromString("15.990")
	replayed, err := f.svc.CreateOrder(ctx, app.CreateOrderInput{UserID: 1, Items: sameValue, IdempotencyKey: "k-5"})
	require.NoError(t, err)
	assert.Equal(t, first.ID, replayed.ID)
}

func TestUpdateStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	order, err := f.svc.CreateOrder(ctx, app.CreateOrderInput{UserID: 1, Items: lines()})
	require.NoError(t, err)

	updated, err := f.svc.UpdateStatus(ctx, order.ID, domain.StatusShipped)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusShipped, updated.Status)
	assert.NotNil(t, updated.UpdatedAt)

	// Any status may follow any other.
	updated, err = f.svc.UpdateStatus(ctx, order.ID, domain.StatusPending)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, updated.Status)

	_, err = f.svc.UpdateStatus(ctx, order.ID, domain.Status("lost"))
	assert.Error(t, err)
}

func TestUpdateStatus_NotFoundHasNoSideEffect(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	order, err := f.svc.CreateOrder(ctx, app.CreateOrderInput{UserID: 1, Items: lines()})
	require.NoError(t, err)

	_, err = f.svc.UpdateStatus(ctx, 999, domain.StatusShipped)
	require.ErrorIs(t, err, domain.ErrOrderNotFound)

	stored, err := f.svc.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, stored.Status)
	assert.Nil(t, stored.UpdatedAt)
}

func TestUpdateOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	order, err := f.svc.CreateOrder(ctx, app.CreateOrderInput{UserID: 1, Items: lines()})
	require.NoError(t, err)

	status := domain.StatusProcessing
	updated, err := f.svc.UpdateOrder(ctx, order.ID, ports.OrderChanges{
		ShippingAddress: strPtr("Updated Address"),
		Status:          &status,
	})
	require.NoError(t, err)
	assert.Equal(t, "Updated Address", *updated.ShippingAddress)
	assert.Equal(t, domain.StatusProcessing, updated.Status)
	assert.Equal(t, order.UserID, updated.UserID)
}

func TestDeleteAndItems(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	order, err := f.svc.CreateOrder(ctx, app.CreateOrderInput{UserID: 1, Items: lines()})
	require.NoError(t, err)

	items, err := f.svc.OrderItems(ctx, order.ID)
	require.NoError(t, err)
	assert.Len(t, items, 2)

	require.NoError(t, f.svc.DeleteOrder(ctx, order.ID))
	_, err = f.svc.GetOrder(ctx, order.ID)
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
	assert.ErrorIs(t, f.svc.DeleteOrder(ctx, order.ID), domain.ErrOrderNotFound)
	_, err = f.svc.OrderItems(ctx, order.ID)
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
}

func TestListOrders(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, uid := range []int64{1, 2, 1} {
		_, err := f.svc.CreateOrder(ctx, app.CreateOrderInput{UserID: uid, Items: lines()})
		require.NoError(t, err)
	}

	uid := int64(1)
	orders, err := f.svc.ListOrders(ctx, ports.OrderFilter{UserID: &uid})
	require.NoError(t, err)
	assert.Len(t, orders, 2)
	for _, o := range orders {
		assert.Equal(t, uid, o.UserID)
	}
}
