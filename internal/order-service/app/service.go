// Package app implements the order workflows on top of the ports.
package app

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/jcmexdev/shop-services/internal/order-service/domain"
	"github.com/jcmexdev/shop-services/internal/order-service/ports"
	"github.com/jcmexdev/shop-services/internal/pkg/cache"
)

var (
	// ErrNoItems rejects an order without lines.
	ErrNoItems = errors.New("order must contain at least one item")
	// ErrCustomerLookup wraps failures talking to the customer service.
	ErrCustomerLookup = errors.New("customer lookup failed")
	// ErrRequestInFlight is returned when another request holding the same
	// idempotency key has not finished yet.
	ErrRequestInFlight = errors.New("a request with this idempotency key is still in progress")
	// ErrIdempotencyMismatch is returned when a key is reused for a
	// different order.
	ErrIdempotencyMismatch = errors.New("idempotency key was already used with a different request")
)

// CustomerNotFoundError is returned when an order names a customer the
// customer service does not know.
type CustomerNotFoundError struct {
	ID int64
}

func (e *CustomerNotFoundError) Error() string {
	return fmt.Sprintf("Customer %d not found", e.ID)
}

const (
	idempotencyTTL = 24 * time.Hour
	// A reservation that is never completed (crash, lost write) expires
	// after this long and the key can be used again.
	idempotencyInFlightTTL = time.Minute
	idempotencyPending     = "pending"
)

// Service runs the order workflows.
type Service struct {
	repo      ports.OrderRepository
	customers ports.CustomerDirectory
	cache     cache.Cache
	now       func() time.Time
	logger    *slog.Logger
}

type Option func(*Service)

// WithCache enables idempotent order creation.
func WithCache(c cache.Cache) Option {
	return func(s *Service) { s.cache = c }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

func NewService(repo ports.OrderRepository, customers ports.CustomerDirectory, opts ...Option) *Service {
	s := &Service{
		repo:      repo,
		customers: customers,
		now:       func() time.Time { return time.Now().UTC().Truncate(time.Microsecond) },
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateOrderInput is a validated order creation request.
type CreateOrderInput struct {
	UserID          int64
	ShippingAddress *string
	Items           []domain.Line
	// IdempotencyKey is optional. Repeating a key returns the order created
	// the first time instead of creating another.
	IdempotencyKey string
}

// CreateOrder validates the order against the customer service, prices it and
// stores it with its items in one transaction.
func (s *Service) CreateOrder(ctx context.Context, in CreateOrderInput) (*domain.Order, error) {
	if len(in.Items) == 0 {
		return nil, ErrNoItems
	}
	if s.cache == nil || in.IdempotencyKey == "" {
		return s.createOrder(ctx, in)
	}
	return s.createOnce(ctx, in)
}

func (s *Service) createOnce(ctx context.Context, in CreateOrderInput) (*domain.Order, error) {
	key := s.cache.GenerateKey("create", in.IdempotencyKey)
	fp := fingerprint(in)

	reserved, err := s.cache.SetNX(ctx, key, idempotencyPending, idempotencyInFlightTTL)
	if err != nil {
		s.logger.WarnContext(ctx, "idempotency cache unavailable, creating without it", "error", err)
		return s.createOrder(ctx, in)
	}
	if !reserved {
		return s.replay(ctx, key, fp)
	}

	order, err := s.createOrder(ctx, in)
	if err != nil {
		// Release the key so the client can retry with it.
		s.release(ctx, key)
		return nil, err
	}

	if err := s.cache.Set(ctx, key, idempotencyEntry(order.ID, fp), idempotencyTTL); err != nil {
		s.logger.WarnContext(ctx, "failed to record idempotency key", "key", key, "order_id", order.ID, "error", err)
		s.release(ctx, key)
	}
	return order, nil
}

func (s *Service) release(ctx context.Context, key string) {
	if err := s.cache.Del(ctx, key); err != nil {
		s.logger.WarnContext(ctx, "failed to release idempotency key", "key", key, "error", err)
	}
}

func (s *Service) replay(ctx context.Context, key, fp string) (*domain.Order, error) {
	val, err := s.cache.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to read idempotency key: %w", err)
	}
	if val == "" || val == idempotencyPending {
		return nil, ErrRequestInFlight
	}

	rawID, storedFP, _ := strings.Cut(val, ":")
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("corrupt idempotency entry %q: %w", val, err)
	}
	if storedFP != fp {
		return nil, ErrIdempotencyMismatch
	}

	s.logger.InfoContext(ctx, "replaying order for idempotency key", "key", key, "order_id", id)
	return s.repo.Get(ctx, id)
}

// idempotencyEntry is "<order id>:<request fingerprint>".
func idempotencyEntry(orderID int64, fp string) string {
	return strconv.FormatInt(orderID, 10) + ":" + fp
}

// fingerprint hashes the parts of a request that decide the order it
// creates. Prices are normalised so 10 and 10.00 match.
func fingerprint(in CreateOrderInput) string {
	h := sha256.New()
	fmt.Fprintf(h, "user=%d;", in.UserID)
	if in.ShippingAddress != nil {
		fmt.Fprintf(h, "address=%q;", *in.ShippingAddress)
	}
	for _, l := range in.Items {
		fmt.Fprintf(h, "item=%d,%d,%s;", l.ProductID, l.Quantity, l.PriceAtPurchase.String())
	}
	return hex.EncodeToString(h.Sum(nil))
}

func (s *Service) createOrder(ctx context.Context, in CreateOrderInput) (*domain.Order, error) {
	customer, err := s.customers.LookupCustomer(ctx, in.UserID)
	if err != nil {
		if errors.Is(err, ports.ErrCustomerNotFound) {
			return nil, &CustomerNotFoundError{ID: in.UserID}
		}
		return nil, fmt.Errorf("%w: %w", ErrCustomerLookup, err)
	}

	address := customer.ShippingAddress
	if in.ShippingAddress != nil && *in.ShippingAddress != "" {
		address = in.ShippingAddress
	}

	order := domain.NewOrder(in.UserID, address, in.Items)
	order.Stamp(s.now())

	if err := s.repo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to save order: %w", err)
	}

	s.logger.InfoContext(ctx, "order created", "order", order)
	return order, nil
}

func (s *Service) GetOrder(ctx context.Context, id int64) (*domain.Order, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) ListOrders(ctx context.Context, f ports.OrderFilter) ([]*domain.Order, error) {
	return s.repo.List(ctx, f)
}

// UpdateOrder applies a partial update. Fields left nil keep their value.
func (s *Service) UpdateOrder(ctx context.Context, id int64, changes ports.OrderChanges) (*domain.Order, error) {
	order, err := s.repo.Update(ctx, id, changes, s.now())
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "order updated", "order", order)
	return order, nil
}

// UpdateStatus overwrites the order status. No transition rules apply.
func (s *Service) UpdateStatus(ctx context.Context, id int64, status domain.Status) (*domain.Order, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("invalid status %q", status)
	}
	order, err := s.repo.Update(ctx, id, ports.OrderChanges{Status: &status}, s.now())
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "order status updated", "order_id", id, "status", status)
	return order, nil
}

func (s *Service) DeleteOrder(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "order deleted", "order_id", id)
	return nil
}

// OrderItems lists the items of an order, or domain.ErrOrderNotFound.
func (s *Service) OrderItems(ctx context.Context, id int64) ([]domain.OrderItem, error) {
	return s.repo.Items(ctx, id)
}
