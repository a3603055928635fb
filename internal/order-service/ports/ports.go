// Package ports declares what the order service needs from the outside world.
package ports

import (
	"context"
	"errors"
	"time"

	"github.com/jcmexdev/shop-services/internal/order-service/domain"
)

// ErrCustomerNotFound is returned by a CustomerDirectory when the customer
// service answers that the id does not exist.
var ErrCustomerNotFound = errors.New("customer not found")

// Customer is the slice of a customer record the order workflow reads.
type Customer struct {
	ID              int64
	Email           string
	ShippingAddress *string
}

// CustomerDirectory looks customers up in the customer service.
type CustomerDirectory interface {
	LookupCustomer(ctx context.Context, id int64) (Customer, error)
}

// OrderFilter narrows an order listing. Nil fields are not applied.
type OrderFilter struct {
	UserID *int64
	Status *domain.Status
	Skip   int
	Limit  int
}

// OrderChanges is a partial update; nil fields are left as they are.
type OrderChanges struct {
	UserID          *int64
	ShippingAddress *string
	Status          *domain.Status
}

// OrderRepository persists orders and their items. Methods that address a
// single order return domain.ErrOrderNotFound when it does not exist.
type OrderRepository interface {
	// Create stores o and its items atomically and fills in the generated ids.
	Create(ctx context.Context, o *domain.Order) error
	Get(ctx context.Context, id int64) (*domain.Order, error)
	List(ctx context.Context, f OrderFilter) ([]*domain.Order, error)
	Update(ctx context.Context, id int64, changes OrderChanges, at time.Time) (*domain.Order, error)
	Delete(ctx context.Context, id int64) error
	Items(ctx context.Context, orderID int64) ([]domain.OrderItem, error)
}
