// Package ports declares the storage the customer service depends on.
package ports

import (
	"context"
	"time"

	"github.com/jcmexdev/shop-services/internal/customer-service/domain"
)

// CustomerChanges is a partial update; nil fields are left as they are.
type CustomerChanges struct {
	Email           *string
	PasswordHash    *string
	FirstName       *string
	LastName        *string
	PhoneNumber     *string
	ShippingAddress *string
}

// CustomerRepository persists customers. Lookups by id return
// domain.ErrCustomerNotFound; writes that would duplicate an email return
// domain.ErrEmailTaken.
type CustomerRepository interface {
	Create(ctx context.Context, c *domain.Customer) error
	Get(ctx context.Context, id int64) (*domain.Customer, error)
	GetByEmail(ctx context.Context, email string) (*domain.Customer, error)
	List(ctx context.Context, skip, limit int) ([]*domain.Customer, error)
	Update(ctx context.Context, id int64, changes CustomerChanges, at time.Time) (*domain.Customer, error)
	Delete(ctx context.Context, id int64) error
}
