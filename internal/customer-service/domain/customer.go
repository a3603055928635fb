// Package domain holds the customer entity.
package domain

import (
	"errors"
	"log/slog"
	"time"
)

var (
	ErrCustomerNotFound = errors.New("customer not found")
	ErrEmailTaken       = errors.New("email already registered")
)

// Customer is a registered shopper. PasswordHash is a bcrypt hash and never
// leaves the service.
type Customer struct {
	ID              int64
	Email           string
	PasswordHash    string
	FirstName       string
	LastName        string
	PhoneNumber     *string
	ShippingAddress *string
	CreatedAt       time.Time
	UpdatedAt       *time.Time
}

func (c *Customer) FullName() string {
	return c.FirstName + " " + c.LastName
}

// LogValue keeps the password hash and contact details out of logs.
func (c *Customer) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int64("customer_id", c.ID),
		slog.String("email", c.Email),
		slog.String("name", c.FullName()),
	)
}
