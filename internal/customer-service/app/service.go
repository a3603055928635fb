// Package app implements customer registration and maintenance.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/jcmexdev/shop-services/internal/customer-service/domain"
	"github.com/jcmexdev/shop-services/internal/customer-service/ports"
)

// Service runs the customer use cases.
type Service struct {
	repo     ports.CustomerRepository
	hashCost int
	now      func() time.Time
	logger   *slog.Logger
}

type Option func(*Service)

// WithHashCost sets the bcrypt cost. Tests use bcrypt.MinCost.
func WithHashCost(cost int) Option {
	return func(s *Service) { s.hashCost = cost }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

func NewService(repo ports.CustomerRepository, opts ...Option) *Service {
	s := &Service{
		repo:     repo,
		hashCost: bcrypt.DefaultCost,
		now:      func() time.Time { return time.Now().UTC().Truncate(time.Microsecond) },
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type CreateCustomerInput struct {
	Email           string
	Password        string
	FirstName       string
	LastName        string
	PhoneNumber     *string
	ShippingAddress *string
}

// CreateCustomer registers a customer, storing only a bcrypt hash of the
// password.
func (s *Service) CreateCustomer(ctx context.Context, in CreateCustomerInput) (*domain.Customer, error) {
	if err := s.ensureEmailFree(ctx, in.Email, 0); err != nil {
		return nil, err
	}

	hash, err := s.hash(in.Password)
	if err != nil {
		return nil, err
	}

	c := &domain.Customer{
		Email:           in.Email,
		PasswordHash:    hash,
		FirstName:       in.FirstName,
		LastName:        in.LastName,
		PhoneNumber:     in.PhoneNumber,
		ShippingAddress: in.ShippingAddress,
		CreatedAt:       s.now(),
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "customer created", "customer", c)
	return c, nil
}

func (s *Service) GetCustomer(ctx context.Context, id int64) (*domain.Customer, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) ListCustomers(ctx context.Context, skip, limit int) ([]*domain.Customer, error) {
	return s.repo.List(ctx, skip, limit)
}

// UpdateCustomerInput is a partial update. A non-nil Password is re-hashed.
type UpdateCustomerInput struct {
	Email           *string
	Password        *string
	FirstName       *string
	LastName        *string
	PhoneNumber     *string
	ShippingAddress *string
}

func (s *Service) UpdateCustomer(ctx context.Context, id int64, in UpdateCustomerInput) (*domain.Customer, error) {
	if in.Email != nil {
		if err := s.ensureEmailFree(ctx, *in.Email, id); err != nil {
			return nil, err
		}
	}

	changes := ports.CustomerChanges{
		Email:           in.Email,
		FirstName:       in.FirstName,
		LastName:        in.LastName,
		PhoneNumber:     in.PhoneNumber,
		ShippingAddress: in.ShippingAddress,
	}
	if in.Password != nil {
		hash, err := s.hash(*in.Password)
		if err != nil {
			return nil, err
		}
		changes.PasswordHash = &hash
	}

	c, err := s.repo.Update(ctx, id, changes, s.now())
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "customer updated", "customer", c)
	return c, nil
}

func (s *Service) DeleteCustomer(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "customer deleted", "customer_id", id)
	return nil
}

// ensureEmailFree fails with ErrEmailTaken when another customer than self
// already uses email. The unique index still guards against races.
func (s *Service) ensureEmailFree(ctx context.Context, email string, self int64) error {
	existing, err := s.repo.GetByEmail(ctx, email)
	switch {
	case errors.Is(err, domain.ErrCustomerNotFound):
		return nil
	case err != nil:
		return err
	case existing.ID != self:
		return domain.ErrEmailTaken
	default:
		return nil
	}
}

func (s *Service) hash(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(b), nil
}
