// Package app implements the product catalogue use cases.
package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jcmexdev/shop-services/internal/product-service/domain"
	"github.com/jcmexdev/shop-services/internal/product-service/ports"
)

type Service struct {
	repo   ports.ProductRepository
	now    func() time.Time
	logger *slog.Logger
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

func NewService(repo ports.ProductRepository, opts ...Option) *Service {
	s := &Service{
		repo:   repo,
		now:    func() time.Time { return time.Now().UTC().Truncate(time.Microsecond) },
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type CreateProductInput struct {
	Name        string
	Description *string
	Price       decimal.Decimal
	// StockQuantity is optional; nil means no stock on hand.
	StockQuantity *int
	ImageURL      *string
}

func (s *Service) CreateProduct(ctx context.Context, in CreateProductInput) (*domain.Product, error) {
	p := domain.NewProduct(in.Name, in.Price)
	p.Description = in.Description
	p.ImageURL = in.ImageURL
	if in.StockQuantity != nil {
		p.StockQuantity = *in.StockQuantity
	}
	p.CreatedAt = s.now()

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "product created", "product", p)
	return p, nil
}

func (s *Service) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) ListProducts(ctx context.Context, skip, limit int) ([]*domain.Product, error) {
	return s.repo.List(ctx, skip, limit)
}

func (s *Service) UpdateProduct(ctx context.Context, id int64, changes ports.ProductChanges) (*domain.Product, error) {
	p, err := s.repo.Update(ctx, id, changes, s.now())
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "product updated", "product", p)
	return p, nil
}

func (s *Service) DeleteProduct(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "product deleted", "product_id", id)
	return nil
}

// DeductStock removes qty units from the product's stock. Concurrent calls
// cannot drive stock below zero.
func (s *Service) DeductStock(ctx context.Context, id int64, qty int) (*domain.Product, error) {
	p, err := s.repo.DeductStock(ctx, id, qty, s.now())
	if err != nil {
		s.logger.WarnContext(ctx, "stock deduction refused", "product_id", id, "quantity", qty, "error", err)
		return nil, err
	}
	s.logger.InfoContext(ctx, "stock deducted", "product", p, "quantity", qty)
	return p, nil
}
