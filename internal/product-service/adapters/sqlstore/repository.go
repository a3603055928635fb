// Package sqlstore persists products through database/sql.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jcmexdev/shop-services/internal/pkg/database"
	"github.com/jcmexdev/shop-services/internal/product-service/domain"
	"github.com/jcmexdev/shop-services/internal/product-service/ports"
)

const productColumns = `product_id, name, description, price, stock_quantity, image_url, created_at, updated_at`

type Repository struct {
	db *database.DB
}

var _ ports.ProductRepository = (*Repository)(nil)

func New(db *database.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, p *domain.Product) error {
	err := r.db.QueryRowContext(ctx, r.db.Rebind(`
		INSERT INTO products_week05 (name, description, price, stock_quantity, image_url, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING product_id`),
		p.Name, database.NullableString(p.Description), p.Price, p.StockQuantity,
		database.NullableString(p.ImageURL), p.CreatedAt,
	).Scan(&p.ID)
	if err != nil {
		return fmt.Errorf("failed to insert product: %w", err)
	}
	return nil
}

func (r *Repository) Get(ctx context.Context, id int64) (*domain.Product, error) {
	return getProduct(ctx, r.db, id)
}

func (r *Repository) List(ctx context.Context, skip, limit int) ([]*domain.Product, error) {
	rows, err := r.db.QueryContext(ctx,
		r.db.Rebind("SELECT "+productColumns+" FROM products_week05 ORDER BY product_id LIMIT ? OFFSET ?"),
		limit, skip)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	products := []*domain.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (r *Repository) Update(ctx context.Context, id int64, changes ports.ProductChanges, at time.Time) (*domain.Product, error) {
	sets := []string{"updated_at = ?"}
	args := []any{at}
	set := func(column string, v any) {
		sets = append(sets, column+" = ?")
		args = append(args, v)
	}
	if changes.Name != nil {
		set("name", *changes.Name)
	}
	if changes.Description != nil {
		set("description", *changes.Description)
	}
	if changes.Price != nil {
		set("price", *changes.Price)
	}
	if changes.StockQuantity != nil {
		set("stock_quantity", *changes.StockQuantity)
	}
	if changes.ImageURL != nil {
		set("image_url", *changes.ImageURL)
	}
	args = append(args, id)

	var product *domain.Product
	err := r.db.WithTx(ctx, func(tx *database.Tx) error {
		res, err := tx.ExecContext(ctx,
			tx.Rebind("UPDATE products_week05 SET "+strings.Join(sets, ", ")+" WHERE product_id = ?"), args...)
		if err != nil {
			return fmt.Errorf("failed to update product %d: %w", id, err)
		}
		if n, err := res.RowsAffected(); err != nil {
			return err
		} else if n == 0 {
			return domain.ErrProductNotFound
		}

		product, err = getProduct(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return product, nil
}

func (r *Repository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind("DELETE FROM products_week05 WHERE product_id = ?"), id)
	if err != nil {
		return fmt.Errorf("failed to delete product %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

// DeductStock guards the decrement with stock_quantity >= qty so two racing
// deductions can never both succeed against the same units.
func (r *Repository) DeductStock(ctx context.Context, id int64, qty int, at time.Time) (*domain.Product, error) {
	var product *domain.Product
	err := r.db.WithTx(ctx, func(tx *database.Tx) error {
		res, err := tx.ExecContext(ctx, tx.Rebind(`
			UPDATE products_week05
			SET stock_quantity = stock_quantity - ?, updated_at = ?
			WHERE product_id = ? AND stock_quantity >= ?`),
			qty, at, id, qty)
		if err != nil {
			return fmt.Errorf("failed to deduct stock for product %d: %w", id, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}

		product, err = getProduct(ctx, tx, id)
		if err != nil {
			return err
		}
		if n == 0 {
			return domain.ErrInsufficientStock
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return product, nil
}

func getProduct(ctx context.Context, q database.Runner, id int64) (*domain.Product, error) {
	row := q.QueryRowContext(ctx, q.Rebind("SELECT "+productColumns+" FROM products_week05 WHERE product_id = ?"), id)
	p, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrProductNotFound
	}
	return p, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProduct(s scanner) (*domain.Product, error) {
	var (
		p           domain.Product
		description sql.NullString
		price       decimal.Decimal
		imageURL    sql.NullString
		createdAt   database.Time
		updatedAt   database.NullTime
	)
	err := s.Scan(&p.ID, &p.Name, &description, &price, &p.StockQuantity, &imageURL, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan product: %w", err)
	}
	p.Price = price
	if description.Valid {
		p.Description = &description.String
	}
	if imageURL.Valid {
		p.ImageURL = &imageURL.String
	}
	p.CreatedAt = createdAt.Time
	p.UpdatedAt = updatedAt.Ptr()
	return &p, nil
}
