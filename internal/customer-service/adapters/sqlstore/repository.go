// Package sqlstore persists customers through database/sql.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jcmexdev/shop-services/internal/customer-service/domain"
	"github.com/jcmexdev/shop-services/internal/customer-service/ports"
	"github.com/jcmexdev/shop-services/internal/pkg/database"
)

const customerColumns = `customer_id, email, password_hash, first_name, last_name, phone_number, shipping_address, created_at, updated_at`

type Repository struct {
	db *database.DB
}

var _ ports.CustomerRepository = (*Repository)(nil)

func New(db *database.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, c *domain.Customer) error {
	err := r.db.QueryRowContext(ctx, r.db.Rebind(`
		INSERT INTO customers_week05 (email, password_hash, first_name, last_name, phone_number, shipping_address, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		RETURNING customer_id`),
		c.Email, c.PasswordHash, c.FirstName, c.LastName,
		database.NullableString(c.PhoneNumber), database.NullableString(c.ShippingAddress), c.CreatedAt,
	).Scan(&c.ID)
	if database.IsUniqueViolation(err) {
		return domain.ErrEmailTaken
	}
	if err != nil {
		return fmt.Errorf("failed to insert customer: %w", err)
	}
	return nil
}

func (r *Repository) Get(ctx context.Context, id int64) (*domain.Customer, error) {
	return getCustomer(ctx, r.db, "customer_id = ?", id)
}

func (r *Repository) GetByEmail(ctx context.Context, email string) (*domain.Customer, error) {
	return getCustomer(ctx, r.db, "email = ?", email)
}

func (r *Repository) List(ctx context.Context, skip, limit int) ([]*domain.Customer, error) {
	rows, err := r.db.QueryContext(ctx,
		r.db.Rebind("SELECT "+customerColumns+" FROM customers_week05 ORDER BY customer_id LIMIT ? OFFSET ?"),
		limit, skip)
	if err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	defer rows.Close()

	customers := []*domain.Customer{}
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		customers = append(customers, c)
	}
	return customers, rows.Err()
}

func (r *Repository) Update(ctx context.Context, id int64, changes ports.CustomerChanges, at time.Time) (*domain.Customer, error) {
	sets := []string{"updated_at = ?"}
	args := []any{at}
	add := func(column string, v *string) {
		if v != nil {
			sets = append(sets, column+" = ?")
			args = append(args, *v)
		}
	}
	add("email", changes.Email)
	add("password_hash", changes.PasswordHash)
	add("first_name", changes.FirstName)
	add("last_name", changes.LastName)
	add("phone_number", changes.PhoneNumber)
	add("shipping_address", changes.ShippingAddress)
	args = append(args, id)

	var customer *domain.Customer
	err := r.db.WithTx(ctx, func(tx *database.Tx) error {
		res, err := tx.ExecContext(ctx,
			tx.Rebind("UPDATE customers_week05 SET "+strings.Join(sets, ", ")+" WHERE customer_id = ?"), args...)
		if database.IsUniqueViolation(err) {
			return domain.ErrEmailTaken
		}
		if err != nil {
			return fmt.Errorf("failed to update customer %d: %w", id, err)
		}
		if n, err := res.RowsAffected(); err != nil {
			return err
		} else if n == 0 {
			return domain.ErrCustomerNotFound
		}

		customer, err = getCustomer(ctx, tx, "customer_id = ?", id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return customer, nil
}

func (r *Repository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind("DELETE FROM customers_week05 WHERE customer_id = ?"), id)
	if err != nil {
		return fmt.Errorf("failed to delete customer %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrCustomerNotFound
	}
	return nil
}

func getCustomer(ctx context.Context, q database.Runner, where string, arg any) (*domain.Customer, error) {
	row := q.QueryRowContext(ctx, q.Rebind("SELECT "+customerColumns+" FROM customers_week05 WHERE "+where), arg)
	c, err := scanCustomer(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrCustomerNotFound
	}
	return c, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCustomer(s scanner) (*domain.Customer, error) {
	var (
		c         domain.Customer
		phone     sql.NullString
		address   sql.NullString
		createdAt database.Time
		updatedAt database.NullTime
	)
	err := s.Scan(&c.ID, &c.Email, &c.PasswordHash, &c.FirstName, &c.LastName,
		&phone, &address, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan customer: %w", err)
	}
	if phone.Valid {
		c.PhoneNumber = &phone.String
	}
	if address.Valid {
		c.ShippingAddress = &address.String
	}
	c.CreatedAt = createdAt.Time
	c.UpdatedAt = updatedAt.Ptr()
	return &c, nil
}
