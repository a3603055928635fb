// Package sqlstore persists orders through database/sql.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jcmexdev/shop-services/internal/order-service/domain"
	"github.com/jcmexdev/shop-services/internal/order-service/ports"
	"github.com/jcmexdev/shop-services/internal/pkg/database"
)

const (
	orderColumns = `order_id, user_id, order_date, status, total_amount, shipping_address, created_at, updated_at`
	itemColumns  = `order_item_id, order_id, product_id, quantity, price_at_purchase, item_total, created_at, updated_at`

	defaultLimit = 100
)

// Repository implements ports.OrderRepository.
type Repository struct {
	db *database.DB
}

var _ ports.OrderRepository = (*Repository)(nil)

func New(db *database.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts the order and every item in one transaction and writes the
// generated ids back into o.
func (r *Repository) Create(ctx context.Context, o *domain.Order) error {
	return r.db.WithTx(ctx, func(tx *database.Tx) error {
		err := tx.QueryRowContext(ctx, tx.Rebind(`
			INSERT INTO orders_week05 (user_id, order_date, status, total_amount, shipping_address, created_at)
			VALUES (?, ?, ?, ?, ?, ?)
			RETURNING order_id`),
			o.UserID, o.OrderDate, string(o.Status), o.TotalAmount,
			database.NullableString(o.ShippingAddress), o.CreatedAt,
		).Scan(&o.ID)
		if err != nil {
			return fmt.Errorf("failed to insert order: %w", err)
		}

		insertItem := tx.Rebind(`
			INSERT INTO order_items_week05 (order_id, product_id, quantity, price_at_purchase, item_total, created_at)
			VALUES (?, ?, ?, ?, ?, ?)
			RETURNING order_item_id`)
		for i := range o.Items {
			it := &o.Items[i]
			it.OrderID = o.ID
			err := tx.QueryRowContext(ctx, insertItem,
				it.OrderID, it.ProductID, it.Quantity, it.PriceAtPurchase, it.ItemTotal, it.CreatedAt,
			).Scan(&it.ID)
			if err != nil {
				return fmt.Errorf("failed to insert item %d: %w", i, err)
			}
		}
		return nil
	})
}

func (r *Repository) Get(ctx context.Context, id int64) (*domain.Order, error) {
	return getOrder(ctx, r.db, id)
}

func (r *Repository) List(ctx context.Context, f ports.OrderFilter) ([]*domain.Order, error) {
	var (
		where []string
		args  []any
	)
	if f.UserID != nil {
		where = append(where, "user_id = ?")
		args = append(args, *f.UserID)
	}
	if f.Status != nil {
		where = append(where, "status = ?")
		args = append(args, string(*f.Status))
	}

	limit := f.Limit
	if limit <= 0 {
		limit = defaultLimit
	}

	q := "SELECT " + orderColumns + " FROM orders_week05"
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY order_id LIMIT ? OFFSET ?"
	args = append(args, limit, f.Skip)

	rows, err := r.db.QueryContext(ctx, r.db.Rebind(q), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	var (
		orders []*domain.Order
		byID   = make(map[int64]*domain.Order)
	)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		o.Items = []domain.OrderItem{}
		orders = append(orders, o)
		byID[o.ID] = o
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	if len(orders) == 0 {
		return []*domain.Order{}, nil
	}

	ids := make([]any, 0, len(orders))
	for _, o := range orders {
		ids = append(ids, o.ID)
	}
	items, err := queryItems(ctx, r.db,
		"WHERE order_id IN ("+strings.TrimSuffix(strings.Repeat("?, ", len(ids)), ", ")+")", ids...)
	if err != nil {
		return nil, err
	}
	for _, it := range items {
		if o, ok := byID[it.OrderID]; ok {
			o.Items = append(o.Items, it)
		}
	}
	return orders, nil
}

// Update applies the non-nil changes and stamps updated_at.
func (r *Repository) Update(ctx context.Context, id int64, changes ports.OrderChanges, at time.Time) (*domain.Order, error) {
	sets := []string{"updated_at = ?"}
	args := []any{at}
	if changes.UserID != nil {
		sets = append(sets, "user_id = ?")
		args = append(args, *changes.UserID)
	}
	if changes.ShippingAddress != nil {
		sets = append(sets, "shipping_address = ?")
		args = append(args, *changes.ShippingAddress)
	}
	if changes.Status != nil {
		sets = append(sets, "status = ?")
		args = append(args, string(*changes.Status))
	}
	args = append(args, id)

	var order *domain.Order
	err := r.db.WithTx(ctx, func(tx *database.Tx) error {
		res, err := tx.ExecContext(ctx,
			tx.Rebind("UPDATE orders_week05 SET "+strings.Join(sets, ", ")+" WHERE order_id = ?"), args...)
		if err != nil {
			return fmt.Errorf("failed to update order %d: %w", id, err)
		}
		if n, err := res.RowsAffected(); err != nil {
			return err
		} else if n == 0 {
			return domain.ErrOrderNotFound
		}

		order, err = getOrder(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// Delete removes the order; its items go with it through ON DELETE CASCADE.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind("DELETE FROM orders_week05 WHERE order_id = ?"), id)
	if err != nil {
		return fmt.Errorf("failed to delete order %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}

func (r *Repository) Items(ctx context.Context, orderID int64) ([]domain.OrderItem, error) {
	var one int
	err := r.db.QueryRowContext(ctx, r.db.Rebind("SELECT 1 FROM orders_week05 WHERE order_id = ?"), orderID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load order %d: %w", orderID, err)
	}
	return queryItems(ctx, r.db, "WHERE order_id = ?", orderID)
}

func getOrder(ctx context.Context, q database.Runner, id int64) (*domain.Order, error) {
	row := q.QueryRowContext(ctx, q.Rebind("SELECT "+orderColumns+" FROM orders_week05 WHERE order_id = ?"), id)
	o, err := scanOrder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}

	o.Items, err = queryItems(ctx, q, "WHERE order_id = ?", id)
	if err != nil {
		return nil, err
	}
	return o, nil
}

func queryItems(ctx context.Context, q database.Runner, where string, args ...any) ([]domain.OrderItem, error) {
	rows, err := q.QueryContext(ctx,
		q.Rebind("SELECT "+itemColumns+" FROM order_items_week05 "+where+" ORDER BY order_item_id"), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to load order items: %w", err)
	}
	defer rows.Close()

	items := []domain.OrderItem{}
	for rows.Next() {
		var (
			it        domain.OrderItem
			createdAt database.Time
			updatedAt database.NullTime
		)
		err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.Quantity,
			&it.PriceAtPurchase, &it.ItemTotal, &createdAt, &updatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		it.CreatedAt = createdAt.Time
		it.UpdatedAt = updatedAt.Ptr()
		items = append(items, it)
	}
	return items, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanOrder(s scanner) (*domain.Order, error) {
	var (
		o         domain.Order
		status    string
		total     decimal.Decimal
		address   sql.NullString
		orderDate database.Time
		createdAt database.Time
		updatedAt database.NullTime
	)
	err := s.Scan(&o.ID, &o.UserID, &orderDate, &status, &total, &address, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan order: %w", err)
	}

	o.Status = domain.Status(status)
	o.TotalAmount = total
	if address.Valid {
		o.ShippingAddress = &address.String
	}
	o.OrderDate = orderDate.Time
	o.CreatedAt = createdAt.Time
	o.UpdatedAt = updatedAt.Ptr()
	return &o, nil
}
