package database

import (
	"context"
	"database/sql"
	"fmt"
)

// Tx is a transaction that remembers the dialect it was opened with.
type Tx struct {
	*sql.Tx
	dialect Dialect
}

// Rebind rewrites placeholders for the transaction's dialect.
func (tx *Tx) Rebind(query string) string {
	return Rebind(tx.dialect, query)
}

// WithTx runs fn inside a transaction. The transaction commits when fn returns
// nil and rolls back otherwise, so callers never observe a partial write.
func (db *DB) WithTx(ctx context.Context, fn func(tx *Tx) error) error {
	sqlTx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	tx := &Tx{Tx: sqlTx, dialect: db.dialect}

	if err := fn(tx); err != nil {
		if rbErr := sqlTx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (rollback failed: %v)", err, rbErr)
		}
		return err
	}

	if err := sqlTx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
