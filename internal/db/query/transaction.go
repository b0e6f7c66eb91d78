// Package query provides helpers to run SQL queries and transactions
// against a database/sql database.
package query

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/canonical/lxd/shared/logger"
)

// Transaction executes the given function within a database transaction.
// The transaction is committed if the function returns nil, and rolled
// back otherwise.
func Transaction(ctx context.Context, db *sql.DB, f func(context.Context, *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("Failed to begin transaction: %w", err)
	}

	err = f(ctx, tx)
	if err != nil {
		return rollback(tx, err)
	}

	err = tx.Commit()
	if err == sql.ErrTxDone {
		err = nil // Ignore duplicate commits/rollbacks.
	}

	if err != nil {
		return rollback(tx, err)
	}

	return nil
}

// Rollback a transaction after the given error occurred. If the rollback
// succeeds the given error is returned, otherwise a new error that wraps
// it gets generated and returned.
func rollback(tx *sql.Tx, reason error) error {
	err := tx.Rollback()
	if err != nil {
		logger.Warn("Failed to rollback transaction", logger.Ctx{"err": err})
	}

	return reason
}
