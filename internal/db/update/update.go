package update

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/canonical/lxd/shared/logger"

	"github.com/schemaward/schemaward/internal/db/query"
	"github.com/schemaward/schemaward/internal/db/version"
)

// Migrate brings the database in line with the given ordered migration list.
//
// The version-tracking table is created (and committed) first, then the
// applied set is read and, when upgrading, the pending migrations are run in
// list order. Each migration commits in its own transaction, so a failure
// part way through leaves the earlier migrations applied.
//
// Downgrade reverts the single most recently applied migration; anything
// further fails with ErrDowngradeUnsupported before any SQL runs.
//
// Returns the number of migrations that were run.
func Migrate(ctx context.Context, db *sql.DB, direction Direction, migrations []Migration) (int, error) {
	err := checkVersions(migrations)
	if err != nil {
		return 0, err
	}

	err = query.Transaction(ctx, db, func(ctx context.Context, tx *sql.Tx) error {
		return version.EnsureSchema(ctx, tx)
	})
	if err != nil {
		return 0, err
	}

	var applied map[string]bool
	err = query.Transaction(ctx, db, func(ctx context.Context, tx *sql.Tx) error {
		applied, err = version.AppliedSet(ctx, tx)
		return err
	})
	if err != nil {
		return 0, err
	}

	warnUnknownApplied(applied, migrations)

	var todo []Migration
	switch direction {
	case Upgrade:
		for _, m := range migrations {
			if !applied[m.Version] {
				todo = append(todo, m)
			}
		}

	case Downgrade:
		// Only the most recent applied migration may be reverted.
		for i := len(migrations) - 1; i >= 0; i-- {
			if applied[migrations[i].Version] {
				todo = []Migration{migrations[i]}
				break
			}
		}

	default:
		return 0, fmt.Errorf("Unknown migration direction %d", direction)
	}

	if len(todo) == 0 {
		logger.Info("No migrations to run", logger.Ctx{"direction": direction.String()})
		return 0, nil
	}

	return runAll(ctx, db, direction, todo)
}

// runAll executes the given migrations in order, stopping at the first
// failure. Earlier migrations stay committed.
func runAll(ctx context.Context, db *sql.DB, direction Direction, migrations []Migration) (int, error) {
	if direction == Downgrade && len(migrations) > 1 {
		return 0, ErrDowngradeUnsupported
	}

	for i, m := range migrations {
		err := runOne(ctx, db, direction, m)
		if err != nil {
			return i, fmt.Errorf("Failed to %s migration %q: %w", direction, m.Version, err)
		}

		logger.Info("Ran migration", logger.Ctx{"direction": direction.String(), "version": m.Version})
	}

	return len(migrations), nil
}

// runOne executes a single migration and its version bookkeeping inside one
// transaction. On error the transaction is rolled back and the error
// propagated; there are no retries.
func runOne(ctx context.Context, db *sql.DB, direction Direction, m Migration) error {
	action := m.Up
	if direction == Downgrade {
		action = m.Down
	}

	return query.Transaction(ctx, db, func(ctx context.Context, tx *sql.Tx) error {
		err := action.run(ctx, tx)
		if err != nil {
			return err
		}

		if direction == Downgrade {
			return version.RecordDowngrade(ctx, tx, m.Version)
		}

		return version.RecordUpgrade(ctx, tx, m.Version, action.Text())
	})
}

// checkVersions rejects migration lists with duplicate versions.
func checkVersions(migrations []Migration) error {
	seen := make(map[string]bool, len(migrations))
	for _, m := range migrations {
		if seen[m.Version] {
			return fmt.Errorf("Duplicate migration version %q", m.Version)
		}

		seen[m.Version] = true
	}

	return nil
}

// warnUnknownApplied flags recorded versions that are absent from the given
// migration list, e.g. a migration deleted after being applied. That state
// isn't fatal but the operator should know about it.
func warnUnknownApplied(applied map[string]bool, migrations []Migration) {
	known := make(map[string]bool, len(migrations))
	for _, m := range migrations {
		known[m.Version] = true
	}

	for v := range applied {
		if !known[v] {
			logger.Warn("Recorded migration is missing from the migration list", logger.Ctx{"version": v})
		}
	}
}
