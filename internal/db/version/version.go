// Package version manages the table tracking which schema migrations have
// been applied to the database.
package version

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/schemaward/schemaward/internal/db/query"
)

// TableName is the name of the version-tracking table.
const TableName = "schema_versions"

// Record is one row of the version-tracking table. Rows are written exactly
// once per applied migration and never updated; applied_sql is kept for audit
// only.
type Record struct {
	Version    string
	MigratedAt time.Time
	AppliedSQL string
}

// EnsureSchema creates the version-tracking table if it doesn't exist yet.
// It is idempotent and safe to run on every invocation.
func EnsureSchema(ctx context.Context, tx *sql.Tx) error {
	stmt := fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS %s (
    version     TEXT      NOT NULL UNIQUE,
    migrated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    applied_sql TEXT      NOT NULL
)
`, TableName)

	_, err := tx.ExecContext(ctx, stmt)
	if err != nil {
		return fmt.Errorf("Failed to create %q table: %w", TableName, err)
	}

	return nil
}

// AppliedSet returns the set of migration versions currently recorded as
// applied.
func AppliedSet(ctx context.Context, tx *sql.Tx) (map[string]bool, error) {
	versions, err := query.SelectStrings(ctx, tx, fmt.Sprintf("SELECT version FROM %s", TableName))
	if err != nil {
		return nil, fmt.Errorf("Failed to fetch applied migration versions: %w", err)
	}

	applied := make(map[string]bool, len(versions))
	for _, v := range versions {
		applied[v] = true
	}

	return applied, nil
}

// RecordUpgrade inserts a row recording that the migration with the given
// version was applied. Anything but exactly one inserted row is a consistency
// violation: the executed migration and the tracking table would disagree.
func RecordUpgrade(ctx context.Context, tx *sql.Tx, version string, appliedSQL string) error {
	stmt := fmt.Sprintf("INSERT INTO %s (version, applied_sql) VALUES ($1, $2)", TableName)
	result, err := tx.ExecContext(ctx, stmt, version, appliedSQL)
	if err != nil {
		return fmt.Errorf("Failed to record migration %q: %w", version, err)
	}

	return expectOneRow(result, version)
}

// RecordDowngrade deletes the row for the given migration version, with the
// same exactly-one-row contract as RecordUpgrade.
func RecordDowngrade(ctx context.Context, tx *sql.Tx, version string) error {
	stmt := fmt.Sprintf("DELETE FROM %s WHERE version = $1", TableName)
	result, err := tx.ExecContext(ctx, stmt, version)
	if err != nil {
		return fmt.Errorf("Failed to delete record for migration %q: %w", version, err)
	}

	return expectOneRow(result, version)
}

// History returns all recorded migrations in application order.
func History(ctx context.Context, tx *sql.Tx) ([]Record, error) {
	records := []Record{}
	dest := func(scan func(dest ...any) error) error {
		r := Record{}
		err := scan(&r.Version, &r.MigratedAt, &r.AppliedSQL)
		if err != nil {
			return err
		}

		records = append(records, r)
		return nil
	}

	stmt := fmt.Sprintf("SELECT version, migrated_at, applied_sql FROM %s ORDER BY migrated_at, version", TableName)
	err := query.Scan(ctx, tx, stmt, dest)
	if err != nil {
		return nil, fmt.Errorf("Failed to fetch migration history: %w", err)
	}

	return records, nil
}

func expectOneRow(result sql.Result, version string) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("Failed to get rows affected for migration %q: %w", version, err)
	}

	if n != 1 {
		return fmt.Errorf("Record for migration %q affected %d rows, expected exactly 1", version, n)
	}

	return nil
}
