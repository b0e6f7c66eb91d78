// Package migrations declares the ordered migration sets this tool knows
// how to apply. The list order is the application order.
package migrations

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/schemaward/schemaward/internal/db/update"
)

// DefaultSet is the migration set used when no identifier is given.
const DefaultSet = "core"

var sets = map[string][]update.Migration{
	"core": core,
}

// Set returns the ordered migration list with the given identifier.
func Set(name string) ([]update.Migration, error) {
	if name == "" {
		name = DefaultSet
	}

	set, ok := sets[name]
	if !ok {
		return nil, fmt.Errorf("Unknown migration set %q", name)
	}

	return set, nil
}

var core = []update.Migration{
	{
		Version: "0001-users",
		Up: update.SQL(`
CREATE TABLE users (
    id SERIAL PRIMARY KEY,
    name TEXT NOT NULL UNIQUE,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
)`),
		Down: update.SQL("DROP TABLE users"),
	},
	{
		Version: "0002-roles",
		Up: update.SQL(`
CREATE TABLE roles (
    id SERIAL PRIMARY KEY,
    user_id INTEGER NOT NULL REFERENCES users (id),
    role TEXT NOT NULL
)`),
		Down: update.SQL("DROP TABLE roles"),
	},
	{
		Version: "0003-audit-log",
		Up: update.SQL(`
CREATE TABLE audit_log (
    id SERIAL PRIMARY KEY,
    user_id INTEGER REFERENCES users (id),
    event TEXT NOT NULL,
    logged_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
)`),
		Down: update.SQL("DROP TABLE audit_log"),
	},
	{
		Version: "0004-admin-user",
		Up: update.Do("seed admin user", func(ctx context.Context, tx *sql.Tx) error {
			_, err := tx.ExecContext(ctx, "INSERT INTO users (name) VALUES ($1)", "admin")
			return err
		}),
		Down: update.Do("remove admin user", func(ctx context.Context, tx *sql.Tx) error {
			_, err := tx.ExecContext(ctx, "DELETE FROM users WHERE name = $1", "admin")
			return err
		}),
	},
}
