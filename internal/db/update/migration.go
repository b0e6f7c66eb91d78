// Package update applies ordered, versioned schema migrations to a database
// and records each applied migration in the version-tracking table.
package update

import (
	"context"
	"database/sql"
	"fmt"
)

// Direction selects which of a migration's actions gets executed.
type Direction int

const (
	// Upgrade runs the forward action of each migration.
	Upgrade Direction = iota

	// Downgrade runs the reverse action of each migration.
	Downgrade
)

// String implements fmt.Stringer.
func (d Direction) String() string {
	if d == Downgrade {
		return "downgrade"
	}

	return "upgrade"
}

// Hook is a migration action implemented in Go rather than SQL. It runs
// inside the migration's transaction and must not commit or roll back itself.
type Hook func(ctx context.Context, tx *sql.Tx) error

// Action is one side of a migration, either a literal SQL statement or a Go
// hook. The zero Action is invalid and rejected at execution time.
type Action struct {
	sql      string
	hookName string
	hook     Hook
}

// SQL returns an action that executes the given statement verbatim.
func SQL(text string) Action {
	return Action{sql: text}
}

// Do returns an action that invokes the given hook. The name is recorded in
// the version-tracking table in place of SQL text, for audit only.
func Do(name string, hook Hook) Action {
	return Action{hookName: name, hook: hook}
}

// Text returns what gets stored in the applied_sql column for this action.
func (a Action) Text() string {
	if a.hook != nil {
		return fmt.Sprintf("-- go hook: %s", a.hookName)
	}

	return a.sql
}

// run executes the action on the given transaction.
func (a Action) run(ctx context.Context, tx *sql.Tx) error {
	if a.hook != nil {
		return a.hook(ctx, tx)
	}

	if a.sql != "" {
		_, err := tx.ExecContext(ctx, a.sql)
		return err
	}

	return fmt.Errorf("Migration action is neither SQL nor a hook")
}

// Migration is one versioned schema change. The version must be unique
// across the migration list, and the list's order is the only valid
// application order.
type Migration struct {
	Version string
	Up      Action
	Down    Action
}
