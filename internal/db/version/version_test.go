package version_test

import (
	"context"
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schemaward/schemaward/internal/db/version"
)

// Creating the tracking table twice is a no-op.
func TestEnsureSchema_Idempotent(t *testing.T) {
	tx := newTx(t)

	err := version.EnsureSchema(context.Background(), tx)
	require.NoError(t, err)

	err = version.EnsureSchema(context.Background(), tx)
	require.NoError(t, err)
}

// A fresh table has an empty applied set.
func TestAppliedSet_Empty(t *testing.T) {
	tx := newTx(t)
	require.NoError(t, version.EnsureSchema(context.Background(), tx))

	applied, err := version.AppliedSet(context.Background(), tx)
	require.NoError(t, err)
	assert.Empty(t, applied)
}

// Recorded upgrades show up in the applied set along with their SQL.
func TestRecordUpgrade(t *testing.T) {
	tx := newTx(t)
	ctx := context.Background()
	require.NoError(t, version.EnsureSchema(ctx, tx))

	err := version.RecordUpgrade(ctx, tx, "0001-initial", "CREATE TABLE users (id INTEGER)")
	require.NoError(t, err)

	applied, err := version.AppliedSet(ctx, tx)
	require.NoError(t, err)
	assert.True(t, applied["0001-initial"])

	records, err := version.History(ctx, tx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "0001-initial", records[0].Version)
	assert.Equal(t, "CREATE TABLE users (id INTEGER)", records[0].AppliedSQL)
	assert.False(t, records[0].MigratedAt.IsZero())
}

// Recording the same version twice violates the unique constraint rather
// than silently re-recording.
func TestRecordUpgrade_Duplicate(t *testing.T) {
	tx := newTx(t)
	ctx := context.Background()
	require.NoError(t, version.EnsureSchema(ctx, tx))

	err := version.RecordUpgrade(ctx, tx, "0001-initial", "CREATE TABLE users (id INTEGER)")
	require.NoError(t, err)

	err = version.RecordUpgrade(ctx, tx, "0001-initial", "CREATE TABLE users (id INTEGER)")
	assert.Error(t, err)
}

// Deleting a recorded version succeeds exactly once.
func TestRecordDowngrade(t *testing.T) {
	tx := newTx(t)
	ctx := context.Background()
	require.NoError(t, version.EnsureSchema(ctx, tx))
	require.NoError(t, version.RecordUpgrade(ctx, tx, "0001-initial", "CREATE TABLE users (id INTEGER)"))

	err := version.RecordDowngrade(ctx, tx, "0001-initial")
	require.NoError(t, err)

	// The row is gone, so a second delete affects zero rows.
	err = version.RecordDowngrade(ctx, tx, "0001-initial")
	assert.ErrorContains(t, err, "expected exactly 1")
}

// Return a transaction against a fresh in-memory SQLite database.
func newTx(t *testing.T) *sql.Tx {
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	tx, err := db.Begin()
	require.NoError(t, err)
	t.Cleanup(func() { _ = tx.Rollback() })

	return tx
}
