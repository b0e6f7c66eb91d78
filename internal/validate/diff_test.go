package validate

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const referenceSchema = `CREATE TABLE users (
    id integer NOT NULL,
    name text
);
CREATE TABLE groups (
    id integer NOT NULL
);
`

// Identical texts produce the match outcome with exit status zero and no
// snapshot.
func TestDiff_Match(t *testing.T) {
	ref := writeReference(t)

	outcome, err := Diff(context.Background(), ref, referenceSchema)
	require.NoError(t, err)
	assert.Equal(t, 0, outcome.Code)
	assert.Empty(t, outcome.Diff)
	assert.Empty(t, outcome.Snapshot)
}

// A schema missing a table yields exit status one, a diff for display and
// exactly one snapshot file. A re-run in the same second refuses to
// overwrite the snapshot.
func TestDiff_Mismatch(t *testing.T) {
	ref := writeReference(t)
	fixClock(t)

	actual := `CREATE TABLE users (
    id integer NOT NULL,
    name text
);
`

	outcome, err := Diff(context.Background(), ref, actual)
	require.NoError(t, err)
	assert.Equal(t, 1, outcome.Code)
	assert.Contains(t, outcome.Diff, "-CREATE TABLE groups (")

	require.NotEmpty(t, outcome.Snapshot)
	content, err := os.ReadFile(outcome.Snapshot)
	require.NoError(t, err)
	assert.Equal(t, actual, string(content))

	// Same clock, same name: the existing snapshot is kept.
	again, err := Diff(context.Background(), ref, referenceSchema+"CREATE TABLE extra (id integer);\n")
	require.NoError(t, err)
	assert.Equal(t, 1, again.Code)
	assert.Empty(t, again.Snapshot)

	content, err = os.ReadFile(outcome.Snapshot)
	require.NoError(t, err)
	assert.Equal(t, actual, string(content))

	entries, err := filepath.Glob(filepath.Join(filepath.Dir(ref), snapshotPrefix+"*.sql"))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

// A missing reference file makes the diff tool itself fail, which surfaces
// as an error carrying the tool's status.
func TestDiff_ToolError(t *testing.T) {
	ref := filepath.Join(t.TempDir(), "missing.sql")

	outcome, err := Diff(context.Background(), ref, referenceSchema)
	require.Error(t, err)
	require.NotNil(t, outcome)
	assert.Equal(t, 2, outcome.Code)
	assert.ErrorContains(t, err, "status 2")
}

// An invalid database name stops validation before any diff is attempted.
func TestRun_ExportFailure(t *testing.T) {
	outcome, err := Run(context.Background(), "no;such;db", writeReference(t))
	assert.Nil(t, outcome)
	assert.ErrorContains(t, err, "Invalid database name")
}

func writeReference(t *testing.T) string {
	path := filepath.Join(t.TempDir(), "reference.sql")
	require.NoError(t, os.WriteFile(path, []byte(referenceSchema), 0o644))
	return path
}

// Pin the snapshot timestamp for the duration of the test.
func fixClock(t *testing.T) {
	fixed := time.Date(2024, 5, 17, 10, 30, 0, 0, time.UTC)
	old := now
	now = func() time.Time { return fixed }
	t.Cleanup(func() { now = old })
}
