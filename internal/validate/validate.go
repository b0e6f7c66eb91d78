package validate

import (
	"context"
	"fmt"

	"github.com/canonical/lxd/shared/logger"

	"github.com/schemaward/schemaward/internal/dump"
)

// Run exports the named database's schema, normalizes it and diffs it
// against the reference dump. The returned outcome's code is the diff
// tool's exit status. An export failure stops the pipeline before any diff
// is attempted.
func Run(ctx context.Context, database string, referencePath string) (*Outcome, error) {
	raw, err := dump.Export(ctx, database)
	if err != nil {
		return nil, fmt.Errorf("Failed to export schema of %q: %w", database, err)
	}

	outcome, err := Diff(ctx, referencePath, dump.Normalize(raw))
	if err != nil {
		return outcome, err
	}

	if outcome.Code == 0 {
		logger.Info("Schema matches the reference dump", logger.Ctx{"database": database})
	} else {
		logger.Warn("Schema differs from the reference dump", logger.Ctx{"database": database, "snapshot": outcome.Snapshot})
	}

	return outcome, nil
}
