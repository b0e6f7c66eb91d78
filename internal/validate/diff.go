// Package validate checks the live database schema against the checked-in
// reference dump.
package validate

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/canonical/lxd/shared/logger"
	"github.com/google/renameio"

	"github.com/schemaward/schemaward/internal/subprocess"
)

// snapshotPrefix is the filename prefix of schema snapshots written next to
// the reference dump when a mismatch is found.
const snapshotPrefix = "schema-dump-"

// now is a hook for tests that need a fixed timestamp.
var now = time.Now

// Outcome is the result of comparing a schema dump against the reference.
// Code is the diff tool's exit status (0 match, 1 differences) and is what
// the process should exit with.
type Outcome struct {
	Code     int
	Diff     string
	Snapshot string
}

// Diff compares the reference dump file against the given schema text using
// the system diff tool, feeding the text on its standard input.
//
// When differences are found, the text is written to a timestamped snapshot
// file alongside the reference for operator review. An existing snapshot
// with the same name is left alone, with a warning, since re-runs within
// the same second produce the same name.
//
// Exit statuses other than 0 and 1 mean the tool itself failed; that is
// returned as an error alongside the outcome carrying the status.
func Diff(ctx context.Context, referencePath string, actual string) (*Outcome, error) {
	result, err := subprocess.Run(ctx, actual, "diff", "-u", referencePath, "-")
	if err != nil {
		return nil, err
	}

	outcome := &Outcome{Code: result.ExitCode}
	switch result.ExitCode {
	case 0:
		return outcome, nil

	case 1:
		outcome.Diff = result.Stdout
		outcome.Snapshot = writeSnapshot(referencePath, actual)
		return outcome, nil

	default:
		detail := strings.TrimSpace(result.Stderr)
		if detail == "" {
			detail = strings.TrimSpace(result.Stdout)
		}

		return outcome, fmt.Errorf("diff exited with status %d: %s", result.ExitCode, detail)
	}
}

// writeSnapshot saves the mismatching schema text next to the reference dump
// and returns the path written, or "" if the snapshot was skipped.
func writeSnapshot(referencePath string, actual string) string {
	name := snapshotPrefix + now().Format("20060102T150405") + ".sql"
	path := filepath.Join(filepath.Dir(referencePath), name)

	_, err := os.Stat(path)
	if err == nil {
		logger.Warn("Not overwriting existing schema snapshot", logger.Ctx{"path": path})
		return ""
	}

	err = renameio.WriteFile(path, []byte(actual), 0o644)
	if err != nil {
		logger.Error("Failed to write schema snapshot", logger.Ctx{"path": path, "err": err})
		return ""
	}

	logger.Info("Wrote schema snapshot", logger.Ctx{"path": path})
	return path
}
