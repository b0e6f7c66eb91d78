package dump

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/schemaward/schemaward/internal/subprocess"
)

// databaseNameRegex is the allow-list for database names passed to pg_dump.
// Anything outside it is refused before a process gets spawned.
var databaseNameRegex = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// Export runs pg_dump in schema-only mode against the named database and
// returns the raw dump text. A non-zero exit from pg_dump becomes an error
// carrying its stderr.
func Export(ctx context.Context, database string) (string, error) {
	if !databaseNameRegex.MatchString(database) {
		return "", fmt.Errorf("Invalid database name %q", database)
	}

	result, err := subprocess.Run(ctx, "", "pg_dump", "--schema-only", database)
	if err != nil {
		return "", err
	}

	if result.ExitCode != 0 {
		return "", fmt.Errorf("pg_dump exited with status %d: %s", result.ExitCode, strings.TrimSpace(result.Stderr))
	}

	return result.Stdout, nil
}
