// Package dump exports the live database schema and strips the noise that
// has no bearing on its structure.
package dump

import (
	"regexp"
	"strings"
)

var (
	ownerRegex = regexp.MustCompile(`(?i)^ALTER\s.*\sOWNER\s+TO\s.*;$`)
	grantRegex = regexp.MustCompile(`(?i)^(GRANT|REVOKE)\s`)
)

// Normalize strips non-semantic lines from a schema dump: SQL comments,
// ownership transfers, grant/revoke statements and blank lines. The result
// depends only on the input text, regardless of line-ending style, and
// normalizing twice gives the same output as normalizing once.
func Normalize(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")

	kept := []string{}
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "":
		case strings.HasPrefix(trimmed, "--"):
		case ownerRegex.MatchString(trimmed):
		case grantRegex.MatchString(trimmed):
		default:
			kept = append(kept, line)
		}
	}

	if len(kept) == 0 {
		return ""
	}

	return strings.Join(kept, "\n") + "\n"
}
