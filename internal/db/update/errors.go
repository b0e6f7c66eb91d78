package update

import "fmt"

// ErrDowngradeUnsupported indicates a downgrade request beyond reverting the
// single most recent migration. Downgrading further would walk the schema
// back towards empty, which is destructive, so it is refused before any SQL
// runs.
var ErrDowngradeUnsupported = fmt.Errorf("downgrade beyond the most recent migration is not supported")
