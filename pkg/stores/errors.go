package stores

import (
	"errors"
	"fmt"
)

// ErrInvalidInput marks validation failures: empty quote text or author,
// blank tag names. Callers check it with errors.Is and treat it as a
// recoverable rejection.
var ErrInvalidInput = errors.New("invalid input")

// ErrMigrationUnsupported is returned by MigrateSchema. Schema evolution is
// reserved for a future version; the operation fails deterministically
// instead of silently doing nothing.
var ErrMigrationUnsupported = errors.New("schema migration not supported")

func invalidInput(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}
