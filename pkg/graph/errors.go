package graph

import (
	"fmt"

	"github.com/pkg/errors"
)

// Error kinds surfaced by the retrieval core. Callers needing resilience
// against transient backend failure must wrap calls externally; nothing in
// this layer retries.
var (
	// ErrStoreUnavailable marks a graph backend that cannot be reached.
	// Fatal to the current operation.
	ErrStoreUnavailable = errors.New("graph store unavailable")

	// ErrInvalidPattern marks a traversal pattern referencing an undeclared
	// node or edge kind. A programming error, surfaced immediately.
	ErrInvalidPattern = errors.New("invalid traversal pattern")
)

// StoreUnavailable wraps cause so that errors.Is(err, ErrStoreUnavailable)
// holds
func StoreUnavailable(cause error) error {
	return errors.WithMessage(ErrStoreUnavailable, cause.Error())
}

// InvalidPattern wraps a description so that errors.Is(err, ErrInvalidPattern)
// holds
func InvalidPattern(format string, args ...interface{}) error {
	return errors.WithMessage(ErrInvalidPattern, fmt.Sprintf(format, args...))
}

// SkippedRecordError reports a malformed corpus row. Non-fatal: the build
// logs it and continues with the remaining rows.
type SkippedRecordError struct {
	Index  int
	Reason string
}

func (e *SkippedRecordError) Error() string {
	return fmt.Sprintf("skipped record %d: %s", e.Index, e.Reason)
}
