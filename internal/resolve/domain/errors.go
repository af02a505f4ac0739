package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates that no provider or mapping covers the requested path.
	// Callers decide the fallback, e.g. treating the path as literal.
	ErrNotFound = errors.New("no provider covers the path")

	// ErrInvalidRule indicates a malformed mapping-rule or virtual-URL
	// specification. Invalid entries are skipped; valid ones still load.
	ErrInvalidRule = errors.New("invalid mapping rule")

	// ErrReplayFailure indicates a delayed registration could not be
	// materialized at replay time. It never aborts the remaining queue.
	ErrReplayFailure = errors.New("delayed registration replay failed")
)

// ConflictError reports a registration against a mount path that is already
// owned by a different provider. The existing registration is preserved.
type ConflictError struct {
	Path     string
	Existing any // the handle that already owns the path
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("mount path %q is already registered to %v", e.Path, e.Existing)
}

// IsConflict reports whether err is (or wraps) a ConflictError.
func IsConflict(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}
