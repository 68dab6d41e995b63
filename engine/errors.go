package engine

import "github.com/cockroachdb/errors"

// Sentinel errors for the engine's error taxonomy. External-input errors (InvalidID,
// InvalidConfig) are recovered locally by the facade and reported to the
// caller with state unchanged; ErrUnknownParent indicates an internal
// invariant violation and must never be swallowed.
var (
	// ErrInvalidID is returned when a validator id is outside [0, N).
	ErrInvalidID = errors.New("invalid validator id")

	// ErrInvalidConfig is returned when a config value is outside its range.
	ErrInvalidConfig = errors.New("invalid config value")

	// ErrUnknownParent is returned when a block's declared parent does not
	// exist in the tree. Reaching this indicates a bug in the orchestrator,
	// not bad external input.
	ErrUnknownParent = errors.New("unknown parent block")
)

// invalidIDf wraps ErrInvalidID with the offending id for diagnostics.
func invalidIDf(format string, args ...interface{}) error {
	return errors.WithMessagef(ErrInvalidID, format, args...)
}

// invalidConfigf wraps ErrInvalidConfig with the offending field/value.
func invalidConfigf(format string, args ...interface{}) error {
	return errors.WithMessagef(ErrInvalidConfig, format, args...)
}

// unknownParentf wraps ErrUnknownParent with the dangling parent id.
func unknownParentf(format string, args ...interface{}) error {
	return errors.WithMessagef(ErrUnknownParent, format, args...)
}
