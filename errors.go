package lcspec

import "errors"

// Build and registry errors
var (
	// ErrInvalidConfig indicates a malformed or contradictory structural
	// configuration. The build is all-or-nothing: nothing is emitted when
	// this is returned.
	ErrInvalidConfig = errors.New("invalid model configuration")

	// ErrLabelConflict indicates that a parameter label was interned twice
	// with incompatible kind or freeness.
	ErrLabelConflict = errors.New("parameter label conflict")

	// ErrUnknownVariable indicates a path endpoint that is not part of the
	// allocated variable set.
	ErrUnknownVariable = errors.New("unknown variable")

	// ErrInvalidPath indicates a structurally illegal path, such as a
	// covariance between two distinct manifests of the same process.
	ErrInvalidPath = errors.New("invalid path")
)
