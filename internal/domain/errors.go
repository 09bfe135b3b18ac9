package domain

import "errors"

var (
	// ErrInvalidArgument marks a caller-supplied value that fails a local
	// invariant (blank required field, out-of-range number, malformed
	// currency code, unknown enum token).
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrIllegalState marks an operation that is well-formed on its own but
	// would leave the aggregate violating an invariant (for example a
	// relative stock adjustment that goes negative).
	ErrIllegalState = errors.New("illegal state")
)
