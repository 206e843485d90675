package alloc

import "errors"

var (
	// ErrInvalidSize indicates a request (or total memory) size that is not positive.
	ErrInvalidSize = errors.New("alloc: size must be positive")

	// ErrOutOfMemory indicates that no free segment satisfies the request
	// under the selected strategy.
	ErrOutOfMemory = errors.New("alloc: no free segment large enough")

	// ErrUnknownRequest indicates a release for an id with no live allocation.
	ErrUnknownRequest = errors.New("alloc: unknown request id")

	// ErrDuplicateRequest indicates an allocation reusing the id of a live allocation.
	ErrDuplicateRequest = errors.New("alloc: request id already allocated")

	// ErrMalformedState indicates an imported document that violates the
	// ledger coverage invariants.
	ErrMalformedState = errors.New("alloc: malformed state document")
)
