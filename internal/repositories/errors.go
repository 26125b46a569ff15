package repositories

import "errors"

// Sentinel errors returned by repository implementations. Services translate
// these into their own failure kinds; raw store errors never cross the
// repository boundary unmapped.
var (
	// ErrNotFound indicates the record does not exist, or exists but is not
	// visible to the requesting owner.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicate indicates a uniqueness constraint was violated.
	ErrDuplicate = errors.New("duplicate record")
)
