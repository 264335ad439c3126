package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Input validation errors
	ErrInvalidInput = fmt.Errorf("invalid input")

	// Graph store errors
	ErrNotFound         = fmt.Errorf("not found")
	ErrAlreadyExists    = fmt.Errorf("already exists")
	ErrStoreUnavailable = fmt.Errorf("graph store unavailable")

	// Songs service errors
	ErrRemoteUnavailable = fmt.Errorf("songs service unreachable")
	ErrRemoteRejected    = fmt.Errorf("songs service rejected request")
)
