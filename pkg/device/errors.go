package device

import "errors"

var (
	// ErrNotFound indicates a lamp was not found
	ErrNotFound = errors.New("lamp not found")

	// ErrTimeout indicates a device call timed out
	ErrTimeout = errors.New("operation timed out")

	// ErrNotConnected indicates no controller is available
	ErrNotConnected = errors.New("controller not connected")

	// ErrNotReady indicates the lamp handshake has not succeeded yet
	ErrNotReady = errors.New("lamp not ready")

	// ErrDuplicate indicates a lamp with the same id is already registered
	ErrDuplicate = errors.New("lamp already registered")

	// ErrValidation indicates a payload failed schema validation
	ErrValidation = errors.New("validation error")
)
