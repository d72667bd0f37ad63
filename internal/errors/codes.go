package errors

// Common error codes
const (
	// System errors
	ErrInternal       ErrorCode = "internal_error"
	ErrAlreadyRunning ErrorCode = "already_running"

	// Configuration errors
	ErrInvalidConfig ErrorCode = "invalid_configuration"
	ErrMissingConfig ErrorCode = "missing_configuration"
	ErrBindFlags     ErrorCode = "bind_flags_failed"
	ErrReadConfig    ErrorCode = "read_config_failed"
)

// Common error messages
var errorMessages = map[ErrorCode]string{
	ErrInternal:       "Internal error occurred",
	ErrAlreadyRunning: "Another instance is already running",
	ErrInvalidConfig:  "Invalid configuration",
	ErrMissingConfig:  "Missing configuration",
	ErrBindFlags:      "Failed to bind flags",
	ErrReadConfig:     "Failed to read configuration",
}

// GetErrorMessage returns the message for a given error code
func GetErrorMessage(code ErrorCode) string {
	if msg, ok := errorMessages[code]; ok {
		return msg
	}

	return string(code)
}
