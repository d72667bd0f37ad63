package renderer

import "codeberg.org/avatarlab/morphctl/internal/errors"

const (
	ErrDialFailed    = errors.ErrorCode("renderer_dial_failed")
	ErrNotConnected  = errors.ErrorCode("renderer_not_connected")
	ErrWriteFailed   = errors.ErrorCode("renderer_write_failed")
	ErrSessionClosed = errors.ErrorCode("renderer_session_closed")
	ErrInvalidURL    = errors.ErrorCode("renderer_invalid_url")
)
