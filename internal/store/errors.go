package store

import "codeberg.org/avatarlab/morphctl/internal/errors"

const (
	// Configuration errors
	ErrInvalidDBPath = errors.ErrorCode("store_invalid_db_path")

	// Storage errors
	ErrStorageInit   = errors.ErrorCode("store_init_failed")
	ErrStorageAccess = errors.ErrorCode("store_access_failed")
	ErrStorageClose  = errors.ErrorCode("store_close_failed")

	// Domain errors
	ErrAvatarNotFound = errors.ErrorCode("store_avatar_not_found")
	ErrDuplicateName  = errors.ErrorCode("store_duplicate_avatar_name")
	ErrQuotaExceeded  = errors.ErrorCode("store_avatar_quota_exceeded")
)
