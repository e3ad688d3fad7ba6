package services

import (
	"errors"
	"fmt"
)

// Identity errors
var (
	ErrInvalidCredentials   = errors.New("invalid username or password")
	ErrDuplicateIdentity    = errors.New("username or email already registered")
	ErrPasswordMismatch     = errors.New("passwords do not match")
	ErrIdentityRequired     = errors.New("username, email and password are required")
	ErrIdentityTooLong      = errors.New("username or email is too long")
	ErrUserNotFound         = errors.New("user not found")
	ErrFailedToHashPassword = errors.New("failed to hash password")
)

// Task errors
var (
	ErrTaskNotFound     = errors.New("task not found")
	ErrForbidden        = errors.New("user does not have permission to perform this action on the task")
	ErrMissingAssignee  = errors.New("task must be assigned to a user")
	ErrAssigneeNotFound = errors.New("assignee does not exist")
	ErrTitleRequired    = errors.New("title is required")
	ErrTitleTooLong     = errors.New("title is too long")
	ErrInvalidStatus    = errors.New("status must be one of pending, in_progress, completed")
)

// ErrStorageFailure wraps any underlying persistence error.
var ErrStorageFailure = errors.New("storage failure")

func storageError(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrStorageFailure, op, err)
}
