package domain

import (
	"errors"
	"fmt"
)

// ErrorCode represents a semantic classification shared across callers.
type ErrorCode string

const (
	ErrCodeNotFound         ErrorCode = "NOT_FOUND"
	ErrCodeInvalid          ErrorCode = "INVALID"
	ErrCodeInvalidTimezone  ErrorCode = "INVALID_TIMEZONE"
	ErrCodeSlotsExhausted   ErrorCode = "SLOTS_EXHAUSTED"
	ErrCodeAlreadySubmitted ErrorCode = "ALREADY_SUBMITTED"
	ErrCodeInvalidTaskIDs   ErrorCode = "INVALID_TASK_IDS"
	ErrCodeUnavailable      ErrorCode = "UNAVAILABLE"
	ErrCodeInternal         ErrorCode = "INTERNAL"
)

// Error represents a domain-level error.
type Error struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is lets sentinel comparisons match any error carrying the same code, so
// wrapped store errors still satisfy errors.Is(err, ErrSlotsExhausted).
func (e *Error) Is(target error) bool {
	var other *Error
	if !errors.As(target, &other) {
		return false
	}
	return e != nil && other != nil && e.Code == other.Code
}

// NewError builds a domain error.
func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WrapError wraps an existing error with a domain classification.
func WrapError(code ErrorCode, message string, err error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common domain errors. Each carries a stable code callers branch on.
var (
	ErrUserNotFound     = NewError(ErrCodeNotFound, "user not found")
	ErrItemNotFound     = NewError(ErrCodeNotFound, "item not found")
	ErrSessionNotFound  = NewError(ErrCodeNotFound, "session not found")
	ErrReviewNotFound   = NewError(ErrCodeNotFound, "review not found")
	ErrInvalidPayload   = NewError(ErrCodeInvalid, "invalid payload")
	ErrInvalidTimezone  = NewError(ErrCodeInvalidTimezone, "unknown timezone identifier")
	ErrSlotsExhausted   = NewError(ErrCodeSlotsExhausted, "focus slots exhausted for today")
	ErrAlreadySubmitted = NewError(ErrCodeAlreadySubmitted, "review already submitted for this period")
	ErrInvalidTaskIDs   = NewError(ErrCodeInvalidTaskIDs, "task ids are not focused for today")
	ErrStoreUnavailable = NewError(ErrCodeUnavailable, "backing store unavailable")
)

// IsDomainError helps checking error codes.
func IsDomainError(err error, code ErrorCode) bool {
	var dErr *Error
	if errors.As(err, &dErr) {
		return dErr.Code == code
	}
	return false
}

// ErrorCodeOf extracts the code from a domain error, or ErrCodeInternal for
// anything unclassified.
func ErrorCodeOf(err error) ErrorCode {
	var dErr *Error
	if errors.As(err, &dErr) {
		return dErr.Code
	}
	return ErrCodeInternal
}
