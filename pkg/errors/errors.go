package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Error represents a typed domain error with HTTP awareness.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
	Err     error  `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is matches errors sharing the same code so cloned rejections compare equal to their template.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) || e == nil || t == nil {
		return false
	}
	return e.Code == t.Code
}

// New creates a new Error instance.
func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// Wrap attaches context to an existing error.
func Wrap(err error, code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message, Err: err}
}

// Predefined errors for common scenarios.
var (
	ErrNotFound     = New("NOT_FOUND", http.StatusNotFound, "resource not found")
	ErrForbidden    = New("FORBIDDEN", http.StatusForbidden, "forbidden")
	ErrUnauthorized = New("UNAUTHORIZED", http.StatusUnauthorized, "unauthorized")
	ErrConflict     = New("CONFLICT", http.StatusConflict, "conflict")
	ErrValidation   = New("VALIDATION_ERROR", http.StatusBadRequest, "validation failed")
	ErrInternal     = New("INTERNAL_ERROR", http.StatusInternalServerError, "internal server error")
	ErrCacheMiss    = New("CACHE_MISS", http.StatusNotFound, "cache miss")
)

// Business rejections. Their codes are the stable reason identifiers clients branch on.
var (
	ErrEvaluationClosed    = New("evaluation_closed", http.StatusConflict, "evaluation is closed")
	ErrAlreadyCompleted    = New("already_completed", http.StatusConflict, "evaluation already completed")
	ErrRequiresDay1        = New("requires_day1", http.StatusConflict, "day 1 evaluation must be completed first")
	ErrRequiresDay1AndDay2 = New("requires_day1_and_day2", http.StatusConflict, "day 1 and day 2 evaluations must be completed first")
	ErrAlreadyAnswered     = New("already_answered", http.StatusConflict, "activity already evaluated")
	ErrActivityNotFound    = New("activity_not_found", http.StatusNotFound, "activity not found")
)

const missingFieldPrefix = "missing_required_field:"

var rejectionCodes = map[string]struct{}{
	ErrEvaluationClosed.Code:    {},
	ErrAlreadyCompleted.Code:    {},
	ErrRequiresDay1.Code:        {},
	ErrRequiresDay1AndDay2.Code: {},
	ErrAlreadyAnswered.Code:     {},
	ErrActivityNotFound.Code:    {},
}

// MissingRequiredField reports the first required response field that was not answered.
func MissingRequiredField(name string) *Error {
	return New(missingFieldPrefix+name, http.StatusUnprocessableEntity, fmt.Sprintf("missing required field: %s", name))
}

// Rejection returns the predefined business rejection for a reason code, if any.
func Rejection(reason string) (*Error, bool) {
	for _, candidate := range []*Error{
		ErrEvaluationClosed,
		ErrAlreadyCompleted,
		ErrRequiresDay1,
		ErrRequiresDay1AndDay2,
		ErrAlreadyAnswered,
		ErrActivityNotFound,
	} {
		if candidate.Code == reason {
			return Clone(candidate, ""), true
		}
	}
	return nil, false
}

// IsRejection reports whether err is an expected business rejection rather than a failure.
func IsRejection(err error) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	if strings.HasPrefix(e.Code, missingFieldPrefix) {
		return true
	}
	_, ok := rejectionCodes[e.Code]
	return ok
}

// FromError normalises any error into an *Error.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(err, ErrInternal.Code, ErrInternal.Status, ErrInternal.Message)
}

// Clone returns a copy of the error allowing for message overrides.
func Clone(err *Error, message string) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	if message != "" {
		clone.Message = message
	}
	return &clone
}
