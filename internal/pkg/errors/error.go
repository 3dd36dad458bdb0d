package xerrors

import (
	"errors"
	"fmt"
)

// Common reusable application errors
var (
	ErrNotFound     = errors.New("resource not found")
	ErrUnauthorized = errors.New("unauthorized access")
	ErrInvalidInput = errors.New("invalid input")
	ErrConflict     = errors.New("conflict: resource state does not allow this change")
	ErrRateLimited  = errors.New("too many requests")
)

// Delivery schedule and pricing validation errors. None of them are
// retryable: only correcting the input resolves them.
var (
	ErrInvalidRange     = errors.New("end date is before start date")
	ErrNoDeliveryDays   = errors.New("no delivery weekday is enabled")
	ErrInvalidQuantity  = errors.New("invalid quantity, price or multiplier")
	ErrInvalidStartHour = errors.New("start hour must be between 0 and 23")
)

// FieldError ties a validation sentinel to the input field that caused it,
// so callers can render a field-level message.
type FieldError struct {
	Field  string
	Err    error
	Detail string
}

func (e *FieldError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s: %s", e.Field, e.Err.Error(), e.Detail)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Err.Error())
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// Field builds a FieldError. The detail is optional and formatted with args.
func Field(field string, err error, detail string, args ...interface{}) error {
	if len(args) > 0 {
		detail = fmt.Sprintf(detail, args...)
	}
	return &FieldError{Field: field, Err: err, Detail: detail}
}

// FieldOf returns the field name carried by err, if any.
func FieldOf(err error) (string, bool) {
	var fe *FieldError
	if errors.As(err, &fe) {
		return fe.Field, true
	}
	return "", false
}

// IsValidation reports whether err is one of the input validation errors.
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidRange) ||
		errors.Is(err, ErrNoDeliveryDays) ||
		errors.Is(err, ErrInvalidQuantity) ||
		errors.Is(err, ErrInvalidStartHour) ||
		errors.Is(err, ErrInvalidInput)
}

// Wrap adds context to an error (similar to fmt.Errorf("%w")).
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Is allows checking whether an error is a specific sentinel error.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// MessageOrDefault returns err.Error() or a fallback message if err is nil.
func MessageOrDefault(err error, fallback string) string {
	if err != nil {
		return err.Error()
	}
	return fallback
}
