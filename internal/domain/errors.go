package domain

import (
	"errors"
	"fmt"
)

// FieldError is a single field-level validation finding.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError carries the complete set of field errors for one request.
// A validation run never fails fast, so Fields may hold findings for many fields.
type ValidationError struct {
	Fields []FieldError
	Err    error
}

func (e ValidationError) Error() string {
	switch len(e.Fields) {
	case 0:
		return "validation error"
	case 1:
		return e.Fields[0].Error()
	default:
		return fmt.Sprintf("%s (and %d more)", e.Fields[0].Error(), len(e.Fields)-1)
	}
}

func (e ValidationError) Unwrap() error { return e.Err }

// NewValidationError builds a single-field validation error.
func NewValidationError(field, msg string) ValidationError {
	return ValidationError{Fields: []FieldError{{Field: field, Message: msg}}}
}

type NotFoundError struct {
	Resource string
	Err      error
}

func (e NotFoundError) Error() string {
	if e.Resource == "" {
		return "not found"
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

func (e NotFoundError) Unwrap() error { return e.Err }

type UnauthorizedError struct {
	Msg string
	Err error
}

func (e UnauthorizedError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return "unauthorized"
}

func (e UnauthorizedError) Unwrap() error { return e.Err }

type ForbiddenError struct {
	Msg string
	Err error
}

func (e ForbiddenError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return "forbidden"
}

func (e ForbiddenError) Unwrap() error { return e.Err }

type ConflictError struct {
	Resource string
	Msg      string
	Err      error
}

func (e ConflictError) Error() string {
	switch {
	case e.Msg != "" && e.Resource != "":
		return fmt.Sprintf("%s conflict: %s", e.Resource, e.Msg)
	case e.Msg != "":
		return e.Msg
	case e.Resource != "":
		return fmt.Sprintf("%s conflict", e.Resource)
	default:
		return "conflict"
	}
}

func (e ConflictError) Unwrap() error { return e.Err }

// TransitionError rejects a status change not allowed by the transition table.
type TransitionError struct {
	Axis string // "fulfillment" or "payment"
	From string
	To   string
}

func (e TransitionError) Error() string {
	return fmt.Sprintf("illegal %s status transition: %s -> %s", e.Axis, e.From, e.To)
}

type InternalError struct {
	Msg string
	Err error
}

func (e InternalError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return "internal error"
}

func (e InternalError) Unwrap() error { return e.Err }

func IsNotFound(err error) bool {
	var target NotFoundError
	return errors.As(err, &target)
}

func IsValidation(err error) bool {
	var target ValidationError
	return errors.As(err, &target)
}

func IsUnauthorized(err error) bool {
	var target UnauthorizedError
	return errors.As(err, &target)
}

func IsForbidden(err error) bool {
	var target ForbiddenError
	return errors.As(err, &target)
}

func IsConflict(err error) bool {
	var cf ConflictError
	if errors.As(err, &cf) {
		return true
	}
	var tr TransitionError
	return errors.As(err, &tr)
}

func IsTransition(err error) bool {
	var target TransitionError
	return errors.As(err, &target)
}

func IsInternal(err error) bool {
	var target InternalError
	return errors.As(err, &target)
}

// FieldsOf extracts field errors when err is (or wraps) a ValidationError.
func FieldsOf(err error) []FieldError {
	var v ValidationError
	if errors.As(err, &v) {
		return v.Fields
	}
	return nil
}
