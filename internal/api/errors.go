package api

import (
	"errors"
	"fmt"
)

// Code classifies a backend failure.
type Code string

// Failure codes returned by the backend.
const (
	CodeUnauthorized    Code = "UNAUTHORIZED"
	CodeForbidden       Code = "FORBIDDEN"
	CodeNotFound        Code = "NOT_FOUND"
	CodeInvalidArgument Code = "INVALID_ARGUMENT"
	CodeConflict        Code = "CONFLICT"
	CodeInternal        Code = "INTERNAL"
)

// Error is a failure reported by a remote endpoint.
type Error struct {
	Code    Code              `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

// Errorf builds an Error with a formatted message.
func Errorf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// With returns a copy of e with key=value added to its details.
func (e *Error) With(key, value string) *Error {
	out := *e
	out.Details = make(map[string]string, len(e.Details)+1)
	for k, v := range e.Details {
		out.Details[k] = v
	}
	out.Details[key] = value
	return &out
}

func (e *Error) Error() string { return e.Message }

// ErrorCode implements models.RecoverableError.
func (e *Error) ErrorCode() string { return string(e.Code) }

// Context implements models.RecoverableError.
func (e *Error) Context() map[string]string { return e.Details }

// SuggestedAction implements models.RecoverableError.
func (e *Error) SuggestedAction() string {
	switch e.Code {
	case CodeUnauthorized:
		return "pass --user or set HUDDLE_USER (create one with: huddle user create)"
	case CodeForbidden:
		return "ask a workspace admin to perform this action"
	case CodeNotFound:
		return "check the id with the matching list command"
	case CodeConflict:
		return "inspect the current state and retry"
	default:
		return ""
	}
}

// CodeOf returns the Code of the first *Error in err's chain, or "".
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// IsCode reports whether err carries code.
func IsCode(err error, code Code) bool {
	return err != nil && CodeOf(err) == code
}
