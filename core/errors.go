package core

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrNotFound is matched (errors.Is) by every NotFoundError.
var ErrNotFound = errors.New("not found")

// FieldError is used to indicate an error with a specific struct field.
type FieldError struct {
	Field string
	Error string
}

type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		if len(err.Fields) > 0 {
			return err.Fields[0].Field + ": " + err.Fields[0].Error
		}
		return ""
	}
	return err.Err.Error()
}

// NotFoundError reports a referenced id that is absent from the data gateway.
type NotFoundError struct {
	Resource string
	ID       int
}

func NewNotFoundError(resource string, id int) error {
	return &NotFoundError{Resource: resource, ID: id}
}

func (err NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", err.Resource, err.ID)
}

func (err NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// BackendError carries the failure reported by a remote data provider.
type BackendError struct {
	Op         string
	StatusCode int
	Message    string
}

func NewBackendError(op string, status int, msg string) error {
	return &BackendError{Op: op, StatusCode: status, Message: msg}
}

func (err BackendError) Error() string {
	if err.Message == "" {
		return fmt.Sprintf("%s: backend failure (status %d)", err.Op, err.StatusCode)
	}
	return err.Message
}

type shutdown struct {
	message string
}

func NewShutdownError(msg string) error {
	return &shutdown{message: msg}
}

func (s shutdown) Error() string {
	return s.message
}

func IsShutdown(err error) bool {
	_, ok := errors.Cause(err).(*shutdown)
	return ok
}
