package inventory

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinels matched by errors.Is against the typed errors below.
var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
	ErrStore      = errors.New("store failure")
)

// Issue is one problem with the input of an operation. Index points into the
// batch the operation was called with, or is -1 when the issue concerns the
// whole request.
type Issue struct {
	Index   int    `json:"index"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// ValidationError reports input that cannot be applied. It is never retried.
type ValidationError struct {
	Issues []Issue
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Issues))
	for _, is := range e.Issues {
		switch {
		case is.Index >= 0 && is.Field != "":
			msgs = append(msgs, fmt.Sprintf("[%d] %s: %s", is.Index, is.Field, is.Message))
		case is.Index >= 0:
			msgs = append(msgs, fmt.Sprintf("[%d] %s", is.Index, is.Message))
		case is.Field != "":
			msgs = append(msgs, fmt.Sprintf("%s: %s", is.Field, is.Message))
		default:
			msgs = append(msgs, is.Message)
		}
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

func invalid(field, format string, args ...any) *ValidationError {
	return &ValidationError{Issues: []Issue{{Index: -1, Field: field, Message: fmt.Sprintf(format, args...)}}}
}

// NotFoundError reports an unknown room or equipment id.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// StoreError wraps a failure of the data store. Done is how many items of a
// batch were committed before the failure.
type StoreError struct {
	Op   string
	Done int
	Err  error
}

func (e *StoreError) Error() string {
	if e.Done > 0 {
		return fmt.Sprintf("%s: %v (%d done)", e.Op, e.Err, e.Done)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

func (e *StoreError) Is(target error) bool { return target == ErrStore }

// storeErr wraps err as a StoreError unless it already carries a taxonomy type.
func storeErr(op string, err error) error {
	if errors.Is(err, ErrValidation) || errors.Is(err, ErrNotFound) || errors.Is(err, ErrStore) {
		return err
	}
	return &StoreError{Op: op, Err: err}
}
