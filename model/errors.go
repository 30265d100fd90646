package model

import (
	"errors"
	"fmt"
)

// Error kinds. Validation and not-found are surfaced synchronously and never
// retried; storage failures are surfaced without automatic retry; network
// failures are the only retryable kind.
var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("record not found")
	ErrStorage    = errors.New("durable storage failure")
	ErrNetwork    = errors.New("network failure")
	ErrOffline    = errors.New("host is offline")
	ErrBadData    = errors.New("response failed schema validation")
)

// Error carries the failing operation and the error kind alongside the
// underlying cause.
type Error struct {
	Op   string
	Kind error
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %s", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Kind)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	return target == e.Kind
}

// E wraps err with an operation name and an error kind.
func E(op string, kind error, err error) error {
	return &Error{Op: op, Kind: kind, Err: err}
}

func IsValidation(err error) bool { return errors.Is(err, ErrValidation) }
func IsNotFound(err error) bool   { return errors.Is(err, ErrNotFound) }
func IsStorage(err error) bool    { return errors.Is(err, ErrStorage) }
func IsNetwork(err error) bool    { return errors.Is(err, ErrNetwork) }
func IsOffline(err error) bool    { return errors.Is(err, ErrOffline) }
func IsBadData(err error) bool    { return errors.Is(err, ErrBadData) }
