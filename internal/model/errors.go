package model

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates a requested record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates a record with the same unique key exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates a record failed validation.
	ErrInvalidInput = errors.New("invalid input")
)

func invalid(msg string) error {
	return &validationError{msg: msg}
}

func invalidf(format string, args ...any) error {
	return &validationError{msg: fmt.Sprintf(format, args...)}
}

type validationError struct {
	msg string
}

func (e *validationError) Error() string { return e.msg }

func (e *validationError) Unwrap() error { return ErrInvalidInput }
