package models

import (
	"errors"
	"fmt"
)

// ValidationError reports malformed fragment input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e == nil {
		return ""
	}
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NotFoundError reports a missing fragment for one owner.
type NotFoundError struct {
	OwnerID string
	ID      string
}

func (e *NotFoundError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("fragment with id=%s does not exist", e.ID)
}

// UnsupportedConversionError reports a requested output type the stored
// type cannot produce.
type UnsupportedConversionError struct {
	From   string
	To     string
	Reason string
}

func (e *UnsupportedConversionError) Error() string {
	if e == nil {
		return ""
	}
	msg := fmt.Sprintf("unsupported conversion from %s to %s", e.From, e.To)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

// StorageError wraps a backend I/O failure with the backend name and key.
type StorageError struct {
	Backend string
	Op      string
	Key     string
	Err     error
}

func (e *StorageError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s %s %s: %v", e.Backend, e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// NewValidationError builds a ValidationError for one field.
func NewValidationError(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// WrapStorage wraps err as a StorageError unless it is nil or already one.
func WrapStorage(backend, op, key string, err error) error {
	if err == nil {
		return nil
	}
	var existing *StorageError
	if errors.As(err, &existing) {
		return err
	}
	return &StorageError{Backend: backend, Op: op, Key: key, Err: err}
}

// StorageKey joins owner and fragment ids the way every backend addresses them.
func StorageKey(ownerID, id string) string {
	return ownerID + "/" + id
}

func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

func IsUnsupportedConversion(err error) bool {
	var target *UnsupportedConversionError
	return errors.As(err, &target)
}

func IsStorage(err error) bool {
	var target *StorageError
	return errors.As(err, &target)
}
