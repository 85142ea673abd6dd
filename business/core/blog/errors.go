package blog

import (
	"errors"
	"fmt"
)

// Set of error variables for blog operations. Every one of them leaves the
// ledger exactly as it was before the operation.
var (
	ErrInvalidEncoding    = errors.New("invalid utf-8 encoding")
	ErrUnauthorized       = errors.New("caller is not the record authority")
	ErrAlreadyInitialized = errors.New("record already initialized")
	ErrNotInitialized     = errors.New("record not initialized")
	ErrCapacityExceeded   = errors.New("field capacity exceeded")
)

// EncodingError reports the byte offset of the first invalid utf-8
// sequence in a field.
type EncodingError struct {
	Field  Field
	Offset int
}

// Error implements the error interface.
func (ee *EncodingError) Error() string {
	return fmt.Sprintf("%s: %s at byte offset %d", ErrInvalidEncoding, ee.Field, ee.Offset)
}

// Is allows errors.Is to match ErrInvalidEncoding.
func (ee *EncodingError) Is(target error) bool {
	return target == ErrInvalidEncoding
}

// CapacityError reports a field that is larger than the space reserved
// for it in the record.
type CapacityError struct {
	Field Field
	Limit int
	Size  int
}

// Error implements the error interface.
func (ce *CapacityError) Error() string {
	return fmt.Sprintf("%s: %s is %d bytes, limit %d", ErrCapacityExceeded, ce.Field, ce.Size, ce.Limit)
}

// Is allows errors.Is to match ErrCapacityExceeded.
func (ce *CapacityError) Is(target error) bool {
	return target == ErrCapacityExceeded
}
