package soa

import (
	"errors"
	"fmt"

	"github.com/hupe1980/handlestore/handle"
)

var (
	// ErrInvalidFieldCount is returned by New when fields < 1.
	ErrInvalidFieldCount = errors.New("soa: field count must be positive")

	// ErrFieldCountMismatch is wrapped by FieldCountError.
	ErrFieldCountMismatch = errors.New("soa: field count mismatch")

	// ErrCapacityExceeded is returned when a capacity leaves the 32-bit
	// index space. It wraps handle.ErrCapacityExceeded.
	ErrCapacityExceeded = fmt.Errorf("soa: %w", handle.ErrCapacityExceeded)

	// ErrMemoryLimit is returned when the memory budget refuses a growth.
	ErrMemoryLimit = errors.New("soa: memory budget exceeded")
)

// FieldCountError reports an Emplace with the wrong number of values.
type FieldCountError struct {
	Expected int
	Actual   int
}

func (e *FieldCountError) Error() string {
	return fmt.Sprintf("soa: field count mismatch: expected %d, got %d", e.Expected, e.Actual)
}

func (e *FieldCountError) Unwrap() error { return ErrFieldCountMismatch }
