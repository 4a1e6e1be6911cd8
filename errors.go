package handlestore

import (
	"errors"
	"fmt"

	"github.com/hupe1980/handlestore/handle"
	"github.com/hupe1980/handlestore/resource"
	"github.com/hupe1980/handlestore/soa"
)

var (
	// ErrCapacityExceeded is returned when a capacity leaves the 32-bit
	// id/index space.
	ErrCapacityExceeded = errors.New("capacity exceeded")

	// ErrMemoryLimit is returned when the memory budget refuses a growth.
	ErrMemoryLimit = errors.New("memory limit exceeded")

	// ErrInvalidFieldCount is returned when a store is created with fewer than
	// one field.
	ErrInvalidFieldCount = errors.New("field count must be positive")
)

// ErrFieldCountMismatch indicates an insert with the wrong number of values.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type ErrFieldCountMismatch struct {
	Expected int
	Actual   int
	cause    error
}

func (e *ErrFieldCountMismatch) Error() string {
	return fmt.Sprintf("field count mismatch: expected %d, got %d", e.Expected, e.Actual)
}

func (e *ErrFieldCountMismatch) Unwrap() error { return e.cause }

func translateError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, handle.ErrCapacityExceeded) {
		return fmt.Errorf("%w: %w", ErrCapacityExceeded, err)
	}
	if errors.Is(err, soa.ErrMemoryLimit) || errors.Is(err, resource.ErrMemoryLimitExceeded) {
		return fmt.Errorf("%w: %w", ErrMemoryLimit, err)
	}
	if errors.Is(err, soa.ErrInvalidFieldCount) {
		return fmt.Errorf("%w: %w", ErrInvalidFieldCount, err)
	}

	var fce *soa.FieldCountError
	if errors.As(err, &fce) {
		return &ErrFieldCountMismatch{Expected: fce.Expected, Actual: fce.Actual, cause: err}
	}

	return err
}
