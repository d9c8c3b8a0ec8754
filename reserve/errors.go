/*
errors.go - Error taxonomy for the reserve engine

PURPOSE:
  All engine error types in one place. Arithmetic and lookup errors are
  detected BEFORE any mutation is applied (fail closed); persistence errors
  are detected AFTER, and are surfaced distinctly so the caller knows the
  in-memory state is ahead of disk.

CATEGORIES:
  1. Input errors    - bad index, bad amount (store left unchanged)
  2. Persistence     - flush to durable state failed (mutation committed
                       in memory; retry the flush, not the arithmetic)

rational.ErrInvalidFraction completes the taxonomy for malformed numeric
input; it is raised by the parsing layer before the engine is reached.

USAGE:
  if errors.Is(err, reserve.ErrPersistence) {
      // warn the user that on-disk state may lag memory
  }
*/
package reserve

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrIndexOutOfRange is returned when a mutation targets a drug index
	// that does not exist.
	ErrIndexOutOfRange = errors.New("drug index out of range")

	// ErrInvalidAmount is returned for a negative replenish amount or a
	// non-positive day count.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrPersistence is returned when the store failed to flush to durable
	// state. The in-memory mutation is still committed.
	ErrPersistence = errors.New("persistence failure")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// IndexOutOfRangeError reports which index was requested and how many drugs
// the store holds.
type IndexOutOfRangeError struct {
	Index int
	Len   int
}

func (e *IndexOutOfRangeError) Error() string {
	return fmt.Sprintf("drug index %d out of range (store holds %d drugs)", e.Index, e.Len)
}

func (e *IndexOutOfRangeError) Unwrap() error { return ErrIndexOutOfRange }

// PersistenceError wraps a failed flush with the mutation that triggered it.
type PersistenceError struct {
	Op  string // "replenish" or "take-days"
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s applied in memory but flush failed: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return ErrPersistence }

// IsClientError reports whether the error is due to invalid caller input,
// as opposed to an internal fault. Transport layers map this to a 400.
func IsClientError(err error) bool {
	return errors.Is(err, ErrIndexOutOfRange) || errors.Is(err, ErrInvalidAmount)
}
