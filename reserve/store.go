/*
store.go - The guarded, process-wide collection of Drugs

PURPOSE:
  Owns the ordered sequence of Drugs and every mutation entry point.
  Callers never reach the slice directly: reads go through Snapshot,
  writes through Replenish and TakeDays.

CONCURRENCY DISCIPLINE:
  A single RWMutex serializes mutations. Each mutation fully completes
  (read, compute, write, flush) before the next begins, so two interleaved
  replenish calls can never lose an update. Readers take the read lock and
  copy, so a snapshot never observes a take-days applied to only some of
  the drugs.

PERSISTENCE:
  A Persister is injected at Open time. Every successful mutation flushes
  synchronously while still holding the write lock. A flush failure does
  NOT roll back the in-memory mutation; it surfaces as a PersistenceError
  so the caller can retry the flush (not the arithmetic).

INDEXING:
  Drugs are addressed positionally. Indices are assigned at load time and
  stay stable for the process lifetime; mutation requests reference them.

SEE ALSO:
  - store/jsonfile, store/sqlite, store/memory: Persister implementations
  - depletion.go: read-only projections over Snapshot output
*/
package reserve

import (
	"context"
	"fmt"
	"sync"

	"github.com/medcabinet/reserve-engine/rational"
)

// Persister loads and saves the full drug list atomically. Implementations
// must round-trip every Rational without precision loss.
type Persister interface {
	Load(ctx context.Context) ([]Drug, error)
	Save(ctx context.Context, drugs []Drug) error
}

// Store is the process-wide mutable drug collection. Obtain one via Open
// and share the pointer; all methods are safe for concurrent use.
type Store struct {
	mu        sync.RWMutex
	drugs     []Drug
	persister Persister
}

// Open loads the persisted drug list and returns a Store bound to the
// given Persister. Called once at startup.
func Open(ctx context.Context, p Persister) (*Store, error) {
	drugs, err := p.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading persisted reserves: %w", err)
	}
	return &Store{drugs: drugs, persister: p}, nil
}

// Len returns the number of tracked drugs.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.drugs)
}

// Snapshot returns a copy of the drug list that is the result of some
// linear sequence of completed mutations. Safe to read while mutations
// continue.
func (s *Store) Snapshot() []Drug {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneDrugs(s.drugs)
}

// =============================================================================
// MUTATIONS - the only writers of stock quantities
// =============================================================================

// Replenish adds amount to the stock of the drug at index, then flushes.
//
// Fails closed with ErrIndexOutOfRange or ErrInvalidAmount before any
// mutation. Re-issuing the same request adds again; callers needing
// idempotency must deduplicate at the transport layer.
func (s *Store) Replenish(ctx context.Context, index int, amount rational.Rational) error {
	if amount.IsNegative() {
		return fmt.Errorf("replenish by %s: %w", amount, ErrInvalidAmount)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.drugs) {
		return &IndexOutOfRangeError{Index: index, Len: len(s.drugs)}
	}

	s.drugs[index].Remaining = s.drugs[index].Remaining.Add(amount)
	return s.flushLocked(ctx, "replenish")
}

// TakeDays simulates the passage of days of consumption: every drug's
// stock drops by its daily dosage times days, visibility notwithstanding.
// Stock is never clamped at zero; a negative remainder is the meaningful
// record of an already-exhausted supply.
//
// One flush covers the whole pass. The loop itself is pure arithmetic and
// cannot fault mid-way; if that ever changes, partially applied updates
// are not rolled back.
func (s *Store) TakeDays(ctx context.Context, days int64) error {
	if days <= 0 {
		return fmt.Errorf("take %d days: %w", days, ErrInvalidAmount)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.drugs {
		taken := s.drugs[i].DailyDosage().ScaleInt(days)
		s.drugs[i].Remaining = s.drugs[i].Remaining.Sub(taken)
	}
	return s.flushLocked(ctx, "take-days")
}

// flushLocked saves the current state through the Persister. Caller holds
// the write lock, so no later mutation can be observed by the flush.
func (s *Store) flushLocked(ctx context.Context, op string) error {
	if err := s.persister.Save(ctx, cloneDrugs(s.drugs)); err != nil {
		return &PersistenceError{Op: op, Err: err}
	}
	return nil
}
