// Package memory provides an in-memory Persister for tests and development.
package memory

import (
	"context"
	"sync"

	"github.com/medcabinet/reserve-engine/reserve"
)

// Persister keeps the drug list in memory. It records every save so tests
// can assert flush behavior, and can be told to fail saves to exercise the
// persistence-error path.
type Persister struct {
	mu      sync.Mutex
	drugs   []reserve.Drug
	saves   int
	saveErr error
}

// New seeds the persister with the given drugs.
func New(drugs ...reserve.Drug) *Persister {
	return &Persister{drugs: drugs}
}

func (p *Persister) Load(_ context.Context) ([]reserve.Drug, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]reserve.Drug, len(p.drugs))
	copy(out, p.drugs)
	return out, nil
}

func (p *Persister) Save(_ context.Context, drugs []reserve.Drug) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.saveErr != nil {
		return p.saveErr
	}
	p.drugs = make([]reserve.Drug, len(drugs))
	copy(p.drugs, drugs)
	p.saves++
	return nil
}

// Saves returns how many successful flushes happened.
func (p *Persister) Saves() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.saves
}

// Saved returns the last successfully flushed state.
func (p *Persister) Saved() []reserve.Drug {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]reserve.Drug, len(p.drugs))
	copy(out, p.drugs)
	return out
}

// FailSaves makes subsequent Save calls return err (nil restores normal
// operation).
func (p *Persister) FailSaves(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.saveErr = err
}
