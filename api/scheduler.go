/*
scheduler.go - Automated daily consumption

PURPOSE:
  With auto-advance enabled, the book-keeping follows the calendar by
  itself: once a day the scheduler applies a single take-days(1), so
  nobody has to post the week's consumption by hand.

DESIGN:
  - gocron job at a configured HH:MM, local time
  - a failed flush is logged and counted, never retried here; the next
    day's run (or any manual mutation) flushes the accumulated state

USAGE:
  adv := api.NewAutoAdvance(store, log, "00:05")
  if err := adv.Start(); err != nil { ... }
  defer adv.Stop()
*/
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/medcabinet/reserve-engine/metrics"
	"github.com/medcabinet/reserve-engine/reserve"
)

// AutoAdvance applies one day of consumption on a daily schedule.
type AutoAdvance struct {
	store     *reserve.Store
	log       *slog.Logger
	at        string
	scheduler *gocron.Scheduler
}

// NewAutoAdvance creates the scheduler; at is the daily HH:MM run time.
func NewAutoAdvance(store *reserve.Store, log *slog.Logger, at string) *AutoAdvance {
	return &AutoAdvance{
		store:     store,
		log:       log,
		at:        at,
		scheduler: gocron.NewScheduler(time.Local),
	}
}

// Start schedules the daily job and launches the scheduler in the
// background.
func (a *AutoAdvance) Start() error {
	_, err := a.scheduler.Every(1).Days().At(a.at).Do(a.advance)
	if err != nil {
		return fmt.Errorf("scheduling auto-advance: %w", err)
	}
	a.scheduler.StartAsync()
	a.log.Info("auto-advance scheduled", "at", a.at)
	return nil
}

// Stop halts the scheduler. Safe to call after a failed Start.
func (a *AutoAdvance) Stop() {
	a.scheduler.Stop()
}

func (a *AutoAdvance) advance() {
	err := a.store.TakeDays(context.Background(), 1)
	switch {
	case err == nil:
		metrics.MutationsTotal.WithLabelValues("auto-advance").Inc()
		a.log.Info("auto-advance applied one day of consumption")
	case errors.Is(err, reserve.ErrPersistence):
		metrics.FlushFailuresTotal.Inc()
		a.log.Error("auto-advance applied but flush failed", "error", err)
	default:
		a.log.Error("auto-advance failed", "error", err)
	}
}
