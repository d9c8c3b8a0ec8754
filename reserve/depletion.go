/*
depletion.go - Remaining-weeks projection and replenishment urgency

PURPOSE:
  Answers the two questions the stock sheet exists for: "how long will this
  last?" and "which rows need attention?". All figures derive from exact
  Rational arithmetic; the integer week counts are floor divisions, so the
  displayed figure is a conservative "weeks you can be certain of".

PROJECTION RULES:
  remaining_weeks       = floor(remaining / weekly dosage)
  weeks_per_prescription = floor(prescription units / weekly dosage)
  Both are undefined when the daily dosage is zero: a drug taken
  irregularly cannot be projected.

URGENCY:
  no projection            -> UrgencyOk   (no schedule, no urgency)
  weeks <= 0               -> UrgencyNow
  weeks <  MinWeeks        -> UrgencySoon
  otherwise                -> UrgencyOk

The MinWeeks threshold and the hidden-drug aggregation scope are
configuration, not constants; see Engine.

SEE ALSO:
  - store.go: Snapshot, the input to every projection
  - api/dto.go: the wire shape of DrugView and PillCounts
*/
package reserve

import (
	"github.com/medcabinet/reserve-engine/rational"
)

// UrgencyClass is the replenishment status of one drug relative to the
// configured minimum-weeks threshold.
type UrgencyClass string

const (
	UrgencyOk   UrgencyClass = "ok"
	UrgencySoon UrgencyClass = "replenish-soon"
	UrgencyNow  UrgencyClass = "replenish-now"
)

// DrugView is the derived, never-persisted read model for one drug.
// RemainingWeeks and WeeksPerPrescription are nil when the drug has no
// fixed schedule.
type DrugView struct {
	Index                int
	Drug                 Drug
	RemainingWeeks       *int64
	WeeksPerPrescription *int64
	Urgency              UrgencyClass
}

// PillCounts aggregates scheduled dosage per time of day across drugs.
type PillCounts struct {
	Morning rational.Rational
	Noon    rational.Rational
	Evening rational.Rational
	Night   rational.Rational
}

// Engine computes the read-only projections. It holds no state beyond its
// two configuration knobs and is safe to copy.
type Engine struct {
	// MinWeeks is the threshold below which a projectable drug is flagged
	// UrgencySoon.
	MinWeeks int64

	// CountHidden widens PillCounts aggregation to drugs with Show false.
	// Default (false) matches the per-row visibility semantics.
	CountHidden bool
}

// RemainingWeeks projects how many whole weeks the current stock lasts.
// ok is false when the drug has no fixed daily dosage.
func (e Engine) RemainingWeeks(d Drug) (weeks int64, ok bool) {
	weekly := d.WeeklyDosage()
	if weekly.IsZero() {
		return 0, false
	}
	return d.Remaining.Div(weekly).Floor(), true
}

// WeeksPerPrescription projects how many whole weeks one full prescription
// covers. ok is false when the drug has no fixed daily dosage.
func (e Engine) WeeksPerPrescription(d Drug) (weeks int64, ok bool) {
	weekly := d.WeeklyDosage()
	if weekly.IsZero() {
		return 0, false
	}
	return d.PrescriptionUnits().Div(weekly).Floor(), true
}

// Urgency classifies the drug's reserve against the MinWeeks threshold.
func (e Engine) Urgency(d Drug) UrgencyClass {
	weeks, ok := e.RemainingWeeks(d)
	switch {
	case !ok:
		return UrgencyOk
	case weeks <= 0:
		return UrgencyNow
	case weeks < e.MinWeeks:
		return UrgencySoon
	default:
		return UrgencyOk
	}
}

// View builds the derived read model for one drug at the given index.
func (e Engine) View(index int, d Drug) DrugView {
	view := DrugView{
		Index:   index,
		Drug:    d,
		Urgency: e.Urgency(d),
	}
	if weeks, ok := e.RemainingWeeks(d); ok {
		view.RemainingWeeks = &weeks
	}
	if weeks, ok := e.WeeksPerPrescription(d); ok {
		view.WeeksPerPrescription = &weeks
	}
	return view
}

// Views builds read models for a whole snapshot, hidden drugs included.
// Row filtering is the renderer's decision, not the engine's.
func (e Engine) Views(drugs []Drug) []DrugView {
	views := make([]DrugView, len(drugs))
	for i, d := range drugs {
		views[i] = e.View(i, d)
	}
	return views
}

// PillCounts sums the four dosage fields with exact addition. Hidden drugs
// are included only when CountHidden is set.
func (e Engine) PillCounts(drugs []Drug) PillCounts {
	var counts PillCounts
	for _, d := range drugs {
		if !d.Show && !e.CountHidden {
			continue
		}
		counts.Morning = counts.Morning.Add(d.DosageMorning)
		counts.Noon = counts.Noon.Add(d.DosageNoon)
		counts.Evening = counts.Evening.Add(d.DosageEvening)
		counts.Night = counts.Night.Add(d.DosageNight)
	}
	return counts
}
