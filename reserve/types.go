/*
Package reserve is the core accounting engine for a household's medication
stock.

PURPOSE:
  Tracks each drug's exact fractional reserve, predicts when the stock runs
  out under a fixed daily dosage schedule, and classifies replenishment
  urgency. Transport, rendering, and the persistence format are collaborators
  behind interfaces; this package owns the data model and the arithmetic.

KEY CONCEPTS IN THIS FILE (types.go):
  - Drug: one medication's identity, dosage schedule, packaging, and stock
  - Component: an active ingredient with an exact amount per unit
  - Derived dosage figures: daily, weekly, units per prescription

DESIGN PRINCIPLES:
  1. Every quantity is a rational.Rational. Floats appear only at the
     rendering boundary, never in the model.
  2. The reserve may go negative: a take-days overrun records the shortfall
     instead of clamping, so the deficit stays visible.
  3. Derived figures are computed identically for shown and hidden drugs.

SEE ALSO:
  - store.go: the guarded mutable collection of Drugs
  - depletion.go: remaining-weeks projection and urgency classification
  - errors.go: the error taxonomy
*/
package reserve

import (
	"github.com/medcabinet/reserve-engine/rational"
)

// Component is one active ingredient of a drug. Components matter for
// display and a future dosage-strength breakdown; the engine never mutates
// them.
type Component struct {
	GenericName string            `json:"generic_name"`
	Amount      rational.Rational `json:"amount"`
	Unit        string            `json:"unit"`
}

// Drug is a single tracked medication.
type Drug struct {
	TradeName   string      `json:"trade_name"`
	Components  []Component `json:"components,omitempty"`
	Description string      `json:"description,omitempty"`

	// Current exact stock on hand. Negative after an overrunning take-days.
	Remaining rational.Rational `json:"remaining"`

	// Fixed daily schedule. All four may be zero for drugs taken irregularly.
	DosageMorning rational.Rational `json:"dosage_morning"`
	DosageNoon    rational.Rational `json:"dosage_noon"`
	DosageEvening rational.Rational `json:"dosage_evening"`
	DosageNight   rational.Rational `json:"dosage_night"`

	// Packaging: how many dosage units one prescription provides.
	UnitsPerPackage         rational.Rational `json:"units_per_package"`
	PackagesPerPrescription rational.Rational `json:"packages_per_prescription"`

	// Show controls whether the renderer displays this drug. The engine
	// computes derived figures regardless.
	Show bool `json:"show"`

	// Opaque photo file identifiers; serving them is not our concern.
	ObversePhoto string `json:"obverse_photo,omitempty"`
	ReversePhoto string `json:"reverse_photo,omitempty"`
}

// DailyDosage is the sum of the four schedule slots.
func (d Drug) DailyDosage() rational.Rational {
	return d.DosageMorning.
		Add(d.DosageNoon).
		Add(d.DosageEvening).
		Add(d.DosageNight)
}

// WeeklyDosage is DailyDosage scaled to seven days.
func (d Drug) WeeklyDosage() rational.Rational {
	return d.DailyDosage().ScaleInt(7)
}

// PrescriptionUnits is how many dosage units one full prescription yields.
func (d Drug) PrescriptionUnits() rational.Rational {
	return d.UnitsPerPackage.Mul(d.PackagesPerPrescription)
}

// clone returns a deep-enough copy for snapshot isolation: Rational values
// are immutable, only the components slice needs its own backing array.
func (d Drug) clone() Drug {
	out := d
	if d.Components != nil {
		out.Components = make([]Component, len(d.Components))
		copy(out.Components, d.Components)
	}
	return out
}

// cloneDrugs copies a whole slice; used by Snapshot and the persisters.
func cloneDrugs(drugs []Drug) []Drug {
	out := make([]Drug, len(drugs))
	for i, d := range drugs {
		out[i] = d.clone()
	}
	return out
}
