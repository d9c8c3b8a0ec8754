/*
dto.go - Data Transfer Objects and the column tag set

PURPOSE:
  Defines the JSON shapes served to the external renderer. The DTOs
  decouple the engine's model from the wire contract; every quantity is
  carried twice, as the exact canonical fraction and as the human-readable
  rendering, so clients never have to do fraction math.

COLUMN TAGS:
  The renderer picks its columns by string tag. The tag set is closed:
  unknown tags in a configured profile are a startup error, not a silent
  blank column.

SEE ALSO:
  - handlers.go: fills these types
  - reserve/depletion.go: the domain view model behind DrugViewDTO
*/
package api

import (
	"fmt"

	"github.com/medcabinet/reserve-engine/rational"
	"github.com/medcabinet/reserve-engine/reserve"
)

// =============================================================================
// COLUMN TAGS - closed set, validated at startup
// =============================================================================

// ColumnKind names one renderable column.
type ColumnKind string

const (
	ColumnObversePhoto ColumnKind = "obverse-photo"
	ColumnReversePhoto ColumnKind = "reverse-photo"
	ColumnTradeName    ColumnKind = "trade-name"
	ColumnComponents   ColumnKind = "components"
	ColumnDescription  ColumnKind = "description"
	ColumnRemaining    ColumnKind = "remaining"
	ColumnPrescription ColumnKind = "prescription"
	ColumnDosage       ColumnKind = "dosage"
	ColumnReplenish    ColumnKind = "replenish"
)

var knownColumns = map[ColumnKind]bool{
	ColumnObversePhoto: true,
	ColumnReversePhoto: true,
	ColumnTradeName:    true,
	ColumnComponents:   true,
	ColumnDescription:  true,
	ColumnRemaining:    true,
	ColumnPrescription: true,
	ColumnDosage:       true,
	ColumnReplenish:    true,
}

// DefaultColumns is the full column list, used when no profile matches.
func DefaultColumns() []string {
	return []string{
		string(ColumnObversePhoto), string(ColumnReversePhoto),
		string(ColumnTradeName), string(ColumnComponents),
		string(ColumnDescription), string(ColumnRemaining),
		string(ColumnPrescription), string(ColumnDosage),
		string(ColumnReplenish),
	}
}

// ValidateProfiles rejects configured profiles containing unknown tags.
// Called once at startup so a config typo fails fast.
func ValidateProfiles(profiles map[string][]string) error {
	for name, columns := range profiles {
		for _, c := range columns {
			if !knownColumns[ColumnKind(c)] {
				return fmt.Errorf("column profile %q: unknown column tag %q", name, c)
			}
		}
	}
	return nil
}

// =============================================================================
// RESPONSE TYPES
// =============================================================================

// QuantityDTO carries a Rational across the wire: the exact canonical
// fraction plus its human rendering.
type QuantityDTO struct {
	Exact   string `json:"exact"`
	Display string `json:"display"`
}

// ComponentDTO is one active ingredient.
type ComponentDTO struct {
	GenericName string      `json:"generic_name"`
	Amount      QuantityDTO `json:"amount"`
	Unit        string      `json:"unit"`
}

// DosageDTO is the four-slot daily schedule.
type DosageDTO struct {
	Morning QuantityDTO `json:"morning"`
	Noon    QuantityDTO `json:"noon"`
	Evening QuantityDTO `json:"evening"`
	Night   QuantityDTO `json:"night"`
}

// DrugDTO is one medication as rendered.
type DrugDTO struct {
	TradeName               string         `json:"trade_name"`
	Description             string         `json:"description,omitempty"`
	Components              []ComponentDTO `json:"components,omitempty"`
	Remaining               QuantityDTO    `json:"remaining"`
	Dosage                  DosageDTO      `json:"dosage"`
	UnitsPerPackage         QuantityDTO    `json:"units_per_package"`
	PackagesPerPrescription QuantityDTO    `json:"packages_per_prescription"`
	ObversePhoto            string         `json:"obverse_photo,omitempty"`
	ReversePhoto            string         `json:"reverse_photo,omitempty"`
}

// DrugViewDTO pairs a drug with its depletion projection and urgency.
// The urgency string drives the renderer's row coloring.
type DrugViewDTO struct {
	Index                int     `json:"index"`
	Drug                 DrugDTO `json:"drug"`
	RemainingWeeks       *int64  `json:"remaining_weeks"`
	WeeksPerPrescription *int64  `json:"weeks_per_prescription"`
	Urgency              string  `json:"urgency"`
}

// PillCountsDTO aggregates scheduled dosage per time of day.
type PillCountsDTO struct {
	Morning QuantityDTO `json:"morning"`
	Noon    QuantityDTO `json:"noon"`
	Evening QuantityDTO `json:"evening"`
	Night   QuantityDTO `json:"night"`
}

// OverviewDTO is the full read model one GET serves to the renderer.
type OverviewDTO struct {
	ProfileColumns          []string      `json:"profile_columns"`
	DrugsToDisplay          []DrugViewDTO `json:"drugs_to_display"`
	PillCounts              PillCountsDTO `json:"pill_counts"`
	MinWeeksPerPrescription int64         `json:"min_weeks_per_prescription"`
	HideUI                  bool          `json:"hide_ui"`
}

// ActionResponse acknowledges an applied mutation.
type ActionResponse struct {
	Status string `json:"status"`
}

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// CONVERSIONS
// =============================================================================

func toQuantityDTO(r rational.Rational) QuantityDTO {
	return QuantityDTO{Exact: r.String(), Display: rational.Format(r)}
}

func toDrugDTO(d reserve.Drug) DrugDTO {
	dto := DrugDTO{
		TradeName:               d.TradeName,
		Description:             d.Description,
		Remaining:               toQuantityDTO(d.Remaining),
		Dosage: DosageDTO{
			Morning: toQuantityDTO(d.DosageMorning),
			Noon:    toQuantityDTO(d.DosageNoon),
			Evening: toQuantityDTO(d.DosageEvening),
			Night:   toQuantityDTO(d.DosageNight),
		},
		UnitsPerPackage:         toQuantityDTO(d.UnitsPerPackage),
		PackagesPerPrescription: toQuantityDTO(d.PackagesPerPrescription),
		ObversePhoto:            d.ObversePhoto,
		ReversePhoto:            d.ReversePhoto,
	}
	for _, c := range d.Components {
		dto.Components = append(dto.Components, ComponentDTO{
			GenericName: c.GenericName,
			Amount:      toQuantityDTO(c.Amount),
			Unit:        c.Unit,
		})
	}
	return dto
}

func toDrugViewDTO(v reserve.DrugView) DrugViewDTO {
	return DrugViewDTO{
		Index:                v.Index,
		Drug:                 toDrugDTO(v.Drug),
		RemainingWeeks:       v.RemainingWeeks,
		WeeksPerPrescription: v.WeeksPerPrescription,
		Urgency:              string(v.Urgency),
	}
}

func toPillCountsDTO(c reserve.PillCounts) PillCountsDTO {
	return PillCountsDTO{
		Morning: toQuantityDTO(c.Morning),
		Noon:    toQuantityDTO(c.Noon),
		Evening: toQuantityDTO(c.Evening),
		Night:   toQuantityDTO(c.Night),
	}
}
