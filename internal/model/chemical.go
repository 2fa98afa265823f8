package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ChemicalState is the physical state of a library chemical at room
// temperature.
type ChemicalState string

const (
	StateSolid  ChemicalState = "solid"
	StateLiquid ChemicalState = "liquid"
	StateGas    ChemicalState = "gas"
)

// ChemicalCategory groups library chemicals for the library panel filter.
type ChemicalCategory string

const (
	CategoryAcid      ChemicalCategory = "acid"
	CategoryBase      ChemicalCategory = "base"
	CategorySalt      ChemicalCategory = "salt"
	CategoryOrganic   ChemicalCategory = "organic"
	CategoryMetal     ChemicalCategory = "metal"
	CategoryIndicator ChemicalCategory = "indicator"
	CategorySolvent   ChemicalCategory = "solvent"
	CategoryGas       ChemicalCategory = "gas"
)

// ValidChemicalCategory reports whether c names a known category.
func ValidChemicalCategory(c ChemicalCategory) bool {
	switch c {
	case CategoryAcid, CategoryBase, CategorySalt, CategoryOrganic,
		CategoryMetal, CategoryIndicator, CategorySolvent, CategoryGas:
		return true
	}
	return false
}

// Chemical is one entry in the persisted chemical library.
type Chemical struct {
	ID            uuid.UUID        `json:"id"`
	Name          string           `json:"name"`
	Formula       string           `json:"formula"`
	Color         string           `json:"color"`
	State         ChemicalState    `json:"state"`
	DangerLevel   DangerLevel      `json:"danger_level"`
	Description   string           `json:"description"`
	MolarMass     float64          `json:"molar_mass"`
	Density       *float64         `json:"density,omitempty"`
	BoilingPoint  *float64         `json:"boiling_point,omitempty"`
	MeltingPoint  *float64         `json:"melting_point,omitempty"`
	PH            *float64         `json:"ph,omitempty"`
	ReactsWith    []string         `json:"reacts_with"`
	Category      ChemicalCategory `json:"category"`
	Hazards       []string         `json:"hazards"`
	Concentration *string          `json:"concentration,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
}

// CreateChemicalRequest is the payload for POST /v1/chemicals.
type CreateChemicalRequest struct {
	Name          string           `json:"name"`
	Formula       string           `json:"formula"`
	Color         string           `json:"color"`
	State         ChemicalState    `json:"state"`
	DangerLevel   DangerLevel      `json:"danger_level"`
	Description   string           `json:"description"`
	MolarMass     float64          `json:"molar_mass"`
	Density       *float64         `json:"density,omitempty"`
	BoilingPoint  *float64         `json:"boiling_point,omitempty"`
	MeltingPoint  *float64         `json:"melting_point,omitempty"`
	PH            *float64         `json:"ph,omitempty"`
	ReactsWith    []string         `json:"reacts_with,omitempty"`
	Category      ChemicalCategory `json:"category"`
	Hazards       []string         `json:"hazards,omitempty"`
	Concentration *string          `json:"concentration,omitempty"`
}

// Validate checks a chemical creation payload.
func (r CreateChemicalRequest) Validate() error {
	if r.Name == "" {
		return fmt.Errorf("name is required")
	}
	if len(r.Name) > MaxChemicalNameLen {
		return fmt.Errorf("name exceeds maximum length of %d characters", MaxChemicalNameLen)
	}
	if r.Formula == "" {
		return fmt.Errorf("formula is required")
	}
	if !ValidChemicalCategory(r.Category) {
		return fmt.Errorf("unknown category %q", r.Category)
	}
	if r.MolarMass <= 0 {
		return fmt.Errorf("molar_mass must be positive")
	}
	switch r.State {
	case StateSolid, StateLiquid, StateGas:
	default:
		return fmt.Errorf("unknown state %q", r.State)
	}
	switch r.DangerLevel {
	case DangerLow, DangerMedium, DangerHigh, DangerExtreme:
	default:
		return fmt.Errorf("unknown danger_level %q", r.DangerLevel)
	}
	return nil
}
