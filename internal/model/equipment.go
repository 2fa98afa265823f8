package model

import (
	"fmt"

	"github.com/google/uuid"
)

// EquipmentType identifies a kind of placeable lab equipment.
type EquipmentType string

const (
	EquipmentBeaker  EquipmentType = "beaker"
	EquipmentFlask   EquipmentType = "flask"
	EquipmentBurette EquipmentType = "burette"
	EquipmentBurner  EquipmentType = "burner"
)

// ValidEquipmentType reports whether t names a known equipment kind.
func ValidEquipmentType(t EquipmentType) bool {
	switch t {
	case EquipmentBeaker, EquipmentFlask, EquipmentBurette, EquipmentBurner:
		return true
	}
	return false
}

// Position is a workbench grid coordinate.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// ChemicalMeasure is one poured portion of a chemical inside equipment.
type ChemicalMeasure struct {
	Name   string  `json:"name"`
	Volume float64 `json:"volume_ml"`
	Color  string  `json:"color"`
}

// Equipment is a placed, stateful container holding chemical volumes.
// Contents mirrors Chemicals by name; it is the list fed to the detection
// engine on every addition.
type Equipment struct {
	ID               uuid.UUID         `json:"id"`
	Type             EquipmentType     `json:"type"`
	Position         Position          `json:"position"`
	Contents         []string          `json:"contents"`
	Chemicals        []ChemicalMeasure `json:"chemicals"`
	TotalVolume      float64           `json:"total_volume_ml"`
	Temperature      float64           `json:"temperature"` // °C
	IsHeated         bool              `json:"is_heated"`
	PH               float64           `json:"ph"`
	ReactionType     string            `json:"reaction_type,omitempty"`
	ReactionProgress float64           `json:"reaction_progress"`
}

// MaxChemicalNameLen caps chemical display labels accepted from callers.
const MaxChemicalNameLen = 120

// ValidateChemicalMeasure checks a chemical-add request payload.
func ValidateChemicalMeasure(name string, volume float64) error {
	if name == "" {
		return fmt.Errorf("chemical name is required")
	}
	if len(name) > MaxChemicalNameLen {
		return fmt.Errorf("chemical name exceeds maximum length of %d characters", MaxChemicalNameLen)
	}
	if volume <= 0 {
		return fmt.Errorf("volume_ml must be positive")
	}
	return nil
}
