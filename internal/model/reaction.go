// Package model defines the core domain types for chemlab.
//
// Types correspond directly to database tables, catalog entries, and API
// payloads. Types use strong typing (UUIDs, time.Time, enums) and avoid
// interface{} wherever possible.
package model

import (
	"time"

	"github.com/google/uuid"
)

// ReactionType classifies a cataloged reaction.
type ReactionType string

const (
	ReactionSynthesis         ReactionType = "synthesis"
	ReactionDecomposition     ReactionType = "decomposition"
	ReactionSingleReplacement ReactionType = "single_replacement"
	ReactionDoubleReplacement ReactionType = "double_replacement"
	ReactionAcidBase          ReactionType = "acid_base"
	ReactionCombustion        ReactionType = "combustion"
	ReactionRedox             ReactionType = "redox"
)

// EnergyClass describes the thermodynamic direction of a reaction.
type EnergyClass string

const (
	EnergyEndothermic EnergyClass = "endothermic"
	EnergyExothermic  EnergyClass = "exothermic"
)

// DangerLevel grades how hazardous a chemical or reaction is.
type DangerLevel string

const (
	DangerLow     DangerLevel = "low"
	DangerMedium  DangerLevel = "medium"
	DangerHigh    DangerLevel = "high"
	DangerExtreme DangerLevel = "extreme"
)

// ColorChange records the visible color shift of a reaction.
type ColorChange struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// ReactionDefinition is one immutable entry in the static reaction catalog.
// Reactants and products are display labels; matching is done on the
// canonical chemical keys derived from them, never on raw substrings.
type ReactionDefinition struct {
	ID                  string       `json:"id"`
	Name                string       `json:"name"`
	Reactants           []string     `json:"reactants"`
	Products            []string     `json:"products"`
	Type                ReactionType `json:"type"`
	Energy              EnergyClass  `json:"energy"`
	TemperatureRequired float64      `json:"temperature_required"` // °C
	Catalysts           []string     `json:"catalysts,omitempty"`
	Conditions          []string     `json:"conditions"`
	HeatGenerated       float64      `json:"heat_generated"` // kJ/mol, informational
	ColorChange         *ColorChange `json:"color_change,omitempty"`
	GasEvolution        bool         `json:"gas_evolution,omitempty"`
	PrecipitateFormed   string       `json:"precipitate_formed,omitempty"`
	DangerLevel         DangerLevel  `json:"danger_level"`
	SafetyWarnings      []string     `json:"safety_warnings"`
	Description         string       `json:"description"`
	BalancedEquation    string       `json:"balanced_equation"`
	Mechanism           []string     `json:"mechanism,omitempty"`
	EducationalNotes    []string     `json:"educational_notes"`
}

// ReactionEvent is a concrete, timestamped record that a cataloged reaction
// fired for a specific equipment instance during a session.
type ReactionEvent struct {
	ID          uuid.UUID    `json:"id"`
	EquipmentID uuid.UUID    `json:"equipment_id"`
	ReactionID  string       `json:"reaction_id"`
	Name        string       `json:"name"`
	Type        ReactionType `json:"type"`
	Energy      EnergyClass  `json:"energy"`
	Points      int          `json:"points"`
	OccurredAt  time.Time    `json:"occurred_at"`
}
