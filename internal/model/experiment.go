package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ExperimentStatus is the lifecycle state of a lab session.
type ExperimentStatus string

const (
	StatusIdle      ExperimentStatus = "idle"
	StatusActive    ExperimentStatus = "active"
	StatusPaused    ExperimentStatus = "paused"
	StatusCompleted ExperimentStatus = "completed"
)

// ExperimentResults is the structured result blob saved with an experiment
// record. Mirrors the payload the lab session builds on save.
type ExperimentResults struct {
	Reactions          int             `json:"reactions"`
	EquipmentUsed      int             `json:"equipment_used"`
	ChemicalsMixed     int             `json:"chemicals_mixed"`
	SessionDuration    float64         `json:"session_duration_seconds"`
	EquipmentDetails   []Equipment     `json:"equipment_details"`
	ReactionsPerformed []ReactionEvent `json:"reactions_performed"`
	Timestamp          time.Time       `json:"timestamp"`
}

// Experiment is a persisted lab session record.
type Experiment struct {
	ID            uuid.UUID         `json:"id"`
	UserID        string            `json:"user_id"`
	Name          string            `json:"experiment_name"`
	ChemicalsUsed []string          `json:"chemicals_used"`
	Results       ExperimentResults `json:"results"`
	Score         int               `json:"score"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

// MaxExperimentNameLen caps experiment names.
const MaxExperimentNameLen = 200

// CreateExperimentRequest is the payload for POST /v1/experiments.
type CreateExperimentRequest struct {
	Name          string            `json:"experiment_name"`
	ChemicalsUsed []string          `json:"chemicals_used"`
	Results       ExperimentResults `json:"results"`
	Score         int               `json:"score"`
}

// Validate checks an experiment creation payload.
func (r CreateExperimentRequest) Validate() error {
	if r.Name == "" {
		return fmt.Errorf("experiment_name is required")
	}
	if len(r.Name) > MaxExperimentNameLen {
		return fmt.Errorf("experiment_name exceeds maximum length of %d characters", MaxExperimentNameLen)
	}
	if r.Score < 0 {
		return fmt.Errorf("score must not be negative")
	}
	return nil
}
