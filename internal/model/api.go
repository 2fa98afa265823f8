package model

import (
	"time"
)

// APIResponse is the standard response envelope for all HTTP API responses.
type APIResponse struct {
	Data any          `json:"data,omitempty"`
	Meta ResponseMeta `json:"meta"`
}

// ListResponse is the standard envelope for paginated list endpoints.
type ListResponse struct {
	Data    any          `json:"data"`
	Total   int          `json:"total"`
	HasMore bool         `json:"has_more"`
	Limit   int          `json:"limit"`
	Offset  int          `json:"offset"`
	Meta    ResponseMeta `json:"meta"`
}

// APIError is the standard error response envelope.
type APIError struct {
	Error ErrorDetail  `json:"error"`
	Meta  ResponseMeta `json:"meta"`
}

// ResponseMeta contains request metadata included in every response.
type ResponseMeta struct {
	RequestID string    `json:"request_id"`
	Timestamp time.Time `json:"timestamp"`
}

// ErrorDetail describes an API error.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ErrorCode constants for standard API error codes.
const (
	ErrCodeInvalidInput = "INVALID_INPUT"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeForbidden    = "FORBIDDEN"
	ErrCodeNotFound     = "NOT_FOUND"
	ErrCodeConflict     = "CONFLICT"
	ErrCodeSaveFailed   = "SAVE_FAILED"
	ErrCodeInternal     = "INTERNAL"
)

// PlaceEquipmentRequest is the payload for POST /v1/lab/equipment.
type PlaceEquipmentRequest struct {
	Type     EquipmentType `json:"type"`
	Position Position      `json:"position"`
}

// AddChemicalRequest is the payload for
// POST /v1/lab/equipment/{equipment_id}/chemicals.
type AddChemicalRequest struct {
	Name     string  `json:"name"`
	Color    string  `json:"color"`
	Volume   float64 `json:"volume_ml"`
	Catalyst string  `json:"catalyst,omitempty"`
}

// AddChemicalResponse reports the outcome of a chemical addition: the
// updated equipment, any newly awarded reaction, and any safety alerts
// raised by this addition.
type AddChemicalResponse struct {
	Equipment Equipment      `json:"equipment"`
	Reaction  *ReactionEvent `json:"reaction,omitempty"`
	Alerts    []SafetyAlert  `json:"alerts,omitempty"`
	Score     int            `json:"score"`
}

// LabStateResponse is the full session view returned by GET /v1/lab/state.
type LabStateResponse struct {
	Status          ExperimentStatus `json:"status"`
	StartedAt       *time.Time       `json:"started_at,omitempty"`
	Equipment       []Equipment      `json:"equipment"`
	Reactions       []ReactionEvent  `json:"reactions"`
	Alerts          []SafetyAlert    `json:"alerts"`
	Score           int              `json:"score"`
	Badges          []string         `json:"badges"`
	AutoSaveEnabled bool             `json:"auto_save_enabled"`
}
