package model

import (
	"time"

	"github.com/google/uuid"
)

// AlertLevel grades the severity of a safety alert.
type AlertLevel string

const (
	AlertWarning  AlertLevel = "warning"
	AlertDanger   AlertLevel = "danger"
	AlertCritical AlertLevel = "critical"
)

// SafetyAlert is a non-blocking, severity-tagged warning emitted by the
// safety checker. Alerts accumulate on the session and are removed only by
// an explicit clear: dangerous conditions must never auto-dismiss.
type SafetyAlert struct {
	ID        uuid.UUID  `json:"id"`
	Level     AlertLevel `json:"level"`
	Message   string     `json:"message"`
	Chemical  string     `json:"chemical,omitempty"`
	Action    string     `json:"action"`
	Timestamp time.Time  `json:"timestamp"`
}

// IncompatibleRule flags a combination of chemicals whose simultaneous
// presence always raises a critical alert, independent of the catalog.
type IncompatibleRule struct {
	Chemicals []string `json:"chemicals"`
	Warning   string   `json:"warning"`
}

// TemperatureRule bounds the safe temperature range for one chemical.
// Max is the threshold above which the chemical becomes unsafe (danger);
// Ignition is the threshold above which it catches fire (critical).
// A zero threshold means the bound is not configured.
type TemperatureRule struct {
	Chemical string  `json:"chemical"`
	Max      float64 `json:"max,omitempty"`
	Ignition float64 `json:"ignition,omitempty"`
	Warning  string  `json:"warning"`
}
