package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	otelmetric "go.opentelemetry.io/otel/metric"

	"github.com/sciforge/chemlab/internal/catalog"
	"github.com/sciforge/chemlab/internal/model"
)

// Alert action texts. Fixed strings so the UI can key on them.
const (
	ActionSeparate = "STOP: Separate chemicals immediately"
	ActionCool     = "Reduce temperature immediately"
	ActionEvacuate = "EVACUATE: Fire hazard imminent"
)

// CheckSafety evaluates the safety rule set against the chemicals present
// and the current temperature. Incompatibility alerts come first, then
// temperature alerts, each pass in rule order. Both a max-exceeded and an
// ignition-exceeded alert can fire for the same chemical. Alerts never
// block anything: this is a simulator, not a safety interlock.
func (e *Engine) CheckSafety(ctx context.Context, chemicals []string, tempC float64) []model.SafetyAlert {
	var alerts []model.SafetyAlert
	now := time.Now().UTC()
	present := catalog.CanonicalSet(chemicals)

	for _, rule := range catalog.IncompatibleRules() {
		all := true
		for _, c := range rule.Chemicals {
			if !present[catalog.Canonical(c)] {
				all = false
				break
			}
		}
		if !all {
			continue
		}
		alerts = append(alerts, model.SafetyAlert{
			ID:        uuid.New(),
			Level:     model.AlertCritical,
			Message:   rule.Warning,
			Action:    ActionSeparate,
			Timestamp: now,
		})
	}

	for _, rule := range catalog.TemperatureRules() {
		if !present[catalog.Canonical(rule.Chemical)] {
			continue
		}
		if rule.Max > 0 && tempC > rule.Max {
			alerts = append(alerts, model.SafetyAlert{
				ID:        uuid.New(),
				Level:     model.AlertDanger,
				Message:   rule.Warning,
				Chemical:  rule.Chemical,
				Action:    ActionCool,
				Timestamp: now,
			})
		}
		if rule.Ignition > 0 && tempC > rule.Ignition {
			alerts = append(alerts, model.SafetyAlert{
				ID:        uuid.New(),
				Level:     model.AlertCritical,
				Message:   fmt.Sprintf("%s ignition temperature exceeded!", rule.Chemical),
				Chemical:  rule.Chemical,
				Action:    ActionEvacuate,
				Timestamp: now,
			})
		}
	}

	if e.alertsRaised != nil {
		for _, a := range alerts {
			e.alertsRaised.Add(ctx, 1, otelmetric.WithAttributes(
				attribute.String("alert.level", string(a.Level)),
			))
		}
	}
	return alerts
}
