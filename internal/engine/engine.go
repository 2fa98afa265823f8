// Package engine implements the chemical reaction detection engine and the
// safety checker.
//
// Both are deterministic functions of their inputs plus the static catalog
// and rule set: no hidden randomness, no mutation of shared data. Detection
// is first-match-wins in catalog order; nothing is "consumed", so the same
// content list can match the same reaction again on a later call. Callers
// that care about one-shot awards must deduplicate on the reaction id.
package engine

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelmetric "go.opentelemetry.io/otel/metric"

	"github.com/sciforge/chemlab/internal/catalog"
	"github.com/sciforge/chemlab/internal/model"
)

// catalystFactor scales the activation temperature when a recognized
// catalyst is supplied. Applied call-scoped; the catalog entry itself is
// never modified.
const catalystFactor = 0.8

var meter = otel.GetMeterProvider().Meter("chemlab/engine")

// Engine matches chemical content lists against the reaction catalog and
// the safety rule set.
type Engine struct {
	logger *slog.Logger

	reactionsDetected otelmetric.Int64Counter
	alertsRaised      otelmetric.Int64Counter
}

// New creates an Engine. Metric instrument creation failures are logged and
// leave the corresponding instrument nil (recording becomes a no-op).
func New(logger *slog.Logger) *Engine {
	e := &Engine{logger: logger}

	var err error
	e.reactionsDetected, err = meter.Int64Counter("chemlab.reactions.detected",
		otelmetric.WithDescription("Reactions matched by the detection engine"))
	if err != nil {
		logger.Warn("engine: create reactions counter", "error", err)
	}
	e.alertsRaised, err = meter.Int64Counter("chemlab.safety.alerts",
		otelmetric.WithDescription("Safety alerts raised by the checker"))
	if err != nil {
		logger.Warn("engine: create alerts counter", "error", err)
	}
	return e
}

// Detect returns the first catalog reaction whose reactants are all present
// in chemicals (by canonical key) and whose required temperature is at or
// below tempC. The boolean is false when no reaction is eligible: an empty
// or unknown chemical list is a silent non-match, not an error.
func (e *Engine) Detect(ctx context.Context, chemicals []string, tempC float64) (*model.ReactionDefinition, bool) {
	return e.detect(ctx, chemicals, tempC, "")
}

// DetectWithCatalyst behaves like Detect, but when catalyst is listed on an
// otherwise-matching reaction the effective activation temperature drops to
// 80% of the cataloged value. The threshold is computed per call; the shared
// catalog entry is left untouched.
func (e *Engine) DetectWithCatalyst(ctx context.Context, chemicals []string, tempC float64, catalyst string) (*model.ReactionDefinition, bool) {
	return e.detect(ctx, chemicals, tempC, catalyst)
}

func (e *Engine) detect(ctx context.Context, chemicals []string, tempC float64, catalystLabel string) (*model.ReactionDefinition, bool) {
	if len(chemicals) == 0 {
		return nil, false
	}
	present := catalog.CanonicalSet(chemicals)
	catalystKey := ""
	if catalystLabel != "" {
		catalystKey = catalog.Canonical(catalystLabel)
	}

	for _, r := range catalog.Reactions() {
		if !hasAllReactants(r, present) {
			continue
		}
		threshold := r.TemperatureRequired
		if catalystKey != "" && hasCatalyst(r, catalystKey) {
			threshold *= catalystFactor
		}
		if tempC < threshold {
			continue
		}

		if e.reactionsDetected != nil {
			e.reactionsDetected.Add(ctx, 1, otelmetric.WithAttributes(
				attribute.String("reaction.type", string(r.Type)),
			))
		}
		matched := r
		return &matched, true
	}
	return nil, false
}

// Perform runs the safety checker and then detection, in that order. The
// safety pass always runs, even when no reaction ultimately fires: alerts
// and detection are independent concerns.
func (e *Engine) Perform(ctx context.Context, chemicals []string, tempC float64, catalyst string) (*model.ReactionDefinition, []model.SafetyAlert) {
	alerts := e.CheckSafety(ctx, chemicals, tempC)
	reaction, ok := e.detect(ctx, chemicals, tempC, catalyst)
	if !ok {
		return nil, alerts
	}
	e.logger.Debug("engine: reaction detected",
		"reaction_id", reaction.ID,
		"type", reaction.Type,
		"temperature", tempC)
	return reaction, alerts
}

func hasAllReactants(r model.ReactionDefinition, present map[string]bool) bool {
	for _, reactant := range r.Reactants {
		if !present[catalog.Canonical(reactant)] {
			return false
		}
	}
	return len(r.Reactants) > 0
}

func hasCatalyst(r model.ReactionDefinition, catalystKey string) bool {
	for _, c := range r.Catalysts {
		if catalog.Canonical(c) == catalystKey {
			return true
		}
	}
	return false
}
