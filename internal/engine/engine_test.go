package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sciforge/chemlab/internal/catalog"
	"github.com/sciforge/chemlab/internal/model"
	"github.com/sciforge/chemlab/internal/testutil"
)

func newTestEngine() *Engine {
	return New(testutil.TestLogger())
}

func TestDetectNeutralization(t *testing.T) {
	eng := newTestEngine()

	r, ok := eng.Detect(context.Background(), []string{"HCl", "NaOH"}, 20)
	require.True(t, ok)
	assert.Equal(t, "hcl_naoh_neutralization", r.ID)
	assert.Equal(t, model.ReactionAcidBase, r.Type)
}

func TestDetectAcceptsCommonNames(t *testing.T) {
	eng := newTestEngine()

	// Formula and common-name labels resolve to the same canonical keys.
	r, ok := eng.Detect(context.Background(), []string{"Hydrochloric Acid", "Sodium Hydroxide"}, 25)
	require.True(t, ok)
	assert.Equal(t, "hcl_naoh_neutralization", r.ID)
}

func TestDetectIsDeterministic(t *testing.T) {
	eng := newTestEngine()
	chemicals := []string{"CuSO₄", "NaOH"}

	first, ok := eng.Detect(context.Background(), chemicals, 20)
	require.True(t, ok)
	for i := 0; i < 10; i++ {
		r, ok := eng.Detect(context.Background(), chemicals, 20)
		require.True(t, ok)
		assert.Equal(t, first.ID, r.ID)
	}
}

func TestDetectSubsetContainment(t *testing.T) {
	eng := newTestEngine()

	// Extra chemicals in the vessel do not prevent a match.
	r, ok := eng.Detect(context.Background(), []string{"NaCl", "HCl", "Water", "NaOH"}, 20)
	require.True(t, ok)
	assert.Equal(t, "hcl_naoh_neutralization", r.ID)
}

func TestDetectFirstMatchWins(t *testing.T) {
	eng := newTestEngine()

	// HCl+NaOH precedes CuSO4+NaOH in the catalog; with all three present
	// the earlier entry is reported.
	r, ok := eng.Detect(context.Background(), []string{"CuSO₄", "HCl", "NaOH"}, 20)
	require.True(t, ok)
	assert.Equal(t, "hcl_naoh_neutralization", r.ID)
}

func TestDetectTemperatureGate(t *testing.T) {
	eng := newTestEngine()
	chemicals := []string{"Mg", "O₂"}

	_, ok := eng.Detect(context.Background(), chemicals, 20)
	assert.False(t, ok, "magnesium must not combust at room temperature")

	_, ok = eng.Detect(context.Background(), chemicals, 649)
	assert.False(t, ok)

	r, ok := eng.Detect(context.Background(), chemicals, 650)
	require.True(t, ok, "threshold temperature is inclusive")
	assert.Equal(t, "mg_combustion", r.ID)
}

func TestDetectWithCatalystLowersThreshold(t *testing.T) {
	eng := newTestEngine()
	chemicals := []string{"Mg", "O₂"}

	// 650 * 0.8 = 520.
	_, ok := eng.DetectWithCatalyst(context.Background(), chemicals, 519, "Pt")
	assert.False(t, ok)

	r, ok := eng.DetectWithCatalyst(context.Background(), chemicals, 520, "Pt")
	require.True(t, ok)
	assert.Equal(t, "mg_combustion", r.ID)

	// A catalyst the reaction does not list has no effect.
	_, ok = eng.DetectWithCatalyst(context.Background(), chemicals, 520, "MnO₂")
	assert.False(t, ok)
}

func TestCatalystDoesNotMutateCatalog(t *testing.T) {
	eng := newTestEngine()
	chemicals := []string{"Mg", "O₂"}

	before, ok := catalog.ByID("mg_combustion")
	require.True(t, ok)
	require.Equal(t, float64(650), before.TemperatureRequired)

	_, _ = eng.DetectWithCatalyst(context.Background(), chemicals, 700, "Pt")
	_, _ = eng.DetectWithCatalyst(context.Background(), chemicals, 700, "Pt")

	after, ok := catalog.ByID("mg_combustion")
	require.True(t, ok)
	assert.Equal(t, float64(650), after.TemperatureRequired,
		"catalyst discount must be call-scoped, never written back")

	// Without the catalyst the full threshold still applies.
	_, ok = eng.Detect(context.Background(), chemicals, 600)
	assert.False(t, ok)
}

func TestDetectEmptyAndUnknownInputs(t *testing.T) {
	eng := newTestEngine()

	_, ok := eng.Detect(context.Background(), nil, 20)
	assert.False(t, ok)

	_, ok = eng.Detect(context.Background(), []string{}, 20)
	assert.False(t, ok)

	_, ok = eng.Detect(context.Background(), []string{"Unobtainium", "Water"}, 20)
	assert.False(t, ok)

	// A single reactant is never enough.
	_, ok = eng.Detect(context.Background(), []string{"HCl"}, 20)
	assert.False(t, ok)
}

func TestPerformReturnsReactionAndAlerts(t *testing.T) {
	eng := newTestEngine()

	// H2SO4 + Mg matches the extreme redox entry and trips the
	// incompatibility rule; both outcomes surface independently.
	r, alerts := eng.Perform(context.Background(), []string{"H₂SO₄", "Mg"}, 25, "")
	require.NotNil(t, r)
	assert.Equal(t, "h2so4_metal_danger", r.ID)

	require.NotEmpty(t, alerts)
	found := false
	for _, a := range alerts {
		if a.Level == model.AlertCritical {
			found = true
		}
	}
	assert.True(t, found, "expected a critical incompatibility alert")
}

func TestPerformAlertsWithoutReaction(t *testing.T) {
	eng := newTestEngine()

	// HCl alone over its max temperature: no reaction, but the safety pass
	// still runs.
	r, alerts := eng.Perform(context.Background(), []string{"HCl"}, 90, "")
	assert.Nil(t, r)
	require.Len(t, alerts, 1)
	assert.Equal(t, model.AlertDanger, alerts[0].Level)
}
