package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sciforge/chemlab/internal/model"
)

func TestCheckSafetyIncompatibleCombination(t *testing.T) {
	eng := newTestEngine()

	alerts := eng.CheckSafety(context.Background(), []string{"H₂SO₄", "Ethanol"}, 20)
	require.Len(t, alerts, 1)
	assert.Equal(t, model.AlertCritical, alerts[0].Level)
	assert.Equal(t, ActionSeparate, alerts[0].Action)
	assert.Contains(t, alerts[0].Message, "organic")
	assert.NotZero(t, alerts[0].ID)
	assert.False(t, alerts[0].Timestamp.IsZero())
}

func TestCheckSafetyMixedAcids(t *testing.T) {
	eng := newTestEngine()

	alerts := eng.CheckSafety(context.Background(), []string{"HCl", "H₂SO₄"}, 20)
	require.Len(t, alerts, 1)
	assert.Equal(t, model.AlertCritical, alerts[0].Level)
	assert.Contains(t, alerts[0].Message, "Mixing acids")
}

func TestCheckSafetyTemperatureMax(t *testing.T) {
	eng := newTestEngine()

	// Below the ceiling: silent.
	assert.Empty(t, eng.CheckSafety(context.Background(), []string{"HCl"}, 85))

	// Above it: danger with the cool-down action.
	alerts := eng.CheckSafety(context.Background(), []string{"HCl"}, 86)
	require.Len(t, alerts, 1)
	assert.Equal(t, model.AlertDanger, alerts[0].Level)
	assert.Equal(t, ActionCool, alerts[0].Action)
	assert.Equal(t, "HCl", alerts[0].Chemical)
}

func TestCheckSafetyIgnition(t *testing.T) {
	eng := newTestEngine()

	assert.Empty(t, eng.CheckSafety(context.Background(), []string{"Mg"}, 650))

	alerts := eng.CheckSafety(context.Background(), []string{"Mg"}, 651)
	require.Len(t, alerts, 1)
	assert.Equal(t, model.AlertCritical, alerts[0].Level)
	assert.Equal(t, ActionEvacuate, alerts[0].Action)
	assert.Contains(t, alerts[0].Message, "ignition temperature exceeded")
}

func TestCheckSafetyMaxAndIgnitionBothFire(t *testing.T) {
	eng := newTestEngine()

	// H2SO4 has only a max, Mg only an ignition point; at 700 both rules
	// trip alongside the incompatibility alert.
	alerts := eng.CheckSafety(context.Background(), []string{"H₂SO₄", "Mg"}, 700)
	require.Len(t, alerts, 3)

	levels := map[model.AlertLevel]int{}
	for _, a := range alerts {
		levels[a.Level]++
	}
	assert.Equal(t, 2, levels[model.AlertCritical], "incompatibility + ignition")
	assert.Equal(t, 1, levels[model.AlertDanger], "H₂SO₄ over max")
}

func TestCheckSafetyAlertsIndependentOfDetection(t *testing.T) {
	eng := newTestEngine()

	// The incompatibility alert fires even though the same pair is a valid
	// catalog reaction.
	reaction, alerts := eng.Perform(context.Background(), []string{"Mg", "H₂SO₄"}, 25, "")
	require.NotNil(t, reaction)
	assert.Equal(t, model.ReactionRedox, reaction.Type)
	require.Len(t, alerts, 1)
	assert.Equal(t, model.AlertCritical, alerts[0].Level)
}

func TestCheckSafetyCommonNameLabels(t *testing.T) {
	eng := newTestEngine()

	alerts := eng.CheckSafety(context.Background(), []string{"Sulfuric Acid", "Magnesium"}, 20)
	require.Len(t, alerts, 1)
	assert.Contains(t, alerts[0].Message, "EXTREME DANGER")
}

func TestCheckSafetyNothingToReport(t *testing.T) {
	eng := newTestEngine()

	assert.Empty(t, eng.CheckSafety(context.Background(), nil, 20))
	assert.Empty(t, eng.CheckSafety(context.Background(), []string{"Water", "NaCl"}, 20))
}
