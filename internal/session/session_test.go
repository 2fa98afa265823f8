package session

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sciforge/chemlab/internal/engine"
	"github.com/sciforge/chemlab/internal/model"
	"github.com/sciforge/chemlab/internal/testutil"
)

// capturePublisher records published events for assertions.
type capturePublisher struct {
	mu     sync.Mutex
	events []Event
}

func (p *capturePublisher) Publish(ev Event) {
	p.mu.Lock()
	p.events = append(p.events, ev)
	p.mu.Unlock()
}

func (p *capturePublisher) byType(t string) []Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []Event
	for _, ev := range p.events {
		if ev.Type == t {
			out = append(out, ev)
		}
	}
	return out
}

func newTestSession(t *testing.T) (*Session, *capturePublisher) {
	t.Helper()
	pub := &capturePublisher{}
	eng := engine.New(testutil.TestLogger())
	return newSession("student-1", eng, nil, pub, testutil.TestLogger()), pub
}

func startedSession(t *testing.T) (*Session, *capturePublisher) {
	t.Helper()
	s, pub := newTestSession(t)
	require.NoError(t, s.Start("Test Run"))
	return s, pub
}

func TestLifecycleTransitions(t *testing.T) {
	s, _ := newTestSession(t)

	assert.Equal(t, model.StatusIdle, s.Status())
	require.NoError(t, s.Start(""))
	assert.Equal(t, model.StatusActive, s.Status())
	assert.ErrorIs(t, s.Start("again"), ErrAlreadyActive)

	require.NoError(t, s.Pause())
	assert.Equal(t, model.StatusPaused, s.Status())
	assert.ErrorIs(t, s.Pause(), ErrExperimentPaused)
	assert.ErrorIs(t, s.Start("again"), ErrAlreadyActive)

	require.NoError(t, s.Resume())
	assert.Equal(t, model.StatusActive, s.Status())

	require.NoError(t, s.Complete())
	assert.Equal(t, model.StatusCompleted, s.Status())
	assert.ErrorIs(t, s.Complete(), ErrExperimentDone)
	assert.ErrorIs(t, s.Start("again"), ErrExperimentDone)

	s.Reset()
	assert.Equal(t, model.StatusIdle, s.Status())
	require.NoError(t, s.Start("fresh"))
}

func TestMutationsRejectedWhenNotActive(t *testing.T) {
	s, _ := newTestSession(t)
	ctx := context.Background()

	_, err := s.PlaceEquipment(model.EquipmentBeaker, model.Position{})
	assert.ErrorIs(t, err, ErrNoActiveExperiment)

	require.NoError(t, s.Start(""))
	eq, err := s.PlaceEquipment(model.EquipmentBeaker, model.Position{X: 1})
	require.NoError(t, err)

	require.NoError(t, s.Pause())
	_, err = s.AddChemical(ctx, eq.ID, model.AddChemicalRequest{Name: "HCl", Volume: 5})
	assert.ErrorIs(t, err, ErrExperimentPaused)
	_, _, err = s.ToggleHeat(ctx, eq.ID)
	assert.ErrorIs(t, err, ErrExperimentPaused)

	require.NoError(t, s.Resume())
	require.NoError(t, s.Complete())
	_, err = s.AddChemical(ctx, eq.ID, model.AddChemicalRequest{Name: "HCl", Volume: 5})
	assert.ErrorIs(t, err, ErrExperimentDone)
}

func TestEndToEndNeutralizationScenario(t *testing.T) {
	s, pub := newTestSession(t)
	ctx := context.Background()

	require.NoError(t, s.Start("Neutralization"))
	assert.Equal(t, 10, s.State().Score, "experiment start bonus")

	beaker, err := s.PlaceEquipment(model.EquipmentBeaker, model.Position{X: 1, Y: 0, Z: 2})
	require.NoError(t, err)
	assert.Equal(t, 20, s.State().Score, "+10 for placing equipment")

	resp, err := s.AddChemical(ctx, beaker.ID, model.AddChemicalRequest{Name: "HCl", Color: "#F4F6E8", Volume: 5})
	require.NoError(t, err)
	assert.Nil(t, resp.Reaction, "a lone acid must not react")
	assert.Equal(t, 35, resp.Score, "+15 for the addition")

	resp, err = s.AddChemical(ctx, beaker.ID, model.AddChemicalRequest{Name: "NaOH", Color: "#FFFFFF", Volume: 5})
	require.NoError(t, err)
	require.NotNil(t, resp.Reaction)
	assert.Equal(t, "hcl_naoh_neutralization", resp.Reaction.ReactionID)
	// Bench activity after start sums to 90: 10 + 15 + 15 + 50.
	assert.Equal(t, 100, resp.Score)
	assert.InDelta(t, 10.0, resp.Equipment.TotalVolume, 1e-9)

	state := s.State()
	assert.Equal(t, 100, state.Score)
	require.Len(t, state.Reactions, 1)
	assert.Equal(t, model.ReactionAcidBase, state.Reactions[0].Type)
	assert.Equal(t, []string{"acid_base"}, state.Badges)

	require.Len(t, pub.byType("reaction"), 1)

	s.Reset()
	state = s.State()
	assert.Zero(t, state.Score)
	assert.Empty(t, state.Reactions)
	assert.Empty(t, state.Equipment)
	assert.Empty(t, state.Badges)
}

func TestNoReAwardOnReDetection(t *testing.T) {
	s, pub := startedSession(t)
	ctx := context.Background()

	beaker, err := s.PlaceEquipment(model.EquipmentBeaker, model.Position{})
	require.NoError(t, err)

	_, err = s.AddChemical(ctx, beaker.ID, model.AddChemicalRequest{Name: "HCl", Volume: 5})
	require.NoError(t, err)
	resp, err := s.AddChemical(ctx, beaker.ID, model.AddChemicalRequest{Name: "NaOH", Volume: 5})
	require.NoError(t, err)
	require.NotNil(t, resp.Reaction)
	scoreAfterFirst := resp.Score

	// Adding more of the same chemicals re-detects the same reaction but
	// must not award it again; only the addition points accrue.
	resp, err = s.AddChemical(ctx, beaker.ID, model.AddChemicalRequest{Name: "HCl", Volume: 2})
	require.NoError(t, err)
	assert.Nil(t, resp.Reaction)
	assert.Equal(t, scoreAfterFirst+15, resp.Score)

	assert.Len(t, s.State().Reactions, 1)
	require.Len(t, pub.byType("reaction"), 1)
}

func TestSameReactionAwardsPerEquipment(t *testing.T) {
	s, _ := startedSession(t)
	ctx := context.Background()

	mix := func(id uuid.UUID) *model.ReactionEvent {
		_, err := s.AddChemical(ctx, id, model.AddChemicalRequest{Name: "HCl", Volume: 5})
		require.NoError(t, err)
		resp, err := s.AddChemical(ctx, id, model.AddChemicalRequest{Name: "NaOH", Volume: 5})
		require.NoError(t, err)
		return resp.Reaction
	}

	beaker, err := s.PlaceEquipment(model.EquipmentBeaker, model.Position{})
	require.NoError(t, err)
	flask, err := s.PlaceEquipment(model.EquipmentFlask, model.Position{X: 2})
	require.NoError(t, err)

	require.NotNil(t, mix(beaker.ID), "first vessel awards")
	require.NotNil(t, mix(flask.ID), "a different vessel awards independently")
	assert.Len(t, s.State().Reactions, 2)
}

func TestHeatedBurnerEnablesCombustion(t *testing.T) {
	s, _ := startedSession(t)
	ctx := context.Background()

	burner, err := s.PlaceEquipment(model.EquipmentBurner, model.Position{})
	require.NoError(t, err)

	_, err = s.AddChemical(ctx, burner.ID, model.AddChemicalRequest{Name: "Mg", Volume: 1})
	require.NoError(t, err)
	resp, err := s.AddChemical(ctx, burner.ID, model.AddChemicalRequest{Name: "O₂", Volume: 1})
	require.NoError(t, err)
	assert.Nil(t, resp.Reaction, "unlit burner stays at bench temperature")

	eq, alerts, err := s.ToggleHeat(ctx, burner.ID)
	require.NoError(t, err)
	assert.InDelta(t, 700.0, eq.Temperature, 1e-9)
	assert.NotEmpty(t, alerts, "magnesium past ignition must alert")

	// Re-adding a reactant re-evaluates at flame temperature.
	resp, err = s.AddChemical(ctx, burner.ID, model.AddChemicalRequest{Name: "Mg", Volume: 1})
	require.NoError(t, err)
	require.NotNil(t, resp.Reaction)
	assert.Equal(t, "mg_combustion", resp.Reaction.ReactionID)
}

func TestToggleHeatOffRestoresBenchTemperature(t *testing.T) {
	s, _ := startedSession(t)
	ctx := context.Background()

	flask, err := s.PlaceEquipment(model.EquipmentFlask, model.Position{})
	require.NoError(t, err)

	eq, _, err := s.ToggleHeat(ctx, flask.ID)
	require.NoError(t, err)
	assert.InDelta(t, 60.0, eq.Temperature, 1e-9, "ambient 20 + heated 40")

	eq, _, err = s.ToggleHeat(ctx, flask.ID)
	require.NoError(t, err)
	assert.InDelta(t, 20.0, eq.Temperature, 1e-9)
}

func TestAddChemicalValidation(t *testing.T) {
	s, _ := startedSession(t)
	ctx := context.Background()

	beaker, err := s.PlaceEquipment(model.EquipmentBeaker, model.Position{})
	require.NoError(t, err)

	_, err = s.AddChemical(ctx, beaker.ID, model.AddChemicalRequest{Name: "", Volume: 5})
	assert.Error(t, err)

	_, err = s.AddChemical(ctx, beaker.ID, model.AddChemicalRequest{Name: "HCl", Volume: 0})
	assert.Error(t, err)

	_, err = s.AddChemical(ctx, beaker.ID, model.AddChemicalRequest{Name: "HCl", Volume: -1})
	assert.Error(t, err)

	_, err = s.AddChemical(ctx, uuid.New(), model.AddChemicalRequest{Name: "HCl", Volume: 5})
	assert.ErrorIs(t, err, ErrEquipmentNotFound)
}

func TestUnknownEquipmentType(t *testing.T) {
	s, _ := startedSession(t)

	_, err := s.PlaceEquipment(model.EquipmentType("cauldron"), model.Position{})
	assert.Error(t, err)
}

func TestAlertsAccumulateAndClear(t *testing.T) {
	s, pub := startedSession(t)
	ctx := context.Background()

	beaker, err := s.PlaceEquipment(model.EquipmentBeaker, model.Position{})
	require.NoError(t, err)

	_, err = s.AddChemical(ctx, beaker.ID, model.AddChemicalRequest{Name: "H₂SO₄", Volume: 5})
	require.NoError(t, err)
	resp, err := s.AddChemical(ctx, beaker.ID, model.AddChemicalRequest{Name: "Ethanol", Volume: 5})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Alerts)

	alerts := s.Alerts()
	require.NotEmpty(t, alerts)
	assert.Equal(t, model.AlertCritical, alerts[0].Level)
	assert.NotEmpty(t, pub.byType("safety_alert"))

	s.ClearAlerts()
	assert.Empty(t, s.Alerts())
}

func TestMixingWithoutReactionMarksProgress(t *testing.T) {
	s, _ := startedSession(t)
	ctx := context.Background()

	beaker, err := s.PlaceEquipment(model.EquipmentBeaker, model.Position{})
	require.NoError(t, err)

	_, err = s.AddChemical(ctx, beaker.ID, model.AddChemicalRequest{Name: "Water", Volume: 5})
	require.NoError(t, err)
	resp, err := s.AddChemical(ctx, beaker.ID, model.AddChemicalRequest{Name: "NaCl", Volume: 5})
	require.NoError(t, err)

	assert.Nil(t, resp.Reaction)
	assert.Equal(t, "Chemical Mixing", resp.Equipment.ReactionType)
	assert.InDelta(t, 0.4, resp.Equipment.ReactionProgress, 1e-9)
}

func TestSaveRecordBuildsExperiment(t *testing.T) {
	s, _ := newTestSession(t)
	ctx := context.Background()

	_, err := s.SaveRecord()
	assert.ErrorIs(t, err, ErrNoActiveExperiment)

	require.NoError(t, s.Start("Morning Lab"))
	beaker, err := s.PlaceEquipment(model.EquipmentBeaker, model.Position{})
	require.NoError(t, err)
	_, err = s.AddChemical(ctx, beaker.ID, model.AddChemicalRequest{Name: "HCl", Volume: 5})
	require.NoError(t, err)
	_, err = s.AddChemical(ctx, beaker.ID, model.AddChemicalRequest{Name: "NaOH", Volume: 5})
	require.NoError(t, err)

	record, err := s.SaveRecord()
	require.NoError(t, err)
	assert.Equal(t, "student-1", record.UserID)
	assert.Equal(t, "Morning Lab", record.Name)
	assert.Equal(t, []string{"HCl", "NaOH"}, record.ChemicalsUsed)
	assert.Equal(t, 100, record.Score)
	assert.Equal(t, 1, record.Results.Reactions)
	assert.Equal(t, 1, record.Results.EquipmentUsed)
	assert.Len(t, record.Results.ReactionsPerformed, 1)
}

func TestDefaultExperimentName(t *testing.T) {
	s, _ := newTestSession(t)
	require.NoError(t, s.Start(""))

	record, err := s.SaveRecord()
	require.NoError(t, err)
	assert.Contains(t, record.Name, "Lab Session")
}

func TestManagerReusesSessions(t *testing.T) {
	eng := engine.New(testutil.TestLogger())
	m := NewManager(eng, nil, nil, testutil.TestLogger())

	a := m.Session("user-a")
	b := m.Session("user-b")
	assert.NotSame(t, a, b)
	assert.Same(t, a, m.Session("user-a"))

	require.NoError(t, a.Start(""))
	active := m.ActiveSessions()
	require.Len(t, active, 1)
	assert.Same(t, a, active[0])
}
