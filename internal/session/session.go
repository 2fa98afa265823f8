// Package session holds the in-memory lab session state: placed equipment,
// detected reactions, safety alerts, and the score ledger, composed with
// the detection engine.
//
// One Session exists per user; the Manager owns the registry. All session
// mutation is serialized behind the session mutex. The engine itself is
// pure, so the session is the single writer of its own state.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sciforge/chemlab/internal/catalog"
	"github.com/sciforge/chemlab/internal/engine"
	"github.com/sciforge/chemlab/internal/model"
	"github.com/sciforge/chemlab/internal/scoring"
)

// Session lifecycle and lookup errors. These are user-input rejections, not
// faults: handlers map them to 4xx responses.
var (
	ErrNoActiveExperiment = errors.New("session: no active experiment")
	ErrExperimentPaused   = errors.New("session: experiment is paused")
	ErrExperimentDone     = errors.New("session: experiment is completed")
	ErrAlreadyActive      = errors.New("session: experiment already active")
	ErrEquipmentNotFound  = errors.New("session: equipment not found")
)

// Event is a session occurrence pushed to the rendering layer.
type Event struct {
	Type      string    `json:"type"` // "reaction" or "safety_alert"
	UserID    string    `json:"user_id"`
	Payload   any       `json:"payload"`
	Timestamp time.Time `json:"timestamp"`
}

// Publisher fans session events out to subscribers. Implementations must
// not block; slow consumers are the publisher's problem.
type Publisher interface {
	Publish(ev Event)
}

// Session is one user's lab bench: equipment, reactions, alerts, score.
type Session struct {
	userID string
	eng    *engine.Engine
	logger *slog.Logger

	// guarded by mu
	mu             sync.Mutex
	status         model.ExperimentStatus
	startedAt      *time.Time
	experimentName string
	equipment      []*model.Equipment
	reactions      []model.ReactionEvent
	alerts         []model.SafetyAlert
	awarded        map[uuid.UUID]map[string]bool // equipment id -> reaction ids already scored
	ledger         *scoring.Ledger

	snapshots *SnapshotStore // nil disables local snapshotting
	publisher Publisher      // nil disables event publishing
}

func newSession(userID string, eng *engine.Engine, snaps *SnapshotStore, pub Publisher, logger *slog.Logger) *Session {
	return &Session{
		userID:    userID,
		eng:       eng,
		logger:    logger,
		status:    model.StatusIdle,
		awarded:   make(map[uuid.UUID]map[string]bool),
		ledger:    scoring.NewLedger(logger),
		snapshots: snaps,
		publisher: pub,
	}
}

// requireActive returns the rejection matching the current status, or nil
// when mutation is allowed.
func (s *Session) requireActive() error {
	switch s.status {
	case model.StatusActive:
		return nil
	case model.StatusPaused:
		return ErrExperimentPaused
	case model.StatusCompleted:
		return ErrExperimentDone
	default:
		return ErrNoActiveExperiment
	}
}

// Start transitions idle -> active and awards the start bonus.
func (s *Session) Start(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status == model.StatusActive || s.status == model.StatusPaused {
		return ErrAlreadyActive
	}
	if s.status == model.StatusCompleted {
		return ErrExperimentDone
	}
	now := time.Now().UTC()
	s.status = model.StatusActive
	s.startedAt = &now
	if name == "" {
		name = fmt.Sprintf("Lab Session %s", now.Format("2006-01-02"))
	}
	s.experimentName = name
	s.ledger.Award(scoring.PointsExperimentStart, "experiment started")
	s.snapshotLocked()
	return nil
}

// Pause transitions active -> paused. Mutating operations are rejected
// while paused; Resume picks the session back up.
func (s *Session) Pause() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requireActive(); err != nil {
		return err
	}
	s.status = model.StatusPaused
	s.snapshotLocked()
	return nil
}

// Resume transitions paused -> active.
func (s *Session) Resume() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status != model.StatusPaused {
		return ErrNoActiveExperiment
	}
	s.status = model.StatusActive
	s.snapshotLocked()
	return nil
}

// Complete transitions active -> completed. Completed sessions accept no
// further mutation until Reset.
func (s *Session) Complete() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requireActive(); err != nil {
		return err
	}
	s.status = model.StatusCompleted
	s.snapshotLocked()
	return nil
}

// Reset clears everything back to idle: equipment, reactions, alerts,
// score, badges. This is the only undo mechanism the lab has.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = model.StatusIdle
	s.startedAt = nil
	s.experimentName = ""
	s.equipment = nil
	s.reactions = nil
	s.alerts = nil
	s.awarded = make(map[uuid.UUID]map[string]bool)
	s.ledger.Reset()
	s.snapshotLocked()
}

// PlaceEquipment puts a new piece of equipment on the workbench.
func (s *Session) PlaceEquipment(equipType model.EquipmentType, pos model.Position) (model.Equipment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requireActive(); err != nil {
		return model.Equipment{}, err
	}
	if !model.ValidEquipmentType(equipType) {
		return model.Equipment{}, fmt.Errorf("session: unknown equipment type %q", equipType)
	}
	eq := &model.Equipment{
		ID:          uuid.New(),
		Type:        equipType,
		Position:    pos,
		Temperature: ambientTemperature,
		PH:          neutralPH,
	}
	s.equipment = append(s.equipment, eq)
	s.ledger.Award(scoring.PointsEquipmentPlaced, "equipment placed")
	s.snapshotLocked()
	return *eq, nil
}

// ToggleHeat flips the heating state of a piece of equipment and recomputes
// its temperature. Re-runs safety checking, since crossing an ignition
// threshold must alert even without a new chemical addition.
func (s *Session) ToggleHeat(ctx context.Context, equipmentID uuid.UUID) (model.Equipment, []model.SafetyAlert, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requireActive(); err != nil {
		return model.Equipment{}, nil, err
	}
	eq := s.findEquipment(equipmentID)
	if eq == nil {
		return model.Equipment{}, nil, ErrEquipmentNotFound
	}
	eq.IsHeated = !eq.IsHeated
	eq.Temperature = equipmentTemperature(eq)

	alerts := s.eng.CheckSafety(ctx, eq.Contents, eq.Temperature)
	s.recordAlertsLocked(alerts)
	s.snapshotLocked()
	return *eq, alerts, nil
}

// AddChemical pours a chemical into a piece of equipment and re-evaluates
// the full content list against the catalog at the equipment's current
// temperature. The addition itself always scores; a reaction scores once
// per (equipment, reaction) pair, so re-detections refresh display state
// but never re-award.
func (s *Session) AddChemical(ctx context.Context, equipmentID uuid.UUID, req model.AddChemicalRequest) (model.AddChemicalResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requireActive(); err != nil {
		return model.AddChemicalResponse{}, err
	}
	if err := model.ValidateChemicalMeasure(req.Name, req.Volume); err != nil {
		return model.AddChemicalResponse{}, fmt.Errorf("session: %w", err)
	}
	eq := s.findEquipment(equipmentID)
	if eq == nil {
		return model.AddChemicalResponse{}, ErrEquipmentNotFound
	}

	eq.Chemicals = append(eq.Chemicals, model.ChemicalMeasure{
		Name:   req.Name,
		Volume: req.Volume,
		Color:  req.Color,
	})
	eq.Contents = append(eq.Contents, req.Name)
	eq.TotalVolume = 0
	for _, m := range eq.Chemicals {
		eq.TotalVolume += m.Volume
	}
	eq.PH = contentsPH(eq.Contents)
	eq.Temperature = equipmentTemperature(eq)

	s.ledger.Award(scoring.PointsChemicalAdded, "chemical added")

	reaction, alerts := s.eng.Perform(ctx, eq.Contents, eq.Temperature, req.Catalyst)
	s.recordAlertsLocked(alerts)

	resp := model.AddChemicalResponse{Alerts: alerts}
	if reaction != nil {
		eq.ReactionType = reaction.Name
		eq.ReactionProgress = reactionProgress
		if ev, ok := s.awardReactionLocked(eq.ID, reaction); ok {
			resp.Reaction = &ev
		}
	} else if len(eq.Contents) >= 2 {
		eq.ReactionType = "Chemical Mixing"
		eq.ReactionProgress = mixingProgress
	}

	resp.Equipment = *eq
	resp.Score = s.ledger.Score()
	s.snapshotLocked()
	return resp, nil
}

// awardReactionLocked records a reaction event and awards points/badge,
// unless this reaction was already awarded for this equipment.
func (s *Session) awardReactionLocked(equipmentID uuid.UUID, r *model.ReactionDefinition) (model.ReactionEvent, bool) {
	byEquip := s.awarded[equipmentID]
	if byEquip == nil {
		byEquip = make(map[string]bool)
		s.awarded[equipmentID] = byEquip
	}
	if byEquip[r.ID] {
		return model.ReactionEvent{}, false
	}
	byEquip[r.ID] = true

	ev := model.ReactionEvent{
		ID:          uuid.New(),
		EquipmentID: equipmentID,
		ReactionID:  r.ID,
		Name:        r.Name,
		Type:        r.Type,
		Energy:      r.Energy,
		Points:      scoring.PointsReaction,
		OccurredAt:  time.Now().UTC(),
	}
	s.reactions = append(s.reactions, ev)
	s.ledger.Award(scoring.PointsReaction, "reaction: "+r.Name)
	s.ledger.AwardBadge(string(r.Type))

	s.logger.Info("session: reaction recorded",
		"user_id", s.userID,
		"reaction_id", r.ID,
		"equipment_id", equipmentID)
	s.publish(Event{Type: "reaction", UserID: s.userID, Payload: ev, Timestamp: ev.OccurredAt})
	return ev, true
}

func (s *Session) recordAlertsLocked(alerts []model.SafetyAlert) {
	if len(alerts) == 0 {
		return
	}
	s.alerts = append(s.alerts, alerts...)
	for _, a := range alerts {
		s.publish(Event{Type: "safety_alert", UserID: s.userID, Payload: a, Timestamp: a.Timestamp})
	}
}

func (s *Session) publish(ev Event) {
	if s.publisher != nil {
		s.publisher.Publish(ev)
	}
}

// Alerts returns the accumulated safety alerts.
func (s *Session) Alerts() []model.SafetyAlert {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.SafetyAlert, len(s.alerts))
	copy(out, s.alerts)
	return out
}

// ClearAlerts removes all accumulated alerts. This is the only removal
// path; nothing expires on its own.
func (s *Session) ClearAlerts() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.alerts = nil
	s.snapshotLocked()
}

// State returns the full session view for the renderer.
func (s *Session) State() model.LabStateResponse {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

func (s *Session) stateLocked() model.LabStateResponse {
	resp := model.LabStateResponse{
		Status:          s.status,
		StartedAt:       s.startedAt,
		Equipment:       make([]model.Equipment, 0, len(s.equipment)),
		Reactions:       append([]model.ReactionEvent(nil), s.reactions...),
		Alerts:          append([]model.SafetyAlert(nil), s.alerts...),
		Score:           s.ledger.Score(),
		Badges:          s.ledger.Badges(),
		AutoSaveEnabled: true,
	}
	for _, eq := range s.equipment {
		resp.Equipment = append(resp.Equipment, *eq)
	}
	return resp
}

// SaveRecord builds the persisted experiment payload from current state.
func (s *Session) SaveRecord() (model.Experiment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status == model.StatusIdle {
		return model.Experiment{}, ErrNoActiveExperiment
	}

	var duration float64
	if s.startedAt != nil {
		duration = time.Since(*s.startedAt).Seconds()
	}
	chemicals := make([]string, 0)
	equipment := make([]model.Equipment, 0, len(s.equipment))
	for _, eq := range s.equipment {
		equipment = append(equipment, *eq)
		chemicals = append(chemicals, eq.Contents...)
	}

	return model.Experiment{
		UserID:        s.userID,
		Name:          s.experimentName,
		ChemicalsUsed: chemicals,
		Results: model.ExperimentResults{
			Reactions:          len(s.reactions),
			EquipmentUsed:      len(equipment),
			ChemicalsMixed:     len(chemicals),
			SessionDuration:    duration,
			EquipmentDetails:   equipment,
			ReactionsPerformed: append([]model.ReactionEvent(nil), s.reactions...),
			Timestamp:          time.Now().UTC(),
		},
		Score: s.ledger.Score(),
	}, nil
}

// Status returns the current lifecycle state.
func (s *Session) Status() model.ExperimentStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

func (s *Session) findEquipment(id uuid.UUID) *model.Equipment {
	for _, eq := range s.equipment {
		if eq.ID == id {
			return eq
		}
	}
	return nil
}

// Derived equipment properties. Constants mirror the lab's display model:
// ambient bench temperature, a burner flame hot enough to ignite magnesium,
// and bounded exothermic warming for everything else.
const (
	ambientTemperature = 20.0
	neutralPH          = 7.0
	heatedBonus        = 40.0
	burnerFlameTemp    = 700.0
	maxBenchTemp       = 120.0
	reactionProgress   = 0.8
	mixingProgress     = 0.4
)

// equipmentTemperature derives the current temperature from heating state
// and contents. Deterministic: same inputs, same temperature.
func equipmentTemperature(eq *model.Equipment) float64 {
	if eq.IsHeated && eq.Type == model.EquipmentBurner {
		return burnerFlameTemp
	}
	temp := ambientTemperature
	if eq.IsHeated {
		temp += heatedBonus
	}
	present := catalog.CanonicalSet(eq.Contents)
	if present["hcl"] && present["naoh"] {
		temp += 30
	}
	if present["h2so4"] {
		temp += 20
	}
	if temp > maxBenchTemp {
		temp = maxBenchTemp
	}
	return temp
}

// contentsPH averages the known pH contributions of the contents; unknown
// chemicals contribute nothing and an empty vessel is neutral.
func contentsPH(contents []string) float64 {
	phByKey := map[string]float64{
		"hcl":   1.0,
		"h2so4": 0.5,
		"naoh":  13.0,
		"cuso4": 4.0,
	}
	total, count := 0.0, 0
	for _, c := range contents {
		if ph, ok := phByKey[catalog.Canonical(c)]; ok {
			total += ph
			count++
		}
	}
	if count == 0 {
		return neutralPH
	}
	return total / float64(count)
}
