package server

import (
	"errors"
	"net/http"

	"github.com/sciforge/chemlab/internal/model"
	"github.com/sciforge/chemlab/internal/session"
)

// labSession resolves the session for the authenticated user.
func (h *Handlers) labSession(r *http.Request) *session.Session {
	return h.sessions.Session(UserIDFromContext(r.Context()))
}

// writeSessionError maps session lifecycle and lookup errors to API errors.
// Lifecycle rejections are conflicts with the current state, not faults.
func writeSessionError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, session.ErrEquipmentNotFound):
		writeError(w, r, http.StatusNotFound, model.ErrCodeNotFound, "equipment not found")
	case errors.Is(err, session.ErrNoActiveExperiment),
		errors.Is(err, session.ErrExperimentPaused),
		errors.Is(err, session.ErrExperimentDone),
		errors.Is(err, session.ErrAlreadyActive):
		writeError(w, r, http.StatusConflict, model.ErrCodeConflict, err.Error())
	default:
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidInput, err.Error())
	}
}

// StartLabRequest is the payload for POST /v1/lab/start.
type StartLabRequest struct {
	Name string `json:"name,omitempty"`
}

// HandleLabStart handles POST /v1/lab/start.
func (h *Handlers) HandleLabStart(w http.ResponseWriter, r *http.Request) {
	var req StartLabRequest
	if r.ContentLength > 0 {
		if err := decodeJSON(w, r, &req, h.maxRequestBodyBytes); err != nil {
			handleDecodeError(w, r, err)
			return
		}
	}

	sess := h.labSession(r)
	if err := sess.Start(req.Name); err != nil {
		writeSessionError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, sess.State())
}

// HandleLabPause handles POST /v1/lab/pause.
func (h *Handlers) HandleLabPause(w http.ResponseWriter, r *http.Request) {
	sess := h.labSession(r)
	if err := sess.Pause(); err != nil {
		writeSessionError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, sess.State())
}

// HandleLabResume handles POST /v1/lab/resume.
func (h *Handlers) HandleLabResume(w http.ResponseWriter, r *http.Request) {
	sess := h.labSession(r)
	if err := sess.Resume(); err != nil {
		writeSessionError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, sess.State())
}

// HandleLabComplete handles POST /v1/lab/complete.
func (h *Handlers) HandleLabComplete(w http.ResponseWriter, r *http.Request) {
	sess := h.labSession(r)
	if err := sess.Complete(); err != nil {
		writeSessionError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, sess.State())
}

// HandleLabReset handles POST /v1/lab/reset.
func (h *Handlers) HandleLabReset(w http.ResponseWriter, r *http.Request) {
	sess := h.labSession(r)
	sess.Reset()
	writeJSON(w, r, http.StatusOK, sess.State())
}

// HandleLabState handles GET /v1/lab/state.
func (h *Handlers) HandleLabState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, h.labSession(r).State())
}

// HandlePlaceEquipment handles POST /v1/lab/equipment.
func (h *Handlers) HandlePlaceEquipment(w http.ResponseWriter, r *http.Request) {
	var req model.PlaceEquipmentRequest
	if err := decodeJSON(w, r, &req, h.maxRequestBodyBytes); err != nil {
		handleDecodeError(w, r, err)
		return
	}

	eq, err := h.labSession(r).PlaceEquipment(req.Type, req.Position)
	if err != nil {
		writeSessionError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, eq)
}

// HandleAddChemical handles POST /v1/lab/equipment/{equipment_id}/chemicals.
func (h *Handlers) HandleAddChemical(w http.ResponseWriter, r *http.Request) {
	equipmentID, err := parsePathID(r, "equipment_id")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidInput, "invalid equipment_id")
		return
	}

	var req model.AddChemicalRequest
	if err := decodeJSON(w, r, &req, h.maxRequestBodyBytes); err != nil {
		handleDecodeError(w, r, err)
		return
	}

	resp, err := h.labSession(r).AddChemical(r.Context(), equipmentID, req)
	if err != nil {
		writeSessionError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, resp)
}

// ToggleHeatResponse reports the equipment state after a heat toggle.
type ToggleHeatResponse struct {
	Equipment model.Equipment     `json:"equipment"`
	Alerts    []model.SafetyAlert `json:"alerts,omitempty"`
}

// HandleToggleHeat handles POST /v1/lab/equipment/{equipment_id}/heat.
func (h *Handlers) HandleToggleHeat(w http.ResponseWriter, r *http.Request) {
	equipmentID, err := parsePathID(r, "equipment_id")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidInput, "invalid equipment_id")
		return
	}

	eq, alerts, err := h.labSession(r).ToggleHeat(r.Context(), equipmentID)
	if err != nil {
		writeSessionError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, ToggleHeatResponse{Equipment: eq, Alerts: alerts})
}

// HandleListAlerts handles GET /v1/lab/alerts.
func (h *Handlers) HandleListAlerts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, h.labSession(r).Alerts())
}

// HandleClearAlerts handles DELETE /v1/lab/alerts.
func (h *Handlers) HandleClearAlerts(w http.ResponseWriter, r *http.Request) {
	h.labSession(r).ClearAlerts()
	w.WriteHeader(http.StatusNoContent)
}

// HandleLabSave handles POST /v1/lab/save. A storage failure surfaces as an
// API error but never touches in-memory session state; the bench keeps
// working offline.
func (h *Handlers) HandleLabSave(w http.ResponseWriter, r *http.Request) {
	sess := h.labSession(r)
	record, err := sess.SaveRecord()
	if err != nil {
		writeSessionError(w, r, err)
		return
	}

	if err := h.db.SaveSession(r.Context(), record); err != nil {
		h.logger.Error("lab save failed",
			"user_id", record.UserID,
			"experiment_name", record.Name,
			"error", err,
			"request_id", RequestIDFromContext(r.Context()))
		writeError(w, r, http.StatusBadGateway, model.ErrCodeSaveFailed, "failed to save experiment")
		return
	}
	writeJSON(w, r, http.StatusOK, record)
}

// HandleLabEvents handles GET /v1/lab/events. Upgrades to a websocket and
// streams reaction and safety alert events for the authenticated user.
func (h *Handlers) HandleLabEvents(w http.ResponseWriter, r *http.Request) {
	if h.broker == nil {
		writeError(w, r, http.StatusServiceUnavailable, model.ErrCodeInternal, "event stream not available")
		return
	}
	h.broker.ServeWS(w, r, UserIDFromContext(r.Context()))
}
