package server

import (
	"errors"
	"net/http"

	"github.com/sciforge/chemlab/internal/model"
	"github.com/sciforge/chemlab/internal/storage"
)

// HandleCreateExperiment handles POST /v1/experiments.
func (h *Handlers) HandleCreateExperiment(w http.ResponseWriter, r *http.Request) {
	var req model.CreateExperimentRequest
	if err := decodeJSON(w, r, &req, h.maxRequestBodyBytes); err != nil {
		handleDecodeError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidInput, err.Error())
		return
	}

	exp, err := h.db.CreateExperiment(r.Context(), UserIDFromContext(r.Context()), req)
	if err != nil {
		if storage.IsUniqueViolation(err) {
			writeError(w, r, http.StatusConflict, model.ErrCodeConflict, "experiment already exists: "+req.Name)
			return
		}
		h.logger.Error("create experiment failed", "error", err,
			"request_id", RequestIDFromContext(r.Context()))
		writeError(w, r, http.StatusInternalServerError, model.ErrCodeInternal, "failed to create experiment")
		return
	}
	writeJSON(w, r, http.StatusCreated, exp)
}

// HandleListExperiments handles GET /v1/experiments. Results are scoped to
// the authenticated user.
func (h *Handlers) HandleListExperiments(w http.ResponseWriter, r *http.Request) {
	limit := queryLimit(r, 50)
	offset := queryOffset(r)

	exps, total, err := h.db.ListExperimentsByUser(r.Context(), UserIDFromContext(r.Context()), limit, offset)
	if err != nil {
		h.logger.Error("list experiments failed", "error", err,
			"request_id", RequestIDFromContext(r.Context()))
		writeError(w, r, http.StatusInternalServerError, model.ErrCodeInternal, "failed to list experiments")
		return
	}
	writeList(w, r, exps, total, limit, offset)
}

// HandleGetExperiment handles GET /v1/experiments/{experiment_id}.
func (h *Handlers) HandleGetExperiment(w http.ResponseWriter, r *http.Request) {
	id, err := parsePathID(r, "experiment_id")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidInput, "invalid experiment_id")
		return
	}

	exp, err := h.db.GetExperiment(r.Context(), UserIDFromContext(r.Context()), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, r, http.StatusNotFound, model.ErrCodeNotFound, "experiment not found")
			return
		}
		h.logger.Error("get experiment failed", "error", err,
			"request_id", RequestIDFromContext(r.Context()))
		writeError(w, r, http.StatusInternalServerError, model.ErrCodeInternal, "failed to get experiment")
		return
	}
	writeJSON(w, r, http.StatusOK, exp)
}
