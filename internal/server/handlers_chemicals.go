package server

import (
	"errors"
	"net/http"

	"github.com/sciforge/chemlab/internal/model"
	"github.com/sciforge/chemlab/internal/storage"
)

// HandleCreateChemical handles POST /v1/chemicals (admin only).
func (h *Handlers) HandleCreateChemical(w http.ResponseWriter, r *http.Request) {
	var req model.CreateChemicalRequest
	if err := decodeJSON(w, r, &req, h.maxRequestBodyBytes); err != nil {
		handleDecodeError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidInput, err.Error())
		return
	}

	chem, err := h.db.CreateChemical(r.Context(), req)
	if err != nil {
		if storage.IsUniqueViolation(err) {
			writeError(w, r, http.StatusConflict, model.ErrCodeConflict, "chemical already exists: "+req.Name)
			return
		}
		h.logger.Error("create chemical failed", "error", err,
			"request_id", RequestIDFromContext(r.Context()))
		writeError(w, r, http.StatusInternalServerError, model.ErrCodeInternal, "failed to create chemical")
		return
	}
	writeJSON(w, r, http.StatusCreated, chem)
}

// HandleListChemicals handles GET /v1/chemicals.
// Supports ?category= and ?search= filters.
func (h *Handlers) HandleListChemicals(w http.ResponseWriter, r *http.Request) {
	category := model.ChemicalCategory(r.URL.Query().Get("category"))
	if category != "" && !model.ValidChemicalCategory(category) {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidInput, "unknown category: "+string(category))
		return
	}
	search := r.URL.Query().Get("search")
	limit := queryLimit(r, 100)
	offset := queryOffset(r)

	chems, total, err := h.db.ListChemicals(r.Context(), category, search, limit, offset)
	if err != nil {
		h.logger.Error("list chemicals failed", "error", err,
			"request_id", RequestIDFromContext(r.Context()))
		writeError(w, r, http.StatusInternalServerError, model.ErrCodeInternal, "failed to list chemicals")
		return
	}
	writeList(w, r, chems, total, limit, offset)
}

// HandleGetChemical handles GET /v1/chemicals/{chemical_id}.
func (h *Handlers) HandleGetChemical(w http.ResponseWriter, r *http.Request) {
	id, err := parsePathID(r, "chemical_id")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidInput, "invalid chemical_id")
		return
	}

	chem, err := h.db.GetChemical(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, r, http.StatusNotFound, model.ErrCodeNotFound, "chemical not found")
			return
		}
		h.logger.Error("get chemical failed", "error", err,
			"request_id", RequestIDFromContext(r.Context()))
		writeError(w, r, http.StatusInternalServerError, model.ErrCodeInternal, "failed to get chemical")
		return
	}
	writeJSON(w, r, http.StatusOK, chem)
}
