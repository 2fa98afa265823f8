package server

import (
	"errors"
	"net/http"

	"github.com/sciforge/chemlab/internal/model"
	"github.com/sciforge/chemlab/internal/storage"
)

// HandleCreateLesson handles POST /v1/lessons (admin only).
func (h *Handlers) HandleCreateLesson(w http.ResponseWriter, r *http.Request) {
	var req model.CreateLessonRequest
	if err := decodeJSON(w, r, &req, h.maxRequestBodyBytes); err != nil {
		handleDecodeError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidInput, err.Error())
		return
	}

	lesson, err := h.db.CreateLesson(r.Context(), req)
	if err != nil {
		h.logger.Error("create lesson failed", "error", err,
			"request_id", RequestIDFromContext(r.Context()))
		writeError(w, r, http.StatusInternalServerError, model.ErrCodeInternal, "failed to create lesson")
		return
	}
	writeJSON(w, r, http.StatusCreated, lesson)
}

// HandleListLessons handles GET /v1/lessons. Supports a ?subject= filter.
func (h *Handlers) HandleListLessons(w http.ResponseWriter, r *http.Request) {
	subject := r.URL.Query().Get("subject")
	limit := queryLimit(r, 100)
	offset := queryOffset(r)

	lessons, total, err := h.db.ListLessons(r.Context(), subject, limit, offset)
	if err != nil {
		h.logger.Error("list lessons failed", "error", err,
			"request_id", RequestIDFromContext(r.Context()))
		writeError(w, r, http.StatusInternalServerError, model.ErrCodeInternal, "failed to list lessons")
		return
	}
	writeList(w, r, lessons, total, limit, offset)
}

// HandleGetLesson handles GET /v1/lessons/{lesson_id}.
func (h *Handlers) HandleGetLesson(w http.ResponseWriter, r *http.Request) {
	id, err := parsePathID(r, "lesson_id")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidInput, "invalid lesson_id")
		return
	}

	lesson, err := h.db.GetLesson(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, r, http.StatusNotFound, model.ErrCodeNotFound, "lesson not found")
			return
		}
		h.logger.Error("get lesson failed", "error", err,
			"request_id", RequestIDFromContext(r.Context()))
		writeError(w, r, http.StatusInternalServerError, model.ErrCodeInternal, "failed to get lesson")
		return
	}
	writeJSON(w, r, http.StatusOK, lesson)
}
