package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/palaverhq/palaver/internal/database"
)

// Handlers contains all HTTP handlers. They are thin translations between
// JSON and the database accessor; no domain logic lives here.
type Handlers struct {
	db *database.DB
}

// New creates a new Handlers instance
func New(db *database.DB) *Handlers {
	return &Handlers{db: db}
}

func (h *Handlers) respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}

// respondError maps accessor errors onto HTTP statuses.
func (h *Handlers) respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, database.ErrNotFound):
		h.respondJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
	case errors.Is(err, database.ErrUniqueConstraint):
		h.respondJSON(w, http.StatusConflict, map[string]string{"error": "already exists"})
	case errors.Is(err, database.ErrForeignKey):
		h.respondJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": "referenced record does not exist"})
	default:
		log.Error().Err(err).Msg("Request failed")
		h.respondJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
	}
}

func (h *Handlers) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		h.respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return false
	}
	return true
}

// urlID parses the {id} (or named) route parameter.
func urlID(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, name), 10, 64)
}
