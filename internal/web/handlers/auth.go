package handlers

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/palaverhq/palaver/internal/database"
)

type registerRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates a new user account. The first account ever registered
// becomes the admin; everyone after that starts as a regular user.
func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !h.decode(w, r, &req) {
		return
	}
	if req.Email == "" || req.Password == "" {
		h.respondJSON(w, http.StatusBadRequest, map[string]string{"error": "email and password are required"})
		return
	}

	firstRun, err := h.db.IsFirstRun()
	if err != nil {
		h.respondError(w, err)
		return
	}

	id, err := h.db.AddUser(req.FirstName, req.LastName, req.Email, req.Password)
	if err != nil {
		h.respondError(w, err)
		return
	}

	if firstRun {
		admin := true
		if err := h.db.ModifyUser(id, database.UserUpdate{Admin: &admin}); err != nil {
			h.respondError(w, err)
			return
		}
		log.Info().Int64("user_id", id).Msg("First registered user promoted to admin")
	}

	h.respondJSON(w, http.StatusCreated, map[string]any{"id": id, "admin": firstRun})
}

// Login verifies a credential pair. The verdict is the whole response;
// session issuance is not part of this service.
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !h.decode(w, r, &req) {
		return
	}

	ok, err := h.db.AttemptLogin(req.Email, req.Password)
	if err != nil {
		h.respondError(w, err)
		return
	}

	if !ok {
		h.respondJSON(w, http.StatusUnauthorized, map[string]bool{"ok": false})
		return
	}

	log.Info().Msg("Login accepted")
	h.respondJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
