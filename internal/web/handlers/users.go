package handlers

import (
	"net/http"
	"time"

	"github.com/palaverhq/palaver/internal/database"
)

// userView is the JSON shape of a user. The stored credential is never
// serialized.
type userView struct {
	ID        int64     `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	Admin     bool      `json:"admin"`
	Bio       *string   `json:"bio,omitempty"`
	AddedOn   time.Time `json:"added_on"`
}

func toUserView(u *database.User) userView {
	return userView{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Admin:     u.Admin,
		Bio:       u.Bio,
		AddedOn:   u.AddedOn,
	}
}

type userUpdateRequest struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Email     *string `json:"email"`
	Password  *string `json:"password"`
	Admin     *bool   `json:"admin"`
	Bio       *string `json:"bio"`
	ClearBio  bool    `json:"clear_bio"`
}

// ListUsers returns all users.
func (h *Handlers) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.db.Users()
	if err != nil {
		h.respondError(w, err)
		return
	}

	views := make([]userView, 0, len(users))
	for _, u := range users {
		views = append(views, toUserView(u))
	}
	h.respondJSON(w, http.StatusOK, views)
}

// GetUser returns one user by id.
func (h *Handlers) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id")
	if err != nil {
		h.respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	user, err := h.db.GetUser(id)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, toUserView(user))
}

// ModifyUser applies a partial update to a user.
func (h *Handlers) ModifyUser(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id")
	if err != nil {
		h.respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	var req userUpdateRequest
	if !h.decode(w, r, &req) {
		return
	}

	err = h.db.ModifyUser(id, database.UserUpdate{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
		Admin:     req.Admin,
		Bio:       req.Bio,
		ClearBio:  req.ClearBio,
	})
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusNoContent, nil)
}

// RemoveUser deletes a user and cascades to everything they own.
func (h *Handlers) RemoveUser(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id")
	if err != nil {
		h.respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	if err := h.db.RemoveUser(id); err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusNoContent, nil)
}
