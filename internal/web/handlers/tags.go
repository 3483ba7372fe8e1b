package handlers

import (
	"net/http"
	"time"

	"github.com/palaverhq/palaver/internal/database"
)

type tagView struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	Colour      string    `json:"colour"`
	AddedOn     time.Time `json:"added_on"`
}

func toTagView(t *database.Tag) tagView {
	return tagView{
		ID:          t.ID,
		Name:        t.Name,
		Description: t.Description,
		Colour:      t.Colour,
		AddedOn:     t.AddedOn,
	}
}

type tagCreateRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Colour      string  `json:"colour"`
}

type tagUpdateRequest struct {
	Name             *string `json:"name"`
	Description      *string `json:"description"`
	ClearDescription bool    `json:"clear_description"`
	Colour           *string `json:"colour"`
}

// ListTags returns all tags.
func (h *Handlers) ListTags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.db.Tags()
	if err != nil {
		h.respondError(w, err)
		return
	}

	views := make([]tagView, 0, len(tags))
	for _, t := range tags {
		views = append(views, toTagView(t))
	}
	h.respondJSON(w, http.StatusOK, views)
}

// CreateTag creates a tag.
func (h *Handlers) CreateTag(w http.ResponseWriter, r *http.Request) {
	var req tagCreateRequest
	if !h.decode(w, r, &req) {
		return
	}
	if req.Name == "" {
		h.respondJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}

	id, err := h.db.AddTag(req.Name, req.Description, req.Colour)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusCreated, map[string]int64{"id": id})
}

// GetTag returns one tag by id.
func (h *Handlers) GetTag(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id")
	if err != nil {
		h.respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	tag, err := h.db.GetTag(id)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, toTagView(tag))
}

// ModifyTag applies a partial update to a tag.
func (h *Handlers) ModifyTag(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id")
	if err != nil {
		h.respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	var req tagUpdateRequest
	if !h.decode(w, r, &req) {
		return
	}

	err = h.db.ModifyTag(id, database.TagUpdate{
		Name:             req.Name,
		Description:      req.Description,
		ClearDescription: req.ClearDescription,
		Colour:           req.Colour,
	})
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusNoContent, nil)
}

// RemoveTag deletes a tag; posts carrying the tag go with it.
func (h *Handlers) RemoveTag(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id")
	if err != nil {
		h.respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	if err := h.db.RemoveTag(id); err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusNoContent, nil)
}
