package handlers

import (
	"net/http"
	"time"

	"github.com/palaverhq/palaver/internal/database"
)

type commentView struct {
	ID       int64      `json:"id"`
	PostID   int64      `json:"post_id"`
	UserID   int64      `json:"user_id"`
	Content  string     `json:"content"`
	AddedOn  time.Time  `json:"added_on"`
	EditedOn *time.Time `json:"edited_on,omitempty"`
}

func toCommentView(c *database.Comment) commentView {
	return commentView{
		ID:       c.ID,
		PostID:   c.PostID,
		UserID:   c.UserID,
		Content:  c.Content,
		AddedOn:  c.AddedOn,
		EditedOn: c.EditedOn,
	}
}

type commentCreateRequest struct {
	PostID  int64  `json:"post_id"`
	UserID  int64  `json:"user_id"`
	Content string `json:"content"`
}

type commentUpdateRequest struct {
	Content *string `json:"content"`
}

// ListComments returns all comments that are not soft-deleted.
func (h *Handlers) ListComments(w http.ResponseWriter, r *http.Request) {
	comments, err := h.db.Comments()
	if err != nil {
		h.respondError(w, err)
		return
	}

	views := make([]commentView, 0, len(comments))
	for _, c := range comments {
		views = append(views, toCommentView(c))
	}
	h.respondJSON(w, http.StatusOK, views)
}

// CreateComment creates a comment on a post.
func (h *Handlers) CreateComment(w http.ResponseWriter, r *http.Request) {
	var req commentCreateRequest
	if !h.decode(w, r, &req) {
		return
	}
	if req.Content == "" {
		h.respondJSON(w, http.StatusBadRequest, map[string]string{"error": "content is required"})
		return
	}

	id, err := h.db.AddComment(req.PostID, req.UserID, req.Content)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusCreated, map[string]int64{"id": id})
}

// GetComment returns one comment by id.
func (h *Handlers) GetComment(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id")
	if err != nil {
		h.respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	comment, err := h.db.GetComment(id)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, toCommentView(comment))
}

// ModifyComment edits a comment's content.
func (h *Handlers) ModifyComment(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id")
	if err != nil {
		h.respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	var req commentUpdateRequest
	if !h.decode(w, r, &req) {
		return
	}

	if err := h.db.ModifyComment(id, database.CommentUpdate{Content: req.Content}); err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusNoContent, nil)
}

// RemoveComment soft-deletes a comment.
func (h *Handlers) RemoveComment(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id")
	if err != nil {
		h.respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	if err := h.db.RemoveComment(id); err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusNoContent, nil)
}
