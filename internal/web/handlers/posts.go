package handlers

import (
	"net/http"
	"time"

	"github.com/palaverhq/palaver/internal/database"
)

type postView struct {
	ID        int64      `json:"id"`
	CreatorID int64      `json:"creator_id"`
	Title     string     `json:"title"`
	Content   string     `json:"content"`
	AddedOn   time.Time  `json:"added_on"`
	ExpiresOn *time.Time `json:"expires_on,omitempty"`
}

func toPostView(p *database.Post) postView {
	return postView{
		ID:        p.ID,
		CreatorID: p.CreatorID,
		Title:     p.Title,
		Content:   p.Content,
		AddedOn:   p.AddedOn,
		ExpiresOn: p.ExpiresOn,
	}
}

type postCreateRequest struct {
	CreatorID int64      `json:"creator_id"`
	Title     string     `json:"title"`
	Content   string     `json:"content"`
	ExpiresOn *time.Time `json:"expires_on"`
	Tags      []int64    `json:"tags"`
}

type postUpdateRequest struct {
	Title          *string    `json:"title"`
	Content        *string    `json:"content"`
	ExpiresOn      *time.Time `json:"expires_on"`
	ClearExpiresOn bool       `json:"clear_expires_on"`
	Tags           []int64    `json:"tags"`
}

type linkTagRequest struct {
	TagID int64 `json:"tag_id"`
}

// ListPosts returns all posts.
func (h *Handlers) ListPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.db.Posts()
	if err != nil {
		h.respondError(w, err)
		return
	}

	views := make([]postView, 0, len(posts))
	for _, p := range posts {
		views = append(views, toPostView(p))
	}
	h.respondJSON(w, http.StatusOK, views)
}

// CreatePost creates a post, optionally tagged on creation.
func (h *Handlers) CreatePost(w http.ResponseWriter, r *http.Request) {
	var req postCreateRequest
	if !h.decode(w, r, &req) {
		return
	}
	if req.Title == "" {
		h.respondJSON(w, http.StatusBadRequest, map[string]string{"error": "title is required"})
		return
	}

	id, err := h.db.AddPost(req.CreatorID, req.Title, req.Content, req.ExpiresOn, req.Tags)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusCreated, map[string]int64{"id": id})
}

// GetPost returns one post by id.
func (h *Handlers) GetPost(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id")
	if err != nil {
		h.respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	post, err := h.db.GetPost(id)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, toPostView(post))
}

// ModifyPost applies a partial update; a tags field replaces the whole
// association set.
func (h *Handlers) ModifyPost(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id")
	if err != nil {
		h.respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	var req postUpdateRequest
	if !h.decode(w, r, &req) {
		return
	}

	err = h.db.ModifyPost(id, database.PostUpdate{
		Title:          req.Title,
		Content:        req.Content,
		ExpiresOn:      req.ExpiresOn,
		ClearExpiresOn: req.ClearExpiresOn,
		Tags:           req.Tags,
	})
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusNoContent, nil)
}

// RemovePost deletes a post and cascades to its comments and associations.
func (h *Handlers) RemovePost(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id")
	if err != nil {
		h.respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	if err := h.db.RemovePost(id); err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusNoContent, nil)
}

// GetPostTags returns the tag ids associated with a post.
func (h *Handlers) GetPostTags(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id")
	if err != nil {
		h.respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	tagIDs, err := h.db.GetPostTags(id)
	if err != nil {
		h.respondError(w, err)
		return
	}
	if tagIDs == nil {
		tagIDs = []int64{}
	}
	h.respondJSON(w, http.StatusOK, tagIDs)
}

// ReplacePostTags swaps a post's association set for the supplied one.
func (h *Handlers) ReplacePostTags(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id")
	if err != nil {
		h.respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	var tagIDs []int64
	if !h.decode(w, r, &tagIDs) {
		return
	}
	if tagIDs == nil {
		tagIDs = []int64{}
	}

	if err := h.db.ModifyPost(id, database.PostUpdate{Tags: tagIDs}); err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusNoContent, nil)
}

// LinkTag associates one tag with a post.
func (h *Handlers) LinkTag(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id")
	if err != nil {
		h.respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	var req linkTagRequest
	if !h.decode(w, r, &req) {
		return
	}

	if err := h.db.LinkTag(id, req.TagID); err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusNoContent, nil)
}

// UnlinkTag removes one tag association from a post.
func (h *Handlers) UnlinkTag(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id")
	if err != nil {
		h.respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}
	tagID, err := urlID(r, "tagID")
	if err != nil {
		h.respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid tag id"})
		return
	}

	if err := h.db.UnlinkTag(id, tagID); err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusNoContent, nil)
}
