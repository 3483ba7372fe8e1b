package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

// Comment represents a comment stored in the database. A non-nil DeletedOn
// marks the row soft-deleted: it stays in the table but is invisible to
// lookups and snapshots.
type Comment struct {
	ID        int64
	PostID    int64
	UserID    int64
	Content   string
	AddedOn   time.Time
	EditedOn  *time.Time
	DeletedOn *time.Time
}

// CommentUpdate describes an optional-field update for a comment. A content
// change stamps EditedOn.
type CommentUpdate struct {
	Content *string
}

// AddComment inserts a new comment and returns its id. Returns ErrForeignKey
// when the post or the user does not exist.
func (db *DB) AddComment(postID, userID int64, content string) (int64, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	result, err := db.Exec(`
		INSERT INTO Comments (PostId, UserId, Content, AddedOn)
		VALUES (?, ?, ?, ?)
	`, postID, userID, content, time.Now())
	if err != nil {
		return 0, fmt.Errorf("failed to add comment: %w", classify(err))
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get comment id: %w", err)
	}

	log.Info().Int64("comment_id", id).Int64("post_id", postID).Msg("Comment added")
	return id, nil
}

// GetComment retrieves a comment by id. Soft-deleted comments are treated
// as missing. Returns ErrNotFound when the row is missing.
func (db *DB) GetComment(id int64) (*Comment, error) {
	comment := &Comment{}
	var edited, deleted sql.NullTime
	err := db.QueryRow(`
		SELECT Id, PostId, UserId, Content, AddedOn, EditedOn, DeletedOn
		FROM Comments WHERE Id = ? AND DeletedOn IS NULL
	`, id).Scan(&comment.ID, &comment.PostID, &comment.UserID, &comment.Content, &comment.AddedOn, &edited, &deleted)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("comment %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get comment: %w", err)
	}
	comment.EditedOn = nullTimeToPtr(edited)
	comment.DeletedOn = nullTimeToPtr(deleted)
	return comment, nil
}

// CommentExists reports whether a comment row exists and is not
// soft-deleted.
func (db *DB) CommentExists(id int64) (bool, error) {
	var one int
	err := db.QueryRow("SELECT 1 FROM Comments WHERE Id = ? AND DeletedOn IS NULL", id).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check comment: %w", err)
	}
	return true, nil
}

// Comments returns a snapshot of all comment rows, excluding soft-deleted
// ones.
func (db *DB) Comments() ([]*Comment, error) {
	rows, err := db.Query(`
		SELECT Id, PostId, UserId, Content, AddedOn, EditedOn, DeletedOn
		FROM Comments WHERE DeletedOn IS NULL
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	defer rows.Close()

	var comments []*Comment
	for rows.Next() {
		c := &Comment{}
		var edited, deleted sql.NullTime
		if err := rows.Scan(&c.ID, &c.PostID, &c.UserID, &c.Content, &c.AddedOn, &edited, &deleted); err != nil {
			return nil, err
		}
		c.EditedOn = nullTimeToPtr(edited)
		c.DeletedOn = nullTimeToPtr(deleted)
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

// ModifyComment applies the non-nil fields of update to the comment row and
// stamps EditedOn. Soft-deleted comments cannot be modified.
func (db *DB) ModifyComment(id int64, update CommentUpdate) error {
	if update.Content == nil {
		return nil
	}

	db.mu.Lock()
	defer db.mu.Unlock()

	_, err := db.Exec(`
		UPDATE Comments SET Content = ?, EditedOn = ?
		WHERE Id = ? AND DeletedOn IS NULL
	`, *update.Content, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to modify comment: %w", classify(err))
	}
	return nil
}

// RemoveComment soft-deletes a comment by stamping DeletedOn. The row is
// kept; lookups and snapshots skip it. Removal cascades triggered through
// posts, tags or users delete comment rows outright. Removing a missing or
// already-deleted id is a no-op.
func (db *DB) RemoveComment(id int64) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	_, err := db.Exec(`
		UPDATE Comments SET DeletedOn = ?
		WHERE Id = ? AND DeletedOn IS NULL
	`, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to remove comment: %w", classify(err))
	}

	log.Info().Int64("comment_id", id).Msg("Comment removed")
	return nil
}
