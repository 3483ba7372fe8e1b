package database

import (
	"fmt"
)

// PostTag represents one post-to-tag association row. The pair is the
// identity; there is no surrogate id.
type PostTag struct {
	PostID int64
	TagID  int64
}

// LinkTag associates a tag with a post. Linking an already-linked pair is a
// no-op (the association table's natural key absorbs duplicates). Returns
// ErrForeignKey when either side does not exist.
func (db *DB) LinkTag(postID, tagID int64) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	_, err := db.Exec(`
		INSERT INTO PostTags (PostId, TagId) VALUES (?, ?)
		ON CONFLICT (PostId, TagId) DO NOTHING
	`, postID, tagID)
	if err != nil {
		return fmt.Errorf("failed to link tag: %w", classify(err))
	}
	return nil
}

// UnlinkTag removes the association between a post and a tag. Unlinking a
// missing pair is a no-op.
func (db *DB) UnlinkTag(postID, tagID int64) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	_, err := db.Exec("DELETE FROM PostTags WHERE PostId = ? AND TagId = ?", postID, tagID)
	if err != nil {
		return fmt.Errorf("failed to unlink tag: %w", classify(err))
	}
	return nil
}

// GetPostTags returns the ids of the tags associated with a post. Order is
// not significant.
func (db *DB) GetPostTags(postID int64) ([]int64, error) {
	rows, err := db.Query("SELECT TagId FROM PostTags WHERE PostId = ?", postID)
	if err != nil {
		return nil, fmt.Errorf("failed to get post tags: %w", err)
	}
	defer rows.Close()

	var tagIDs []int64
	for rows.Next() {
		var tagID int64
		if err := rows.Scan(&tagID); err != nil {
			return nil, err
		}
		tagIDs = append(tagIDs, tagID)
	}
	return tagIDs, rows.Err()
}

// PostTags returns a snapshot of all association rows.
func (db *DB) PostTags() ([]*PostTag, error) {
	rows, err := db.Query("SELECT PostId, TagId FROM PostTags")
	if err != nil {
		return nil, fmt.Errorf("failed to list post tags: %w", err)
	}
	defer rows.Close()

	var pairs []*PostTag
	for rows.Next() {
		pt := &PostTag{}
		if err := rows.Scan(&pt.PostID, &pt.TagID); err != nil {
			return nil, err
		}
		pairs = append(pairs, pt)
	}
	return pairs, rows.Err()
}
