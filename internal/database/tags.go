package database

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// Tag represents a post tag stored in the database.
type Tag struct {
	ID          int64
	Name        string
	Description *string
	Colour      string
	AddedOn     time.Time
}

// TagUpdate describes an optional-field update for a tag. Nil fields are
// left unchanged. ClearDescription nulls the description regardless of
// Description.
type TagUpdate struct {
	Name             *string
	Description      *string
	ClearDescription bool
	Colour           *string
}

// AddTag inserts a new tag and returns its id.
func (db *DB) AddTag(name string, description *string, colour string) (int64, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	result, err := db.Exec(`
		INSERT INTO Tags (Name, Description, Colour, AddedOn)
		VALUES (?, ?, ?, ?)
	`, name, ptrToNullString(description), colour, time.Now())
	if err != nil {
		return 0, fmt.Errorf("failed to add tag: %w", classify(err))
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get tag id: %w", err)
	}

	log.Info().Int64("tag_id", id).Str("name", name).Msg("Tag added")
	return id, nil
}

// GetTag retrieves a tag by id. Returns ErrNotFound when the row is missing.
func (db *DB) GetTag(id int64) (*Tag, error) {
	tag := &Tag{}
	var desc sql.NullString
	err := db.QueryRow(`
		SELECT Id, Name, Description, Colour, AddedOn
		FROM Tags WHERE Id = ?
	`, id).Scan(&tag.ID, &tag.Name, &desc, &tag.Colour, &tag.AddedOn)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("tag %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get tag: %w", err)
	}
	tag.Description = nullStringToPtr(desc)
	return tag, nil
}

// GetTagName returns just the name column for a tag.
func (db *DB) GetTagName(id int64) (string, error) {
	var name string
	err := db.QueryRow("SELECT Name FROM Tags WHERE Id = ?", id).Scan(&name)
	if err == sql.ErrNoRows {
		return "", fmt.Errorf("tag %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("failed to get tag name: %w", err)
	}
	return name, nil
}

// TagExists reports whether a tag row exists.
func (db *DB) TagExists(id int64) (bool, error) {
	var one int
	err := db.QueryRow("SELECT 1 FROM Tags WHERE Id = ?", id).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check tag: %w", err)
	}
	return true, nil
}

// Tags returns a snapshot of all tag rows.
func (db *DB) Tags() ([]*Tag, error) {
	rows, err := db.Query("SELECT Id, Name, Description, Colour, AddedOn FROM Tags")
	if err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	defer rows.Close()

	var tags []*Tag
	for rows.Next() {
		t := &Tag{}
		var desc sql.NullString
		if err := rows.Scan(&t.ID, &t.Name, &desc, &t.Colour, &t.AddedOn); err != nil {
			return nil, err
		}
		t.Description = nullStringToPtr(desc)
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

// ModifyTag applies the non-nil fields of update to the tag row.
func (db *DB) ModifyTag(id int64, update TagUpdate) error {
	var sets []string
	var args []any

	if update.Name != nil {
		sets = append(sets, "Name = ?")
		args = append(args, *update.Name)
	}
	if update.ClearDescription {
		sets = append(sets, "Description = NULL")
	} else if update.Description != nil {
		sets = append(sets, "Description = ?")
		args = append(args, *update.Description)
	}
	if update.Colour != nil {
		sets = append(sets, "Colour = ?")
		args = append(args, *update.Colour)
	}

	if len(sets) == 0 {
		return nil
	}
	args = append(args, id)

	db.mu.Lock()
	defer db.mu.Unlock()

	_, err := db.Exec("UPDATE Tags SET "+strings.Join(sets, ", ")+" WHERE Id = ?", args...)
	if err != nil {
		return fmt.Errorf("failed to modify tag: %w", classify(err))
	}
	return nil
}

// RemoveTag deletes a tag, its associations, and every post that carried
// the tag (with each post's comments and remaining associations). The
// tag-to-post direction is deliberate: tagged posts do not outlive the tag.
// Removing a missing id is a no-op. The whole fan-out is one transaction.
func (db *DB) RemoveTag(id int64) error {
	return db.Transaction(func(tx *sql.Tx) error {
		rows, err := tx.Query("SELECT PostId FROM PostTags WHERE TagId = ?", id)
		if err != nil {
			return fmt.Errorf("failed to find tagged posts: %w", err)
		}
		var postIDs []int64
		for rows.Next() {
			var postID int64
			if err := rows.Scan(&postID); err != nil {
				rows.Close()
				return err
			}
			postIDs = append(postIDs, postID)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return err
		}

		if err := removePosts(tx, postIDs); err != nil {
			return err
		}

		if _, err := tx.Exec("DELETE FROM Tags WHERE Id = ?", id); err != nil {
			return fmt.Errorf("failed to remove tag: %w", classify(err))
		}

		log.Info().Int64("tag_id", id).Int("posts_removed", len(postIDs)).Msg("Tag removed")
		return nil
	})
}
