package database

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// Post represents a forum post stored in the database.
type Post struct {
	ID        int64
	CreatorID int64
	Title     string
	Content   string
	AddedOn   time.Time
	ExpiresOn *time.Time
}

// PostUpdate describes an optional-field update for a post. Nil fields are
// left unchanged. A non-nil Tags slice replaces the post's entire tag
// association set (an empty slice clears it). ClearExpiresOn nulls the
// expiry regardless of ExpiresOn.
type PostUpdate struct {
	Title          *string
	Content        *string
	ExpiresOn      *time.Time
	ClearExpiresOn bool
	Tags           []int64
}

// AddPost inserts a new post and, when tagIDs is non-empty, its tag
// associations in the same transaction. Returns ErrForeignKey when the
// creator or any tag does not exist.
func (db *DB) AddPost(creatorID int64, title, content string, expiresOn *time.Time, tagIDs []int64) (int64, error) {
	var postID int64
	err := db.Transaction(func(tx *sql.Tx) error {
		result, err := tx.Exec(`
			INSERT INTO Posts (CreatorId, Title, Content, AddedOn, ExpiresOn)
			VALUES (?, ?, ?, ?, ?)
		`, creatorID, title, content, time.Now(), ptrToNullTime(expiresOn))
		if err != nil {
			return fmt.Errorf("failed to add post: %w", classify(err))
		}

		postID, err = result.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to get post id: %w", err)
		}

		for _, tagID := range tagIDs {
			if _, err := tx.Exec(`
				INSERT INTO PostTags (PostId, TagId) VALUES (?, ?)
				ON CONFLICT (PostId, TagId) DO NOTHING
			`, postID, tagID); err != nil {
				return fmt.Errorf("failed to tag post: %w", classify(err))
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	log.Info().Int64("post_id", postID).Int64("creator_id", creatorID).Msg("Post added")
	return postID, nil
}

// GetPost retrieves a post by id. Returns ErrNotFound when the row is
// missing.
func (db *DB) GetPost(id int64) (*Post, error) {
	post := &Post{}
	var expires sql.NullTime
	err := db.QueryRow(`
		SELECT Id, CreatorId, Title, Content, AddedOn, ExpiresOn
		FROM Posts WHERE Id = ?
	`, id).Scan(&post.ID, &post.CreatorID, &post.Title, &post.Content, &post.AddedOn, &expires)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("post %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get post: %w", err)
	}
	post.ExpiresOn = nullTimeToPtr(expires)
	return post, nil
}

// GetPostTitle returns just the title column for a post.
func (db *DB) GetPostTitle(id int64) (string, error) {
	var title string
	err := db.QueryRow("SELECT Title FROM Posts WHERE Id = ?", id).Scan(&title)
	if err == sql.ErrNoRows {
		return "", fmt.Errorf("post %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("failed to get post title: %w", err)
	}
	return title, nil
}

// PostExists reports whether a post row exists.
func (db *DB) PostExists(id int64) (bool, error) {
	var one int
	err := db.QueryRow("SELECT 1 FROM Posts WHERE Id = ?", id).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check post: %w", err)
	}
	return true, nil
}

// Posts returns a snapshot of all post rows.
func (db *DB) Posts() ([]*Post, error) {
	rows, err := db.Query(`
		SELECT Id, CreatorId, Title, Content, AddedOn, ExpiresOn
		FROM Posts
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	defer rows.Close()

	var posts []*Post
	for rows.Next() {
		p := &Post{}
		var expires sql.NullTime
		if err := rows.Scan(&p.ID, &p.CreatorID, &p.Title, &p.Content, &p.AddedOn, &expires); err != nil {
			return nil, err
		}
		p.ExpiresOn = nullTimeToPtr(expires)
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// ModifyPost applies the non-nil fields of update to the post row. When
// update.Tags is non-nil the post's tag association set is replaced
// atomically: the column updates, the delete of the old set and the insert
// of the new set all commit or roll back together.
func (db *DB) ModifyPost(id int64, update PostUpdate) error {
	var sets []string
	var args []any

	if update.Title != nil {
		sets = append(sets, "Title = ?")
		args = append(args, *update.Title)
	}
	if update.Content != nil {
		sets = append(sets, "Content = ?")
		args = append(args, *update.Content)
	}
	if update.ClearExpiresOn {
		sets = append(sets, "ExpiresOn = NULL")
	} else if update.ExpiresOn != nil {
		sets = append(sets, "ExpiresOn = ?")
		args = append(args, *update.ExpiresOn)
	}

	if len(sets) == 0 && update.Tags == nil {
		return nil
	}

	return db.Transaction(func(tx *sql.Tx) error {
		if len(sets) > 0 {
			stmtArgs := append(args, id)
			if _, err := tx.Exec("UPDATE Posts SET "+strings.Join(sets, ", ")+" WHERE Id = ?", stmtArgs...); err != nil {
				return fmt.Errorf("failed to modify post: %w", classify(err))
			}
		}

		if update.Tags != nil {
			if _, err := tx.Exec("DELETE FROM PostTags WHERE PostId = ?", id); err != nil {
				return fmt.Errorf("failed to clear post tags: %w", classify(err))
			}
			for _, tagID := range update.Tags {
				if _, err := tx.Exec(`
					INSERT INTO PostTags (PostId, TagId) VALUES (?, ?)
					ON CONFLICT (PostId, TagId) DO NOTHING
				`, id, tagID); err != nil {
					return fmt.Errorf("failed to tag post: %w", classify(err))
				}
			}
		}
		return nil
	})
}

// RemovePost deletes a post together with its comments and tag
// associations. Removing a missing id is a no-op. The fan-out is one
// transaction.
func (db *DB) RemovePost(id int64) error {
	return db.Transaction(func(tx *sql.Tx) error {
		if err := removePosts(tx, []int64{id}); err != nil {
			return err
		}
		log.Info().Int64("post_id", id).Msg("Post removed")
		return nil
	})
}

// removePosts deletes the given posts with their comments and tag
// associations inside an existing transaction. Shared by the post, user and
// tag removal cascades.
func removePosts(tx *sql.Tx, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(ids)), ", ")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	statements := []string{
		"DELETE FROM Comments WHERE PostId IN (" + placeholders + ")",
		"DELETE FROM PostTags WHERE PostId IN (" + placeholders + ")",
		"DELETE FROM Posts WHERE Id IN (" + placeholders + ")",
	}
	for _, stmt := range statements {
		if _, err := tx.Exec(stmt, args...); err != nil {
			return fmt.Errorf("failed to remove posts: %w", classify(err))
		}
	}
	return nil
}
