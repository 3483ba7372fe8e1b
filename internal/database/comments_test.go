package database

import (
	"errors"
	"testing"
)

func commentFixture(t *testing.T, db *DB) (userID, postID int64) {
	t.Helper()
	userID = addTestUser(t, db, "ada@example.com")
	postID, err := db.AddPost(userID, "Title", "Content", nil, nil)
	if err != nil {
		t.Fatalf("failed to add post: %v", err)
	}
	return userID, postID
}

func TestAddCommentRoundTrip(t *testing.T) {
	db := newTestDB(t)
	userID, postID := commentFixture(t, db)

	id, err := db.AddComment(postID, userID, "hello")
	if err != nil {
		t.Fatalf("failed to add comment: %v", err)
	}

	comment, err := db.GetComment(id)
	if err != nil {
		t.Fatalf("failed to get comment: %v", err)
	}
	if comment.PostID != postID || comment.UserID != userID || comment.Content != "hello" {
		t.Errorf("unexpected comment fields: %+v", comment)
	}
	if comment.EditedOn != nil || comment.DeletedOn != nil {
		t.Errorf("fresh comment carries edit/delete marks: %+v", comment)
	}
}

func TestAddCommentUnknownReferences(t *testing.T) {
	db := newTestDB(t)
	userID, postID := commentFixture(t, db)

	if _, err := db.AddComment(999, userID, "hi"); !errors.Is(err, ErrForeignKey) {
		t.Errorf("expected ErrForeignKey for unknown post, got %v", err)
	}
	if _, err := db.AddComment(postID, 999, "hi"); !errors.Is(err, ErrForeignKey) {
		t.Errorf("expected ErrForeignKey for unknown user, got %v", err)
	}
}

func TestModifyCommentStampsEditedOn(t *testing.T) {
	db := newTestDB(t)
	userID, postID := commentFixture(t, db)

	id, err := db.AddComment(postID, userID, "hello")
	if err != nil {
		t.Fatalf("failed to add comment: %v", err)
	}

	content := "hello, edited"
	if err := db.ModifyComment(id, CommentUpdate{Content: &content}); err != nil {
		t.Fatalf("failed to modify comment: %v", err)
	}

	comment, err := db.GetComment(id)
	if err != nil {
		t.Fatalf("failed to get comment: %v", err)
	}
	if comment.Content != content {
		t.Errorf("content not updated: %q", comment.Content)
	}
	if comment.EditedOn == nil {
		t.Error("EditedOn not stamped")
	}
}

func TestRemoveCommentIsSoftDelete(t *testing.T) {
	db := newTestDB(t)
	userID, postID := commentFixture(t, db)

	id, err := db.AddComment(postID, userID, "hello")
	if err != nil {
		t.Fatalf("failed to add comment: %v", err)
	}
	keep, err := db.AddComment(postID, userID, "keep me")
	if err != nil {
		t.Fatalf("failed to add comment: %v", err)
	}

	if err := db.RemoveComment(id); err != nil {
		t.Fatalf("failed to remove comment: %v", err)
	}

	if exists, _ := db.CommentExists(id); exists {
		t.Error("soft-deleted comment still reported as existing")
	}
	if _, err := db.GetComment(id); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for soft-deleted comment, got %v", err)
	}

	comments, err := db.Comments()
	if err != nil {
		t.Fatalf("failed to list comments: %v", err)
	}
	if len(comments) != 1 || comments[0].ID != keep {
		t.Errorf("snapshot should hold only the surviving comment, got %+v", comments)
	}

	// The row itself stays in the table with the marker set
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM Comments WHERE Id = ? AND DeletedOn IS NOT NULL", id).Scan(&count); err != nil {
		t.Fatalf("failed to count rows: %v", err)
	}
	if count != 1 {
		t.Error("soft delete removed the physical row")
	}

	// Removing again, or removing a missing id, stays a no-op
	if err := db.RemoveComment(id); err != nil {
		t.Errorf("second remove should be a no-op, got %v", err)
	}
	if err := db.RemoveComment(999); err != nil {
		t.Errorf("removing a missing comment should be a no-op, got %v", err)
	}
}

func TestModifyCommentSoftDeletedIsNoOp(t *testing.T) {
	db := newTestDB(t)
	userID, postID := commentFixture(t, db)

	id, err := db.AddComment(postID, userID, "hello")
	if err != nil {
		t.Fatalf("failed to add comment: %v", err)
	}
	if err := db.RemoveComment(id); err != nil {
		t.Fatalf("failed to remove comment: %v", err)
	}

	content := "resurrected"
	if err := db.ModifyComment(id, CommentUpdate{Content: &content}); err != nil {
		t.Fatalf("modify after soft delete errored: %v", err)
	}

	var stored string
	if err := db.QueryRow("SELECT Content FROM Comments WHERE Id = ?", id).Scan(&stored); err != nil {
		t.Fatalf("failed to read row: %v", err)
	}
	if stored != "hello" {
		t.Errorf("soft-deleted comment was modified: %q", stored)
	}
}
