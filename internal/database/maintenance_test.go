package database

import "testing"

func TestOptimizeAndVacuum(t *testing.T) {
	db := newTestDB(t)

	userID, err := db.AddUser("Ada", "Lovelace", "ada@example.com", "pw")
	if err != nil {
		t.Fatalf("failed to add user: %v", err)
	}
	postID, err := db.AddPost(userID, "Title", "Content", nil, nil)
	if err != nil {
		t.Fatalf("failed to add post: %v", err)
	}
	if err := db.RemovePost(postID); err != nil {
		t.Fatalf("failed to remove post: %v", err)
	}

	if err := db.Optimize(); err != nil {
		t.Errorf("optimize failed: %v", err)
	}
	if err := db.Vacuum(); err != nil {
		t.Errorf("vacuum failed: %v", err)
	}

	// Data survives the rebuild
	if exists, _ := db.UserExists(userID); !exists {
		t.Error("user lost after vacuum")
	}
}
