package database

import (
	"errors"
	"testing"
)

func TestAddTagRoundTrip(t *testing.T) {
	db := newTestDB(t)

	desc := "the Go programming language"
	id, err := db.AddTag("go", &desc, "#00ADD8")
	if err != nil {
		t.Fatalf("failed to add tag: %v", err)
	}

	tag, err := db.GetTag(id)
	if err != nil {
		t.Fatalf("failed to get tag: %v", err)
	}
	if tag.Name != "go" || tag.Colour != "#00ADD8" {
		t.Errorf("unexpected tag fields: %+v", tag)
	}
	if tag.Description == nil || *tag.Description != desc {
		t.Errorf("description mismatch: %v", tag.Description)
	}

	name, err := db.GetTagName(id)
	if err != nil {
		t.Fatalf("failed to get tag name: %v", err)
	}
	if name != tag.Name {
		t.Errorf("projection mismatch: %q vs %q", name, tag.Name)
	}
}

func TestModifyTag(t *testing.T) {
	db := newTestDB(t)

	desc := "old"
	id, err := db.AddTag("go", &desc, "#00ADD8")
	if err != nil {
		t.Fatalf("failed to add tag: %v", err)
	}

	colour := "#FFFFFF"
	if err := db.ModifyTag(id, TagUpdate{Colour: &colour, ClearDescription: true}); err != nil {
		t.Fatalf("failed to modify tag: %v", err)
	}

	tag, err := db.GetTag(id)
	if err != nil {
		t.Fatalf("failed to get tag: %v", err)
	}
	if tag.Colour != colour {
		t.Errorf("colour not updated: %q", tag.Colour)
	}
	if tag.Description != nil {
		t.Errorf("description not cleared: %q", *tag.Description)
	}
	if tag.Name != "go" {
		t.Errorf("untouched field changed: %q", tag.Name)
	}
}

func TestRemoveTagCascadesToPosts(t *testing.T) {
	db := newTestDB(t)

	creator, err := db.AddUser("Ada", "Lovelace", "ada@example.com", "pw")
	if err != nil {
		t.Fatalf("failed to add user: %v", err)
	}

	tagID, err := db.AddTag("go", nil, "#00ADD8")
	if err != nil {
		t.Fatalf("failed to add tag: %v", err)
	}
	otherTag, err := db.AddTag("sql", nil, "#E38C00")
	if err != nil {
		t.Fatalf("failed to add tag: %v", err)
	}

	tagged, err := db.AddPost(creator, "Tagged", "Content", nil, []int64{tagID, otherTag})
	if err != nil {
		t.Fatalf("failed to add tagged post: %v", err)
	}
	commentID, err := db.AddComment(tagged, creator, "hi")
	if err != nil {
		t.Fatalf("failed to add comment: %v", err)
	}
	untagged, err := db.AddPost(creator, "Untagged", "Content", nil, []int64{otherTag})
	if err != nil {
		t.Fatalf("failed to add untagged post: %v", err)
	}

	if err := db.RemoveTag(tagID); err != nil {
		t.Fatalf("failed to remove tag: %v", err)
	}

	// Tagged posts go with the tag, including their comments and remaining
	// associations; posts without the tag stay
	if exists, _ := db.TagExists(tagID); exists {
		t.Error("tag still exists")
	}
	if exists, _ := db.PostExists(tagged); exists {
		t.Error("tagged post survived tag removal")
	}
	if exists, _ := db.CommentExists(commentID); exists {
		t.Error("comment on tagged post survived tag removal")
	}
	if exists, _ := db.PostExists(untagged); !exists {
		t.Error("untagged post removed")
	}

	pairs, err := db.PostTags()
	if err != nil {
		t.Fatalf("failed to list post tags: %v", err)
	}
	for _, pt := range pairs {
		if pt.TagID == tagID {
			t.Errorf("association row still references removed tag: %+v", pt)
		}
		if pt.PostID == tagged {
			t.Errorf("association row still references removed post: %+v", pt)
		}
	}
}

func TestRemoveTagMissingIsNoOp(t *testing.T) {
	db := newTestDB(t)

	if err := db.RemoveTag(99); err != nil {
		t.Errorf("removing a missing tag should be a no-op, got %v", err)
	}
}

func TestLinkTag(t *testing.T) {
	db := newTestDB(t)

	creator, _ := db.AddUser("Ada", "Lovelace", "ada@example.com", "pw")
	tagID, _ := db.AddTag("go", nil, "#00ADD8")
	postID, err := db.AddPost(creator, "Title", "Content", nil, nil)
	if err != nil {
		t.Fatalf("failed to add post: %v", err)
	}

	if err := db.LinkTag(postID, tagID); err != nil {
		t.Fatalf("failed to link tag: %v", err)
	}
	// Linking the same pair again collapses onto the natural key
	if err := db.LinkTag(postID, tagID); err != nil {
		t.Fatalf("re-linking failed: %v", err)
	}

	pairs, err := db.PostTags()
	if err != nil {
		t.Fatalf("failed to list post tags: %v", err)
	}
	if len(pairs) != 1 {
		t.Errorf("expected exactly one association row, got %d", len(pairs))
	}

	if err := db.UnlinkTag(postID, tagID); err != nil {
		t.Fatalf("failed to unlink tag: %v", err)
	}
	tags, err := db.GetPostTags(postID)
	if err != nil {
		t.Fatalf("failed to get post tags: %v", err)
	}
	if len(tags) != 0 {
		t.Errorf("association survived unlink: %v", tags)
	}

	// Unlinking a missing pair is a no-op
	if err := db.UnlinkTag(postID, tagID); err != nil {
		t.Errorf("unlinking a missing pair should be a no-op, got %v", err)
	}
}

func TestLinkTagUnknownSides(t *testing.T) {
	db := newTestDB(t)

	creator, _ := db.AddUser("Ada", "Lovelace", "ada@example.com", "pw")
	postID, err := db.AddPost(creator, "Title", "Content", nil, nil)
	if err != nil {
		t.Fatalf("failed to add post: %v", err)
	}
	tagID, _ := db.AddTag("go", nil, "#00ADD8")

	if err := db.LinkTag(postID, 999); !errors.Is(err, ErrForeignKey) {
		t.Errorf("expected ErrForeignKey for unknown tag, got %v", err)
	}
	if err := db.LinkTag(999, tagID); !errors.Is(err, ErrForeignKey) {
		t.Errorf("expected ErrForeignKey for unknown post, got %v", err)
	}
}
