package web

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/palaverhq/palaver/internal/database"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := database.New(dbPath)
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	ts := httptest.NewServer(NewServer(db, 0, "").Router())
	t.Cleanup(ts.Close)
	return ts
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("failed to marshal body: %v", err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	return resp
}

type registeredUser struct {
	ID    int64 `json:"id"`
	Admin bool  `json:"admin"`
}

func TestRegisterAndLogin(t *testing.T) {
	ts := newTestServer(t)

	resp := postJSON(t, ts.URL+"/api/register", map[string]string{
		"first_name": "Ada",
		"last_name":  "Lovelace",
		"email":      "ada@example.com",
		"password":   "correct horse",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register status = %d, want %d", resp.StatusCode, http.StatusCreated)
	}
	var created registeredUser
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	resp.Body.Close()
	if created.ID == 0 {
		t.Fatal("register returned no id")
	}

	// Duplicate email maps to 409
	resp = postJSON(t, ts.URL+"/api/register", map[string]string{
		"email":    "ada@example.com",
		"password": "other",
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("duplicate register status = %d, want %d", resp.StatusCode, http.StatusConflict)
	}

	resp = postJSON(t, ts.URL+"/api/login", map[string]string{
		"email":    "ada@example.com",
		"password": "correct horse",
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("login status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	resp = postJSON(t, ts.URL+"/api/login", map[string]string{
		"email":    "ada@example.com",
		"password": "wrong",
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("bad login status = %d, want %d", resp.StatusCode, http.StatusUnauthorized)
	}
}

func TestFirstRegisteredUserIsAdmin(t *testing.T) {
	ts := newTestServer(t)

	resp := postJSON(t, ts.URL+"/api/register", map[string]string{
		"email":    "first@example.com",
		"password": "pw",
	})
	var first registeredUser
	if err := json.NewDecoder(resp.Body).Decode(&first); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	resp.Body.Close()
	if !first.Admin {
		t.Error("first registered user should be admin")
	}

	resp = postJSON(t, ts.URL+"/api/register", map[string]string{
		"email":    "second@example.com",
		"password": "pw",
	})
	var second registeredUser
	if err := json.NewDecoder(resp.Body).Decode(&second); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	resp.Body.Close()
	if second.Admin {
		t.Error("second registered user should not be admin")
	}

	// The stored rows match the verdicts
	for _, tc := range []struct {
		id    int64
		admin bool
	}{
		{first.ID, true},
		{second.ID, false},
	} {
		resp, err := http.Get(fmt.Sprintf("%s/api/users/%d", ts.URL, tc.id))
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		var view struct {
			Admin bool `json:"admin"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&view); err != nil {
			t.Fatalf("failed to decode user: %v", err)
		}
		resp.Body.Close()
		if view.Admin != tc.admin {
			t.Errorf("user %d admin = %v, want %v", tc.id, view.Admin, tc.admin)
		}
	}
}

func TestPostLifecycle(t *testing.T) {
	ts := newTestServer(t)

	resp := postJSON(t, ts.URL+"/api/register", map[string]string{
		"email":    "ada@example.com",
		"password": "pw",
	})
	var user registeredUser
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		t.Fatalf("failed to decode user: %v", err)
	}
	resp.Body.Close()

	resp = postJSON(t, ts.URL+"/api/tags", map[string]string{
		"name":   "go",
		"colour": "#00ADD8",
	})
	var tag map[string]int64
	if err := json.NewDecoder(resp.Body).Decode(&tag); err != nil {
		t.Fatalf("failed to decode tag: %v", err)
	}
	resp.Body.Close()

	resp = postJSON(t, ts.URL+"/api/posts", map[string]any{
		"creator_id": user.ID,
		"title":      "Hello",
		"content":    "World",
		"tags":       []int64{tag["id"]},
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create post status = %d, want %d", resp.StatusCode, http.StatusCreated)
	}
	var post map[string]int64
	if err := json.NewDecoder(resp.Body).Decode(&post); err != nil {
		t.Fatalf("failed to decode post: %v", err)
	}
	resp.Body.Close()

	resp, err := http.Get(fmt.Sprintf("%s/api/posts/%d/tags", ts.URL, post["id"]))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	var tagIDs []int64
	if err := json.NewDecoder(resp.Body).Decode(&tagIDs); err != nil {
		t.Fatalf("failed to decode tags: %v", err)
	}
	resp.Body.Close()
	if len(tagIDs) != 1 || tagIDs[0] != tag["id"] {
		t.Errorf("post tags = %v, want [%d]", tagIDs, tag["id"])
	}

	// Unknown creator maps to 422
	resp = postJSON(t, ts.URL+"/api/posts", map[string]any{
		"creator_id": 999,
		"title":      "Orphan",
		"content":    "...",
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("orphan post status = %d, want %d", resp.StatusCode, http.StatusUnprocessableEntity)
	}

	// Missing post maps to 404
	resp, err = http.Get(ts.URL + "/api/posts/999")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("missing post status = %d, want %d", resp.StatusCode, http.StatusNotFound)
	}
}
