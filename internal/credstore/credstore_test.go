package credstore

import (
	"os"
	"path/filepath"
	"testing"

	"example.com/tinysocial/internal/models"
)

// save then load returns exactly what was stored
func TestSaveLoadRoundTrip(t *testing.T) {
	st := New(t.TempDir())

	user := models.User{UserID: "alice", Name: "Alice"}
	if err := st.Save("tok-123", user); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	token, loaded, err := st.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if token != "tok-123" {
		t.Fatalf("expected token tok-123, got %q", token)
	}
	if loaded == nil || *loaded != user {
		t.Fatalf("expected profile %+v, got %+v", user, loaded)
	}
}

// a store that was never written reads as an absent session
func TestLoadEmpty(t *testing.T) {
	st := New(t.TempDir())

	token, user, err := st.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if token != "" || user != nil {
		t.Fatalf("expected absent session, got token=%q user=%+v", token, user)
	}
	if st.Token() != "" {
		t.Fatalf("expected empty token, got %q", st.Token())
	}
}

// clear removes both values and is safe to repeat
func TestClearIdempotent(t *testing.T) {
	st := New(t.TempDir())

	if err := st.Save("tok", models.User{UserID: "alice", Name: "Alice"}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := st.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if err := st.Clear(); err != nil {
		t.Fatalf("second Clear failed: %v", err)
	}

	token, user, err := st.Load()
	if err != nil {
		t.Fatalf("Load after Clear failed: %v", err)
	}
	if token != "" || user != nil {
		t.Fatalf("expected cleared session, got token=%q user=%+v", token, user)
	}
}

// a half-written session must never surface as authenticated state
func TestPartialSessionReadsAsAbsent(t *testing.T) {
	dir := t.TempDir()
	st := New(dir)

	if err := st.Save("tok", models.User{UserID: "alice", Name: "Alice"}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := os.Remove(filepath.Join(dir, "user_data.json")); err != nil {
		t.Fatalf("removing profile file failed: %v", err)
	}

	token, user, err := st.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if token != "" || user != nil {
		t.Fatalf("expected absent session for partial state, got token=%q user=%+v", token, user)
	}
}

// a profile blob in an old shape drops the session instead of failing
func TestCorruptProfileDropsSession(t *testing.T) {
	dir := t.TempDir()
	st := New(dir)

	if err := st.Save("tok", models.User{UserID: "alice", Name: "Alice"}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "user_data.json"), []byte("not json"), 0600); err != nil {
		t.Fatalf("corrupting profile failed: %v", err)
	}

	token, user, err := st.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if token != "" || user != nil {
		t.Fatalf("expected dropped session, got token=%q user=%+v", token, user)
	}
}
