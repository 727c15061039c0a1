package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"example.com/tinysocial/internal/credstore"
	"example.com/tinysocial/internal/models"
)

//
// --- Helpers ---
//

// staticToken is a TokenSource with a fixed value.
type staticToken string

func (s staticToken) Token() string { return string(s) }

func jsonHandler(status int, body any) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(body)
	}
}

func newClient(t *testing.T, handler http.Handler, creds TokenSource) *Client {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)
	return New(ts.URL, creds)
}

//
// --- Login ---
//

// credentials go out form-encoded, the token comes back parsed
func TestLogin_Success(t *testing.T) {
	var gotContentType, gotUsername, gotPassword string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		if err := r.ParseForm(); err != nil {
			t.Errorf("ParseForm failed: %v", err)
		}
		gotUsername = r.PostFormValue("username")
		gotPassword = r.PostFormValue("password")
		jsonHandler(http.StatusOK, models.LoginResponse{AccessToken: "tok-abc", TokenType: "bearer"})(w, r)
	})
	c := newClient(t, handler, staticToken(""))

	resp, err := c.Login(context.Background(), "alice", "secret")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if resp.AccessToken != "tok-abc" {
		t.Fatalf("expected token tok-abc, got %q", resp.AccessToken)
	}
	if !strings.HasPrefix(gotContentType, "application/x-www-form-urlencoded") {
		t.Fatalf("expected form-encoded credentials, got content type %q", gotContentType)
	}
	if gotUsername != "alice" || gotPassword != "secret" {
		t.Fatalf("credentials not transmitted: username=%q password=%q", gotUsername, gotPassword)
	}
}

// a reachable server answering 401 is a BackendError carrying the detail
func TestLogin_InvalidCredentials(t *testing.T) {
	c := newClient(t, jsonHandler(http.StatusUnauthorized,
		map[string]string{"detail": "Invalid username or password"}), staticToken(""))

	_, err := c.Login(context.Background(), "alice", "wrongpass")
	var backendErr *BackendError
	if !errors.As(err, &backendErr) {
		t.Fatalf("expected BackendError, got %T: %v", err, err)
	}
	if backendErr.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", backendErr.StatusCode)
	}
	if !strings.Contains(backendErr.Message, "Invalid username or password") {
		t.Fatalf("expected server detail in message, got %q", backendErr.Message)
	}
}

// a non-JSON reply fails fast with a truncated snippet, never parsed
func TestLogin_NonJSONResponse(t *testing.T) {
	longBody := "<html>" + strings.Repeat("x", 500) + "</html>"
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(longBody))
	})
	c := newClient(t, handler, staticToken(""))

	_, err := c.Login(context.Background(), "alice", "secret")
	var mismatch *ProtocolMismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("expected ProtocolMismatchError, got %T: %v", err, err)
	}
	if mismatch.ContentType != "text/html" {
		t.Fatalf("expected content type text/html, got %q", mismatch.ContentType)
	}
	if len(mismatch.Snippet) > snippetLimit {
		t.Fatalf("snippet not truncated: %d bytes", len(mismatch.Snippet))
	}
	if !strings.HasPrefix(mismatch.Snippet, "<html>") {
		t.Fatalf("snippet should carry the raw body start, got %q", mismatch.Snippet)
	}
}

// an unreachable server is a ConnectivityError, not a BackendError
func TestLogin_ServerUnreachable(t *testing.T) {
	ts := httptest.NewServer(jsonHandler(http.StatusOK, nil))
	ts.Close()
	c := New(ts.URL, staticToken(""))

	_, err := c.Login(context.Background(), "alice", "secret")
	var connErr *ConnectivityError
	if !errors.As(err, &connErr) {
		t.Fatalf("expected ConnectivityError, got %T: %v", err, err)
	}
	var backendErr *BackendError
	if errors.As(err, &backendErr) {
		t.Fatalf("connectivity failure must not match BackendError")
	}
	if !strings.Contains(err.Error(), "backend is running") {
		t.Fatalf("expected guidance in message, got %q", err.Error())
	}
}

//
// --- Post lists ---
//

// replies that are not list-shaped yield an empty list, never an error
func TestPostLists_NormalizeNonList(t *testing.T) {
	bodies := []string{`null`, `{"detail":"weird"}`, `"a string"`, ``}
	for _, body := range bodies {
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(body))
		})
		c := newClient(t, handler, staticToken("tok"))

		posts, err := c.UserPosts(context.Background(), "alice", 10)
		if err != nil {
			t.Fatalf("body %q: expected no error, got %v", body, err)
		}
		if posts == nil || len(posts) != 0 {
			t.Fatalf("body %q: expected empty non-nil slice, got %#v", body, posts)
		}

		feed, err := c.Feed(context.Background(), "alice", 10)
		if err != nil {
			t.Fatalf("body %q: feed expected no error, got %v", body, err)
		}
		if feed == nil || len(feed) != 0 {
			t.Fatalf("body %q: feed expected empty non-nil slice, got %#v", body, feed)
		}
	}
}

func TestPostLists_Decodes(t *testing.T) {
	posts := []models.Post{{PostID: 7, UserID: "bob", Name: "Bob", Title: "Hi", Content: "World"}}
	c := newClient(t, jsonHandler(http.StatusOK, posts), staticToken("tok"))

	got, err := c.Feed(context.Background(), "alice", 10)
	if err != nil {
		t.Fatalf("Feed failed: %v", err)
	}
	if len(got) != 1 || got[0].PostID != 7 || got[0].Title != "Hi" {
		t.Fatalf("unexpected feed: %#v", got)
	}
}

// an error status on a list fetch surfaces the server detail
func TestPostLists_BackendError(t *testing.T) {
	c := newClient(t, jsonHandler(http.StatusNotFound,
		map[string]string{"detail": "USER NOT AVAILABLE"}), staticToken("tok"))

	_, err := c.UserPosts(context.Background(), "ghost", 10)
	var backendErr *BackendError
	if !errors.As(err, &backendErr) {
		t.Fatalf("expected BackendError, got %T: %v", err, err)
	}
	if backendErr.Message != "USER NOT AVAILABLE" {
		t.Fatalf("expected server detail, got %q", backendErr.Message)
	}
}

//
// --- Bearer token handling ---
//

// the token is read from the store at call time, so a swap between calls is
// always picked up
func TestBearerTokenReadPerRequest(t *testing.T) {
	var headers []string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		headers = append(headers, r.Header.Get("Authorization"))
		jsonHandler(http.StatusOK, models.MessageResponse{Message: "POST CREATED SUCCESSFULLY"})(w, r)
	})

	store := credstore.New(t.TempDir())
	c := newClient(t, handler, store)

	if err := store.Save("first", models.User{UserID: "alice", Name: "Alice"}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if _, err := c.CreatePost(context.Background(), "alice", "t", "c", false); err != nil {
		t.Fatalf("CreatePost failed: %v", err)
	}

	if err := store.Save("second", models.User{UserID: "alice", Name: "Alice"}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if _, err := c.CreatePost(context.Background(), "alice", "t", "c", false); err != nil {
		t.Fatalf("CreatePost failed: %v", err)
	}

	if len(headers) != 2 || headers[0] != "Bearer first" || headers[1] != "Bearer second" {
		t.Fatalf("expected fresh token per request, got %v", headers)
	}
}

// an absent token sends an unauthenticated request instead of failing locally
func TestBearerTokenAbsent(t *testing.T) {
	var gotAuth string
	var sawHeader bool
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, sawHeader = r.Header["Authorization"]
		jsonHandler(http.StatusUnauthorized, map[string]string{"detail": "Invalid authentication credentials"})(w, r)
	})
	c := newClient(t, handler, staticToken(""))

	_, err := c.Follow(context.Background(), "alice", "bob")
	var backendErr *BackendError
	if !errors.As(err, &backendErr) {
		t.Fatalf("expected the backend's rejection, got %T: %v", err, err)
	}
	if sawHeader || gotAuth != "" {
		t.Fatalf("expected no Authorization header, got %q", gotAuth)
	}
}

//
// --- Misc ---
//

// the limit travels as a query parameter
func TestLimitQueryParam(t *testing.T) {
	var gotLimit string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotLimit = r.URL.Query().Get("limit")
		jsonHandler(http.StatusOK, []models.Post{})(w, r)
	})
	c := newClient(t, handler, staticToken("tok"))

	if _, err := c.Feed(context.Background(), "alice", 25); err != nil {
		t.Fatalf("Feed failed: %v", err)
	}
	if gotLimit != "25" {
		t.Fatalf("expected limit=25, got %q", gotLimit)
	}
}

// every request carries a correlation ID
func TestRequestIDHeader(t *testing.T) {
	var gotID string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID = r.Header.Get("X-Request-ID")
		jsonHandler(http.StatusOK, models.MessageResponse{Message: "ok"})(w, r)
	})
	c := newClient(t, handler, staticToken("tok"))

	if _, err := c.Register(context.Background(), "alice", "Alice", "p1"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if gotID == "" {
		t.Fatalf("expected X-Request-ID header on outgoing request")
	}
}

// a success status with a malformed JSON body is reported as a backend fault
func TestMalformedSuccessBody(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"message": `))
	})
	c := newClient(t, handler, staticToken("tok"))

	_, err := c.Register(context.Background(), "alice", "Alice", "p1")
	var backendErr *BackendError
	if !errors.As(err, &backendErr) {
		t.Fatalf("expected BackendError for malformed body, got %T: %v", err, err)
	}
}
