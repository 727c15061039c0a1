package backend

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"example.com/tinysocial/internal/middleware"
	"example.com/tinysocial/internal/models"
	"example.com/tinysocial/internal/store"
	"github.com/gorilla/mux"
	"golang.org/x/crypto/bcrypt"
)

var userIDPattern = regexp.MustCompile(`^[A-Za-z0-9]+$`)

// writeJSON / writeDetail mirror the real service: success bodies are plain
// JSON objects, failures carry a {"detail": ...} body.
func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

// registerHandler handles POST /register.
// Expects JSON body: {"userID": ..., "name": ..., "password": ...}
func (s *Server) registerHandler(w http.ResponseWriter, r *http.Request) {
	var body models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		logg.Error("backend/register", "Invalid request body", err)
		writeDetail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	defer r.Body.Close()

	if !userIDPattern.MatchString(body.UserID) {
		writeDetail(w, http.StatusBadRequest, "userID must be alphanumeric")
		return
	}
	if len(body.Password) < 4 {
		writeDetail(w, http.StatusBadRequest, "password must be at least 4 characters")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
	if err != nil {
		logg.Error("backend/register", "Failed to hash password", err)
		writeDetail(w, http.StatusInternalServerError, "Failed to register user")
		return
	}

	if err := s.store.CreateUser(body.UserID, body.Name, hash); err != nil {
		if errors.Is(err, store.ErrUserExists) {
			writeDetail(w, http.StatusConflict, "Username already exists")
			return
		}
		logg.Error("backend/register", "Failed to create user", err)
		writeDetail(w, http.StatusInternalServerError, "Failed to register user")
		return
	}

	logg.Info("backend/register", "User registered")
	writeJSON(w, http.StatusCreated, map[string]string{
		"message": fmt.Sprintf("User '%s' registered successfully", body.UserID),
	})
}

// loginHandler handles POST /login. Credentials arrive form-encoded, the
// response is JSON with the bearer token.
func (s *Server) loginHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid form body")
		return
	}
	username := r.PostFormValue("username")
	password := r.PostFormValue("password")

	hash, ok := s.store.Credentials(username)
	if !ok || bcrypt.CompareHashAndPassword(hash, []byte(password)) != nil {
		writeDetail(w, http.StatusUnauthorized, "Invalid username or password")
		return
	}

	token, err := s.mintToken(username)
	if err != nil {
		logg.Error("backend/login", "Failed to sign token", err)
		writeDetail(w, http.StatusInternalServerError, "failed to generate token")
		return
	}

	writeJSON(w, http.StatusOK, models.LoginResponse{
		AccessToken: token,
		TokenType:   "bearer",
	})
}

// createPostHandler handles POST /posts.
func (s *Server) createPostHandler(w http.ResponseWriter, r *http.Request) {
	var body models.CreatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		logg.Error("backend/posts", "Invalid request body", err)
		writeDetail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	defer r.Body.Close()

	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeDetail(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if body.UserID != userID {
		writeDetail(w, http.StatusForbidden, "Cannot create post for another user")
		return
	}

	if len(body.Content) == 0 || len(body.Content) > 280 {
		writeDetail(w, http.StatusBadRequest, "content must be 1-280 characters")
		return
	}
	if len(body.Title) > 50 {
		writeDetail(w, http.StatusBadRequest, "title must be at most 50 characters")
		return
	}

	// Explicit hashtags win over generation.
	hashtags := body.Hashtags
	if hashtags == nil && body.Hashtag {
		hashtags = generateTags(body.Content)
	}

	postID, err := s.store.AddPost(body.UserID, body.Title, body.Content, false, hashtags)
	if err != nil {
		logg.Error("backend/posts", "Failed to create post", err)
		writeDetail(w, http.StatusInternalServerError, "failed to create post")
		return
	}

	logg.Info("backend/posts", "Post created")
	writeJSON(w, http.StatusCreated, models.MessageResponse{
		Message:  "POST CREATED SUCCESSFULLY",
		PostID:   postID,
		Hashtags: hashtags,
	})
}

// userPostsHandler handles GET /posts/{userID}?limit=N. Public.
func (s *Server) userPostsHandler(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userID"]

	posts, err := s.store.PostsByUser(userID, parseLimit(r))
	if err != nil {
		writeDetail(w, http.StatusNotFound, "USER NOT AVAILABLE")
		return
	}
	if posts == nil {
		posts = []models.Post{}
	}
	writeJSON(w, http.StatusOK, posts)
}

// feedHandler handles GET /feed/{userID}?limit=N.
func (s *Server) feedHandler(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userID"]

	current, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeDetail(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if userID != current {
		writeDetail(w, http.StatusForbidden, "Cannot view another user's feed")
		return
	}

	posts, err := s.store.Feed(userID, parseLimit(r))
	if err != nil {
		writeDetail(w, http.StatusNotFound, "USER NOT AVAILABLE")
		return
	}
	if posts == nil {
		posts = []models.Post{}
	}
	writeJSON(w, http.StatusOK, posts)
}

// followHandler handles POST /follows.
func (s *Server) followHandler(w http.ResponseWriter, r *http.Request) {
	var body models.FollowRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		logg.Error("backend/follows", "Invalid request body", err)
		writeDetail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	defer r.Body.Close()

	current, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeDetail(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if body.FollowerID != current {
		writeDetail(w, http.StatusForbidden, "Cannot follow on behalf of another user")
		return
	}

	if err := s.store.CreateFollow(body.FollowerID, body.FolloweeID); err != nil {
		switch {
		case errors.Is(err, store.ErrUserMissing):
			writeDetail(w, http.StatusNotFound,
				fmt.Sprintf("CHECK WHETHER BOTH '%s' AND '%s' ARE IN THE TABLE", body.FollowerID, body.FolloweeID))
		case errors.Is(err, store.ErrFollowExists):
			writeDetail(w, http.StatusConflict, "FOLLOW MAPPING ALREADY EXISTS")
		default:
			logg.Error("backend/follows", "Failed to create follow", err)
			writeDetail(w, http.StatusInternalServerError, "THERE IS SOME ISSUE IN CREATING FOLLOW")
		}
		return
	}

	writeJSON(w, http.StatusCreated, models.MessageResponse{
		Message: fmt.Sprintf("FOLLOW OPERATION DONE SUCCESSFULLY WITH followerID='%s' AND followeeID='%s'",
			body.FollowerID, body.FolloweeID),
	})
}

// shareHandler handles POST /share by copying the post under the sharer's
// name with the shared flag set.
func (s *Server) shareHandler(w http.ResponseWriter, r *http.Request) {
	var body models.ShareRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		logg.Error("backend/share", "Invalid request body", err)
		writeDetail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	defer r.Body.Close()

	current, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeDetail(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if body.UserID != current {
		writeDetail(w, http.StatusForbidden, "Cannot share as another user")
		return
	}

	original, err := s.store.Post(body.PostID)
	if err != nil {
		writeDetail(w, http.StatusNotFound, "PLS ENTER A VALID POST ID")
		return
	}

	newID, err := s.store.AddPost(body.UserID, original.Title, original.Content, true, nil)
	if err != nil {
		logg.Error("backend/share", "Failed to share post", err)
		writeDetail(w, http.StatusInternalServerError, "THERE IS SOME ISSUE IN SHARING THE POST")
		return
	}

	writeJSON(w, http.StatusCreated, models.MessageResponse{
		Message: "POST SHARED SUCCESSFULLY",
		PostID:  newID,
	})
}

// hashtagsHandler handles POST /hashtags.
func (s *Server) hashtagsHandler(w http.ResponseWriter, r *http.Request) {
	content, ok := s.resolveContent(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, models.HashtagResponse{Hashtags: generateTags(content)})
}

// translateHandler handles POST /translate. The stub has no translation
// model; it tags the content with the requested language so round trips stay
// observable.
func (s *Server) translateHandler(w http.ResponseWriter, r *http.Request) {
	var body models.HashtagRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	defer r.Body.Close()

	content, ok := s.lookupContent(w, body)
	if !ok {
		return
	}

	lang := body.Language
	if lang == "" {
		lang = "en"
	}
	writeJSON(w, http.StatusOK, models.TranslateResponse{
		Hashtags: "[" + lang + "] " + content,
	})
}

// resolveContent decodes a HashtagRequest body and resolves the text it
// refers to, writing the error response itself on failure.
func (s *Server) resolveContent(w http.ResponseWriter, r *http.Request) (string, bool) {
	var body models.HashtagRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid request body")
		return "", false
	}
	defer r.Body.Close()
	return s.lookupContent(w, body)
}

func (s *Server) lookupContent(w http.ResponseWriter, body models.HashtagRequest) (string, bool) {
	if body.Content == "" && body.PostID == 0 {
		writeDetail(w, http.StatusBadRequest, "Provide either postID or content")
		return "", false
	}

	content := body.Content
	if body.PostID != 0 {
		post, err := s.store.Post(body.PostID)
		if err != nil {
			writeDetail(w, http.StatusNotFound, "Post not found")
			return "", false
		}
		content = post.Content
	}
	return content, true
}

// generateTags derives short hashtags from the content words. A poor model,
// but deterministic, which is what tests need.
func generateTags(content string) []string {
	seen := make(map[string]bool)
	var tags []string
	for _, word := range strings.Fields(strings.ToLower(content)) {
		word = strings.Trim(word, ".,!?;:'\"()#")
		if len(word) < 4 || seen[word] {
			continue
		}
		seen[word] = true
		tags = append(tags, "#"+word)
		if len(tags) == 4 {
			break
		}
	}
	return tags
}

func parseLimit(r *http.Request) int {
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if l, err := strconv.Atoi(raw); err == nil && l > 0 {
			return l
		}
	}
	return 0
}
