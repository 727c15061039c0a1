package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"example.com/tinysocial/internal/logger"
	"example.com/tinysocial/internal/models"
	"github.com/google/uuid"
)

var logg = logger.New()

// snippetLimit caps how much of a non-JSON body is carried in a
// ProtocolMismatchError.
const snippetLimit = 200

// TokenSource yields the current bearer token, empty when no session exists.
// The credential store satisfies this.
type TokenSource interface {
	Token() string
}

// Client is the single choke point for every backend interaction. It holds no
// session state of its own: the bearer token is re-read from the token source
// immediately before each authenticated request, so a token swapped by a
// logout/login in between is always the one sent.
//
// Each call is attempted exactly once. There are no retries, timeouts or
// backoff anywhere in the client; failures are reported to the caller as one
// of BackendError, ProtocolMismatchError or ConnectivityError.
type Client struct {
	baseURL string
	http    *http.Client
	creds   TokenSource
}

// New creates a client for the backend at baseURL.
func New(baseURL string, creds TokenSource) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
		creds:   creds,
	}
}

// BaseURL reports the configured backend address, shown by the login view.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// --- Authentication ---

// Register creates a new account. Unauthenticated.
func (c *Client) Register(ctx context.Context, userID, name, password string) (*models.MessageResponse, error) {
	var out models.MessageResponse
	err := c.postJSON(ctx, "/register", models.RegisterRequest{
		UserID:   userID,
		Name:     name,
		Password: password,
	}, false, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Login exchanges credentials for a bearer token. The backend expects
// form-encoded credentials, not JSON, but must answer with JSON: a response
// declaring any other content type fails fast with ProtocolMismatchError and
// its body is never parsed.
func (c *Client) Login(ctx context.Context, username, password string) (*models.LoginResponse, error) {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/login", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("build login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := c.send(req, "/login")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); !isJSON(ct) {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, snippetLimit))
		return nil, &ProtocolMismatchError{ContentType: ct, Snippet: string(raw)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ConnectivityError{Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, backendError(resp.StatusCode, body)
	}

	var out models.LoginResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, &BackendError{StatusCode: resp.StatusCode, Message: "malformed JSON body"}
	}
	return &out, nil
}

// --- Posts ---

// CreatePost publishes a post as userID. autoHashtag asks the backend to
// generate hashtags from the content.
func (c *Client) CreatePost(ctx context.Context, userID, title, content string, autoHashtag bool) (*models.MessageResponse, error) {
	var out models.MessageResponse
	err := c.postJSON(ctx, "/posts", models.CreatePostRequest{
		UserID:  userID,
		Title:   title,
		Content: content,
		Hashtag: autoHashtag,
	}, true, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// UserPosts returns userID's own posts, newest first. Unauthenticated.
func (c *Client) UserPosts(ctx context.Context, userID string, limit int) ([]models.Post, error) {
	return c.getPosts(ctx, "/posts/"+url.PathEscape(userID), limit, false)
}

// Feed returns the posts of everyone userID follows, newest first.
func (c *Client) Feed(ctx context.Context, userID string, limit int) ([]models.Post, error) {
	return c.getPosts(ctx, "/feed/"+url.PathEscape(userID), limit, true)
}

// --- Social actions ---

// Follow makes followerID follow followeeID.
func (c *Client) Follow(ctx context.Context, followerID, followeeID string) (*models.MessageResponse, error) {
	var out models.MessageResponse
	err := c.postJSON(ctx, "/follows", models.FollowRequest{
		FollowerID: followerID,
		FolloweeID: followeeID,
	}, true, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Share re-posts postID under userID's name.
func (c *Client) Share(ctx context.Context, userID string, postID int) (*models.MessageResponse, error) {
	var out models.MessageResponse
	err := c.postJSON(ctx, "/share", models.ShareRequest{
		UserID: userID,
		PostID: postID,
	}, true, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Hashtags asks the backend to generate hashtags for a stored post or for raw
// content. The backend expects at least one of the two; invalid combinations
// are left for it to reject.
func (c *Client) Hashtags(ctx context.Context, req models.HashtagRequest) (*models.HashtagResponse, error) {
	var out models.HashtagResponse
	if err := c.postJSON(ctx, "/hashtags", req, true, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Translate asks the backend to translate a stored post or raw content into
// req.Language.
func (c *Client) Translate(ctx context.Context, req models.HashtagRequest) (*models.TranslateResponse, error) {
	var out models.TranslateResponse
	if err := c.postJSON(ctx, "/translate", req, true, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// --- Request plumbing ---

// send issues a request exactly once, tagging it with a request ID for log
// correlation. Transport-level failures become ConnectivityError.
func (c *Client) send(req *http.Request, path string) (*http.Response, error) {
	reqID := uuid.NewString()
	req.Header.Set("X-Request-ID", reqID)

	logg.Request("api", reqID, req.Method+" "+path)
	resp, err := c.http.Do(req)
	if err != nil {
		logg.RequestError("api", reqID, "request failed: "+path, err)
		return nil, &ConnectivityError{Err: err}
	}
	return resp, nil
}

// postJSON sends a JSON body and decodes a JSON reply into out. When authed
// is true the current bearer token is attached if one exists; an absent token
// simply produces an unauthenticated request and the backend rejects it.
func (c *Client) postJSON(ctx context.Context, path string, body any, authed bool, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if authed {
		c.attachToken(req)
	}

	resp, err := c.send(req, path)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &ConnectivityError{Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return backendError(resp.StatusCode, raw)
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return &BackendError{StatusCode: resp.StatusCode, Message: "malformed JSON body"}
	}
	return nil
}

// getPosts fetches a post list. Replies that are not list-shaped (null, an
// object, a string) yield an empty non-nil slice so rendering code never
// needs an absence check.
func (c *Client) getPosts(ctx context.Context, path string, limit int, authed bool) ([]models.Post, error) {
	u := c.baseURL + path
	if limit > 0 {
		u += "?limit=" + strconv.Itoa(limit)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if authed {
		c.attachToken(req)
	}

	resp, err := c.send(req, path)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ConnectivityError{Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, backendError(resp.StatusCode, raw)
	}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return []models.Post{}, nil
	}

	var posts []models.Post
	if err := json.Unmarshal(trimmed, &posts); err != nil {
		return []models.Post{}, nil
	}
	if posts == nil {
		posts = []models.Post{}
	}
	return posts, nil
}

// attachToken reads the store at call time, never a cached value, so the
// latest token is used even if it changed since the client was built.
func (c *Client) attachToken(req *http.Request) {
	if token := c.creds.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

// backendError extracts the server-supplied message from an error body. The
// backend reports failures under "detail"; "message" is a fallback.
func backendError(status int, raw []byte) *BackendError {
	var body struct {
		Detail  string `json:"detail"`
		Message string `json:"message"`
	}
	msg := "Unknown error"
	if err := json.Unmarshal(raw, &body); err == nil {
		switch {
		case body.Detail != "":
			msg = body.Detail
		case body.Message != "":
			msg = body.Message
		}
	}
	return &BackendError{StatusCode: status, Message: msg}
}

func isJSON(contentType string) bool {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mt == "application/json" || strings.HasSuffix(mt, "+json")
}
