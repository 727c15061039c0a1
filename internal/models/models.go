package models

// User is the profile persisted alongside the access token. At login it
// echoes the credentials used; the backend never sends a verified profile.
type User struct {
	UserID string `json:"userID"`
	Name   string `json:"name"`
}

// Post mirrors the backend's post output shape. Posts are owned by the
// backend; the client only holds transient copies and re-fetches instead of
// mutating them locally.
type Post struct {
	PostID   int      `json:"postId"`
	UserID   string   `json:"userId"`
	Name     string   `json:"name"`
	Title    string   `json:"title"`
	Date     string   `json:"date"`
	Time     string   `json:"time"`
	Content  string   `json:"content"`
	Shared   bool     `json:"shared"`
	Hashtags []string `json:"hashtags,omitempty"`
}

// --- Request payloads ---

type RegisterRequest struct {
	UserID   string `json:"userID"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

type CreatePostRequest struct {
	UserID  string `json:"userID"`
	Title   string `json:"title"`
	Content string `json:"content"`
	// Hashtag asks the backend to generate hashtags from the content.
	Hashtag bool `json:"hashtag,omitempty"`
	// Hashtags is an explicit list and takes precedence over Hashtag.
	Hashtags []string `json:"hashtags,omitempty"`
}

type FollowRequest struct {
	FollowerID string `json:"followerID"`
	FolloweeID string `json:"followeeID"`
}

type ShareRequest struct {
	UserID string `json:"userID"`
	PostID int    `json:"postID"`
}

// HashtagRequest serves both /hashtags and /translate. The backend expects at
// least one of PostID or Content; the client does not enforce that locally.
type HashtagRequest struct {
	PostID   int    `json:"postID,omitempty"`
	Content  string `json:"content,omitempty"`
	Language string `json:"language,omitempty"`
}

// --- Response payloads ---

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// MessageResponse covers every endpoint that signals success through a
// human-readable message field ("... SUCCESSFULLY" / "... successfully").
type MessageResponse struct {
	Message  string   `json:"message"`
	PostID   int      `json:"postId,omitempty"`
	Hashtags []string `json:"hashtags,omitempty"`
}

type HashtagResponse struct {
	Hashtags []string `json:"hashtags"`
}

type TranslateResponse struct {
	// The backend reuses the hashtags field for the translated text.
	Hashtags string `json:"hashtags"`
}
