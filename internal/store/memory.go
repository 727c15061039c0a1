package store

import (
	"errors"
	"sort"
	"sync"
	"time"

	"example.com/tinysocial/internal/models"
)

// In-memory store behind the stub backend. It reproduces the tables the real
// service keeps (users, posts, follows) just closely enough for the client's
// wire contract to hold.

var (
	ErrUserExists   = errors.New("user already exists")
	ErrUserMissing  = errors.New("user not found")
	ErrPostMissing  = errors.New("post not found")
	ErrFollowExists = errors.New("follow mapping already exists")
)

type userRecord struct {
	Name         string
	PasswordHash []byte
	DateCreated  string
}

type Memory struct {
	mu      sync.RWMutex
	users   map[string]userRecord
	posts   []models.Post
	follows map[string]map[string]bool // followerID -> set of followeeIDs
	nextID  int
}

func NewMemory() *Memory {
	return &Memory{
		users:   make(map[string]userRecord),
		follows: make(map[string]map[string]bool),
		nextID:  1,
	}
}

// CreateUser registers a new account. The password arrives already hashed.
func (m *Memory) CreateUser(userID, name string, passwordHash []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[userID]; ok {
		return ErrUserExists
	}
	m.users[userID] = userRecord{
		Name:         name,
		PasswordHash: passwordHash,
		DateCreated:  time.Now().Format("2006-01-02"),
	}
	return nil
}

// Credentials returns the stored password hash for userID.
func (m *Memory) Credentials(userID string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.users[userID]
	if !ok {
		return nil, false
	}
	return rec.PasswordHash, true
}

func (m *Memory) UserExists(userID string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.users[userID]
	return ok
}

// AddPost stores a post and returns its assigned numeric ID.
func (m *Memory) AddPost(userID, title, content string, shared bool, hashtags []string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.users[userID]
	if !ok {
		return 0, ErrUserMissing
	}

	now := time.Now()
	post := models.Post{
		PostID:   m.nextID,
		UserID:   userID,
		Name:     rec.Name,
		Title:    title,
		Date:     now.Format("2006-01-02"),
		Time:     now.Format("15:04:05"),
		Content:  content,
		Shared:   shared,
		Hashtags: hashtags,
	}
	m.nextID++
	m.posts = append(m.posts, post)
	return post.PostID, nil
}

// Post returns a stored post by ID.
func (m *Memory) Post(postID int) (models.Post, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, p := range m.posts {
		if p.PostID == postID {
			return p, nil
		}
	}
	return models.Post{}, ErrPostMissing
}

// PostsByUser returns userID's own posts, newest first.
func (m *Memory) PostsByUser(userID string, limit int) ([]models.Post, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if _, ok := m.users[userID]; !ok {
		return nil, ErrUserMissing
	}

	var out []models.Post
	for _, p := range m.posts {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return trimNewest(out, limit), nil
}

// Feed returns the posts of everyone userID follows, newest first.
func (m *Memory) Feed(userID string, limit int) ([]models.Post, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if _, ok := m.users[userID]; !ok {
		return nil, ErrUserMissing
	}

	followees := m.follows[userID]
	var out []models.Post
	for _, p := range m.posts {
		if followees[p.UserID] {
			out = append(out, p)
		}
	}
	return trimNewest(out, limit), nil
}

// CreateFollow records followerID following followeeID.
func (m *Memory) CreateFollow(followerID, followeeID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[followerID]; !ok {
		return ErrUserMissing
	}
	if _, ok := m.users[followeeID]; !ok {
		return ErrUserMissing
	}
	if m.follows[followerID][followeeID] {
		return ErrFollowExists
	}
	if m.follows[followerID] == nil {
		m.follows[followerID] = make(map[string]bool)
	}
	m.follows[followerID][followeeID] = true
	return nil
}

// trimNewest sorts newest-first (insertion order is oldest-first, so post IDs
// are a stable proxy for recency) and applies the limit.
func trimNewest(posts []models.Post, limit int) []models.Post {
	sort.Slice(posts, func(i, j int) bool {
		return posts[i].PostID > posts[j].PostID
	})
	if limit > 0 && len(posts) > limit {
		posts = posts[:limit]
	}
	return posts
}
