// Package backend is an in-process stand-in for the real TinySocial service.
// It reproduces the wire contract the client consumes (routes, payload
// shapes, the bearer-token scheme and the message conventions) backed by an
// in-memory store. It exists for tests and offline development; the real
// backend is external and not part of this repository.
package backend

import (
	"context"
	"net/http"
	"time"

	"example.com/tinysocial/internal/logger"
	"example.com/tinysocial/internal/middleware"
	"example.com/tinysocial/internal/store"
	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/mux"
)

var logg = logger.New()

const tokenTTL = time.Hour

type Server struct {
	store  *store.Memory
	secret []byte
}

// NewServer builds a stub server signing tokens with secret.
func NewServer(st *store.Memory, secret []byte) *Server {
	return &Server{store: st, secret: secret}
}

// Handler returns the full route table. Exposed separately from Run so tests
// can mount it on an httptest server.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/register", s.registerHandler).Methods(http.MethodPost)
	r.HandleFunc("/login", s.loginHandler).Methods(http.MethodPost)
	r.HandleFunc("/posts/{userID}", s.userPostsHandler).Methods(http.MethodGet)

	protected := func(h http.HandlerFunc) http.Handler {
		return middleware.BearerAuth(s.secret, h)
	}
	r.Handle("/posts", protected(s.createPostHandler)).Methods(http.MethodPost)
	r.Handle("/feed/{userID}", protected(s.feedHandler)).Methods(http.MethodGet)
	r.Handle("/follows", protected(s.followHandler)).Methods(http.MethodPost)
	r.Handle("/share", protected(s.shareHandler)).Methods(http.MethodPost)
	r.Handle("/hashtags", protected(s.hashtagsHandler)).Methods(http.MethodPost)
	r.Handle("/translate", protected(s.translateHandler)).Methods(http.MethodPost)

	return r
}

// Run serves the stub backend until ctx is cancelled, then shuts down
// gracefully.
func Run(ctx context.Context, st *store.Memory, secret []byte, addr string) {
	s := NewServer(st, secret)

	srv := &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  10 * time.Second, // prevent slowloris attacks
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		logg.Info("backend", "Stub backend listening on "+addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logg.Error("backend", "Stub backend stopped unexpectedly", err)
		}
	}()

	<-ctx.Done()
	logg.Info("backend", "Shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logg.Error("backend", "Error during stub backend shutdown", err)
	} else {
		logg.Info("backend", "Stub backend stopped gracefully")
	}
}

// mintToken issues the HS256 bearer token the login handler returns. Tests
// use it to forge sessions directly.
func (s *Server) mintToken(userID string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": userID,
		"exp": time.Now().Add(tokenTTL).Unix(),
	})
	return token.SignedString(s.secret)
}
