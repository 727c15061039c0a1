package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"example.com/tinysocial/cmd/app"
	"example.com/tinysocial/internal/api"
	"example.com/tinysocial/internal/backend"
	"example.com/tinysocial/internal/credstore"
	config "example.com/tinysocial/internal/init"
	"example.com/tinysocial/internal/session"
	"example.com/tinysocial/internal/store"
)

func main() {
	// Initialize application configuration
	cfg := config.Init()

	// Setup OS signal handling for graceful shutdown (SIGINT, SIGTERM)
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Run application depending on selected mode
	switch cfg.Mode {
	case "client":
		creds := credstore.New(cfg.CredDir)
		sess := session.New(creds)
		client := api.New(cfg.BaseURL, creds)

		a := app.New(cfg, sess, client, os.Stdin, os.Stdout)
		if err := a.Run(ctx); err != nil {
			log.Fatalf("app stopped: %v", err)
		}
	case "stub":
		secret := cfg.JWTSecret
		if secret == "" {
			log.Fatal("JWT_SECRET is required in stub mode")
		}
		backend.Run(ctx, store.NewMemory(), []byte(secret), cfg.StubAddr)
	default:
		log.Fatalf("unknown mode: %s", cfg.Mode)
	}
}
