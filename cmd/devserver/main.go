package main

import (
	"fmt"
	"os"

	"github.com/pathuGIT/Health-Tracker/internal"
	"github.com/pathuGIT/Health-Tracker/internal/config"
	"github.com/pathuGIT/Health-Tracker/internal/trackertest"
)

// devserver runs the in-process backend stand-in on a real port so the CLI
// can be exercised locally without the production API.
func main() {
	cfg := config.Load()
	logger, err := internal.NewLogger(cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to init logger:", err)
		os.Exit(1)
	}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		if cfg.Env != "development" {
			logger.Fatalf("JWT_SECRET must be set outside development")
		}
		secret = "dev-secret"
	}

	srv := trackertest.New(secret)
	if email := os.Getenv("ADMIN_EMAIL"); email != "" {
		id, err := srv.SeedAdmin("Administrator", email, os.Getenv("ADMIN_PASSWORD"))
		if err != nil {
			logger.Fatalf("failed to seed admin: %v", err)
		}
		logger.Infof("seeded admin %s (id %d)", email, id)
	}

	addr := os.Getenv("DEVSERVER_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	logger.Infof("devserver listening on %s", addr)
	if err := srv.Engine.Run(addr); err != nil {
		logger.Fatalf("devserver failed: %v", err)
	}
}
