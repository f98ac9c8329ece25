package main

import (
	"context"
	"log"
	"os"
	"time"

	"circles/internal/database"
	"circles/internal/domain/auth"
)

// Deletes refresh-token rows whose expiry has passed. Meant to run from
// cron; the API never depends on it for correctness since validation
// checks expiry on every call.
func main() {
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	db, err := database.Connect(databaseURL)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}

	repo := auth.NewRefreshTokenRepository(db)
	deleted, err := repo.DeleteExpired(context.Background(), time.Now())
	if err != nil {
		log.Fatalf("cleanup refresh_tokens failed: %v", err)
	}

	log.Printf("token cleanup completed: refresh_tokens=%d", deleted)
}
