package main

import (
	"context"
	"log"
	"os"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/openfairway/niner-league/internal/infrastructure/repository/memory"
	"github.com/openfairway/niner-league/internal/infrastructure/store/postgres"
	"github.com/openfairway/niner-league/internal/platform/logging"
)

// Seeds the founding commissioner roster into Postgres. Safe to run more
// than once, the writes are upserts.
func main() {
	_ = godotenv.Load()

	dbURL := strings.TrimSpace(os.Getenv("DB_URL"))
	if dbURL == "" {
		log.Fatal("DB_URL is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := sqlx.ConnectContext(ctx, "postgres", dbURL)
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}

	remote := postgres.NewStore(db, dbURL, logging.NewNop())
	defer func() {
		if err := remote.Close(); err != nil {
			log.Printf("close store: %v", err)
		}
	}()

	for _, p := range memory.SeedPlayers() {
		if err := remote.UpsertPlayer(ctx, p); err != nil {
			log.Fatalf("seed player %s: %v", p.ID, err)
		}
		log.Printf("seeded player %s (%s)", p.Username, p.ID)
	}
}
