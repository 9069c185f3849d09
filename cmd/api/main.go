package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"

	"goconcept/adapters/postgres"
	"goconcept/api"
	"goconcept/internal"
	"goconcept/internal/config"
	"goconcept/ports"
)

func main() {
	_ = godotenv.Load()
	logger := internal.NewDefaultLogger()

	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	var repo ports.HypothesisRepository
	if cfg.Database.URL != "" {
		db, err := postgres.Connect(cfg.Database.URL)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		defer db.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := postgres.EnsureSchema(ctx, db); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		repo = postgres.NewHypothesisRepository(db)
		logger.Info("run persistence enabled")
	}

	server := api.NewServer(cfg, repo, logger)
	addr := ":" + cfg.Server.Port
	logger.Info("listening on %s", addr)
	if err := http.ListenAndServe(addr, server.Router()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
