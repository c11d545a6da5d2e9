package main

import (
	"context"
	"fmt"
	"time"

	"caro-game/internal/audit"
	"caro-game/internal/config"

	"github.com/rs/zerolog/log"
)

func main() {
	// Load config
	cfg, err := config.Load(config.GetEnv())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	recorder, err := audit.Open(audit.Options{
		Driver:        cfg.DecisionLog.Driver,
		MongoURI:      cfg.DecisionLog.MongoURI,
		MongoDatabase: cfg.DecisionLog.MongoDatabase,
		SQLitePath:    cfg.DecisionLog.SQLitePath,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open decision log")
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		recorder.Close(ctx)
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	deleted, err := recorder.Purge(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to delete decisions")
	}
	fmt.Printf("Deleted %d decisions from the %q decision log\n", deleted, cfg.DecisionLog.Driver)
}
