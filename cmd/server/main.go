package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"caro-game/internal/agent"
	"caro-game/internal/audit"
	"caro-game/internal/config"
	"caro-game/internal/handlers"
	"caro-game/internal/middleware"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load configuration
	env := config.GetEnv()
	cfg, err := config.Load(env)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	setupLogging(cfg)

	log.Info().Str("environment", cfg.Environment).Msg("starting caro engine server")

	// Open the decision log
	recorder, err := audit.Open(audit.Options{
		Driver:        cfg.DecisionLog.Driver,
		MongoURI:      cfg.DecisionLog.MongoURI,
		MongoDatabase: cfg.DecisionLog.MongoDatabase,
		SQLitePath:    cfg.DecisionLog.SQLitePath,
	})
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.DecisionLog.Driver).Msg("failed to open decision log")
	}
	log.Info().Str("driver", cfg.DecisionLog.Driver).Msg("decision log ready")

	engineOpts := agent.Options{
		MaxDepth:   cfg.Engine.MaxDepth,
		NodeBudget: cfg.Engine.NodeBudget,
		Refine:     !cfg.Engine.DisableRefine,
	}

	limiter := middleware.NewRateLimiter()
	defer limiter.Stop()
	moveLimit := middleware.MoveLimit(cfg.RateLimit.MovesPerMinute)

	// Create handlers
	aiHandler, err := handlers.NewAIHandler(engineOpts, cfg.Engine.ResponseCacheSize, recorder)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create AI handler")
	}
	wsHandler := handlers.NewWebSocketHandler(aiHandler, limiter, moveLimit)

	// Set up router
	router := mux.NewRouter()
	router.Use(middleware.RequestLogger)
	router.Use(middleware.SecurityHeaders())

	// WebSocket route
	router.Handle("/ws/ai", limiter.IPRateLimitMiddleware(middleware.WebSocketUpgradeLimit)(
		http.HandlerFunc(wsHandler.HandleWebSocket))).Methods("GET")

	// API routes
	api := router.PathPrefix("/api/ai").Subrouter()
	api.Handle("/move", limiter.IPRateLimitMiddleware(moveLimit)(http.HandlerFunc(aiHandler.Move))).Methods("POST")
	api.HandleFunc("/difficulties", aiHandler.Difficulties).Methods("GET")
	api.HandleFunc("/decisions", aiHandler.RecentDecisions).Methods("GET")

	// API Documentation
	router.HandleFunc("/api/docs", handlers.ServeAPIDocs).Methods("GET")

	// Health check
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}).Methods("GET")

	// CORS middleware
	corsHandler := cors.New(cors.Options{
		AllowedOrigins: []string{cfg.Frontend.URL},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", middleware.RequestIDHeader},
		ExposedHeaders: []string{middleware.RequestIDHeader, "X-RateLimit-Remaining", "Retry-After"},
	})

	// Ultimate searches can run for several seconds, so writes get more room
	// than reads.
	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      corsHandler.Handler(router),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Shutdown does not touch hijacked connections.
	wsHandler.Hub().CloseAll()
	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server shutdown error")
	}
	if err := recorder.Close(ctx); err != nil {
		log.Error().Err(err).Msg("failed to close decision log")
	}

	log.Info().Msg("server stopped")
}

func setupLogging(cfg *config.Config) {
	level, err := zerolog.ParseLevel(cfg.Log.Level)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339Nano
	if cfg.Log.Pretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
}
