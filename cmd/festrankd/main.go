// Command festrankd serves the festival leaderboard over HTTP. It is a
// read-only surface: results are captured elsewhere; festrankd folds
// whatever the stores hold into ranked standings on every request.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/asherv/festrank/infrastructure/middleware"
	"github.com/asherv/festrank/infrastructure/storage/memory"
	"github.com/asherv/festrank/internal/application"
	"github.com/asherv/festrank/internal/domain"
)

// Config is festrankd's process configuration, read from the environment.
type Config struct {
	// Addr is the listen address.
	Addr string `envconfig:"FESTRANK_ADDR" default:":8080"`

	// ConfigFile is an optional engine configuration YAML; empty uses the
	// standard festival marking scheme and chest rules.
	ConfigFile string `envconfig:"FESTRANK_CONFIG"`

	// SeedFile is an optional JSON document seeding the in-memory store.
	SeedFile string `envconfig:"FESTRANK_SEED"`

	// RequestsPerSecond caps the leaderboard endpoint's request rate.
	RequestsPerSecond float64 `envconfig:"FESTRANK_RPS" default:"20"`

	// Burst is the rate limiter's burst allowance.
	Burst int `envconfig:"FESTRANK_BURST" default:"40"`
}

func main() {
	if err := run(); err != nil {
		slog.Error("Error running festrankd", "error", err)
		os.Exit(1)
	}
}

func run() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("Error loading .env file", "error", err)
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return fmt.Errorf("process environment: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	engineCfg := application.DefaultEngineConfig()
	if cfg.ConfigFile != "" {
		loaded, err := application.LoadEngineConfig(cfg.ConfigFile)
		if err != nil {
			return err
		}
		engineCfg = loaded
	}

	metrics := middleware.NewPrometheusMetrics(nil)
	aggregator, err := application.NewAggregatorFromConfig(engineCfg, metrics)
	if err != nil {
		return err
	}

	store := memory.NewStore()
	if cfg.SeedFile != "" {
		if err := store.LoadSeed(cfg.SeedFile); err != nil {
			return err
		}
		logger.Info("seeded store", "file", cfg.SeedFile)
	}

	service, err := application.NewLeaderboardService(store, store, store, aggregator, logger)
	if err != nil {
		return err
	}

	limiter := rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst)

	mux := http.NewServeMux()
	mux.Handle("/api/leaderboard", rateLimited(limiter, leaderboardHandler(service, logger)))
	mux.Handle("/api/teams/{code}", rateLimited(limiter, teamHandler(service, logger)))
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("festrankd listening", "addr", cfg.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Error starting HTTP server", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// leaderboardHandler serves GET /api/leaderboard?category=..., defaulting
// to the arts-total leaderboard.
func leaderboardHandler(service *application.LeaderboardService, logger *slog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		standings, err := service.LeaderboardFor(r.Context(), r.URL.Query().Get("category"))
		if err != nil {
			logger.Error("leaderboard build failed", "error", err)
			http.Error(w, "leaderboard unavailable", http.StatusServiceUnavailable)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(standings); err != nil {
			logger.Error("encode response", "error", err)
		}
	})
}

// teamHandler serves GET /api/teams/{code}?category=..., returning the
// team's row under the requested filter. Teams outside the roster are a
// 404; roster teams with no points get a zeroed row.
func teamHandler(service *application.LeaderboardService, logger *slog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		filter := domain.ParseCategoryFilter(r.URL.Query().Get("category"))
		standing, err := service.TeamStanding(r.Context(), filter, r.PathValue("code"))
		switch {
		case errors.Is(err, domain.ErrUnknownTeam), errors.Is(err, domain.ErrEmptyRoster):
			http.Error(w, "team not found", http.StatusNotFound)
			return
		case err != nil:
			logger.Error("team standing failed", "error", err)
			http.Error(w, "leaderboard unavailable", http.StatusServiceUnavailable)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(standing); err != nil {
			logger.Error("encode response", "error", err)
		}
	})
}

// rateLimited rejects requests above the configured rate with 429.
func rateLimited(limiter *rate.Limiter, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !limiter.Allow() {
			http.Error(w, "too many requests", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}
