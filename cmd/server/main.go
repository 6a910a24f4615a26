package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/stemsi/academia-backend/internal/config"
	"github.com/stemsi/academia-backend/internal/database"
	"github.com/stemsi/academia-backend/internal/events"
	"github.com/stemsi/academia-backend/internal/handler"
	"github.com/stemsi/academia-backend/internal/logger"
	"github.com/stemsi/academia-backend/internal/metrics"
	"github.com/stemsi/academia-backend/internal/middleware"
	"github.com/stemsi/academia-backend/internal/repository"
	"github.com/stemsi/academia-backend/internal/router"
	"github.com/stemsi/academia-backend/internal/seed"
	"github.com/stemsi/academia-backend/internal/service"
	"github.com/stemsi/academia-backend/internal/validator"
	"github.com/stemsi/academia-backend/internal/worker"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Str("storage", string(cfg.StorageDriver)).
		Str("event_bus", string(cfg.EventBus)).
		Bool("enforce_capacity", cfg.EnforceLectureCapacity).
		Msg("Starting Academia Backend")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Open Storage ──────────────────────────────────────────────────
	backend, err := database.OpenBackend(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open storage")
	}
	defer backend.Close()

	// ─── Initialize Repositories ───────────────────────────────────────
	repos := repository.NewSet(backend)

	// ─── Load Fixtures ─────────────────────────────────────────────────
	if cfg.SeedFixtures {
		seedFixtures(ctx, cfg, backend, repos, log)
	}

	// ─── Event Bus ─────────────────────────────────────────────────────
	var bus events.Bus
	switch cfg.EventBus {
	case config.EventBusRedis:
		rdb, err := database.NewRedisClient(ctx, cfg, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		defer rdb.Close()
		bus = events.NewRedisBus(rdb, log)
	default:
		bus = events.NewMemoryBus(log)
	}
	defer bus.Close()

	m := metrics.New()

	// ─── Initialize Services ──────────────────────────────────────────
	studentService := service.NewStudentService(repos.Students, log)
	professorService := service.NewProfessorService(repos.Professors, log)
	subjectService := service.NewSubjectService(repos.Subjects, repos.Professors, log)
	lectureService := service.NewLectureService(repos, bus, m, cfg.EnforceLectureCapacity, log)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Student:   handler.NewStudentHandler(studentService),
		Professor: handler.NewProfessorHandler(professorService),
		Subject:   handler.NewSubjectHandler(subjectService),
		Lecture:   handler.NewLectureHandler(lectureService),
		WS:        handler.NewWSHandler(bus, lectureService, log, cfg.AllowedOrigins),
	}

	// ─── Start Background Workers ─────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())
	workerDone := make(chan struct{})

	reconcileWorker := worker.NewReconcileWorker(lectureService, cfg.ReconcileInterval, log)
	go func() {
		reconcileWorker.Start(workerCtx)
		close(workerDone)
	}()

	limiter := middleware.NewRateLimiter(workerCtx, cfg.RateLimitPerMinute, time.Minute)

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(handlers, cfg, m, limiter, log)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	// 1. Stop accepting new HTTP requests (5s timeout).
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	// 2. Stop background workers and wait for the final sweep.
	workerCancel()
	select {
	case <-workerDone:
	case <-time.After(10 * time.Second):
		log.Warn().Msg("Reconcile worker did not stop in time")
	}

	log.Info().Msg("Shutdown complete")
}

// seedFixtures loads the fixture file. Persistent backends that already hold
// data are left alone so restarts do not reset edited rows.
func seedFixtures(ctx context.Context, cfg *config.Config, backend *database.Backend, repos *repository.Set, log zerolog.Logger) {
	if backend.Persistent() {
		empty, err := seed.Empty(ctx, repos)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to inspect storage")
		}
		if !empty {
			log.Info().Msg("Storage already populated, skipping fixtures")
			return
		}
	}

	fixtures, err := seed.Load(cfg.FixturesFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load fixtures")
	}
	if err := seed.Apply(ctx, repos, fixtures, log); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply fixtures")
	}
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
