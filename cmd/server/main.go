package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/vytor/codetrail/internal/api"
	"github.com/vytor/codetrail/internal/challenge"
	"github.com/vytor/codetrail/internal/config"
	"github.com/vytor/codetrail/internal/content"
	"github.com/vytor/codetrail/internal/db"
	"github.com/vytor/codetrail/internal/jobs"
	"github.com/vytor/codetrail/internal/logger"
	"github.com/vytor/codetrail/internal/progress"
	"github.com/vytor/codetrail/internal/repository/sqlite"
	"github.com/vytor/codetrail/internal/services"
	"github.com/vytor/codetrail/internal/worker"
)

func main() {
	cfg := config.Load()

	// Initialize logger
	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(true),
	)
	logger.SetDefault(log)

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration: %v", err)
		os.Exit(1)
	}

	log.Info("===========================================")
	log.Info("CodeTrail Server Starting")
	log.Info("===========================================")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("log_level=%s", cfg.LogLevel)
	log.Debug("content_dir=%s", cfg.ContentDir)
	log.Debug("rotation_start=%s", cfg.RotationStart)
	log.Debug("timezone=%s", cfg.Timezone)
	log.Debug("sync_worker_count=%d", cfg.SyncWorkerCount)
	log.Debug("sync_queue_size=%d", cfg.SyncQueueSize)
	log.Debug("redis_addr=%s", cfg.RedisAddr)

	start, _ := cfg.RotationStartDate()
	loc, _ := cfg.Location()

	// Load content
	registry := content.NewRegistry(content.NewLoader(cfg.ContentDir))
	if err := registry.Load(); err != nil {
		log.Error("failed to load content: %v", err)
		os.Exit(1)
	}
	entries, version := registry.Rotation()
	rotator, err := challenge.NewRotator(start, entries)
	if err != nil {
		log.Error("failed to build challenge rotation %q: %v", version, err)
		os.Exit(1)
	}

	// Open database
	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Error("failed to open database: %v", err)
		os.Exit(1)
	}
	defer func() {
		log.Debug("closing database connection")
		database.Close()
	}()

	attemptRepo := sqlite.NewAttemptRepository(database.DB)
	progressRepo := sqlite.NewProgressRepository(database.DB)
	streakRepo := sqlite.NewStreakRepository(database.DB)

	// Persistence sinks
	sinks := jobs.MultiSink{&jobs.RepositorySink{
		Attempts: attemptRepo,
		Progress: progressRepo,
		Streaks:  streakRepo,
	}}
	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:        cfg.RedisAddr,
			DialTimeout: 5 * time.Second,
		})
		pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			// sqlite stays authoritative; stream writes fail per record until redis answers.
			log.Warn("redis ping failed: %v", err)
		}
		pingCancel()
		sinks = append(sinks, jobs.NewRedisSink(rdb, cfg.RedisStream))
		log.Info("publishing records to redis stream %s", cfg.RedisStream)
	}

	syncPool := worker.NewPool(cfg.SyncWorkerCount, cfg.SyncQueueSize)
	ledger := progress.NewLedger(jobs.NewQueueSink(syncPool, sinks))
	hydrator := services.NewHydrator(ledger, attemptRepo, streakRepo)

	srv := &api.Server{
		ExerciseService:  services.NewExerciseService(registry, ledger, hydrator, cfg.ShuffleSeed),
		ChallengeService: services.NewChallengeService(rotator, ledger, hydrator, loc, cfg.ShuffleSeed),
		Health:           database,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	syncPool.Start(ctx)

	// Configure HTTP server
	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start HTTP server
	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error: %v", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop

	log.Info("received signal %v, initiating graceful shutdown", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	// Drain queued records before closing the stores.
	log.Debug("stopping sync pool (pending=%d)", syncPool.QueueSize())
	syncPool.Stop()

	if rdb != nil {
		if err := rdb.Close(); err != nil {
			log.Warn("failed to close redis client: %v", err)
		}
	}

	log.Info("===========================================")
	log.Info("CodeTrail Server Stopped")
	log.Info("===========================================")
}
