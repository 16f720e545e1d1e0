package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/insurancereminder/policy-engine/internal/api"
	"github.com/insurancereminder/policy-engine/internal/core/ports"
	"github.com/insurancereminder/policy-engine/internal/core/service"
	"github.com/insurancereminder/policy-engine/internal/infrastructure/db/local"
	mongodb "github.com/insurancereminder/policy-engine/internal/infrastructure/db/mongo"
	redisdb "github.com/insurancereminder/policy-engine/internal/infrastructure/db/redis"
	"github.com/insurancereminder/policy-engine/internal/infrastructure/notify"
	"github.com/insurancereminder/policy-engine/internal/infrastructure/queue"
	"github.com/insurancereminder/policy-engine/internal/infrastructure/session"
	"github.com/insurancereminder/policy-engine/internal/infrastructure/storage"
	"github.com/insurancereminder/policy-engine/internal/pkg/config"
	"github.com/insurancereminder/policy-engine/pkg/logger"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Cloud store ---
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connection failed")
	}
	defer func() { _ = mongoClient.Disconnect(context.Background()) }()

	cloudStore := mongodb.NewPolicyRepository(db)
	if err := cloudStore.EnsureIndexes(ctx); err != nil {
		log.Warn().Err(err).Msg("policy index creation failed")
	}
	userRepo := mongodb.NewUserRepository(db)
	if err := userRepo.EnsureIndexes(ctx); err != nil {
		log.Warn().Err(err).Msg("user index creation failed")
	}

	// --- Reminder dedup ---
	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() { _ = rdb.Close() }()

	// --- Local fallback store ---
	var localStore ports.PolicyStore
	if cfg.Local.SQLitePath != "" {
		sqliteStore, err := local.OpenSQLite(cfg.Local.SQLitePath)
		if err != nil {
			log.Fatal().Err(err).Str("path", cfg.Local.SQLitePath).Msg("sqlite open failed")
		}
		defer func() { _ = sqliteStore.Close() }()
		localStore = sqliteStore
	} else {
		log.Info().Msg("no SQLITE_PATH configured, local fallback is in-memory")
		localStore = local.NewMemoryStore()
	}

	// --- Services ---
	sessions := session.RequestReader{}
	store := storage.NewRouter(cloudStore, localStore, sessions, log)
	policyService := service.NewPolicyService(store, sessions, log)
	authService := service.NewAuthService(userRepo, cfg.JWTSecret, 24*time.Hour)
	catalogService := service.NewCatalogService(log)

	// --- Reminder pipeline ---
	dispatcher := queue.NewDispatcher(cfg.Reminder.Workers, notify.NewLogNotifier(log), log)
	dispatcher.Start(ctx)

	// The scan bypasses the router: it must see every user's cloud records
	// and the guest device's local ones, not one session's view.
	reminders := service.NewReminderService(
		[]ports.PolicyStore{cloudStore, localStore},
		redisdb.NewReminderDedup(rdb), dispatcher, log)
	go runDailyScan(ctx, reminders, cfg.Reminder.ScanHour, log)

	// --- HTTP server ---
	e := api.NewRouter(api.RouterDeps{
		Policies:  policyService,
		Auth:      authService,
		Catalog:   catalogService,
		Mongo:     db,
		Redis:     rdb,
		JWTSecret: cfg.JWTSecret,
		Log:       log,
	})

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server start failed")
		}
	}()
	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("policy engine up")

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}
}

// runDailyScan triggers the reminder scan once at startup and then every day
// at the configured UTC hour.
func runDailyScan(ctx context.Context, reminders *service.ReminderService, hour int, log zerolog.Logger) {
	if err := reminders.Run(ctx); err != nil {
		log.Error().Err(err).Msg("reminder scan failed")
	}

	for {
		timer := time.NewTimer(untilNextScan(time.Now().UTC(), hour))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
			if err := reminders.Run(ctx); err != nil {
				log.Error().Err(err).Msg("reminder scan failed")
			}
		}
	}
}

// untilNextScan computes the wait until the next occurrence of the given UTC
// hour, strictly in the future.
func untilNextScan(now time.Time, hour int) time.Duration {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, time.UTC)
	if !next.After(now) {
		next = next.Add(24 * time.Hour)
	}
	return next.Sub(now)
}
