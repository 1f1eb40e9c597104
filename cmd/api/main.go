package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/domuus/domuus-backend/config"
	"github.com/domuus/domuus-backend/internal/auth"
	authhttp "github.com/domuus/domuus-backend/internal/auth/http"
	"github.com/domuus/domuus-backend/internal/auth/identity"
	authrepo "github.com/domuus/domuus-backend/internal/auth/repository"
	authservice "github.com/domuus/domuus-backend/internal/auth/service"
	"github.com/domuus/domuus-backend/internal/bootstrap"
	historyhttp "github.com/domuus/domuus-backend/internal/history/http"
	historyrepo "github.com/domuus/domuus-backend/internal/history/repository"
	historyservice "github.com/domuus/domuus-backend/internal/history/service"
	"github.com/domuus/domuus-backend/internal/notify"
	cronjob "github.com/domuus/domuus-backend/internal/notify/cron"
	"github.com/domuus/domuus-backend/internal/notify/queue"
	presencehttp "github.com/domuus/domuus-backend/internal/presence/http"
	presencerepo "github.com/domuus/domuus-backend/internal/presence/repository"
	presenceservice "github.com/domuus/domuus-backend/internal/presence/service"
	"github.com/domuus/domuus-backend/internal/storage/postgres"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	if level, err := logrus.ParseLevel(cfg.App.LogLevel); err == nil {
		logger.SetLevel(level)
	}

	bootstrap.SetGinMode(cfg.App.Environment)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Firebase: identity provider and document store.
	clients, err := auth.InitializeFirebase(ctx, &cfg.Firebase)
	if err != nil {
		logger.WithError(err).Fatal("failed to initialize Firebase")
	}
	defer clients.Firestore.Close()

	// Postgres: the append-only transition log.
	if err := postgres.Migrate(cfg.Database.DSN, cfg.Database.MigrationsPath, logger); err != nil {
		logger.WithError(err).Fatal("failed to run migrations")
	}

	db, err := bootstrap.OpenDB(ctx, bootstrap.DBOptions{DSN: cfg.Database.DSN})
	if err != nil {
		logger.WithError(err).Fatal("failed to connect to database")
	}
	defer db.Close()

	// Redis: the notification delivery queue.
	rdb, err := bootstrap.OpenRedis(ctx, &cfg.Redis)
	if err != nil {
		logger.WithError(err).Fatal("failed to connect to Redis")
	}
	defer rdb.Close()

	// Repositories
	userRepo := authrepo.NewUserRepository(clients.Firestore)
	childRepo := presencerepo.NewChildRepository(clients.Firestore)
	guestRepo := presencerepo.NewGuestRepository(clients.Firestore)
	transitionRepo := historyrepo.NewTransitionRepository(db)

	// Notification pipeline
	eventQueue := queue.New(rdb)

	emailNotifier, err := notify.NewEmailNotifier(ctx, cfg.Notify.AWSRegion, cfg.Notify.FromEmail, cfg.Notify.FromName, userRepo, logger)
	if err != nil {
		logger.WithError(err).Fatal("failed to initialize email notifier")
	}
	logNotifier := notify.NewLogNotifier(logger)

	worker := queue.NewWorker(eventQueue, emailNotifier, logNotifier, cfg.Notify.RatePerSec, cfg.Notify.MaxAttempts, logger)
	go worker.Run(ctx)

	scheduler := cronjob.NewScheduler(eventQueue, logger)
	scheduler.Start()
	defer scheduler.Stop()

	// Services
	ids := identity.New(clients.Auth, cfg.Firebase.WebAPIKey)
	authSvc := authservice.NewAuthService(ids, userRepo, cfg.App.ProviderTimeout, logger)
	presenceSvc := presenceservice.NewPresenceService(childRepo, guestRepo, transitionRepo, eventQueue, cfg.App.ProviderTimeout, logger)
	historySvc := historyservice.NewHistoryService(childRepo, guestRepo, transitionRepo, cfg.App.ProviderTimeout)

	router := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName: "domuus-backend",
		Version:     cfg.App.Version,
		CORSOrigins: cfg.Server.CORSOrigins,
		Log:         logger,
		AuthClient:  clients.Auth,
		DB:          db,
		Redis:       rdb,

		AuthHandler:     authhttp.New(authSvc),
		PresenceHandler: presencehttp.New(presenceSvc),
		HistoryHandler:  historyhttp.New(historySvc),
	})

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		logger.WithField("port", cfg.Server.Port).Info("server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("server error")
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("shutting down")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("forced shutdown")
	}

	logger.Info("server stopped")
}
