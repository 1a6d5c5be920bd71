package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"github.com/bracketforge/tournament-system/config"
	"github.com/bracketforge/tournament-system/db"
	"github.com/bracketforge/tournament-system/handlers"
	"github.com/bracketforge/tournament-system/middleware"
	"github.com/bracketforge/tournament-system/realtime"
	"github.com/bracketforge/tournament-system/repositories"
	"github.com/bracketforge/tournament-system/routes"
	"github.com/bracketforge/tournament-system/services"
	"github.com/bracketforge/tournament-system/storage"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		}
	}()
	logger.Info("database connection established")

	if err := db.Migrate(dbConn); err != nil {
		logger.Error("failed to run migrations", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("migrations applied")

	var uploader storage.FileUploader
	if cfg.R2.Enabled() {
		uploader, err = storage.NewCloudflareR2Uploader(storage.CloudflareR2UploaderConfig{
			AccountID:       cfg.R2.AccountID,
			AccessKeyID:     cfg.R2.AccessKeyID,
			SecretAccessKey: cfg.R2.SecretAccessKey,
			BucketName:      cfg.R2.BucketName,
			PublicBaseURL:   cfg.R2.PublicBaseURL,
		})
		if err != nil {
			logger.Error("failed to initialize Cloudflare R2 uploader", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("Cloudflare R2 uploader initialized")
	} else {
		uploader = storage.NewNoopUploader()
		logger.Warn("object storage not configured, logo uploads disabled")
	}

	hub := realtime.NewHub(logger)
	go hub.Run()

	userRepo := repositories.NewPostgresUserRepository(dbConn)
	tournamentRepo := repositories.NewPostgresTournamentRepository(dbConn)
	phaseRepo := repositories.NewPostgresPhaseRepository(dbConn)
	participantRepo := repositories.NewPostgresParticipantRepository(dbConn)
	matchRepo := repositories.NewPostgresMatchRepository(dbConn)

	phaseLocks := services.NewPhaseLocker()
	authService := services.NewAuthService(userRepo)
	tournamentService := services.NewTournamentService(tournamentRepo, phaseRepo, uploader, logger)
	participantService := services.NewParticipantService(participantRepo, tournamentRepo)
	phaseService := services.NewPhaseService(dbConn, phaseRepo, tournamentRepo, participantRepo, matchRepo, hub, phaseLocks, logger)
	matchService := services.NewMatchService(dbConn, matchRepo, phaseRepo, tournamentRepo, participantRepo, hub, phaseLocks, logger)

	sweepInterval := time.Duration(cfg.StatusSweepSeconds) * time.Second
	scheduler, err := services.StartStatusScheduler(tournamentService, sweepInterval, logger)
	if err != nil {
		logger.Error("failed to start status scheduler", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := scheduler.Shutdown(); err != nil {
			logger.Error("failed to shut down scheduler", slog.Any("error", err))
		}
	}()

	h := routes.Handlers{
		Auth:        handlers.NewAuthHandler(authService, cfg.JWTSecretKey),
		Tournament:  handlers.NewTournamentHandler(tournamentService),
		Participant: handlers.NewParticipantHandler(participantService),
		Phase:       handlers.NewPhaseHandler(phaseService, matchService),
		Match:       handlers.NewMatchHandler(matchService),
		WebSocket:   handlers.NewWebSocketHandler(hub, logger),
	}
	router := routes.InitRoutes(h, middleware.NewAuthenticator(cfg.JWTSecretKey))

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("server stopped gracefully")
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			os.Exit(1)
		}
		logger.Info("server shutdown complete")
	}
}
