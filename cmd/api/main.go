package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/aulahub/lms-platform/internal/api"
	"github.com/aulahub/lms-platform/internal/infrastructure/billing"
	"github.com/aulahub/lms-platform/internal/infrastructure/config"
	mongodb "github.com/aulahub/lms-platform/internal/infrastructure/db/mongo"
	redisdb "github.com/aulahub/lms-platform/internal/infrastructure/db/redis"
	"github.com/aulahub/lms-platform/internal/infrastructure/email"
	"github.com/aulahub/lms-platform/internal/infrastructure/realtime"
	"github.com/aulahub/lms-platform/internal/infrastructure/storage"
	"github.com/aulahub/lms-platform/pkg/logger"
)

// @title        AulaHub LMS API
// @version      1.0
// @description  Learning management platform: courses, community wall, chat and billing.
// @BasePath     /
//
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.Load(zerolog.New(os.Stderr).With().Timestamp().Logger())
	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: cfg.Env == "development"})

	// --- MongoDB ---
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connection failed")
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = mongoClient.Disconnect(disconnectCtx)
	}()

	for _, idx := range []interface {
		EnsureIndexes(context.Context) error
	}{
		mongodb.NewUserRepository(db),
		mongodb.NewCourseRepository(db),
		mongodb.NewPostRepository(db),
		mongodb.NewConversationRepository(db),
		mongodb.NewNotificationRepository(db),
	} {
		if err := idx.EnsureIndexes(ctx); err != nil {
			log.Fatal().Err(err).Msg("index creation failed")
		}
	}

	// --- Redis ---
	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer rdb.Close()

	presence := redisdb.NewPresenceTracker(rdb)

	// --- Realtime hub ---
	hub := realtime.NewHub(log)
	go hub.Run(ctx)

	// --- External collaborators ---
	files, err := storage.NewS3Store(ctx, storage.Config{
		Region:          cfg.S3.Region,
		Bucket:          cfg.S3.Bucket,
		Endpoint:        cfg.S3.Endpoint,
		AccessKeyID:     cfg.S3.AccessKeyID,
		SecretAccessKey: cfg.S3.SecretAccessKey,
		PublicBaseURL:   cfg.S3.PublicBaseURL,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("object storage init failed")
	}

	mailer := email.NewSMTPMailer(email.Config{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
	})

	gateway := billing.NewGateway(cfg.Stripe.SecretKey, cfg.Stripe.WebhookSecret)

	// --- HTTP server ---
	e := api.NewRouter(api.Dependencies{
		Mongo:       db,
		Redis:       rdb,
		Hub:         hub,
		Presence:    presence,
		Mailer:      mailer,
		Files:       files,
		Gateway:     gateway,
		JWTSecret:   cfg.JWTSecret,
		TokenTTL:    cfg.TokenTTL,
		FrontendURL: cfg.FrontendURL,
		Log:         log,
	})

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()
	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server started")

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
