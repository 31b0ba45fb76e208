package main

import (
	"context"
	"fmt"
	"time"

	"github.com/egyw/foodify-auth/internal/config"
	httphandler "github.com/egyw/foodify-auth/internal/handler/http"
	"github.com/egyw/foodify-auth/internal/limiter"
	"github.com/egyw/foodify-auth/internal/logger"
	"github.com/egyw/foodify-auth/internal/mailer"
	"github.com/egyw/foodify-auth/internal/server"
	"github.com/egyw/foodify-auth/internal/service"
	"github.com/egyw/foodify-auth/internal/store"
	"github.com/getsentry/sentry-go"
	"github.com/joho/godotenv"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	log := logger.NewLogger("foodify-auth-server")
	cfg, err := config.GetStructuredConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: cfg.SentryDSN}); err != nil {
			log.Fatal().Err(err).Msg("error initializing sentry")
		}
		defer sentry.Flush(2 * time.Second)
	}

	ctx := context.Background()

	storages, err := store.NewStorages(ctx, cfg.Storage, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating storages")
	}

	redisClient, err := limiter.NewRedisClient(ctx, cfg.Storage.Redis, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error connecting to redis")
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Err(err).Msg("error closing redis client")
		}
	}()

	loginLimiter := limiter.NewLoginLimiter(redisClient, storages.BanRepository, cfg.Limiter, log)
	otpMailer := mailer.NewMailer(cfg.Mailer, log)

	services := service.NewServices(storages, loginLimiter, otpMailer, cfg, log)
	handler := httphandler.NewHandler(services, cfg, log)

	srv, err := server.NewServer(handler, cfg.Server, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating server")
	}

	srv.RunServer()
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}

	if buildDate == "" {
		buildDate = "N/A"
	}

	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
