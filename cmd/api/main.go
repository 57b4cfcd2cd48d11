package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"lifeplan-server/internal/adapter/repo"
	"lifeplan-server/internal/billing"
	"lifeplan-server/internal/birthday"
	"lifeplan-server/internal/entitlement"
	"lifeplan-server/internal/http/handlers"
	httpapi "lifeplan-server/internal/http/httpapi"
	"lifeplan-server/internal/infra"
	"lifeplan-server/internal/mailer"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx := context.Background()
	dbpool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect database")
	}
	defer dbpool.Close()

	runner := infra.NewSQLRunner(dbpool, logger)
	profiles := repo.NewProfileRepository(runner)

	// Entitlement cache: Redis when configured, in-process otherwise.
	var cache entitlement.Cache = entitlement.NewMemoryCache()
	rdb, err := infra.NewRedisClient(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect redis")
	}
	if rdb != nil {
		defer rdb.Close()
		cache = entitlement.NewRedisCache(rdb, cfg.EntitlementTTL)
		logger.Info().Str("addr", cfg.RedisAddr).Msg("entitlement cache backed by redis")
	}

	provider := billing.NewStripeProvider(cfg.StripeAPIKey)
	resolver := entitlement.NewResolver(profiles, provider, cache, cfg.EntitlementTTL, logger)

	sesMailer, err := mailer.NewSESMailer(ctx, cfg.SESRegion, cfg.MailSender)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to configure mailer")
	}
	sweeper := birthday.NewSweeper(runner, sesMailer, logger)

	app := &handlers.App{
		SQL:        runner,
		Logger:     logger,
		Billing:    provider,
		Resolver:   resolver,
		Profiles:   profiles,
		Counter:    profiles,
		Sweeper:    sweeper,
		CronSecret: cfg.CronSecret,
	}

	router := httpapi.NewRouter(app, cfg, logger)
	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
