package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"lifeplan-server/internal/birthday"
	"lifeplan-server/internal/infra"
	"lifeplan-server/internal/mailer"
)

const sweepTimeout = 10 * time.Minute

func main() {
	var runOnce bool
	flag.BoolVar(&runOnce, "run-once", false, "run one sweep immediately and exit")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv).With().Str("cmd", "sweeper").Logger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("sweeper: db connection failed")
	}
	defer pool.Close()

	runner := infra.NewSQLRunner(pool, logger)

	sesMailer, err := mailer.NewSESMailer(ctx, cfg.SESRegion, cfg.MailSender)
	if err != nil {
		logger.Fatal().Err(err).Msg("sweeper: failed to configure mailer")
	}
	sweeper := birthday.NewSweeper(runner, sesMailer, logger)

	sweep := func() {
		runCtx, cancel := context.WithTimeout(ctx, sweepTimeout)
		defer cancel()
		res, err := sweeper.Run(runCtx)
		if err != nil {
			logger.Error().Err(err).Msg("sweeper: run failed")
			return
		}
		for _, msg := range res.Errors {
			logger.Warn().Str("send_error", msg).Msg("sweeper: recipient failed")
		}
	}

	if runOnce {
		sweep()
		return
	}

	c := cron.New()
	if _, err := c.AddFunc(cfg.BirthdaySchedule, sweep); err != nil {
		logger.Fatal().Err(err).Str("schedule", cfg.BirthdaySchedule).Msg("sweeper: invalid schedule")
	}
	c.Start()
	logger.Info().Str("schedule", cfg.BirthdaySchedule).Msg("sweeper: started")

	<-ctx.Done()
	<-c.Stop().Done()
	logger.Info().Msg("sweeper: stopped")
}
