package cmd

import (
	"context"
	"fmt"
	"time"

	"qbank/bot"
	"qbank/config"
	"qbank/database"
	"qbank/events"
	"qbank/jobs"
	"qbank/mojang"
	"qbank/observability"
	"qbank/repository"
	"qbank/service"

	log "github.com/sirupsen/logrus"
)

// Run initializes and starts the application
func Run(ctx context.Context) error {
	cfg := config.Get()
	if err := ConfigureLogging(cfg.LogLevel, cfg.Environment); err != nil {
		return err
	}
	log.WithField("environment", cfg.Environment).Info("Starting qbank...")

	databaseURL := cfg.GetDatabaseURL()
	if err := database.RunMigrationsWithURL(databaseURL); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	db, err := database.NewConnection(ctx, databaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()
	log.Info("Database connection established")

	eventBus := events.NewBus()
	uowFactory := repository.NewUnitOfWorkFactory(db, eventBus)

	metrics := observability.NewMetrics()
	metrics.SubscribeTo(eventBus)
	go func() {
		if err := metrics.Serve(ctx, cfg.MetricsAddr); err != nil {
			log.WithError(err).Error("Metrics server stopped")
		}
	}()

	resolver := mojang.NewClient(mojang.Config{
		APIURL:            cfg.MojangAPIURL,
		SessionURL:        cfg.MojangSessionURL,
		RequestsPerSecond: cfg.MojangRequestsPerSecond,
		Timeout:           cfg.MojangTimeout,
	})

	ledgerService := service.NewLedgerService(uowFactory, resolver, metrics)
	interestService := service.NewInterestService(uowFactory, resolver, metrics)

	scheduler, err := jobs.NewScheduler(ctx, interestService, jobs.Config{
		InterestEnabled:     cfg.InterestEnabled,
		InterestSchedule:    cfg.InterestSchedule,
		NameRefreshSchedule: cfg.NameRefreshSchedule,
		Timezone:            cfg.ScheduleTimezone,
	})
	if err != nil {
		return fmt.Errorf("failed to configure scheduler: %w", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	discordBot, err := bot.New(bot.Config{
		Token:            cfg.DiscordToken,
		GuildID:          cfg.GuildID,
		ManagerDiscordID: cfg.ManagerDiscordID,
	}, ledgerService, eventBus)
	if err != nil {
		return fmt.Errorf("failed to initialize Discord bot: %w", err)
	}
	log.Info("Discord bot connected")

	<-ctx.Done()
	log.Info("Shutting down...")

	if err := discordBot.Close(); err != nil {
		log.WithError(err).Error("Error closing Discord bot")
	}

	// let in-flight event handlers finish their DMs
	time.Sleep(time.Second)
	return nil
}
