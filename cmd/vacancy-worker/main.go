package main

import (
	"context"
	"os"
	"time"

	"github.com/robfig/cron"

	"rentledger/internal/amqp"
	"rentledger/internal/cli"
	"rentledger/internal/core"
	"rentledger/internal/log"
	"rentledger/internal/services"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger().WithComponent(log.ComponentWorker)

	logger.Info("Starting vacancy-worker")

	cfg := cli.LoadAndValidateConfig(logger)

	store, cleanup := cli.InitStore(context.Background(), logger, cfg)
	if cleanup != nil {
		defer func() { _ = cleanup() }()
	}

	events := cli.InitAMQP(logger, cfg)
	if events != nil {
		defer func() { _ = events.Close() }()
	}

	alerter := services.NewVacancyAlerter(store, events, cfg.VacancyThresholdDays)

	scan := func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		alerts, err := alerter.Run(ctx, core.Today(time.Now()))
		if err != nil {
			logger.Error("Vacancy scan failed", "error", err)
			return
		}
		logger.Info("Vacancy scan complete", "alerts", len(alerts), "threshold_days", cfg.VacancyThresholdDays)
		for _, alert := range alerts {
			logger.Warn("Prolonged vacancy", "apartment", alert.Apartment, "days_vacant", alert.DaysVacant)
		}
	}

	// One scan at startup, then on the configured schedule.
	scan()

	c := cron.New()
	if err := c.AddFunc(cfg.VacancyAlertSchedule, scan); err != nil {
		logger.Error("Invalid alert schedule", "error", err, "schedule", cfg.VacancyAlertSchedule)
		os.Exit(1)
	}
	c.Start()
	defer c.Stop()

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, nil)

	// When messaging is configured, an occupancy change from the web app
	// triggers an immediate scan instead of waiting for the next schedule.
	if events != nil {
		go func() {
			err := events.ConsumeEvents(ctx, func(event *amqp.LedgerEvent) error {
				if event.Kind == amqp.EventOccupancyChanged {
					scan()
				}
				return nil
			})
			if err != nil && ctx.Err() == nil {
				logger.Error("Event consumption stopped", "error", err)
			}
		}()
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Worker stopped gracefully")
}
