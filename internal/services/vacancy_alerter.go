package services

import (
	"context"
	"fmt"
	"log/slog"

	"rentledger/internal/amqp"
	"rentledger/internal/core"
	"rentledger/internal/ledger"
)

// VacancyAlerter scans the occupancy table and publishes one alert per unit
// that has been vacant for more than ThresholdDays.
type VacancyAlerter struct {
	store         *ledger.Store
	events        *amqp.Client
	thresholdDays int
}

func NewVacancyAlerter(store *ledger.Store, events *amqp.Client, thresholdDays int) *VacancyAlerter {
	if thresholdDays <= 0 {
		thresholdDays = core.DefaultVacancyThresholdDays
	}
	return &VacancyAlerter{store: store, events: events, thresholdDays: thresholdDays}
}

// Run performs one scan. It returns the alerts it found so callers can log
// or render them; publishing failures are logged and do not abort the scan.
func (a *VacancyAlerter) Run(ctx context.Context, asOf core.Date) ([]core.VacancyAlert, error) {
	table, _, err := a.store.LoadOccupancy(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load occupancy: %w", err)
	}
	alerts := core.ProlongedVacancies(table.Records(), asOf, a.thresholdDays)
	for _, alert := range alerts {
		event := amqp.NewLedgerEvent(
			amqp.EventVacancyAlert,
			alert.Apartment,
			"",
			fmt.Sprintf("vacant for %d days", alert.DaysVacant),
		)
		if err := a.events.PublishEvent(ctx, event); err != nil {
			slog.ErrorContext(ctx, "Failed to publish vacancy alert", "error", err, "apartment", alert.Apartment)
		}
	}
	return alerts, nil
}
