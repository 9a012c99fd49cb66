package services

import (
	"context"
	"testing"

	"rentledger/internal/core"
	"rentledger/internal/ledger"
	"rentledger/internal/ledger/memory"
)

func TestVacancyAlerterThreshold(t *testing.T) {
	store := ledger.NewStore(memory.New(), txFile, occFile)
	svc := NewLedgerService(store, nil)
	ctx := context.Background()

	if err := store.EnsureOccupancySeeded(ctx, mustDate(t, "2025-01-01")); err != nil {
		t.Fatalf("EnsureOccupancySeeded: %v", err)
	}
	// Unit 2: vacant exactly 30 days as of March 3rd. Unit 7: 31 days.
	if err := svc.SetOccupancy(ctx, "Unit 2", false, mustDate(t, "2025-02-01")); err != nil {
		t.Fatalf("SetOccupancy: %v", err)
	}
	if err := svc.SetOccupancy(ctx, "Unit 7", false, mustDate(t, "2025-01-31")); err != nil {
		t.Fatalf("SetOccupancy: %v", err)
	}

	alerter := NewVacancyAlerter(store, nil, 30)
	alerts, err := alerter.Run(ctx, mustDate(t, "2025-03-03"))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(alerts) != 1 {
		t.Fatalf("alerts = %v, want exactly one", alerts)
	}
	if alerts[0].Apartment != "Unit 7" || alerts[0].DaysVacant != 31 {
		t.Errorf("alert = %+v, want Unit 7 at 31 days", alerts[0])
	}
}

func TestVacancyAlerterDefaultsThreshold(t *testing.T) {
	store := ledger.NewStore(memory.New(), txFile, occFile)
	a := NewVacancyAlerter(store, nil, 0)
	if a.thresholdDays != core.DefaultVacancyThresholdDays {
		t.Errorf("thresholdDays = %d, want %d", a.thresholdDays, core.DefaultVacancyThresholdDays)
	}
}
