package jobs_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"clinicdesk/config"
	"clinicdesk/internal/domain/medicine"
	"clinicdesk/internal/domain/payroll"
	"clinicdesk/internal/jobs"
)

type fakeStock struct {
	low      []*medicine.Medicine
	expiring []*medicine.Medicine
	days     int
	err      error
}

func (f *fakeStock) LowStock(ctx context.Context) ([]*medicine.Medicine, error) {
	return f.low, f.err
}

func (f *fakeStock) ExpiringWithin(ctx context.Context, days int) ([]*medicine.Medicine, error) {
	f.days = days
	return f.expiring, nil
}

type fakeRunner struct {
	existing map[string]bool
	created  []string
}

func (f *fakeRunner) RunExists(ctx context.Context, period string) (bool, error) {
	return f.existing[period], nil
}

func (f *fakeRunner) CreateRun(ctx context.Context, period string) (*payroll.PayrollRun, error) {
	f.created = append(f.created, period)
	return &payroll.PayrollRun{Period: period}, nil
}

func schedulerConfig() config.SchedulerConfig {
	return config.Default().Scheduler
}

func TestRegisterRejectsBadSchedule(t *testing.T) {
	t.Parallel()

	cfg := schedulerConfig()
	cfg.PayrollSchedule = "every day"

	s := jobs.NewScheduler(cfg, &fakeStock{}, &fakeRunner{})
	if err := s.Register(); err == nil {
		t.Fatalf("expected error for invalid cron expression")
	}
}

func TestRegisterAcceptsDefaults(t *testing.T) {
	t.Parallel()

	s := jobs.NewScheduler(schedulerConfig(), &fakeStock{}, &fakeRunner{})
	if err := s.Register(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestStockAlertUsesExpiryWindow(t *testing.T) {
	t.Parallel()

	expiry := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	stock := &fakeStock{
		low:      []*medicine.Medicine{{Name: "Dipirona", Stock: 1, ReorderLevel: 5}},
		expiring: []*medicine.Medicine{{Name: "Amoxicilina", ExpiryDate: &expiry}},
	}
	cfg := schedulerConfig()
	cfg.ExpiryWindowDays = 15

	s := jobs.NewScheduler(cfg, stock, &fakeRunner{})
	if err := s.StockAlert(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stock.days != 15 {
		t.Fatalf("expected window of 15 days, got %d", stock.days)
	}
}

func TestStockAlertPropagatesError(t *testing.T) {
	t.Parallel()

	s := jobs.NewScheduler(schedulerConfig(), &fakeStock{err: errors.New("db down")}, &fakeRunner{})
	if err := s.StockAlert(context.Background()); err == nil {
		t.Fatalf("expected error")
	}
}

func TestPayrollDraft(t *testing.T) {
	t.Parallel()

	clock := func() time.Time { return time.Date(2024, 3, 1, 6, 0, 0, 0, time.UTC) }

	tests := []struct {
		name        string
		existing    map[string]bool
		wantCreated int
	}{
		{name: "creates missing period", existing: map[string]bool{}, wantCreated: 1},
		{name: "skips existing period", existing: map[string]bool{"2024-03": true}, wantCreated: 0},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			runner := &fakeRunner{existing: tt.existing}
			s := jobs.NewScheduler(schedulerConfig(), &fakeStock{}, runner).WithClock(clock)

			if err := s.PayrollDraft(context.Background()); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(runner.created) != tt.wantCreated {
				t.Fatalf("expected %d runs, got %v", tt.wantCreated, runner.created)
			}
			if tt.wantCreated == 1 && runner.created[0] != "2024-03" {
				t.Fatalf("expected period 2024-03, got %s", runner.created[0])
			}
		})
	}
}
