// Package jobs agenda as rotinas periódicas da clínica.
package jobs

import (
	"context"
	"fmt"
	"time"

	"clinicdesk/config"
	"clinicdesk/internal/domain/medicine"
	"clinicdesk/internal/domain/payroll"
	"clinicdesk/internal/logger"

	"github.com/robfig/cron/v3"
)

const jobTimeout = 5 * time.Minute

type StockSource interface {
	LowStock(ctx context.Context) ([]*medicine.Medicine, error)
	ExpiringWithin(ctx context.Context, days int) ([]*medicine.Medicine, error)
}

type PayrollRunner interface {
	RunExists(ctx context.Context, period string) (bool, error)
	CreateRun(ctx context.Context, period string) (*payroll.PayrollRun, error)
}

type Scheduler struct {
	cron     *cron.Cron
	cfg      config.SchedulerConfig
	location *time.Location
	stock    StockSource
	payroll  PayrollRunner
	now      func() time.Time
}

func NewScheduler(cfg config.SchedulerConfig, stock StockSource, runner PayrollRunner) *Scheduler {
	loc, err := time.LoadLocation(cfg.TimeZone)
	if err != nil {
		logger.Warn().Err(err).Str("timezone", cfg.TimeZone).Msg("Fuso horário inválido, usando UTC")
		loc = time.UTC
	}

	return &Scheduler{
		cron:     cron.New(cron.WithLocation(loc)),
		cfg:      cfg,
		location: loc,
		stock:    stock,
		payroll:  runner,
		now:      time.Now,
	}
}

func (s *Scheduler) WithClock(now func() time.Time) *Scheduler {
	s.now = now
	return s
}

// Register adiciona as rotinas ao cron sem iniciá-lo.
func (s *Scheduler) Register() error {
	if _, err := s.cron.AddFunc(s.cfg.StockAlertSchedule, s.wrap("stock_alert", s.StockAlert)); err != nil {
		return fmt.Errorf("jobs: agenda de estoque inválida %q: %w", s.cfg.StockAlertSchedule, err)
	}
	if _, err := s.cron.AddFunc(s.cfg.PayrollSchedule, s.wrap("payroll_draft", s.PayrollDraft)); err != nil {
		return fmt.Errorf("jobs: agenda de folha inválida %q: %w", s.cfg.PayrollSchedule, err)
	}
	return nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	logger.Info().
		Str("stock_alert", s.cfg.StockAlertSchedule).
		Str("payroll", s.cfg.PayrollSchedule).
		Str("timezone", s.location.String()).
		Msg("Agendador iniciado")
}

// Stop aguarda as execuções em andamento ou o cancelamento do contexto.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		logger.Warn().Msg("Agendador encerrado com rotinas em andamento")
	}
}

func (s *Scheduler) wrap(name string, job func(ctx context.Context) error) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()

		start := time.Now()
		if err := job(ctx); err != nil {
			logger.Error().Err(err).Str("job", name).Msg("Rotina falhou")
			return
		}
		logger.Info().Str("job", name).Dur("duration", time.Since(start)).Msg("Rotina concluída")
	}
}

func (s *Scheduler) StockAlert(ctx context.Context) error {
	low, err := s.stock.LowStock(ctx)
	if err != nil {
		return err
	}
	for _, m := range low {
		logger.Warn().
			Str("medicine_id", m.Id.String()).
			Str("name", m.Name).
			Int("stock", m.Stock).
			Int("reorder_level", m.ReorderLevel).
			Msg("Medicamento com estoque baixo")
	}

	expiring, err := s.stock.ExpiringWithin(ctx, s.cfg.ExpiryWindowDays)
	if err != nil {
		return err
	}
	for _, m := range expiring {
		event := logger.Warn().Str("medicine_id", m.Id.String()).Str("name", m.Name)
		if m.ExpiryDate != nil {
			event = event.Time("expiry_date", *m.ExpiryDate)
		}
		event.Msg("Medicamento próximo do vencimento")
	}

	logger.Info().Int("low_stock", len(low)).Int("expiring", len(expiring)).Msg("Verificação de estoque")
	return nil
}

// PayrollDraft gera a folha do mês corrente quando ainda não existe.
func (s *Scheduler) PayrollDraft(ctx context.Context) error {
	period := s.now().In(s.location).Format(payroll.PeriodLayout)

	exists, err := s.payroll.RunExists(ctx, period)
	if err != nil {
		return err
	}
	if exists {
		logger.Debug().Str("period", period).Msg("Folha do período já existe")
		return nil
	}

	_, err = s.payroll.CreateRun(ctx, period)
	return err
}
