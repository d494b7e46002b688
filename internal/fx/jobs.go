package fx

import (
	"context"

	"clinicdesk/config"
	"clinicdesk/internal/domain/medicine"
	"clinicdesk/internal/domain/payroll"
	"clinicdesk/internal/jobs"
	"clinicdesk/internal/logger"

	"go.uber.org/fx"
)

var JobsModule = fx.Module("jobs",
	fx.Invoke(
		startScheduler,
	),
)

func startScheduler(lc fx.Lifecycle, cfg *config.Config, medicines *medicine.Service, payrollSvc *payroll.Service) error {
	if !cfg.Scheduler.Enabled {
		logger.Info().Msg("Agendador desabilitado")
		return nil
	}

	scheduler := jobs.NewScheduler(cfg.Scheduler, medicines, payrollSvc)
	if err := scheduler.Register(); err != nil {
		return err
	}

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			scheduler.Start()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			scheduler.Stop(ctx)
			return nil
		},
	})
	return nil
}
