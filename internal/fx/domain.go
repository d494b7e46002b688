package fx

import (
	"context"

	"clinicdesk/config"
	"clinicdesk/internal/domain/auth"
	"clinicdesk/internal/domain/bank"
	"clinicdesk/internal/domain/billing"
	"clinicdesk/internal/domain/catalog"
	"clinicdesk/internal/domain/dashboard"
	"clinicdesk/internal/domain/investment"
	"clinicdesk/internal/domain/investor"
	"clinicdesk/internal/domain/medicine"
	"clinicdesk/internal/domain/payroll"
	"clinicdesk/internal/domain/shared"
	"clinicdesk/internal/domain/user"
	"clinicdesk/internal/infrastructure"
	"clinicdesk/internal/logger"

	"github.com/shopspring/decimal"
	"go.uber.org/fx"
)

// DomainModule fornece todos os services do domínio
var DomainModule = fx.Module("domain",
	fx.Provide(
		newUserService,
		newAuthService,
		newInvestmentService,
		newContributionService,
		newInvestorService,
		newMedicineService,
		newCatalogService,
		newBillingService,
		newBankService,
		newPayrollService,
		newDashboardService,
	),
	fx.Invoke(
		seedAdmin,
	),
)

func newUserService(repo *infrastructure.UserRepository) *user.Service {
	return user.NewService(repo)
}

func newAuthService(repo *infrastructure.UserRepository, userSvc *user.Service) *auth.Service {
	return auth.NewService(repo, userSvc)
}

func newInvestmentService(
	cfg *config.Config,
	repo *infrastructure.InvestmentRepository,
	contributions *infrastructure.ContributionRepository,
	cache shared.Cache,
) *investment.Service {
	return investment.NewService(repo, contributions, cache, investment.ApportionerFor(cfg.Shares.Apportionment))
}

func newContributionService(
	repo *infrastructure.ContributionRepository,
	investments *infrastructure.InvestmentRepository,
	cache shared.Cache,
) *investment.ContributionService {
	return investment.NewContributionService(repo, investments, cache)
}

func newInvestorService(repo *infrastructure.InvestorRepository, cache shared.Cache) *investor.Service {
	return investor.NewService(repo, cache)
}

func newMedicineService(repo *infrastructure.MedicineRepository, cache shared.Cache) *medicine.Service {
	return medicine.NewService(repo, cache)
}

func newCatalogService(repo *infrastructure.CatalogRepository, cache shared.Cache) *catalog.Service {
	return catalog.NewService(repo, cache)
}

func newBillingService(
	cfg *config.Config,
	repo *infrastructure.BillRepository,
	medicines *medicine.Service,
	catalogSvc *catalog.Service,
	cache shared.Cache,
) *billing.Service {
	return billing.NewService(repo, medicines, catalogSvc, cache, billing.CurrencySettings{
		Primary:      cfg.Billing.PrimaryCurrency,
		Secondary:    cfg.Billing.SecondaryCurrency,
		ExchangeRate: decimal.NewFromFloat(cfg.Billing.ExchangeRate),
	})
}

func newBankService(repo *infrastructure.BankRepository, cache shared.Cache) *bank.Service {
	return bank.NewService(repo, cache)
}

func newPayrollService(
	salaries *infrastructure.SalaryRepository,
	loans *infrastructure.LoanRepository,
	runs *infrastructure.PayrollRunRepository,
	cache shared.Cache,
) *payroll.Service {
	return payroll.NewService(salaries, loans, runs, cache)
}

func newDashboardService(
	repo *infrastructure.DashboardRepository,
	investments *investment.Service,
	cache shared.Cache,
) *dashboard.Service {
	return dashboard.NewService(repo, investments, cache)
}

// seedAdmin garante o administrador configurado antes de aceitar requisições.
func seedAdmin(lc fx.Lifecycle, cfg *config.Config, userSvc *user.Service) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := userSvc.EnsureAdmin(ctx, cfg.Admin.Name, cfg.Admin.Email, cfg.Admin.Password); err != nil {
				logger.Error().Err(err).Msg("Falha ao criar administrador inicial")
				return err
			}
			return nil
		},
	})
}
