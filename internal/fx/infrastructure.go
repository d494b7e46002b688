package fx

import (
	"context"

	"clinicdesk/config"
	"clinicdesk/internal/infrastructure"
	"clinicdesk/internal/logger"

	"go.uber.org/fx"
	"gorm.io/gorm"
)

var InfrastructureModule = fx.Module("infrastructure",
	fx.Provide(
		newDatabase,
		newUserRepository,
		newInvestmentRepository,
		newContributionRepository,
		newInvestorRepository,
		newMedicineRepository,
		newCatalogRepository,
		newBillRepository,
		newBankRepository,
		newSalaryRepository,
		newLoanRepository,
		newPayrollRunRepository,
		newDashboardRepository,
	),
)

func newDatabase(lc fx.Lifecycle, cfg *config.Config) (*gorm.DB, error) {
	db, err := infrastructure.NewDb(cfg)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			logger.Info().Msg("Fechando conexões com o banco")
			return sqlDB.Close()
		},
	})
	return db, nil
}

func newUserRepository(db *gorm.DB) *infrastructure.UserRepository {
	return &infrastructure.UserRepository{DB: db}
}

func newInvestmentRepository(db *gorm.DB) *infrastructure.InvestmentRepository {
	return &infrastructure.InvestmentRepository{DB: db}
}

func newContributionRepository(db *gorm.DB) *infrastructure.ContributionRepository {
	return &infrastructure.ContributionRepository{DB: db}
}

func newInvestorRepository(db *gorm.DB) *infrastructure.InvestorRepository {
	return &infrastructure.InvestorRepository{DB: db}
}

func newMedicineRepository(db *gorm.DB) *infrastructure.MedicineRepository {
	return &infrastructure.MedicineRepository{DB: db}
}

func newCatalogRepository(db *gorm.DB) *infrastructure.CatalogRepository {
	return &infrastructure.CatalogRepository{DB: db}
}

func newBillRepository(db *gorm.DB) *infrastructure.BillRepository {
	return &infrastructure.BillRepository{DB: db}
}

func newBankRepository(db *gorm.DB) *infrastructure.BankRepository {
	return &infrastructure.BankRepository{DB: db}
}

func newSalaryRepository(db *gorm.DB) *infrastructure.SalaryRepository {
	return &infrastructure.SalaryRepository{DB: db}
}

func newLoanRepository(db *gorm.DB) *infrastructure.LoanRepository {
	return &infrastructure.LoanRepository{DB: db}
}

func newPayrollRunRepository(db *gorm.DB) *infrastructure.PayrollRunRepository {
	return &infrastructure.PayrollRunRepository{DB: db}
}

func newDashboardRepository(db *gorm.DB) *infrastructure.DashboardRepository {
	return &infrastructure.DashboardRepository{DB: db}
}
