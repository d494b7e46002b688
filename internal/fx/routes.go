package fx

import (
	"context"
	"time"

	"clinicdesk/internal/domain/auth"
	"clinicdesk/internal/domain/bank"
	"clinicdesk/internal/domain/billing"
	"clinicdesk/internal/domain/catalog"
	"clinicdesk/internal/domain/dashboard"
	"clinicdesk/internal/domain/investment"
	"clinicdesk/internal/domain/investor"
	"clinicdesk/internal/domain/medicine"
	"clinicdesk/internal/domain/payroll"
	"clinicdesk/internal/domain/user"
	"clinicdesk/internal/middleware"
	"clinicdesk/internal/routes"

	"go.uber.org/fx"
)

type RateLimiters struct {
	Auth *middleware.RateLimiter
	User *middleware.RateLimiter
}

// RoutesModule fornece handlers e rate limiters
var RoutesModule = fx.Module("routes",
	fx.Provide(
		newHandler,
		newRateLimiters,
	),
)

type handlerParams struct {
	fx.In

	UserService         *user.Service
	AuthService         *auth.Service
	JwtService          *middleware.JwtService
	InvestmentService   *investment.Service
	ContributionService *investment.ContributionService
	InvestorService     *investor.Service
	MedicineService     *medicine.Service
	CatalogService      *catalog.Service
	BillingService      *billing.Service
	BankService         *bank.Service
	PayrollService      *payroll.Service
	DashboardService    *dashboard.Service
}

func newHandler(p handlerParams) *routes.Handler {
	return &routes.Handler{
		UserService:         p.UserService,
		AuthService:         p.AuthService,
		JwtService:          p.JwtService,
		InvestmentService:   p.InvestmentService,
		ContributionService: p.ContributionService,
		InvestorService:     p.InvestorService,
		MedicineService:     p.MedicineService,
		CatalogService:      p.CatalogService,
		BillingService:      p.BillingService,
		BankService:         p.BankService,
		PayrollService:      p.PayrollService,
		DashboardService:    p.DashboardService,
	}
}

// newRateLimiters limita login/cadastro por IP e as demais rotas por usuário.
func newRateLimiters(lc fx.Lifecycle) RateLimiters {
	limiters := RateLimiters{
		Auth: middleware.NewRateLimiter(20, time.Minute),
		User: middleware.NewRateLimiter(300, time.Minute),
	}

	ctx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go limiters.Auth.Run(ctx)
			go limiters.User.Run(ctx)
			return nil
		},
		OnStop: func(context.Context) error {
			cancel()
			return nil
		},
	})
	return limiters
}
