package dashboard

import (
	"context"
	"time"

	"clinicdesk/internal/domain/investment"
	"clinicdesk/internal/domain/shared"

	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
)

type LedgerSource interface {
	Ledger(ctx context.Context, investmentID *ulid.ULID) (*investment.Ledger, error)
}

type Service struct {
	Repository Repository
	Ledger     LedgerSource
	Cache      shared.Cache
}

func NewService(repo Repository, ledger LedgerSource, cache shared.Cache) *Service {
	return &Service{Repository: repo, Ledger: ledger, Cache: cache}
}

var dashboardCollections = []string{
	shared.CollectionInvestments,
	shared.CollectionContributions,
	shared.CollectionBills,
	shared.CollectionMedicines,
	shared.CollectionBank,
}

func (s *Service) GetDashboard(ctx context.Context) (*DashboardResponse, error) {
	return shared.Remember(ctx, s.Cache, dashboardCollections, "dashboard", func() (*DashboardResponse, error) {
		return s.load(ctx)
	})
}

func (s *Service) load(ctx context.Context) (*DashboardResponse, error) {
	ledger, err := s.Ledger.Ledger(ctx, nil)
	if err != nil {
		return nil, err
	}

	billing, err := s.Repository.GetBillingTotals(ctx)
	if err != nil {
		return nil, err
	}

	lowStock, err := s.Repository.CountLowStock(ctx)
	if err != nil {
		return nil, err
	}

	balance, err := s.Repository.GetBankBalance(ctx)
	if err != nil {
		return nil, err
	}

	trend, err := s.Repository.GetMonthlyRevenue(ctx, 6)
	if err != nil {
		return nil, err
	}

	recent, err := s.Repository.GetRecentBills(ctx, 5)
	if err != nil {
		return nil, err
	}

	return &DashboardResponse{
		Summary: &Summary{
			TotalCapital:     ledger.Summary.TotalShare,
			TotalPaid:        ledger.Summary.TotalPaid,
			TotalDue:         ledger.Summary.TotalDue,
			TotalOverpaid:    ledger.Summary.TotalOverpaid,
			Revenue:          billing.Revenue,
			OutstandingBills: billing.Outstanding,
			UnpaidBillCount:  billing.UnpaidCount,
			LowStockCount:    lowStock,
			BankBalance:      balance,
		},
		MonthlyRevenue: trend,
		RecentBills:    recent,
		GeneratedAt:    time.Now(),
	}, nil
}

type DashboardResponse struct {
	Summary        *Summary              `json:"summary"`
	MonthlyRevenue []*MonthlyRevenueItem `json:"monthlyRevenue"`
	RecentBills    []*BillSummary        `json:"recentBills"`
	GeneratedAt    time.Time             `json:"generatedAt"`
}

type Summary struct {
	TotalCapital     decimal.Decimal `json:"totalCapital"`
	TotalPaid        decimal.Decimal `json:"totalPaid"`
	TotalDue         decimal.Decimal `json:"totalDue"`
	TotalOverpaid    decimal.Decimal `json:"totalOverpaid"`
	Revenue          decimal.Decimal `json:"revenue"`
	OutstandingBills decimal.Decimal `json:"outstandingBills"`
	UnpaidBillCount  int64           `json:"unpaidBillCount"`
	LowStockCount    int64           `json:"lowStockCount"`
	BankBalance      decimal.Decimal `json:"bankBalance"`
}

type BillingTotals struct {
	Revenue     decimal.Decimal
	Outstanding decimal.Decimal
	UnpaidCount int64
}

type MonthlyRevenueItem struct {
	Month  string          `json:"month"`
	Year   int             `json:"year"`
	Billed decimal.Decimal `json:"billed"`
	Paid   decimal.Decimal `json:"paid"`
}

type BillSummary struct {
	Id          ulid.ULID       `json:"id"`
	Number      string          `json:"number"`
	PatientName string          `json:"patientName"`
	Total       decimal.Decimal `json:"total"`
	Status      string          `json:"status"`
	IssuedAt    time.Time       `json:"issuedAt"`
}
