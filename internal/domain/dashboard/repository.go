package dashboard

import (
	"context"

	"github.com/shopspring/decimal"
)

type Repository interface {
	GetBillingTotals(ctx context.Context) (*BillingTotals, error)
	GetMonthlyRevenue(ctx context.Context, months int) ([]*MonthlyRevenueItem, error)
	GetRecentBills(ctx context.Context, limit int) ([]*BillSummary, error)
	CountLowStock(ctx context.Context) (int64, error)
	GetBankBalance(ctx context.Context) (decimal.Decimal, error)
}
