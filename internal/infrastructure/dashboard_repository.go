package infrastructure

import (
	"context"
	"time"

	"clinicdesk/internal/domain/billing"
	"clinicdesk/internal/domain/dashboard"
	appErrors "clinicdesk/internal/errors"
	"clinicdesk/internal/pkg"
	"clinicdesk/internal/pkg/query"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type DashboardRepository struct {
	DB *gorm.DB
}

var _ dashboard.Repository = (*DashboardRepository)(nil)

func (r *DashboardRepository) GetBillingTotals(ctx context.Context) (*dashboard.BillingTotals, error) {
	revenue, err := sumDecimal(r.DB.WithContext(ctx).Table("bills"), "SUM(paid_amount)")
	if err != nil {
		return nil, err
	}

	outstanding, err := sumDecimal(
		r.DB.WithContext(ctx).Table("bills").Where("status <> ?", string(billing.StatusPaid)),
		"SUM(GREATEST(total - paid_amount, 0))",
	)
	if err != nil {
		return nil, err
	}

	var unpaid int64
	if err := r.DB.WithContext(ctx).Table("bills").
		Where("status <> ?", string(billing.StatusPaid)).
		Count(&unpaid).Error; err != nil {
		return nil, appErrors.NewDatabaseError(err)
	}

	return &dashboard.BillingTotals{
		Revenue:     revenue,
		Outstanding: outstanding,
		UnpaidCount: unpaid,
	}, nil
}

func (r *DashboardRepository) GetMonthlyRevenue(ctx context.Context, months int) ([]*dashboard.MonthlyRevenueItem, error) {
	now := time.Now()
	items := make([]*dashboard.MonthlyRevenueItem, 0, months)

	for i := months - 1; i >= 0; i-- {
		targetDate := now.AddDate(0, -i, 0)
		startDate := time.Date(targetDate.Year(), targetDate.Month(), 1, 0, 0, 0, 0, time.UTC)
		endDate := startDate.AddDate(0, 1, 0)

		billed, err := sumDecimal(
			r.DB.WithContext(ctx).Table("bills").Where("issued_at >= ? AND issued_at < ?", startDate, endDate),
			"SUM(total)",
		)
		if err != nil {
			return nil, err
		}

		paid, err := sumDecimal(
			r.DB.WithContext(ctx).Table("bills").Where("issued_at >= ? AND issued_at < ?", startDate, endDate),
			"SUM(paid_amount)",
		)
		if err != nil {
			return nil, err
		}

		items = append(items, &dashboard.MonthlyRevenueItem{
			Month:  startDate.Month().String(),
			Year:   startDate.Year(),
			Billed: billed,
			Paid:   paid,
		})
	}

	return items, nil
}

func (r *DashboardRepository) GetRecentBills(ctx context.Context, limit int) ([]*dashboard.BillSummary, error) {
	q := query.New[billDB](r.DB, "bills").Context(ctx).Order("issued_at DESC, id DESC")
	items, err := query.ExecuteWithLimit(q, limit, func(row *billDB) (*dashboard.BillSummary, error) {
		id, err := pkg.ParseULID(row.Id)
		if err != nil {
			return nil, appErrors.ErrInternalServer.WithError(err)
		}
		return &dashboard.BillSummary{
			Id:          id,
			Number:      row.Number,
			PatientName: row.PatientName,
			Total:       row.Total,
			Status:      row.Status,
			IssuedAt:    row.IssuedAt,
		}, nil
	})
	if err != nil {
		return nil, txError(err)
	}
	return items, nil
}

func (r *DashboardRepository) CountLowStock(ctx context.Context) (int64, error) {
	count, err := query.New[medicineDB](r.DB, "medicines").
		Context(ctx).
		Where("stock <= reorder_level").
		Count()
	if err != nil {
		return 0, appErrors.NewDatabaseError(err)
	}
	return count, nil
}

func (r *DashboardRepository) GetBankBalance(ctx context.Context) (decimal.Decimal, error) {
	return sumDecimal(r.DB.WithContext(ctx).Table("bank_transactions"), signedAmountSQL)
}
