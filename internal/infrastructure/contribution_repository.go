package infrastructure

import (
	"context"
	"strings"
	"time"

	"clinicdesk/internal/domain/investment"
	appErrors "clinicdesk/internal/errors"
	"clinicdesk/internal/pkg"
	"clinicdesk/internal/pkg/query"

	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ContributionRepository struct {
	DB *gorm.DB
}

var _ investment.ContributionRepository = (*ContributionRepository)(nil)

type contributionDB struct {
	Id           string          `gorm:"type:varchar(26);primaryKey"`
	InvestmentId string          `gorm:"type:varchar(26);index;not null"`
	InvestorId   *string         `gorm:"type:varchar(26);index"`
	InvestorName string          `gorm:"size:120;not null"`
	Amount       decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	Date         time.Time       `gorm:"not null;index"`
	Category     string          `gorm:"size:80"`
	Note         string          `gorm:"type:text"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (contributionDB) TableName() string {
	return "contributions"
}

func toDomainContribution(cdb *contributionDB) (*investment.Contribution, error) {
	id, err := pkg.ParseULID(cdb.Id)
	if err != nil {
		return nil, appErrors.ErrInternalServer.WithError(err)
	}
	investmentID, err := pkg.ParseULID(cdb.InvestmentId)
	if err != nil {
		return nil, appErrors.ErrInternalServer.WithError(err)
	}
	investorID, err := pkg.MustParseULIDPtr(cdb.InvestorId)
	if err != nil {
		return nil, appErrors.ErrInternalServer.WithError(err)
	}
	return &investment.Contribution{
		Id:           id,
		InvestmentId: investmentID,
		InvestorId:   investorID,
		InvestorName: cdb.InvestorName,
		Amount:       cdb.Amount,
		Date:         cdb.Date,
		Category:     cdb.Category,
		Note:         cdb.Note,
		CreatedAt:    cdb.CreatedAt,
		UpdatedAt:    cdb.UpdatedAt,
	}, nil
}

func toDBContribution(c *investment.Contribution) *contributionDB {
	return &contributionDB{
		Id:           c.Id.String(),
		InvestmentId: c.InvestmentId.String(),
		InvestorId:   optionalID(c.InvestorId),
		InvestorName: c.InvestorName,
		Amount:       c.Amount,
		Date:         c.Date,
		Category:     c.Category,
		Note:         c.Note,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}

func (r *ContributionRepository) Create(ctx context.Context, c *investment.Contribution) error {
	if err := r.DB.WithContext(ctx).Table("contributions").Create(toDBContribution(c)).Error; err != nil {
		return appErrors.NewDatabaseError(err)
	}
	return nil
}

// CreateMany grava o lote inteiro ou nada.
func (r *ContributionRepository) CreateMany(ctx context.Context, contributions []*investment.Contribution) error {
	if len(contributions) == 0 {
		return nil
	}
	rows := make([]*contributionDB, 0, len(contributions))
	for _, c := range contributions {
		rows = append(rows, toDBContribution(c))
	}
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Table("contributions").CreateInBatches(rows, 200).Error
	})
	return txError(err)
}

func (r *ContributionRepository) Update(ctx context.Context, c *investment.Contribution) error {
	row := toDBContribution(c)
	return updateAll(r.DB.WithContext(ctx), "contributions", row.Id, row, appErrors.ErrContributionNotFound)
}

func (r *ContributionRepository) Delete(ctx context.Context, id ulid.ULID) error {
	return deleteByID(ctx, r.DB, "contributions", id.String(), &contributionDB{}, appErrors.ErrContributionNotFound)
}

func (r *ContributionRepository) GetByID(ctx context.Context, id ulid.ULID) (*investment.Contribution, error) {
	row, err := query.New[contributionDB](r.DB, "contributions").
		Context(ctx).
		Where("id = ?", id.String()).
		First()
	if err != nil {
		return nil, notFoundOr(err, appErrors.ErrContributionNotFound)
	}
	return toDomainContribution(row)
}

func (r *ContributionRepository) List(ctx context.Context, filters *investment.ContributionFilters, pagination *pkg.PaginationParams) ([]*investment.Contribution, int64, error) {
	pagination = pkg.NormalizePagination(pagination)
	q := r.filtered(ctx, filters).Order("date DESC, id DESC")

	result, err := query.Execute(q, query.NewPage(pagination.Page, pagination.Limit), toDomainContribution)
	if err != nil {
		return nil, 0, txError(err)
	}
	return result.Data, result.Total, nil
}

func (r *ContributionRepository) ListAll(ctx context.Context, filters *investment.ContributionFilters) ([]*investment.Contribution, error) {
	q := r.filtered(ctx, filters).Order("date ASC, id ASC")

	items, err := query.ExecuteAll(q, toDomainContribution)
	if err != nil {
		return nil, txError(err)
	}
	return items, nil
}

func (r *ContributionRepository) filtered(ctx context.Context, filters *investment.ContributionFilters) *query.Query[contributionDB] {
	q := query.New[contributionDB](r.DB, "contributions").Context(ctx)
	if filters == nil {
		return q
	}
	if filters.InvestmentId != nil {
		q = q.Where("investment_id = ?", filters.InvestmentId.String())
	}
	if name := strings.TrimSpace(filters.InvestorName); name != "" {
		q = q.Where("LOWER(investor_name) LIKE ?", likePattern(name))
	}
	if filters.From != nil {
		q = q.Where("date >= ?", *filters.From)
	}
	if filters.To != nil {
		q = q.Where("date <= ?", *filters.To)
	}
	return q
}
