package infrastructure

import (
	"context"
	"strings"
	"time"

	"clinicdesk/internal/domain/investment"
	appErrors "clinicdesk/internal/errors"
	"clinicdesk/internal/pkg"

	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type InvestmentRepository struct {
	DB *gorm.DB
}

var _ investment.Repository = (*InvestmentRepository)(nil)

type investmentDB struct {
	Id           string          `gorm:"type:varchar(26);primaryKey"`
	Title        string          `gorm:"size:150;not null"`
	Category     string          `gorm:"size:80;index"`
	Amount       decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	InvestorName string          `gorm:"size:120"`
	Status       string          `gorm:"type:varchar(10);index;not null"`
	StartDate    time.Time       `gorm:"not null;index"`
	EndDate      *time.Time      `gorm:"index"`
	Note         string          `gorm:"type:text"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (investmentDB) TableName() string {
	return "investments"
}

type investorShareDB struct {
	Id              string          `gorm:"type:varchar(26);primaryKey"`
	InvestmentId    string          `gorm:"type:varchar(26);index;not null"`
	InvestorId      *string         `gorm:"type:varchar(26);index"`
	Name            string          `gorm:"size:120;not null"`
	SharePercentage decimal.Decimal `gorm:"type:numeric(7,2);not null;default:0"`
	Amount          decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	Position        int             `gorm:"not null;default:0"`
}

func (investorShareDB) TableName() string {
	return "investor_shares"
}

func toDomainInvestment(idb *investmentDB) (*investment.Investment, error) {
	id, err := pkg.ParseULID(idb.Id)
	if err != nil {
		return nil, appErrors.ErrInternalServer.WithError(err)
	}
	return &investment.Investment{
		Id:           id,
		Title:        idb.Title,
		Category:     idb.Category,
		Amount:       idb.Amount,
		InvestorName: idb.InvestorName,
		Shares:       []investment.InvestorShare{},
		Status:       investment.Status(idb.Status),
		StartDate:    idb.StartDate,
		EndDate:      idb.EndDate,
		Note:         idb.Note,
		CreatedAt:    idb.CreatedAt,
		UpdatedAt:    idb.UpdatedAt,
	}, nil
}

func toDBInvestment(inv *investment.Investment) *investmentDB {
	return &investmentDB{
		Id:           inv.Id.String(),
		Title:        inv.Title,
		Category:     inv.Category,
		Amount:       inv.Amount,
		InvestorName: inv.InvestorName,
		Status:       string(inv.Status),
		StartDate:    inv.StartDate,
		EndDate:      inv.EndDate,
		Note:         inv.Note,
		CreatedAt:    inv.CreatedAt,
		UpdatedAt:    inv.UpdatedAt,
	}
}

func toDomainShare(sdb *investorShareDB) (investment.InvestorShare, error) {
	id, err := pkg.ParseULID(sdb.Id)
	if err != nil {
		return investment.InvestorShare{}, appErrors.ErrInternalServer.WithError(err)
	}
	investorID, err := pkg.MustParseULIDPtr(sdb.InvestorId)
	if err != nil {
		return investment.InvestorShare{}, appErrors.ErrInternalServer.WithError(err)
	}
	return investment.InvestorShare{
		Id:              id,
		InvestorId:      investorID,
		Name:            sdb.Name,
		SharePercentage: sdb.SharePercentage,
		Amount:          sdb.Amount,
	}, nil
}

func toDBShares(inv *investment.Investment) []investorShareDB {
	rows := make([]investorShareDB, 0, len(inv.Shares))
	for i, s := range inv.Shares {
		rows = append(rows, investorShareDB{
			Id:              s.Id.String(),
			InvestmentId:    inv.Id.String(),
			InvestorId:      optionalID(s.InvestorId),
			Name:            s.Name,
			SharePercentage: s.SharePercentage,
			Amount:          s.Amount,
			Position:        i,
		})
	}
	return rows
}

func (r *InvestmentRepository) Create(ctx context.Context, inv *investment.Investment) error {
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Table("investments").Create(toDBInvestment(inv)).Error; err != nil {
			return err
		}
		return insertShares(tx, inv)
	})
	return txError(err)
}

func (r *InvestmentRepository) Update(ctx context.Context, inv *investment.Investment) error {
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return saveInvestment(tx, inv)
	})
	return txError(err)
}

// UpdateMany grava todos os investimentos numa única transação; se um falhar
// nenhum é alterado.
func (r *InvestmentRepository) UpdateMany(ctx context.Context, investments []*investment.Investment) error {
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, inv := range investments {
			if err := saveInvestment(tx, inv); err != nil {
				return err
			}
		}
		return nil
	})
	return txError(err)
}

func (r *InvestmentRepository) Delete(ctx context.Context, id ulid.ULID) error {
	deleted, err := r.deleteIDs(ctx, []string{id.String()})
	if err != nil {
		return err
	}
	if deleted == 0 {
		return appErrors.ErrInvestmentNotFound
	}
	return nil
}

func (r *InvestmentRepository) BulkDelete(ctx context.Context, ids []ulid.ULID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	return r.deleteIDs(ctx, idStrings(ids))
}

// deleteIDs remove investimentos com suas participações e contribuições.
func (r *InvestmentRepository) deleteIDs(ctx context.Context, ids []string) (int64, error) {
	var deleted int64
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Table("contributions").Where("investment_id IN ?", ids).Delete(&contributionDB{}).Error; err != nil {
			return err
		}
		if err := tx.Table("investor_shares").Where("investment_id IN ?", ids).Delete(&investorShareDB{}).Error; err != nil {
			return err
		}
		result := tx.Table("investments").Where("id IN ?", ids).Delete(&investmentDB{})
		if result.Error != nil {
			return result.Error
		}
		deleted = result.RowsAffected
		return nil
	})
	if err != nil {
		return 0, txError(err)
	}
	return deleted, nil
}

func (r *InvestmentRepository) GetByID(ctx context.Context, id ulid.ULID) (*investment.Investment, error) {
	var row investmentDB
	if err := r.DB.WithContext(ctx).Table("investments").Where("id = ?", id.String()).First(&row).Error; err != nil {
		return nil, notFoundOr(err, appErrors.ErrInvestmentNotFound)
	}
	inv, err := toDomainInvestment(&row)
	if err != nil {
		return nil, err
	}
	if err := r.attachShares(ctx, []*investment.Investment{inv}); err != nil {
		return nil, err
	}
	return inv, nil
}

func (r *InvestmentRepository) List(ctx context.Context, filters *investment.Filters, pagination *pkg.PaginationParams) ([]*investment.Investment, int64, error) {
	baseQuery := r.DB.WithContext(ctx).Table("investments")

	if filters != nil {
		if filters.Status != "" {
			baseQuery = baseQuery.Where("status = ?", string(filters.Status))
		}
		if filters.Category != "" {
			baseQuery = baseQuery.Where("LOWER(category) = ?", strings.ToLower(strings.TrimSpace(filters.Category)))
		}
		if filters.Search != "" {
			pattern := likePattern(filters.Search)
			baseQuery = baseQuery.Where(
				"(LOWER(title) LIKE ? OR LOWER(investor_name) LIKE ? OR EXISTS (SELECT 1 FROM investor_shares s WHERE s.investment_id = investments.id AND LOWER(s.name) LIKE ?))",
				pattern, pattern, pattern,
			)
		}
	}

	items, total, err := pkg.Paginate(baseQuery, pagination, "start_date DESC, id DESC", toDomainInvestment)
	if err != nil {
		return nil, 0, appErrors.NewDatabaseError(err)
	}
	if err := r.attachShares(ctx, items); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *InvestmentRepository) ListAll(ctx context.Context) ([]*investment.Investment, error) {
	var rows []investmentDB
	if err := r.DB.WithContext(ctx).Table("investments").Order("start_date ASC, id ASC").Find(&rows).Error; err != nil {
		return nil, appErrors.NewDatabaseError(err)
	}

	items := make([]*investment.Investment, 0, len(rows))
	for i := range rows {
		inv, err := toDomainInvestment(&rows[i])
		if err != nil {
			return nil, err
		}
		items = append(items, inv)
	}
	if err := r.attachShares(ctx, items); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *InvestmentRepository) attachShares(ctx context.Context, items []*investment.Investment) error {
	if len(items) == 0 {
		return nil
	}

	byID := make(map[string]*investment.Investment, len(items))
	ids := make([]string, 0, len(items))
	for _, inv := range items {
		key := inv.Id.String()
		byID[key] = inv
		ids = append(ids, key)
	}

	var rows []investorShareDB
	if err := r.DB.WithContext(ctx).Table("investor_shares").
		Where("investment_id IN ?", ids).
		Order("investment_id, position").
		Find(&rows).Error; err != nil {
		return appErrors.NewDatabaseError(err)
	}

	for i := range rows {
		share, err := toDomainShare(&rows[i])
		if err != nil {
			return err
		}
		inv := byID[rows[i].InvestmentId]
		inv.Shares = append(inv.Shares, share)
	}
	return nil
}

func saveInvestment(tx *gorm.DB, inv *investment.Investment) error {
	row := toDBInvestment(inv)
	if err := updateAll(tx, "investments", row.Id, row, appErrors.ErrInvestmentNotFound); err != nil {
		return err
	}
	if err := tx.Table("investor_shares").Where("investment_id = ?", row.Id).Delete(&investorShareDB{}).Error; err != nil {
		return err
	}
	return insertShares(tx, inv)
}

func insertShares(tx *gorm.DB, inv *investment.Investment) error {
	rows := toDBShares(inv)
	if len(rows) == 0 {
		return nil
	}
	return tx.Table("investor_shares").Create(&rows).Error
}
