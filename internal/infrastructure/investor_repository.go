package infrastructure

import (
	"context"
	"time"

	"clinicdesk/internal/domain/investor"
	"clinicdesk/internal/domain/shared"
	appErrors "clinicdesk/internal/errors"
	"clinicdesk/internal/pkg"

	"github.com/oklog/ulid/v2"
	"gorm.io/gorm"
)

type InvestorRepository struct {
	DB *gorm.DB
}

var _ investor.Repository = (*InvestorRepository)(nil)

type investorDB struct {
	Id        string `gorm:"type:varchar(26);primaryKey"`
	Name      string `gorm:"size:120;not null;index"`
	Phone     string `gorm:"size:30"`
	Email     string `gorm:"size:120"`
	Note      string `gorm:"type:text"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (investorDB) TableName() string {
	return "investors"
}

func toDomainInvestor(idb *investorDB) (*investor.Investor, error) {
	id, err := pkg.ParseULID(idb.Id)
	if err != nil {
		return nil, appErrors.ErrInternalServer.WithError(err)
	}
	return &investor.Investor{
		Id:        id,
		Name:      idb.Name,
		Phone:     idb.Phone,
		Email:     idb.Email,
		Note:      idb.Note,
		CreatedAt: idb.CreatedAt,
		UpdatedAt: idb.UpdatedAt,
	}, nil
}

func toDBInvestor(inv *investor.Investor) *investorDB {
	return &investorDB{
		Id:        inv.Id.String(),
		Name:      inv.Name,
		Phone:     inv.Phone,
		Email:     inv.Email,
		Note:      inv.Note,
		CreatedAt: inv.CreatedAt,
		UpdatedAt: inv.UpdatedAt,
	}
}

func (r *InvestorRepository) Create(ctx context.Context, inv *investor.Investor) error {
	if err := r.DB.WithContext(ctx).Table("investors").Create(toDBInvestor(inv)).Error; err != nil {
		if shared.IsUniqueConstraintError(err) {
			return appErrors.NewConflictError("investidor")
		}
		return appErrors.NewDatabaseError(err)
	}
	return nil
}

// Update grava o investidor e, quando renomeado, leva o novo nome às
// participações e contribuições vinculadas ao mesmo id.
func (r *InvestorRepository) Update(ctx context.Context, inv *investor.Investor, renamed bool) error {
	row := toDBInvestor(inv)
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := updateAll(tx, "investors", row.Id, row, appErrors.ErrInvestorNotFound); err != nil {
			return err
		}
		if !renamed {
			return nil
		}
		if err := tx.Table("investor_shares").
			Where("investor_id = ?", row.Id).
			Update("name", row.Name).Error; err != nil {
			return err
		}
		return tx.Table("contributions").
			Where("investor_id = ?", row.Id).
			Updates(map[string]interface{}{"investor_name": row.Name, "updated_at": time.Now()}).Error
	})
	return txError(err)
}

func (r *InvestorRepository) Delete(ctx context.Context, id ulid.ULID) error {
	return deleteByID(ctx, r.DB, "investors", id.String(), &investorDB{}, appErrors.ErrInvestorNotFound)
}

func (r *InvestorRepository) GetByID(ctx context.Context, id ulid.ULID) (*investor.Investor, error) {
	var row investorDB
	if err := r.DB.WithContext(ctx).Table("investors").Where("id = ?", id.String()).First(&row).Error; err != nil {
		return nil, notFoundOr(err, appErrors.ErrInvestorNotFound)
	}
	return toDomainInvestor(&row)
}

func (r *InvestorRepository) List(ctx context.Context, search string, pagination *pkg.PaginationParams) ([]*investor.Investor, int64, error) {
	baseQuery := r.DB.WithContext(ctx).Table("investors")
	if search != "" {
		pattern := likePattern(search)
		baseQuery = baseQuery.Where("(LOWER(name) LIKE ? OR LOWER(email) LIKE ? OR phone LIKE ?)", pattern, pattern, pattern)
	}

	items, total, err := pkg.Paginate(baseQuery, pagination, "name ASC", toDomainInvestor)
	if err != nil {
		return nil, 0, appErrors.NewDatabaseError(err)
	}
	return items, total, nil
}

func (r *InvestorRepository) CountShares(ctx context.Context, id ulid.ULID) (int64, error) {
	var count int64
	if err := r.DB.WithContext(ctx).Table("investor_shares").Where("investor_id = ?", id.String()).Count(&count).Error; err != nil {
		return 0, appErrors.NewDatabaseError(err)
	}
	return count, nil
}
