package infrastructure

import (
	"context"
	"time"

	"clinicdesk/internal/domain/bank"
	appErrors "clinicdesk/internal/errors"
	"clinicdesk/internal/pkg"
	"clinicdesk/internal/pkg/query"

	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const signedAmountSQL = "SUM(CASE WHEN type = 'WITHDRAWAL' THEN -amount ELSE amount END)"

type BankRepository struct {
	DB *gorm.DB
}

var _ bank.Repository = (*BankRepository)(nil)

type bankTransactionDB struct {
	Id          string          `gorm:"type:varchar(26);primaryKey"`
	Date        time.Time       `gorm:"not null;index"`
	Type        string          `gorm:"type:varchar(12);not null"`
	Amount      decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	Description string          `gorm:"size:200;not null"`
	Reference   string          `gorm:"size:80"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (bankTransactionDB) TableName() string {
	return "bank_transactions"
}

func toDomainBankTransaction(tdb *bankTransactionDB) (*bank.Transaction, error) {
	id, err := pkg.ParseULID(tdb.Id)
	if err != nil {
		return nil, appErrors.ErrInternalServer.WithError(err)
	}
	return &bank.Transaction{
		Id:          id,
		Date:        tdb.Date,
		Type:        bank.Type(tdb.Type),
		Amount:      tdb.Amount,
		Description: tdb.Description,
		Reference:   tdb.Reference,
		CreatedAt:   tdb.CreatedAt,
		UpdatedAt:   tdb.UpdatedAt,
	}, nil
}

func toDBBankTransaction(t *bank.Transaction) *bankTransactionDB {
	return &bankTransactionDB{
		Id:          t.Id.String(),
		Date:        t.Date,
		Type:        string(t.Type),
		Amount:      t.Amount,
		Description: t.Description,
		Reference:   t.Reference,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func (r *BankRepository) Create(ctx context.Context, t *bank.Transaction) error {
	if err := r.DB.WithContext(ctx).Table("bank_transactions").Create(toDBBankTransaction(t)).Error; err != nil {
		return appErrors.NewDatabaseError(err)
	}
	return nil
}

func (r *BankRepository) Update(ctx context.Context, t *bank.Transaction) error {
	row := toDBBankTransaction(t)
	return updateAll(r.DB.WithContext(ctx), "bank_transactions", row.Id, row, appErrors.ErrBankTransactionNotFound)
}

func (r *BankRepository) Delete(ctx context.Context, id ulid.ULID) error {
	return deleteByID(ctx, r.DB, "bank_transactions", id.String(), &bankTransactionDB{}, appErrors.ErrBankTransactionNotFound)
}

func (r *BankRepository) GetByID(ctx context.Context, id ulid.ULID) (*bank.Transaction, error) {
	row, err := query.New[bankTransactionDB](r.DB, "bank_transactions").
		Context(ctx).
		Where("id = ?", id.String()).
		First()
	if err != nil {
		return nil, notFoundOr(err, appErrors.ErrBankTransactionNotFound)
	}
	return toDomainBankTransaction(row)
}

func (r *BankRepository) List(ctx context.Context, filters *bank.Filters, pagination *pkg.PaginationParams) ([]*bank.Transaction, int64, error) {
	pagination = pkg.NormalizePagination(pagination)
	q := query.New[bankTransactionDB](r.DB, "bank_transactions").Context(ctx).Order("date ASC, id ASC")
	if filters != nil {
		if filters.From != nil {
			q = q.Where("date >= ?", *filters.From)
		}
		if filters.To != nil {
			q = q.Where("date <= ?", *filters.To)
		}
	}

	result, err := query.Execute(q, query.NewPage(pagination.Page, pagination.Limit), toDomainBankTransaction)
	if err != nil {
		return nil, 0, txError(err)
	}
	return result.Data, result.Total, nil
}

func (r *BankRepository) BalanceBefore(ctx context.Context, t *bank.Transaction) (decimal.Decimal, error) {
	q := r.DB.WithContext(ctx).Table("bank_transactions").
		Where("date < ? OR (date = ? AND id < ?)", t.Date, t.Date, t.Id.String())
	return sumDecimal(q, signedAmountSQL)
}

func (r *BankRepository) Balance(ctx context.Context) (decimal.Decimal, error) {
	return sumDecimal(r.DB.WithContext(ctx).Table("bank_transactions"), signedAmountSQL)
}
