package infrastructure

import (
	"context"
	"time"

	"clinicdesk/internal/domain/billing"
	appErrors "clinicdesk/internal/errors"
	"clinicdesk/internal/pkg"

	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type BillRepository struct {
	DB *gorm.DB
}

var _ billing.Repository = (*BillRepository)(nil)

type billDB struct {
	Id                string          `gorm:"type:varchar(26);primaryKey"`
	Number            string          `gorm:"size:40;uniqueIndex:idx_bills_number;not null"`
	PatientName       string          `gorm:"size:150;not null;index"`
	DiscountType      string          `gorm:"type:varchar(12)"`
	DiscountValue     decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	Subtotal          decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	DiscountAmount    decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	Total             decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	PaidAmount        decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	Status            string          `gorm:"type:varchar(10);index;not null"`
	Currency          string          `gorm:"type:varchar(3)"`
	SecondaryCurrency string          `gorm:"type:varchar(3)"`
	ExchangeRate      decimal.Decimal `gorm:"type:numeric(18,6);not null;default:0"`
	SecondaryTotal    decimal.Decimal `gorm:"type:numeric(18,2);not null;default:0"`
	IssuedAt          time.Time       `gorm:"not null;index"`
	Note              string          `gorm:"type:text"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (billDB) TableName() string {
	return "bills"
}

type billItemDB struct {
	Id          string          `gorm:"type:varchar(26);primaryKey"`
	BillId      string          `gorm:"type:varchar(26);index;not null"`
	Kind        string          `gorm:"type:varchar(10);not null"`
	RefId       *string         `gorm:"type:varchar(26);index"`
	Description string          `gorm:"size:200;not null"`
	Quantity    int             `gorm:"not null"`
	UnitPrice   decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	LineTotal   decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	Position    int             `gorm:"not null;default:0"`
}

func (billItemDB) TableName() string {
	return "bill_items"
}

func toDomainBill(bdb *billDB) (*billing.Bill, error) {
	id, err := pkg.ParseULID(bdb.Id)
	if err != nil {
		return nil, appErrors.ErrInternalServer.WithError(err)
	}
	return &billing.Bill{
		Id:                id,
		Number:            bdb.Number,
		PatientName:       bdb.PatientName,
		Items:             []billing.BillItem{},
		DiscountType:      billing.DiscountType(bdb.DiscountType),
		DiscountValue:     bdb.DiscountValue,
		Subtotal:          bdb.Subtotal,
		DiscountAmount:    bdb.DiscountAmount,
		Total:             bdb.Total,
		PaidAmount:        bdb.PaidAmount,
		Status:            billing.Status(bdb.Status),
		Currency:          bdb.Currency,
		SecondaryCurrency: bdb.SecondaryCurrency,
		ExchangeRate:      bdb.ExchangeRate,
		SecondaryTotal:    bdb.SecondaryTotal,
		IssuedAt:          bdb.IssuedAt,
		Note:              bdb.Note,
		CreatedAt:         bdb.CreatedAt,
		UpdatedAt:         bdb.UpdatedAt,
	}, nil
}

func toDBBill(b *billing.Bill) *billDB {
	return &billDB{
		Id:                b.Id.String(),
		Number:            b.Number,
		PatientName:       b.PatientName,
		DiscountType:      string(b.DiscountType),
		DiscountValue:     b.DiscountValue,
		Subtotal:          b.Subtotal,
		DiscountAmount:    b.DiscountAmount,
		Total:             b.Total,
		PaidAmount:        b.PaidAmount,
		Status:            string(b.Status),
		Currency:          b.Currency,
		SecondaryCurrency: b.SecondaryCurrency,
		ExchangeRate:      b.ExchangeRate,
		SecondaryTotal:    b.SecondaryTotal,
		IssuedAt:          b.IssuedAt,
		Note:              b.Note,
		CreatedAt:         b.CreatedAt,
		UpdatedAt:         b.UpdatedAt,
	}
}

func toDomainBillItem(idb *billItemDB) (billing.BillItem, error) {
	id, err := pkg.ParseULID(idb.Id)
	if err != nil {
		return billing.BillItem{}, appErrors.ErrInternalServer.WithError(err)
	}
	refID, err := pkg.MustParseULIDPtr(idb.RefId)
	if err != nil {
		return billing.BillItem{}, appErrors.ErrInternalServer.WithError(err)
	}
	return billing.BillItem{
		Id:          id,
		Kind:        billing.ItemKind(idb.Kind),
		RefId:       refID,
		Description: idb.Description,
		Quantity:    idb.Quantity,
		UnitPrice:   idb.UnitPrice,
		LineTotal:   idb.LineTotal,
	}, nil
}

func toDBBillItems(b *billing.Bill) []billItemDB {
	rows := make([]billItemDB, 0, len(b.Items))
	for i, item := range b.Items {
		rows = append(rows, billItemDB{
			Id:          item.Id.String(),
			BillId:      b.Id.String(),
			Kind:        string(item.Kind),
			RefId:       optionalID(item.RefId),
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			LineTotal:   item.LineTotal,
			Position:    i,
		})
	}
	return rows
}

func (r *BillRepository) Create(ctx context.Context, b *billing.Bill) error {
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Table("bills").Create(toDBBill(b)).Error; err != nil {
			return err
		}
		return insertBillItems(tx, b)
	})
	return txError(err)
}

func (r *BillRepository) Update(ctx context.Context, b *billing.Bill) error {
	row := toDBBill(b)
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := updateAll(tx, "bills", row.Id, row, appErrors.ErrBillNotFound); err != nil {
			return err
		}
		if err := tx.Table("bill_items").Where("bill_id = ?", row.Id).Delete(&billItemDB{}).Error; err != nil {
			return err
		}
		return insertBillItems(tx, b)
	})
	return txError(err)
}

func (r *BillRepository) UpdatePayment(ctx context.Context, b *billing.Bill) error {
	result := r.DB.WithContext(ctx).Table("bills").
		Where("id = ?", b.Id.String()).
		Updates(map[string]interface{}{
			"paid_amount": b.PaidAmount,
			"status":      string(b.Status),
			"updated_at":  b.UpdatedAt,
		})
	if result.Error != nil {
		return appErrors.NewDatabaseError(result.Error)
	}
	if result.RowsAffected == 0 {
		return appErrors.ErrBillNotFound
	}
	return nil
}

func (r *BillRepository) Delete(ctx context.Context, id ulid.ULID) error {
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Table("bill_items").Where("bill_id = ?", id.String()).Delete(&billItemDB{}).Error; err != nil {
			return err
		}
		result := tx.Table("bills").Where("id = ?", id.String()).Delete(&billDB{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return appErrors.ErrBillNotFound
		}
		return nil
	})
	return txError(err)
}

func (r *BillRepository) GetByID(ctx context.Context, id ulid.ULID) (*billing.Bill, error) {
	var row billDB
	if err := r.DB.WithContext(ctx).Table("bills").Where("id = ?", id.String()).First(&row).Error; err != nil {
		return nil, notFoundOr(err, appErrors.ErrBillNotFound)
	}
	bill, err := toDomainBill(&row)
	if err != nil {
		return nil, err
	}
	if err := r.attachItems(ctx, []*billing.Bill{bill}); err != nil {
		return nil, err
	}
	return bill, nil
}

func (r *BillRepository) List(ctx context.Context, filters *billing.Filters, pagination *pkg.PaginationParams) ([]*billing.Bill, int64, error) {
	baseQuery := r.DB.WithContext(ctx).Table("bills")

	if filters != nil {
		if filters.Status != "" {
			baseQuery = baseQuery.Where("status = ?", string(filters.Status))
		}
		if filters.Search != "" {
			pattern := likePattern(filters.Search)
			baseQuery = baseQuery.Where("(LOWER(patient_name) LIKE ? OR LOWER(number) LIKE ?)", pattern, pattern)
		}
		if filters.From != nil {
			baseQuery = baseQuery.Where("issued_at >= ?", *filters.From)
		}
		if filters.To != nil {
			baseQuery = baseQuery.Where("issued_at < ?", filters.To.AddDate(0, 0, 1))
		}
	}

	items, total, err := pkg.Paginate(baseQuery, pagination, "issued_at DESC, id DESC", toDomainBill)
	if err != nil {
		return nil, 0, appErrors.NewDatabaseError(err)
	}
	if err := r.attachItems(ctx, items); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *BillRepository) attachItems(ctx context.Context, bills []*billing.Bill) error {
	if len(bills) == 0 {
		return nil
	}

	byID := make(map[string]*billing.Bill, len(bills))
	ids := make([]string, 0, len(bills))
	for _, b := range bills {
		key := b.Id.String()
		byID[key] = b
		ids = append(ids, key)
	}

	var rows []billItemDB
	if err := r.DB.WithContext(ctx).Table("bill_items").
		Where("bill_id IN ?", ids).
		Order("bill_id, position").
		Find(&rows).Error; err != nil {
		return appErrors.NewDatabaseError(err)
	}

	for i := range rows {
		item, err := toDomainBillItem(&rows[i])
		if err != nil {
			return err
		}
		b := byID[rows[i].BillId]
		b.Items = append(b.Items, item)
	}
	return nil
}

func insertBillItems(tx *gorm.DB, b *billing.Bill) error {
	rows := toDBBillItems(b)
	if len(rows) == 0 {
		return nil
	}
	return tx.Table("bill_items").Create(&rows).Error
}
