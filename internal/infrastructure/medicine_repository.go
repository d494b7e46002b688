package infrastructure

import (
	"context"
	"strings"
	"time"

	"clinicdesk/internal/domain/medicine"
	appErrors "clinicdesk/internal/errors"
	"clinicdesk/internal/pkg"
	"clinicdesk/internal/pkg/query"

	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type MedicineRepository struct {
	DB *gorm.DB
}

var _ medicine.Repository = (*MedicineRepository)(nil)

type medicineDB struct {
	Id           string          `gorm:"type:varchar(26);primaryKey"`
	Name         string          `gorm:"size:150;not null;index"`
	Category     string          `gorm:"size:80;index"`
	Unit         string          `gorm:"size:30"`
	Stock        int             `gorm:"not null;default:0;check:chk_medicines_stock,stock >= 0"`
	ReorderLevel int             `gorm:"not null;default:0"`
	UnitPrice    decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	ExpiryDate   *time.Time      `gorm:"index"`
	Supplier     string          `gorm:"size:120"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (medicineDB) TableName() string {
	return "medicines"
}

func toDomainMedicine(mdb *medicineDB) (*medicine.Medicine, error) {
	id, err := pkg.ParseULID(mdb.Id)
	if err != nil {
		return nil, appErrors.ErrInternalServer.WithError(err)
	}
	return &medicine.Medicine{
		Id:           id,
		Name:         mdb.Name,
		Category:     mdb.Category,
		Unit:         mdb.Unit,
		Stock:        mdb.Stock,
		ReorderLevel: mdb.ReorderLevel,
		UnitPrice:    mdb.UnitPrice,
		ExpiryDate:   mdb.ExpiryDate,
		Supplier:     mdb.Supplier,
		CreatedAt:    mdb.CreatedAt,
		UpdatedAt:    mdb.UpdatedAt,
	}, nil
}

func toDBMedicine(m *medicine.Medicine) *medicineDB {
	return &medicineDB{
		Id:           m.Id.String(),
		Name:         m.Name,
		Category:     m.Category,
		Unit:         m.Unit,
		Stock:        m.Stock,
		ReorderLevel: m.ReorderLevel,
		UnitPrice:    m.UnitPrice,
		ExpiryDate:   m.ExpiryDate,
		Supplier:     m.Supplier,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func (r *MedicineRepository) Create(ctx context.Context, m *medicine.Medicine) error {
	if err := r.DB.WithContext(ctx).Table("medicines").Create(toDBMedicine(m)).Error; err != nil {
		return appErrors.NewDatabaseError(err)
	}
	return nil
}

func (r *MedicineRepository) CreateMany(ctx context.Context, medicines []*medicine.Medicine) error {
	if len(medicines) == 0 {
		return nil
	}
	rows := make([]*medicineDB, 0, len(medicines))
	for _, m := range medicines {
		rows = append(rows, toDBMedicine(m))
	}
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Table("medicines").CreateInBatches(rows, 200).Error
	})
	return txError(err)
}

func (r *MedicineRepository) Update(ctx context.Context, m *medicine.Medicine) error {
	row := toDBMedicine(m)
	return updateAll(r.DB.WithContext(ctx), "medicines", row.Id, row, appErrors.ErrMedicineNotFound)
}

func (r *MedicineRepository) Delete(ctx context.Context, id ulid.ULID) error {
	return deleteByID(ctx, r.DB, "medicines", id.String(), &medicineDB{}, appErrors.ErrMedicineNotFound)
}

func (r *MedicineRepository) GetByID(ctx context.Context, id ulid.ULID) (*medicine.Medicine, error) {
	var row medicineDB
	if err := r.DB.WithContext(ctx).Table("medicines").Where("id = ?", id.String()).First(&row).Error; err != nil {
		return nil, notFoundOr(err, appErrors.ErrMedicineNotFound)
	}
	return toDomainMedicine(&row)
}

func (r *MedicineRepository) List(ctx context.Context, filters *medicine.Filters, pagination *pkg.PaginationParams) ([]*medicine.Medicine, int64, error) {
	baseQuery := r.DB.WithContext(ctx).Table("medicines")

	if filters != nil {
		if filters.Search != "" {
			pattern := likePattern(filters.Search)
			baseQuery = baseQuery.Where("(LOWER(name) LIKE ? OR LOWER(supplier) LIKE ?)", pattern, pattern)
		}
		if filters.Category != "" {
			baseQuery = baseQuery.Where("LOWER(category) = ?", strings.ToLower(strings.TrimSpace(filters.Category)))
		}
		if filters.LowStock {
			baseQuery = baseQuery.Where("stock <= reorder_level")
		}
	}

	items, total, err := pkg.Paginate(baseQuery, pagination, "name ASC", toDomainMedicine)
	if err != nil {
		return nil, 0, appErrors.NewDatabaseError(err)
	}
	return items, total, nil
}

func (r *MedicineRepository) ListAll(ctx context.Context) ([]*medicine.Medicine, error) {
	q := query.New[medicineDB](r.DB, "medicines").Context(ctx).Order("name ASC")
	items, err := query.ExecuteAll(q, toDomainMedicine)
	if err != nil {
		return nil, txError(err)
	}
	return items, nil
}

// AdjustStock aplica o delta só se o estoque resultante não ficar negativo,
// numa única instrução; requisições concorrentes não conseguem furar o limite.
func (r *MedicineRepository) AdjustStock(ctx context.Context, id ulid.ULID, delta int) (*medicine.Medicine, error) {
	result := r.DB.WithContext(ctx).Table("medicines").
		Where("id = ? AND stock + ? >= 0", id.String(), delta).
		Updates(map[string]interface{}{
			"stock":      gorm.Expr("stock + ?", delta),
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return nil, appErrors.NewDatabaseError(result.Error)
	}

	current, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if result.RowsAffected == 0 {
		return nil, appErrors.ErrInsufficientStock.WithDetails(map[string]interface{}{
			"medicine":  current.Name,
			"available": current.Stock,
			"requested": -delta,
		})
	}
	return current, nil
}

func (r *MedicineRepository) LowStock(ctx context.Context) ([]*medicine.Medicine, error) {
	q := query.New[medicineDB](r.DB, "medicines").
		Context(ctx).
		Where("stock <= reorder_level").
		Order("stock ASC, name ASC")
	items, err := query.ExecuteAll(q, toDomainMedicine)
	if err != nil {
		return nil, txError(err)
	}
	return items, nil
}

func (r *MedicineRepository) ExpiringBefore(ctx context.Context, limit time.Time) ([]*medicine.Medicine, error) {
	q := query.New[medicineDB](r.DB, "medicines").
		Context(ctx).
		Where("expiry_date IS NOT NULL AND expiry_date <= ?", limit).
		Order("expiry_date ASC")
	items, err := query.ExecuteAll(q, toDomainMedicine)
	if err != nil {
		return nil, txError(err)
	}
	return items, nil
}
