package infrastructure

import (
	"context"
	"time"

	"clinicdesk/internal/domain/catalog"
	appErrors "clinicdesk/internal/errors"
	"clinicdesk/internal/pkg"

	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CatalogRepository struct {
	DB *gorm.DB
}

var _ catalog.Repository = (*CatalogRepository)(nil)

type serviceItemDB struct {
	Id        string          `gorm:"type:varchar(26);primaryKey"`
	Name      string          `gorm:"size:150;not null"`
	Category  string          `gorm:"size:80"`
	Kind      string          `gorm:"type:varchar(10);index;not null"`
	Price     decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	Active    bool            `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (serviceItemDB) TableName() string {
	return "service_items"
}

func toDomainServiceItem(sdb *serviceItemDB) (*catalog.ServiceItem, error) {
	id, err := pkg.ParseULID(sdb.Id)
	if err != nil {
		return nil, appErrors.ErrInternalServer.WithError(err)
	}
	return &catalog.ServiceItem{
		Id:        id,
		Name:      sdb.Name,
		Category:  sdb.Category,
		Kind:      catalog.Kind(sdb.Kind),
		Price:     sdb.Price,
		Active:    sdb.Active,
		CreatedAt: sdb.CreatedAt,
		UpdatedAt: sdb.UpdatedAt,
	}, nil
}

func toDBServiceItem(item *catalog.ServiceItem) *serviceItemDB {
	return &serviceItemDB{
		Id:        item.Id.String(),
		Name:      item.Name,
		Category:  item.Category,
		Kind:      string(item.Kind),
		Price:     item.Price,
		Active:    item.Active,
		CreatedAt: item.CreatedAt,
		UpdatedAt: item.UpdatedAt,
	}
}

func (r *CatalogRepository) Create(ctx context.Context, item *catalog.ServiceItem) error {
	if err := r.DB.WithContext(ctx).Table("service_items").Create(toDBServiceItem(item)).Error; err != nil {
		return appErrors.NewDatabaseError(err)
	}
	return nil
}

func (r *CatalogRepository) Update(ctx context.Context, item *catalog.ServiceItem) error {
	row := toDBServiceItem(item)
	return updateAll(r.DB.WithContext(ctx), "service_items", row.Id, row, appErrors.ErrServiceItemNotFound)
}

func (r *CatalogRepository) Delete(ctx context.Context, kind catalog.Kind, id ulid.ULID) error {
	result := r.byKind(ctx, kind).Where("id = ?", id.String()).Delete(&serviceItemDB{})
	if result.Error != nil {
		return appErrors.NewDatabaseError(result.Error)
	}
	if result.RowsAffected == 0 {
		return appErrors.ErrServiceItemNotFound
	}
	return nil
}

func (r *CatalogRepository) GetByID(ctx context.Context, kind catalog.Kind, id ulid.ULID) (*catalog.ServiceItem, error) {
	var row serviceItemDB
	if err := r.byKind(ctx, kind).Where("id = ?", id.String()).First(&row).Error; err != nil {
		return nil, notFoundOr(err, appErrors.ErrServiceItemNotFound)
	}
	return toDomainServiceItem(&row)
}

func (r *CatalogRepository) List(ctx context.Context, filters *catalog.Filters, pagination *pkg.PaginationParams) ([]*catalog.ServiceItem, int64, error) {
	var kind catalog.Kind
	if filters != nil {
		kind = filters.Kind
	}
	baseQuery := r.byKind(ctx, kind)

	if filters != nil {
		if filters.Search != "" {
			pattern := likePattern(filters.Search)
			baseQuery = baseQuery.Where("(LOWER(name) LIKE ? OR LOWER(category) LIKE ?)", pattern, pattern)
		}
		if filters.OnlyActive {
			baseQuery = baseQuery.Where("active = ?", true)
		}
	}

	items, total, err := pkg.Paginate(baseQuery, pagination, "name ASC", toDomainServiceItem)
	if err != nil {
		return nil, 0, appErrors.NewDatabaseError(err)
	}
	return items, total, nil
}

// byKind restringe ao tipo informado; vazio aceita qualquer tipo.
func (r *CatalogRepository) byKind(ctx context.Context, kind catalog.Kind) *gorm.DB {
	db := r.DB.WithContext(ctx).Table("service_items")
	if kind != "" {
		db = db.Where("kind = ?", string(kind))
	}
	return db
}
