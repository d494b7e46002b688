package catalog

import (
	"context"

	"clinicdesk/internal/pkg"

	"github.com/oklog/ulid/v2"
)

type Repository interface {
	Create(ctx context.Context, item *ServiceItem) error
	Update(ctx context.Context, item *ServiceItem) error
	Delete(ctx context.Context, kind Kind, id ulid.ULID) error
	GetByID(ctx context.Context, kind Kind, id ulid.ULID) (*ServiceItem, error)
	List(ctx context.Context, filters *Filters, pagination *pkg.PaginationParams) ([]*ServiceItem, int64, error)
}
