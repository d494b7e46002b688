package investment

import (
	"context"

	"clinicdesk/internal/pkg"

	"github.com/oklog/ulid/v2"
)

type Repository interface {
	Create(ctx context.Context, investment *Investment) error
	Update(ctx context.Context, investment *Investment) error
	UpdateMany(ctx context.Context, investments []*Investment) error
	Delete(ctx context.Context, id ulid.ULID) error
	BulkDelete(ctx context.Context, ids []ulid.ULID) (int64, error)
	GetByID(ctx context.Context, id ulid.ULID) (*Investment, error)
	List(ctx context.Context, filters *Filters, pagination *pkg.PaginationParams) ([]*Investment, int64, error)
	ListAll(ctx context.Context) ([]*Investment, error)
}

type ContributionRepository interface {
	Create(ctx context.Context, contribution *Contribution) error
	CreateMany(ctx context.Context, contributions []*Contribution) error
	Update(ctx context.Context, contribution *Contribution) error
	Delete(ctx context.Context, id ulid.ULID) error
	GetByID(ctx context.Context, id ulid.ULID) (*Contribution, error)
	List(ctx context.Context, filters *ContributionFilters, pagination *pkg.PaginationParams) ([]*Contribution, int64, error)
	ListAll(ctx context.Context, filters *ContributionFilters) ([]*Contribution, error)
}
