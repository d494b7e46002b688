package medicine

import (
	"context"
	"time"

	"clinicdesk/internal/pkg"

	"github.com/oklog/ulid/v2"
)

type Repository interface {
	Create(ctx context.Context, medicine *Medicine) error
	CreateMany(ctx context.Context, medicines []*Medicine) error
	Update(ctx context.Context, medicine *Medicine) error
	Delete(ctx context.Context, id ulid.ULID) error
	GetByID(ctx context.Context, id ulid.ULID) (*Medicine, error)
	List(ctx context.Context, filters *Filters, pagination *pkg.PaginationParams) ([]*Medicine, int64, error)
	ListAll(ctx context.Context) ([]*Medicine, error)
	// AdjustStock soma delta ao estoque numa única instrução condicional;
	// retorna ErrInsufficientStock quando o resultado ficaria negativo.
	AdjustStock(ctx context.Context, id ulid.ULID, delta int) (*Medicine, error)
	LowStock(ctx context.Context) ([]*Medicine, error)
	ExpiringBefore(ctx context.Context, limit time.Time) ([]*Medicine, error)
}
