package investor

import (
	"context"

	"clinicdesk/internal/pkg"

	"github.com/oklog/ulid/v2"
)

type Repository interface {
	Create(ctx context.Context, investor *Investor) error
	// Update grava o investidor; com renamed, o novo nome também é
	// propagado para participações e contribuições na mesma transação.
	Update(ctx context.Context, investor *Investor, renamed bool) error
	Delete(ctx context.Context, id ulid.ULID) error
	GetByID(ctx context.Context, id ulid.ULID) (*Investor, error)
	List(ctx context.Context, search string, pagination *pkg.PaginationParams) ([]*Investor, int64, error)
	CountShares(ctx context.Context, id ulid.ULID) (int64, error)
}
