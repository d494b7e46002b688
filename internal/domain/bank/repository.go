package bank

import (
	"context"

	"clinicdesk/internal/pkg"

	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
)

type Repository interface {
	Create(ctx context.Context, tx *Transaction) error
	Update(ctx context.Context, tx *Transaction) error
	Delete(ctx context.Context, id ulid.ULID) error
	GetByID(ctx context.Context, id ulid.ULID) (*Transaction, error)
	// List devolve a página em ordem cronológica (data, id).
	List(ctx context.Context, filters *Filters, pagination *pkg.PaginationParams) ([]*Transaction, int64, error)
	// BalanceBefore soma as movimentações anteriores a tx na mesma ordem de List.
	BalanceBefore(ctx context.Context, tx *Transaction) (decimal.Decimal, error)
	Balance(ctx context.Context) (decimal.Decimal, error)
}
