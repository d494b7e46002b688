package billing

import (
	"context"

	"clinicdesk/internal/pkg"

	"github.com/oklog/ulid/v2"
)

type Repository interface {
	Create(ctx context.Context, bill *Bill) error
	// Update regrava a fatura e substitui os itens na mesma transação.
	Update(ctx context.Context, bill *Bill) error
	UpdatePayment(ctx context.Context, bill *Bill) error
	Delete(ctx context.Context, id ulid.ULID) error
	GetByID(ctx context.Context, id ulid.ULID) (*Bill, error)
	List(ctx context.Context, filters *Filters, pagination *pkg.PaginationParams) ([]*Bill, int64, error)
}
