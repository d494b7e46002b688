package bank

import (
	"context"
	"fmt"
	"strings"

	"clinicdesk/internal/domain/shared"
	appErrors "clinicdesk/internal/errors"
	"clinicdesk/internal/pkg"

	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
)

type Service struct {
	Repository Repository
	Cache      shared.Cache
}

func NewService(repo Repository, cache shared.Cache) *Service {
	return &Service{Repository: repo, Cache: cache}
}

type Page struct {
	Items []Row `json:"items"`
	Total int64 `json:"total"`
}

func (s *Service) Create(ctx context.Context, in Input) (*Transaction, error) {
	tx, err := build(in)
	if err != nil {
		return nil, err
	}
	if err := s.Repository.Create(ctx, tx); err != nil {
		return nil, err
	}
	shared.Invalidate(ctx, s.Cache, shared.CollectionBank)
	return tx, nil
}

func (s *Service) Update(ctx context.Context, id ulid.ULID, in Input) (*Transaction, error) {
	existing, err := s.Repository.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	tx, err := build(in)
	if err != nil {
		return nil, err
	}
	tx.Id = existing.Id
	tx.CreatedAt = existing.CreatedAt

	if err := s.Repository.Update(ctx, tx); err != nil {
		return nil, err
	}
	shared.Invalidate(ctx, s.Cache, shared.CollectionBank)
	return tx, nil
}

func (s *Service) Delete(ctx context.Context, id ulid.ULID) error {
	if err := s.Repository.Delete(ctx, id); err != nil {
		return err
	}
	shared.Invalidate(ctx, s.Cache, shared.CollectionBank)
	return nil
}

func (s *Service) Get(ctx context.Context, id ulid.ULID) (*Transaction, error) {
	return s.Repository.GetByID(ctx, id)
}

// List devolve a página com o saldo acumulado de cada linha, considerando
// todas as movimentações anteriores à primeira linha da página.
func (s *Service) List(ctx context.Context, filters *Filters, pagination *pkg.PaginationParams) ([]Row, int64, error) {
	pagination = pkg.NormalizePagination(pagination)
	if filters == nil {
		filters = &Filters{}
	}

	parts := []string{"list"}
	if filters.From != nil {
		parts = append(parts, "from="+filters.From.Format("20060102"))
	}
	if filters.To != nil {
		parts = append(parts, "to="+filters.To.Format("20060102"))
	}
	parts = append(parts, fmt.Sprintf("p%d", pagination.Page), fmt.Sprintf("l%d", pagination.Limit))

	page, err := shared.Remember(ctx, s.Cache, []string{shared.CollectionBank}, shared.CacheKey(parts...), func() (*Page, error) {
		items, total, err := s.Repository.List(ctx, filters, pagination)
		if err != nil {
			return nil, err
		}
		opening := decimal.Zero
		if len(items) > 0 {
			first := items[0]
			for _, it := range items[1:] {
				if it.Before(first) {
					first = it
				}
			}
			if opening, err = s.Repository.BalanceBefore(ctx, first); err != nil {
				return nil, err
			}
		}
		return &Page{Items: RunningBalances(opening, items), Total: total}, nil
	})
	if err != nil {
		return nil, 0, err
	}
	return page.Items, page.Total, nil
}

func (s *Service) Balance(ctx context.Context) (decimal.Decimal, error) {
	return shared.Remember(ctx, s.Cache, []string{shared.CollectionBank}, "balance", func() (decimal.Decimal, error) {
		return s.Repository.Balance(ctx)
	})
}

func build(in Input) (*Transaction, error) {
	if !in.Type.IsValid() {
		return nil, appErrors.NewValidationError("type", "deve ser DEPOSIT ou WITHDRAWAL")
	}
	if !in.Amount.IsPositive() {
		return nil, appErrors.NewValidationError("amount", "deve ser maior que zero")
	}
	if in.Date.IsZero() {
		return nil, appErrors.NewValidationError("date", "é obrigatória")
	}
	description := strings.TrimSpace(in.Description)
	if description == "" {
		return nil, appErrors.NewValidationError("description", "é obrigatória")
	}

	now := pkg.SetTimestamps()
	return &Transaction{
		Id:          pkg.GenerateULIDObject(),
		Date:        pkg.StartOfDay(in.Date),
		Type:        in.Type,
		Amount:      pkg.RoundMoney(in.Amount),
		Description: description,
		Reference:   strings.TrimSpace(in.Reference),
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}
