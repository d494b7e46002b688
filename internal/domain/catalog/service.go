package catalog

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"clinicdesk/internal/domain/shared"
	appErrors "clinicdesk/internal/errors"
	"clinicdesk/internal/pkg"

	"github.com/oklog/ulid/v2"
)

// Service atende serviços e injeções; o tipo vem da rota.
type Service struct {
	Repository Repository
	Cache      shared.Cache
}

func NewService(repo Repository, cache shared.Cache) *Service {
	return &Service{Repository: repo, Cache: cache}
}

type Page struct {
	Items []*ServiceItem `json:"items"`
	Total int64          `json:"total"`
}

func (s *Service) Create(ctx context.Context, kind Kind, in Input) (*ServiceItem, error) {
	if !kind.IsValid() {
		return nil, appErrors.NewValidationError("kind", "inválido")
	}
	if err := validate(in); err != nil {
		return nil, err
	}

	now := pkg.SetTimestamps()
	item := &ServiceItem{
		Id:        pkg.GenerateULIDObject(),
		Name:      strings.TrimSpace(in.Name),
		Category:  shared.NormalizeName(in.Category),
		Kind:      kind,
		Price:     pkg.RoundMoney(in.Price),
		Active:    in.Active == nil || *in.Active,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.Repository.Create(ctx, item); err != nil {
		return nil, err
	}
	shared.Invalidate(ctx, s.Cache, shared.CollectionServices)
	return item, nil
}

func (s *Service) Update(ctx context.Context, kind Kind, id ulid.ULID, in Input) (*ServiceItem, error) {
	item, err := s.Repository.GetByID(ctx, kind, id)
	if err != nil {
		return nil, err
	}
	if err := validate(in); err != nil {
		return nil, err
	}

	item.Name = strings.TrimSpace(in.Name)
	item.Category = shared.NormalizeName(in.Category)
	item.Price = pkg.RoundMoney(in.Price)
	if in.Active != nil {
		item.Active = *in.Active
	}
	item.UpdatedAt = pkg.SetTimestamps()

	if err := s.Repository.Update(ctx, item); err != nil {
		return nil, err
	}
	shared.Invalidate(ctx, s.Cache, shared.CollectionServices)
	return item, nil
}

func (s *Service) Delete(ctx context.Context, kind Kind, id ulid.ULID) error {
	if err := s.Repository.Delete(ctx, kind, id); err != nil {
		return err
	}
	shared.Invalidate(ctx, s.Cache, shared.CollectionServices)
	return nil
}

func (s *Service) Get(ctx context.Context, kind Kind, id ulid.ULID) (*ServiceItem, error) {
	return s.Repository.GetByID(ctx, kind, id)
}

// Find busca o item sem restringir o tipo; usado pelas faturas.
func (s *Service) Find(ctx context.Context, id ulid.ULID) (*ServiceItem, error) {
	return s.Repository.GetByID(ctx, "", id)
}

func (s *Service) List(ctx context.Context, filters *Filters, pagination *pkg.PaginationParams) ([]*ServiceItem, int64, error) {
	pagination = pkg.NormalizePagination(pagination)
	if filters == nil {
		filters = &Filters{}
	}
	key := shared.CacheKey("list", string(filters.Kind), filters.Search, strconv.FormatBool(filters.OnlyActive),
		fmt.Sprintf("p%d", pagination.Page), fmt.Sprintf("l%d", pagination.Limit))

	page, err := shared.Remember(ctx, s.Cache, []string{shared.CollectionServices}, key, func() (*Page, error) {
		items, total, err := s.Repository.List(ctx, filters, pagination)
		if err != nil {
			return nil, err
		}
		return &Page{Items: items, Total: total}, nil
	})
	if err != nil {
		return nil, 0, err
	}
	return page.Items, page.Total, nil
}

func validate(in Input) error {
	if strings.TrimSpace(in.Name) == "" {
		return appErrors.NewValidationError("name", "é obrigatório")
	}
	if in.Price.IsNegative() {
		return appErrors.NewValidationError("price", "não pode ser negativo")
	}
	return nil
}
