package investor

import (
	"context"
	"strings"

	"clinicdesk/internal/domain/shared"
	appErrors "clinicdesk/internal/errors"
	"clinicdesk/internal/logger"
	"clinicdesk/internal/pkg"

	"github.com/oklog/ulid/v2"
)

type Service struct {
	Repository Repository
	Cache      shared.Cache
}

func NewService(repo Repository, cache shared.Cache) *Service {
	return &Service{Repository: repo, Cache: cache}
}

func (s *Service) Create(ctx context.Context, in Input) (*Investor, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, appErrors.NewValidationError("name", "é obrigatório")
	}

	now := pkg.SetTimestamps()
	entity := &Investor{
		Id:        pkg.GenerateULIDObject(),
		Name:      name,
		Phone:     strings.TrimSpace(in.Phone),
		Email:     strings.TrimSpace(in.Email),
		Note:      strings.TrimSpace(in.Note),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.Repository.Create(ctx, entity); err != nil {
		return nil, err
	}

	shared.Invalidate(ctx, s.Cache, shared.CollectionInvestors)
	return entity, nil
}

func (s *Service) Update(ctx context.Context, id ulid.ULID, in Input) (*Investor, error) {
	entity, err := s.Repository.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, appErrors.NewValidationError("name", "é obrigatório")
	}

	renamed := name != entity.Name
	entity.Name = name
	entity.Phone = strings.TrimSpace(in.Phone)
	entity.Email = strings.TrimSpace(in.Email)
	entity.Note = strings.TrimSpace(in.Note)
	entity.UpdatedAt = pkg.SetTimestamps()

	if err := s.Repository.Update(ctx, entity, renamed); err != nil {
		return nil, err
	}

	if renamed {
		logger.Info().
			Str("investor_id", entity.Id.String()).
			Str("name", entity.Name).
			Msg("Nome do investidor propagado para participações e contribuições")
		shared.Invalidate(ctx, s.Cache, shared.CollectionInvestors, shared.CollectionInvestments, shared.CollectionContributions)
		return entity, nil
	}

	shared.Invalidate(ctx, s.Cache, shared.CollectionInvestors)
	return entity, nil
}

func (s *Service) Delete(ctx context.Context, id ulid.ULID) error {
	if _, err := s.Repository.GetByID(ctx, id); err != nil {
		return err
	}

	count, err := s.Repository.CountShares(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return appErrors.ErrInvestorInUse.WithDetails(map[string]interface{}{"shares": count})
	}

	if err := s.Repository.Delete(ctx, id); err != nil {
		return err
	}

	shared.Invalidate(ctx, s.Cache, shared.CollectionInvestors)
	return nil
}

func (s *Service) Get(ctx context.Context, id ulid.ULID) (*Investor, error) {
	return s.Repository.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, search string, pagination *pkg.PaginationParams) ([]*Investor, int64, error) {
	return s.Repository.List(ctx, strings.TrimSpace(search), pkg.NormalizePagination(pagination))
}
