package investment

import (
	"context"
	"fmt"
	"strings"
	"time"

	"clinicdesk/internal/domain/shared"
	appErrors "clinicdesk/internal/errors"
	"clinicdesk/internal/logger"
	"clinicdesk/internal/pkg"

	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
)

type Service struct {
	Repository    Repository
	Contributions ContributionRepository
	Cache         shared.Cache
	Apportioner   Apportioner
}

func NewService(repo Repository, contributions ContributionRepository, cache shared.Cache, apportioner Apportioner) *Service {
	return &Service{
		Repository:    repo,
		Contributions: contributions,
		Cache:         cache,
		Apportioner:   apportioner,
	}
}

type Page struct {
	Items []*Investment `json:"items"`
	Total int64         `json:"total"`
}

func (s *Service) CreateInvestment(ctx context.Context, in CreateInput) (*Investment, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, appErrors.NewValidationError("title", "é obrigatório")
	}
	if !in.Amount.IsPositive() {
		return nil, appErrors.NewValidationError("amount", "deve ser maior que zero")
	}

	status := in.Status
	if status == "" {
		status = StatusActive
	}
	if !status.IsValid() {
		return nil, appErrors.NewValidationError("status", "inválido")
	}

	now := pkg.SetTimestamps()
	start := now
	if in.StartDate != nil {
		start = *in.StartDate
	}
	if in.EndDate != nil && in.EndDate.Before(start) {
		return nil, appErrors.NewValidationError("end_date", "deve ser posterior à data de início")
	}

	amount := pkg.RoundMoney(in.Amount)
	investorName := strings.TrimSpace(in.InvestorName)
	entries := in.Shares
	if len(entries) == 0 && investorName != "" {
		entries = []ShareInput{{Name: investorName, SharePercentage: pkg.Hundred}}
	}

	entity := &Investment{
		Id:           pkg.GenerateULIDObject(),
		Title:        title,
		Category:     strings.TrimSpace(in.Category),
		Amount:       amount,
		InvestorName: investorName,
		Shares:       s.buildShares(amount, entries),
		Status:       status,
		StartDate:    start,
		EndDate:      in.EndDate,
		Note:         strings.TrimSpace(in.Note),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.Repository.Create(ctx, entity); err != nil {
		return nil, err
	}

	shared.Invalidate(ctx, s.Cache, shared.CollectionInvestments)
	return entity, nil
}

func (s *Service) UpdateInvestment(ctx context.Context, id ulid.ULID, in UpdateInput) (*Investment, error) {
	inv, err := s.Repository.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		trimmed := strings.TrimSpace(*in.Title)
		if trimmed == "" {
			return nil, appErrors.NewValidationError("title", "é obrigatório")
		}
		inv.Title = trimmed
	}
	if in.Category != nil {
		inv.Category = strings.TrimSpace(*in.Category)
	}
	if in.Status != nil && *in.Status != "" {
		if !in.Status.IsValid() {
			return nil, appErrors.NewValidationError("status", "inválido")
		}
		inv.Status = *in.Status
	}
	if in.StartDate != nil {
		inv.StartDate = *in.StartDate
	}
	if in.EndDate != nil {
		inv.EndDate = in.EndDate
	}
	if inv.EndDate != nil && inv.EndDate.Before(inv.StartDate) {
		return nil, appErrors.NewValidationError("end_date", "deve ser posterior à data de início")
	}
	if in.Note != nil {
		inv.Note = strings.TrimSpace(*in.Note)
	}

	reshare := false
	if in.Amount != nil {
		if !in.Amount.IsPositive() {
			return nil, appErrors.NewValidationError("amount", "deve ser maior que zero")
		}
		inv.Amount = pkg.RoundMoney(*in.Amount)
		reshare = true
	}
	if in.InvestorName != nil {
		inv.InvestorName = strings.TrimSpace(*in.InvestorName)
		reshare = reshare || !inv.HasShares()
	}

	entries := inv.Weights()
	if in.Shares != nil {
		entries = *in.Shares
		reshare = true
	}
	if reshare {
		inv.Shares = s.buildShares(inv.Amount, entries)
	}

	inv.UpdatedAt = time.Now()
	if err := s.Repository.Update(ctx, inv); err != nil {
		return nil, err
	}

	shared.Invalidate(ctx, s.Cache, shared.CollectionInvestments)
	return inv, nil
}

func (s *Service) DeleteInvestment(ctx context.Context, id ulid.ULID) error {
	if err := s.Repository.Delete(ctx, id); err != nil {
		return err
	}
	shared.Invalidate(ctx, s.Cache, shared.CollectionInvestments, shared.CollectionContributions)
	return nil
}

func (s *Service) BulkDelete(ctx context.Context, ids []ulid.ULID) (int64, error) {
	if len(ids) == 0 {
		return 0, appErrors.NewValidationError("ids", "deve conter ao menos um item")
	}
	deleted, err := s.Repository.BulkDelete(ctx, ids)
	if err != nil {
		return 0, err
	}
	shared.Invalidate(ctx, s.Cache, shared.CollectionInvestments, shared.CollectionContributions)
	return deleted, nil
}

func (s *Service) GetInvestment(ctx context.Context, id ulid.ULID) (*Investment, error) {
	return s.Repository.GetByID(ctx, id)
}

func (s *Service) ListInvestments(ctx context.Context, filters *Filters, pagination *pkg.PaginationParams) ([]*Investment, int64, error) {
	pagination = pkg.NormalizePagination(pagination)
	if filters == nil {
		filters = &Filters{}
	}

	key := shared.CacheKey("list", string(filters.Status), filters.Category, filters.Search,
		fmt.Sprintf("p%d", pagination.Page), fmt.Sprintf("l%d", pagination.Limit))

	page, err := shared.Remember(ctx, s.Cache, []string{shared.CollectionInvestments}, key, func() (*Page, error) {
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

// Recapitalize redistribui totalCapital entre todos os investimentos na
// proporção dos valores atuais e renormaliza as participações de cada um.
// Tudo é gravado numa única transação.
func (s *Service) Recapitalize(ctx context.Context, totalCapital decimal.Decimal) ([]*Investment, error) {
	if !totalCapital.IsPositive() {
		return nil, appErrors.NewValidationError("total_capital", "deve ser maior que zero")
	}

	investments, err := s.Repository.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	if len(investments) == 0 {
		return nil, appErrors.NewValidationError("total_capital", "não há investimentos para recapitalizar")
	}

	weights := make([]decimal.Decimal, len(investments))
	hasWeight := false
	for i, inv := range investments {
		weights[i] = pkg.NonNegative(inv.Amount)
		if weights[i].IsPositive() {
			hasWeight = true
		}
	}
	if !hasWeight {
		for i := range weights {
			weights[i] = decimal.NewFromInt(1)
		}
	}

	cents := LargestRemainder(weights, pkg.RoundMoney(totalCapital).Shift(2).IntPart())
	now := time.Now()
	for i, inv := range investments {
		entries := inv.Weights()
		inv.Amount = decimal.New(cents[i], -2)
		inv.Shares = s.buildShares(inv.Amount, entries)
		inv.UpdatedAt = now
	}

	if err := s.Repository.UpdateMany(ctx, investments); err != nil {
		return nil, err
	}

	logger.Info().
		Str("total_capital", totalCapital.StringFixed(2)).
		Int("investments", len(investments)).
		Msg("Capital redistribuído entre investimentos")

	shared.Invalidate(ctx, s.Cache, shared.CollectionInvestments)
	return investments, nil
}

// Preview normaliza participações sem gravar nada.
func (s *Service) Preview(total decimal.Decimal, entries []ShareInput) []InvestorShare {
	return s.apportion(pkg.NonNegative(total), entries)
}

func (s *Service) Ledger(ctx context.Context, investmentID *ulid.ULID) (*Ledger, error) {
	key := "ledger"
	if investmentID != nil {
		key = shared.CacheKey("ledger", investmentID.String())
	}
	collections := []string{shared.CollectionInvestments, shared.CollectionContributions}

	return shared.Remember(ctx, s.Cache, collections, key, func() (*Ledger, error) {
		var investments []*Investment
		filters := &ContributionFilters{}
		if investmentID != nil {
			inv, err := s.Repository.GetByID(ctx, *investmentID)
			if err != nil {
				return nil, err
			}
			investments = []*Investment{inv}
			filters.InvestmentId = investmentID
		} else {
			all, err := s.Repository.ListAll(ctx)
			if err != nil {
				return nil, err
			}
			investments = all
		}

		contributions, err := s.Contributions.ListAll(ctx, filters)
		if err != nil {
			return nil, err
		}

		rows := Reconcile(investments, contributions)
		return &Ledger{Rows: rows, Summary: Summarize(rows)}, nil
	})
}

func (s *Service) apportion(total decimal.Decimal, entries []ShareInput) []InvestorShare {
	if s.Apportioner == nil {
		return Normalize(total, entries)
	}
	return s.Apportioner(total, entries)
}

func (s *Service) buildShares(total decimal.Decimal, entries []ShareInput) []InvestorShare {
	shares := s.apportion(total, entries)
	for i := range shares {
		shares[i].Id = pkg.GenerateULIDObject()
	}
	return shares
}
