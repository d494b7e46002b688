package investment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"clinicdesk/internal/domain/shared"
	appErrors "clinicdesk/internal/errors"
	"clinicdesk/internal/logger"
	"clinicdesk/internal/pkg"
	"clinicdesk/internal/pkg/sheet"

	"github.com/oklog/ulid/v2"
)

var contributionHeaders = []string{"Investment", "Investor Name", "Amount", "Date", "Category", "Note"}

type ContributionService struct {
	Repository  ContributionRepository
	Investments Repository
	Cache       shared.Cache
}

func NewContributionService(repo ContributionRepository, investments Repository, cache shared.Cache) *ContributionService {
	return &ContributionService{Repository: repo, Investments: investments, Cache: cache}
}

type ContributionPage struct {
	Items []*Contribution `json:"items"`
	Total int64           `json:"total"`
}

func (s *ContributionService) Create(ctx context.Context, in ContributionInput) (*Contribution, error) {
	inv, err := s.Investments.GetByID(ctx, in.InvestmentId)
	if err != nil {
		return nil, err
	}

	entity, err := buildContribution(inv, in)
	if err != nil {
		return nil, err
	}

	if err := s.Repository.Create(ctx, entity); err != nil {
		return nil, err
	}

	shared.Invalidate(ctx, s.Cache, shared.CollectionContributions)
	return entity, nil
}

func (s *ContributionService) Update(ctx context.Context, id ulid.ULID, in ContributionInput) (*Contribution, error) {
	existing, err := s.Repository.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	inv, err := s.Investments.GetByID(ctx, in.InvestmentId)
	if err != nil {
		return nil, err
	}

	if in.Date == nil {
		in.Date = &existing.Date
	}
	entity, err := buildContribution(inv, in)
	if err != nil {
		return nil, err
	}
	entity.Id = existing.Id
	entity.CreatedAt = existing.CreatedAt

	if err := s.Repository.Update(ctx, entity); err != nil {
		return nil, err
	}

	shared.Invalidate(ctx, s.Cache, shared.CollectionContributions)
	return entity, nil
}

func (s *ContributionService) Delete(ctx context.Context, id ulid.ULID) error {
	if err := s.Repository.Delete(ctx, id); err != nil {
		return err
	}
	shared.Invalidate(ctx, s.Cache, shared.CollectionContributions)
	return nil
}

func (s *ContributionService) Get(ctx context.Context, id ulid.ULID) (*Contribution, error) {
	return s.Repository.GetByID(ctx, id)
}

func (s *ContributionService) List(ctx context.Context, filters *ContributionFilters, pagination *pkg.PaginationParams) ([]*Contribution, int64, error) {
	pagination = pkg.NormalizePagination(pagination)
	if filters == nil {
		filters = &ContributionFilters{}
	}

	key := shared.CacheKey("list", contributionFilterKey(filters),
		fmt.Sprintf("p%d", pagination.Page), fmt.Sprintf("l%d", pagination.Limit))

	page, err := shared.Remember(ctx, s.Cache, []string{shared.CollectionContributions}, key, func() (*ContributionPage, error) {
		items, total, err := s.Repository.List(ctx, filters, pagination)
		if err != nil {
			return nil, err
		}
		return &ContributionPage{Items: items, Total: total}, nil
	})
	if err != nil {
		return nil, 0, err
	}
	return page.Items, page.Total, nil
}

func (s *ContributionService) Export(ctx context.Context, filters *ContributionFilters) ([]byte, error) {
	contributions, err := s.Repository.ListAll(ctx, filters)
	if err != nil {
		return nil, err
	}
	investments, err := s.Investments.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	titles := make(map[ulid.ULID]string, len(investments))
	for _, inv := range investments {
		titles[inv.Id] = inv.Title
	}

	rows := make([][]interface{}, 0, len(contributions))
	for _, c := range contributions {
		title, ok := titles[c.InvestmentId]
		if !ok {
			title = c.InvestmentId.String()
		}
		rows = append(rows, []interface{}{
			title,
			c.InvestorName,
			c.Amount.StringFixed(2),
			c.Date.Format("2006-01-02"),
			c.Category,
			c.Note,
		})
	}

	data, err := sheet.WriteXLSX("Contributions", contributionHeaders, rows)
	if err != nil {
		return nil, appErrors.ErrInternalServer.WithError(err)
	}
	return data, nil
}

func (s *ContributionService) SampleTemplate() ([]byte, error) {
	data, err := sheet.WriteXLSX("Contributions", contributionHeaders, [][]interface{}{
		{"Sala de raio-x", "Alice", "1500.00", time.Now().Format("2006-01-02"), "Equipamento", "Primeira parcela"},
	})
	if err != nil {
		return nil, appErrors.ErrInternalServer.WithError(err)
	}
	return data, nil
}

// Import lê contribuições de uma planilha. Linhas inválidas são relatadas
// e as válidas são gravadas juntas.
func (s *ContributionService) Import(ctx context.Context, filename string, data []byte) (*ImportResult, error) {
	rows, err := sheet.ReadRows(filename, data)
	if err != nil {
		if errors.Is(err, sheet.ErrUnsupportedFileType) {
			return nil, appErrors.ErrUnsupportedFileType
		}
		return nil, appErrors.ErrBadRequest.WithError(err)
	}
	if err := sheet.RequireColumns(rows, "investment", "investor_name", "amount"); err != nil {
		return nil, appErrors.NewValidationError("file", err.Error())
	}
	records, err := sheet.Records(rows)
	if err != nil {
		return nil, appErrors.NewValidationError("file", err.Error())
	}

	investments, err := s.Investments.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*Investment, len(investments))
	byTitle := make(map[string]*Investment, len(investments))
	for _, inv := range investments {
		byID[inv.Id.String()] = inv
		byTitle[strings.ToLower(inv.Title)] = inv
	}

	result := &ImportResult{Errors: make([]ImportRowError, 0)}
	valid := make([]*Contribution, 0, len(records))

	for _, rec := range records {
		ref := rec.Get("investment", "investment_id")
		inv, ok := byID[strings.ToUpper(ref)]
		if !ok {
			inv, ok = byTitle[strings.ToLower(ref)]
		}
		if !ok {
			result.Errors = append(result.Errors, ImportRowError{Line: rec.Line, Message: fmt.Sprintf("investimento %q não encontrado", ref)})
			continue
		}

		amount, err := pkg.ParseAmount(rec.Get("amount"))
		if err != nil {
			result.Errors = append(result.Errors, ImportRowError{Line: rec.Line, Message: "valor inválido"})
			continue
		}

		in := ContributionInput{
			InvestmentId: inv.Id,
			InvestorName: rec.Get("investor_name", "investor"),
			Amount:       amount,
			Category:     rec.Get("category"),
			Note:         rec.Get("note"),
		}
		if raw := rec.Get("date"); raw != "" {
			date, err := pkg.ParseDate(raw)
			if err != nil {
				result.Errors = append(result.Errors, ImportRowError{Line: rec.Line, Message: "data inválida"})
				continue
			}
			in.Date = &date
		}

		entity, err := buildContribution(inv, in)
		if err != nil {
			result.Errors = append(result.Errors, ImportRowError{Line: rec.Line, Message: appErrors.FromError(err).Message})
			continue
		}
		valid = append(valid, entity)
	}

	if len(valid) > 0 {
		if err := s.Repository.CreateMany(ctx, valid); err != nil {
			return nil, err
		}
		shared.Invalidate(ctx, s.Cache, shared.CollectionContributions)
	}

	result.Created = len(valid)
	logger.Info().
		Int("created", result.Created).
		Int("rejected", len(result.Errors)).
		Msg("Importação de contribuições concluída")

	return result, nil
}

func buildContribution(inv *Investment, in ContributionInput) (*Contribution, error) {
	name := strings.TrimSpace(in.InvestorName)
	if name == "" {
		return nil, appErrors.NewValidationError("investor_name", "é obrigatório")
	}
	if !in.Amount.IsPositive() {
		return nil, appErrors.NewValidationError("amount", "deve ser maior que zero")
	}

	now := pkg.SetTimestamps()
	date := now
	if in.Date != nil {
		date = *in.Date
	}

	entity := &Contribution{
		Id:           pkg.GenerateULIDObject(),
		InvestmentId: inv.Id,
		InvestorName: name,
		Amount:       pkg.RoundMoney(in.Amount),
		Date:         date,
		Category:     strings.TrimSpace(in.Category),
		Note:         strings.TrimSpace(in.Note),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	for _, share := range inv.Shares {
		if share.Name == name && share.InvestorId != nil {
			id := *share.InvestorId
			entity.InvestorId = &id
			break
		}
	}
	return entity, nil
}

func contributionFilterKey(f *ContributionFilters) string {
	parts := make([]string, 0, 4)
	if f.InvestmentId != nil {
		parts = append(parts, "inv="+f.InvestmentId.String())
	}
	if f.InvestorName != "" {
		parts = append(parts, "name="+f.InvestorName)
	}
	if f.From != nil {
		parts = append(parts, "from="+f.From.Format("20060102"))
	}
	if f.To != nil {
		parts = append(parts, "to="+f.To.Format("20060102"))
	}
	return strings.Join(parts, ",")
}
