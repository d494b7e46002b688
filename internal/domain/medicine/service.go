package medicine

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"clinicdesk/internal/domain/shared"
	appErrors "clinicdesk/internal/errors"
	"clinicdesk/internal/logger"
	"clinicdesk/internal/pkg"
	"clinicdesk/internal/pkg/sheet"

	"github.com/oklog/ulid/v2"
)

var exportHeaders = []string{"Name", "Category", "Unit", "Stock", "Reorder Level", "Unit Price", "Expiry Date", "Supplier"}

type Service struct {
	Repository Repository
	Cache      shared.Cache
}

func NewService(repo Repository, cache shared.Cache) *Service {
	return &Service{Repository: repo, Cache: cache}
}

type Page struct {
	Items []*Medicine `json:"items"`
	Total int64       `json:"total"`
}

type ImportRowError struct {
	Line    int    `json:"line"`
	Message string `json:"message"`
}

type ImportResult struct {
	Created int              `json:"created"`
	Errors  []ImportRowError `json:"errors"`
}

func (s *Service) Create(ctx context.Context, in Input) (*Medicine, error) {
	entity, err := build(in)
	if err != nil {
		return nil, err
	}
	if err := s.Repository.Create(ctx, entity); err != nil {
		return nil, err
	}
	shared.Invalidate(ctx, s.Cache, shared.CollectionMedicines)
	return entity, nil
}

func (s *Service) Update(ctx context.Context, id ulid.ULID, in Input) (*Medicine, error) {
	existing, err := s.Repository.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	entity, err := build(in)
	if err != nil {
		return nil, err
	}
	entity.Id = existing.Id
	entity.CreatedAt = existing.CreatedAt

	if err := s.Repository.Update(ctx, entity); err != nil {
		return nil, err
	}
	shared.Invalidate(ctx, s.Cache, shared.CollectionMedicines)
	return entity, nil
}

func (s *Service) Delete(ctx context.Context, id ulid.ULID) error {
	if err := s.Repository.Delete(ctx, id); err != nil {
		return err
	}
	shared.Invalidate(ctx, s.Cache, shared.CollectionMedicines)
	return nil
}

func (s *Service) Get(ctx context.Context, id ulid.ULID) (*Medicine, error) {
	return s.Repository.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, filters *Filters, pagination *pkg.PaginationParams) ([]*Medicine, int64, error) {
	pagination = pkg.NormalizePagination(pagination)
	if filters == nil {
		filters = &Filters{}
	}
	key := shared.CacheKey("list", filters.Search, filters.Category, strconv.FormatBool(filters.LowStock),
		fmt.Sprintf("p%d", pagination.Page), fmt.Sprintf("l%d", pagination.Limit))

	page, err := shared.Remember(ctx, s.Cache, []string{shared.CollectionMedicines}, key, func() (*Page, error) {
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

func (s *Service) AdjustStock(ctx context.Context, id ulid.ULID, delta int) (*Medicine, error) {
	if delta == 0 {
		return nil, appErrors.NewValidationError("quantity", "não pode ser zero")
	}
	entity, err := s.Repository.AdjustStock(ctx, id, delta)
	if err != nil {
		return nil, err
	}
	shared.Invalidate(ctx, s.Cache, shared.CollectionMedicines)
	return entity, nil
}

func (s *Service) LowStock(ctx context.Context) ([]*Medicine, error) {
	return shared.Remember(ctx, s.Cache, []string{shared.CollectionMedicines}, "low-stock", func() ([]*Medicine, error) {
		return s.Repository.LowStock(ctx)
	})
}

func (s *Service) ExpiringWithin(ctx context.Context, days int) ([]*Medicine, error) {
	if days < 0 {
		return nil, appErrors.NewValidationError("days", "não pode ser negativo")
	}
	limit := pkg.StartOfDay(time.Now()).AddDate(0, 0, days+1)
	return s.Repository.ExpiringBefore(ctx, limit)
}

func (s *Service) Export(ctx context.Context) ([]byte, error) {
	medicines, err := s.Repository.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	rows := make([][]interface{}, 0, len(medicines))
	for _, m := range medicines {
		expiry := ""
		if m.ExpiryDate != nil {
			expiry = m.ExpiryDate.Format("2006-01-02")
		}
		rows = append(rows, []interface{}{
			m.Name, m.Category, m.Unit, m.Stock, m.ReorderLevel, m.UnitPrice.StringFixed(2), expiry, m.Supplier,
		})
	}

	data, err := sheet.WriteXLSX("Medicines", exportHeaders, rows)
	if err != nil {
		return nil, appErrors.ErrInternalServer.WithError(err)
	}
	return data, nil
}

func (s *Service) SampleTemplate() ([]byte, error) {
	data, err := sheet.WriteXLSX("Medicines", exportHeaders, [][]interface{}{
		{"Amoxicilina 500mg", "Antibiótico", "caixa", 40, 10, "12.50", time.Now().AddDate(1, 0, 0).Format("2006-01-02"), "Distribuidora Central"},
	})
	if err != nil {
		return nil, appErrors.ErrInternalServer.WithError(err)
	}
	return data, nil
}

func (s *Service) Import(ctx context.Context, filename string, data []byte) (*ImportResult, error) {
	rows, err := sheet.ReadRows(filename, data)
	if err != nil {
		if errors.Is(err, sheet.ErrUnsupportedFileType) {
			return nil, appErrors.ErrUnsupportedFileType
		}
		return nil, appErrors.ErrBadRequest.WithError(err)
	}
	if err := sheet.RequireColumns(rows, "name", "stock", "unit_price"); err != nil {
		return nil, appErrors.NewValidationError("file", err.Error())
	}
	records, err := sheet.Records(rows)
	if err != nil {
		return nil, appErrors.NewValidationError("file", err.Error())
	}

	result := &ImportResult{Errors: make([]ImportRowError, 0)}
	valid := make([]*Medicine, 0, len(records))

	for _, rec := range records {
		stock, err := parseQuantity(rec.Get("stock"))
		if err != nil {
			result.Errors = append(result.Errors, ImportRowError{Line: rec.Line, Message: "estoque inválido"})
			continue
		}
		reorder, err := parseQuantity(rec.Get("reorder_level"))
		if err != nil {
			result.Errors = append(result.Errors, ImportRowError{Line: rec.Line, Message: "nível de reposição inválido"})
			continue
		}
		price, err := pkg.ParseAmount(rec.Get("unit_price", "price"))
		if err != nil {
			result.Errors = append(result.Errors, ImportRowError{Line: rec.Line, Message: "preço inválido"})
			continue
		}

		in := Input{
			Name:         rec.Get("name"),
			Category:     rec.Get("category"),
			Unit:         rec.Get("unit"),
			Stock:        stock,
			ReorderLevel: reorder,
			UnitPrice:    price,
			Supplier:     rec.Get("supplier"),
		}
		if raw := rec.Get("expiry_date", "expiry"); raw != "" {
			expiry, err := pkg.ParseDate(raw)
			if err != nil {
				result.Errors = append(result.Errors, ImportRowError{Line: rec.Line, Message: "data de validade inválida"})
				continue
			}
			in.ExpiryDate = &expiry
		}

		entity, err := build(in)
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
		shared.Invalidate(ctx, s.Cache, shared.CollectionMedicines)
	}

	result.Created = len(valid)
	logger.Info().
		Int("created", result.Created).
		Int("rejected", len(result.Errors)).
		Msg("Importação de medicamentos concluída")

	return result, nil
}

func build(in Input) (*Medicine, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, appErrors.NewValidationError("name", "é obrigatório")
	}
	if in.Stock < 0 {
		return nil, appErrors.NewValidationError("stock", "não pode ser negativo")
	}
	if in.ReorderLevel < 0 {
		return nil, appErrors.NewValidationError("reorder_level", "não pode ser negativo")
	}
	if in.UnitPrice.IsNegative() {
		return nil, appErrors.NewValidationError("unit_price", "não pode ser negativo")
	}

	now := pkg.SetTimestamps()
	return &Medicine{
		Id:           pkg.GenerateULIDObject(),
		Name:         name,
		Category:     shared.NormalizeName(in.Category),
		Unit:         strings.TrimSpace(in.Unit),
		Stock:        in.Stock,
		ReorderLevel: in.ReorderLevel,
		UnitPrice:    pkg.RoundMoney(in.UnitPrice),
		ExpiryDate:   in.ExpiryDate,
		Supplier:     strings.TrimSpace(in.Supplier),
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

func parseQuantity(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	d, err := pkg.ParseAmount(raw)
	if err != nil {
		return 0, err
	}
	if !d.IsInteger() || d.IsNegative() {
		return 0, errors.New("quantidade inválida")
	}
	return int(d.IntPart()), nil
}
