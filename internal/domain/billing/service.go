package billing

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"clinicdesk/internal/domain/catalog"
	"clinicdesk/internal/domain/medicine"
	"clinicdesk/internal/domain/shared"
	appErrors "clinicdesk/internal/errors"
	"clinicdesk/internal/logger"
	"clinicdesk/internal/pkg"

	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
)

type MedicineStock interface {
	Get(ctx context.Context, id ulid.ULID) (*medicine.Medicine, error)
	AdjustStock(ctx context.Context, id ulid.ULID, delta int) (*medicine.Medicine, error)
}

type CatalogLookup interface {
	Find(ctx context.Context, id ulid.ULID) (*catalog.ServiceItem, error)
}

type CurrencySettings struct {
	Primary      string
	Secondary    string
	ExchangeRate decimal.Decimal
}

type Service struct {
	Repository Repository
	Medicines  MedicineStock
	Catalog    CatalogLookup
	Cache      shared.Cache
	Currency   CurrencySettings
}

func NewService(repo Repository, medicines MedicineStock, catalogLookup CatalogLookup, cache shared.Cache, currency CurrencySettings) *Service {
	return &Service{
		Repository: repo,
		Medicines:  medicines,
		Catalog:    catalogLookup,
		Cache:      cache,
		Currency:   currency,
	}
}

type Page struct {
	Items []*Bill `json:"items"`
	Total int64   `json:"total"`
}

// Preview calcula a fatura sem gravar e sem mexer no estoque.
func (s *Service) Preview(ctx context.Context, in Input) (*Bill, error) {
	return s.build(ctx, in)
}

func (s *Service) Create(ctx context.Context, in Input) (*Bill, error) {
	bill, err := s.build(ctx, in)
	if err != nil {
		return nil, err
	}

	deltas := make(map[ulid.ULID]int)
	for id, qty := range bill.medicineQuantities() {
		deltas[id] = -qty
	}

	applied, err := s.applyStock(ctx, deltas)
	if err != nil {
		return nil, err
	}

	if err := s.Repository.Create(ctx, bill); err != nil {
		s.revertStock(ctx, applied)
		return nil, err
	}

	shared.Invalidate(ctx, s.Cache, shared.CollectionBills, shared.CollectionMedicines)
	return bill, nil
}

func (s *Service) Update(ctx context.Context, id ulid.ULID, in Input) (*Bill, error) {
	existing, err := s.Repository.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	bill, err := s.build(ctx, in)
	if err != nil {
		return nil, err
	}
	bill.Id = existing.Id
	bill.Number = existing.Number
	bill.CreatedAt = existing.CreatedAt
	if in.IssuedAt == nil {
		bill.IssuedAt = existing.IssuedAt
	}
	if in.PaidAmount == nil {
		bill.PaidAmount = existing.PaidAmount
		bill.Status = StatusFor(bill.PaidAmount, bill.Total)
	}

	deltas := existing.medicineQuantities()
	for medID, qty := range bill.medicineQuantities() {
		deltas[medID] -= qty
	}

	applied, err := s.applyStock(ctx, deltas)
	if err != nil {
		return nil, err
	}

	if err := s.Repository.Update(ctx, bill); err != nil {
		s.revertStock(ctx, applied)
		return nil, err
	}

	shared.Invalidate(ctx, s.Cache, shared.CollectionBills, shared.CollectionMedicines)
	return bill, nil
}

func (s *Service) Delete(ctx context.Context, id ulid.ULID) error {
	existing, err := s.Repository.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.Repository.Delete(ctx, id); err != nil {
		return err
	}

	for medID, qty := range existing.medicineQuantities() {
		if _, err := s.Medicines.AdjustStock(ctx, medID, qty); err != nil {
			logger.Warn().
				Err(err).
				Str("bill_id", id.String()).
				Str("medicine_id", medID.String()).
				Int("quantity", qty).
				Msg("Não foi possível devolver o estoque da fatura removida")
		}
	}

	shared.Invalidate(ctx, s.Cache, shared.CollectionBills, shared.CollectionMedicines)
	return nil
}

func (s *Service) Pay(ctx context.Context, id ulid.ULID, amount decimal.Decimal) (*Bill, error) {
	if !amount.IsPositive() {
		return nil, appErrors.NewValidationError("amount", "deve ser maior que zero")
	}

	bill, err := s.Repository.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	bill.PaidAmount = pkg.RoundMoney(bill.PaidAmount.Add(amount))
	bill.Status = StatusFor(bill.PaidAmount, bill.Total)
	bill.UpdatedAt = time.Now()

	if err := s.Repository.UpdatePayment(ctx, bill); err != nil {
		return nil, err
	}

	shared.Invalidate(ctx, s.Cache, shared.CollectionBills)
	return bill, nil
}

func (s *Service) Get(ctx context.Context, id ulid.ULID) (*Bill, error) {
	return s.Repository.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, filters *Filters, pagination *pkg.PaginationParams) ([]*Bill, int64, error) {
	pagination = pkg.NormalizePagination(pagination)
	if filters == nil {
		filters = &Filters{}
	}

	parts := []string{"list", string(filters.Status), filters.Search}
	if filters.From != nil {
		parts = append(parts, "from="+filters.From.Format("20060102"))
	}
	if filters.To != nil {
		parts = append(parts, "to="+filters.To.Format("20060102"))
	}
	parts = append(parts, fmt.Sprintf("p%d", pagination.Page), fmt.Sprintf("l%d", pagination.Limit))

	page, err := shared.Remember(ctx, s.Cache, []string{shared.CollectionBills}, shared.CacheKey(parts...), func() (*Page, error) {
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

func (s *Service) build(ctx context.Context, in Input) (*Bill, error) {
	patient := strings.TrimSpace(in.PatientName)
	if patient == "" {
		return nil, appErrors.NewValidationError("patient_name", "é obrigatório")
	}
	if len(in.Items) == 0 {
		return nil, appErrors.NewValidationError("items", "deve conter ao menos um item")
	}
	switch in.DiscountType {
	case "", DiscountPercentage, DiscountFlat:
	default:
		return nil, appErrors.NewValidationError("discount_type", "deve ser percentage ou flat")
	}
	if in.DiscountValue.IsNegative() {
		return nil, appErrors.NewValidationError("discount_value", "não pode ser negativo")
	}
	if in.DiscountType == DiscountPercentage && in.DiscountValue.GreaterThan(pkg.Hundred) {
		return nil, appErrors.NewValidationError("discount_value", "não pode passar de 100%")
	}
	paid := decimal.Zero
	if in.PaidAmount != nil {
		paid = *in.PaidAmount
	}
	if paid.IsNegative() {
		return nil, appErrors.NewValidationError("amount", "não pode ser negativo")
	}

	items := make([]BillItem, 0, len(in.Items))
	for i, it := range in.Items {
		item, err := s.resolveItem(ctx, it)
		if err != nil {
			if appErr, ok := appErrors.AsAppError(err); ok && appErr.Code == appErrors.ErrValidation.Code {
				return nil, appErr.WithDetails(map[string]interface{}{"field": appErr.Details["field"], "item": i})
			}
			return nil, err
		}
		items = append(items, item)
	}

	totals := ComputeTotals(items, in.DiscountType, in.DiscountValue)

	now := pkg.SetTimestamps()
	issued := now
	if in.IssuedAt != nil {
		issued = *in.IssuedAt
	}

	id := pkg.GenerateULIDObject()
	bill := &Bill{
		Id:             id,
		Number:         fmt.Sprintf("B%s-%s", issued.Format("20060102"), id.String()[20:]),
		PatientName:    patient,
		Items:          items,
		DiscountType:   in.DiscountType,
		DiscountValue:  in.DiscountValue,
		Subtotal:       totals.Subtotal,
		DiscountAmount: totals.DiscountAmount,
		Total:          totals.Total,
		PaidAmount:     pkg.RoundMoney(paid),
		Currency:       s.Currency.Primary,
		ExchangeRate:   s.Currency.ExchangeRate,
		IssuedAt:       issued,
		Note:           strings.TrimSpace(in.Note),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	bill.Status = StatusFor(bill.PaidAmount, bill.Total)
	if s.Currency.Secondary != "" && s.Currency.ExchangeRate.IsPositive() {
		bill.SecondaryCurrency = s.Currency.Secondary
		bill.SecondaryTotal = Convert(bill.Total, s.Currency.ExchangeRate, s.Currency.Secondary)
	}
	return bill, nil
}

func (s *Service) resolveItem(ctx context.Context, in ItemInput) (BillItem, error) {
	if !in.Kind.IsValid() {
		return BillItem{}, appErrors.NewValidationError("type", "inválido")
	}
	if in.Quantity <= 0 {
		return BillItem{}, appErrors.NewValidationError("quantity", "deve ser maior que zero")
	}

	item := BillItem{
		Id:          pkg.GenerateULIDObject(),
		Kind:        in.Kind,
		RefId:       in.RefId,
		Description: strings.TrimSpace(in.Description),
		Quantity:    in.Quantity,
	}

	var catalogPrice *decimal.Decimal
	if in.RefId != nil {
		switch in.Kind {
		case ItemMedicine:
			med, err := s.Medicines.Get(ctx, *in.RefId)
			if err != nil {
				return BillItem{}, err
			}
			if item.Description == "" {
				item.Description = med.Name
			}
			catalogPrice = &med.UnitPrice
		default:
			svc, err := s.Catalog.Find(ctx, *in.RefId)
			if err != nil {
				return BillItem{}, err
			}
			if string(svc.Kind) != string(in.Kind) {
				return BillItem{}, appErrors.NewValidationError("type", "não corresponde ao item do catálogo")
			}
			if item.Description == "" {
				item.Description = svc.Name
			}
			catalogPrice = &svc.Price
		}
	} else if in.Kind == ItemMedicine {
		return BillItem{}, appErrors.NewValidationError("id", "é obrigatório para medicamentos")
	}

	switch {
	case in.UnitPrice != nil:
		item.UnitPrice = *in.UnitPrice
	case catalogPrice != nil:
		item.UnitPrice = *catalogPrice
	default:
		return BillItem{}, appErrors.NewValidationError("unit_price", "é obrigatório")
	}
	if item.UnitPrice.IsNegative() {
		return BillItem{}, appErrors.NewValidationError("unit_price", "não pode ser negativo")
	}
	if item.Description == "" {
		return BillItem{}, appErrors.NewValidationError("description", "é obrigatório")
	}

	item.UnitPrice = pkg.RoundMoney(item.UnitPrice)
	item.LineTotal = pkg.RoundMoney(decimal.NewFromInt(int64(item.Quantity)).Mul(item.UnitPrice))
	return item, nil
}

type stockChange struct {
	id    ulid.ULID
	delta int
}

// applyStock aplica os ajustes em ordem; se um falhar, os anteriores são
// desfeitos antes de devolver o erro.
func (s *Service) applyStock(ctx context.Context, deltas map[ulid.ULID]int) ([]stockChange, error) {
	changes := make([]stockChange, 0, len(deltas))
	for id, delta := range deltas {
		if delta != 0 {
			changes = append(changes, stockChange{id: id, delta: delta})
		}
	}
	// devoluções primeiro para não falhar por estoque que será liberado
	sort.Slice(changes, func(i, j int) bool { return less(changes[i], changes[j]) })

	applied := make([]stockChange, 0, len(changes))
	for _, ch := range changes {
		if _, err := s.Medicines.AdjustStock(ctx, ch.id, ch.delta); err != nil {
			s.revertStock(ctx, applied)
			return nil, err
		}
		applied = append(applied, ch)
	}
	return applied, nil
}

func (s *Service) revertStock(ctx context.Context, applied []stockChange) {
	for i := len(applied) - 1; i >= 0; i-- {
		ch := applied[i]
		if _, err := s.Medicines.AdjustStock(ctx, ch.id, -ch.delta); err != nil {
			logger.Error().
				Err(err).
				Str("medicine_id", ch.id.String()).
				Int("delta", -ch.delta).
				Msg("Falha ao desfazer ajuste de estoque")
		}
	}
}

func less(a, b stockChange) bool {
	if (a.delta > 0) != (b.delta > 0) {
		return a.delta > 0
	}
	return a.id.Compare(b.id) < 0
}
