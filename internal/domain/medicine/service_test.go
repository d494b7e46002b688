package medicine_test

import (
	"context"
	"testing"
	"time"

	"clinicdesk/internal/domain/medicine"
	appErrors "clinicdesk/internal/errors"
	"clinicdesk/internal/pkg"

	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
)

type fakeMedicineRepository struct {
	createFn         func(ctx context.Context, m *medicine.Medicine) error
	createManyFn     func(ctx context.Context, ms []*medicine.Medicine) error
	updateFn         func(ctx context.Context, m *medicine.Medicine) error
	deleteFn         func(ctx context.Context, id ulid.ULID) error
	getByIDFn        func(ctx context.Context, id ulid.ULID) (*medicine.Medicine, error)
	listFn           func(ctx context.Context, filters *medicine.Filters, pagination *pkg.PaginationParams) ([]*medicine.Medicine, int64, error)
	listAllFn        func(ctx context.Context) ([]*medicine.Medicine, error)
	adjustStockFn    func(ctx context.Context, id ulid.ULID, delta int) (*medicine.Medicine, error)
	lowStockFn       func(ctx context.Context) ([]*medicine.Medicine, error)
	expiringBeforeFn func(ctx context.Context, limit time.Time) ([]*medicine.Medicine, error)
}

func (f *fakeMedicineRepository) Create(ctx context.Context, m *medicine.Medicine) error {
	if f.createFn != nil {
		return f.createFn(ctx, m)
	}
	return nil
}

func (f *fakeMedicineRepository) CreateMany(ctx context.Context, ms []*medicine.Medicine) error {
	if f.createManyFn != nil {
		return f.createManyFn(ctx, ms)
	}
	return nil
}

func (f *fakeMedicineRepository) Update(ctx context.Context, m *medicine.Medicine) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, m)
	}
	return nil
}

func (f *fakeMedicineRepository) Delete(ctx context.Context, id ulid.ULID) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, id)
	}
	return nil
}

func (f *fakeMedicineRepository) GetByID(ctx context.Context, id ulid.ULID) (*medicine.Medicine, error) {
	if f.getByIDFn != nil {
		return f.getByIDFn(ctx, id)
	}
	return nil, appErrors.ErrMedicineNotFound
}

func (f *fakeMedicineRepository) List(ctx context.Context, filters *medicine.Filters, pagination *pkg.PaginationParams) ([]*medicine.Medicine, int64, error) {
	if f.listFn != nil {
		return f.listFn(ctx, filters, pagination)
	}
	return nil, 0, nil
}

func (f *fakeMedicineRepository) ListAll(ctx context.Context) ([]*medicine.Medicine, error) {
	if f.listAllFn != nil {
		return f.listAllFn(ctx)
	}
	return nil, nil
}

func (f *fakeMedicineRepository) AdjustStock(ctx context.Context, id ulid.ULID, delta int) (*medicine.Medicine, error) {
	if f.adjustStockFn != nil {
		return f.adjustStockFn(ctx, id, delta)
	}
	return &medicine.Medicine{Id: id}, nil
}

func (f *fakeMedicineRepository) LowStock(ctx context.Context) ([]*medicine.Medicine, error) {
	if f.lowStockFn != nil {
		return f.lowStockFn(ctx)
	}
	return nil, nil
}

func (f *fakeMedicineRepository) ExpiringBefore(ctx context.Context, limit time.Time) ([]*medicine.Medicine, error) {
	if f.expiringBeforeFn != nil {
		return f.expiringBeforeFn(ctx, limit)
	}
	return nil, nil
}

func TestCreateValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input medicine.Input
	}{
		{name: "missing name", input: medicine.Input{Stock: 1}},
		{name: "negative stock", input: medicine.Input{Name: "Dipirona", Stock: -1}},
		{name: "negative price", input: medicine.Input{Name: "Dipirona", UnitPrice: decimal.NewFromInt(-1)}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc := medicine.NewService(&fakeMedicineRepository{}, nil)
			_, err := svc.Create(context.Background(), tt.input)
			appErr, ok := appErrors.AsAppError(err)
			if !ok || appErr.Code != "VALIDATION_ERROR" {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestCreateNormalizesCategory(t *testing.T) {
	t.Parallel()

	svc := medicine.NewService(&fakeMedicineRepository{}, nil)
	m, err := svc.Create(context.Background(), medicine.Input{Name: "Dipirona", Category: " analgésico  oral", Stock: 3, ReorderLevel: 5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Category != "Analgésico Oral" {
		t.Fatalf("unexpected category %q", m.Category)
	}
	if !m.IsLowStock() {
		t.Fatalf("expected stock 3 <= reorder 5 to be low")
	}
}

func TestAdjustStockRejectsZero(t *testing.T) {
	t.Parallel()

	repo := &fakeMedicineRepository{
		adjustStockFn: func(context.Context, ulid.ULID, int) (*medicine.Medicine, error) {
			t.Fatalf("repository must not be called")
			return nil, nil
		},
	}
	svc := medicine.NewService(repo, nil)
	if _, err := svc.AdjustStock(context.Background(), pkg.GenerateULIDObject(), 0); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestAdjustStockPropagatesInsufficientStock(t *testing.T) {
	t.Parallel()

	repo := &fakeMedicineRepository{
		adjustStockFn: func(context.Context, ulid.ULID, int) (*medicine.Medicine, error) {
			return nil, appErrors.ErrInsufficientStock
		},
	}
	svc := medicine.NewService(repo, nil)
	_, err := svc.AdjustStock(context.Background(), pkg.GenerateULIDObject(), -5)
	appErr, ok := appErrors.AsAppError(err)
	if !ok || appErr.Code != "INSUFFICIENT_STOCK" {
		t.Fatalf("expected INSUFFICIENT_STOCK, got %v", err)
	}
}

func TestExpiringWithin(t *testing.T) {
	t.Parallel()

	var gotLimit time.Time
	repo := &fakeMedicineRepository{
		expiringBeforeFn: func(_ context.Context, limit time.Time) ([]*medicine.Medicine, error) {
			gotLimit = limit
			return nil, nil
		},
	}
	svc := medicine.NewService(repo, nil)

	if _, err := svc.ExpiringWithin(context.Background(), -1); err == nil {
		t.Fatalf("expected validation error for negative window")
	}
	if _, err := svc.ExpiringWithin(context.Background(), 30); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotLimit.Before(time.Now().AddDate(0, 0, 30)) {
		t.Fatalf("expected limit to cover 30 days, got %s", gotLimit)
	}
}

func TestImportCSV(t *testing.T) {
	t.Parallel()

	var created []*medicine.Medicine
	repo := &fakeMedicineRepository{
		createManyFn: func(_ context.Context, ms []*medicine.Medicine) error {
			created = ms
			return nil
		},
	}
	svc := medicine.NewService(repo, nil)

	data := []byte("Name,Stock,Unit Price,Reorder Level,Expiry Date\n" +
		"Dipirona,20,4.50,5,2030-01-31\n" +
		"Ibuprofeno,2.5,3,1,\n" +
		",1,1,1,\n" +
		"Soro,10,$ 8,2,31/12/2030\n")

	result, err := svc.Import(context.Background(), "medicines.csv", data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Created != 2 || len(created) != 2 {
		t.Fatalf("expected 2 created, got %+v", result)
	}
	if len(result.Errors) != 2 {
		t.Fatalf("expected 2 row errors, got %+v", result.Errors)
	}
	if !created[1].UnitPrice.Equal(decimal.NewFromInt(8)) || created[1].ExpiryDate == nil {
		t.Fatalf("unexpected imported row: %+v", created[1])
	}
}
