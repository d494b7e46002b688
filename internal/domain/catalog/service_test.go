package catalog_test

import (
	"context"
	"testing"

	"clinicdesk/internal/domain/catalog"
	appErrors "clinicdesk/internal/errors"
	"clinicdesk/internal/pkg"

	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
)

type fakeCatalogRepository struct {
	createFn  func(ctx context.Context, item *catalog.ServiceItem) error
	updateFn  func(ctx context.Context, item *catalog.ServiceItem) error
	deleteFn  func(ctx context.Context, kind catalog.Kind, id ulid.ULID) error
	getByIDFn func(ctx context.Context, kind catalog.Kind, id ulid.ULID) (*catalog.ServiceItem, error)
	listFn    func(ctx context.Context, filters *catalog.Filters, pagination *pkg.PaginationParams) ([]*catalog.ServiceItem, int64, error)
}

func (f *fakeCatalogRepository) Create(ctx context.Context, item *catalog.ServiceItem) error {
	if f.createFn != nil {
		return f.createFn(ctx, item)
	}
	return nil
}

func (f *fakeCatalogRepository) Update(ctx context.Context, item *catalog.ServiceItem) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, item)
	}
	return nil
}

func (f *fakeCatalogRepository) Delete(ctx context.Context, kind catalog.Kind, id ulid.ULID) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, kind, id)
	}
	return nil
}

func (f *fakeCatalogRepository) GetByID(ctx context.Context, kind catalog.Kind, id ulid.ULID) (*catalog.ServiceItem, error) {
	if f.getByIDFn != nil {
		return f.getByIDFn(ctx, kind, id)
	}
	return nil, appErrors.ErrServiceItemNotFound
}

func (f *fakeCatalogRepository) List(ctx context.Context, filters *catalog.Filters, pagination *pkg.PaginationParams) ([]*catalog.ServiceItem, int64, error) {
	if f.listFn != nil {
		return f.listFn(ctx, filters, pagination)
	}
	return nil, 0, nil
}

func TestCreateDefaultsToActive(t *testing.T) {
	t.Parallel()

	svc := catalog.NewService(&fakeCatalogRepository{}, nil)
	item, err := svc.Create(context.Background(), catalog.KindInjection, catalog.Input{
		Name:  "Vacina antitetânica",
		Price: decimal.RequireFromString("35.499"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !item.Active || item.Kind != catalog.KindInjection {
		t.Fatalf("unexpected item: %+v", item)
	}
	if !item.Price.Equal(decimal.RequireFromString("35.5")) {
		t.Fatalf("expected price rounded to cents, got %s", item.Price)
	}
}

func TestCreateValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		kind  catalog.Kind
		input catalog.Input
	}{
		{name: "unknown kind", kind: "SURGERY", input: catalog.Input{Name: "X"}},
		{name: "missing name", kind: catalog.KindService, input: catalog.Input{}},
		{name: "negative price", kind: catalog.KindService, input: catalog.Input{Name: "X", Price: decimal.NewFromInt(-1)}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc := catalog.NewService(&fakeCatalogRepository{}, nil)
			_, err := svc.Create(context.Background(), tt.kind, tt.input)
			appErr, ok := appErrors.AsAppError(err)
			if !ok || appErr.Code != "VALIDATION_ERROR" {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestUpdateKeepsActiveWhenOmitted(t *testing.T) {
	t.Parallel()

	existing := &catalog.ServiceItem{Id: pkg.GenerateULIDObject(), Name: "Consulta", Kind: catalog.KindService, Active: false}
	repo := &fakeCatalogRepository{
		getByIDFn: func(_ context.Context, kind catalog.Kind, _ ulid.ULID) (*catalog.ServiceItem, error) {
			if kind != catalog.KindService {
				t.Fatalf("expected lookup scoped to kind SERVICE, got %s", kind)
			}
			return existing, nil
		},
	}
	svc := catalog.NewService(repo, nil)

	item, err := svc.Update(context.Background(), catalog.KindService, existing.Id, catalog.Input{Name: "Consulta geral", Price: decimal.NewFromInt(80)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if item.Active {
		t.Fatalf("expected active flag untouched")
	}
	if item.Name != "Consulta geral" {
		t.Fatalf("unexpected name %q", item.Name)
	}
}
