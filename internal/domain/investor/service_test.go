package investor_test

import (
	"context"
	"testing"

	"clinicdesk/internal/domain/investor"
	appErrors "clinicdesk/internal/errors"
	"clinicdesk/internal/pkg"

	"github.com/oklog/ulid/v2"
)

type fakeInvestorRepository struct {
	createFn      func(ctx context.Context, inv *investor.Investor) error
	updateFn      func(ctx context.Context, inv *investor.Investor, renamed bool) error
	deleteFn      func(ctx context.Context, id ulid.ULID) error
	getByIDFn     func(ctx context.Context, id ulid.ULID) (*investor.Investor, error)
	listFn        func(ctx context.Context, search string, pagination *pkg.PaginationParams) ([]*investor.Investor, int64, error)
	countSharesFn func(ctx context.Context, id ulid.ULID) (int64, error)
}

func (f *fakeInvestorRepository) Create(ctx context.Context, inv *investor.Investor) error {
	if f.createFn != nil {
		return f.createFn(ctx, inv)
	}
	return nil
}

func (f *fakeInvestorRepository) Update(ctx context.Context, inv *investor.Investor, renamed bool) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, inv, renamed)
	}
	return nil
}

func (f *fakeInvestorRepository) Delete(ctx context.Context, id ulid.ULID) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, id)
	}
	return nil
}

func (f *fakeInvestorRepository) GetByID(ctx context.Context, id ulid.ULID) (*investor.Investor, error) {
	if f.getByIDFn != nil {
		return f.getByIDFn(ctx, id)
	}
	return nil, appErrors.ErrInvestorNotFound
}

func (f *fakeInvestorRepository) List(ctx context.Context, search string, pagination *pkg.PaginationParams) ([]*investor.Investor, int64, error) {
	if f.listFn != nil {
		return f.listFn(ctx, search, pagination)
	}
	return nil, 0, nil
}

func (f *fakeInvestorRepository) CountShares(ctx context.Context, id ulid.ULID) (int64, error) {
	if f.countSharesFn != nil {
		return f.countSharesFn(ctx, id)
	}
	return 0, nil
}

func TestCreateRequiresName(t *testing.T) {
	t.Parallel()

	svc := investor.NewService(&fakeInvestorRepository{}, nil)
	_, err := svc.Create(context.Background(), investor.Input{Name: "   "})
	appErr, ok := appErrors.AsAppError(err)
	if !ok || appErr.Code != "VALIDATION_ERROR" {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUpdatePropagatesRename(t *testing.T) {
	t.Parallel()

	existing := &investor.Investor{Id: pkg.GenerateULIDObject(), Name: "Alice"}
	tests := []struct {
		name        string
		newName     string
		wantRenamed bool
	}{
		{name: "rename", newName: "Alice Souza", wantRenamed: true},
		{name: "same name", newName: " Alice ", wantRenamed: false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			current := *existing
			var gotRenamed bool
			repo := &fakeInvestorRepository{
				getByIDFn: func(context.Context, ulid.ULID) (*investor.Investor, error) {
					return &current, nil
				},
				updateFn: func(_ context.Context, _ *investor.Investor, renamed bool) error {
					gotRenamed = renamed
					return nil
				},
			}
			svc := investor.NewService(repo, nil)
			if _, err := svc.Update(context.Background(), existing.Id, investor.Input{Name: tt.newName}); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if gotRenamed != tt.wantRenamed {
				t.Fatalf("expected renamed=%v, got %v", tt.wantRenamed, gotRenamed)
			}
		})
	}
}

func TestDeleteRefusedWhileReferenced(t *testing.T) {
	t.Parallel()

	existing := &investor.Investor{Id: pkg.GenerateULIDObject(), Name: "Alice"}
	repo := &fakeInvestorRepository{
		getByIDFn: func(context.Context, ulid.ULID) (*investor.Investor, error) {
			return existing, nil
		},
		countSharesFn: func(context.Context, ulid.ULID) (int64, error) {
			return 2, nil
		},
		deleteFn: func(context.Context, ulid.ULID) error {
			t.Fatalf("delete must not be called while shares reference the investor")
			return nil
		},
	}
	svc := investor.NewService(repo, nil)

	err := svc.Delete(context.Background(), existing.Id)
	appErr, ok := appErrors.AsAppError(err)
	if !ok || appErr.Code != "INVESTOR_IN_USE" {
		t.Fatalf("expected INVESTOR_IN_USE, got %v", err)
	}
	if appErr.Details["shares"] != int64(2) {
		t.Fatalf("expected share count in details, got %v", appErr.Details)
	}
}
