package user_test

import (
	"context"
	"testing"

	"clinicdesk/internal/domain/user"
	appErrors "clinicdesk/internal/errors"
	"clinicdesk/internal/pkg"

	"github.com/oklog/ulid/v2"
)

type fakeUserRepository struct {
	createFn     func(ctx context.Context, u *user.User) error
	updateFn     func(ctx context.Context, u *user.User) error
	getByIDFn    func(ctx context.Context, id ulid.ULID) (*user.User, error)
	getByEmailFn func(ctx context.Context, email string) (*user.User, error)
}

func (f *fakeUserRepository) Create(ctx context.Context, u *user.User) error {
	if f.createFn != nil {
		return f.createFn(ctx, u)
	}
	return nil
}

func (f *fakeUserRepository) Update(ctx context.Context, u *user.User) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, u)
	}
	return nil
}

func (f *fakeUserRepository) Delete(context.Context, ulid.ULID) error {
	return nil
}

func (f *fakeUserRepository) GetByID(ctx context.Context, id ulid.ULID) (*user.User, error) {
	if f.getByIDFn != nil {
		return f.getByIDFn(ctx, id)
	}
	return nil, appErrors.ErrUserNotFound
}

func (f *fakeUserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	if f.getByEmailFn != nil {
		return f.getByEmailFn(ctx, email)
	}
	return nil, appErrors.ErrUserNotFound
}

func (f *fakeUserRepository) List(context.Context, *pkg.PaginationParams) ([]*user.User, int64, error) {
	return nil, 0, nil
}

func TestEnsureAdminCreatesOnce(t *testing.T) {
	t.Parallel()

	var created *user.User
	repo := &fakeUserRepository{
		createFn: func(_ context.Context, u *user.User) error {
			created = u
			return nil
		},
		getByEmailFn: func(context.Context, string) (*user.User, error) {
			if created != nil {
				return created, nil
			}
			return nil, appErrors.ErrUserNotFound
		},
	}
	svc := user.NewService(repo)

	if err := svc.EnsureAdmin(context.Background(), "", "Admin@Clinica.com", "Admin@1234"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created == nil || created.Role != user.RoleAdmin || created.Email != "admin@clinica.com" {
		t.Fatalf("expected admin created, got %+v", created)
	}

	first := created
	if err := svc.EnsureAdmin(context.Background(), "", "admin@clinica.com", "Admin@1234"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created != first {
		t.Fatalf("expected existing admin kept")
	}
}

func TestEnsureAdminWithoutConfig(t *testing.T) {
	t.Parallel()

	repo := &fakeUserRepository{
		createFn: func(context.Context, *user.User) error {
			t.Fatalf("admin must not be created without credentials")
			return nil
		},
	}
	if err := user.NewService(repo).EnsureAdmin(context.Background(), "", "", ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestUpdateRole(t *testing.T) {
	t.Parallel()

	existing := &user.User{Id: pkg.GenerateULIDObject(), Role: user.RoleStaff}
	updated := false
	repo := &fakeUserRepository{
		getByIDFn: func(context.Context, ulid.ULID) (*user.User, error) { return existing, nil },
		updateFn: func(context.Context, *user.User) error {
			updated = true
			return nil
		},
	}
	svc := user.NewService(repo)

	if _, err := svc.UpdateRole(context.Background(), existing.Id, "ROOT"); err == nil {
		t.Fatalf("expected validation error")
	}

	u, err := svc.UpdateRole(context.Background(), existing.Id, user.RoleAdmin)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.Role != user.RoleAdmin || !updated {
		t.Fatalf("expected role persisted, got %s", u.Role)
	}
}
