package user

import (
	"context"
	"regexp"
	"strings"

	appErrors "clinicdesk/internal/errors"
	"clinicdesk/internal/logger"
	"clinicdesk/internal/pkg"

	"github.com/oklog/ulid/v2"
	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 12

type Service struct {
	Repository Repository
}

func NewService(repo Repository) *Service {
	return &Service{Repository: repo}
}

func (s *Service) Create(ctx context.Context, user *User) error {
	user.Id = pkg.GenerateULIDObject()
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	if user.Role == "" {
		user.Role = RoleStaff
	}
	if !user.Role.IsValid() {
		return appErrors.NewValidationError("role", "deve ser ADMIN ou STAFF")
	}

	now := pkg.SetTimestamps()
	user.CreatedAt = now
	user.UpdatedAt = now

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcryptCost)
	if err != nil {
		return appErrors.ErrInternalServer.WithError(err)
	}
	user.Password = string(hashedPassword)

	return s.Repository.Create(ctx, user)
}

func (s *Service) Delete(ctx context.Context, id ulid.ULID) error {
	return s.Repository.Delete(ctx, id)
}

func (s *Service) GetByID(ctx context.Context, id ulid.ULID) (*User, error) {
	return s.Repository.GetByID(ctx, id)
}

func (s *Service) GetByEmail(ctx context.Context, email string) (*User, error) {
	return s.Repository.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
}

func (s *Service) List(ctx context.Context, pagination *pkg.PaginationParams) ([]*User, int64, error) {
	return s.Repository.List(ctx, pkg.NormalizePagination(pagination))
}

func (s *Service) UpdateRole(ctx context.Context, userID ulid.ULID, role Role) (*User, error) {
	if !role.IsValid() {
		return nil, appErrors.NewValidationError("role", "deve ser ADMIN ou STAFF")
	}

	user, err := s.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.Role == role {
		return user, nil
	}

	user.Role = role
	user.UpdatedAt = pkg.SetTimestamps()
	if err := s.Repository.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *Service) UpdateName(ctx context.Context, userID ulid.ULID, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return appErrors.NewValidationError("name", "nome não pode estar vazio")
	}

	user, err := s.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	user.Name = name
	user.UpdatedAt = pkg.SetTimestamps()

	return s.Repository.Update(ctx, user)
}

func (s *Service) UpdatePassword(ctx context.Context, userID ulid.ULID, currentPassword, newPassword string) error {
	user, err := s.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(currentPassword)); err != nil {
		return appErrors.ErrInvalidCredentials
	}

	if err := validatePasswordRequirements("new_password", newPassword); err != nil {
		return err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return appErrors.ErrInternalServer.WithError(err)
	}

	user.Password = string(hashedPassword)
	user.UpdatedAt = pkg.SetTimestamps()

	return s.Repository.Update(ctx, user)
}

// EnsureAdmin cria o administrador inicial quando o email ainda não existe.
func (s *Service) EnsureAdmin(ctx context.Context, name, email, password string) error {
	if email == "" || password == "" {
		logger.Warn().Msg("ADMIN_EMAIL/ADMIN_PASSWORD não configurados; administrador inicial não criado")
		return nil
	}

	_, err := s.GetByEmail(ctx, email)
	if err == nil {
		return nil
	}
	if appErr, ok := appErrors.AsAppError(err); !ok || appErr.Code != appErrors.ErrUserNotFound.Code {
		return err
	}

	if name == "" {
		name = "Administrador"
	}
	admin := &User{Name: name, Email: email, Password: password, Role: RoleAdmin}
	if err := s.Create(ctx, admin); err != nil {
		return err
	}

	logger.Info().Str("email", admin.Email).Msg("Administrador inicial criado")
	return nil
}

func validatePasswordRequirements(field, password string) error {
	if len(password) < 8 {
		return appErrors.NewValidationError(field, "deve conter no mínimo 8 caracteres")
	}
	hasUpper, _ := regexp.MatchString(`[A-Z]`, password)
	if !hasUpper {
		return appErrors.NewValidationError(field, "deve conter ao menos uma letra maiúscula")
	}
	hasSpecial, _ := regexp.MatchString(`[@$!%*?&]`, password)
	if !hasSpecial {
		return appErrors.NewValidationError(field, "deve conter ao menos um caractere especial (@$!%*?&)")
	}
	return nil
}

// ValidatePassword aplica as regras mínimas de senha.
func ValidatePassword(password string) error {
	return validatePasswordRequirements("password", password)
}
