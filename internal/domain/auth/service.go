package auth

import (
	"context"
	"strings"

	"clinicdesk/internal/domain/user"
	appErrors "clinicdesk/internal/errors"

	"golang.org/x/crypto/bcrypt"
)

type Login struct {
	Email    string
	Password string
}

type Service struct {
	Repository  user.Repository
	UserService *user.Service
}

func NewService(repo user.Repository, userSvc *user.Service) *Service {
	return &Service{
		Repository:  repo,
		UserService: userSvc,
	}
}

func (s *Service) Login(ctx context.Context, login Login) (*user.User, error) {
	entity, err := s.Repository.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(login.Email)))
	if err != nil {
		if appErr, ok := appErrors.AsAppError(err); ok && appErr.Code == appErrors.ErrUserNotFound.Code {
			return nil, appErrors.ErrInvalidCredentials
		}
		return nil, err
	}
	if err := PasswordValidate(login.Password, entity.Password); err != nil {
		return nil, err
	}
	return entity, nil
}

// Register cria sempre um usuário STAFF; promoção a ADMIN é feita por um administrador.
func (s *Service) Register(ctx context.Context, entity *user.User) error {
	exists, err := s.emailExists(ctx, entity.Email)
	if err != nil {
		return err
	}
	if exists {
		return appErrors.ErrEmailAlreadyExists
	}
	if err := user.ValidatePassword(entity.Password); err != nil {
		return err
	}
	entity.Role = user.RoleStaff
	return s.UserService.Create(ctx, entity)
}

func (s *Service) emailExists(ctx context.Context, email string) (bool, error) {
	_, err := s.Repository.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err == nil {
		return true, nil
	}
	appErr, ok := appErrors.AsAppError(err)
	if !ok {
		return false, appErrors.ErrInternalServer.WithError(err)
	}
	if appErr.Code == appErrors.ErrUserNotFound.Code {
		return false, nil
	}
	return false, appErr
}

func PasswordValidate(inputPassword string, storedPassword string) error {
	if inputPassword == "" {
		return appErrors.NewValidationError("password", "deve ser informado")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(storedPassword), []byte(inputPassword)); err != nil {
		return appErrors.ErrInvalidCredentials
	}
	return nil
}
