package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/tasktrack/tasktrack/internal/apperr"
	"github.com/tasktrack/tasktrack/internal/auth"
	"github.com/tasktrack/tasktrack/internal/models"
	"github.com/tasktrack/tasktrack/internal/repository"
)

type RegisterInput struct {
	Name                 string `json:"name" validate:"required,min=2,max=50"`
	Email                string `json:"email" validate:"required,email"`
	Password             string `json:"password" validate:"required,min=6"`
	PasswordConfirmation string `json:"password_confirmation" validate:"required,eqfield=Password"`
}

type AuthService struct {
	users         *repository.UserRepository
	tokens        *auth.TokenService
	log           *slog.Logger
	checkPassword func(hash, password string) error
}

func NewAuthService(users *repository.UserRepository, tokens *auth.TokenService, log *slog.Logger) *AuthService {
	return &AuthService{users: users, tokens: tokens, log: log, checkPassword: auth.CheckPassword}
}

// Register creates a user and returns it with a freshly issued token.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, string, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = NormalizeEmail(in.Email)

	if err := validateStruct(in); err != nil {
		return nil, "", err
	}

	passwordHash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, "", err
	}

	user := &models.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: passwordHash,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			return nil, "", apperr.NewValidationError("email", "has already been taken")
		}
		return nil, "", err
	}

	token, _, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", err
	}

	s.log.InfoContext(ctx, "user registered", "user_id", user.ID)
	return user, token, nil
}

// Login checks credentials. Unknown email and wrong password fail the same way.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	user, err := s.users.FindByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			_ = s.checkPassword(auth.DummyHash(), password)
			return nil, "", apperr.ErrInvalidCredentials
		}
		return nil, "", err
	}

	if err := s.checkPassword(user.PasswordHash, password); err != nil {
		return nil, "", apperr.ErrInvalidCredentials
	}

	token, _, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}

// Authenticate resolves a bearer token to an existing user.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, apperr.ErrMissingToken
	}

	userID, err := s.tokens.Verify(token)
	if err != nil {
		return nil, err
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, apperr.ErrInvalidToken
		}
		return nil, err
	}

	return user, nil
}

// DeleteAccount removes the user and all of their tasks after re-checking the password.
func (s *AuthService) DeleteAccount(ctx context.Context, userID uint, password string) error {
	if password == "" {
		return apperr.NewValidationError("password", "can't be blank")
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := s.checkPassword(user.PasswordHash, password); err != nil {
		return apperr.NewValidationError("password", "is incorrect")
	}

	if err := s.users.Delete(ctx, userID); err != nil {
		return fmt.Errorf("delete account: %w", err)
	}

	s.log.InfoContext(ctx, "account deleted", "user_id", userID)
	return nil
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
