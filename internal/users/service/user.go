package service

import (
	"context"
	"errors"

	userserrors "hemstay/internal/users/errors"
	"hemstay/internal/users/repository"
	"hemstay/internal/users/validator"
	"hemstay/pkg/auth"
	"hemstay/pkg/config"
	apperrors "hemstay/pkg/errors"
	"hemstay/pkg/model"
	"hemstay/pkg/sanitizer"

	"golang.org/x/crypto/bcrypt"
)

type UserService interface {
	Register(ctx context.Context, input *validator.RegisterInput) (*model.User, error)
	Login(ctx context.Context, input *validator.LoginInput) (string, *model.User, error)
	Me(ctx context.Context, userID string) (*model.User, error)
}

type userService struct {
	repo      repository.UserRepository
	validator *validator.UserValidator
	auth      *auth.Manager
	cfg       *config.Config
}

func NewUserService(repo repository.UserRepository, userValidator *validator.UserValidator, authManager *auth.Manager, cfg *config.Config) UserService {
	return &userService{
		repo:      repo,
		validator: userValidator,
		auth:      authManager,
		cfg:       cfg,
	}
}

func (s *userService) Register(ctx context.Context, input *validator.RegisterInput) (*model.User, error) {
	input.Name = sanitizer.NormalizeName(input.Name)
	input.Email = sanitizer.NormalizeEmail(input.Email)

	if err := s.validator.ValidateRegister(input); err != nil {
		s.cfg.Log.Warn("Registration validation failed", "error", err)
		return nil, apperrors.Validation("Registration validation failed", map[string]any{"error": err.Error()})
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		s.cfg.Log.Error("Failed to hash password", "error", err)
		return nil, apperrors.Internal("Failed to process registration", err)
	}

	user := &model.User{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: string(hash),
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, userserrors.ErrDuplicateEmail) {
			return nil, apperrors.Conflict("Email is already registered")
		}
		s.cfg.Log.Error("Failed to create user", "email", user.Email, "error", err)
		return nil, apperrors.Internal("Failed to create user", err)
	}

	s.cfg.Log.Info("User registered", "id", user.ID, "email", user.Email)
	return user, nil
}

func (s *userService) Login(ctx context.Context, input *validator.LoginInput) (string, *model.User, error) {
	input.Email = sanitizer.NormalizeEmail(input.Email)

	if err := s.validator.ValidateLogin(input); err != nil {
		return "", nil, apperrors.Validation("Login validation failed", map[string]any{"error": err.Error()})
	}

	user, err := s.repo.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, userserrors.ErrNotFound) {
			// Same answer for unknown email and wrong password.
			return "", nil, apperrors.Unauthorized("Invalid email or password")
		}
		s.cfg.Log.Error("Failed to look up user", "email", input.Email, "error", err)
		return "", nil, apperrors.Internal("Failed to process login", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return "", nil, apperrors.Unauthorized("Invalid email or password")
	}

	token, err := s.auth.GenerateToken(user.ID, user.Name, user.Email)
	if err != nil {
		s.cfg.Log.Error("Failed to issue token", "user_id", user.ID, "error", err)
		return "", nil, apperrors.Internal("Failed to issue token", err)
	}

	s.cfg.Log.Info("User logged in", "id", user.ID)
	return token, user, nil
}

func (s *userService) Me(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, userserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("User", userID)
		}
		if errors.Is(err, userserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid user ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve user", err)
	}
	return user, nil
}
