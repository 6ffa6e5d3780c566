package service

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	identityerrors "medbook/internal/identity/errors"
	"medbook/internal/identity/repository"
	"medbook/internal/identity/validator"
	"medbook/pkg/auth"
	"medbook/pkg/config"
	apperrors "medbook/pkg/errors"
	"medbook/pkg/model"
	"medbook/pkg/sanitizer"
)

type IdentityService interface {
	Register(ctx context.Context, req *model.RegisterRequest) (*model.TokenResponse, error)
	Login(ctx context.Context, req *model.LoginRequest) (*model.TokenResponse, error)
	GetUser(ctx context.Context, id string) (*model.User, error)
}

type identityService struct {
	repo         repository.UserRepository
	validator    *validator.UserValidator
	tokenManager *auth.TokenManager
	cfg          *config.Config
}

func NewIdentityService(
	repo repository.UserRepository,
	validator *validator.UserValidator,
	tokenManager *auth.TokenManager,
	cfg *config.Config,
) IdentityService {
	return &identityService{
		repo:         repo,
		validator:    validator,
		tokenManager: tokenManager,
		cfg:          cfg,
	}
}

func (s *identityService) Register(ctx context.Context, req *model.RegisterRequest) (*model.TokenResponse, error) {
	req.Name = sanitizer.NormalizeName(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Phone = sanitizer.NormalizePhone(req.Phone)

	if err := s.validator.ValidateRegister(req); err != nil {
		s.cfg.Log.Warn("Registration validation failed", "error", err)
		return nil, apperrors.Validation("Registration validation failed", map[string]any{"error": err.Error()})
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Internal("Failed to hash password", err)
	}

	user := &model.User{
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		PasswordHash: string(hash),
		Role:         req.Role,
		BusinessID:   req.BusinessID,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, identityerrors.ErrDuplicateEmail) {
			return nil, apperrors.Conflict("Email address is already registered")
		}
		s.cfg.Log.Error("Failed to create user", "error", err)
		return nil, apperrors.Internal("Failed to create user", err)
	}

	s.cfg.Log.Info("User registered successfully", "id", user.ID, "role", user.Role)
	return s.issueToken(user)
}

func (s *identityService) Login(ctx context.Context, req *model.LoginRequest) (*model.TokenResponse, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := s.validator.ValidateLogin(req); err != nil {
		return nil, apperrors.Validation("Login validation failed", map[string]any{"error": err.Error()})
	}

	user, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, identityerrors.ErrNotFound) {
			// Same error as a bad password so the endpoint does not leak
			// which emails exist.
			return nil, apperrors.Unauthorized("Invalid email or password")
		}
		return nil, apperrors.Internal("Failed to look up user", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		s.cfg.Log.Warn("Failed login attempt", "email", req.Email)
		return nil, apperrors.Unauthorized("Invalid email or password")
	}

	s.cfg.Log.Info("User logged in successfully", "id", user.ID)
	return s.issueToken(user)
}

func (s *identityService) issueToken(user *model.User) (*model.TokenResponse, error) {
	token, expiresAt, err := s.tokenManager.Issue(auth.Actor{
		ID:         user.ID,
		Role:       user.Role,
		BusinessID: user.BusinessID,
	})
	if err != nil {
		return nil, apperrors.Internal("Failed to issue token", err)
	}

	return &model.TokenResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      user,
	}, nil
}

func (s *identityService) GetUser(ctx context.Context, id string) (*model.User, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("User ID cannot be empty")
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, identityerrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("User", id)
		}
		if errors.Is(err, identityerrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid user ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve user", err)
	}

	if actor, ok := auth.ActorFromContext(ctx); ok && !actor.IsAdmin() && actor.ID != user.ID {
		return nil, apperrors.Unauthorized("Users can only view their own account")
	}
	return user, nil
}
