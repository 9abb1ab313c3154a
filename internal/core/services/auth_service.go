package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SscSPs/treasury_backoffice/internal/apperrors"
	"github.com/SscSPs/treasury_backoffice/internal/core/domain"
	portsrepo "github.com/SscSPs/treasury_backoffice/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/treasury_backoffice/internal/core/ports/services"
	"github.com/SscSPs/treasury_backoffice/internal/platform/config"
	"github.com/SscSPs/treasury_backoffice/internal/utils"
)

// authService checks operator credentials and issues JWT access tokens
// carrying the operator's roles.
type authService struct {
	BaseService
	cfg      *config.Config
	userRepo portsrepo.UserReader
}

// NewAuthService creates a new instance of authService.
func NewAuthService(cfg *config.Config, userRepo portsrepo.UserReader) portssvc.AuthSvcFacade {
	return &authService{cfg: cfg, userRepo: userRepo}
}

var _ portssvc.AuthSvcFacade = (*authService)(nil)

func (s *authService) Login(ctx context.Context, username, password string) (*portssvc.AuthResult, error) {
	user, err := s.userRepo.FindUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.LogInfo(ctx, "Login attempt for unknown user", slog.String("username", username))
			return nil, fmt.Errorf("invalid username or password: %w", apperrors.ErrUnauthorized)
		}
		s.LogError(ctx, err, "Failed to look up user for login", slog.String("username", username))
		return nil, err
	}
	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		s.LogInfo(ctx, "Login attempt with wrong password", slog.String("user_id", user.UserID))
		return nil, fmt.Errorf("invalid username or password: %w", apperrors.ErrUnauthorized)
	}

	roles := domain.NormalizeRoles(user.Roles)
	token, expiresAt, err := utils.GenerateJWT(user.UserID, user.Name, roles, s.cfg.JWTSecret, s.cfg.JWTExpiryDuration, s.cfg.JWTIssuer)
	if err != nil {
		s.LogError(ctx, err, "Failed to sign access token", slog.String("user_id", user.UserID))
		return nil, apperrors.NewAppError(500, "failed to issue access token", err)
	}
	user.Roles = roles

	s.LogInfo(ctx, "Operator logged in", slog.String("user_id", user.UserID))
	return &portssvc.AuthResult{Token: token, ExpiresAt: expiresAt, User: *user}, nil
}

func (s *authService) ParseToken(_ context.Context, token string) (*domain.Principal, error) {
	claims, err := utils.ParseAndValidateJWT(token, s.cfg.JWTSecret)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, apperrors.ErrUnauthorized)
	}
	return &domain.Principal{
		ID:    claims.Subject,
		Name:  claims.Name,
		Roles: domain.NormalizeRoles(claims.Roles),
	}, nil
}
