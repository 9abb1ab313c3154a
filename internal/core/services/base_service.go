package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SscSPs/treasury_backoffice/internal/apperrors"
	"github.com/SscSPs/treasury_backoffice/internal/core/domain"
	"github.com/SscSPs/treasury_backoffice/internal/middleware"
)

// Role sets allowed to drive the slip workflow.
var (
	// preparerRoles build slips and take them to the bank.
	preparerRoles = []string{domain.RoleAdmin, domain.RoleTreasurer}
	// settlerRoles record what the bank did with a deposited slip.
	settlerRoles = []string{domain.RoleAdmin, domain.RoleTreasurer, domain.RoleAccountant}
)

// BaseService provides common functionality for all services
type BaseService struct{}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	logger := middleware.GetLoggerFromCtx(ctx)
	if logger == nil {
		return slog.Default()
	}
	return logger
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	args := make([]any, 0, len(keyvals)+1)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	logger.Error(msg, args...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Info(msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Debug(msg, keyvals...)
}

// AuthorizeActor checks that actor is authenticated and, when roles are
// given, holds at least one of them.
func (s *BaseService) AuthorizeActor(ctx context.Context, actor domain.Principal, action string, roles ...string) error {
	if actor.ID == "" {
		return fmt.Errorf("%s: no authenticated principal: %w", action, apperrors.ErrUnauthorized)
	}
	if len(roles) == 0 || actor.HasAnyRole(roles...) {
		return nil
	}
	s.GetLogger(ctx).Warn("Role check failed",
		slog.String("user_id", actor.ID),
		slog.String("action", action),
		slog.Any("roles", actor.Roles))
	return fmt.Errorf("%s requires one of %v: %w", action, roles, apperrors.ErrForbidden)
}
