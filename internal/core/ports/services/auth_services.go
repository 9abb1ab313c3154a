package services

import (
	"context"
	"time"

	"github.com/SscSPs/treasury_backoffice/internal/core/domain"
)

// AuthResult is a successful login.
type AuthResult struct {
	Token     string
	ExpiresAt time.Time
	User      domain.User
}

// AuthSvcFacade authenticates operators and issues access tokens.
type AuthSvcFacade interface {
	// Login checks the credentials and returns a signed access token.
	// Unknown users and wrong passwords both yield apperrors.ErrUnauthorized.
	Login(ctx context.Context, username, password string) (*AuthResult, error)

	// ParseToken validates an access token and returns its principal.
	ParseToken(ctx context.Context, token string) (*domain.Principal, error)
}
