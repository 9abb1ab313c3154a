// Package auth implements the console sign-in flow on top of the request
// gateway and the session manager.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/treasury_backoffice/internal/client/gateway"
	"github.com/SscSPs/treasury_backoffice/internal/client/guard"
	"github.com/SscSPs/treasury_backoffice/internal/client/session"
	"github.com/SscSPs/treasury_backoffice/internal/core/domain"
	"github.com/SscSPs/treasury_backoffice/internal/dto"
)

const loginEndpoint = "auth/login"

var (
	// ErrInvalidCredentials is returned when the backend rejects the
	// username/password pair.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrNotLoggedIn is returned by Whoami when no session is established.
	ErrNotLoggedIn = errors.New("not logged in")
)

// Service signs operators in and out.
type Service struct {
	gw       *gateway.Client
	sessions *session.Manager
	logger   *slog.Logger
}

// NewService creates an auth Service.
func NewService(gw *gateway.Client, sessions *session.Manager, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{gw: gw, sessions: sessions, logger: logger}
}

// Login authenticates against the backend and establishes the session
// (token, flag and principal in one write).
func (s *Service) Login(ctx context.Context, username, password string) (*domain.Principal, error) {
	req := dto.LoginRequest{Username: strings.TrimSpace(username), Password: password}
	if err := guard.Check(req); err != nil {
		return nil, err
	}

	// A 401 here means bad credentials, not an expired session: there is
	// nothing to navigate away from.
	resp, err := s.gw.Post(ctx, loginEndpoint, req, func() {})
	if err != nil {
		if errors.Is(err, gateway.ErrUnauthorized) {
			s.logger.Warn("Login rejected", slog.String("username", req.Username))
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login failed: %w", err)
	}

	login, err := gateway.DecodeObject[dto.LoginResponse](resp.Payload)
	if err != nil {
		return nil, fmt.Errorf("login failed: %w", err)
	}
	if login.Token == "" || login.User.ID == "" {
		return nil, fmt.Errorf("login failed: %w: token or user missing", gateway.ErrMalformedPayload)
	}

	principal := domain.Principal{
		ID:    login.User.ID,
		Name:  login.User.Name,
		Roles: domain.NormalizeRoles(login.User.Roles),
	}
	if err := s.sessions.Establish(ctx, login.Token, principal); err != nil {
		return nil, err
	}
	s.logger.Info("Logged in", slog.String("user_id", principal.ID), slog.String("roles", strings.Join(principal.Roles, ",")))
	return &principal, nil
}

// Logout clears the session. Logging out without a session is not an error.
func (s *Service) Logout(ctx context.Context) error {
	return s.sessions.Clear(ctx, session.ReasonLogout)
}

// Whoami returns the principal of the current session.
func (s *Service) Whoami(ctx context.Context) (*domain.Principal, error) {
	state, err := s.sessions.Current(ctx)
	if err != nil {
		return nil, err
	}
	if !state.Authenticated || state.Principal == nil {
		return nil, ErrNotLoggedIn
	}
	return state.Principal, nil
}
