// Package session keeps the console's authenticated session (bearer token,
// authenticated flag and principal) in a persistent key-value store.
//
// The three keys are always written together and cleared together; a store
// found holding only part of them reads as unauthenticated.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"

	"github.com/SscSPs/treasury_backoffice/internal/core/domain"
)

// Persistent keys.
const (
	KeyToken         = "token"
	KeyAuthenticated = "isAuthenticated"
	KeyUser          = "user"
)

// Keys lists every key owned by the session.
var Keys = []string{KeyToken, KeyAuthenticated, KeyUser}

// Reasons passed to Clear.
const (
	ReasonLogout  = "logout"
	ReasonExpired = "expired"
)

// ErrEmptyToken is returned when establishing a session without a token.
var ErrEmptyToken = errors.New("session token is empty")

// Store is the persistent key-value store backing a session. SetAll and
// DeleteAll must apply all keys in a single atomic operation.
type Store interface {
	GetAll(ctx context.Context, keys ...string) (map[string]string, error)
	SetAll(ctx context.Context, values map[string]string) error
	DeleteAll(ctx context.Context, keys ...string) error
}

// State is a snapshot of the session.
type State struct {
	Token         string
	Authenticated bool
	Principal     *domain.Principal
}

// EventKind tells subscribers what happened to the session.
type EventKind int

const (
	EventEstablished EventKind = iota + 1
	EventCleared
)

// Event is delivered to subscribers after every set or clear.
type Event struct {
	Kind      EventKind
	Principal *domain.Principal
	Reason    string
}

// Manager owns the session. It is safe for concurrent use.
type Manager struct {
	store  Store
	logger *slog.Logger

	mu sync.Mutex

	subsMu sync.RWMutex
	subs   map[int]func(Event)
	nextID int
}

// NewManager creates a Manager over store.
func NewManager(store Store, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		store:  store,
		logger: logger,
		subs:   make(map[int]func(Event)),
	}
}

// Establish writes token, authenticated flag and principal in one operation.
func (m *Manager) Establish(ctx context.Context, token string, principal domain.Principal) error {
	if token == "" {
		return ErrEmptyToken
	}
	principal.Roles = domain.NormalizeRoles(principal.Roles)
	userJSON, err := json.Marshal(principal)
	if err != nil {
		return fmt.Errorf("failed to encode principal: %w", err)
	}

	m.mu.Lock()
	err = m.store.SetAll(ctx, map[string]string{
		KeyToken:         token,
		KeyAuthenticated: strconv.FormatBool(true),
		KeyUser:          string(userJSON),
	})
	m.mu.Unlock()
	if err != nil {
		return fmt.Errorf("failed to persist session: %w", err)
	}

	m.logger.Info("Session established", slog.String("user_id", principal.ID))
	m.publish(Event{Kind: EventEstablished, Principal: &principal})
	return nil
}

// Clear removes every session key in one operation.
func (m *Manager) Clear(ctx context.Context, reason string) error {
	m.mu.Lock()
	err := m.store.DeleteAll(ctx, Keys...)
	m.mu.Unlock()
	if err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}

	m.logger.Info("Session cleared", slog.String("reason", reason))
	m.publish(Event{Kind: EventCleared, Reason: reason})
	return nil
}

// Current reads the session. A partially written session is reported as
// unauthenticated with no token.
func (m *Manager) Current(ctx context.Context) (State, error) {
	m.mu.Lock()
	values, err := m.store.GetAll(ctx, Keys...)
	m.mu.Unlock()
	if err != nil {
		return State{}, fmt.Errorf("failed to read session: %w", err)
	}

	token := values[KeyToken]
	authenticated, _ := strconv.ParseBool(values[KeyAuthenticated])
	if token == "" || !authenticated {
		if token != "" || authenticated {
			m.logger.Warn("Inconsistent session state, treating as logged out")
		}
		return State{}, nil
	}

	state := State{Token: token, Authenticated: true}
	if raw := values[KeyUser]; raw != "" {
		var p domain.Principal
		if err := json.Unmarshal([]byte(raw), &p); err != nil {
			m.logger.Warn("Stored principal is unreadable", slog.String("error", err.Error()))
		} else {
			state.Principal = &p
		}
	}
	return state, nil
}

// Token returns the bearer token, or "" when no session is established.
func (m *Manager) Token(ctx context.Context) (string, error) {
	state, err := m.Current(ctx)
	if err != nil {
		return "", err
	}
	return state.Token, nil
}

// Subscribe registers fn for session events and returns a function that
// removes the subscription.
func (m *Manager) Subscribe(fn func(Event)) func() {
	m.subsMu.Lock()
	id := m.nextID
	m.nextID++
	m.subs[id] = fn
	m.subsMu.Unlock()

	return func() {
		m.subsMu.Lock()
		delete(m.subs, id)
		m.subsMu.Unlock()
	}
}

func (m *Manager) publish(ev Event) {
	m.subsMu.RLock()
	fns := make([]func(Event), 0, len(m.subs))
	for _, fn := range m.subs {
		fns = append(fns, fn)
	}
	m.subsMu.RUnlock()

	for _, fn := range fns {
		fn(ev)
	}
}
