package session_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/SscSPs/treasury_backoffice/internal/client/session"
	"github.com/SscSPs/treasury_backoffice/internal/core/domain"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stores(t *testing.T) map[string]session.Store {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return map[string]session.Store{
		"memory": session.NewMemoryStore(),
		"file":   session.NewFileStore(filepath.Join(t.TempDir(), "profile", "session.json")),
		"redis":  session.NewRedisStore(client, "treasury:session:test", time.Hour),
	}
}

func TestManager_EstablishAndClear(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			m := session.NewManager(store, nil)

			state, err := m.Current(ctx)
			require.NoError(t, err)
			assert.False(t, state.Authenticated)
			assert.Empty(t, state.Token)

			err = m.Establish(ctx, "tok-123", domain.Principal{ID: "u1", Name: "Awa", Roles: []string{"treasurer", "ADMIN", "admin"}})
			require.NoError(t, err)

			state, err = m.Current(ctx)
			require.NoError(t, err)
			assert.True(t, state.Authenticated)
			assert.Equal(t, "tok-123", state.Token)
			require.NotNil(t, state.Principal)
			assert.Equal(t, "u1", state.Principal.ID)
			assert.Equal(t, []string{"ADMIN", "TREASURER"}, state.Principal.Roles)

			require.NoError(t, m.Clear(ctx, session.ReasonLogout))

			values, err := store.GetAll(ctx, session.Keys...)
			require.NoError(t, err)
			assert.Empty(t, values, "all session keys must be cleared together")

			token, err := m.Token(ctx)
			require.NoError(t, err)
			assert.Empty(t, token)
		})
	}
}

func TestManager_EstablishRejectsEmptyToken(t *testing.T) {
	m := session.NewManager(session.NewMemoryStore(), nil)
	err := m.Establish(context.Background(), "", domain.Principal{ID: "u1"})
	assert.ErrorIs(t, err, session.ErrEmptyToken)
}

func TestManager_SplitStateReadsAsLoggedOut(t *testing.T) {
	tests := []struct {
		name   string
		values map[string]string
	}{
		{"flag without token", map[string]string{session.KeyAuthenticated: "true"}},
		{"token without flag", map[string]string{session.KeyToken: "tok"}},
		{"token with false flag", map[string]string{session.KeyToken: "tok", session.KeyAuthenticated: "false"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			store := session.NewMemoryStore()
			require.NoError(t, store.SetAll(ctx, tt.values))

			state, err := session.NewManager(store, nil).Current(ctx)
			require.NoError(t, err)
			assert.False(t, state.Authenticated)
			assert.Empty(t, state.Token)
		})
	}
}

func TestManager_Subscribe(t *testing.T) {
	ctx := context.Background()
	m := session.NewManager(session.NewMemoryStore(), nil)

	var events []session.Event
	unsubscribe := m.Subscribe(func(ev session.Event) { events = append(events, ev) })

	require.NoError(t, m.Establish(ctx, "tok", domain.Principal{ID: "u1"}))
	require.NoError(t, m.Clear(ctx, session.ReasonExpired))

	require.Len(t, events, 2)
	assert.Equal(t, session.EventEstablished, events[0].Kind)
	assert.Equal(t, "u1", events[0].Principal.ID)
	assert.Equal(t, session.EventCleared, events[1].Kind)
	assert.Equal(t, session.ReasonExpired, events[1].Reason)

	unsubscribe()
	require.NoError(t, m.Establish(ctx, "tok", domain.Principal{ID: "u1"}))
	assert.Len(t, events, 2)
}

func TestFileStore_PersistsAcrossInstances(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "session.json")

	require.NoError(t, session.NewManager(session.NewFileStore(path), nil).
		Establish(ctx, "tok-file", domain.Principal{ID: "u9", Roles: []string{"VIEWER"}}))

	state, err := session.NewManager(session.NewFileStore(path), nil).Current(ctx)
	require.NoError(t, err)
	assert.True(t, state.Authenticated)
	assert.Equal(t, "tok-file", state.Token)
	assert.True(t, state.Principal.HasRole("viewer"))
}

func TestRedisStore_Expiry(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	m := session.NewManager(session.NewRedisStore(client, "sess", time.Minute), nil)
	require.NoError(t, m.Establish(ctx, "tok", domain.Principal{ID: "u1"}))
	assert.Equal(t, "tok", mr.HGet("sess", session.KeyToken))

	mr.FastForward(2 * time.Minute)

	state, err := m.Current(ctx)
	require.NoError(t, err)
	assert.False(t, state.Authenticated)
}
