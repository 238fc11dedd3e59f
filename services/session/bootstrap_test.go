package session

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"poolchill/api"
	"poolchill/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testBundle() *models.TokenBundle {
	return &models.TokenBundle{
		AccessToken:  "h.c.s",
		RefreshToken: "refresh-1",
		User:         models.User{ID: "u1", Email: "ana@x.com"},
		ExpiresIn:    3600,
	}
}

func TestBootstrapSessionIdempotent(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	b := NewBootstrap(store, nil, "secret")

	require.NoError(t, b.BootstrapSession(ctx, testBundle()))
	require.NoError(t, b.BootstrapSession(ctx, testBundle()))

	assert.Equal(t, "h.c.s", b.AccessToken(ctx))
	user, err := b.User(ctx)
	require.NoError(t, err)
	assert.Equal(t, "u1", user.ID)
}

func TestBootstrapDerivesUserIDFromToken(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	b := NewBootstrap(store, nil, "secret")

	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"HS256","typ":"JWT"}`))
	claims := base64.RawURLEncoding.EncodeToString([]byte(`{"sub":"u9"}`))
	bundle := testBundle()
	bundle.AccessToken = header + "." + claims + ".sig"
	bundle.User.ID = ""

	require.NoError(t, b.BootstrapSession(ctx, bundle))
	userID, err := store.Get(ctx, KeyUserID)
	require.NoError(t, err)
	assert.Equal(t, "u9", userID)
}

func TestEnsureFreshTokenBoundary(t *testing.T) {
	ctx := context.Background()

	var refreshCalls int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/refresh" {
			http.NotFound(w, r)
			return
		}
		atomic.AddInt64(&refreshCalls, 1)
		json.NewEncoder(w).Encode(models.TokenBundle{
			AccessToken:  "h2.c2.s2",
			RefreshToken: "refresh-2",
			User:         models.User{ID: "u1"},
			ExpiresIn:    3600,
		})
	}))
	defer server.Close()

	store := NewMemoryStore()
	b := NewBootstrap(store, api.NewClient(server.URL, server.Client()), "secret")

	base := time.Now()
	b.Now = func() time.Time { return base }
	require.NoError(t, b.BootstrapSession(ctx, testBundle()))

	t.Run("within window makes no network call", func(t *testing.T) {
		b.Now = func() time.Time { return base.Add(59 * time.Minute) }
		assert.True(t, b.EnsureFreshToken(ctx))
		assert.Equal(t, int64(0), atomic.LoadInt64(&refreshCalls))
	})

	t.Run("past window refreshes", func(t *testing.T) {
		b.Now = func() time.Time { return base.Add(61 * time.Minute) }
		assert.True(t, b.EnsureFreshToken(ctx))
		assert.Equal(t, int64(1), atomic.LoadInt64(&refreshCalls))
		assert.Equal(t, "h2.c2.s2", b.AccessToken(ctx))
	})
}

func TestEnsureFreshTokenFailedRefreshLeavesSessionIntact(t *testing.T) {
	ctx := context.Background()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"message": "refresh token revoked"})
	}))
	defer server.Close()

	store := NewMemoryStore()
	b := NewBootstrap(store, api.NewClient(server.URL, server.Client()), "secret")

	base := time.Now()
	b.Now = func() time.Time { return base }
	require.NoError(t, b.BootstrapSession(ctx, testBundle()))

	b.Now = func() time.Time { return base.Add(2 * time.Hour) }
	assert.False(t, b.EnsureFreshToken(ctx))

	// Every stored field survives the failed refresh.
	assert.Equal(t, "h.c.s", b.AccessToken(ctx))
	refresh, err := store.Get(ctx, KeyRefreshToken)
	require.NoError(t, err)
	assert.Equal(t, "refresh-1", refresh)
}

func TestEnsureFreshTokenWithoutSession(t *testing.T) {
	b := NewBootstrap(NewMemoryStore(), nil, "secret")
	assert.False(t, b.EnsureFreshToken(context.Background()))
}

func TestClearSession(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	b := NewBootstrap(store, nil, "secret")
	require.NoError(t, b.BootstrapSession(ctx, testBundle()))

	b.ClearSession(ctx)
	assert.Empty(t, b.AccessToken(ctx))
	_, err := store.Get(ctx, KeyRefreshToken)
	assert.ErrorIs(t, err, ErrNotFound)
}
