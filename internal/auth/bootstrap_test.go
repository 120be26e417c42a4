package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mahdyhasan/augmind/internal/auth"
	"github.com/mahdyhasan/augmind/internal/backend"
	"github.com/mahdyhasan/augmind/internal/backend/backendtest"
	"github.com/mahdyhasan/augmind/internal/entity"
)

func runBootstrap(t *testing.T, fake *backendtest.Fake, timeout time.Duration, saved *auth.SavedSession) *auth.Store {
	t.Helper()
	log := testLogger(t)
	resolver := auth.NewProfileResolver(fake, log).WithTimeout(timeout)
	store := auth.NewStore(uuid.NewString(), fake, resolver, nil, log)
	auth.NewBootstrapper(fake, resolver, log).WithTimeout(timeout).Run(context.Background(), store, saved)
	return store
}

func TestBootstrapWithoutSavedTokensSettlesAnonymous(t *testing.T) {
	store := runBootstrap(t, backendtest.New(), time.Second, nil)
	assert.False(t, store.Loading())
	assert.False(t, store.IsAuthenticated())
}

func TestBootstrapTimeoutSettlesAnonymous(t *testing.T) {
	fake := backendtest.New()
	fake.GetUserFn = func(ctx context.Context, accessToken string) (*backend.Identity, error) {
		<-ctx.Done() // backend hangs until the bootstrap deadline fires
		return nil, ctx.Err()
	}

	start := time.Now()
	store := runBootstrap(t, fake, 100*time.Millisecond, &auth.SavedSession{AccessToken: "stale"})

	assert.False(t, store.Loading(), "loading must clear even when the backend hangs")
	assert.False(t, store.IsAuthenticated())
	assert.Less(t, time.Since(start), time.Second)
}

func TestBootstrapNetworkFailureSettlesAnonymous(t *testing.T) {
	fake := backendtest.New()
	fake.GetUserFn = func(ctx context.Context, accessToken string) (*backend.Identity, error) {
		return nil, &backend.Error{Code: backend.CodeUnavailable, Status: 0, Message: "connection refused"}
	}

	store := runBootstrap(t, fake, time.Second, &auth.SavedSession{AccessToken: "whatever"})
	assert.False(t, store.Loading())
	assert.False(t, store.IsAuthenticated())
	assert.Nil(t, store.CurrentUser())
}

func TestBootstrapRestoresValidSession(t *testing.T) {
	id := uuid.New()
	fake := backendtest.New()
	fake.GetUserFn = func(ctx context.Context, accessToken string) (*backend.Identity, error) {
		return &backend.Identity{ID: id.String(), Email: "user@example.com"}, nil
	}
	fake.GetFn = func(ctx context.Context, q *backendtest.Query, dest interface{}) error {
		*(dest.(*entity.UserProfile)) = entity.UserProfile{
			Id:       id,
			Username: "user",
			FullName: "Regular User",
			Role:     entity.RoleBusinessDev,
			Status:   entity.UserStatusActive,
		}
		return nil
	}

	store := runBootstrap(t, fake, time.Second, &auth.SavedSession{
		AccessToken:  "valid-token",
		RefreshToken: "refresh-token",
	})

	require.True(t, store.IsAuthenticated())
	user := store.CurrentUser()
	require.NotNil(t, user)
	assert.Equal(t, id.String(), user.ID)
	assert.Equal(t, "Regular User", user.Name)

	session := store.Session()
	require.NotNil(t, session)
	assert.Equal(t, "valid-token", session.AccessToken)
	assert.Equal(t, "refresh-token", session.RefreshToken)
}

func TestBootstrapRefreshesExpiredAccessToken(t *testing.T) {
	id := uuid.New()
	fake := backendtest.New()
	fake.GetUserFn = func(ctx context.Context, accessToken string) (*backend.Identity, error) {
		return nil, &backend.Error{Code: backend.CodeUnauthorized, Status: 401, Message: "token expired"}
	}
	fake.RefreshFn = func(ctx context.Context, refreshToken string) (*backend.Session, error) {
		require.Equal(t, "still-good", refreshToken)
		return &backend.Session{
			AccessToken:  "fresh-token",
			RefreshToken: "fresh-refresh",
			User:         backend.Identity{ID: id.String(), Email: "user@example.com"},
		}, nil
	}

	store := runBootstrap(t, fake, time.Second, &auth.SavedSession{
		AccessToken:  "expired",
		RefreshToken: "still-good",
	})

	require.True(t, store.IsAuthenticated())
	session := store.Session()
	require.NotNil(t, session)
	assert.Equal(t, "fresh-token", session.AccessToken)
}

func TestBootstrapRejectedRefreshSettlesAnonymous(t *testing.T) {
	fake := backendtest.New() // default GetUser and RefreshSession both return unauthorized
	store := runBootstrap(t, fake, time.Second, &auth.SavedSession{
		AccessToken:  "expired",
		RefreshToken: "revoked",
	})
	assert.False(t, store.IsAuthenticated())
	assert.False(t, store.Loading())
}
