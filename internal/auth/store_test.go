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
	"github.com/mahdyhasan/augmind/internal/datasource"
	"github.com/mahdyhasan/augmind/internal/entity"
	"github.com/mahdyhasan/augmind/internal/pkg/logger"
)

func testLogger(t *testing.T) logger.ILogger {
	t.Helper()
	return logger.NewIsolatedLogger(t.TempDir() + "/auth_test.log")
}

func newStore(t *testing.T, fake *backendtest.Fake) *auth.Store {
	t.Helper()
	log := testLogger(t)
	resolver := auth.NewProfileResolver(fake, log).WithTimeout(time.Second)
	return auth.NewStore(uuid.NewString(), fake, resolver, nil, log)
}

func sessionFor(id uuid.UUID, email string) *backend.Session {
	return &backend.Session{
		AccessToken:  "access-" + id.String(),
		RefreshToken: "refresh-" + id.String(),
		ExpiresAt:    time.Now().Add(time.Hour).Unix(),
		User:         backend.Identity{ID: id.String(), Email: email},
	}
}

func TestLoginAppliesResolvedUserBeforeReturning(t *testing.T) {
	id := uuid.New()
	fake := backendtest.New()
	fake.SignInFn = func(ctx context.Context, email, password string) (*backend.Session, error) {
		return sessionFor(id, email), nil
	}
	fake.GetFn = func(ctx context.Context, q *backendtest.Query, dest interface{}) error {
		*(dest.(*entity.UserProfile)) = entity.UserProfile{
			Id:       id,
			Username: "admin",
			FullName: "Administrator",
			Role:     entity.RoleAdmin,
			Status:   entity.UserStatusActive,
		}
		return nil
	}

	store := newStore(t, fake)
	result := store.Login(context.Background(), "admin@example.com", "admin123")
	require.True(t, result.Success)
	assert.Empty(t, result.Error)

	user := store.CurrentUser()
	require.NotNil(t, user, "user must be applied before Login returns")
	assert.Equal(t, id.String(), user.ID)
	assert.Equal(t, entity.RoleAdmin, user.Role)
	assert.Equal(t, "Administrator", user.Name)
	assert.True(t, user.IsAdmin())
	assert.True(t, store.IsAuthenticated())
	assert.False(t, store.Loading())
}

func TestLoginInvalidCredentialsDoesNotMutateState(t *testing.T) {
	fake := backendtest.New() // default SignIn fails with invalid_credentials
	store := newStore(t, fake)

	result := store.Login(context.Background(), "admin@example.com", "wrong")
	assert.False(t, result.Success)
	assert.Equal(t, "Invalid email or password.", result.Error)
	assert.Nil(t, store.CurrentUser())
	assert.False(t, store.IsAuthenticated())
}

func TestLoginNetworkFailureReportsNetworkError(t *testing.T) {
	fake := backendtest.New()
	fake.SignInFn = func(ctx context.Context, email, password string) (*backend.Session, error) {
		return nil, &backend.Error{Code: backend.CodeUnavailable, Status: 0, Message: "connection refused"}
	}
	store := newStore(t, fake)

	result := store.Login(context.Background(), "admin@example.com", "admin123")
	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "Network unreachable")
	assert.Nil(t, store.CurrentUser())
}

func TestLoginFallsBackWhenProfileFetchFails(t *testing.T) {
	id := uuid.New()
	fake := backendtest.New()
	fake.SignInFn = func(ctx context.Context, email, password string) (*backend.Session, error) {
		return sessionFor(id, email), nil
	}
	fake.GetFn = func(ctx context.Context, q *backendtest.Query, dest interface{}) error {
		return &backend.Error{Code: backend.CodeUnavailable, Status: 0, Message: "profiles table unreachable"}
	}

	store := newStore(t, fake)
	result := store.Login(context.Background(), "jane.doe@example.com", "secret")
	require.True(t, result.Success)

	user := store.CurrentUser()
	require.NotNil(t, user)
	assert.Equal(t, id.String(), user.ID, "fallback user keeps the identity id")
	assert.Equal(t, "jane.doe", user.Username, "fallback username comes from the email local-part")
	assert.Equal(t, entity.RoleBusinessDev, user.Role, "fallback never grants admin")
	assert.Nil(t, user.Profile)
}

func TestLoginUsesDemoDirectoryWhileFallbackActive(t *testing.T) {
	fake := backendtest.New()
	log := testLogger(t)
	policy := datasource.NewPolicy(fake, log, time.Second) // never probed: fallback
	resolver := auth.NewProfileResolver(fake, log).WithTimeout(time.Second)
	store := auth.NewStore(uuid.NewString(), fake, resolver, nil, log).
		WithFallback(datasource.NewFallbackAuthenticator(policy))

	result := store.Login(context.Background(), "admin@augmind.com", "admin123")
	require.True(t, result.Success)

	user := store.CurrentUser()
	require.NotNil(t, user)
	assert.True(t, user.IsAdmin())
	assert.Equal(t, datasource.DemoAdminID.String(), user.ID)
	assert.Nil(t, store.Session(), "demo sessions carry no token bundle")
	assert.Zero(t, fake.Calls(), "demo sign-in must not touch the backend")
}

func TestLoginDemoDirectoryRejectsWrongPassword(t *testing.T) {
	fake := backendtest.New() // default SignIn fails with invalid_credentials
	log := testLogger(t)
	policy := datasource.NewPolicy(fake, log, time.Second)
	resolver := auth.NewProfileResolver(fake, log).WithTimeout(time.Second)
	store := auth.NewStore(uuid.NewString(), fake, resolver, nil, log).
		WithFallback(datasource.NewFallbackAuthenticator(policy))

	result := store.Login(context.Background(), "admin@augmind.com", "wrong")
	assert.False(t, result.Success)
	assert.Equal(t, "Invalid email or password.", result.Error)
	assert.Nil(t, store.CurrentUser())
}

func TestRefreshRenewsExpiredSession(t *testing.T) {
	id := uuid.New()
	fake := backendtest.New()
	fake.SignInFn = func(ctx context.Context, email, password string) (*backend.Session, error) {
		return &backend.Session{
			AccessToken:  "stale-token",
			RefreshToken: "refresh-1",
			ExpiresAt:    time.Now().Add(-time.Minute).Unix(),
			User:         backend.Identity{ID: id.String(), Email: email},
		}, nil
	}
	fake.RefreshFn = func(ctx context.Context, refreshToken string) (*backend.Session, error) {
		assert.Equal(t, "refresh-1", refreshToken)
		return sessionFor(id, "user@example.com"), nil
	}

	store := newStore(t, fake)
	var events []string
	store.Subscribe(func(e auth.Event) {
		events = append(events, e.Type)
	})
	require.True(t, store.Login(context.Background(), "user@example.com", "user123").Success)

	store.RefreshIfExpired(context.Background())

	session := store.Session()
	require.NotNil(t, session)
	assert.NotEqual(t, "stale-token", session.AccessToken)
	assert.True(t, store.IsAuthenticated())
	assert.Contains(t, events, auth.EventTokenRefreshed)
}

func TestRefreshLeavesValidSessionAlone(t *testing.T) {
	id := uuid.New()
	fake := backendtest.New()
	fake.SignInFn = func(ctx context.Context, email, password string) (*backend.Session, error) {
		return sessionFor(id, email), nil
	}

	store := newStore(t, fake)
	require.True(t, store.Login(context.Background(), "user@example.com", "user123").Success)
	token := store.Session().AccessToken

	before := fake.Calls()
	store.RefreshIfExpired(context.Background())

	assert.Equal(t, before, fake.Calls(), "a valid token must not trigger a refresh")
	assert.Equal(t, token, store.Session().AccessToken)
}

func TestRefreshRejectedDropsSession(t *testing.T) {
	id := uuid.New()
	fake := backendtest.New() // default RefreshSession fails with unauthorized
	fake.SignInFn = func(ctx context.Context, email, password string) (*backend.Session, error) {
		return &backend.Session{
			AccessToken:  "stale-token",
			RefreshToken: "refresh-1",
			ExpiresAt:    time.Now().Add(-time.Minute).Unix(),
			User:         backend.Identity{ID: id.String(), Email: email},
		}, nil
	}

	store := newStore(t, fake)
	require.True(t, store.Login(context.Background(), "user@example.com", "user123").Success)

	store.RefreshIfExpired(context.Background())

	assert.False(t, store.IsAuthenticated())
	assert.Nil(t, store.Session())
}

func TestSignupPartialFailureStillSucceedsWithAdvisory(t *testing.T) {
	id := uuid.New()
	fake := backendtest.New()
	fake.SignUpFn = func(ctx context.Context, email, password string, metadata map[string]interface{}) (*backend.Identity, error) {
		return &backend.Identity{ID: id.String(), Email: email, Metadata: metadata}, nil
	}
	fake.InsertFn = func(ctx context.Context, q *backendtest.Query, record, dest interface{}) error {
		return &backend.Error{Code: backend.CodeUnavailable, Status: 0, Message: "insert failed"}
	}

	store := newStore(t, fake)
	result := store.Signup(context.Background(), "new@example.com", "secret123", auth.SignupOptions{
		Username: "newbie",
		FullName: "New Person",
	})

	assert.True(t, result.Success, "identity creation succeeded, so signup succeeded")
	assert.NotEmpty(t, result.Error, "profile failure must surface as an advisory")
}

func TestSignupDuplicateEmail(t *testing.T) {
	fake := backendtest.New()
	fake.SignUpFn = func(ctx context.Context, email, password string, metadata map[string]interface{}) (*backend.Identity, error) {
		return nil, &backend.Error{Code: backend.CodeDuplicate, Status: 422, Message: "user already registered"}
	}

	store := newStore(t, fake)
	result := store.Signup(context.Background(), "taken@example.com", "secret123", auth.SignupOptions{})
	assert.False(t, result.Success)
	assert.Equal(t, "An account with this email already exists.", result.Error)
}

func TestLogoutClearsStateWhenProviderFails(t *testing.T) {
	id := uuid.New()
	fake := backendtest.New()
	fake.SignInFn = func(ctx context.Context, email, password string) (*backend.Session, error) {
		return sessionFor(id, email), nil
	}
	fake.SignOutFn = func(ctx context.Context, accessToken string) error {
		return &backend.Error{Code: backend.CodeUnavailable, Status: 0, Message: "network down"}
	}

	store := newStore(t, fake)
	require.True(t, store.Login(context.Background(), "user@example.com", "user123").Success)
	require.True(t, store.IsAuthenticated())

	store.Logout(context.Background())

	assert.False(t, store.IsAuthenticated())
	assert.Nil(t, store.CurrentUser())
	assert.Nil(t, store.Session())
}

func TestSubscribeReceivesSignInAndSignOut(t *testing.T) {
	id := uuid.New()
	fake := backendtest.New()
	fake.SignInFn = func(ctx context.Context, email, password string) (*backend.Session, error) {
		return sessionFor(id, email), nil
	}

	store := newStore(t, fake)

	var events []string
	unsubscribe := store.Subscribe(func(e auth.Event) {
		events = append(events, e.Type)
	})

	require.True(t, store.Login(context.Background(), "user@example.com", "user123").Success)
	store.Logout(context.Background())
	unsubscribe()
	store.Logout(context.Background())

	assert.Equal(t, []string{auth.EventSignedIn, auth.EventSignedOut}, events)
}
