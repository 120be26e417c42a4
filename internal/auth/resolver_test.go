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

func TestResolveBuildsUserFromProfileRecord(t *testing.T) {
	id := uuid.New()
	fake := backendtest.New()
	fake.GetFn = func(ctx context.Context, q *backendtest.Query, dest interface{}) error {
		assert.Equal(t, "user_profiles", q.Table)
		assert.Equal(t, id.String(), q.Filters["id"])
		assert.True(t, q.IsSingle)
		*(dest.(*entity.UserProfile)) = entity.UserProfile{
			Id:       id,
			Username: "admin",
			FullName: "Administrator",
			Role:     entity.RoleAdmin,
			Status:   entity.UserStatusActive,
		}
		return nil
	}

	resolver := auth.NewProfileResolver(fake, testLogger(t)).WithTimeout(time.Second)
	user := resolver.Resolve(context.Background(), &backend.Identity{ID: id.String(), Email: "admin@example.com"})

	require.NotNil(t, user)
	assert.Equal(t, "admin", user.Username)
	assert.Equal(t, "Administrator", user.Name)
	assert.True(t, user.IsAdmin())
	require.NotNil(t, user.Profile)
	assert.Equal(t, id, user.Profile.Id)
}

func TestResolveProvisionsMissingProfile(t *testing.T) {
	id := uuid.New()
	fake := backendtest.New() // default single Get returns not_found
	var inserted *entity.UserProfile
	fake.InsertFn = func(ctx context.Context, q *backendtest.Query, record, dest interface{}) error {
		inserted = record.(*entity.UserProfile)
		return nil
	}

	resolver := auth.NewProfileResolver(fake, testLogger(t)).WithTimeout(time.Second)
	user := resolver.Resolve(context.Background(), &backend.Identity{ID: id.String(), Email: "fresh@example.com"})

	require.NotNil(t, user)
	assert.Equal(t, "fresh", user.Username)
	assert.Equal(t, entity.RoleBusinessDev, user.Role)

	require.NotNil(t, inserted, "missing profile row must be provisioned")
	assert.Equal(t, id, inserted.Id)
	assert.Equal(t, entity.RoleBusinessDev, inserted.Role)
	assert.Equal(t, entity.UserStatusActive, inserted.Status)
}

func TestResolveTimeoutFallsBackToIdentity(t *testing.T) {
	id := uuid.New()
	fake := backendtest.New()
	fake.GetFn = func(ctx context.Context, q *backendtest.Query, dest interface{}) error {
		<-ctx.Done()
		return ctx.Err()
	}

	resolver := auth.NewProfileResolver(fake, testLogger(t)).WithTimeout(50 * time.Millisecond)
	start := time.Now()
	user := resolver.Resolve(context.Background(), &backend.Identity{ID: id.String(), Email: "slow@example.com"})

	require.NotNil(t, user, "a hanging profile lookup must not block resolution")
	assert.Less(t, time.Since(start), time.Second)
	assert.Equal(t, id.String(), user.ID)
	assert.Equal(t, "slow", user.Username)
	assert.Equal(t, entity.RoleBusinessDev, user.Role)
}

func TestResolveHonorsMetadataOnFallback(t *testing.T) {
	fake := backendtest.New()
	fake.GetFn = func(ctx context.Context, q *backendtest.Query, dest interface{}) error {
		return &backend.Error{Code: backend.CodeUnavailable, Status: 0, Message: "down"}
	}

	resolver := auth.NewProfileResolver(fake, testLogger(t)).WithTimeout(time.Second)
	user := resolver.Resolve(context.Background(), &backend.Identity{
		ID:    uuid.NewString(),
		Email: "jd@example.com",
		Metadata: map[string]interface{}{
			"username":  "jdoe",
			"full_name": "Jane Doe",
		},
	})

	require.NotNil(t, user)
	assert.Equal(t, "jdoe", user.Username)
	assert.Equal(t, "Jane Doe", user.Name)
}
