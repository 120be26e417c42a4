package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mahdyhasan/augmind/internal/auth"
	"github.com/mahdyhasan/augmind/internal/backend/backendtest"
	"github.com/mahdyhasan/augmind/internal/datasource"
	"github.com/mahdyhasan/augmind/internal/entity"
	"github.com/mahdyhasan/augmind/internal/pkg/logger"
	"github.com/mahdyhasan/augmind/internal/service"
)

func testLogger(t *testing.T) logger.ILogger {
	t.Helper()
	return logger.NewIsolatedLogger(t.TempDir() + "/service_test.log")
}

func livePolicy(t *testing.T, fake *backendtest.Fake) *datasource.Policy {
	t.Helper()
	policy := datasource.NewPolicy(fake, testLogger(t), time.Second)
	policy.Probe(context.Background())
	return policy
}

func userWithRole(role entity.Role) *auth.User {
	id := uuid.New()
	return &auth.User{
		ID:       id.String(),
		Username: "tester",
		Role:     role,
		Name:     "Test User",
		Email:    "tester@example.com",
		Profile: &entity.UserProfile{
			Id:       id,
			Username: "tester",
			Role:     role,
			Status:   entity.UserStatusActive,
		},
	}
}

func lastQueryFor(t *testing.T, fake *backendtest.Fake, table string) backendtest.Query {
	t.Helper()
	calls := fake.TableCalls()
	for i := len(calls) - 1; i >= 0; i-- {
		if calls[i].Table == table {
			return calls[i]
		}
	}
	t.Fatalf("no recorded query for table %s", table)
	return backendtest.Query{}
}

func TestProspectListScopesNonAdminToOwnRows(t *testing.T) {
	fake := backendtest.New()
	svc := service.NewProspectService(fake, livePolicy(t, fake), nil, testLogger(t))
	caller := userWithRole(entity.RoleBusinessDev)

	_, err := svc.List(context.Background(), caller)
	require.NoError(t, err)

	q := lastQueryFor(t, fake, "client_prospects")
	assert.Equal(t, caller.ID, q.Filters["user_id"], "non-admin list must be scoped to the caller")
}

func TestProspectListDoesNotScopeAdmin(t *testing.T) {
	fake := backendtest.New()
	svc := service.NewProspectService(fake, livePolicy(t, fake), nil, testLogger(t))

	_, err := svc.List(context.Background(), userWithRole(entity.RoleAdmin))
	require.NoError(t, err)

	q := lastQueryFor(t, fake, "client_prospects")
	_, scoped := q.Filters["user_id"]
	assert.False(t, scoped, "admin list must see all rows")
}

func TestDocumentListScopesNonAdminToOwnUploads(t *testing.T) {
	fake := backendtest.New()
	svc := service.NewDocumentService(fake, livePolicy(t, fake), "documents", testLogger(t))
	caller := userWithRole(entity.RoleBusinessDev)

	_, err := svc.List(context.Background(), caller)
	require.NoError(t, err)

	q := lastQueryFor(t, fake, "documents")
	assert.Equal(t, caller.ID, q.Filters["uploaded_by"])
}

func TestDocumentDeleteRejectsForeignDocument(t *testing.T) {
	owner := uuid.New()
	docID := uuid.New()
	fake := backendtest.New()
	fake.GetFn = func(ctx context.Context, q *backendtest.Query, dest interface{}) error {
		*(dest.(*entity.Document)) = entity.Document{
			Id:            docID,
			UploadedBy:    owner,
			StoragePath:   "someone-else/file.pdf",
			StorageBucket: "documents",
		}
		return nil
	}

	svc := service.NewDocumentService(fake, livePolicy(t, fake), "documents", testLogger(t))
	err := svc.Delete(context.Background(), userWithRole(entity.RoleBusinessDev), docID)
	assert.ErrorIs(t, err, service.ErrForbidden)
}

func TestPresetListFiltersInactiveForNonAdmin(t *testing.T) {
	fake := backendtest.New()
	svc := service.NewPresetService(fake, livePolicy(t, fake), testLogger(t))

	_, err := svc.List(context.Background(), userWithRole(entity.RoleBusinessDev))
	require.NoError(t, err)
	q := lastQueryFor(t, fake, "preset_questions")
	assert.Equal(t, true, q.Filters["is_active"])

	_, err = svc.List(context.Background(), userWithRole(entity.RoleAdmin))
	require.NoError(t, err)
	q = lastQueryFor(t, fake, "preset_questions")
	_, filtered := q.Filters["is_active"]
	assert.False(t, filtered, "admins manage the full catalog")
}

func TestPresetListServesDemoCatalogInFallback(t *testing.T) {
	fake := backendtest.New()
	policy := datasource.NewPolicy(fake, testLogger(t), time.Second) // never probed: fallback
	svc := service.NewPresetService(fake, policy, testLogger(t))

	before := fake.Calls()
	questions, err := svc.List(context.Background(), userWithRole(entity.RoleBusinessDev))
	require.NoError(t, err)
	assert.NotEmpty(t, questions)
	assert.Equal(t, before, fake.Calls(), "fallback mode must not touch the backend")
}

func TestChatConversationOwnershipEnforced(t *testing.T) {
	owner := uuid.New()
	convID := uuid.New()
	fake := backendtest.New()
	fake.GetFn = func(ctx context.Context, q *backendtest.Query, dest interface{}) error {
		if conv, ok := dest.(*entity.Conversation); ok {
			*conv = entity.Conversation{Id: convID, UserId: owner}
		}
		return nil
	}

	svc := service.NewChatService(fake, nil, nil, testLogger(t))
	_, err := svc.GetConversation(context.Background(), userWithRole(entity.RoleBusinessDev), convID)
	assert.ErrorIs(t, err, service.ErrForbidden)
}

func TestChatRejectsCallerOverTokenLimit(t *testing.T) {
	fake := backendtest.New()
	svc := service.NewChatService(fake, nil, nil, testLogger(t))

	caller := userWithRole(entity.RoleBusinessDev)
	caller.Profile.TokenLimit = 100
	caller.Profile.TokensUsed = 100

	_, err := svc.SendMessage(context.Background(), caller, nil)
	assert.ErrorIs(t, err, service.ErrLimitExceeded)
	assert.Zero(t, fake.Calls(), "limit rejection happens before any backend call")
}
