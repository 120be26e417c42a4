package datasource_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mahdyhasan/augmind/internal/backend"
	"github.com/mahdyhasan/augmind/internal/backend/backendtest"
	"github.com/mahdyhasan/augmind/internal/datasource"
	"github.com/mahdyhasan/augmind/internal/entity"
	"github.com/mahdyhasan/augmind/internal/pkg/logger"
)

func newPolicy(t *testing.T, fake *backendtest.Fake) *datasource.Policy {
	t.Helper()
	log := logger.NewIsolatedLogger(t.TempDir() + "/datasource_test.log")
	return datasource.NewPolicy(fake, log, time.Second)
}

func TestPolicyStartsInFallback(t *testing.T) {
	policy := newPolicy(t, backendtest.New())
	assert.Equal(t, datasource.ModeFallback, policy.Mode())
	assert.False(t, policy.Live())
}

func TestProbePromotesToLive(t *testing.T) {
	policy := newPolicy(t, backendtest.New()) // default probe succeeds
	assert.Equal(t, datasource.ModeLive, policy.Probe(context.Background()))
	assert.True(t, policy.Live())
}

func TestProbeFailureDemotesToFallback(t *testing.T) {
	fake := backendtest.New()
	policy := newPolicy(t, fake)
	require.Equal(t, datasource.ModeLive, policy.Probe(context.Background()))

	fake.ProbeFn = func(ctx context.Context) error {
		return &backend.Error{Code: backend.CodeUnavailable, Status: 0, Message: "connection refused"}
	}
	assert.Equal(t, datasource.ModeFallback, policy.Probe(context.Background()))

	mode, probedAt, err := policy.Status()
	assert.Equal(t, datasource.ModeFallback, mode)
	assert.WithinDuration(t, time.Now(), probedAt, time.Minute)
	assert.Error(t, err)
}

func TestVerifyDemoCredentials(t *testing.T) {
	profile := datasource.VerifyDemoCredentials("admin@augmind.com", "admin123")
	require.NotNil(t, profile)
	assert.Equal(t, entity.RoleAdmin, profile.Role)
	assert.Equal(t, "Administrator", profile.FullName)

	profile = datasource.VerifyDemoCredentials("user@augmind.com", "user123")
	require.NotNil(t, profile)
	assert.Equal(t, entity.RoleBusinessDev, profile.Role)

	assert.Nil(t, datasource.VerifyDemoCredentials("admin@augmind.com", "wrong"))
	assert.Nil(t, datasource.VerifyDemoCredentials("nobody@augmind.com", "admin123"))
}

func TestDemoDatasetOwnership(t *testing.T) {
	for _, prospect := range datasource.DemoProspects() {
		assert.Equal(t, datasource.DemoUserID, prospect.UserId)
	}
	assert.NotEmpty(t, datasource.DemoPresetQuestions())
	assert.NotEmpty(t, datasource.DemoProfiles())
}
