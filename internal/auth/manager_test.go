package auth_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mahdyhasan/augmind/internal/auth"
	"github.com/mahdyhasan/augmind/internal/backend/backendtest"
	"github.com/mahdyhasan/augmind/internal/config"
)

func newManager(t *testing.T, fake *backendtest.Fake) *auth.Manager {
	t.Helper()
	log := testLogger(t)
	resolver := auth.NewProfileResolver(fake, log).WithTimeout(time.Second)
	bootstrap := auth.NewBootstrapper(fake, resolver, log).WithTimeout(time.Second)
	return auth.NewManager(fake, resolver, bootstrap, nil, nil, log, config.SessionConfig{
		CookieName:       "augmind_session",
		TTL:              time.Minute,
		BootstrapTimeout: time.Second,
	})
}

func TestResolveReturnsCachedStore(t *testing.T) {
	manager := newManager(t, backendtest.New())

	first, err := manager.Resolve(context.Background(), "sess-1")
	require.NoError(t, err)
	second, err := manager.Resolve(context.Background(), "sess-1")
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.False(t, first.Loading(), "resolve must settle the store")
}

func TestResolveRejectsEmptySessionID(t *testing.T) {
	manager := newManager(t, backendtest.New())
	_, err := manager.Resolve(context.Background(), "")
	assert.Error(t, err)
}

func TestResolveConcurrentFirstRequestsShareOneStore(t *testing.T) {
	manager := newManager(t, backendtest.New())

	const parallel = 8
	stores := make([]*auth.Store, parallel)
	var wg sync.WaitGroup
	for i := 0; i < parallel; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			store, err := manager.Resolve(context.Background(), "sess-racy")
			assert.NoError(t, err)
			stores[i] = store
		}(i)
	}
	wg.Wait()

	require.NotNil(t, stores[0])
	for i := 1; i < parallel; i++ {
		assert.Same(t, stores[0], stores[i], "every request of one session must get the same store")
	}
}
