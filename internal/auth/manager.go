package auth

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"github.com/mahdyhasan/augmind/internal/backend"
	"github.com/mahdyhasan/augmind/internal/config"
	"github.com/mahdyhasan/augmind/internal/pkg/logger"
)

const sessionKeyPrefix = "augmind:session:"

// Manager owns one Store per browser session. Stores live in an expiring
// in-memory cache; the token bundles behind them are persisted to Redis so a
// session survives a process restart.
type Manager struct {
	client    backend.Client
	resolver  *ProfileResolver
	bootstrap *Bootstrapper
	bus       message.Publisher
	log       logger.ILogger
	rdb       *redis.Client
	cfg       config.SessionConfig
	fallback  FallbackAuth

	stores *gocache.Cache
	flight singleflight.Group
}

func NewManager(client backend.Client, resolver *ProfileResolver, bootstrap *Bootstrapper, bus message.Publisher, rdb *redis.Client, log logger.ILogger, cfg config.SessionConfig) *Manager {
	return &Manager{
		client:    client,
		resolver:  resolver,
		bootstrap: bootstrap,
		bus:       bus,
		log:       log,
		rdb:       rdb,
		cfg:       cfg,
		stores:    gocache.New(cfg.TTL, 10*time.Minute),
	}
}

// WithFallback attaches the demo-directory authenticator handed to every
// store this manager creates.
func (m *Manager) WithFallback(f FallbackAuth) *Manager {
	m.fallback = f
	return m
}

// Create makes a fresh anonymous session for a login or signup flow.
func (m *Manager) Create(ctx context.Context) *Store {
	id := uuid.NewString()
	store := m.newStore(id)
	store.apply(StateAnonymous, nil, nil)
	m.stores.Set(id, store, m.cfg.TTL)
	return store
}

// Resolve returns the store for a session id, bootstrapping it synchronously
// from persisted tokens on a cache miss. Callers therefore never observe a
// store stuck in Loading: by the time Resolve returns, the state has settled.
func (m *Manager) Resolve(ctx context.Context, sessionID string) (*Store, error) {
	if sessionID == "" {
		return nil, errors.New("empty session id")
	}
	if cached, ok := m.stores.Get(sessionID); ok {
		return cached.(*Store), nil
	}

	// Concurrent first requests of one session must share a single store;
	// bootstrapping two would leave whichever loses the cache write serving
	// state no later request can see.
	v, err, _ := m.flight.Do(sessionID, func() (interface{}, error) {
		if cached, ok := m.stores.Get(sessionID); ok {
			return cached, nil
		}
		store := m.newStore(sessionID)
		m.bootstrap.Run(ctx, store, m.loadSaved(ctx, sessionID))
		m.stores.Set(sessionID, store, m.cfg.TTL)
		return store, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Store), nil
}

func (m *Manager) newStore(id string) *Store {
	store := NewStore(id, m.client, m.resolver, m.bus, m.log).WithFallback(m.fallback)
	store.Subscribe(func(e Event) {
		switch e.Type {
		case EventSignedIn, EventTokenRefreshed:
			m.persist(store)
		case EventSignedOut:
			m.discard(e.SessionID)
		}
	})
	return store
}

// loadSaved fetches the persisted token bundle. Redis being absent or down
// just means the session starts anonymous.
func (m *Manager) loadSaved(ctx context.Context, sessionID string) *SavedSession {
	if m.rdb == nil {
		return nil
	}
	raw, err := m.rdb.Get(ctx, sessionKeyPrefix+sessionID).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			m.log.Warn("session", "Failed to load persisted session", map[string]interface{}{
				"session_id": sessionID,
				"error":      err.Error(),
			})
		}
		return nil
	}
	var saved SavedSession
	if err := json.Unmarshal(raw, &saved); err != nil {
		return nil
	}
	return &saved
}

func (m *Manager) persist(store *Store) {
	if m.rdb == nil {
		return
	}
	session := store.Session()
	if session == nil {
		return
	}
	saved := SavedSession{AccessToken: session.AccessToken, RefreshToken: session.RefreshToken}
	raw, err := json.Marshal(saved)
	if err != nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := m.rdb.Set(ctx, sessionKeyPrefix+store.ID(), raw, m.cfg.TTL).Err(); err != nil {
		m.log.Warn("session", "Failed to persist session tokens", map[string]interface{}{
			"session_id": store.ID(),
			"error":      err.Error(),
		})
	}
}

func (m *Manager) discard(sessionID string) {
	if m.rdb != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := m.rdb.Del(ctx, sessionKeyPrefix+sessionID).Err(); err != nil {
			m.log.Warn("session", "Failed to discard persisted session", map[string]interface{}{
				"session_id": sessionID,
				"error":      err.Error(),
			})
		}
	}
}
