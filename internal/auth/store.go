package auth

import (
	"context"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/mahdyhasan/augmind/internal/backend"
	"github.com/mahdyhasan/augmind/internal/entity"
	"github.com/mahdyhasan/augmind/internal/pkg/logger"
)

// State is the auth lifecycle of one browser session. The only legal
// transitions are Loading -> {Authenticated, Anonymous},
// Authenticated -> Anonymous and Anonymous -> Authenticated.
type State int

const (
	StateLoading State = iota
	StateAuthenticated
	StateAnonymous
)

// Result is the outcome of a credential operation. A true Success with a
// non-empty Error is the partial-success signup contract: the identity
// exists, the advisory explains what was deferred.
type Result struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// SignupOptions carries the profile fields collected on the signup form.
type SignupOptions struct {
	Username string
	FullName string
	Role     entity.Role
}

// FallbackAuth authenticates against the built-in demo directory. It is
// consulted only while the data-source policy is serving fallback data, so a
// dead backend still lets the demo accounts in.
type FallbackAuth interface {
	Active() bool
	Verify(email, password string) *entity.UserProfile
}

// Store holds the auth state of one browser session. It is the sole mutable
// shared structure: only Login, Signup, Logout and HandleAuthChange write to
// it, everything else reads.
type Store struct {
	id       string
	client   backend.Client
	resolver *ProfileResolver
	bus      message.Publisher
	log      logger.ILogger
	fallback FallbackAuth

	mu        sync.RWMutex
	state     State
	user      *User
	session   *backend.Session
	refreshMu sync.Mutex

	listenerMu sync.Mutex
	listeners  map[int]func(Event)
	nextID     int
}

func NewStore(id string, client backend.Client, resolver *ProfileResolver, bus message.Publisher, log logger.ILogger) *Store {
	return &Store{
		id:        id,
		client:    client,
		resolver:  resolver,
		bus:       bus,
		log:       log,
		state:     StateLoading,
		listeners: map[int]func(Event){},
	}
}

// WithFallback attaches the demo-directory authenticator.
func (s *Store) WithFallback(f FallbackAuth) *Store {
	s.fallback = f
	return s
}

func (s *Store) ID() string { return s.id }

func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state == StateLoading
}

// IsAuthenticated is true exactly when a user is held; during Loading it is
// stably false so guards fail safe.
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil
}

func (s *Store) CurrentUser() *User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

func (s *Store) Session() *backend.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session
}

// Client returns the adapter scoped with the session's access token, so data
// calls made on behalf of this user carry the user's own authorization.
func (s *Store) Client() backend.Client {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.session != nil {
		return s.client.WithToken(s.session.AccessToken)
	}
	return s.client
}

// Subscribe registers a listener for auth-state events and returns its
// unsubscribe function.
func (s *Store) Subscribe(fn func(Event)) func() {
	s.listenerMu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.listenerMu.Unlock()

	return func() {
		s.listenerMu.Lock()
		delete(s.listeners, id)
		s.listenerMu.Unlock()
	}
}

// Login signs in against the auth provider and applies the resolved user to
// the store before returning, so callers may rely on CurrentUser immediately
// after a successful result. Failures never mutate the held user. While the
// data-source policy is serving fallback data, the demo directory is checked
// first so the dashboard stays reachable with the demo credentials.
func (s *Store) Login(ctx context.Context, email, password string) Result {
	if s.demoLogin(email, password) {
		return Result{Success: true}
	}

	session, err := s.client.Auth().SignInWithPassword(ctx, email, password)
	if err != nil {
		switch {
		case backend.IsNetwork(err):
			if s.demoLogin(email, password) {
				return Result{Success: true}
			}
			return Result{Success: false, Error: "Network unreachable. Please check your connection and try again."}
		case backend.IsInvalidCredentials(err):
			return Result{Success: false, Error: "Invalid email or password."}
		default:
			s.log.Error("auth", "Unexpected login failure", map[string]interface{}{"error": err.Error()})
			return Result{Success: false, Error: "An unexpected error occurred during login. Please try again."}
		}
	}

	user := s.resolver.Resolve(ctx, &session.User)
	s.apply(StateAuthenticated, user, session)
	s.notify(EventSignedIn)

	return Result{Success: true}
}

// demoLogin signs the caller in against the demo directory. Demo sessions
// carry no token bundle; every view behind the guard serves the demo dataset
// while the policy stays in fallback.
func (s *Store) demoLogin(email, password string) bool {
	if s.fallback == nil || !s.fallback.Active() {
		return false
	}
	profile := s.fallback.Verify(email, password)
	if profile == nil {
		return false
	}

	user := &User{
		ID:       profile.Id.String(),
		Username: profile.Username,
		Role:     profile.Role,
		Name:     profile.FullName,
		Email:    email,
		Profile:  profile,
	}
	s.apply(StateAuthenticated, user, nil)
	s.notify(EventSignedIn)
	return true
}

// Signup creates the auth identity first, then the profile row as a second
// independent step. A failed second step still reports success with an
// advisory: the identity exists and the resolver provisions the profile
// lazily on the next login.
func (s *Store) Signup(ctx context.Context, email, password string, opts SignupOptions) Result {
	metadata := map[string]interface{}{
		"username":  opts.Username,
		"full_name": opts.FullName,
	}
	identity, err := s.client.Auth().SignUp(ctx, email, password, metadata)
	if err != nil {
		switch {
		case backend.IsNetwork(err):
			return Result{Success: false, Error: "Network unreachable. Please check your connection and try again."}
		case backend.CodeOf(err) == backend.CodeDuplicate:
			return Result{Success: false, Error: "An account with this email already exists."}
		case backend.CodeOf(err) == backend.CodeWeakPassword:
			return Result{Success: false, Error: "Password does not meet the minimum requirements."}
		default:
			s.log.Error("auth", "Unexpected signup failure", map[string]interface{}{"error": err.Error()})
			return Result{Success: false, Error: "An unexpected error occurred during signup. Please try again."}
		}
	}

	role := opts.Role
	if !role.Valid() {
		role = entity.RoleBusinessDev
	}

	profile := newProfileRecord(identity, opts.Username, opts.FullName, role)
	if profile == nil {
		return Result{Success: true, Error: "Account created, but profile setup was deferred to your first login."}
	}
	if err := s.client.From("user_profiles").Insert(ctx, profile, nil); err != nil {
		s.log.Warn("auth", "Profile creation after signup failed, deferring to next login", map[string]interface{}{
			"user_id": identity.ID,
			"error":   err.Error(),
		})
		return Result{Success: true, Error: "Account created, but profile setup is incomplete. It will finish on your next login."}
	}

	return Result{Success: true}
}

// Logout clears local state unconditionally. The provider sign-out is best
// effort: a network failure must never keep a user logged in.
func (s *Store) Logout(ctx context.Context) {
	s.mu.RLock()
	session := s.session
	s.mu.RUnlock()

	if session != nil {
		if err := s.client.Auth().SignOut(ctx, session.AccessToken); err != nil {
			s.log.Warn("auth", "Provider sign-out failed, clearing local session anyway", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}

	s.apply(StateAnonymous, nil, nil)
	s.notify(EventSignedOut)
}

// RefreshIfExpired renews the access token once it reaches expiry, so a
// long-lived browser session never presents a stale token to the backend.
// Only an explicitly rejected refresh token drops the session; a network
// failure keeps the current tokens, since a later retry may still succeed.
func (s *Store) RefreshIfExpired(ctx context.Context) {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	s.mu.RLock()
	session := s.session
	s.mu.RUnlock()
	if session == nil || !session.Expired() || session.RefreshToken == "" {
		return
	}

	refreshed, err := s.client.Auth().RefreshSession(ctx, session.RefreshToken)
	if err != nil {
		if backend.IsNetwork(err) {
			return
		}
		s.log.Info("auth", "Refresh token rejected, dropping session", map[string]interface{}{
			"error": err.Error(),
		})
		s.HandleAuthChange(ctx, EventSignedOut, nil)
		return
	}
	s.HandleAuthChange(ctx, EventTokenRefreshed, refreshed)
}

// ReloadUser re-resolves the profile against the current session and replaces
// the held user wholesale. Called after operations that change the profile
// row, such as settings edits and usage accounting.
func (s *Store) ReloadUser(ctx context.Context) {
	s.mu.RLock()
	session := s.session
	s.mu.RUnlock()
	if session == nil {
		return
	}
	s.HandleAuthChange(ctx, EventUserUpdated, session)
}

// HandleAuthChange reacts to asynchronous session changes (token refresh,
// restore from another tab): a non-nil session re-runs the profile resolver,
// a nil session drops to anonymous.
func (s *Store) HandleAuthChange(ctx context.Context, eventType string, session *backend.Session) {
	if session == nil {
		s.apply(StateAnonymous, nil, nil)
		s.notify(EventSignedOut)
		return
	}
	user := s.resolver.Resolve(ctx, &session.User)
	s.apply(StateAuthenticated, user, session)
	s.notify(eventType)
}

func (s *Store) apply(state State, user *User, session *backend.Session) {
	s.mu.Lock()
	s.state = state
	s.user = user
	s.session = session
	s.mu.Unlock()
}

func (s *Store) notify(eventType string) {
	s.mu.RLock()
	event := Event{
		Type:       eventType,
		SessionID:  s.id,
		OccurredAt: time.Now(),
	}
	if s.user != nil {
		event.UserID = s.user.ID
		event.Email = s.user.Email
	}
	s.mu.RUnlock()

	s.listenerMu.Lock()
	fns := make([]func(Event), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.listenerMu.Unlock()

	for _, fn := range fns {
		fn(event)
	}

	if err := publishEvent(s.bus, event); err != nil {
		s.log.Warn("auth", "Failed to publish auth event", map[string]interface{}{"error": err.Error()})
	}
}
