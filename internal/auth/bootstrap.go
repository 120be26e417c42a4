package auth

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mahdyhasan/augmind/internal/backend"
	"github.com/mahdyhasan/augmind/internal/pkg/logger"
)

const defaultBootstrapTimeout = 10 * time.Second

// SavedSession is the token bundle persisted for a browser session between
// requests.
type SavedSession struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Bootstrapper restores a session's auth state on startup. Its one hard
// guarantee is that Run always terminates the Loading state within the
// configured bound, whatever the backend does.
type Bootstrapper struct {
	client   backend.Client
	resolver *ProfileResolver
	log      logger.ILogger
	timeout  time.Duration
}

func NewBootstrapper(client backend.Client, resolver *ProfileResolver, log logger.ILogger) *Bootstrapper {
	return &Bootstrapper{client: client, resolver: resolver, log: log, timeout: defaultBootstrapTimeout}
}

func (b *Bootstrapper) WithTimeout(d time.Duration) *Bootstrapper {
	b.timeout = d
	return b
}

// Run races session restoration against the bootstrap timeout and settles the
// store either way: Authenticated when a session could be restored,
// Anonymous on timeout, missing tokens, or any backend failure.
func (b *Bootstrapper) Run(ctx context.Context, store *Store, saved *SavedSession) {
	if saved == nil || saved.AccessToken == "" {
		store.apply(StateAnonymous, nil, nil)
		return
	}

	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	type outcome struct {
		user    *User
		session *backend.Session
	}
	done := make(chan outcome, 1)

	go func() {
		session, err := b.restore(ctx, saved)
		if err != nil {
			if !backend.IsNetwork(err) {
				b.log.Info("auth", "Saved session could not be restored", map[string]interface{}{
					"error": err.Error(),
				})
			}
			done <- outcome{}
			return
		}
		done <- outcome{user: b.resolver.Resolve(ctx, &session.User), session: session}
	}()

	select {
	case <-ctx.Done():
		b.log.Warn("auth", "Session bootstrap timed out, settling anonymous", nil)
		store.apply(StateAnonymous, nil, nil)
	case out := <-done:
		if out.user == nil {
			store.apply(StateAnonymous, nil, nil)
			return
		}
		store.apply(StateAuthenticated, out.user, out.session)
	}
}

// restore validates the saved access token against the auth provider and
// falls back to the refresh token when the access token is stale.
func (b *Bootstrapper) restore(ctx context.Context, saved *SavedSession) (*backend.Session, error) {
	identity, err := b.client.Auth().GetUser(ctx, saved.AccessToken)
	if err == nil {
		return sessionFromSaved(saved, identity), nil
	}

	if backend.CodeOf(err) == backend.CodeUnauthorized && saved.RefreshToken != "" {
		session, rerr := b.client.Auth().RefreshSession(ctx, saved.RefreshToken)
		if rerr != nil {
			return nil, rerr
		}
		return session, nil
	}
	return nil, err
}

// sessionFromSaved rebuilds a session object around a still-valid access
// token. Expiry is recovered from the token's own claims; the signature was
// already vouched for by the provider's user lookup.
func sessionFromSaved(saved *SavedSession, identity *backend.Identity) *backend.Session {
	session := &backend.Session{
		AccessToken:  saved.AccessToken,
		TokenType:    "bearer",
		RefreshToken: saved.RefreshToken,
		User:         *identity,
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(saved.AccessToken, claims); err == nil {
		if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
			session.ExpiresAt = exp.Unix()
			session.ExpiresIn = int64(time.Until(exp.Time).Seconds())
		}
	}
	return session
}
