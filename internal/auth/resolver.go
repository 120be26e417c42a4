package auth

import (
	"context"
	"time"

	"github.com/mahdyhasan/augmind/internal/backend"
	"github.com/mahdyhasan/augmind/internal/entity"
	"github.com/mahdyhasan/augmind/internal/pkg/logger"
)

const defaultResolveTimeout = 5 * time.Second

// ProfileResolver turns a minimal auth identity into the full user view
// model. It never fails: any fetch problem degrades to a synthesized fallback
// user so the caller's loading state always clears.
type ProfileResolver struct {
	client  backend.Client
	log     logger.ILogger
	timeout time.Duration
}

func NewProfileResolver(client backend.Client, log logger.ILogger) *ProfileResolver {
	return &ProfileResolver{client: client, log: log, timeout: defaultResolveTimeout}
}

// WithTimeout overrides the per-resolution bound (tests use short ones).
func (r *ProfileResolver) WithTimeout(d time.Duration) *ProfileResolver {
	r.timeout = d
	return r
}

// Resolve fetches the extended profile for the identity, racing the lookup
// against the resolver timeout. Outcomes:
//   - record found: user built from the record
//   - record missing: synthesized user, and the missing row is provisioned
//   - any other failure: synthesized user from identity claims alone
func (r *ProfileResolver) Resolve(ctx context.Context, identity *backend.Identity) *User {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	type outcome struct {
		profile *entity.UserProfile
		err     error
	}
	done := make(chan outcome, 1)

	go func() {
		var profile entity.UserProfile
		err := r.client.From("user_profiles").
			Select("*").
			Eq("id", identity.ID).
			Single().
			Get(ctx, &profile)
		done <- outcome{profile: &profile, err: err}
	}()

	select {
	case <-ctx.Done():
		r.log.Warn("auth", "Profile resolution timed out, using fallback identity", map[string]interface{}{
			"user_id": identity.ID,
		})
		return userFromIdentity(identity)
	case out := <-done:
		switch {
		case out.err == nil:
			return userFromProfile(identity, out.profile)
		case backend.IsNotFound(out.err):
			return r.provision(ctx, identity)
		default:
			r.log.Warn("auth", "Profile fetch failed, using fallback identity", map[string]interface{}{
				"user_id": identity.ID,
				"error":   out.err.Error(),
			})
			return userFromIdentity(identity)
		}
	}
}

// provision inserts the missing profile row for a fresh identity. The
// synthesized user is returned either way; a failed insert just means the
// same path runs again on the next login.
func (r *ProfileResolver) provision(ctx context.Context, identity *backend.Identity) *User {
	user := userFromIdentity(identity)

	profile := newProfileRecord(identity, user.Username, user.Name, entity.RoleBusinessDev)
	if profile == nil {
		r.log.Warn("auth", "Cannot provision profile for non-uuid identity", map[string]interface{}{
			"user_id": identity.ID,
		})
		return user
	}
	if err := r.client.From("user_profiles").Insert(ctx, profile, nil); err != nil {
		r.log.Warn("auth", "Deferred profile provisioning failed, continuing with synthesized user", map[string]interface{}{
			"user_id": identity.ID,
			"error":   err.Error(),
		})
		return user
	}

	user.Profile = profile
	return user
}
