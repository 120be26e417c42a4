// Package backend defines the contract this service expects from the hosted
// backend-as-a-service: auth provider, Postgres-backed tables and object
// storage. The rest of the application only ever talks to these interfaces.
package backend

import (
	"context"
	"io"
	"time"
)

// Client is the adapter root. Implementations live in backend/supabase (REST)
// and backend/gormdb (direct Postgres for the table surface).
type Client interface {
	Auth() AuthAPI
	From(table string) TableQuery
	Storage() StorageAPI

	// Rpc invokes a named server-side procedure (usage counters live there).
	Rpc(ctx context.Context, fn string, params interface{}, dest interface{}) error

	// Probe is the cheap connectivity check the data-source policy races
	// against its timeout: a head count on the profiles table.
	Probe(ctx context.Context) error

	// WithToken returns a view of the client whose table, storage and rpc
	// calls carry the given user access token, so row-level security on the
	// hosted database sees the real caller.
	WithToken(accessToken string) Client
}

// Identity is the minimal claim set the auth provider returns for a user.
type Identity struct {
	ID       string                 `json:"id"`
	Email    string                 `json:"email"`
	Metadata map[string]interface{} `json:"user_metadata"`
}

// Session is the opaque token bundle issued by the auth provider. The auth
// store holds a read-only reference; only the adapter mints or refreshes it.
type Session struct {
	AccessToken  string   `json:"access_token"`
	TokenType    string   `json:"token_type"`
	ExpiresIn    int64    `json:"expires_in"`
	ExpiresAt    int64    `json:"expires_at"`
	RefreshToken string   `json:"refresh_token"`
	User         Identity `json:"user"`
}

// Expired reports whether the access token is past (or within a minute of)
// its expiry.
func (s *Session) Expired() bool {
	if s.ExpiresAt == 0 {
		return false
	}
	return time.Now().Unix() >= s.ExpiresAt-60
}

// UserAttributes is the updatable slice of an auth identity.
type UserAttributes struct {
	Email    string                 `json:"email,omitempty"`
	Password string                 `json:"password,omitempty"`
	Metadata map[string]interface{} `json:"data,omitempty"`
}

type AuthAPI interface {
	SignInWithPassword(ctx context.Context, email, password string) (*Session, error)
	SignUp(ctx context.Context, email, password string, metadata map[string]interface{}) (*Identity, error)
	SignOut(ctx context.Context, accessToken string) error
	GetUser(ctx context.Context, accessToken string) (*Identity, error)
	RefreshSession(ctx context.Context, refreshToken string) (*Session, error)
	UpdateUser(ctx context.Context, accessToken string, attrs UserAttributes) (*Identity, error)

	// Admin surface; requires the service key.
	AdminCreateUser(ctx context.Context, email, password string, metadata map[string]interface{}) (*Identity, error)
	AdminDeleteUser(ctx context.Context, id string) error
}

// TableQuery is a single-use query builder over one table. Filter methods
// return the builder; terminal methods execute with the caller's context and
// the adapter's fixed per-call timeout.
type TableQuery interface {
	Select(columns ...string) TableQuery
	Eq(column string, value interface{}) TableQuery
	In(column string, values ...interface{}) TableQuery
	Order(column string, ascending bool) TableQuery
	Limit(n int) TableQuery
	Single() TableQuery

	Get(ctx context.Context, dest interface{}) error
	Count(ctx context.Context) (int64, error)
	Insert(ctx context.Context, record interface{}, dest interface{}) error
	Update(ctx context.Context, partial interface{}) error
	Delete(ctx context.Context) error
}

type StorageAPI interface {
	Upload(ctx context.Context, bucket, path string, r io.Reader, contentType string) (string, error)
	Remove(ctx context.Context, bucket string, paths ...string) error
	PublicURL(bucket, path string) string
	SignedURL(ctx context.Context, bucket, path string, expiresIn time.Duration) (string, error)
}
