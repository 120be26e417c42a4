// Package backendtest provides a scripted in-memory implementation of the
// backend contract for tests. Every executed call is counted so fail-closed
// paths can assert that no backend traffic happened at all.
package backendtest

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/mahdyhasan/augmind/internal/backend"
)

// Query records how a table call was built: table name, filters, ordering.
// Scoping tests assert on the Filters map.
type Query struct {
	Table    string
	Selected []string
	Filters  map[string]interface{}
	Ordered  string
	Asc      bool
	Limited  int
	IsSingle bool
}

type Fake struct {
	mu         sync.Mutex
	calls      int
	tableCalls []Query

	SignInFn      func(ctx context.Context, email, password string) (*backend.Session, error)
	SignUpFn      func(ctx context.Context, email, password string, metadata map[string]interface{}) (*backend.Identity, error)
	SignOutFn     func(ctx context.Context, accessToken string) error
	GetUserFn     func(ctx context.Context, accessToken string) (*backend.Identity, error)
	RefreshFn     func(ctx context.Context, refreshToken string) (*backend.Session, error)
	UpdateUserFn  func(ctx context.Context, accessToken string, attrs backend.UserAttributes) (*backend.Identity, error)
	AdminCreateFn func(ctx context.Context, email, password string, metadata map[string]interface{}) (*backend.Identity, error)
	AdminDeleteFn func(ctx context.Context, id string) error

	GetFn    func(ctx context.Context, q *Query, dest interface{}) error
	CountFn  func(ctx context.Context, q *Query) (int64, error)
	InsertFn func(ctx context.Context, q *Query, record, dest interface{}) error
	UpdateFn func(ctx context.Context, q *Query, partial interface{}) error
	DeleteFn func(ctx context.Context, q *Query) error

	RpcFn   func(ctx context.Context, fn string, params, dest interface{}) error
	ProbeFn func(ctx context.Context) error

	UploadFn func(ctx context.Context, bucket, path string, r io.Reader, contentType string) (string, error)
	RemoveFn func(ctx context.Context, bucket string, paths ...string) error
}

func New() *Fake {
	return &Fake{}
}

func (f *Fake) bump(q *Query) {
	f.mu.Lock()
	f.calls++
	if q != nil {
		f.tableCalls = append(f.tableCalls, *q)
	}
	f.mu.Unlock()
}

// Calls returns how many adapter operations actually executed.
func (f *Fake) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// TableCalls returns the recorded table operations in execution order.
func (f *Fake) TableCalls() []Query {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Query, len(f.tableCalls))
	copy(out, f.tableCalls)
	return out
}

func (f *Fake) Auth() backend.AuthAPI              { return &fakeAuth{f: f} }
func (f *Fake) Storage() backend.StorageAPI        { return &fakeStorage{f: f} }
func (f *Fake) WithToken(string) backend.Client    { return f }
func (f *Fake) From(table string) backend.TableQuery {
	return &fakeQuery{f: f, q: Query{Table: table, Filters: map[string]interface{}{}}}
}

func (f *Fake) Rpc(ctx context.Context, fn string, params, dest interface{}) error {
	f.bump(nil)
	if f.RpcFn != nil {
		return f.RpcFn(ctx, fn, params, dest)
	}
	return nil
}

func (f *Fake) Probe(ctx context.Context) error {
	f.bump(nil)
	if f.ProbeFn != nil {
		return f.ProbeFn(ctx)
	}
	return nil
}

type fakeAuth struct {
	f *Fake
}

func (a *fakeAuth) SignInWithPassword(ctx context.Context, email, password string) (*backend.Session, error) {
	a.f.bump(nil)
	if a.f.SignInFn != nil {
		return a.f.SignInFn(ctx, email, password)
	}
	return nil, &backend.Error{Code: backend.CodeInvalidCredentials, Status: 400, Message: "invalid login credentials"}
}

func (a *fakeAuth) SignUp(ctx context.Context, email, password string, metadata map[string]interface{}) (*backend.Identity, error) {
	a.f.bump(nil)
	if a.f.SignUpFn != nil {
		return a.f.SignUpFn(ctx, email, password, metadata)
	}
	return &backend.Identity{ID: "00000000-0000-0000-0000-000000000001", Email: email, Metadata: metadata}, nil
}

func (a *fakeAuth) SignOut(ctx context.Context, accessToken string) error {
	a.f.bump(nil)
	if a.f.SignOutFn != nil {
		return a.f.SignOutFn(ctx, accessToken)
	}
	return nil
}

func (a *fakeAuth) GetUser(ctx context.Context, accessToken string) (*backend.Identity, error) {
	a.f.bump(nil)
	if a.f.GetUserFn != nil {
		return a.f.GetUserFn(ctx, accessToken)
	}
	return nil, &backend.Error{Code: backend.CodeUnauthorized, Status: 401, Message: "invalid token"}
}

func (a *fakeAuth) RefreshSession(ctx context.Context, refreshToken string) (*backend.Session, error) {
	a.f.bump(nil)
	if a.f.RefreshFn != nil {
		return a.f.RefreshFn(ctx, refreshToken)
	}
	return nil, &backend.Error{Code: backend.CodeUnauthorized, Status: 401, Message: "invalid refresh token"}
}

func (a *fakeAuth) UpdateUser(ctx context.Context, accessToken string, attrs backend.UserAttributes) (*backend.Identity, error) {
	a.f.bump(nil)
	if a.f.UpdateUserFn != nil {
		return a.f.UpdateUserFn(ctx, accessToken, attrs)
	}
	return &backend.Identity{ID: "00000000-0000-0000-0000-000000000001"}, nil
}

func (a *fakeAuth) AdminCreateUser(ctx context.Context, email, password string, metadata map[string]interface{}) (*backend.Identity, error) {
	a.f.bump(nil)
	if a.f.AdminCreateFn != nil {
		return a.f.AdminCreateFn(ctx, email, password, metadata)
	}
	return &backend.Identity{ID: "00000000-0000-0000-0000-000000000002", Email: email, Metadata: metadata}, nil
}

func (a *fakeAuth) AdminDeleteUser(ctx context.Context, id string) error {
	a.f.bump(nil)
	if a.f.AdminDeleteFn != nil {
		return a.f.AdminDeleteFn(ctx, id)
	}
	return nil
}

type fakeQuery struct {
	f *Fake
	q Query
}

func (fq *fakeQuery) Select(columns ...string) backend.TableQuery {
	fq.q.Selected = append(fq.q.Selected, columns...)
	return fq
}

func (fq *fakeQuery) Eq(column string, value interface{}) backend.TableQuery {
	fq.q.Filters[column] = value
	return fq
}

func (fq *fakeQuery) In(column string, values ...interface{}) backend.TableQuery {
	fq.q.Filters[column] = values
	return fq
}

func (fq *fakeQuery) Order(column string, ascending bool) backend.TableQuery {
	fq.q.Ordered = column
	fq.q.Asc = ascending
	return fq
}

func (fq *fakeQuery) Limit(n int) backend.TableQuery {
	fq.q.Limited = n
	return fq
}

func (fq *fakeQuery) Single() backend.TableQuery {
	fq.q.IsSingle = true
	return fq
}

func (fq *fakeQuery) Get(ctx context.Context, dest interface{}) error {
	fq.f.bump(&fq.q)
	if fq.f.GetFn != nil {
		return fq.f.GetFn(ctx, &fq.q, dest)
	}
	if fq.q.IsSingle {
		return &backend.Error{Code: backend.CodeNotFound, Status: 404, Message: "record not found"}
	}
	return nil
}

func (fq *fakeQuery) Count(ctx context.Context) (int64, error) {
	fq.f.bump(&fq.q)
	if fq.f.CountFn != nil {
		return fq.f.CountFn(ctx, &fq.q)
	}
	return 0, nil
}

func (fq *fakeQuery) Insert(ctx context.Context, record, dest interface{}) error {
	fq.f.bump(&fq.q)
	if fq.f.InsertFn != nil {
		return fq.f.InsertFn(ctx, &fq.q, record, dest)
	}
	return nil
}

func (fq *fakeQuery) Update(ctx context.Context, partial interface{}) error {
	fq.f.bump(&fq.q)
	if fq.f.UpdateFn != nil {
		return fq.f.UpdateFn(ctx, &fq.q, partial)
	}
	return nil
}

func (fq *fakeQuery) Delete(ctx context.Context) error {
	fq.f.bump(&fq.q)
	if fq.f.DeleteFn != nil {
		return fq.f.DeleteFn(ctx, &fq.q)
	}
	return nil
}

type fakeStorage struct {
	f *Fake
}

func (s *fakeStorage) Upload(ctx context.Context, bucket, path string, r io.Reader, contentType string) (string, error) {
	s.f.bump(nil)
	if s.f.UploadFn != nil {
		return s.f.UploadFn(ctx, bucket, path, r, contentType)
	}
	return path, nil
}

func (s *fakeStorage) Remove(ctx context.Context, bucket string, paths ...string) error {
	s.f.bump(nil)
	if s.f.RemoveFn != nil {
		return s.f.RemoveFn(ctx, bucket, paths...)
	}
	return nil
}

func (s *fakeStorage) PublicURL(bucket, path string) string {
	return "https://backend.test/storage/v1/object/public/" + bucket + "/" + path
}

func (s *fakeStorage) SignedURL(ctx context.Context, bucket, path string, expiresIn time.Duration) (string, error) {
	s.f.bump(nil)
	return "https://backend.test/storage/v1/object/sign/" + bucket + "/" + path, nil
}
