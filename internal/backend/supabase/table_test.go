package supabase_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mahdyhasan/augmind/internal/backend"
	"github.com/mahdyhasan/augmind/internal/backend/supabase"
)

type recordedRequest struct {
	method string
	path   string
	query  map[string]string
	header http.Header
}

// newRecordingServer captures every request and replies with the given status
// and body. The last request is readable through the returned pointer.
func newRecordingServer(t *testing.T, status int, body string, headers map[string]string) (*httptest.Server, *recordedRequest) {
	t.Helper()
	last := &recordedRequest{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		last.method = r.Method
		last.path = r.URL.Path
		last.query = map[string]string{}
		for k, vs := range r.URL.Query() {
			last.query[k] = vs[0]
		}
		last.header = r.Header.Clone()
		for k, v := range headers {
			w.Header().Set(k, v)
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, last
}

func TestTableQueryBuildsFilterParams(t *testing.T) {
	srv, last := newRecordingServer(t, http.StatusOK, `[]`, nil)
	client := supabase.New(srv.URL, "anon-key")

	var rows []map[string]interface{}
	err := client.From("documents").
		Select("id", "title").
		Eq("uploaded_by", "abc-123").
		Order("created_at", false).
		Limit(20).
		Get(context.Background(), &rows)

	require.NoError(t, err)
	assert.Equal(t, http.MethodGet, last.method)
	assert.Equal(t, "/rest/v1/documents", last.path)
	assert.Equal(t, "id,title", last.query["select"])
	assert.Equal(t, "eq.abc-123", last.query["uploaded_by"])
	assert.Equal(t, "created_at.desc", last.query["order"])
	assert.Equal(t, "20", last.query["limit"])
	assert.Equal(t, "anon-key", last.header.Get("apikey"))
	assert.Equal(t, "Bearer anon-key", last.header.Get("Authorization"))
}

func TestTableQuerySingleRequestsObjectRepresentation(t *testing.T) {
	srv, last := newRecordingServer(t, http.StatusOK, `{"id":"abc"}`, nil)
	client := supabase.New(srv.URL, "anon-key")

	var row map[string]interface{}
	err := client.From("user_profiles").Eq("id", "abc").Single().Get(context.Background(), &row)

	require.NoError(t, err)
	assert.Equal(t, "application/vnd.pgrst.object+json", last.header.Get("Accept"))
	assert.Equal(t, "abc", row["id"])
}

func TestTableQueryMissingRowMapsToNotFound(t *testing.T) {
	srv, _ := newRecordingServer(t, http.StatusNotAcceptable,
		`{"code":"PGRST116","message":"JSON object requested, multiple (or no) rows returned"}`, nil)
	client := supabase.New(srv.URL, "anon-key")

	var row map[string]interface{}
	err := client.From("user_profiles").Eq("id", "missing").Single().Get(context.Background(), &row)

	require.Error(t, err)
	assert.True(t, backend.IsNotFound(err))
}

func TestTableQueryCountParsesContentRange(t *testing.T) {
	srv, last := newRecordingServer(t, http.StatusOK, "", map[string]string{
		"Content-Range": "0-24/3573",
	})
	client := supabase.New(srv.URL, "anon-key")

	total, err := client.From("user_profiles").Count(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(3573), total)
	assert.Equal(t, http.MethodHead, last.method)
	assert.Equal(t, "count=exact", last.header.Get("Prefer"))
}

func TestTableQueryCountWithoutRangeHeaderFails(t *testing.T) {
	srv, _ := newRecordingServer(t, http.StatusOK, "", nil)
	client := supabase.New(srv.URL, "anon-key")

	_, err := client.From("user_profiles").Count(context.Background())

	require.Error(t, err)
	assert.Equal(t, backend.CodeUnavailable, backend.CodeOf(err))
}

func TestBearerPrefersUserTokenOverServiceKey(t *testing.T) {
	srv, last := newRecordingServer(t, http.StatusOK, `[]`, nil)
	client := supabase.New(srv.URL, "anon-key", supabase.WithServiceKey("service-key"))

	var rows []map[string]interface{}
	require.NoError(t, client.From("documents").Get(context.Background(), &rows))
	assert.Equal(t, "Bearer service-key", last.header.Get("Authorization"))

	scoped := client.WithToken("user-token")
	require.NoError(t, scoped.From("documents").Get(context.Background(), &rows))
	assert.Equal(t, "Bearer user-token", last.header.Get("Authorization"))
}

func TestTableQueryInsertUnwrapsSingleRecord(t *testing.T) {
	srv, last := newRecordingServer(t, http.StatusCreated, `[{"id":"new-row","title":"Q3 plan"}]`, nil)
	client := supabase.New(srv.URL, "anon-key")

	var created struct {
		Id    string `json:"id"`
		Title string `json:"title"`
	}
	err := client.From("documents").Insert(context.Background(), map[string]string{"title": "Q3 plan"}, &created)

	require.NoError(t, err)
	assert.Equal(t, http.MethodPost, last.method)
	assert.Equal(t, "return=representation", last.header.Get("Prefer"))
	assert.Equal(t, "new-row", created.Id)
	assert.Equal(t, "Q3 plan", created.Title)
}

func TestTableQueryInsertWithoutDestIsMinimal(t *testing.T) {
	srv, last := newRecordingServer(t, http.StatusCreated, "", nil)
	client := supabase.New(srv.URL, "anon-key")

	err := client.From("documents").Insert(context.Background(), map[string]string{"title": "x"}, nil)

	require.NoError(t, err)
	assert.Equal(t, "return=minimal", last.header.Get("Prefer"))
}

func TestStatusCodeNormalization(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
		code   string
	}{
		{"unauthorized", http.StatusUnauthorized, `{"message":"JWT expired"}`, backend.CodeUnauthorized},
		{"duplicate", http.StatusConflict, `{"message":"duplicate key value"}`, backend.CodeDuplicate},
		{"duplicate signup", http.StatusBadRequest, `{"msg":"User already registered"}`, backend.CodeDuplicate},
		{"weak password", http.StatusUnprocessableEntity, `{"msg":"Password should be at least 6 characters"}`, backend.CodeWeakPassword},
		{"bad credentials", http.StatusBadRequest, `{"error_description":"Invalid login credentials"}`, backend.CodeInvalidCredentials},
		{"server error", http.StatusInternalServerError, `{"message":"boom"}`, backend.CodeUnavailable},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv, _ := newRecordingServer(t, tc.status, tc.body, nil)
			client := supabase.New(srv.URL, "anon-key")

			var rows []map[string]interface{}
			err := client.From("documents").Get(context.Background(), &rows)

			require.Error(t, err)
			assert.Equal(t, tc.code, backend.CodeOf(err))
		})
	}
}

func TestAdminCreateUserRequiresServiceKey(t *testing.T) {
	srv, last := newRecordingServer(t, http.StatusOK, `{}`, nil)
	client := supabase.New(srv.URL, "anon-key")

	_, err := client.Auth().AdminCreateUser(context.Background(), "a@b.c", "secret123", nil)

	require.Error(t, err)
	assert.Equal(t, backend.CodeServiceKeyMissing, backend.CodeOf(err))
	assert.Empty(t, last.method, "no request should leave the client")
}
