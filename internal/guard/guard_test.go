package guard_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mahdyhasan/augmind/internal/auth"
	"github.com/mahdyhasan/augmind/internal/backend"
	"github.com/mahdyhasan/augmind/internal/backend/backendtest"
	"github.com/mahdyhasan/augmind/internal/config"
	"github.com/mahdyhasan/augmind/internal/entity"
	"github.com/mahdyhasan/augmind/internal/guard"
	"github.com/mahdyhasan/augmind/internal/pkg/logger"
)

var sessionCfg = config.SessionConfig{
	CookieName:       "augmind_session",
	TTL:              time.Hour,
	BootstrapTimeout: time.Second,
}

func newManager(t *testing.T, fake *backendtest.Fake) *auth.Manager {
	t.Helper()
	log := logger.NewIsolatedLogger(t.TempDir() + "/guard_test.log")
	resolver := auth.NewProfileResolver(fake, log).WithTimeout(time.Second)
	bootstrap := auth.NewBootstrapper(fake, resolver, log).WithTimeout(time.Second)
	return auth.NewManager(fake, resolver, bootstrap, nil, nil, log, sessionCfg)
}

func fakeWithUser(role entity.Role) *backendtest.Fake {
	id := uuid.New()
	fake := backendtest.New()
	fake.SignInFn = func(ctx context.Context, email, password string) (*backend.Session, error) {
		return &backend.Session{
			AccessToken:  "token-" + id.String(),
			RefreshToken: "refresh-" + id.String(),
			User:         backend.Identity{ID: id.String(), Email: email},
		}, nil
	}
	fake.GetFn = func(ctx context.Context, q *backendtest.Query, dest interface{}) error {
		profile, ok := dest.(*entity.UserProfile)
		if !ok {
			return nil
		}
		*profile = entity.UserProfile{
			Id:       id,
			Username: "tester",
			FullName: "Test User",
			Role:     role,
			Status:   entity.UserStatusActive,
		}
		return nil
	}
	return fake
}

// signIn authenticates a session directly against the manager and returns its
// cookie value.
func signIn(t *testing.T, manager *auth.Manager) string {
	t.Helper()
	store := manager.Create(context.Background())
	result := store.Login(context.Background(), "tester@example.com", "secret")
	require.True(t, result.Success, result.Error)
	return store.ID()
}

func newApp(manager *auth.Manager, routes func(app *fiber.App)) *fiber.App {
	app := fiber.New()
	app.Use(guard.Session(manager, sessionCfg))
	routes(app)
	return app
}

func doRequest(t *testing.T, app *fiber.App, path, cookie string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: sessionCfg.CookieName, Value: cookie})
	}
	resp, err := app.Test(req, 5000)
	require.NoError(t, err)
	return resp
}

func decodeEnvelope(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func TestProtectedRejectsAnonymousWithLoginRedirect(t *testing.T) {
	manager := newManager(t, backendtest.New())
	app := newApp(manager, func(app *fiber.App) {
		app.Get("/dashboard", guard.Protected, func(c *fiber.Ctx) error {
			return c.SendStatus(fiber.StatusOK)
		})
	})

	resp := doRequest(t, app, "/dashboard", "")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	body := decodeEnvelope(t, resp)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "/login", data["redirect"])
}

func TestProtectedPassesAuthenticatedSession(t *testing.T) {
	manager := newManager(t, fakeWithUser(entity.RoleBusinessDev))
	cookie := signIn(t, manager)

	app := newApp(manager, func(app *fiber.App) {
		app.Get("/dashboard", guard.Protected, func(c *fiber.Ctx) error {
			return c.SendStatus(fiber.StatusOK)
		})
	})

	resp := doRequest(t, app, "/dashboard", cookie)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestPublicOnlyTurnsAwayAuthenticatedSession(t *testing.T) {
	manager := newManager(t, fakeWithUser(entity.RoleBusinessDev))
	cookie := signIn(t, manager)

	app := newApp(manager, func(app *fiber.App) {
		app.Get("/login", guard.PublicOnly, func(c *fiber.Ctx) error {
			return c.SendStatus(fiber.StatusOK)
		})
	})

	resp := doRequest(t, app, "/login", cookie)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	body := decodeEnvelope(t, resp)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "/dashboard", data["redirect"])
}

func TestRequireRoleDeniesWithoutBackendTraffic(t *testing.T) {
	fake := fakeWithUser(entity.RoleBusinessDev)
	manager := newManager(t, fake)
	cookie := signIn(t, manager)

	app := newApp(manager, func(app *fiber.App) {
		app.Get("/admin/users", guard.AdminOnly(), func(c *fiber.Ctx) error {
			return c.SendStatus(fiber.StatusOK)
		})
	})

	before := fake.Calls()
	resp := doRequest(t, app, "/admin/users", cookie)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	body := decodeEnvelope(t, resp)
	assert.Equal(t, "Access denied", body["message"])
	assert.Equal(t, before, fake.Calls(), "role denial must not touch the backend")
}

func TestRequireRoleAdmitsAdmin(t *testing.T) {
	manager := newManager(t, fakeWithUser(entity.RoleAdmin))
	cookie := signIn(t, manager)

	app := newApp(manager, func(app *fiber.App) {
		app.Get("/admin/users", guard.AdminOnly(), func(c *fiber.Ctx) error {
			return c.SendStatus(fiber.StatusOK)
		})
	})

	resp := doRequest(t, app, "/admin/users", cookie)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestSessionMiddlewareIssuesCookieForNewSession(t *testing.T) {
	manager := newManager(t, backendtest.New())
	app := newApp(manager, func(app *fiber.App) {
		app.Get("/", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })
	})

	resp := doRequest(t, app, "/", "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var found bool
	for _, c := range resp.Cookies() {
		if c.Name == sessionCfg.CookieName && c.Value != "" {
			found = true
		}
	}
	assert.True(t, found, "expected a session cookie to be issued")
}

func TestSessionBootstrapSettlesAnonymousForUnknownSession(t *testing.T) {
	manager := newManager(t, backendtest.New())
	app := newApp(manager, func(app *fiber.App) {
		app.Get("/dashboard", guard.Protected, func(c *fiber.Ctx) error {
			return c.SendStatus(fiber.StatusOK)
		})
	})

	// Unknown session id with no persisted tokens must settle anonymous,
	// not hang in a loading state.
	resp := doRequest(t, app, "/dashboard", uuid.NewString())
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
