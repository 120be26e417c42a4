// Package guard provides the route-protection middleware: session
// attachment, authentication checks and role gates. Every gate fails closed:
// a denial is decided from session state alone and never triggers backend
// traffic.
package guard

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/mahdyhasan/augmind/internal/auth"
	"github.com/mahdyhasan/augmind/internal/config"
	"github.com/mahdyhasan/augmind/internal/entity"
	"github.com/mahdyhasan/augmind/internal/pkg/serverutils"
)

const (
	localsStore = "session_store"

	// LoginPath and DashboardPath are the redirect hints handed to the
	// client alongside guard denials.
	LoginPath     = "/login"
	DashboardPath = "/dashboard"
)

// Redirect is the payload of a guard denial, telling the client where to go.
type Redirect struct {
	Redirect string `json:"redirect"`
}

// Session attaches the caller's auth store to the request. A request without
// a session cookie gets a fresh anonymous session; one with a cookie gets its
// store resolved (bootstrapping from persisted tokens on the first hit) and
// its access token renewed when it has expired.
func Session(manager *auth.Manager, cfg config.SessionConfig) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var store *auth.Store

		if id := c.Cookies(cfg.CookieName); id != "" {
			resolved, err := manager.Resolve(c.UserContext(), id)
			if err == nil {
				store = resolved
			}
		}
		if store == nil {
			store = manager.Create(c.UserContext())
			c.Cookie(&fiber.Cookie{
				Name:     cfg.CookieName,
				Value:    store.ID(),
				Expires:  time.Now().Add(cfg.TTL),
				HTTPOnly: true,
				SameSite: fiber.CookieSameSiteLaxMode,
				Path:     "/",
			})
		}

		store.RefreshIfExpired(c.UserContext())
		c.Locals(localsStore, store)
		return c.Next()
	}
}

// Store returns the request's auth store. It is nil only when the Session
// middleware is not mounted, which is a wiring bug.
func Store(c *fiber.Ctx) *auth.Store {
	store, _ := c.Locals(localsStore).(*auth.Store)
	return store
}

// CurrentUser returns the authenticated user of the request, or nil.
func CurrentUser(c *fiber.Ctx) *auth.User {
	if store := Store(c); store != nil {
		return store.CurrentUser()
	}
	return nil
}

// Protected rejects unauthenticated requests with a login redirect hint.
func Protected(c *fiber.Ctx) error {
	store := Store(c)
	if store == nil || !store.IsAuthenticated() {
		return c.Status(fiber.StatusUnauthorized).JSON(serverutils.BaseResponse[Redirect]{
			Success: false,
			Code:    fiber.StatusUnauthorized,
			Message: "Authentication required",
			Data:    Redirect{Redirect: LoginPath},
		})
	}
	return c.Next()
}

// PublicOnly turns authenticated requests away from login/signup surfaces.
func PublicOnly(c *fiber.Ctx) error {
	if store := Store(c); store != nil && store.IsAuthenticated() {
		return c.Status(fiber.StatusConflict).JSON(serverutils.BaseResponse[Redirect]{
			Success: false,
			Code:    fiber.StatusConflict,
			Message: "Already authenticated",
			Data:    Redirect{Redirect: DashboardPath},
		})
	}
	return c.Next()
}

// RequireRole gates a route to the given roles. An unknown or missing role is
// a denial, never a pass-through.
func RequireRole(roles ...entity.Role) fiber.Handler {
	allowed := make(map[entity.Role]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		user := CurrentUser(c)
		if user == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(serverutils.BaseResponse[Redirect]{
				Success: false,
				Code:    fiber.StatusUnauthorized,
				Message: "Authentication required",
				Data:    Redirect{Redirect: LoginPath},
			})
		}
		if _, ok := allowed[user.Role]; !ok {
			return c.Status(fiber.StatusForbidden).JSON(serverutils.BaseResponse[Redirect]{
				Success: false,
				Code:    fiber.StatusForbidden,
				Message: "Access denied",
				Data:    Redirect{Redirect: DashboardPath},
			})
		}
		return c.Next()
	}
}

// AdminOnly is the admin gate used by the admin route groups.
func AdminOnly() fiber.Handler {
	return RequireRole(entity.RoleAdmin)
}
