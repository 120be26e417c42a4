package controller

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mahdyhasan/augmind/internal/auth"
	"github.com/mahdyhasan/augmind/internal/dto"
	"github.com/mahdyhasan/augmind/internal/guard"
	"github.com/mahdyhasan/augmind/internal/pkg/serverutils"
)

type IAuthController interface {
	RegisterRoutes(r fiber.Router)
	Login(ctx *fiber.Ctx) error
	Signup(ctx *fiber.Ctx) error
	Logout(ctx *fiber.Ctx) error
	Session(ctx *fiber.Ctx) error
}

type authController struct {
	rateLimit fiber.Handler
}

func NewAuthController() IAuthController {
	// Credential endpoints get a tighter per-IP budget than the rest of
	// the API.
	return &authController{rateLimit: serverutils.RateLimit(1, 5)}
}

func (c *authController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/auth")
	h.Post("/login", guard.PublicOnly, c.rateLimit, c.Login)
	h.Post("/signup", guard.PublicOnly, c.rateLimit, c.Signup)
	h.Post("/logout", c.Logout)
	h.Get("/session", c.Session)
}

func (c *authController) Login(ctx *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := ctx.BodyParser(&req); err != nil {
		return badRequest(ctx, err)
	}
	if err := serverutils.ValidateStruct(req); err != nil {
		return badRequest(ctx, err)
	}

	store := guard.Store(ctx)
	result := store.Login(ctx.UserContext(), req.Email, req.Password)
	if !result.Success {
		return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.OkResponse("Login failed", dto.AuthResultResponse{
			Success: false,
			Error:   result.Error,
		}))
	}

	return ctx.JSON(serverutils.OkResponse("Login successful", dto.AuthResultResponse{
		Success: true,
		User:    currentUserResponse(store.CurrentUser()),
	}))
}

func (c *authController) Signup(ctx *fiber.Ctx) error {
	var req dto.SignupRequest
	if err := ctx.BodyParser(&req); err != nil {
		return badRequest(ctx, err)
	}
	if err := serverutils.ValidateStruct(req); err != nil {
		return badRequest(ctx, err)
	}

	store := guard.Store(ctx)
	result := store.Signup(ctx.UserContext(), req.Email, req.Password, auth.SignupOptions{
		Username: req.Username,
		FullName: req.FullName,
	})
	if !result.Success {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.OkResponse("Signup failed", dto.AuthResultResponse{
			Success: false,
			Error:   result.Error,
		}))
	}

	// result.Error may be a non-fatal advisory about deferred profile setup.
	return ctx.JSON(serverutils.OkResponse("Signup successful", dto.AuthResultResponse{
		Success: true,
		Error:   result.Error,
	}))
}

func (c *authController) Logout(ctx *fiber.Ctx) error {
	if store := guard.Store(ctx); store != nil {
		store.Logout(ctx.UserContext())
	}
	return ctx.JSON(serverutils.OkResponse[any]("Logged out successfully", nil))
}

// Session is the startup poll: it reports the settled auth state of the
// caller's session. By the time this handler runs, the session middleware has
// already bootstrapped, so loading is always false.
func (c *authController) Session(ctx *fiber.Ctx) error {
	store := guard.Store(ctx)
	state := dto.SessionStateResponse{Loading: false}
	if store != nil {
		state.User = currentUserResponse(store.CurrentUser())
	}
	return ctx.JSON(serverutils.OkResponse("Session state", state))
}

func currentUserResponse(user *auth.User) *dto.CurrentUserResponse {
	if user == nil {
		return nil
	}
	return &dto.CurrentUserResponse{
		ID:       user.ID,
		Username: user.Username,
		Role:     user.Role,
		Name:     user.Name,
		Email:    user.Email,
		Profile:  user.Profile,
	}
}
