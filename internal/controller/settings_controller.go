package controller

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mahdyhasan/augmind/internal/dto"
	"github.com/mahdyhasan/augmind/internal/guard"
	"github.com/mahdyhasan/augmind/internal/pkg/serverutils"
	"github.com/mahdyhasan/augmind/internal/service"
)

type ISettingsController interface {
	RegisterRoutes(r fiber.Router)
}

type settingsController struct {
	service service.IUserService
}

func NewSettingsController(service service.IUserService) ISettingsController {
	return &settingsController{service: service}
}

func (c *settingsController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/settings", guard.Protected)
	h.Get("/profile", c.GetProfile)
	h.Put("/profile", c.UpdateProfile)
	h.Put("/password", c.ChangePassword)
	h.Get("/usage", c.Usage)
}

func (c *settingsController) GetProfile(ctx *fiber.Ctx) error {
	profile, err := c.service.GetProfile(ctx.UserContext(), guard.CurrentUser(ctx))
	if err != nil {
		return fail(ctx, err)
	}
	return ctx.JSON(serverutils.OkResponse("Profile", profile))
}

func (c *settingsController) UpdateProfile(ctx *fiber.Ctx) error {
	var req dto.UpdateProfileRequest
	if err := ctx.BodyParser(&req); err != nil {
		return badRequest(ctx, err)
	}
	if err := serverutils.ValidateStruct(req); err != nil {
		return badRequest(ctx, err)
	}

	profile, err := c.service.UpdateProfile(ctx.UserContext(), guard.CurrentUser(ctx), &req)
	if err != nil {
		return fail(ctx, err)
	}

	if store := guard.Store(ctx); store != nil {
		store.ReloadUser(ctx.UserContext())
	}
	return ctx.JSON(serverutils.OkResponse("Profile updated", profile))
}

func (c *settingsController) ChangePassword(ctx *fiber.Ctx) error {
	var req dto.ChangePasswordRequest
	if err := ctx.BodyParser(&req); err != nil {
		return badRequest(ctx, err)
	}
	if err := serverutils.ValidateStruct(req); err != nil {
		return badRequest(ctx, err)
	}

	store := guard.Store(ctx)
	session := store.Session()
	if session == nil {
		return fiber.NewError(fiber.StatusUnauthorized, "no active session")
	}

	if err := c.service.ChangePassword(ctx.UserContext(), store.CurrentUser(), session.AccessToken, &req); err != nil {
		return fail(ctx, err)
	}
	return ctx.JSON(serverutils.OkResponse[any]("Password changed", nil))
}

func (c *settingsController) Usage(ctx *fiber.Ctx) error {
	usage, err := c.service.Usage(ctx.UserContext(), guard.CurrentUser(ctx))
	if err != nil {
		return fail(ctx, err)
	}
	return ctx.JSON(serverutils.OkResponse("Usage", usage))
}
