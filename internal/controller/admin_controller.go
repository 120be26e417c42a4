package controller

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mahdyhasan/augmind/internal/datasource"
	"github.com/mahdyhasan/augmind/internal/dto"
	"github.com/mahdyhasan/augmind/internal/guard"
	"github.com/mahdyhasan/augmind/internal/pkg/serverutils"
	"github.com/mahdyhasan/augmind/internal/service"
)

type IAdminController interface {
	RegisterRoutes(r fiber.Router)
}

type adminController struct {
	service service.IAdminService
	policy  *datasource.Policy
}

func NewAdminController(service service.IAdminService, policy *datasource.Policy) IAdminController {
	return &adminController{service: service, policy: policy}
}

func (c *adminController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/admin", guard.AdminOnly())
	h.Get("/users", c.ListUsers)
	h.Post("/users", c.CreateUser)
	h.Put("/users/:id", c.UpdateUser)
	h.Delete("/users/:id", c.DeleteUser)
	h.Get("/stats", c.Stats)
	h.Get("/settings", c.ListSettings)
	h.Put("/settings", c.UpsertSetting)
	h.Get("/logs", c.Logs)
}

func (c *adminController) ListUsers(ctx *fiber.Ctx) error {
	users, err := c.service.ListUsers(ctx.UserContext())
	if err != nil {
		return fail(ctx, err)
	}
	return ok(ctx, c.policy, "Users", users)
}

func (c *adminController) CreateUser(ctx *fiber.Ctx) error {
	var req dto.AdminCreateUserRequest
	if err := ctx.BodyParser(&req); err != nil {
		return badRequest(ctx, err)
	}
	if err := serverutils.ValidateStruct(req); err != nil {
		return badRequest(ctx, err)
	}

	profile, err := c.service.CreateUser(ctx.UserContext(), &req)
	if err != nil {
		return fail(ctx, err)
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.OkResponse("User created", profile))
}

func (c *adminController) UpdateUser(ctx *fiber.Ctx) error {
	id, err := parseUUID(ctx, "id")
	if err != nil {
		return err
	}
	var req dto.AdminUpdateUserRequest
	if err := ctx.BodyParser(&req); err != nil {
		return badRequest(ctx, err)
	}
	if err := serverutils.ValidateStruct(req); err != nil {
		return badRequest(ctx, err)
	}

	profile, err := c.service.UpdateUser(ctx.UserContext(), id, &req)
	if err != nil {
		return fail(ctx, err)
	}
	return ctx.JSON(serverutils.OkResponse("User updated", profile))
}

func (c *adminController) DeleteUser(ctx *fiber.Ctx) error {
	id, err := parseUUID(ctx, "id")
	if err != nil {
		return err
	}
	if err := c.service.DeleteUser(ctx.UserContext(), guard.CurrentUser(ctx), id); err != nil {
		return fail(ctx, err)
	}
	return ctx.JSON(serverutils.OkResponse[any]("User deleted", nil))
}

func (c *adminController) Stats(ctx *fiber.Ctx) error {
	stats, err := c.service.Stats(ctx.UserContext())
	if err != nil {
		return fail(ctx, err)
	}
	return ok(ctx, c.policy, "Stats", stats)
}

func (c *adminController) ListSettings(ctx *fiber.Ctx) error {
	settings, err := c.service.ListSettings(ctx.UserContext())
	if err != nil {
		return fail(ctx, err)
	}
	return ctx.JSON(serverutils.OkResponse("System settings", settings))
}

func (c *adminController) UpsertSetting(ctx *fiber.Ctx) error {
	var req dto.UpsertSystemSettingRequest
	if err := ctx.BodyParser(&req); err != nil {
		return badRequest(ctx, err)
	}
	if err := serverutils.ValidateStruct(req); err != nil {
		return badRequest(ctx, err)
	}

	setting, err := c.service.UpsertSetting(ctx.UserContext(), guard.CurrentUser(ctx), &req)
	if err != nil {
		return fail(ctx, err)
	}
	return ctx.JSON(serverutils.OkResponse("Setting saved", setting))
}

func (c *adminController) Logs(ctx *fiber.Ctx) error {
	entries, err := c.service.Logs(
		ctx.Query("level"),
		ctx.QueryInt("limit", 100),
		ctx.QueryInt("offset", 0),
	)
	if err != nil {
		return fail(ctx, err)
	}
	return ctx.JSON(serverutils.OkResponse("Logs", entries))
}
