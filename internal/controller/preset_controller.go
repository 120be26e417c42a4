package controller

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mahdyhasan/augmind/internal/datasource"
	"github.com/mahdyhasan/augmind/internal/dto"
	"github.com/mahdyhasan/augmind/internal/guard"
	"github.com/mahdyhasan/augmind/internal/pkg/serverutils"
	"github.com/mahdyhasan/augmind/internal/service"
)

type IPresetController interface {
	RegisterRoutes(r fiber.Router)
}

type presetController struct {
	service service.IPresetService
	policy  *datasource.Policy
}

func NewPresetController(service service.IPresetService, policy *datasource.Policy) IPresetController {
	return &presetController{service: service, policy: policy}
}

func (c *presetController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/preset-questions", guard.Protected)
	h.Get("/", c.List)

	admin := h.Group("/", guard.AdminOnly())
	admin.Post("/", c.Create)
	admin.Put("/:id", c.Update)
	admin.Delete("/:id", c.Delete)
}

func (c *presetController) List(ctx *fiber.Ctx) error {
	questions, err := c.service.List(ctx.UserContext(), guard.CurrentUser(ctx))
	if err != nil {
		return fail(ctx, err)
	}
	return ok(ctx, c.policy, "Preset questions", questions)
}

func (c *presetController) Create(ctx *fiber.Ctx) error {
	var req dto.CreatePresetQuestionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return badRequest(ctx, err)
	}
	if err := serverutils.ValidateStruct(req); err != nil {
		return badRequest(ctx, err)
	}

	question, err := c.service.Create(ctx.UserContext(), guard.CurrentUser(ctx), &req)
	if err != nil {
		return fail(ctx, err)
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.OkResponse("Preset question created", question))
}

func (c *presetController) Update(ctx *fiber.Ctx) error {
	id, err := parseUUID(ctx, "id")
	if err != nil {
		return err
	}
	var req dto.UpdatePresetQuestionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return badRequest(ctx, err)
	}
	if err := serverutils.ValidateStruct(req); err != nil {
		return badRequest(ctx, err)
	}

	question, err := c.service.Update(ctx.UserContext(), id, &req)
	if err != nil {
		return fail(ctx, err)
	}
	return ctx.JSON(serverutils.OkResponse("Preset question updated", question))
}

func (c *presetController) Delete(ctx *fiber.Ctx) error {
	id, err := parseUUID(ctx, "id")
	if err != nil {
		return err
	}
	if err := c.service.Delete(ctx.UserContext(), id); err != nil {
		return fail(ctx, err)
	}
	return ctx.JSON(serverutils.OkResponse[any]("Preset question deleted", nil))
}
