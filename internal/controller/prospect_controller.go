package controller

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mahdyhasan/augmind/internal/datasource"
	"github.com/mahdyhasan/augmind/internal/dto"
	"github.com/mahdyhasan/augmind/internal/guard"
	"github.com/mahdyhasan/augmind/internal/pkg/serverutils"
	"github.com/mahdyhasan/augmind/internal/service"
)

type IProspectController interface {
	RegisterRoutes(r fiber.Router)
}

type prospectController struct {
	service service.IProspectService
	policy  *datasource.Policy
}

func NewProspectController(service service.IProspectService, policy *datasource.Policy) IProspectController {
	return &prospectController{service: service, policy: policy}
}

func (c *prospectController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/prospects", guard.Protected)
	h.Post("/", c.Create)
	h.Get("/", c.List)
	h.Get("/:id", c.Get)
	h.Delete("/:id", c.Delete)
	h.Post("/:id/analyses", c.Analyze)
	h.Get("/:id/analyses", c.ListAnalyses)
}

func (c *prospectController) Create(ctx *fiber.Ctx) error {
	var req dto.CreateProspectRequest
	if err := ctx.BodyParser(&req); err != nil {
		return badRequest(ctx, err)
	}
	if err := serverutils.ValidateStruct(req); err != nil {
		return badRequest(ctx, err)
	}

	prospect, err := c.service.Create(ctx.UserContext(), guard.CurrentUser(ctx), &req)
	if err != nil {
		return fail(ctx, err)
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.OkResponse("Prospect created", prospect))
}

func (c *prospectController) List(ctx *fiber.Ctx) error {
	prospects, err := c.service.List(ctx.UserContext(), guard.CurrentUser(ctx))
	if err != nil {
		return fail(ctx, err)
	}
	return ok(ctx, c.policy, "Prospects", prospects)
}

func (c *prospectController) Get(ctx *fiber.Ctx) error {
	id, err := parseUUID(ctx, "id")
	if err != nil {
		return err
	}
	prospect, err := c.service.Get(ctx.UserContext(), guard.CurrentUser(ctx), id)
	if err != nil {
		return fail(ctx, err)
	}
	return ctx.JSON(serverutils.OkResponse("Prospect", prospect))
}

func (c *prospectController) Delete(ctx *fiber.Ctx) error {
	id, err := parseUUID(ctx, "id")
	if err != nil {
		return err
	}
	if err := c.service.Delete(ctx.UserContext(), guard.CurrentUser(ctx), id); err != nil {
		return fail(ctx, err)
	}
	return ctx.JSON(serverutils.OkResponse[any]("Prospect deleted", nil))
}

func (c *prospectController) Analyze(ctx *fiber.Ctx) error {
	id, err := parseUUID(ctx, "id")
	if err != nil {
		return err
	}
	var req dto.AnalyzeProspectRequest
	if err := ctx.BodyParser(&req); err != nil {
		return badRequest(ctx, err)
	}
	if err := serverutils.ValidateStruct(req); err != nil {
		return badRequest(ctx, err)
	}

	res, err := c.service.Analyze(ctx.UserContext(), guard.CurrentUser(ctx), id, &req)
	if err != nil {
		return fail(ctx, err)
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.OkResponse("Analysis generated", res))
}

func (c *prospectController) ListAnalyses(ctx *fiber.Ctx) error {
	id, err := parseUUID(ctx, "id")
	if err != nil {
		return err
	}
	analyses, err := c.service.ListAnalyses(ctx.UserContext(), guard.CurrentUser(ctx), id)
	if err != nil {
		return fail(ctx, err)
	}
	return ctx.JSON(serverutils.OkResponse("Analyses", analyses))
}
