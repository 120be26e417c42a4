package controller

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mahdyhasan/augmind/internal/datasource"
	"github.com/mahdyhasan/augmind/internal/dto"
	"github.com/mahdyhasan/augmind/internal/guard"
	"github.com/mahdyhasan/augmind/internal/pkg/serverutils"
	"github.com/mahdyhasan/augmind/internal/service"
)

const maxUploadBytes = 25 << 20 // 25 MiB

type IDocumentController interface {
	RegisterRoutes(r fiber.Router)
}

type documentController struct {
	service service.IDocumentService
	policy  *datasource.Policy
}

func NewDocumentController(service service.IDocumentService, policy *datasource.Policy) IDocumentController {
	return &documentController{service: service, policy: policy}
}

func (c *documentController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/documents", guard.Protected)
	h.Post("/", c.Upload)
	h.Get("/", c.List)
	h.Delete("/:id", c.Delete)
}

func (c *documentController) Upload(ctx *fiber.Ctx) error {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "missing file part")
	}
	if fileHeader.Size > maxUploadBytes {
		return fiber.NewError(fiber.StatusRequestEntityTooLarge, "file exceeds the upload limit")
	}

	req := dto.UploadDocumentRequest{
		Category:    ctx.FormValue("category"),
		Description: ctx.FormValue("description"),
	}
	if err := serverutils.ValidateStruct(req); err != nil {
		return badRequest(ctx, err)
	}

	file, err := fileHeader.Open()
	if err != nil {
		return fail(ctx, err)
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	document, err := c.service.Upload(ctx.UserContext(), guard.CurrentUser(ctx), &req, fileHeader.Filename, contentType, fileHeader.Size, file)
	if err != nil {
		return fail(ctx, err)
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.OkResponse("Document uploaded", document))
}

func (c *documentController) List(ctx *fiber.Ctx) error {
	documents, err := c.service.List(ctx.UserContext(), guard.CurrentUser(ctx))
	if err != nil {
		return fail(ctx, err)
	}
	return ok(ctx, c.policy, "Documents", documents)
}

func (c *documentController) Delete(ctx *fiber.Ctx) error {
	id, err := parseUUID(ctx, "id")
	if err != nil {
		return err
	}
	if err := c.service.Delete(ctx.UserContext(), guard.CurrentUser(ctx), id); err != nil {
		return fail(ctx, err)
	}
	return ctx.JSON(serverutils.OkResponse[any]("Document deleted", nil))
}
