package controller

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mahdyhasan/augmind/internal/dto"
	"github.com/mahdyhasan/augmind/internal/guard"
	"github.com/mahdyhasan/augmind/internal/pkg/serverutils"
	"github.com/mahdyhasan/augmind/internal/service"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router)
}

type chatController struct {
	service service.IChatService
}

func NewChatController(service service.IChatService) IChatController {
	return &chatController{service: service}
}

func (c *chatController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/chat", guard.Protected)
	h.Post("/messages", c.SendMessage)
	h.Get("/conversations", c.ListConversations)
	h.Get("/conversations/:id", c.GetConversation)
	h.Delete("/conversations/:id", c.DeleteConversation)
}

func (c *chatController) SendMessage(ctx *fiber.Ctx) error {
	var req dto.SendMessageRequest
	if err := ctx.BodyParser(&req); err != nil {
		return badRequest(ctx, err)
	}
	if err := serverutils.ValidateStruct(req); err != nil {
		return badRequest(ctx, err)
	}

	res, err := c.service.SendMessage(ctx.UserContext(), guard.CurrentUser(ctx), &req)
	if err != nil {
		return fail(ctx, err)
	}

	// Usage counters changed; swap in a freshly resolved user.
	if store := guard.Store(ctx); store != nil {
		store.ReloadUser(ctx.UserContext())
	}
	return ctx.JSON(serverutils.OkResponse("Message sent", res))
}

func (c *chatController) ListConversations(ctx *fiber.Ctx) error {
	conversations, err := c.service.ListConversations(ctx.UserContext(), guard.CurrentUser(ctx))
	if err != nil {
		return fail(ctx, err)
	}
	return ctx.JSON(serverutils.OkResponse("Conversations", conversations))
}

func (c *chatController) GetConversation(ctx *fiber.Ctx) error {
	id, err := parseUUID(ctx, "id")
	if err != nil {
		return err
	}
	res, err := c.service.GetConversation(ctx.UserContext(), guard.CurrentUser(ctx), id)
	if err != nil {
		return fail(ctx, err)
	}
	return ctx.JSON(serverutils.OkResponse("Conversation", res))
}

func (c *chatController) DeleteConversation(ctx *fiber.Ctx) error {
	id, err := parseUUID(ctx, "id")
	if err != nil {
		return err
	}
	if err := c.service.DeleteConversation(ctx.UserContext(), guard.CurrentUser(ctx), id); err != nil {
		return fail(ctx, err)
	}
	return ctx.JSON(serverutils.OkResponse[any]("Conversation deleted", nil))
}
