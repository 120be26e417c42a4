package controller

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/mahdyhasan/augmind/internal/backend"
	"github.com/mahdyhasan/augmind/internal/datasource"
	"github.com/mahdyhasan/augmind/internal/pkg/serverutils"
	"github.com/mahdyhasan/augmind/internal/service"
)

// fail maps a service or adapter error onto the response envelope.
func fail(ctx *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	message := err.Error()

	switch {
	case errors.Is(err, service.ErrForbidden):
		status = fiber.StatusForbidden
		message = "Access denied"
	case errors.Is(err, service.ErrLimitExceeded):
		status = fiber.StatusTooManyRequests
		message = "Usage limit exceeded"
	case backend.IsNotFound(err):
		status = fiber.StatusNotFound
		message = "Not found"
	case backend.CodeOf(err) == backend.CodeDuplicate:
		status = fiber.StatusConflict
	case backend.CodeOf(err) == backend.CodeUnauthorized:
		status = fiber.StatusUnauthorized
	case backend.CodeOf(err) == backend.CodeServiceKeyMissing:
		status = fiber.StatusNotImplemented
		message = "Admin auth operations require a service key"
	case backend.IsNetwork(err):
		status = fiber.StatusServiceUnavailable
		message = "Backend unavailable"
	}

	return ctx.Status(status).JSON(serverutils.ErrorResponse(status, message))
}

// ok wraps data in the success envelope, tagging fallback-mode responses so
// the client can show its data-status indicator.
func ok[T any](ctx *fiber.Ctx, policy *datasource.Policy, message string, data T) error {
	if policy != nil && !policy.Live() {
		return ctx.JSON(serverutils.OkResponseFrom(message, data, string(datasource.ModeFallback)))
	}
	return ctx.JSON(serverutils.OkResponse(message, data))
}

func badRequest(ctx *fiber.Ctx, err error) error {
	return ctx.Status(fiber.StatusBadRequest).
		JSON(serverutils.ErrorResponse(fiber.StatusBadRequest, err.Error()))
}

func parseUUID(ctx *fiber.Ctx, param string) (uuid.UUID, error) {
	id, err := uuid.Parse(ctx.Params(param))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "invalid "+param)
	}
	return id, nil
}
