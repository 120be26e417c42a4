package controller

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/mahdyhasan/augmind/internal/datasource"
	"github.com/mahdyhasan/augmind/internal/dto"
	"github.com/mahdyhasan/augmind/internal/pkg/serverutils"
	"github.com/mahdyhasan/augmind/internal/service"
)

type IHealthController interface {
	RegisterRoutes(r fiber.Router)
}

type healthController struct {
	policy    *datasource.Policy
	setup     service.ISetupService
	rateLimit fiber.Handler
}

func NewHealthController(policy *datasource.Policy, setup service.ISetupService) IHealthController {
	return &healthController{
		policy:    policy,
		setup:     setup,
		rateLimit: serverutils.RateLimit(1, 3),
	}
}

func (c *healthController) RegisterRoutes(r fiber.Router) {
	r.Get("/health", c.Health)
	h := r.Group("/setup")
	h.Get("/status", c.SetupStatus)
	h.Post("/admin", c.rateLimit, c.CreateInitialAdmin)
}

type healthResponse struct {
	Status    string    `json:"status"`
	Mode      string    `json:"mode"`
	LastProbe time.Time `json:"last_probe"`
	Error     string    `json:"error,omitempty"`
}

// Health probes backend connectivity on demand and reports the data-source
// mode, mirroring the connection-status panel of the dashboard.
func (c *healthController) Health(ctx *fiber.Ctx) error {
	mode := c.policy.Probe(ctx.UserContext())

	_, lastProbe, probeErr := c.policy.Status()
	res := healthResponse{
		Status:    "ok",
		Mode:      string(mode),
		LastProbe: lastProbe,
	}
	if probeErr != nil {
		res.Status = "degraded"
		res.Error = probeErr.Error()
	}
	return ctx.JSON(serverutils.OkResponse("Health", res))
}

func (c *healthController) SetupStatus(ctx *fiber.Ctx) error {
	needed, err := c.setup.NeedsAdmin(ctx.UserContext())
	if err != nil {
		return fail(ctx, err)
	}
	return ctx.JSON(serverutils.OkResponse("Setup status", fiber.Map{"needs_admin": needed}))
}

// CreateInitialAdmin is unauthenticated by design: it only works while the
// system has no admin at all, and refuses afterwards.
func (c *healthController) CreateInitialAdmin(ctx *fiber.Ctx) error {
	var req dto.AdminCreateUserRequest
	if err := ctx.BodyParser(&req); err != nil {
		return badRequest(ctx, err)
	}
	req.Role = "Admin"
	if err := serverutils.ValidateStruct(req); err != nil {
		return badRequest(ctx, err)
	}

	profile, err := c.setup.CreateInitialAdmin(ctx.UserContext(), &req)
	if err != nil {
		return fail(ctx, err)
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.OkResponse("Initial admin created", profile))
}
