package bootstrap

import (
	"context"
	"log"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"

	"github.com/mahdyhasan/augmind/internal/auth"
	"github.com/mahdyhasan/augmind/internal/backend"
	"github.com/mahdyhasan/augmind/internal/backend/gormdb"
	"github.com/mahdyhasan/augmind/internal/backend/supabase"
	"github.com/mahdyhasan/augmind/internal/config"
	"github.com/mahdyhasan/augmind/internal/controller"
	"github.com/mahdyhasan/augmind/internal/datasource"
	"github.com/mahdyhasan/augmind/internal/pkg/logger"
	"github.com/mahdyhasan/augmind/internal/service"
	"github.com/mahdyhasan/augmind/internal/websocket"
	"github.com/mahdyhasan/augmind/pkg/assistant"
	"github.com/mahdyhasan/augmind/pkg/database"
)

type Container struct {
	// Controllers
	AuthController     controller.IAuthController
	ChatController     controller.IChatController
	DocumentController controller.IDocumentController
	PresetController   controller.IPresetController
	ProspectController controller.IProspectController
	AdminController    controller.IAdminController
	SettingsController controller.ISettingsController
	HealthController   controller.IHealthController

	// Request plumbing
	SessionManager *auth.Manager
	Policy         *datasource.Policy
	WebSocketHub   *websocket.Hub
	Subscriber     message.Subscriber
	Logger         logger.ILogger
}

func NewContainer(cfg *config.Config) *Container {
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// Backend adapter: REST against the hosted BaaS, with the table surface
	// optionally switched to a direct Postgres connection.
	var client backend.Client = supabase.New(
		cfg.Backend.URL,
		cfg.Backend.AnonKey,
		supabase.WithServiceKey(cfg.Backend.ServiceKey),
		supabase.WithTimeout(cfg.Backend.RequestTimeout),
	)
	if cfg.Backend.DatabaseDSN != "" {
		gormDB, err := database.NewGormDBFromDSN(cfg.Backend.DatabaseDSN)
		if err != nil {
			log.Fatalf("[FATAL] Unable to connect to Postgres: %v", err)
		}
		client = gormdb.New(gormDB, client)
		log.Println("[INFO] Table adapter: direct Postgres")
	} else {
		log.Println("[INFO] Table adapter: REST")
	}

	// Event bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermillLogger)

	// Redis is optional: without it sessions do not survive restarts and
	// websocket events stay instance local.
	rdb := newRedisClient(cfg.App.RedisURL)

	// Data-source policy and the assistant
	policy := datasource.NewPolicy(client, sysLogger, cfg.Backend.ProbeTimeout)
	provider := assistant.NewCanned()

	// Auth core. Stores fall back to the demo directory while the policy
	// serves demo data, so the dashboard stays reachable without a backend.
	resolver := auth.NewProfileResolver(client, sysLogger)
	bootstrapper := auth.NewBootstrapper(client, resolver, sysLogger).
		WithTimeout(cfg.Session.BootstrapTimeout)
	sessionManager := auth.NewManager(client, resolver, bootstrapper, pubSub, rdb, sysLogger, cfg.Session).
		WithFallback(datasource.NewFallbackAuthenticator(policy))

	// Services
	presetService := service.NewPresetService(client, policy, sysLogger)
	chatService := service.NewChatService(client, provider, presetService, sysLogger)
	documentService := service.NewDocumentService(client, policy, cfg.Backend.StorageBucket, sysLogger)
	prospectService := service.NewProspectService(client, policy, provider, sysLogger)
	adminService := service.NewAdminService(client, policy, sysLogger)
	userService := service.NewUserService(client, sysLogger)
	setupService := service.NewSetupService(client, adminService, sysLogger)

	// WebSockets get their own isolated log so the main log stays readable.
	wsLogger := logger.NewIsolatedLogger("logs/websocket.log")
	hub := websocket.NewHub(rdb, wsLogger)

	return &Container{
		AuthController:     controller.NewAuthController(),
		ChatController:     controller.NewChatController(chatService),
		DocumentController: controller.NewDocumentController(documentService, policy),
		PresetController:   controller.NewPresetController(presetService, policy),
		ProspectController: controller.NewProspectController(prospectService, policy),
		AdminController:    controller.NewAdminController(adminService, policy),
		SettingsController: controller.NewSettingsController(userService),
		HealthController:   controller.NewHealthController(policy, setupService),

		SessionManager: sessionManager,
		Policy:         policy,
		WebSocketHub:   hub,
		Subscriber:     pubSub,
		Logger:         sysLogger,
	}
}

func newRedisClient(redisURL string) *redis.Client {
	if redisURL == "" {
		return nil
	}
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Printf("[WARN] Invalid REDIS_URL, continuing without Redis: %v", err)
		return nil
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		log.Printf("[WARN] Redis unreachable, continuing without it: %v", err)
		return nil
	}
	return rdb
}
