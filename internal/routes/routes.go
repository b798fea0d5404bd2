package routes

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/lusoconnect/onboarding/internal/auth"
	"github.com/lusoconnect/onboarding/internal/catalog"
	"github.com/lusoconnect/onboarding/internal/config"
	"github.com/lusoconnect/onboarding/internal/members"
	"github.com/lusoconnect/onboarding/internal/membership"
	"github.com/lusoconnect/onboarding/internal/metrics"
	"github.com/lusoconnect/onboarding/internal/middleware"
	"github.com/lusoconnect/onboarding/internal/notification"
	"github.com/lusoconnect/onboarding/internal/pricing"
	"github.com/lusoconnect/onboarding/internal/wizard"
)

// Deps aggregates shared dependencies required to wire routes.
type Deps struct {
	Cfg    config.Config
	DB     *pgxpool.Pool
	Cache  *redis.Client
	Kafka  *kgo.Client
	Logger *slog.Logger
}

// Setup configures middlewares and all application routes. It returns the
// wizard registry so the caller can run its idle sweeper.
func Setup(app *fiber.App, d Deps) (*wizard.Registry, error) {
	// Enforce DB/Redis presence outside of dev, even though main also checks.
	if !d.Cfg.IsDev() {
		if d.DB == nil {
			return nil, fmt.Errorf("database is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
		if d.Cache == nil {
			return nil, fmt.Errorf("redis is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
	}

	// Middlewares
	app.Use(recover.New())
	app.Use(middleware.RequestID())
	// Plain text access log in desired format: [HH:MM:SS] 200 -  145ms METHOD /path
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} -  ${latency} ${method} ${path}\n",
		TimeFormat: "15:04:05",
		TimeZone:   "Local",
	}))
	app.Use(middleware.Audit(d.Logger))

	// Services
	prices := pricing.NewResolver(d.Cfg.PricingOverrides())
	stats := metrics.New()

	var (
		memberRepo members.Repository
		subRepo    membership.Repository
	)
	if d.DB != nil {
		memberRepo = members.NewPostgresRepository(d.DB)
		subRepo = membership.NewPostgresRepository(d.DB)
	} else {
		memberRepo = members.NewMemoryRepository()
		subRepo = membership.NewMemoryRepository()
	}
	subscriptions := membership.NewService(subRepo, prices)
	issuer := auth.NewIssuer(d.Cfg.JWTSecret, d.Cfg.AccessTokenTTL)

	var notifier notification.Notifier = notification.NewLoggerNotifier(d.Logger)
	if d.Kafka != nil {
		notifier = notification.NewKafkaNotifier(d.Kafka, d.Cfg.KafkaTopic)
	}

	memberSvc := members.NewService(memberRepo, subscriptions, issuer, notifier, d.Logger)
	memberSvc.SetRecorder(stats)

	registry := wizard.NewRegistry(memberSvc, d.Cfg.WizardIdleTTL, wizard.WithObserver(stats))
	stats.TrackRegistry(registry)

	// Health and metrics
	RegisterHealthRoutes(app, d)
	app.Get("/metrics", stats.Handler())

	// API routes
	api := app.Group("/api/v1")
	api.Get("/ping", func(c *fiber.Ctx) error {
		reqID := middleware.RequestIDFrom(c)
		return c.Status(http.StatusOK).JSON(fiber.Map{
			"status":     "ok",
			"request_id": reqID,
			"timestamp":  time.Now().UTC().Format(time.RFC3339Nano),
		})
	})
	api.Get("/plans", pricing.NewHandler(prices).List)
	api.Get("/options", catalog.Options)

	idempotency := middleware.Idempotency(d.Cache, d.Cfg.IdempotencyTTL, d.Logger)
	RegisterWizardRoutes(api, wizard.NewHandler(registry, prices, d.Logger),
		idempotency, middleware.SubmitRateLimit(d.Cache, d.Cfg.SubmitRatePerMin))
	RegisterMemberRoutes(api, members.NewHandler(memberSvc, subscriptions),
		idempotency, middleware.JWTAuth(issuer))

	return registry, nil
}
