package server

import (
	"context"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/lusoconnect/onboarding/internal/config"
	"github.com/lusoconnect/onboarding/internal/routes"
)

const sweepInterval = time.Minute

// Server wraps the Fiber application, the wizard registry and its sweeper.
type Server struct {
	app    *fiber.App
	cfg    config.Config
	logger *slog.Logger
	stop   context.CancelFunc
	swept  chan struct{}
}

// New instantiates the HTTP server, delegates route wiring to routes.Setup and
// starts the idle wizard sweeper.
// db, cache and kafka may be nil in development.
func New(cfg config.Config, db *pgxpool.Pool, cache *redis.Client, kafka *kgo.Client, logger *slog.Logger) (*Server, error) {
	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	})

	registry, err := routes.Setup(app, routes.Deps{Cfg: cfg, DB: db, Cache: cache, Kafka: kafka, Logger: logger})
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{app: app, cfg: cfg, logger: logger, stop: cancel, swept: make(chan struct{})}
	go func() {
		defer close(s.swept)
		registry.Run(ctx, sweepInterval)
	}()
	return s, nil
}

// App exposes the underlying Fiber application.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen starts the HTTP server.
func (s *Server) Listen() error {
	s.logger.Info("server listening", slog.String("addr", s.cfg.Address()), slog.Duration("wizard_idle_ttl", s.cfg.WizardIdleTTL))
	return s.app.Listen(s.cfg.Address())
}

// Shutdown gracefully stops the HTTP server, then the sweeper. Open wizards
// are dropped with the process.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.app.ShutdownWithContext(ctx)
	s.stop()
	<-s.swept
	return err
}
