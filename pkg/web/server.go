// Package web serves the move-request endpoint and the status stream.
package web

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"

	"github.com/teslashibe/go-simplearm/internal/log"
	"github.com/teslashibe/go-simplearm/pkg/bridge"
	"github.com/teslashibe/go-simplearm/pkg/centering"
	"github.com/teslashibe/go-simplearm/pkg/hub"
	"github.com/teslashibe/go-simplearm/pkg/motion"
	"github.com/teslashibe/go-simplearm/pkg/robot"
	"github.com/teslashibe/go-simplearm/pkg/vision"
)

// Status is the coordinator state reported on /api/status and /ws/status.
type Status struct {
	Time      time.Time           `json:"time"`
	Centering centering.Snapshot  `json:"centering"`
	Motion    motion.State        `json:"motion"`
	View      vision.ViewState    `json:"view"`
	Bridge    *bridge.ClientStats `json:"bridge,omitempty"`
	Limits    robot.JointLimits   `json:"limits,omitempty"`
}

// Limits reads and updates the per-axis limits served by the endpoint.
type Limits interface {
	Limits() (robot.JointLimits, error)
	SetLimits(axis robot.Axis, r robot.Range) error
}

// Deps are the collaborators behind the HTTP surface.
type Deps struct {
	Mover  robot.Mover
	Limits Limits
	Status func() Status
}

// Server is the HTTP server
type Server struct {
	app    *fiber.App
	port   string
	deps   Deps
	logger *slog.Logger

	// Hub for the status websocket
	statusHub *hub.Hub
}

// NewServer creates a new server listening on port once Run is called
func NewServer(port string, deps Deps, logger *slog.Logger) *Server {
	if logger == nil {
		logger = log.L()
	}
	s := &Server{
		port:      port,
		deps:      deps,
		logger:    logger.With("component", "web"),
		statusHub: hub.New("status", logger),
	}

	app := fiber.New(fiber.Config{
		AppName:               "simplearm",
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	// CORS for local development
	app.Use(cors.New())

	// API routes
	api := app.Group("/api")
	api.Post("/safe_move", s.handleSafeMove)
	api.Get("/status", s.handleStatus)
	api.Get("/limits", s.handleGetLimits)
	api.Put("/limits/:axis", s.handleSetLimits)

	// WebSocket upgrade middleware
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	app.Get("/ws/status", websocket.New(s.handleStatusWS))

	s.app = app
	return s
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	go s.statusHub.Run(ctx)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", ":"+s.port)
		errCh <- s.app.Listen(":" + s.port)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("web server: %w", err)
	case <-ctx.Done():
	}

	if err := s.app.ShutdownWithTimeout(5 * time.Second); err != nil {
		return fmt.Errorf("web shutdown: %w", err)
	}
	return nil
}

// PublishStatus broadcasts st to every /ws/status client.
func (s *Server) PublishStatus(st Status) {
	if err := s.statusHub.BroadcastJSON(st); err != nil {
		s.logger.Warn("status encode failed", "error", err)
	}
}

// StatusHub returns the status broadcast hub
func (s *Server) StatusHub() *hub.Hub {
	return s.statusHub
}
