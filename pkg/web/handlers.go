package web

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"github.com/teslashibe/go-simplearm/pkg/hub"
	"github.com/teslashibe/go-simplearm/pkg/robot"
)

// MoveRequest is the body of POST /api/safe_move. Both joints are required.
type MoveRequest struct {
	Joint1 *float64 `json:"joint_1"`
	Joint2 *float64 `json:"joint_2"`
}

// ErrorResponse is returned for every failed request
type ErrorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

// LimitsResponse is the body of GET /api/limits
type LimitsResponse struct {
	Limits robot.JointLimits `json:"limits"`
}

// statusFor maps a move error to an HTTP status code.
func statusFor(err error) int {
	switch {
	case errors.Is(err, robot.ErrPoseNonFinite):
		return fiber.StatusBadRequest
	case robot.IsConfigurationError(err):
		return fiber.StatusServiceUnavailable
	case robot.IsTransportError(err):
		return fiber.StatusBadGateway
	case errors.Is(err, robot.ErrSettleInterrupted):
		return fiber.StatusRequestTimeout
	}
	return fiber.StatusInternalServerError
}

// handleSafeMove clamps and executes a move request
func (s *Server) handleSafeMove(c *fiber.Ctx) error {
	var req MoveRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid body: " + err.Error()})
	}
	if req.Joint1 == nil || req.Joint2 == nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "joint_1 and joint_2 are required"})
	}

	fb, err := s.deps.Mover.RequestMove(c.UserContext(), robot.JointPose{J1: *req.Joint1, J2: *req.Joint2})
	if err != nil {
		code := statusFor(err)
		s.logger.Warn("move request failed", "request_id", fb.RequestID, "status", code, "error", err)
		return c.Status(code).JSON(ErrorResponse{Error: err.Error(), RequestID: fb.RequestID})
	}
	return c.JSON(fb)
}

// handleStatus returns the current coordinator state
func (s *Server) handleStatus(c *fiber.Ctx) error {
	if s.deps.Status == nil {
		return c.JSON(Status{Time: time.Now()})
	}
	return c.JSON(s.deps.Status())
}

// handleGetLimits returns the limits a move would be clamped to now
func (s *Server) handleGetLimits(c *fiber.Ctx) error {
	limits, err := s.deps.Limits.Limits()
	if err != nil {
		return c.Status(statusFor(err)).JSON(ErrorResponse{Error: err.Error()})
	}
	return c.JSON(LimitsResponse{Limits: limits})
}

// handleSetLimits replaces one axis range
func (s *Server) handleSetLimits(c *fiber.Ctx) error {
	axis := robot.Axis(c.Params("axis"))
	if axis != robot.Joint1 && axis != robot.Joint2 {
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{Error: "unknown axis " + string(axis)})
	}

	var r robot.Range
	if err := c.BodyParser(&r); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid body: " + err.Error()})
	}
	if err := s.deps.Limits.SetLimits(axis, r); err != nil {
		if errors.Is(err, robot.ErrLimitsInverted) || errors.Is(err, robot.ErrLimitsNonFinite) {
			return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: err.Error()})
	}

	s.logger.Info("limits updated", "axis", axis, "min", r.Min, "max", r.Max)
	return s.handleGetLimits(c)
}

// handleStatusWS streams status updates
func (s *Server) handleStatusWS(c *websocket.Conn) {
	hub.NewClient(s.statusHub, c).Run()
}
