package robot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/teslashibe/go-simplearm/internal/log"
)

// DefaultSettle is how long a move waits for the arm to reach its target.
const DefaultSettle = 3 * time.Second

// GatewayConfig holds tunables for the move gateway.
type GatewayConfig struct {
	// Settle is the wait after publishing, modelling actuator travel time.
	Settle time.Duration
}

// DefaultGatewayConfig returns the standard gateway configuration.
func DefaultGatewayConfig() GatewayConfig {
	return GatewayConfig{Settle: DefaultSettle}
}

// Gateway is the single entry point for arm motion. Every request is clamped
// against the current limits before anything reaches the actuators.
type Gateway struct {
	bounds BoundsProvider
	sink   ActuatorSink
	settle time.Duration
	logger *slog.Logger
}

// NewGateway creates a gateway publishing to sink with limits from bounds.
func NewGateway(bounds BoundsProvider, sink ActuatorSink, cfg GatewayConfig, logger *slog.Logger) *Gateway {
	if logger == nil {
		logger = log.L()
	}
	if cfg.Settle < 0 {
		cfg.Settle = 0
	}
	return &Gateway{
		bounds: bounds,
		sink:   sink,
		settle: cfg.Settle,
		logger: logger.With("component", "gateway"),
	}
}

// Settle returns the configured settle duration.
func (g *Gateway) Settle() time.Duration {
	return g.settle
}

// Limits returns the limits currently in force.
func (g *Gateway) Limits() (JointLimits, error) {
	return FetchLimits(g.bounds)
}

// RequestMove clamps pose, publishes it and blocks until the settle time has
// elapsed or ctx is done.
func (g *Gateway) RequestMove(ctx context.Context, pose JointPose) (Feedback, error) {
	id := uuid.New().String()
	rlog := g.logger.With("request_id", id)

	rlog.Info("move request received", "j1", pose.J1, "j2", pose.J2)

	if err := pose.Validate(); err != nil {
		rlog.Warn("rejecting move request", "error", err)
		return Feedback{RequestID: id}, err
	}

	limits, err := FetchLimits(g.bounds)
	if err != nil {
		rlog.Error("joint limits unavailable", "error", err)
		return Feedback{RequestID: id}, err
	}

	applied, warnings := Clamp(pose, limits)
	for _, w := range warnings {
		rlog.Warn(w.String(), "axis", w.Axis, "min", w.Min, "max", w.Max, "clamped", w.Value)
	}

	if err := g.publish(ctx, applied); err != nil {
		rlog.Error("failed to publish joint command", "error", err)
		return Feedback{RequestID: id, Applied: applied, Warnings: warnings}, err
	}

	if err := g.wait(ctx); err != nil {
		rlog.Warn("settle wait interrupted", "error", err)
		return Feedback{RequestID: id, Applied: applied, Warnings: warnings}, err
	}

	fb := Feedback{
		RequestID: id,
		Message:   "Joint angles set - " + applied.String(),
		Applied:   applied,
		Warnings:  warnings,
	}
	rlog.Info(fb.Message)
	return fb, nil
}

// publish sends every axis, even if an earlier axis failed.
func (g *Gateway) publish(ctx context.Context, pose JointPose) error {
	var failed []*TransportError
	for _, axis := range AllAxes() {
		if err := g.sink.Publish(ctx, axis, pose.At(axis)); err != nil {
			failed = append(failed, &TransportError{Axis: axis, Err: err})
		}
	}
	switch len(failed) {
	case 0:
		return nil
	case 1:
		return failed[0]
	}
	errs := make([]error, len(failed))
	for i, f := range failed {
		errs[i] = fmt.Errorf("%s: %w", f.Axis, f.Err)
	}
	return &TransportError{Err: errors.Join(errs...)}
}

func (g *Gateway) wait(ctx context.Context) error {
	if g.settle == 0 {
		return nil
	}
	timer := time.NewTimer(g.settle)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("%w: %w", ErrSettleInterrupted, ctx.Err())
	}
}
