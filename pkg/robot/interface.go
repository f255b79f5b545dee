// Package robot provides the safe-move path for a two-axis arm: joint limit
// clamping and the gateway that forwards clamped poses to the actuators.
//
// Collaborators are small, focused interfaces so the gateway can run against
// a parameter server, a bridge, a servo bus or a test fake.
package robot

import "context"

// BoundsProvider supplies the safe range for an axis.
// Implementations must return the currently configured values on every call.
type BoundsProvider interface {
	GetLimits(axis Axis) (min, max float64, err error)
}

// ActuatorSink delivers a single joint command. Delivery is fire-and-forget:
// a nil error means the command was handed off, not that the joint arrived.
type ActuatorSink interface {
	Publish(ctx context.Context, axis Axis, angle float64) error
}

// Mover is anything that can execute a safe move request.
type Mover interface {
	RequestMove(ctx context.Context, pose JointPose) (Feedback, error)
}

// FetchLimits reads the range of every axis from p.
// Any failure is reported as a ConfigurationError.
func FetchLimits(p BoundsProvider) (JointLimits, error) {
	limits := make(JointLimits, len(AllAxes()))
	for _, axis := range AllAxes() {
		min, max, err := p.GetLimits(axis)
		if err != nil {
			return nil, &ConfigurationError{Axis: axis, Err: err}
		}
		limits[axis] = Range{Min: min, Max: max}
	}
	if err := limits.Validate(); err != nil {
		return nil, err
	}
	return limits, nil
}

// Ensure Gateway implements Mover
var _ Mover = (*Gateway)(nil)
