package actuator

import (
	"context"
	"errors"

	"github.com/teslashibe/go-simplearm/pkg/robot"
)

// Multi publishes every command to each sink in order. All sinks are tried;
// failures are joined.
type Multi []robot.ActuatorSink

// Publish implements robot.ActuatorSink.
func (m Multi) Publish(ctx context.Context, axis robot.Axis, angle float64) error {
	var errs []error
	for _, s := range m {
		if err := s.Publish(ctx, axis, angle); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
