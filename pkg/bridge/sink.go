package bridge

import (
	"context"

	"github.com/teslashibe/go-simplearm/pkg/protocol"
	"github.com/teslashibe/go-simplearm/pkg/robot"
)

// Publisher sends a payload on a topic.
type Publisher interface {
	Publish(topic string, v any) error
}

// CommandSink forwards joint targets to the per-axis position controllers.
type CommandSink struct {
	pub    Publisher
	topics *Topics
}

// NewCommandSink creates a sink publishing through pub.
func NewCommandSink(pub Publisher, topics *Topics) *CommandSink {
	return &CommandSink{pub: pub, topics: topics}
}

// Publish implements robot.ActuatorSink.
func (s *CommandSink) Publish(ctx context.Context, axis robot.Axis, angle float64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.pub.Publish(s.topics.Command(axis), protocol.Float64Data{Data: angle})
}

var _ robot.ActuatorSink = (*CommandSink)(nil)
