// Package actuator contains robot.ActuatorSink implementations that drive
// hardware directly instead of going through the bridge.
package actuator

import (
	"context"
	"fmt"
	"math"
	"sync"

	"github.com/hipsterbrown/feetech-servo/feetech"

	"github.com/teslashibe/go-simplearm/pkg/robot"
)

// StepsPerTurn is the STS3215 encoder resolution.
const StepsPerTurn = 4096

// ServoConfig describes a Feetech bus and the servo behind each axis.
type ServoConfig struct {
	Port     string             `json:"port"`
	BaudRate int                `json:"baud_rate"`
	IDs      map[robot.Axis]int `json:"ids"`
	// Center is the raw position that corresponds to 0 rad.
	Center int `json:"center"`
}

// DefaultServoConfig maps joint_1 to ID 1 and joint_2 to ID 2, with 0 rad
// a quarter turn below mid-travel so that [0, π] fits the encoder range.
func DefaultServoConfig(port string) ServoConfig {
	return ServoConfig{
		Port:     port,
		BaudRate: 1_000_000,
		IDs:      map[robot.Axis]int{robot.Joint1: 1, robot.Joint2: 2},
		Center:   StepsPerTurn / 4,
	}
}

// RadiansToRaw converts an angle to a raw servo position, saturating at the
// encoder limits.
func RadiansToRaw(rad float64, center int) int {
	raw := center + int(math.Round(rad*StepsPerTurn/(2*math.Pi)))
	if raw < 0 {
		return 0
	}
	if raw > StepsPerTurn-1 {
		return StepsPerTurn - 1
	}
	return raw
}

// RawToRadians is the inverse of RadiansToRaw.
func RawToRadians(raw, center int) float64 {
	return float64(raw-center) * 2 * math.Pi / StepsPerTurn
}

type positionWriter interface {
	SetPositions(ctx context.Context, positions feetech.PositionMap) error
}

// ServoSink writes joint targets to Feetech STS servos.
type ServoSink struct {
	cfg   ServoConfig
	group positionWriter
	bus   *feetech.Bus

	mu sync.Mutex
}

// OpenServoSink opens the bus and enables torque on the configured servos.
func OpenServoSink(ctx context.Context, cfg ServoConfig) (*ServoSink, error) {
	bus, err := feetech.NewBus(feetech.BusConfig{
		Port:     cfg.Port,
		BaudRate: cfg.BaudRate,
		Protocol: feetech.ProtocolSTS,
	})
	if err != nil {
		return nil, fmt.Errorf("open bus: %w", err)
	}

	ids := make([]int, 0, len(cfg.IDs))
	for _, axis := range robot.AllAxes() {
		if id, ok := cfg.IDs[axis]; ok {
			ids = append(ids, id)
		}
	}
	group := feetech.NewServoGroupByIDs(bus, ids...)
	if err := group.EnableAll(ctx); err != nil {
		bus.Close()
		return nil, fmt.Errorf("enable torque: %w", err)
	}

	s := newServoSink(group, cfg)
	s.bus = bus
	return s, nil
}

func newServoSink(w positionWriter, cfg ServoConfig) *ServoSink {
	return &ServoSink{cfg: cfg, group: w}
}

// Publish implements robot.ActuatorSink.
func (s *ServoSink) Publish(ctx context.Context, axis robot.Axis, angle float64) error {
	id, ok := s.cfg.IDs[axis]
	if !ok {
		return fmt.Errorf("no servo mapped to %s", axis)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.group.SetPositions(ctx, feetech.PositionMap{id: RadiansToRaw(angle, s.cfg.Center)}); err != nil {
		return fmt.Errorf("write position: %w", err)
	}
	return nil
}

// Close closes the bus connection.
func (s *ServoSink) Close() error {
	if s.bus == nil {
		return nil
	}
	return s.bus.Close()
}

var _ robot.ActuatorSink = (*ServoSink)(nil)
