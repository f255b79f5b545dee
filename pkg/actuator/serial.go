package actuator

import (
	"context"
	"fmt"
	"io"
	"sync"

	"go.bug.st/serial"

	"github.com/teslashibe/go-simplearm/pkg/robot"
)

// SerialPorter is the part of a serial port the sink needs.
type SerialPorter interface {
	io.Writer
	io.Closer
}

// SerialSink writes one "<axis> <angle>\n" line per command to a
// microcontroller on a serial port.
type SerialSink struct {
	mu   sync.Mutex
	port SerialPorter
}

// OpenSerialSink opens path at baud 8N1.
func OpenSerialSink(path string, baud int) (*SerialSink, error) {
	mode := &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}

	port, err := serial.Open(path, mode)
	if err != nil {
		return nil, fmt.Errorf("open serial %s: %w", path, err)
	}
	return NewSerialSink(port), nil
}

// NewSerialSink wraps an already open port.
func NewSerialSink(port SerialPorter) *SerialSink {
	return &SerialSink{port: port}
}

// Publish implements robot.ActuatorSink.
func (s *SerialSink) Publish(ctx context.Context, axis robot.Axis, angle float64) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := fmt.Fprintf(s.port, "%s %.6f\n", axis, angle); err != nil {
		return fmt.Errorf("serial write: %w", err)
	}
	return nil
}

// Close closes the port.
func (s *SerialSink) Close() error {
	return s.port.Close()
}

var _ robot.ActuatorSink = (*SerialSink)(nil)
