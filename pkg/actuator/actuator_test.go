package actuator

import (
	"bytes"
	"context"
	"errors"
	"math"
	"testing"

	"github.com/hipsterbrown/feetech-servo/feetech"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teslashibe/go-simplearm/pkg/robot"
)

func TestRadiansToRaw(t *testing.T) {
	tests := []struct {
		name   string
		rad    float64
		center int
		want   int
	}{
		{"zero at center", 0, 1024, 1024},
		{"half turn", math.Pi, 1024, 3072},
		{"quarter turn", math.Pi / 2, 2048, 3072},
		{"negative", -math.Pi / 2, 2048, 1024},
		{"saturates high", 2 * math.Pi, 2048, StepsPerTurn - 1},
		{"saturates low", -2 * math.Pi, 1024, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RadiansToRaw(tt.rad, tt.center))
		})
	}
}

func TestRawToRadians_Inverse(t *testing.T) {
	for _, rad := range []float64{0, 0.5, 1.57, 3.14} {
		raw := RadiansToRaw(rad, 1024)
		assert.InDelta(t, rad, RawToRadians(raw, 1024), 2*math.Pi/StepsPerTurn)
	}
}

type fakeGroup struct {
	writes []feetech.PositionMap
	err    error
}

func (g *fakeGroup) SetPositions(_ context.Context, p feetech.PositionMap) error {
	g.writes = append(g.writes, p)
	return g.err
}

func TestServoSink_Publish(t *testing.T) {
	g := &fakeGroup{}
	s := newServoSink(g, DefaultServoConfig("/dev/null"))

	require.NoError(t, s.Publish(context.Background(), robot.Joint2, math.Pi/2))
	require.Len(t, g.writes, 1)
	assert.Equal(t, feetech.PositionMap{2: 2048}, g.writes[0])

	assert.NoError(t, s.Close(), "closing a sink without a bus is a no-op")
}

func TestServoSink_Errors(t *testing.T) {
	g := &fakeGroup{err: errors.New("bus timeout")}
	cfg := DefaultServoConfig("/dev/null")
	s := newServoSink(g, cfg)

	err := s.Publish(context.Background(), robot.Joint1, 1)
	assert.ErrorContains(t, err, "bus timeout")

	delete(cfg.IDs, robot.Joint1)
	s = newServoSink(&fakeGroup{}, cfg)
	assert.Error(t, s.Publish(context.Background(), robot.Joint1, 1))
}

type fakePort struct {
	bytes.Buffer
	closed bool
	err    error
}

func (p *fakePort) Write(b []byte) (int, error) {
	if p.err != nil {
		return 0, p.err
	}
	return p.Buffer.Write(b)
}

func (p *fakePort) Close() error {
	p.closed = true
	return nil
}

func TestSerialSink_WritesLines(t *testing.T) {
	port := &fakePort{}
	s := NewSerialSink(port)

	require.NoError(t, s.Publish(context.Background(), robot.Joint1, 3.14))
	require.NoError(t, s.Publish(context.Background(), robot.Joint2, 0))
	assert.Equal(t, "joint_1 3.140000\njoint_2 0.000000\n", port.String())

	require.NoError(t, s.Close())
	assert.True(t, port.closed)
}

func TestSerialSink_CancelledAndFailing(t *testing.T) {
	port := &fakePort{}
	s := NewSerialSink(port)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, s.Publish(ctx, robot.Joint1, 1), context.Canceled)
	assert.Zero(t, port.Len())

	port.err = errors.New("unplugged")
	assert.ErrorContains(t, s.Publish(context.Background(), robot.Joint1, 1), "unplugged")
}

func TestMulti_TriesEverySink(t *testing.T) {
	failing := &fakePort{err: errors.New("unplugged")}
	ok := &fakePort{}
	m := Multi{NewSerialSink(failing), NewSerialSink(ok)}

	err := m.Publish(context.Background(), robot.Joint1, 1)

	assert.ErrorContains(t, err, "unplugged")
	assert.Equal(t, "joint_1 1.000000\n", ok.String())
	assert.NoError(t, Multi{}.Publish(context.Background(), robot.Joint1, 1))
}
