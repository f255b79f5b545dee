package robot

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBounds serves limits from a map; missing axes return err.
type fakeBounds struct {
	limits JointLimits
	err    error
}

func (f *fakeBounds) GetLimits(axis Axis) (float64, float64, error) {
	if f.err != nil {
		return 0, 0, f.err
	}
	r, ok := f.limits[axis]
	if !ok {
		return 0, 0, ErrLimitsMissing
	}
	return r.Min, r.Max, nil
}

// mockSink records all published commands for testing
type mockSink struct {
	mu    sync.Mutex
	calls []struct {
		axis  Axis
		angle float64
	}
	failOn map[Axis]error
}

func (m *mockSink) Publish(_ context.Context, axis Axis, angle float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, struct {
		axis  Axis
		angle float64
	}{axis, angle})
	return m.failOn[axis]
}

func (m *mockSink) published() map[Axis]float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[Axis]float64, len(m.calls))
	for _, c := range m.calls {
		out[c.axis] = c.angle
	}
	return out
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestGateway(bounds BoundsProvider, sink ActuatorSink, settle time.Duration) *Gateway {
	return NewGateway(bounds, sink, GatewayConfig{Settle: settle}, discardLogger())
}

func TestGateway_ClampsBeforePublishing(t *testing.T) {
	sink := &mockSink{}
	gw := newTestGateway(&fakeBounds{limits: testLimits}, sink, 0)

	fb, err := gw.RequestMove(context.Background(), JointPose{J1: 5.0, J2: 1.0})
	require.NoError(t, err)

	assert.Equal(t, JointPose{J1: 3.14, J2: 1.0}, fb.Applied)
	assert.Equal(t, map[Axis]float64{Joint1: 3.14, Joint2: 1.0}, sink.published())
	require.Len(t, fb.Warnings, 1)
	assert.Equal(t, Joint1, fb.Warnings[0].Axis)
	assert.Equal(t, "Joint angles set - j1: 3.140000, j2: 1.000000", fb.Message)
	assert.NotEmpty(t, fb.RequestID)
}

func TestGateway_ConfigurationErrorPublishesNothing(t *testing.T) {
	sink := &mockSink{}
	gw := newTestGateway(&fakeBounds{err: errors.New("param not found")}, sink, 0)

	_, err := gw.RequestMove(context.Background(), JointPose{J1: 1, J2: 1})

	require.Error(t, err)
	assert.True(t, IsConfigurationError(err))
	assert.Empty(t, sink.published())
}

func TestGateway_InvertedLimitsAreConfigurationError(t *testing.T) {
	bounds := &fakeBounds{limits: JointLimits{
		Joint1: {Min: 3, Max: 1},
		Joint2: {Min: 0, Max: 1},
	}}
	gw := newTestGateway(bounds, &mockSink{}, 0)

	_, err := gw.RequestMove(context.Background(), JointPose{})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrLimitsInverted)
}

func TestGateway_NaNLimitsPublishNothing(t *testing.T) {
	sink := &mockSink{}
	bounds := &fakeBounds{limits: JointLimits{
		Joint1: {Min: math.NaN(), Max: math.NaN()},
		Joint2: {Min: 0, Max: 3.14},
	}}
	gw := newTestGateway(bounds, sink, 0)

	_, err := gw.RequestMove(context.Background(), JointPose{J1: 50, J2: 1})

	require.Error(t, err)
	assert.True(t, IsConfigurationError(err))
	assert.ErrorIs(t, err, ErrLimitsNonFinite)
	assert.Empty(t, sink.published())
}

func TestGateway_RejectsNonFinitePose(t *testing.T) {
	sink := &mockSink{}
	gw := newTestGateway(&fakeBounds{limits: testLimits}, sink, 0)

	fb, err := gw.RequestMove(context.Background(), JointPose{J1: math.NaN(), J2: 1})

	assert.ErrorIs(t, err, ErrPoseNonFinite)
	assert.NotEmpty(t, fb.RequestID)
	assert.Empty(t, sink.published())
}

func TestGateway_TransportError(t *testing.T) {
	boom := errors.New("bus offline")
	sink := &mockSink{failOn: map[Axis]error{Joint1: boom}}
	gw := newTestGateway(&fakeBounds{limits: testLimits}, sink, time.Hour)

	start := time.Now()
	fb, err := gw.RequestMove(context.Background(), JointPose{J1: 1, J2: 1})

	require.Error(t, err)
	assert.True(t, IsTransportError(err))
	assert.ErrorIs(t, err, boom)
	assert.Less(t, time.Since(start), time.Second, "no settle wait after a failed publish")

	// Joint 2 is still attempted.
	assert.Contains(t, sink.published(), Joint2)
	assert.Equal(t, JointPose{J1: 1, J2: 1}, fb.Applied)

	var te *TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, Joint1, te.Axis)
}

func TestGateway_TransportErrorBothAxes(t *testing.T) {
	sink := &mockSink{failOn: map[Axis]error{
		Joint1: errors.New("j1 down"),
		Joint2: errors.New("j2 down"),
	}}
	gw := newTestGateway(&fakeBounds{limits: testLimits}, sink, 0)

	_, err := gw.RequestMove(context.Background(), JointPose{})

	var te *TransportError
	require.ErrorAs(t, err, &te)
	assert.Empty(t, te.Axis)
	assert.Contains(t, err.Error(), "j1 down")
	assert.Contains(t, err.Error(), "j2 down")
}

func TestGateway_WaitsForSettle(t *testing.T) {
	settle := 50 * time.Millisecond
	gw := newTestGateway(&fakeBounds{limits: testLimits}, &mockSink{}, settle)

	start := time.Now()
	_, err := gw.RequestMove(context.Background(), JointPose{J1: 1, J2: 1})

	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), settle)
}

func TestGateway_SettleCancelled(t *testing.T) {
	gw := newTestGateway(&fakeBounds{limits: testLimits}, &mockSink{}, time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := gw.RequestMove(ctx, JointPose{J1: 1, J2: 1})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSettleInterrupted)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestGateway_DefaultConfig(t *testing.T) {
	gw := NewGateway(&fakeBounds{limits: testLimits}, &mockSink{}, DefaultGatewayConfig(), nil)

	assert.Equal(t, DefaultSettle, gw.Settle())

	limits, err := gw.Limits()
	require.NoError(t, err)
	assert.Equal(t, testLimits, limits)
}

func TestGateway_NilLoggerUsesPackageLogger(t *testing.T) {
	sink := &mockSink{}
	gw := NewGateway(&fakeBounds{limits: testLimits}, sink, GatewayConfig{}, nil)
	require.NotNil(t, gw.logger)

	_, err := gw.RequestMove(context.Background(), JointPose{J1: 1, J2: 1})
	require.NoError(t, err)
	assert.Equal(t, map[Axis]float64{Joint1: 1, Joint2: 1}, sink.published())
}
