// Package motion tracks whether the arm is moving from a stream of joint
// position samples.
package motion

import (
	"fmt"
	"math"
	"sync"
)

// DefaultTolerance is the per-axis delta (radians) still treated as stationary.
const DefaultTolerance = 0.0005

// Config holds tracker parameters.
type Config struct {
	Tolerance float64 // Per-axis dead zone
	Axes      int     // Expected number of positions per sample
}

// DefaultConfig returns the configuration for the two-axis arm.
func DefaultConfig() Config {
	return Config{
		Tolerance: DefaultTolerance,
		Axes:      2,
	}
}

// SampleError is returned for samples that cannot be compared to the last
// known position. The sample is dropped and state is retained.
type SampleError struct {
	Got  int
	Want int
}

// Error implements the error interface.
func (e *SampleError) Error() string {
	return fmt.Sprintf("motion: sample has %d axes, want %d", e.Got, e.Want)
}

// State is a snapshot of the tracker.
type State struct {
	LastPosition []float64 `json:"last_position"`
	Moving       bool      `json:"moving"`
	Samples      uint64    `json:"samples"`
	Dropped      uint64    `json:"dropped"`
}

// Tracker owns the last known position and the moving flag.
// It is safe for concurrent use.
type Tracker struct {
	tolerance float64

	mu      sync.RWMutex
	last    []float64
	moving  bool
	samples uint64
	dropped uint64
}

// NewTracker creates a tracker starting at the zero position, not moving.
func NewTracker(cfg Config) *Tracker {
	if cfg.Axes <= 0 {
		cfg.Axes = DefaultConfig().Axes
	}
	if cfg.Tolerance <= 0 {
		cfg.Tolerance = DefaultTolerance
	}
	return &Tracker{
		tolerance: cfg.Tolerance,
		last:      make([]float64, cfg.Axes),
	}
}

// OnSample updates the moving flag from a new position sample.
//
// When every axis is within tolerance of the last position the arm is
// stationary and the last position is kept, so slow drift still accumulates
// against the same reference. Otherwise the arm is moving and the sample
// becomes the new reference.
func (t *Tracker) OnSample(sample []float64) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if len(sample) != len(t.last) {
		t.dropped++
		return t.moving, &SampleError{Got: len(sample), Want: len(t.last)}
	}
	t.samples++

	if t.within(sample) {
		t.moving = false
		return false, nil
	}

	t.moving = true
	copy(t.last, sample)
	return true, nil
}

// within reports whether every axis of sample is inside the dead zone.
func (t *Tracker) within(sample []float64) bool {
	for i, v := range sample {
		if !(math.Abs(v-t.last[i]) < t.tolerance) {
			return false
		}
	}
	return true
}

// Moving returns the current moving flag.
func (t *Tracker) Moving() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.moving
}

// LastPosition returns a copy of the last recorded position.
func (t *Tracker) LastPosition() []float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return append([]float64(nil), t.last...)
}

// State returns a copy of the tracker state.
func (t *Tracker) State() State {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return State{
		LastPosition: append([]float64(nil), t.last...),
		Moving:       t.moving,
		Samples:      t.samples,
		Dropped:      t.dropped,
	}
}
