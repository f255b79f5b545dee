// Package centering returns the arm to its rest pose when it is idle and the
// camera sees a blank view.
package centering

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/teslashibe/go-simplearm/internal/log"
	"github.com/teslashibe/go-simplearm/pkg/robot"
)

// State is the monitor's command state.
type State int

const (
	// Idle means no centering move is in flight.
	Idle State = iota
	// Commanding means a centering move has been issued and not yet returned.
	Commanding
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Commanding:
		return "commanding"
	}
	return "unknown"
}

// MotionReader exposes the tracker's moving flag.
type MotionReader interface {
	Moving() bool
}

// ViewReader exposes the detector's uniform flag.
type ViewReader interface {
	Uniform() bool
}

// Config holds monitor parameters.
type Config struct {
	CenterPose  robot.JointPose // Rest pose sent when idle and blank
	MoveTimeout time.Duration   // Bound on a single centering move
}

// DefaultConfig returns the standard center pose with a timeout that covers
// the default settle time.
func DefaultConfig() Config {
	return Config{
		CenterPose:  robot.JointPose{J1: 1.57, J2: 1.57},
		MoveTimeout: robot.DefaultSettle + 2*time.Second,
	}
}

// Snapshot is a point-in-time view of the monitor for status reporting.
type Snapshot struct {
	State           string          `json:"state"`
	Moving          bool            `json:"moving"`
	Uniform         bool            `json:"uniform"`
	AlreadyCentered bool            `json:"already_centered"`
	Commands        uint64          `json:"commands"`
	Failures        uint64          `json:"failures"`
	LastFeedback    *robot.Feedback `json:"last_feedback,omitempty"`
	LastError       string          `json:"last_error,omitempty"`
}

// Monitor issues a single centering move per idle-and-blank episode.
//
// An episode starts when the arm is not moving and the view is uniform, and
// ends when either flag flips. At most one move is in flight at a time.
type Monitor struct {
	motion MotionReader
	view   ViewReader
	mover  robot.Mover
	cfg    Config
	logger *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu              sync.Mutex
	closed          bool
	state           State
	alreadyCentered bool
	commands        uint64
	failures        uint64
	lastFeedback    *robot.Feedback
	lastErr         error

	// OnResult is called after each centering move completes.
	OnResult func(robot.Feedback, error)
}

// New creates a monitor reading motion and view state by reference.
func New(motion MotionReader, view ViewReader, mover robot.Mover, cfg Config, logger *slog.Logger) *Monitor {
	if logger == nil {
		logger = log.L()
	}
	if cfg.MoveTimeout <= 0 {
		cfg.MoveTimeout = DefaultConfig().MoveTimeout
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Monitor{
		motion: motion,
		view:   view,
		mover:  mover,
		cfg:    cfg,
		logger: logger.With("component", "centering"),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Evaluate checks the idle-and-blank condition and dispatches a centering
// move when a new episode begins. Call it after every state update; it
// returns true if a move was dispatched.
func (m *Monitor) Evaluate() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	idleAndBlank := !m.motion.Moving() && m.view.Uniform()
	if !idleAndBlank {
		m.alreadyCentered = false
		return false
	}
	if m.state != Idle || m.alreadyCentered {
		return false
	}
	if m.closed {
		return false
	}

	m.state = Commanding
	m.alreadyCentered = true
	m.commands++

	m.wg.Add(1)
	go m.command()
	return true
}

func (m *Monitor) command() {
	defer m.wg.Done()

	pose := m.cfg.CenterPose
	m.logger.Info("moving arm to center", "j1", pose.J1, "j2", pose.J2)

	ctx, cancel := context.WithTimeout(m.ctx, m.cfg.MoveTimeout)
	fb, err := m.mover.RequestMove(ctx, pose)
	cancel()

	m.mu.Lock()
	m.state = Idle
	if err != nil {
		m.failures++
		m.lastErr = err
		// Let the next qualifying update try again.
		m.alreadyCentered = false
	} else {
		m.lastErr = nil
		m.lastFeedback = &fb
	}
	onResult := m.OnResult
	m.mu.Unlock()

	if err != nil {
		m.logger.Error("failed to call safe move", "error", err)
	} else {
		m.logger.Info("arm centered", "request_id", fb.RequestID)
	}

	if onResult != nil {
		onResult(fb, err)
	}
}

// State returns the current command state.
func (m *Monitor) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Snapshot returns the monitor status.
func (m *Monitor) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := Snapshot{
		State:           m.state.String(),
		Moving:          m.motion.Moving(),
		Uniform:         m.view.Uniform(),
		AlreadyCentered: m.alreadyCentered,
		Commands:        m.commands,
		Failures:        m.failures,
	}
	if m.lastFeedback != nil {
		fb := *m.lastFeedback
		s.LastFeedback = &fb
	}
	if m.lastErr != nil {
		s.LastError = m.lastErr.Error()
	}
	return s
}

// Wait blocks until every dispatched move has returned.
func (m *Monitor) Wait() {
	m.wg.Wait()
}

// Close cancels in-flight moves and waits for them to return.
// No further moves are dispatched.
func (m *Monitor) Close() {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()

	m.cancel()
	m.wg.Wait()
}
