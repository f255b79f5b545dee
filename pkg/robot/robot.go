package robot

import (
	"fmt"
	"math"
)

// Axis identifies a controllable joint of the arm.
type Axis string

// Joints of the two-axis arm.
const (
	Joint1 Axis = "joint_1"
	Joint2 Axis = "joint_2"
)

// AllAxes returns the controllable axes in command order.
func AllAxes() []Axis {
	return []Axis{Joint1, Joint2}
}

// JointPose is a requested or achieved target for both axes (radians).
type JointPose struct {
	J1 float64 `json:"joint_1"`
	J2 float64 `json:"joint_2"`
}

// At returns the angle for the given axis. Unknown axes read as 0.
func (p JointPose) At(axis Axis) float64 {
	switch axis {
	case Joint1:
		return p.J1
	case Joint2:
		return p.J2
	}
	return 0
}

// With returns a copy of p with the given axis set to v.
func (p JointPose) With(axis Axis, v float64) JointPose {
	switch axis {
	case Joint1:
		p.J1 = v
	case Joint2:
		p.J2 = v
	}
	return p
}

// Validate rejects NaN and infinite angles, which the clamp cannot bound.
func (p JointPose) Validate() error {
	for _, axis := range AllAxes() {
		if v := p.At(axis); !isFinite(v) {
			return fmt.Errorf("%w: %s = %v", ErrPoseNonFinite, axis, v)
		}
	}
	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// String formats the pose the way feedback messages do.
func (p JointPose) String() string {
	return fmt.Sprintf("j1: %f, j2: %f", p.J1, p.J2)
}

// Range is the inclusive safe range of one axis.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Validate checks that both bounds are finite and Min <= Max.
func (r Range) Validate() error {
	if !isFinite(r.Min) || !isFinite(r.Max) {
		return fmt.Errorf("%w: min %v, max %v", ErrLimitsNonFinite, r.Min, r.Max)
	}
	if r.Min > r.Max {
		return fmt.Errorf("%w: min %.4f > max %.4f", ErrLimitsInverted, r.Min, r.Max)
	}
	return nil
}

// Contains reports whether v lies within the range.
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// JointLimits maps each axis to its safe range.
type JointLimits map[Axis]Range

// Validate checks that every axis has a finite range with Min <= Max.
func (l JointLimits) Validate() error {
	for _, axis := range AllAxes() {
		r, ok := l[axis]
		if !ok {
			return &ConfigurationError{Axis: axis, Err: ErrLimitsMissing}
		}
		if err := r.Validate(); err != nil {
			return &ConfigurationError{Axis: axis, Err: err}
		}
	}
	return nil
}

// Feedback is the result of a completed move request.
type Feedback struct {
	RequestID string         `json:"request_id"`
	Message   string         `json:"msg_feedback"`
	Applied   JointPose      `json:"applied"`
	Warnings  []ClampWarning `json:"warnings,omitempty"`
}
