package robot

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
)

var testLimits = JointLimits{
	Joint1: {Min: 0, Max: 3.14},
	Joint2: {Min: 0, Max: 1.5},
}

func TestClamp_OutOfRangeJoint1(t *testing.T) {
	got, warnings := Clamp(JointPose{J1: 5.0, J2: 1.0}, testLimits)

	want := JointPose{J1: 3.14, J2: 1.0}
	if got != want {
		t.Errorf("Clamp: got %+v, want %+v", got, want)
	}

	wantWarnings := []ClampWarning{{Axis: Joint1, Min: 0, Max: 3.14, Value: 3.14}}
	if diff := cmp.Diff(wantWarnings, warnings); diff != "" {
		t.Errorf("warnings mismatch (-want +got):\n%s", diff)
	}
}

func TestClamp_BelowMinimum(t *testing.T) {
	got, warnings := Clamp(JointPose{J1: -1, J2: -0.2}, testLimits)

	if got.J1 != 0 || got.J2 != 0 {
		t.Errorf("Clamp: got %+v, want both axes at 0", got)
	}
	if len(warnings) != 2 {
		t.Fatalf("expected 2 warnings, got %d", len(warnings))
	}
	if warnings[0].Axis != Joint1 || warnings[1].Axis != Joint2 {
		t.Errorf("warnings out of axis order: %+v", warnings)
	}
}

func TestClamp_WithinLimitsUnchanged(t *testing.T) {
	tests := []JointPose{
		{J1: 0, J2: 0},
		{J1: 3.14, J2: 1.5},
		{J1: 1.57, J2: 0.75},
	}

	for _, pose := range tests {
		got, warnings := Clamp(pose, testLimits)
		if got != pose {
			t.Errorf("Clamp(%+v) = %+v, want unchanged", pose, got)
		}
		if len(warnings) != 0 {
			t.Errorf("Clamp(%+v) emitted warnings: %+v", pose, warnings)
		}
	}
}

func TestClamp_MissingAxisPassesThrough(t *testing.T) {
	limits := JointLimits{Joint1: {Min: 0, Max: 1}}

	got, warnings := Clamp(JointPose{J1: 2, J2: 99}, limits)

	if got.J1 != 1 {
		t.Errorf("J1: got %v, want 1", got.J1)
	}
	if got.J2 != 99 {
		t.Errorf("J2: got %v, want 99 (no range configured)", got.J2)
	}
	if len(warnings) != 1 {
		t.Errorf("expected 1 warning, got %d", len(warnings))
	}
}

func TestClamp_Properties(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 1000; i++ {
		min1 := rng.Float64()*4 - 2
		min2 := rng.Float64()*4 - 2
		limits := JointLimits{
			Joint1: {Min: min1, Max: min1 + rng.Float64()*3},
			Joint2: {Min: min2, Max: min2 + rng.Float64()*3},
		}
		pose := JointPose{J1: rng.Float64()*10 - 5, J2: rng.Float64()*10 - 5}

		once, _ := Clamp(pose, limits)
		for _, axis := range AllAxes() {
			if !limits[axis].Contains(once.At(axis)) {
				t.Fatalf("clamped %s=%v outside %+v", axis, once.At(axis), limits[axis])
			}
		}

		twice, warnings := Clamp(once, limits)
		if twice != once {
			t.Fatalf("Clamp not idempotent: %+v -> %+v", once, twice)
		}
		if len(warnings) != 0 {
			t.Fatalf("re-clamping emitted warnings: %+v", warnings)
		}
	}
}

func TestClamp_DegenerateRange(t *testing.T) {
	limits := JointLimits{
		Joint1: {Min: 1, Max: 1},
		Joint2: {Min: 0, Max: 2},
	}

	got, _ := Clamp(JointPose{J1: 0.5, J2: 1}, limits)
	if got.J1 != 1 {
		t.Errorf("J1: got %v, want 1", got.J1)
	}
}

func TestJointLimits_Validate(t *testing.T) {
	tests := []struct {
		name    string
		limits  JointLimits
		wantErr error
	}{
		{"valid", testLimits, nil},
		{"missing joint 2", JointLimits{Joint1: {Min: 0, Max: 1}}, ErrLimitsMissing},
		{"inverted", JointLimits{Joint1: {Min: 2, Max: 1}, Joint2: {Min: 0, Max: 1}}, ErrLimitsInverted},
		{"nan range", JointLimits{Joint1: {Min: math.NaN(), Max: math.NaN()}, Joint2: {Min: 0, Max: 1}}, ErrLimitsNonFinite},
		{"nan max", JointLimits{Joint1: {Min: 0, Max: 1}, Joint2: {Min: 0, Max: math.NaN()}}, ErrLimitsNonFinite},
		{"infinite min", JointLimits{Joint1: {Min: math.Inf(-1), Max: 1}, Joint2: {Min: 0, Max: 1}}, ErrLimitsNonFinite},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.limits.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			if !IsConfigurationError(err) {
				t.Fatalf("Validate() = %v, want ConfigurationError", err)
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want wrapping %v", err, tt.wantErr)
			}
		})
	}
}

func TestJointPose_Validate(t *testing.T) {
	if err := (JointPose{J1: 1, J2: -1}).Validate(); err != nil {
		t.Fatalf("Validate() = %v, want nil", err)
	}
	for _, p := range []JointPose{{J1: math.NaN()}, {J2: math.Inf(1)}} {
		if err := p.Validate(); !errors.Is(err, ErrPoseNonFinite) {
			t.Errorf("Validate(%v) = %v, want %v", p, err, ErrPoseNonFinite)
		}
	}
}

func TestJointPose_AtWith(t *testing.T) {
	p := JointPose{}.With(Joint1, 0.5).With(Joint2, -0.25)

	if p.At(Joint1) != 0.5 || p.At(Joint2) != -0.25 {
		t.Errorf("At/With mismatch: %+v", p)
	}
	if p.At(Axis("joint_9")) != 0 {
		t.Error("unknown axis should read as 0")
	}
	if p.With(Axis("joint_9"), 7) != p {
		t.Error("With on unknown axis should not change the pose")
	}
}
