package robot

import "fmt"

// ClampWarning records an axis whose requested value was outside its range.
type ClampWarning struct {
	Axis  Axis    `json:"axis"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Value float64 `json:"clamped"`
}

// String matches the wording operators see in the logs.
func (w ClampWarning) String() string {
	return fmt.Sprintf("%s is out of bounds, valid range (%1.2f,%1.2f), clamping to (%1.2f)",
		w.Axis, w.Min, w.Max, w.Value)
}

// clamp restricts v to the range [min, max].
func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// Clamp restricts each axis of requested to its configured range.
// Axes without a range pass through unchanged.
func Clamp(requested JointPose, limits JointLimits) (JointPose, []ClampWarning) {
	clamped := requested
	var warnings []ClampWarning

	for _, axis := range AllAxes() {
		r, ok := limits[axis]
		if !ok {
			continue
		}
		v := requested.At(axis)
		if r.Contains(v) {
			continue
		}
		c := clamp(v, r.Min, r.Max)
		clamped = clamped.With(axis, c)
		warnings = append(warnings, ClampWarning{Axis: axis, Min: r.Min, Max: r.Max, Value: c})
	}

	return clamped, warnings
}
