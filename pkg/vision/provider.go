// Package vision holds camera frame types and the blank-view heuristic.
package vision

import "fmt"

// Frame is a raw camera image. Pixels is addressed row by row with RowStride
// bytes per row; the channel layout is irrelevant to this package.
type Frame struct {
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	RowStride int    `json:"step"`
	Encoding  string `json:"encoding,omitempty"`
	Pixels    []byte `json:"data"`
}

// Size returns the addressable length Height*RowStride.
func (f Frame) Size() int {
	return f.Height * f.RowStride
}

// Validate checks that the buffer covers the addressable region.
func (f Frame) Validate() error {
	if f.Width < 0 || f.Height < 0 || f.RowStride < 0 {
		return &FrameError{Frame: f, Reason: "negative dimensions"}
	}
	if f.Size() == 0 {
		return &FrameError{Frame: f, Reason: "empty frame"}
	}
	if len(f.Pixels) < f.Size() {
		return &FrameError{Frame: f, Reason: fmt.Sprintf("buffer has %d bytes, need %d", len(f.Pixels), f.Size())}
	}
	return nil
}

// FrameError is returned for frames that cannot be scanned. The frame is
// dropped and the previous view state is retained.
type FrameError struct {
	Frame  Frame
	Reason string
}

// Error implements the error interface.
func (e *FrameError) Error() string {
	return fmt.Sprintf("vision: invalid %dx%d frame (step %d): %s",
		e.Frame.Width, e.Frame.Height, e.Frame.RowStride, e.Reason)
}
