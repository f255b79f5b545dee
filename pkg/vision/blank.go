package vision

import "sync"

// IsUniform reports whether every addressable byte of the frame equals the
// first one. The scan stops at the first mismatch.
func IsUniform(f Frame) (bool, error) {
	if err := f.Validate(); err != nil {
		return false, err
	}
	pixels := f.Pixels
	uniform, _ := scanUniform(f.Size(), func(i int) byte { return pixels[i] })
	return uniform, nil
}

// scanUniform compares bytes [0, n) against the byte at index 0 and returns
// how many indices were read besides the reference.
func scanUniform(n int, at func(i int) byte) (bool, int) {
	ref := at(0)
	for i := 0; i < n; i++ {
		if at(i) != ref {
			return false, i + 1
		}
	}
	return true, n
}

// ViewState is a snapshot of the blank detector.
type ViewState struct {
	Uniform bool   `json:"uniform"`
	Frames  uint64 `json:"frames"`
	Dropped uint64 `json:"dropped"`
}

// BlankDetector keeps the uniform flag for the latest valid frame.
// It is safe for concurrent use.
type BlankDetector struct {
	mu      sync.RWMutex
	uniform bool
	frames  uint64
	dropped uint64
}

// NewBlankDetector creates a detector that starts with a non-uniform view.
func NewBlankDetector() *BlankDetector {
	return &BlankDetector{}
}

// OnFrame scans f and records the result. Invalid frames leave the previous
// state untouched and return it alongside the error.
func (d *BlankDetector) OnFrame(f Frame) (bool, error) {
	uniform, err := IsUniform(f)

	d.mu.Lock()
	defer d.mu.Unlock()
	if err != nil {
		d.dropped++
		return d.uniform, err
	}
	d.frames++
	d.uniform = uniform
	return uniform, nil
}

// Uniform returns the flag for the latest valid frame.
func (d *BlankDetector) Uniform() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.uniform
}

// State returns a copy of the detector state.
func (d *BlankDetector) State() ViewState {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return ViewState{Uniform: d.uniform, Frames: d.frames, Dropped: d.dropped}
}
