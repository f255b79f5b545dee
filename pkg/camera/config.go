// Package camera captures frames from a local video device and decodes
// compressed images into raw frames for the blank-view detector.
package camera

import "strconv"

// Config holds local capture settings.
type Config struct {
	// Device is a V4L2 index ("0") or a path / GStreamer pipeline.
	Device string `json:"device"`

	Width     int `json:"width"`     // Frame width in pixels
	Height    int `json:"height"`    // Frame height in pixels
	Framerate int `json:"framerate"` // Target FPS
}

// Capture limits
const (
	MaxWidth     = 4096
	MaxHeight    = 2160
	MaxFramerate = 120
)

// DefaultConfig returns a low-resolution configuration. The blank-view check
// reads every byte, so small frames keep it cheap.
func DefaultConfig() Config {
	return Config{
		Device:    "0",
		Width:     640,
		Height:    480,
		Framerate: 10,
	}
}

// Validate checks if the config values are within valid ranges.
// Returns a list of validation errors, or nil if valid.
func (c *Config) Validate() []string {
	var errors []string

	if c.Device == "" {
		errors = append(errors, "device is required")
	}
	if c.Width < 1 || c.Width > MaxWidth {
		errors = append(errors, "width must be between 1 and 4096")
	}
	if c.Height < 1 || c.Height > MaxHeight {
		errors = append(errors, "height must be between 1 and 2160")
	}
	if c.Framerate < 1 || c.Framerate > MaxFramerate {
		errors = append(errors, "framerate must be between 1 and 120")
	}

	return errors
}

// device returns the value gocv expects: an int for numeric indexes,
// the string otherwise.
func (c *Config) device() interface{} {
	if id, err := strconv.Atoi(c.Device); err == nil {
		return id
	}
	return c.Device
}
