package camera

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"gocv.io/x/gocv"

	"github.com/teslashibe/go-simplearm/internal/log"
	"github.com/teslashibe/go-simplearm/pkg/events"
	"github.com/teslashibe/go-simplearm/pkg/vision"
)

// Capture reads a local video device and publishes raw frames.
type Capture struct {
	cfg    Config
	logger *slog.Logger
	feed   *events.Feed[vision.Frame]

	frames     atomic.Int64
	readErrors atomic.Int64
}

// NewCapture creates a capture. Call Run to start reading.
func NewCapture(cfg Config, logger *slog.Logger) (*Capture, error) {
	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, fmt.Errorf("invalid camera config: %s", strings.Join(errs, "; "))
	}
	if logger == nil {
		logger = log.L()
	}
	return &Capture{
		cfg:    cfg,
		logger: logger.With("component", "camera", "device", cfg.Device),
		feed:   events.NewFeed[vision.Frame](),
	}, nil
}

// Subscribe implements events.Source.
func (c *Capture) Subscribe(h events.Handler[vision.Frame]) func() {
	return c.feed.Subscribe(h)
}

// Run opens the device and publishes a frame per tick until ctx is done.
func (c *Capture) Run(ctx context.Context) error {
	vc, err := gocv.OpenVideoCapture(c.cfg.device())
	if err != nil {
		return fmt.Errorf("open camera %s: %w", c.cfg.Device, err)
	}
	defer vc.Close()

	vc.Set(gocv.VideoCaptureFrameWidth, float64(c.cfg.Width))
	vc.Set(gocv.VideoCaptureFrameHeight, float64(c.cfg.Height))
	vc.Set(gocv.VideoCaptureFPS, float64(c.cfg.Framerate))

	mat := gocv.NewMat()
	defer mat.Close()

	c.logger.Info("camera capture started",
		"width", c.cfg.Width,
		"height", c.cfg.Height,
		"fps", c.cfg.Framerate,
	)

	ticker := time.NewTicker(time.Second / time.Duration(c.cfg.Framerate))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			c.logger.Info("camera capture stopped", "frames", c.frames.Load())
			return nil
		case <-ticker.C:
		}

		if ok := vc.Read(&mat); !ok || mat.Empty() {
			if n := c.readErrors.Add(1); n == 1 || n%100 == 0 {
				c.logger.Warn("camera read failed", "failures", n)
			}
			continue
		}
		c.frames.Add(1)
		c.feed.Publish(FrameFromMat(mat))
	}
}

// Frames returns the number of frames published so far.
func (c *Capture) Frames() int64 {
	return c.frames.Load()
}
