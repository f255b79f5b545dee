package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/teslashibe/go-simplearm/internal/log"
	"github.com/teslashibe/go-simplearm/pkg/actuator"
	"github.com/teslashibe/go-simplearm/pkg/bridge"
	"github.com/teslashibe/go-simplearm/pkg/camera"
	"github.com/teslashibe/go-simplearm/pkg/centering"
	"github.com/teslashibe/go-simplearm/pkg/events"
	"github.com/teslashibe/go-simplearm/pkg/motion"
	"github.com/teslashibe/go-simplearm/pkg/params"
	"github.com/teslashibe/go-simplearm/pkg/robot"
	"github.com/teslashibe/go-simplearm/pkg/vision"
	"github.com/teslashibe/go-simplearm/pkg/web"
)

// App is the arm coordinator.
type App struct {
	cfg    Config
	logger *slog.Logger

	// Limits
	params *params.FileStore
	limits params.NodeLimits

	// Actuation
	bridge  *bridge.Client
	servo   *actuator.ServoSink
	serial  *actuator.SerialSink
	gateway *robot.Gateway

	// Perception
	tracker  *motion.Tracker
	detector *vision.BlankDetector
	capture  *camera.Capture
	samples  events.Source[[]float64]
	frames   events.Source[vision.Frame]

	monitor *centering.Monitor
	web     *web.Server

	unsubMu sync.Mutex
	unsubs  []func()
}

// New creates a coordinator with the given configuration.
func New(cfg Config, logger *slog.Logger) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.L()
	}
	return &App{cfg: cfg, logger: logger}, nil
}

// Init opens the limits file and every configured device.
// Call this after New() and before Run().
func (a *App) Init(ctx context.Context) error {
	fs, err := params.OpenFile(a.cfg.ParamsFile, a.logger)
	if err != nil {
		return fmt.Errorf("params: %w", err)
	}
	a.params = fs
	bounds := params.NodeBounds{Params: fs, Node: a.cfg.Node}
	a.limits = params.NodeLimits{NodeBounds: bounds, Store: fs.Store}

	if _, err := robot.FetchLimits(bounds); err != nil {
		// Moves fail with a configuration error until the file is fixed.
		a.logger.Warn("joint limits incomplete", "file", a.cfg.ParamsFile, "node", a.cfg.Node, "error", err)
	}

	sink, err := a.initSinks(ctx)
	if err != nil {
		a.Shutdown()
		return err
	}

	if a.cfg.CameraDevice != "" {
		camCfg := camera.DefaultConfig()
		camCfg.Device = a.cfg.CameraDevice
		a.capture, err = camera.NewCapture(camCfg, a.logger)
		if err != nil {
			a.Shutdown()
			return err
		}
		a.frames = a.capture
	}

	if a.bridge != nil {
		topics := a.bridge.Topics()
		a.samples = bridge.JointSamples(a.bridge, topics.JointStates(), a.logger)
		if a.frames == nil {
			a.frames = bridge.Frames(a.bridge, topics.ImageRaw(), camera.DecodeImage, a.logger)
		}
	}
	if a.samples == nil {
		a.logger.Warn("no joint state source, arm is assumed stationary")
	}
	if a.frames == nil {
		a.logger.Warn("no frame source, view is assumed non-blank")
	}

	a.wire(bounds, sink)

	if a.cfg.HTTPPort != "" {
		a.web = web.NewServer(a.cfg.HTTPPort, web.Deps{
			Mover:  a.gateway,
			Limits: a.limits,
			Status: a.Status,
		}, a.logger)
	}

	a.logger.Info("coordinator initialized",
		"params", a.cfg.ParamsFile,
		"node", a.cfg.Node,
		"bridge", a.cfg.BridgeURL,
		"camera", a.cfg.CameraDevice,
		"servo", a.cfg.ServoPort,
		"serial", a.cfg.SerialPort,
		"settle", a.cfg.Settle,
	)
	return nil
}

func (a *App) initSinks(ctx context.Context) (robot.ActuatorSink, error) {
	var sinks actuator.Multi

	if a.cfg.BridgeURL != "" {
		bcfg := bridge.DefaultConfig()
		bcfg.URL = a.cfg.BridgeURL
		client, err := bridge.New(bcfg, a.logger)
		if err != nil {
			return nil, fmt.Errorf("bridge: %w", err)
		}
		a.bridge = client
		sinks = append(sinks, bridge.NewCommandSink(client, client.Topics()))
	}

	if a.cfg.ServoPort != "" {
		servo, err := actuator.OpenServoSink(ctx, actuator.DefaultServoConfig(a.cfg.ServoPort))
		if err != nil {
			return nil, fmt.Errorf("servo: %w", err)
		}
		a.servo = servo
		sinks = append(sinks, servo)
	}

	if a.cfg.SerialPort != "" {
		serial, err := actuator.OpenSerialSink(a.cfg.SerialPort, a.cfg.SerialBaud)
		if err != nil {
			return nil, fmt.Errorf("serial: %w", err)
		}
		a.serial = serial
		sinks = append(sinks, serial)
	}

	if len(sinks) == 1 {
		return sinks[0], nil
	}
	return sinks, nil
}

// wire builds the gateway, trackers and centering monitor on top of the
// limits and sink.
func (a *App) wire(bounds robot.BoundsProvider, sink robot.ActuatorSink) {
	a.gateway = robot.NewGateway(bounds, sink, robot.GatewayConfig{Settle: a.cfg.Settle}, a.logger)

	mcfg := motion.DefaultConfig()
	mcfg.Tolerance = a.cfg.Tolerance
	a.tracker = motion.NewTracker(mcfg)
	a.detector = vision.NewBlankDetector()

	ccfg := centering.DefaultConfig()
	ccfg.CenterPose = a.cfg.CenterPose
	ccfg.MoveTimeout = a.cfg.Settle + 2*time.Second
	a.monitor = centering.New(a.tracker, a.detector, a.gateway, ccfg, a.logger)
	a.monitor.OnResult = func(robot.Feedback, error) { a.publishStatus() }
}

// Run attaches the sources and runs every background component.
// Blocks until ctx is cancelled or a component fails.
func (a *App) Run(ctx context.Context) error {
	a.attach()

	g, ctx := errgroup.WithContext(ctx)

	if a.bridge != nil {
		g.Go(func() error { return a.bridge.Run(ctx) })
	}
	if a.capture != nil {
		g.Go(func() error { return a.capture.Run(ctx) })
	}
	if a.web != nil {
		g.Go(func() error { return a.web.Run(ctx) })
	}
	g.Go(func() error {
		a.statusLoop(ctx)
		return nil
	})

	a.logger.Info("coordinator running")
	err := g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// attach subscribes the trackers to the sample and frame sources.
func (a *App) attach() {
	a.unsubMu.Lock()
	defer a.unsubMu.Unlock()

	if a.samples != nil {
		a.unsubs = append(a.unsubs, a.samples.Subscribe(a.onSample))
	}
	if a.frames != nil {
		a.unsubs = append(a.unsubs, a.frames.Subscribe(a.onFrame))
	}
}

func (a *App) onSample(sample []float64) {
	if _, err := a.tracker.OnSample(sample); err != nil {
		a.logger.Warn("dropping joint sample", "error", err)
		return
	}
	a.evaluate()
}

func (a *App) onFrame(f vision.Frame) {
	if _, err := a.detector.OnFrame(f); err != nil {
		a.logger.Warn("dropping frame", "error", err)
		return
	}
	a.evaluate()
}

func (a *App) evaluate() {
	if a.monitor.Evaluate() {
		a.publishStatus()
	}
}

func (a *App) statusLoop(ctx context.Context) {
	if a.web == nil || a.cfg.StatusInterval <= 0 {
		<-ctx.Done()
		return
	}
	ticker := time.NewTicker(a.cfg.StatusInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			a.publishStatus()
		}
	}
}

func (a *App) publishStatus() {
	if a.web != nil {
		a.web.PublishStatus(a.Status())
	}
}

// Status returns the current coordinator state.
func (a *App) Status() web.Status {
	st := web.Status{
		Time:      time.Now(),
		Centering: a.monitor.Snapshot(),
		Motion:    a.tracker.State(),
		View:      a.detector.State(),
	}
	if a.bridge != nil {
		stats := a.bridge.Stats()
		st.Bridge = &stats
	}
	if limits, err := a.gateway.Limits(); err == nil {
		st.Limits = limits
	}
	return st
}

// Gateway returns the move gateway.
func (a *App) Gateway() *robot.Gateway {
	return a.gateway
}

// Shutdown gracefully shuts down all components.
func (a *App) Shutdown() {
	a.unsubMu.Lock()
	for _, unsub := range a.unsubs {
		unsub()
	}
	a.unsubs = nil
	a.unsubMu.Unlock()

	if a.monitor != nil {
		a.monitor.Close()
	}
	if a.bridge != nil {
		if err := a.bridge.Close(); err != nil {
			a.logger.Warn("bridge close", "error", err)
		}
	}
	if a.servo != nil {
		if err := a.servo.Close(); err != nil {
			a.logger.Warn("servo close", "error", err)
		}
	}
	if a.serial != nil {
		if err := a.serial.Close(); err != nil {
			a.logger.Warn("serial close", "error", err)
		}
	}
	a.logger.Info("coordinator stopped")
}
