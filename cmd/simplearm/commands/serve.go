package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/teslashibe/go-simplearm/internal/log"
	"github.com/teslashibe/go-simplearm/pkg/app"
)

// serve: run the coordinator until interrupted.
func serveCmd() *cobra.Command {
	cfg := app.DefaultConfig()
	cfg.LoadEnvConfig()

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the coordinator and the move endpoint",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := app.New(cfg, log.With("cmd", "serve"))
			if err != nil {
				return err
			}
			if err := a.Init(ctx); err != nil {
				return err
			}
			defer a.Shutdown()

			return a.Run(ctx)
		},
	}

	f := cmd.Flags()
	f.StringVar(&cfg.ParamsFile, "params", cfg.ParamsFile, "YAML limits file (env ARM_PARAMS_FILE)")
	f.StringVar(&cfg.Node, "node", cfg.Node, "parameter namespace holding the limits (env ARM_NODE)")
	f.StringVar(&cfg.BridgeURL, "bridge", cfg.BridgeURL, "robot bridge websocket URL, empty to disable (env ARM_BRIDGE_URL)")
	f.StringVar(&cfg.HTTPPort, "port", cfg.HTTPPort, "HTTP port for the move endpoint, empty to disable (env ARM_HTTP_PORT)")
	f.StringVar(&cfg.CameraDevice, "camera", cfg.CameraDevice, "local camera device instead of bridge images (env ARM_CAMERA_DEVICE)")
	f.StringVar(&cfg.ServoPort, "servo-port", cfg.ServoPort, "Feetech servo bus port (env ARM_SERVO_PORT)")
	f.StringVar(&cfg.SerialPort, "serial-port", cfg.SerialPort, "serial controller port (env ARM_SERIAL_PORT)")
	f.IntVar(&cfg.SerialBaud, "serial-baud", cfg.SerialBaud, "serial controller baud rate (env ARM_SERIAL_BAUD)")
	f.DurationVar(&cfg.Settle, "settle", cfg.Settle, "wait after each move (env ARM_SETTLE)")
	f.Float64Var(&cfg.Tolerance, "tolerance", cfg.Tolerance, "per-joint motion tolerance in radians (env ARM_TOLERANCE)")
	f.Float64Var(&cfg.CenterPose.J1, "center-j1", cfg.CenterPose.J1, "joint_1 rest angle")
	f.Float64Var(&cfg.CenterPose.J2, "center-j2", cfg.CenterPose.J2, "joint_2 rest angle")
	return cmd
}
