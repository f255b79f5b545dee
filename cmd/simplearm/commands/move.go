package commands

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/teslashibe/go-simplearm/internal/config"
	"github.com/teslashibe/go-simplearm/internal/httpc"
	"github.com/teslashibe/go-simplearm/pkg/robot"
	"github.com/teslashibe/go-simplearm/pkg/web"
)

// move <j1> <j2>: request a clamped move from a running server.
func moveCmd() *cobra.Command {
	var (
		serverURL string
		timeout   time.Duration
	)

	cmd := &cobra.Command{
		Use:   "move <joint_1> <joint_2>",
		Short: "Request a clamped move and print the feedback",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			j1, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("joint_1: %w", err)
			}
			j2, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("joint_2: %w", err)
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			fb, err := web.NewClient(serverURL, httpc.NewClient(timeout)).Move(ctx, robot.JointPose{J1: j1, J2: j2})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, w := range fb.Warnings {
				fmt.Fprintln(out, "warning:", w.String())
			}
			fmt.Fprintln(out, fb.Message)
			return nil
		},
	}

	cmd.Flags().StringVar(&serverURL, "url", config.ServerURL(), "server base URL (env ARM_URL)")
	cmd.Flags().DurationVar(&timeout, "timeout", robot.DefaultSettle+10*time.Second, "request timeout")
	return cmd
}
