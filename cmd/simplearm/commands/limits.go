package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/teslashibe/go-simplearm/internal/config"
	"github.com/teslashibe/go-simplearm/pkg/params"
	"github.com/teslashibe/go-simplearm/pkg/robot"
)

// limits: print the joint limits from a params file.
func limitsCmd() *cobra.Command {
	var (
		file string
		node string
	)

	cmd := &cobra.Command{
		Use:   "limits",
		Short: "Print the joint limits a move would be clamped to",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			values, err := params.LoadFile(file)
			if err != nil {
				return err
			}
			limits, err := robot.FetchLimits(params.NodeBounds{Params: params.NewStore(values), Node: node})
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "AXIS\tMIN\tMAX")
			for _, axis := range robot.AllAxes() {
				r := limits[axis]
				fmt.Fprintf(tw, "%s\t%.4f\t%.4f\n", axis, r.Min, r.Max)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVar(&file, "params", config.ParamsFile(), "YAML limits file (env ARM_PARAMS_FILE)")
	cmd.Flags().StringVar(&node, "node", config.Node(), "parameter namespace (env ARM_NODE)")
	return cmd
}
