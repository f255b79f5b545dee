// Command simplearm runs the two-axis arm coordinator.
//
// Usage:
//
//	simplearm serve --params config/arm.yaml --bridge ws://localhost:9090
//	simplearm move 1.2 0.4
//	simplearm limits --params config/arm.yaml
package main

import (
	"os"

	"github.com/teslashibe/go-simplearm/cmd/simplearm/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
