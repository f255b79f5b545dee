// Package app wires the arm coordinator together: limits, move gateway,
// actuator sinks, motion and view tracking, the centering monitor and the
// HTTP surface.
package app

import (
	"os"
	"strconv"
	"time"

	"github.com/teslashibe/go-simplearm/internal/config"
	"github.com/teslashibe/go-simplearm/pkg/motion"
	"github.com/teslashibe/go-simplearm/pkg/robot"
)

// Config holds all configuration for the coordinator.
// Flag parsing is done in cmd/simplearm; this struct is data only.
type Config struct {
	// ParamsFile is the YAML limits file, reloaded when it changes.
	ParamsFile string
	// Node is the parameter namespace holding the limits.
	Node string

	// BridgeURL is the robot bridge websocket. Empty disables the bridge.
	BridgeURL string
	// HTTPPort serves the move endpoint. Empty disables it.
	HTTPPort string

	// CameraDevice captures frames locally instead of from the bridge.
	CameraDevice string

	// ServoPort drives Feetech servos directly. Empty disables.
	ServoPort string
	// SerialPort writes commands to a microcontroller. Empty disables.
	SerialPort string
	SerialBaud int

	Settle     time.Duration
	Tolerance  float64
	CenterPose robot.JointPose

	// StatusInterval is how often status is pushed to websocket clients.
	StatusInterval time.Duration

	LogLevel string
}

// DefaultConfig returns sensible defaults for the coordinator.
func DefaultConfig() Config {
	return Config{
		ParamsFile:     config.DefaultParamsFile,
		Node:           config.DefaultNode,
		BridgeURL:      config.DefaultBridgeURL,
		HTTPPort:       config.DefaultHTTPPort,
		SerialBaud:     115200,
		Settle:         robot.DefaultSettle,
		Tolerance:      motion.DefaultTolerance,
		CenterPose:     robot.JointPose{J1: 1.57, J2: 1.57},
		StatusInterval: time.Second,
		LogLevel:       "info",
	}
}

// LoadEnvConfig applies ARM_* environment overrides.
// Call this before binding flags so that flags win over the environment.
func (c *Config) LoadEnvConfig() {
	c.ParamsFile = config.Env("ARM_PARAMS_FILE", c.ParamsFile)
	c.Node = config.Env("ARM_NODE", c.Node)
	c.BridgeURL = config.Env("ARM_BRIDGE_URL", c.BridgeURL)
	c.HTTPPort = config.Env("ARM_HTTP_PORT", c.HTTPPort)
	c.CameraDevice = config.Env("ARM_CAMERA_DEVICE", c.CameraDevice)
	c.ServoPort = config.Env("ARM_SERVO_PORT", c.ServoPort)
	c.SerialPort = config.Env("ARM_SERIAL_PORT", c.SerialPort)
	c.Settle = config.EnvDuration("ARM_SETTLE", c.Settle)
	c.Tolerance = config.EnvFloat("ARM_TOLERANCE", c.Tolerance)
	c.LogLevel = config.Env("ARM_LOG_LEVEL", c.LogLevel)

	if v := os.Getenv("ARM_SERIAL_BAUD"); v != "" {
		if baud, err := strconv.Atoi(v); err == nil {
			c.SerialBaud = baud
		}
	}
}

// Validate checks that required configuration is present.
func (c *Config) Validate() error {
	if c.ParamsFile == "" {
		return &ConfigError{Field: "ParamsFile", Message: "a params file is required"}
	}
	if c.Node == "" {
		return &ConfigError{Field: "Node", Message: "a parameter node is required"}
	}
	if c.BridgeURL == "" && c.ServoPort == "" && c.SerialPort == "" {
		return &ConfigError{Field: "BridgeURL", Message: "at least one of bridge URL, servo port or serial port is required"}
	}
	if c.Settle < 0 {
		return &ConfigError{Field: "Settle", Message: "settle must not be negative"}
	}
	if c.Tolerance <= 0 {
		return &ConfigError{Field: "Tolerance", Message: "tolerance must be positive"}
	}
	if c.SerialPort != "" && c.SerialBaud <= 0 {
		return &ConfigError{Field: "SerialBaud", Message: "serial baud must be positive"}
	}
	return nil
}

// ConfigError represents a configuration validation error.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Message
}
