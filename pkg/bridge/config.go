// Package bridge is a websocket client for the robot-side topic bridge.
//
// This package handles:
//   - Connection management with automatic reconnection
//   - Topic subscription with resubscribe after reconnect
//   - Joint command publishing
//   - Joint state and camera image event sources
package bridge

import (
	"fmt"
	"net/url"
	"time"
)

// Config holds bridge client configuration.
type Config struct {
	// URL is the bridge websocket endpoint.
	// Examples: "ws://localhost:9090", "ws://192.168.1.20:9090/bridge"
	URL string `yaml:"url" json:"url"`

	// Namespace is the topic namespace for the arm.
	// Default: "/simple_arm"
	Namespace string `yaml:"namespace" json:"namespace"`

	// ReconnectInterval is how often to attempt reconnection on failure.
	ReconnectInterval time.Duration `yaml:"reconnect_interval" json:"reconnect_interval"`

	// MaxReconnectAttempts is the maximum number of reconnection attempts.
	// 0 means unlimited.
	MaxReconnectAttempts int `yaml:"max_reconnect_attempts" json:"max_reconnect_attempts"`

	// WriteTimeout bounds a single websocket write.
	WriteTimeout time.Duration `yaml:"write_timeout" json:"write_timeout"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		URL:                  "ws://localhost:9090",
		Namespace:            DefaultNamespace,
		ReconnectInterval:    2 * time.Second,
		MaxReconnectAttempts: 0, // Unlimited
		WriteTimeout:         time.Second,
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.URL == "" {
		return fmt.Errorf("url is required")
	}
	u, err := url.Parse(c.URL)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}
	if u.Scheme != "ws" && u.Scheme != "wss" {
		return fmt.Errorf("url scheme must be 'ws' or 'wss', got '%s'", u.Scheme)
	}
	if c.Namespace == "" {
		return fmt.Errorf("namespace is required")
	}
	if c.WriteTimeout <= 0 {
		return fmt.Errorf("write_timeout must be positive")
	}
	return nil
}
