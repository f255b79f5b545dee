// Package config provides environment helpers for simplearm commands.
// Every variable is prefixed with ARM_ and overrides a flag default.
package config

import (
	"os"
	"strconv"
	"time"
)

// Default arm configuration.
const (
	DefaultHTTPPort   = "8080"
	DefaultBridgeURL  = "ws://localhost:9090"
	DefaultNode       = "arm_mover"
	DefaultParamsFile = "config/arm.yaml"
)

// Env returns the value of key, or def if unset or empty.
func Env(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// EnvDuration parses key as a time.Duration ("3s", "500ms").
// Falls back to def if unset or invalid.
func EnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

// EnvFloat parses key as a float64. Falls back to def if unset or invalid.
func EnvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

// BridgeURL returns the bridge websocket URL from ARM_BRIDGE_URL.
func BridgeURL() string {
	return Env("ARM_BRIDGE_URL", DefaultBridgeURL)
}

// HTTPPort returns the endpoint port from ARM_HTTP_PORT.
func HTTPPort() string {
	return Env("ARM_HTTP_PORT", DefaultHTTPPort)
}

// ParamsFile returns the limits file from ARM_PARAMS_FILE.
func ParamsFile() string {
	return Env("ARM_PARAMS_FILE", DefaultParamsFile)
}

// Node returns the parameter namespace from ARM_NODE.
func Node() string {
	return Env("ARM_NODE", DefaultNode)
}

// ServerURL returns the base URL of a running endpoint from ARM_URL.
func ServerURL() string {
	return Env("ARM_URL", "http://localhost:"+HTTPPort())
}

// LogLevel returns the log level from ARM_LOG_LEVEL.
func LogLevel() string {
	return Env("ARM_LOG_LEVEL", "info")
}
