package robot

import (
	"errors"
	"fmt"
)

// Sentinel errors for common error conditions.
var (
	// ErrLimitsMissing is returned when an axis has no configured range.
	ErrLimitsMissing = errors.New("robot: joint limits not configured")

	// ErrLimitsInverted is returned when a configured range has min > max.
	ErrLimitsInverted = errors.New("robot: joint limits inverted")

	// ErrLimitsNonFinite is returned when a configured bound is NaN or infinite.
	ErrLimitsNonFinite = errors.New("robot: joint limits not finite")

	// ErrPoseNonFinite is returned when a requested angle is NaN or infinite.
	ErrPoseNonFinite = errors.New("robot: requested pose not finite")

	// ErrSettleInterrupted is returned when the settle wait is cancelled
	// after the command was already published.
	ErrSettleInterrupted = errors.New("robot: settle wait interrupted")
)

// ConfigurationError is returned when joint limits cannot be obtained.
// Nothing is published to the actuators when this occurs.
type ConfigurationError struct {
	Axis Axis
	Err  error
}

// Error implements the error interface.
func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("robot: configuration error for %s: %v", e.Axis, e.Err)
}

// Unwrap returns the underlying error.
func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// TransportError is returned when the actuator sink rejects a command.
type TransportError struct {
	Axis Axis
	Err  error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	if e.Axis == "" {
		return fmt.Sprintf("robot: transport error: %v", e.Err)
	}
	return fmt.Sprintf("robot: transport error on %s: %v", e.Axis, e.Err)
}

// Unwrap returns the underlying error.
func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsConfigurationError reports whether err is or wraps a ConfigurationError.
func IsConfigurationError(err error) bool {
	var ce *ConfigurationError
	return errors.As(err, &ce)
}

// IsTransportError reports whether err is or wraps a TransportError.
func IsTransportError(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}
