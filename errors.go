package fractal

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownAlgorithm is returned when a registry lookup misses.
	ErrUnknownAlgorithm = errors.New("unknown algorithm")

	// ErrInvalidConfig is wrapped by every *ConfigError.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrDuplicateAlgorithm is returned when an id is registered twice.
	ErrDuplicateAlgorithm = errors.New("algorithm already registered")

	// ErrUnknownRegion is returned for region names not in Regions.
	ErrUnknownRegion = errors.New("unknown region")
)

// ConfigError reports a configuration rejected by an algorithm's Validate.
type ConfigError struct {
	AlgorithmID string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid configuration for algorithm %q", e.AlgorithmID)
}

func (e *ConfigError) Unwrap() error {
	return ErrInvalidConfig
}
