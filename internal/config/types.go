// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
)

const (
	// ContainerEnginePodman uses Podman as the container runtime.
	ContainerEnginePodman ContainerEngine = "podman"
	// ContainerEngineDocker uses Docker as the container runtime.
	ContainerEngineDocker ContainerEngine = "docker"
)

// ErrInvalidContainerEngine is returned when a ContainerEngine value is not recognized.
var ErrInvalidContainerEngine = errors.New("invalid container engine")

type (
	// ContainerEngine specifies which container runtime to use.
	ContainerEngine string

	// InvalidContainerEngineError is returned when a ContainerEngine value is not recognized.
	// It wraps ErrInvalidContainerEngine for errors.Is() compatibility.
	InvalidContainerEngineError struct {
		Value ContainerEngine
	}

	// UIConfig holds terminal output preferences.
	UIConfig struct {
		// Verbose enables verbose output by default (equivalent to --verbose).
		Verbose bool `mapstructure:"verbose"`
	}

	// Config is the botcrate tool configuration.
	Config struct {
		// Engine is the preferred container engine (podman or docker).
		// The other engine is used as a fallback when the preferred one
		// is not available.
		Engine ContainerEngine `mapstructure:"engine"`

		// Cratefile is the default recipe filename looked up in the
		// working directory when no path argument is given.
		Cratefile string `mapstructure:"cratefile"`

		// StateDir is the directory (relative to the recipe) where build
		// state is recorded. Defaults to ".botcrate".
		StateDir string `mapstructure:"state_dir"`

		// UI holds terminal output preferences.
		UI UIConfig `mapstructure:"ui"`
	}
)

// Error implements the error interface.
func (e *InvalidContainerEngineError) Error() string {
	return fmt.Sprintf("invalid container engine %q (valid: podman, docker)", e.Value)
}

// Unwrap returns ErrInvalidContainerEngine so callers can use errors.Is for programmatic detection.
func (e *InvalidContainerEngineError) Unwrap() error { return ErrInvalidContainerEngine }

// Validate returns an error if the ContainerEngine is not one of the defined engines.
func (e ContainerEngine) Validate() error {
	switch e {
	case ContainerEnginePodman, ContainerEngineDocker:
		return nil
	default:
		return &InvalidContainerEngineError{Value: e}
	}
}

// String returns the string representation of the ContainerEngine.
func (e ContainerEngine) String() string { return string(e) }

// DefaultConfig returns the configuration used when no config file exists.
func DefaultConfig() *Config {
	return &Config{
		Engine:    ContainerEnginePodman,
		Cratefile: "cratefile.cue",
		StateDir:  ".botcrate",
		UI:        UIConfig{Verbose: false},
	}
}
