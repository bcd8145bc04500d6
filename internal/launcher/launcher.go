// SPDX-License-Identifier: MPL-2.0

package launcher

import (
	"context"
	"io"

	"github.com/charmbracelet/log"

	"botcrate/internal/container"
	"botcrate/internal/issue"
	"botcrate/pkg/types"
)

type (
	// Option configures a Launcher.
	Option func(*Launcher)

	// Launcher starts one container from a built image. It runs no
	// supervision: the container exits once, and its exit code is the
	// launch result.
	Launcher struct {
		engine container.Engine
		logger *log.Logger
	}

	// Request describes one launch.
	Request struct {
		// Image is the tag of the built image.
		Image string
		// EnvFiles are dotenv file specs applied in order; a trailing
		// "?" marks a file optional.
		EnvFiles []string
		// EnvVars are explicit KEY=VALUE overrides. They take precedence
		// over EnvFiles, which take precedence over the image env.
		EnvVars []string
		// Name is the container name; empty lets the engine pick one.
		Name string
		// Interactive keeps stdin open.
		Interactive bool
		// TTY allocates a pseudo-TTY.
		TTY bool
		// Stdin is the standard input.
		Stdin io.Reader
		// Stdout is where to write standard output.
		Stdout io.Writer
		// Stderr is where to write standard error.
		Stderr io.Writer
	}
)

// WithLogger sets the diagnostics logger.
func WithLogger(logger *log.Logger) Option {
	return func(l *Launcher) {
		l.logger = logger
	}
}

// New creates a Launcher on top of the given container engine.
func New(engine container.Engine, opts ...Option) *Launcher {
	l := &Launcher{
		engine: engine,
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Launch starts the container and waits for it to exit, returning the
// wrapped process's exit code. The container is always removed after
// exit; the image's entrypoint, workdir and env are used as recorded,
// with runtime overrides layered on top. An error return means the
// process never ran; a non-zero exit code means it ran and failed.
func (l *Launcher) Launch(ctx context.Context, req Request) (types.ExitCode, error) {
	overrides, err := MergeOverrides(req.EnvFiles, req.EnvVars)
	if err != nil {
		return 1, issue.NewErrorContext().
			WithOperation("resolve runtime environment").
			WithSuggestion("Use KEY=VALUE for --env-var overrides").
			WithSuggestion("Check env file paths; suffix optional files with '?'").
			Wrap(err).
			BuildError()
	}

	l.logger.Info("launching container", "engine", l.engine.Name(), "image", req.Image,
		"env_overrides", len(overrides))

	result, err := l.engine.Run(ctx, container.RunOptions{
		Image:       req.Image,
		Env:         overrides,
		Name:        req.Name,
		Remove:      true,
		Interactive: req.Interactive,
		TTY:         req.TTY,
		Stdin:       req.Stdin,
		Stdout:      req.Stdout,
		Stderr:      req.Stderr,
	})
	if err != nil {
		return 1, err
	}
	if result.Error != nil {
		return result.ExitCode, issue.NewErrorContext().
			WithOperation("launch container").
			WithResource(req.Image).
			WithSuggestion("Verify the image exists (run 'botcrate build' first)").
			WithSuggestion("Check that the container engine daemon is running").
			Wrap(result.Error).
			BuildError()
	}

	l.logger.Info("container exited", "image", req.Image, "exit_code", int(result.ExitCode))

	return result.ExitCode, nil
}

// MergeOverrides resolves the runtime env overrides: env files in flag
// order first, then explicit KEY=VALUE vars on top. The image env itself
// is not touched here; the engine layers these overrides over it.
func MergeOverrides(envFiles, envVars []string) (map[string]string, error) {
	merged, err := LoadEnvFiles(envFiles)
	if err != nil {
		return nil, err
	}

	for _, spec := range envVars {
		key, value, err := ParseEnvVar(spec)
		if err != nil {
			return nil, err
		}
		merged[key] = value
	}

	return merged, nil
}
