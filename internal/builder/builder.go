// SPDX-License-Identifier: MPL-2.0

package builder

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"botcrate/internal/container"
	"botcrate/internal/issue"
	"botcrate/internal/manifest"
	"botcrate/pkg/cratefile"
)

// DefaultStateDirName is the per-recipe state directory, relative to the
// build context.
const DefaultStateDirName = ".botcrate"

type (
	// Option configures a Builder.
	Option func(*Builder)

	// Builder drives the image build for a recipe: manifest validation,
	// digest bookkeeping, Containerfile rendering, and the engine call.
	Builder struct {
		engine       container.Engine
		logger       *log.Logger
		stateDirName string
	}

	// Request describes one build invocation.
	Request struct {
		// Recipe is the validated recipe to build.
		Recipe *cratefile.Cratefile
		// Force rebuilds even when digests and image are unchanged.
		Force bool
		// NoCache disables the engine's layer cache.
		NoCache bool
		// Pull always attempts to pull a newer base image.
		Pull bool
		// Stdout receives the engine's build output.
		Stdout io.Writer
		// Stderr receives the engine's build errors.
		Stderr io.Writer
	}

	// Result describes the outcome of a build invocation.
	Result struct {
		// Tag is the image tag the build produced (or found up to date).
		Tag string
		// Skipped is true when digests and image were unchanged and the
		// engine was never invoked.
		Skipped bool
		// ManifestDigest is the sha256 of the dependency manifest.
		ManifestDigest string
		// SourceDigest is the sha256 of the source tree.
		SourceDigest string
	}
)

// WithLogger sets the diagnostics logger.
func WithLogger(logger *log.Logger) Option {
	return func(b *Builder) {
		b.logger = logger
	}
}

// WithStateDirName overrides the state directory name.
func WithStateDirName(name string) Option {
	return func(b *Builder) {
		b.stateDirName = name
	}
}

// New creates a Builder on top of the given container engine.
func New(engine container.Engine, opts ...Option) *Builder {
	b := &Builder{
		engine:       engine,
		logger:       log.New(io.Discard),
		stateDirName: DefaultStateDirName,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build executes the build contract for req.Recipe. The manifest is
// parsed and validated before the engine is invoked; digests of the
// manifest and source tree decide whether the build can be skipped.
// State is recorded only after a successful engine build, so a failed
// build leaves no usable tag behind.
func (b *Builder) Build(ctx context.Context, req Request) (*Result, error) {
	cf := req.Recipe
	contextDir := cf.Dir()

	manifestPath := filepath.Join(contextDir, filepath.FromSlash(cf.Manifest))
	if _, err := manifest.Load(manifestPath); err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("validate dependency manifest").
			WithResource(manifestPath).
			WithSuggestion("List one package per line as name or name==version").
			WithSuggestion("Remove duplicate or malformed entries").
			Wrap(err).
			BuildError()
	}

	manifestDigest, err := DigestFile(manifestPath)
	if err != nil {
		return nil, fmt.Errorf("failed to digest manifest: %w", err)
	}

	sourceRoot := filepath.Join(contextDir, filepath.FromSlash(cf.Source))
	sourceDigest, err := DigestTree(sourceRoot, b.stateDirName)
	if err != nil {
		return nil, fmt.Errorf("failed to digest source tree: %w", err)
	}

	tag := cf.Tag
	if tag == "" {
		tag = cratefile.DefaultTag(cf.Path)
	}

	result := &Result{
		Tag:            tag,
		ManifestDigest: manifestDigest,
		SourceDigest:   sourceDigest,
	}

	stateDir := filepath.Join(contextDir, b.stateDirName)

	if !req.Force && !req.NoCache {
		skip, err := b.canSkip(ctx, stateDir, tag, manifestDigest, sourceDigest)
		if err != nil {
			return nil, err
		}
		if skip {
			b.logger.Info("image up to date", "tag", tag)
			result.Skipped = true
			return result, nil
		}
	}

	rendered, err := cf.RenderContainerfile()
	if err != nil {
		return nil, err
	}

	// The rendered build file lives outside the context so it never
	// feeds back into the source digest.
	buildDir, err := os.MkdirTemp("", "botcrate-build-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create build directory: %w", err)
	}
	defer os.RemoveAll(buildDir)

	containerfilePath := filepath.Join(buildDir, cratefile.ContainerfileName)
	if err := os.WriteFile(containerfilePath, []byte(rendered), 0o644); err != nil {
		return nil, fmt.Errorf("failed to write build file: %w", err)
	}

	b.logger.Info("building image", "engine", b.engine.Name(), "tag", tag, "base", cf.Base)
	start := time.Now()

	buildErr := b.engine.Build(ctx, container.BuildOptions{
		ContextDir:    contextDir,
		Containerfile: containerfilePath,
		Tag:           tag,
		NoCache:       req.NoCache,
		Pull:          req.Pull,
		Stdout:        req.Stdout,
		Stderr:        req.Stderr,
	})
	if buildErr != nil {
		// No state is committed on failure: a later build re-runs in full.
		return nil, buildErr
	}

	b.logger.Info("image built", "tag", tag, "took", time.Since(start).Round(time.Millisecond))

	if err := SaveState(stateDir, &State{
		ImageTag:       tag,
		ManifestDigest: manifestDigest,
		SourceDigest:   sourceDigest,
		BuiltAt:        time.Now().UTC(),
	}); err != nil {
		return nil, err
	}

	return result, nil
}

// canSkip reports whether the recorded state matches the current digests
// and the image still exists in the engine's local store.
func (b *Builder) canSkip(ctx context.Context, stateDir, tag, manifestDigest, sourceDigest string) (bool, error) {
	st, err := LoadState(stateDir)
	if err != nil {
		return false, err
	}
	if st == nil {
		return false, nil
	}
	if st.ImageTag != tag || st.ManifestDigest != manifestDigest || st.SourceDigest != sourceDigest {
		return false, nil
	}

	exists, err := b.engine.ImageExists(ctx, tag)
	if err != nil {
		return false, fmt.Errorf("failed to check image: %w", err)
	}
	return exists, nil
}
