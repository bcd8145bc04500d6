// SPDX-License-Identifier: MPL-2.0

package cratefile

import "path/filepath"

const (
	// DefaultFileName is the recipe filename looked up in the working directory.
	DefaultFileName = "cratefile.cue"

	// ContainerfileName is the name of the rendered build file.
	ContainerfileName = "Containerfile"
)

type (
	// Cratefile is a parsed recipe: everything needed to build the image
	// and to launch the packaged process.
	Cratefile struct {
		// Base is the base image reference, e.g. "python:3.11-slim".
		Base string `json:"base"`

		// Workdir is the absolute working directory inside the image.
		Workdir string `json:"workdir"`

		// Env is the environment baked into the image. Values are opaque.
		Env map[string]string `json:"env,omitempty"`

		// Manifest is the dependency manifest path, relative to the context.
		Manifest string `json:"manifest"`

		// Install is the shell command that installs from the manifest.
		Install string `json:"install"`

		// Source is the directory copied into the image after install.
		Source string `json:"source"`

		// Entrypoint is the exact argv vector started at run time.
		Entrypoint []string `json:"entrypoint"`

		// Tag is the output image tag. Empty means derive a default.
		Tag string `json:"tag,omitempty"`

		// Path is the absolute path of the recipe file this was loaded
		// from. Set by Load; empty for recipes parsed from memory.
		Path string `json:"-"`
	}
)

// Dir returns the build context directory: the directory holding the
// recipe file, or "." for recipes parsed from memory.
func (c *Cratefile) Dir() string {
	if c.Path == "" {
		return "."
	}
	return filepath.Dir(c.Path)
}
