// SPDX-License-Identifier: MPL-2.0

package cratefile

import (
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"mvdan.cc/sh/v3/syntax"
)

var (
	// ErrFloatingBaseTag is returned when the base image reference has no
	// tag, or uses "latest".
	ErrFloatingBaseTag = errors.New("base image tag must be pinned")

	// ErrUnpinnedBaseTag is returned when the base tag does not pin at
	// least a major.minor version.
	ErrUnpinnedBaseTag = errors.New("base image tag must pin at least major.minor")

	// ErrNotMinimalVariant is returned when the base image is not a
	// minimal-size variant.
	ErrNotMinimalVariant = errors.New("base image must be a minimal-size variant")

	// ErrRelativeWorkdir is returned when workdir is not an absolute path.
	ErrRelativeWorkdir = errors.New("workdir must be an absolute path")

	// ErrPathEscapesContext is returned when manifest or source resolve
	// outside the build context.
	ErrPathEscapesContext = errors.New("path escapes the build context")

	// ErrEmptyEntrypoint is returned when the entrypoint vector is empty
	// or its first element is blank.
	ErrEmptyEntrypoint = errors.New("entrypoint must name a command")
)

// minimalVariants are the tag (or repository) tokens accepted as
// minimal-size base image variants.
var minimalVariants = []string{"slim", "alpine", "distroless"}

// versionedTagRE matches tags that pin at least major.minor, with an
// optional variant suffix ("3.11-slim", "3.11.9-alpine3.20").
var versionedTagRE = regexp.MustCompile(`^v?\d+\.\d+`)

// imageTagRE matches the output tag format accepted for the built image.
var imageTagRE = regexp.MustCompile(`^[a-z0-9][a-z0-9._/-]*(:[a-zA-Z0-9][a-zA-Z0-9._-]*)?$`)

// Validate checks the recipe invariants that the CUE schema cannot
// express: base image pinning, context-relative paths, install command
// syntax, and the entrypoint vector.
func (c *Cratefile) Validate() error {
	if err := validateBase(c.Base); err != nil {
		return err
	}

	if !path.IsAbs(c.Workdir) {
		return fmt.Errorf("%w: %q", ErrRelativeWorkdir, c.Workdir)
	}

	if err := validateContextPath("manifest", c.Manifest); err != nil {
		return err
	}
	if err := validateContextPath("source", c.Source); err != nil {
		return err
	}

	if err := validateInstall(c.Install); err != nil {
		return err
	}

	if len(c.Entrypoint) == 0 || strings.TrimSpace(c.Entrypoint[0]) == "" {
		return ErrEmptyEntrypoint
	}

	if c.Tag != "" && !imageTagRE.MatchString(c.Tag) {
		return fmt.Errorf("invalid image tag %q", c.Tag)
	}

	return nil
}

// validateBase enforces the base image pinning rules: a tag must be
// present, must not float, must pin at least major.minor, and either the
// tag or the repository must name a minimal-size variant.
func validateBase(base string) error {
	repo, tag := splitImageRef(base)

	if tag == "" {
		return fmt.Errorf("%w: %q has no tag", ErrFloatingBaseTag, base)
	}
	if tag == "latest" {
		return fmt.Errorf("%w: %q floats on latest", ErrFloatingBaseTag, base)
	}
	if !versionedTagRE.MatchString(tag) {
		return fmt.Errorf("%w: got tag %q", ErrUnpinnedBaseTag, tag)
	}

	for _, variant := range minimalVariants {
		if strings.Contains(tag, variant) || strings.Contains(repo, variant) {
			return nil
		}
	}
	return fmt.Errorf("%w (%s): got %q", ErrNotMinimalVariant,
		strings.Join(minimalVariants, ", "), base)
}

// splitImageRef splits an image reference into repository and tag. The
// separator is the last ':' that appears after the last '/', so registry
// ports ("registry:5000/img") are not mistaken for tags.
func splitImageRef(ref string) (repo, tag string) {
	slash := strings.LastIndex(ref, "/")
	colon := strings.LastIndex(ref, ":")
	if colon > slash {
		return ref[:colon], ref[colon+1:]
	}
	return ref, ""
}

// validateContextPath rejects absolute paths and paths that climb out of
// the build context via "..".
func validateContextPath(field, p string) error {
	if p == "" {
		return fmt.Errorf("%s path must not be empty", field)
	}
	if path.IsAbs(p) || filepath.IsAbs(p) {
		return fmt.Errorf("%w: %s %q is absolute", ErrPathEscapesContext, field, p)
	}
	clean := path.Clean(filepath.ToSlash(p))
	if clean == ".." || strings.HasPrefix(clean, "../") {
		return fmt.Errorf("%w: %s %q", ErrPathEscapesContext, field, p)
	}
	return nil
}

// validateInstall checks that the install command is non-empty and is
// syntactically valid POSIX shell.
func validateInstall(install string) error {
	if strings.TrimSpace(install) == "" {
		return errors.New("install command must not be empty")
	}

	parser := syntax.NewParser()
	if _, err := parser.Parse(strings.NewReader(install), "install"); err != nil {
		return fmt.Errorf("install command is not valid shell: %w", err)
	}

	return nil
}
