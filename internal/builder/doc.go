// SPDX-License-Identifier: MPL-2.0

// Package builder turns a validated recipe into a tagged container image.
// It renders the canonical Containerfile, tracks manifest and source
// digests in a state file to skip redundant builds, and drives the
// container engine.
package builder
