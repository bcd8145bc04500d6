// SPDX-License-Identifier: MPL-2.0

// Package cratefile defines the recipe format for packaging a bot process
// into a container image: the cratefile.cue schema, parsing, validation,
// and the canonical Containerfile rendering used by the builder.
package cratefile
