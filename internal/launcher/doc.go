// SPDX-License-Identifier: MPL-2.0

// Package launcher starts exactly one container from a built image and
// propagates the wrapped process's exit code. It owns the runtime
// environment merge: image defaults, then env files in flag order, then
// explicit overrides.
package launcher
