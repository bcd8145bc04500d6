// SPDX-License-Identifier: MPL-2.0

// Package issue provides user-facing error reporting: ActionableError carries
// operation/resource/suggestion context for CLI display, and the Issue
// catalogue holds rendered markdown help for the known failure classes
// (missing cratefile, invalid manifest, unavailable engine, failed build).
package issue
