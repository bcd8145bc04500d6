// SPDX-License-Identifier: MPL-2.0

// Package types defines cross-cutting value types shared by the builder and
// launcher packages. It is a leaf dependency: it imports only the standard
// library and never imports domain packages.
package types
