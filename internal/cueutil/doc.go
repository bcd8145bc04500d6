// SPDX-License-Identifier: MPL-2.0

// Package cueutil provides shared helpers for parsing CUE files against an
// embedded schema. Both the cratefile recipe and the tool configuration go
// through the same 3-step flow: compile schema, compile user data and unify,
// validate and decode into a Go struct.
package cueutil
