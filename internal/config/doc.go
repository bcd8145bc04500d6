// SPDX-License-Identifier: MPL-2.0

// Package config loads the botcrate tool configuration: a CUE file validated
// against an embedded schema and merged into Viper on top of defaults.
// It is tool configuration only; the image recipe lives in pkg/cratefile.
package config
