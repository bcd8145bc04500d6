// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"botcrate/internal/issue"
	"botcrate/internal/manifest"

	"github.com/spf13/cobra"
)

// validateCmd checks a recipe without building anything.
var validateCmd = &cobra.Command{
	Use:   "validate [path]",
	Short: "Validate a recipe without building",
	Long: `Parse and validate a recipe without invoking the container engine.

Checks the CUE schema, the base image pinning rules, the install
command's shell syntax, and the dependency manifest's entries.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runValidateCmd,
}

func runValidateCmd(cmd *cobra.Command, args []string) error {
	cf, err := loadRecipe(args)
	if err != nil {
		return &ExitError{Code: 1, Err: err}
	}

	manifestPath := filepath.Join(cf.Dir(), filepath.FromSlash(cf.Manifest))
	m, err := manifest.Load(manifestPath)
	if err != nil {
		rendered, renderErr := issue.Get(issue.ManifestInvalidId).Render("dark")
		if renderErr == nil {
			fmt.Fprint(os.Stderr, rendered)
		}
		fmt.Fprintf(os.Stderr, "%s manifest %s: %s\n", ErrorStyle.Render("✗"), cf.Manifest, formatErrorForDisplay(err, verbose))
		return &ExitError{Code: 1, Err: err}
	}

	fmt.Printf("%s %s is valid\n", SuccessStyle.Render("✓"), recipePath(args))
	fmt.Printf("  %s %s\n", SubtitleStyle.Render("base:"), cf.Base)
	fmt.Printf("  %s %s (%d entries)\n", SubtitleStyle.Render("manifest:"), cf.Manifest, len(m.Entries))
	fmt.Printf("  %s %v\n", SubtitleStyle.Render("entrypoint:"), cf.Entrypoint)

	return nil
}
