// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"os"

	"botcrate/internal/builder"
	"botcrate/internal/container"
	"botcrate/internal/issue"

	"github.com/spf13/cobra"
)

var (
	buildForce   bool
	buildNoCache bool
	buildPull    bool

	// buildCmd builds the image for a recipe
	buildCmd = &cobra.Command{
		Use:   "build [path]",
		Short: "Build the container image for a recipe",
		Long: `Build the container image described by a recipe.

The build is skipped when the dependency manifest, the source tree, and
the image tag are unchanged since the last successful build and the image
still exists locally. Use --force to rebuild regardless.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runBuildCmd,
	}
)

func init() {
	buildCmd.Flags().BoolVarP(&buildForce, "force", "f", false, "rebuild even when inputs are unchanged")
	buildCmd.Flags().BoolVar(&buildNoCache, "no-cache", false, "disable the engine's layer cache")
	buildCmd.Flags().BoolVar(&buildPull, "pull", false, "always attempt to pull a newer base image")
}

func runBuildCmd(cmd *cobra.Command, args []string) error {
	cf, err := loadRecipe(args)
	if err != nil {
		return &ExitError{Code: 1, Err: err}
	}

	engine, err := newEngine()
	if err != nil {
		return &ExitError{Code: 1, Err: err}
	}

	b := builder.New(engine,
		builder.WithLogger(logger),
		builder.WithStateDirName(stateDirName()))

	result, err := b.Build(cmd.Context(), builder.Request{
		Recipe:  cf,
		Force:   buildForce,
		NoCache: buildNoCache,
		Pull:    buildPull,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
	})
	if err != nil {
		if errors.Is(err, container.ErrImageBuildFailed) {
			rendered, renderErr := issue.Get(issue.ImageBuildFailedId).Render("dark")
			if renderErr == nil {
				fmt.Fprint(os.Stderr, rendered)
			}
		}
		fmt.Fprintf(os.Stderr, "%s %s\n", ErrorStyle.Render("✗"), formatErrorForDisplay(err, verbose))
		return &ExitError{Code: 1, Err: err}
	}

	if result.Skipped {
		fmt.Printf("%s %s is up to date\n", SuccessStyle.Render("✓"), CmdStyle.Render(result.Tag))
	} else {
		fmt.Printf("%s Built %s\n", SuccessStyle.Render("✓"), CmdStyle.Render(result.Tag))
	}

	return nil
}

// stateDirName returns the configured state directory name.
func stateDirName() string {
	if cfg != nil && cfg.StateDir != "" {
		return cfg.StateDir
	}
	return builder.DefaultStateDirName
}
