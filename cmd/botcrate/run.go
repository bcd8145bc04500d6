// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"os"

	"botcrate/internal/builder"
	"botcrate/internal/container"
	"botcrate/internal/issue"
	"botcrate/internal/launcher"
	"botcrate/pkg/cratefile"

	"github.com/spf13/cobra"
)

var (
	runEnvFiles    []string
	runEnvVars     []string
	runName        string
	runInteractive bool
	runNoBuild     bool

	// runCmd launches one container from the built image
	runCmd = &cobra.Command{
		Use:   "run [path]",
		Short: "Launch the packaged process",
		Long: `Launch exactly one container from the recipe's image, building it
first if it is missing or stale.

The image's entrypoint, working directory and baked-in environment are
used as recorded. Runtime overrides take precedence over the image env:
env files are applied in flag order, then explicit --env-var values on
top. The process's exit code becomes botcrate's exit code.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runRunCmd,
	}
)

func init() {
	runCmd.Flags().StringArrayVar(&runEnvFiles, "env-file", nil, "dotenv file with runtime overrides (suffix '?' to make optional, repeatable)")
	runCmd.Flags().StringArrayVarP(&runEnvVars, "env-var", "e", nil, "KEY=VALUE runtime override (repeatable, beats --env-file)")
	runCmd.Flags().StringVar(&runName, "name", "", "container name (default: engine-assigned)")
	runCmd.Flags().BoolVarP(&runInteractive, "interactive", "i", false, "keep stdin open and allocate a TTY")
	runCmd.Flags().BoolVar(&runNoBuild, "no-build", false, "fail instead of building when the image is stale or missing")
}

func runRunCmd(cmd *cobra.Command, args []string) error {
	cf, err := loadRecipe(args)
	if err != nil {
		return &ExitError{Code: 1, Err: err}
	}

	engine, err := newEngine()
	if err != nil {
		return &ExitError{Code: 1, Err: err}
	}

	tag := cf.Tag
	if tag == "" {
		tag = cratefile.DefaultTag(cf.Path)
	}

	if runNoBuild {
		exists, err := engine.ImageExists(cmd.Context(), tag)
		if err != nil {
			return &ExitError{Code: 1, Err: err}
		}
		if !exists {
			err := fmt.Errorf("image %s not found and --no-build is set; run 'botcrate build' first", tag)
			fmt.Fprintf(os.Stderr, "%s %s\n", ErrorStyle.Render("✗"), err)
			return &ExitError{Code: 1, Err: err}
		}
	} else {
		b := builder.New(engine,
			builder.WithLogger(logger),
			builder.WithStateDirName(stateDirName()))

		result, err := b.Build(cmd.Context(), builder.Request{
			Recipe: cf,
			Stdout: os.Stderr, // keep stdout clean for the process itself
			Stderr: os.Stderr,
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
		tag = result.Tag
	}

	l := launcher.New(engine, launcher.WithLogger(logger))

	code, err := l.Launch(cmd.Context(), launcher.Request{
		Image:       tag,
		EnvFiles:    runEnvFiles,
		EnvVars:     runEnvVars,
		Name:        runName,
		Interactive: runInteractive,
		TTY:         runInteractive,
		Stdin:       os.Stdin,
		Stdout:      os.Stdout,
		Stderr:      os.Stderr,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s %s\n", ErrorStyle.Render("✗"), formatErrorForDisplay(err, verbose))
		return &ExitError{Code: code, Err: err}
	}

	if code != 0 {
		// The process ran and failed: propagate its exit code silently,
		// the process's own stderr already tells the story.
		return &ExitError{Code: code}
	}

	return nil
}
