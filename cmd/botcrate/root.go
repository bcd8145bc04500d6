// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"botcrate/internal/config"
	"botcrate/internal/container"
	"botcrate/internal/issue"
	"botcrate/pkg/cratefile"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"

	// verbose enables verbose output
	verbose bool
	// cfgFile allows specifying a custom config file
	cfgFile string

	// cfg is the loaded configuration, populated by initRootConfig
	cfg *config.Config

	// logger emits build/run diagnostics to stderr
	logger = log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: false})

	// rootCmd represents the base command when called without any subcommands
	rootCmd = &cobra.Command{
		Use:   "botcrate",
		Short: "Package a bot process into a reproducible container image",
		Long: TitleStyle.Render("botcrate") + SubtitleStyle.Render(" - reproducible container packaging for single-process bots") + `

botcrate builds a minimal container image for a long-running process from
a small declarative recipe (cratefile.cue) and launches exactly one
container from it. The recipe pins the base image, bakes in a default
environment, and installs dependencies from a manifest before the source
is copied, so dependency layers stay cached across source edits.

` + SubtitleStyle.Render("Quick Start:") + `
  1. Run 'botcrate init' to create a starter cratefile.cue
  2. Adjust the base image, manifest, and entrypoint
  3. Run 'botcrate build' then 'botcrate run'

` + SubtitleStyle.Render("Examples:") + `
  botcrate init                   Create a starter recipe
  botcrate validate               Check the recipe without building
  botcrate build                  Build (or refresh) the image
  botcrate run --env-file .env    Launch with runtime overrides
  botcrate config show            Show current configuration`,
	}
)

func init() {
	cobra.OnInitialize(initRootConfig)

	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/botcrate/config.cue)")

	// Add subcommands
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(configCmd)
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	// Use fang.Execute for enhanced Cobra styling
	// Pass version via fang.WithVersion() since fang overrides rootCmd.Version
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(int(exitErr.Code))
		}
		os.Exit(1)
	}
}

// initRootConfig reads in config file and ENV variables if set.
func initRootConfig() {
	if cfgFile != "" {
		config.SetConfigFilePathOverride(cfgFile)
	}

	loaded, err := config.Load()
	if err != nil {
		// Always surface config loading errors to the user
		fmt.Fprintln(os.Stderr, WarningStyle.Render("Warning: ")+formatErrorForDisplay(err, verbose))
		loaded = config.DefaultConfig()
	}
	cfg = loaded

	// Apply verbose from config if not set via flag
	if !verbose {
		verbose = cfg.UI.Verbose
	}
	if verbose {
		logger.SetLevel(log.DebugLevel)
	}
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}

// recipePath resolves the recipe path for a command: the positional
// argument when given, otherwise the configured default filename in the
// current directory.
func recipePath(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	if cfg != nil && cfg.Cratefile != "" {
		return cfg.Cratefile
	}
	return cratefile.DefaultFileName
}

// loadRecipe loads and validates the recipe for a command. On failure it
// renders the matching catalogue entry (missing file vs parse/validation
// error) before returning the error.
func loadRecipe(args []string) (*cratefile.Cratefile, error) {
	cf, err := cratefile.Load(recipePath(args))
	if err != nil {
		id := issue.CratefileParseErrorId
		if errors.Is(err, fs.ErrNotExist) {
			id = issue.CratefileNotFoundId
		}
		rendered, renderErr := issue.Get(id).Render("dark")
		if renderErr == nil {
			fmt.Fprint(os.Stderr, rendered)
		}
		fmt.Fprintf(os.Stderr, "%s %s\n", ErrorStyle.Render("✗"), formatErrorForDisplay(err, verbose))
		return nil, err
	}
	return cf, nil
}

// newEngine constructs the container engine from the configured preference.
func newEngine() (container.Engine, error) {
	preferred := container.EngineTypePodman
	if cfg != nil {
		preferred = container.EngineType(cfg.Engine)
	}

	engine, err := container.NewEngine(preferred)
	if err != nil {
		rendered, renderErr := issue.Get(issue.ContainerEngineNotFoundId).Render("dark")
		if renderErr == nil {
			fmt.Fprint(os.Stderr, rendered)
		}
		return nil, err
	}

	logger.Debug("container engine selected", "engine", engine.Name())
	return engine, nil
}
