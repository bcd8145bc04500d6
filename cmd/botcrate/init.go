// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"botcrate/pkg/cratefile"

	"github.com/spf13/cobra"
)

var (
	initForce bool

	// initCmd creates a new recipe file
	initCmd = &cobra.Command{
		Use:   "init [path]",
		Short: "Create a starter cratefile.cue in the current directory",
		Long: `Create a starter cratefile.cue in the current directory.

The generated recipe packages a Python bot: a slim pinned base image,
a requirements.txt manifest installed without a retained package cache,
and a 'python main.py' entrypoint. Adjust it to fit your project.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runInitCmd,
	}
)

func init() {
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "overwrite an existing recipe")
}

func runInitCmd(cmd *cobra.Command, args []string) error {
	filename := cratefile.DefaultFileName
	if len(args) > 0 {
		filename = args[0]
	}

	if _, err := os.Stat(filename); err == nil {
		if !initForce {
			return fmt.Errorf("file '%s' already exists. Use --force to overwrite", filename)
		}
		if err := os.Remove(filename); err != nil {
			return fmt.Errorf("failed to replace existing recipe: %w", err)
		}
	}

	if err := cratefile.WriteStarter(filename); err != nil {
		return err
	}

	absPath, _ := filepath.Abs(filename)
	fmt.Printf("%s Created %s\n", SuccessStyle.Render("✓"), absPath)
	fmt.Println()
	fmt.Println(SubtitleStyle.Render("Next steps:"))
	fmt.Println("  1. Point 'base' at your runtime's pinned slim image")
	fmt.Println("  2. List dependencies in requirements.txt")
	fmt.Println("  3. Run 'botcrate build' then 'botcrate run'")

	return nil
}
