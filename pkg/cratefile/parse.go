// SPDX-License-Identifier: MPL-2.0

package cratefile

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"botcrate/internal/cueutil"
)

//go:embed cratefile_schema.cue
var cratefileSchema string

// Parse parses recipe content and validates it against the #Cratefile
// schema. filename is used in error messages only.
func Parse(data []byte, filename string) (*Cratefile, error) {
	result, err := cueutil.ParseAndDecodeString[Cratefile](
		cratefileSchema, data, "#Cratefile",
		cueutil.WithFilename(filename),
	)
	if err != nil {
		return nil, err
	}

	cf := result.Value
	if err := cf.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}

	return cf, nil
}

// Load reads, parses and validates a recipe file. The returned recipe
// carries the absolute path it was loaded from.
func Load(path string) (*Cratefile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read recipe at %s: %w", path, err)
	}

	cf, err := Parse(data, path)
	if err != nil {
		return nil, err
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve recipe path: %w", err)
	}
	cf.Path = abs

	return cf, nil
}
