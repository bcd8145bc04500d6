// SPDX-License-Identifier: MPL-2.0

package builder

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// StateFileName is the name of the build state file inside the state dir.
const StateFileName = "state.toml"

// State records the inputs and output of the last successful build. It is
// written only after the engine build succeeds, so a failed build leaves
// no record and the next build starts from scratch.
type State struct {
	// ImageTag is the tag the image was built under.
	ImageTag string `toml:"image_tag"`

	// ManifestDigest is the sha256 of the dependency manifest contents.
	ManifestDigest string `toml:"manifest_digest"`

	// SourceDigest is the sha256 of the source tree.
	SourceDigest string `toml:"source_digest"`

	// BuiltAt is when the build completed.
	BuiltAt time.Time `toml:"built_at"`
}

// LoadState reads the build state from stateDir. A missing state file is
// not an error: it returns (nil, nil), meaning "never built".
func LoadState(stateDir string) (*State, error) {
	data, err := os.ReadFile(filepath.Join(stateDir, StateFileName))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read build state: %w", err)
	}

	var st State
	if err := toml.Unmarshal(data, &st); err != nil {
		// A corrupt state file is treated as "never built" rather than a
		// hard failure; the next build rewrites it.
		return nil, nil
	}
	return &st, nil
}

// SaveState writes the build state to stateDir, creating it if needed.
func SaveState(stateDir string, st *State) error {
	if err := os.MkdirAll(stateDir, 0o755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	data, err := toml.Marshal(st)
	if err != nil {
		return fmt.Errorf("failed to encode build state: %w", err)
	}

	if err := os.WriteFile(filepath.Join(stateDir, StateFileName), data, 0o644); err != nil {
		return fmt.Errorf("failed to write build state: %w", err)
	}
	return nil
}
