// SPDX-License-Identifier: MPL-2.0

package cratefile

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// starterTemplate is the recipe written by `botcrate init`: a Python bot
// packaged on a slim base with pip-installed dependencies.
const starterTemplate = `// botcrate recipe. See 'botcrate validate' to check changes.
base:    "python:3.11-slim"
workdir: "/app"

env: {
	GOOGLE_API_DISCOVERY_CACHE: "false"
}

manifest: "requirements.txt"
install:  "pip install --no-cache-dir -r requirements.txt"

source: "."

entrypoint: ["python", "main.py"]
`

// GenerateStarter returns the starter recipe content.
func GenerateStarter() string {
	return starterTemplate
}

// WriteStarter writes the starter recipe to path. It refuses to overwrite
// an existing file.
func WriteStarter(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("recipe already exists at %s", path)
	}
	if err := os.WriteFile(path, []byte(starterTemplate), 0o644); err != nil {
		return fmt.Errorf("failed to write recipe: %w", err)
	}
	return nil
}

// DefaultTag derives a deterministic image tag from the recipe path:
// the context directory name plus a short hash of the absolute path.
// The same recipe always maps to the same tag.
func DefaultTag(recipePath string) string {
	abs, err := filepath.Abs(recipePath)
	if err != nil {
		abs = recipePath
	}

	name := sanitizeTagName(filepath.Base(filepath.Dir(abs)))
	if name == "" {
		name = "bot"
	}

	sum := sha256.Sum256([]byte(abs))
	return fmt.Sprintf("botcrate-%s:%x", name, sum[:6])
}

// sanitizeTagName lowercases s and maps anything outside [a-z0-9-] to a
// dash, trimming leading and trailing dashes.
func sanitizeTagName(s string) string {
	var sb strings.Builder
	for _, r := range strings.ToLower(s) {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == '-' {
			sb.WriteRune(r)
		} else {
			sb.WriteRune('-')
		}
	}
	return strings.Trim(sb.String(), "-")
}
