// SPDX-License-Identifier: MPL-2.0

package launcher

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
)

// OptionalSuffix marks an env file spec as optional: a missing file is
// skipped instead of failing the launch.
const OptionalSuffix = "?"

var (
	// ErrInvalidEnvLine is the sentinel error wrapped by InvalidEnvLineError.
	ErrInvalidEnvLine = errors.New("invalid env line")

	// ErrInvalidEnvKey is returned for override keys that are not valid
	// environment variable names.
	ErrInvalidEnvKey = errors.New("invalid env key")
)

// InvalidEnvLineError is returned when an env file line is not a valid
// KEY=VALUE assignment.
type InvalidEnvLineError struct {
	File string
	Line int // 1-based line number
	Text string
}

// Error implements the error interface.
func (e *InvalidEnvLineError) Error() string {
	return fmt.Sprintf("%s:%d: not a KEY=VALUE assignment: %q", e.File, e.Line, e.Text)
}

// Unwrap returns ErrInvalidEnvLine so callers can use errors.Is for programmatic detection.
func (e *InvalidEnvLineError) Unwrap() error { return ErrInvalidEnvLine }

// ParseEnvFile parses dotenv content: KEY=VALUE per line, '#' comments
// and blank lines ignored, an optional "export " prefix tolerated, and
// single or double quotes stripped from values. Values are otherwise
// opaque: no interpolation, no escapes.
func ParseEnvFile(data []byte, filename string) (map[string]string, error) {
	env := make(map[string]string)

	for i, raw := range strings.Split(string(data), "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimPrefix(line, "export ")

		key, value, found := strings.Cut(line, "=")
		key = strings.TrimSpace(key)
		if !found || !validEnvKey(key) {
			return nil, &InvalidEnvLineError{File: filename, Line: i + 1, Text: strings.TrimSpace(raw)}
		}

		env[key] = unquote(strings.TrimSpace(value))
	}

	return env, nil
}

// LoadEnvFiles reads env file specs in order, later files overriding
// earlier ones. A spec ending in "?" is optional and silently skipped
// when the file does not exist.
func LoadEnvFiles(specs []string) (map[string]string, error) {
	merged := make(map[string]string)

	for _, spec := range specs {
		path, optional := strings.CutSuffix(spec, OptionalSuffix)

		data, err := os.ReadFile(path)
		if err != nil {
			if optional && errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("failed to read env file %s: %w", path, err)
		}

		env, err := ParseEnvFile(data, path)
		if err != nil {
			return nil, err
		}
		for k, v := range env {
			merged[k] = v
		}
	}

	return merged, nil
}

// ParseEnvVar parses a single KEY=VALUE override from the command line.
func ParseEnvVar(s string) (key, value string, err error) {
	key, value, found := strings.Cut(s, "=")
	if !found || !validEnvKey(key) {
		return "", "", fmt.Errorf("%w: %q (expected KEY=VALUE)", ErrInvalidEnvKey, s)
	}
	return key, value, nil
}

// validEnvKey reports whether s is a valid environment variable name:
// a letter or underscore followed by letters, digits or underscores.
func validEnvKey(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		letter := r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r == '_'
		if i == 0 && !letter {
			return false
		}
		if !letter && (r < '0' || r > '9') {
			return false
		}
	}
	return true
}

// unquote strips one layer of matching single or double quotes.
func unquote(s string) string {
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}
