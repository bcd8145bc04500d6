// SPDX-License-Identifier: MPL-2.0

// Package manifest parses the dependency manifest consumed by the install
// step: a flat list of package-name[==version] entries, one per line.
// The manifest is validated before the container engine is ever invoked so
// that malformed entries fail the build early, with a line number.
package manifest

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
)

var (
	// ErrInvalidEntry is the sentinel error wrapped by InvalidEntryError.
	ErrInvalidEntry = errors.New("invalid manifest entry")

	// ErrDuplicateEntry is the sentinel error wrapped by DuplicateEntryError.
	ErrDuplicateEntry = errors.New("duplicate manifest entry")

	// ErrEmptyManifest is returned when the manifest contains no entries.
	ErrEmptyManifest = errors.New("manifest contains no entries")
)

type (
	// Entry is a single dependency: a package name with an optional exact
	// version pin. An empty Version means the entry is unpinned.
	Entry struct {
		Name    string
		Version string
	}

	// Manifest is the parsed dependency manifest, in file order.
	Manifest struct {
		Entries []Entry
	}

	// InvalidEntryError is returned when a manifest line is not a valid
	// package-name[==version] entry.
	InvalidEntryError struct {
		Line   int    // 1-based line number
		Text   string // offending line, trimmed
		Reason string
	}

	// DuplicateEntryError is returned when the same package name appears
	// more than once.
	DuplicateEntryError struct {
		Line  int // 1-based line number of the second occurrence
		Name  string
		First int // 1-based line number of the first occurrence
	}
)

// Error implements the error interface.
func (e *InvalidEntryError) Error() string {
	return fmt.Sprintf("line %d: %s: %q", e.Line, e.Reason, e.Text)
}

// Unwrap returns ErrInvalidEntry so callers can use errors.Is for programmatic detection.
func (e *InvalidEntryError) Unwrap() error { return ErrInvalidEntry }

// Error implements the error interface.
func (e *DuplicateEntryError) Error() string {
	return fmt.Sprintf("line %d: package %q already listed on line %d", e.Line, e.Name, e.First)
}

// Unwrap returns ErrDuplicateEntry so callers can use errors.Is for programmatic detection.
func (e *DuplicateEntryError) Unwrap() error { return ErrDuplicateEntry }

// String returns the entry in manifest notation (name or name==version).
func (e Entry) String() string {
	if e.Version == "" {
		return e.Name
	}
	return e.Name + "==" + e.Version
}

// IsPinned reports whether the entry carries an exact version.
func (e Entry) IsPinned() bool { return e.Version != "" }

// Load reads and parses a manifest file from path.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest at %s: %w", path, err)
	}
	return Parse(data)
}

// Parse parses manifest content. Blank lines and lines starting with '#'
// are ignored; a trailing " #..." comment is stripped from entry lines.
func Parse(data []byte) (*Manifest, error) {
	m := &Manifest{}
	seen := make(map[string]int) // lowercased name -> first line number

	for i, raw := range strings.Split(string(data), "\n") {
		lineNo := i + 1
		line := strings.TrimSpace(raw)

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		// Strip trailing comments ("pkg==1.0  # why")
		if idx := strings.Index(line, " #"); idx >= 0 {
			line = strings.TrimSpace(line[:idx])
		}

		entry, err := parseEntry(line, lineNo)
		if err != nil {
			return nil, err
		}

		key := strings.ToLower(entry.Name)
		if first, dup := seen[key]; dup {
			return nil, &DuplicateEntryError{Line: lineNo, Name: entry.Name, First: first}
		}
		seen[key] = lineNo

		m.Entries = append(m.Entries, entry)
	}

	if len(m.Entries) == 0 {
		return nil, ErrEmptyManifest
	}

	return m, nil
}

// parseEntry parses a single trimmed, comment-free manifest line.
func parseEntry(line string, lineNo int) (Entry, error) {
	name, version, pinned := strings.Cut(line, "==")
	name = strings.TrimSpace(name)
	version = strings.TrimSpace(version)

	if name == "" {
		return Entry{}, &InvalidEntryError{Line: lineNo, Text: line, Reason: "empty package name"}
	}
	if !validName(name) {
		return Entry{}, &InvalidEntryError{Line: lineNo, Text: line, Reason: "invalid package name"}
	}
	if pinned && version == "" {
		return Entry{}, &InvalidEntryError{Line: lineNo, Text: line, Reason: "empty version after '=='"}
	}
	if pinned && !validVersion(version) {
		return Entry{}, &InvalidEntryError{Line: lineNo, Text: line, Reason: "invalid version"}
	}

	return Entry{Name: name, Version: version}, nil
}

// validName reports whether s is a plausible package name: it must start
// with an alphanumeric and contain only alphanumerics, '.', '_' and '-'.
func validName(s string) bool {
	for i, r := range s {
		alnum := r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9'
		if i == 0 && !alnum {
			return false
		}
		if !alnum && r != '.' && r != '_' && r != '-' {
			return false
		}
	}
	return true
}

// validVersion reports whether s is a plausible version string: it must
// start with an alphanumeric and contain only alphanumerics and '.', '_',
// '-', '+', '*'.
func validVersion(s string) bool {
	for i, r := range s {
		alnum := r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9'
		if i == 0 && !alnum {
			return false
		}
		if !alnum && r != '.' && r != '_' && r != '-' && r != '+' && r != '*' {
			return false
		}
	}
	return true
}

// Names returns the package names in file order.
func (m *Manifest) Names() []string {
	names := make([]string, len(m.Entries))
	for i, e := range m.Entries {
		names[i] = e.Name
	}
	return names
}

// Canonical returns the entries in a normalized form: one entry per line,
// sorted case-insensitively by name, comments and blank lines dropped.
// Two manifests that differ only in formatting share a canonical form.
func (m *Manifest) Canonical() string {
	lines := make([]string, len(m.Entries))
	for i, e := range m.Entries {
		lines[i] = e.String()
	}
	sort.Slice(lines, func(i, j int) bool {
		return strings.ToLower(lines[i]) < strings.ToLower(lines[j])
	})
	return strings.Join(lines, "\n") + "\n"
}
