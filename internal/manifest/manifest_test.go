// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestParse_Valid(t *testing.T) {
	input := `# bot dependencies
discord.py==2.3.2

google-api-python-client==2.100.0
python-dotenv==1.0.0  # loaded at startup
requests
`
	m, err := Parse([]byte(input))
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}

	want := []Entry{
		{Name: "discord.py", Version: "2.3.2"},
		{Name: "google-api-python-client", Version: "2.100.0"},
		{Name: "python-dotenv", Version: "1.0.0"},
		{Name: "requests", Version: ""},
	}
	if len(m.Entries) != len(want) {
		t.Fatalf("expected %d entries, got %d", len(want), len(m.Entries))
	}
	for i, e := range m.Entries {
		if e != want[i] {
			t.Errorf("entry %d: got %+v, want %+v", i, e, want[i])
		}
	}
	if !m.Entries[0].IsPinned() {
		t.Error("discord.py should be pinned")
	}
	if m.Entries[3].IsPinned() {
		t.Error("requests should not be pinned")
	}
}

func TestParse_InvalidEntries(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		reason string
	}{
		{"empty version after pin", "requests==\n", "empty version after '=='"},
		{"name starts with dash", "-requests==1.0\n", "invalid package name"},
		{"name with spaces", "my package==1.0\n", "invalid package name"},
		{"version with spaces", "requests==1 0\n", "invalid version"},
		{"pin without name", "==1.0\n", "empty package name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.input))
			if err == nil {
				t.Fatal("expected parse error")
			}
			if !errors.Is(err, ErrInvalidEntry) {
				t.Errorf("error should unwrap to ErrInvalidEntry, got %v", err)
			}
			var invalidErr *InvalidEntryError
			if !errors.As(err, &invalidErr) {
				t.Fatalf("expected *InvalidEntryError, got %T", err)
			}
			if invalidErr.Reason != tt.reason {
				t.Errorf("reason = %q, want %q", invalidErr.Reason, tt.reason)
			}
			if invalidErr.Line != 1 {
				t.Errorf("line = %d, want 1", invalidErr.Line)
			}
		})
	}
}

func TestParse_DuplicateEntry(t *testing.T) {
	input := "requests==2.0\ndiscord.py==2.3.2\nRequests==2.1\n"
	_, err := Parse([]byte(input))
	if err == nil {
		t.Fatal("expected duplicate error")
	}
	if !errors.Is(err, ErrDuplicateEntry) {
		t.Errorf("error should unwrap to ErrDuplicateEntry, got %v", err)
	}
	var dupErr *DuplicateEntryError
	if !errors.As(err, &dupErr) {
		t.Fatalf("expected *DuplicateEntryError, got %T", err)
	}
	if dupErr.Line != 3 || dupErr.First != 1 {
		t.Errorf("duplicate reported at line %d (first %d), want line 3 (first 1)", dupErr.Line, dupErr.First)
	}
}

func TestParse_Empty(t *testing.T) {
	for _, input := range []string{"", "\n\n", "# comments only\n\n# more\n"} {
		if _, err := Parse([]byte(input)); !errors.Is(err, ErrEmptyManifest) {
			t.Errorf("Parse(%q) should return ErrEmptyManifest, got %v", input, err)
		}
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "requirements.txt")
	if err := os.WriteFile(path, []byte("requests==2.0\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	m, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if len(m.Entries) != 1 || m.Entries[0].Name != "requests" {
		t.Errorf("unexpected entries: %+v", m.Entries)
	}

	if _, err := Load(filepath.Join(dir, "missing.txt")); err == nil {
		t.Error("expected error for missing manifest file")
	}
}

func TestCanonical(t *testing.T) {
	a, err := Parse([]byte("# deps\nzlib==1.0\n\nAiohttp==3.9  # http\n"))
	if err != nil {
		t.Fatal(err)
	}
	b, err := Parse([]byte("Aiohttp==3.9\nzlib==1.0\n"))
	if err != nil {
		t.Fatal(err)
	}

	if a.Canonical() != b.Canonical() {
		t.Errorf("manifests differing only in formatting should share a canonical form:\n%q\n%q",
			a.Canonical(), b.Canonical())
	}
	if a.Canonical() != "Aiohttp==3.9\nzlib==1.0\n" {
		t.Errorf("unexpected canonical form: %q", a.Canonical())
	}
}
