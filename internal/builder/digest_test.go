// SPDX-License-Identifier: MPL-2.0

package builder

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestDigestFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "requirements.txt", "requests==2.0\n")

	a, err := DigestFile(filepath.Join(dir, "requirements.txt"))
	if err != nil {
		t.Fatal(err)
	}
	b, err := DigestFile(filepath.Join(dir, "requirements.txt"))
	if err != nil {
		t.Fatal(err)
	}
	if a != b {
		t.Error("digest must be stable for unchanged content")
	}

	writeFile(t, dir, "requirements.txt", "requests==2.1\n")
	c, err := DigestFile(filepath.Join(dir, "requirements.txt"))
	if err != nil {
		t.Fatal(err)
	}
	if a == c {
		t.Error("digest must change with content")
	}

	if _, err := DigestFile(filepath.Join(dir, "missing.txt")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestDigestTree_Stable(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "main.py", "print('hi')\n")
	writeFile(t, dir, "pkg/util.py", "x = 1\n")

	a, err := DigestTree(dir)
	if err != nil {
		t.Fatal(err)
	}
	b, err := DigestTree(dir)
	if err != nil {
		t.Fatal(err)
	}
	if a != b {
		t.Error("tree digest must be stable across walks")
	}
}

func TestDigestTree_ContentChange(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "main.py", "print('hi')\n")

	before, err := DigestTree(dir)
	if err != nil {
		t.Fatal(err)
	}

	writeFile(t, dir, "main.py", "print('bye')\n")
	after, err := DigestTree(dir)
	if err != nil {
		t.Fatal(err)
	}
	if before == after {
		t.Error("tree digest must change with file content")
	}
}

func TestDigestTree_RenameDetected(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "main.py", "print('hi')\n")

	before, err := DigestTree(dir)
	if err != nil {
		t.Fatal(err)
	}

	if err := os.Rename(filepath.Join(dir, "main.py"), filepath.Join(dir, "bot.py")); err != nil {
		t.Fatal(err)
	}
	after, err := DigestTree(dir)
	if err != nil {
		t.Fatal(err)
	}
	if before == after {
		t.Error("tree digest must change when a file is renamed")
	}
}

func TestDigestTree_Excludes(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "main.py", "print('hi')\n")

	before, err := DigestTree(dir, ".botcrate")
	if err != nil {
		t.Fatal(err)
	}

	// State written under the excluded directory must not disturb the digest.
	writeFile(t, dir, ".botcrate/state.toml", "image_tag = 'bot:dev'\n")
	after, err := DigestTree(dir, ".botcrate")
	if err != nil {
		t.Fatal(err)
	}
	if before != after {
		t.Error("excluded directories must not affect the tree digest")
	}
}
