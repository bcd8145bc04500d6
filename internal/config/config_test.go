// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Engine != ContainerEnginePodman {
		t.Errorf("expected default engine to be podman, got %s", cfg.Engine)
	}
	if cfg.Cratefile != "cratefile.cue" {
		t.Errorf("expected default cratefile name, got %s", cfg.Cratefile)
	}
	if cfg.StateDir != ".botcrate" {
		t.Errorf("expected default state dir .botcrate, got %s", cfg.StateDir)
	}
	if cfg.UI.Verbose {
		t.Error("expected default verbose to be false")
	}
}

func TestContainerEngine_Validate(t *testing.T) {
	tests := []struct {
		name    string
		engine  ContainerEngine
		wantErr bool
	}{
		{"podman is valid", ContainerEnginePodman, false},
		{"docker is valid", ContainerEngineDocker, false},
		{"empty is invalid", ContainerEngine(""), true},
		{"unknown is invalid", ContainerEngine("containerd"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.engine.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidContainerEngine) {
				t.Error("validation error should unwrap to ErrInvalidContainerEngine")
			}
		})
	}
}

func TestLoad_DefaultsWhenNoFile(t *testing.T) {
	dir := t.TempDir()
	SetConfigDirOverride(dir)
	t.Cleanup(Reset)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() with no config file should succeed, got %v", err)
	}
	if cfg.Engine != ContainerEnginePodman {
		t.Errorf("expected default engine, got %s", cfg.Engine)
	}
}

func TestLoad_FromConfigDir(t *testing.T) {
	dir := t.TempDir()
	SetConfigDirOverride(dir)
	t.Cleanup(Reset)

	content := "engine: \"docker\"\n\nui: {\n\tverbose: true\n}\n"
	if err := os.WriteFile(filepath.Join(dir, "config.cue"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Engine != ContainerEngineDocker {
		t.Errorf("expected engine docker, got %s", cfg.Engine)
	}
	if !cfg.UI.Verbose {
		t.Error("expected verbose to be true")
	}
	// Unset fields keep defaults
	if cfg.Cratefile != "cratefile.cue" {
		t.Errorf("expected cratefile default to survive partial config, got %s", cfg.Cratefile)
	}
}

func TestLoad_SchemaViolation(t *testing.T) {
	dir := t.TempDir()
	SetConfigDirOverride(dir)
	t.Cleanup(Reset)

	// engine value outside the schema enum
	content := "engine: \"containerd\"\n"
	if err := os.WriteFile(filepath.Join(dir, "config.cue"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(); err == nil {
		t.Fatal("expected schema validation error for unknown engine")
	}
}

func TestLoad_ExplicitPathMissing(t *testing.T) {
	dir := t.TempDir()
	SetConfigDirOverride(dir)
	SetConfigFilePathOverride(filepath.Join(dir, "nope.cue"))
	t.Cleanup(Reset)

	if _, err := Load(); err == nil {
		t.Fatal("expected error for missing explicit config file")
	}
}

func TestLoad_ExplicitPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.cue")
	if err := os.WriteFile(path, []byte("cratefile: \"bot.cue\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	SetConfigDirOverride(t.TempDir())
	SetConfigFilePathOverride(path)
	t.Cleanup(Reset)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Cratefile != "bot.cue" {
		t.Errorf("expected cratefile bot.cue, got %s", cfg.Cratefile)
	}
}

func TestGenerateCUE_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	SetConfigDirOverride(dir)
	t.Cleanup(Reset)

	want := &Config{
		Engine:    ContainerEngineDocker,
		Cratefile: "crate.cue",
		StateDir:  ".state",
		UI:        UIConfig{Verbose: true},
	}
	if err := Save(want); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	got, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if got.Engine != want.Engine || got.Cratefile != want.Cratefile ||
		got.StateDir != want.StateDir || got.UI.Verbose != want.UI.Verbose {
		t.Errorf("round trip mismatch: got %+v, want %+v", got, want)
	}
}

func TestCreateDefaultConfig_Idempotent(t *testing.T) {
	dir := t.TempDir()
	SetConfigDirOverride(dir)
	t.Cleanup(Reset)

	if err := CreateDefaultConfig(); err != nil {
		t.Fatalf("first CreateDefaultConfig failed: %v", err)
	}
	path := filepath.Join(dir, "config.cue")
	if err := os.WriteFile(path, []byte("engine: \"docker\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	// A second call must not clobber the existing file.
	if err := CreateDefaultConfig(); err != nil {
		t.Fatalf("second CreateDefaultConfig failed: %v", err)
	}
	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Engine != ContainerEngineDocker {
		t.Error("CreateDefaultConfig overwrote an existing config file")
	}
}
