// SPDX-License-Identifier: MPL-2.0

package cratefile

import (
	"errors"
	"testing"
)

func validCratefile() *Cratefile {
	return &Cratefile{
		Base:       "python:3.11-slim",
		Workdir:    "/app",
		Env:        map[string]string{"LOG_LEVEL": "info"},
		Manifest:   "requirements.txt",
		Install:    "pip install --no-cache-dir -r requirements.txt",
		Source:     ".",
		Entrypoint: []string{"python", "main.py"},
	}
}

func TestValidate_BaseTag(t *testing.T) {
	tests := []struct {
		name    string
		base    string
		wantErr error
	}{
		{"pinned slim", "python:3.11-slim", nil},
		{"pinned patch alpine", "python:3.11.9-alpine3.20", nil},
		{"pinned node alpine", "node:20.11-alpine", nil},
		{"distroless repo", "gcr.io/distroless/python3-debian12:12.1", nil},
		{"registry with port", "registry.local:5000/python:3.11-slim", nil},
		{"no tag", "python", ErrFloatingBaseTag},
		{"no tag with registry port", "registry.local:5000/python", ErrFloatingBaseTag},
		{"latest", "python:latest", ErrFloatingBaseTag},
		{"major only", "python:3-slim", ErrUnpinnedBaseTag},
		{"named tag", "python:slim", ErrUnpinnedBaseTag},
		{"full-fat variant", "python:3.11", ErrNotMinimalVariant},
		{"bookworm full", "python:3.11-bookworm", ErrNotMinimalVariant},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cf := validCratefile()
			cf.Base = tt.base
			err := cf.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidate_Workdir(t *testing.T) {
	cf := validCratefile()
	cf.Workdir = "app"
	if err := cf.Validate(); !errors.Is(err, ErrRelativeWorkdir) {
		t.Errorf("expected ErrRelativeWorkdir, got %v", err)
	}
}

func TestValidate_ContextPaths(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Cratefile)
		wantErr error
	}{
		{"absolute manifest", func(c *Cratefile) { c.Manifest = "/etc/requirements.txt" }, ErrPathEscapesContext},
		{"manifest climbs out", func(c *Cratefile) { c.Manifest = "../requirements.txt" }, ErrPathEscapesContext},
		{"manifest climbs out indirectly", func(c *Cratefile) { c.Manifest = "deps/../../requirements.txt" }, ErrPathEscapesContext},
		{"absolute source", func(c *Cratefile) { c.Source = "/src" }, ErrPathEscapesContext},
		{"source subdirectory ok", func(c *Cratefile) { c.Source = "bot/" }, nil},
		{"manifest subdirectory ok", func(c *Cratefile) { c.Manifest = "deps/requirements.txt" }, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cf := validCratefile()
			tt.mutate(cf)
			err := cf.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidate_Install(t *testing.T) {
	cf := validCratefile()
	cf.Install = "   "
	if err := cf.Validate(); err == nil {
		t.Error("expected error for blank install command")
	}

	cf = validCratefile()
	cf.Install = "pip install -r requirements.txt && (echo done"
	if err := cf.Validate(); err == nil {
		t.Error("expected error for unbalanced shell syntax")
	}

	cf = validCratefile()
	cf.Install = "pip install -r requirements.txt && pip check"
	if err := cf.Validate(); err != nil {
		t.Errorf("compound command should be valid shell, got %v", err)
	}
}

func TestValidate_Entrypoint(t *testing.T) {
	cf := validCratefile()
	cf.Entrypoint = nil
	if err := cf.Validate(); !errors.Is(err, ErrEmptyEntrypoint) {
		t.Errorf("expected ErrEmptyEntrypoint, got %v", err)
	}

	cf = validCratefile()
	cf.Entrypoint = []string{"  "}
	if err := cf.Validate(); !errors.Is(err, ErrEmptyEntrypoint) {
		t.Errorf("expected ErrEmptyEntrypoint for blank command, got %v", err)
	}
}

func TestValidate_Tag(t *testing.T) {
	cf := validCratefile()
	cf.Tag = "my-bot:dev"
	if err := cf.Validate(); err != nil {
		t.Errorf("valid tag rejected: %v", err)
	}

	cf.Tag = "My Bot"
	if err := cf.Validate(); err == nil {
		t.Error("expected error for invalid tag")
	}
}
