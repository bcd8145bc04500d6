// SPDX-License-Identifier: MPL-2.0

package container

import (
	"path/filepath"
	"reflect"
	"testing"
)

func TestBuildArgs(t *testing.T) {
	e := NewBaseCLIEngine("docker", "/usr/bin/docker")

	tests := []struct {
		name string
		opts BuildOptions
		want []string
	}{
		{
			name: "minimal",
			opts: BuildOptions{ContextDir: "/ctx"},
			want: []string{"build", "/ctx"},
		},
		{
			name: "containerfile resolved against context",
			opts: BuildOptions{ContextDir: "/ctx", Containerfile: "Containerfile", Tag: "bot:dev"},
			want: []string{"build", "-f", filepath.Join("/ctx", "Containerfile"), "-t", "bot:dev", "/ctx"},
		},
		{
			name: "absolute containerfile kept as-is",
			opts: BuildOptions{ContextDir: "/ctx", Containerfile: "/tmp/Containerfile"},
			want: []string{"build", "-f", "/tmp/Containerfile", "/ctx"},
		},
		{
			name: "no-cache and pull",
			opts: BuildOptions{ContextDir: "/ctx", NoCache: true, Pull: true},
			want: []string{"build", "--no-cache", "--pull", "/ctx"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.BuildArgs(tt.opts)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("BuildArgs() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRunArgs(t *testing.T) {
	e := NewBaseCLIEngine("docker", "/usr/bin/docker")

	tests := []struct {
		name string
		opts RunOptions
		want []string
	}{
		{
			name: "image only",
			opts: RunOptions{Image: "bot:dev"},
			want: []string{"run", "bot:dev"},
		},
		{
			name: "full option set",
			opts: RunOptions{
				Image:       "bot:dev",
				Name:        "bot",
				WorkDir:     "/app",
				Remove:      true,
				Interactive: true,
				TTY:         true,
				Command:     []string{"python", "main.py"},
			},
			want: []string{
				"run", "--rm", "--name", "bot", "-w", "/app", "-i", "-t",
				"bot:dev", "python", "main.py",
			},
		},
		{
			name: "env flags in sorted key order",
			opts: RunOptions{
				Image: "bot:dev",
				Env:   map[string]string{"ZULU": "1", "ALPHA": "2", "MIKE": "3"},
			},
			want: []string{
				"run", "-e", "ALPHA=2", "-e", "MIKE=3", "-e", "ZULU=1", "bot:dev",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.RunArgs(tt.opts)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("RunArgs() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRunArgs_Transformer(t *testing.T) {
	e := NewBaseCLIEngine("podman", "/usr/bin/podman",
		WithRunArgsTransformer(func(args []string) []string {
			return append(args, "--userns=keep-id")
		}))

	got := e.RunArgs(RunOptions{Image: "bot:dev"})
	want := []string{"run", "bot:dev", "--userns=keep-id"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("RunArgs() = %v, want %v", got, want)
	}
}

func TestRemoveImageArgs(t *testing.T) {
	e := NewBaseCLIEngine("docker", "/usr/bin/docker")

	if got := e.RemoveImageArgs("bot:dev", false); !reflect.DeepEqual(got, []string{"rmi", "bot:dev"}) {
		t.Errorf("RemoveImageArgs() = %v", got)
	}
	if got := e.RemoveImageArgs("bot:dev", true); !reflect.DeepEqual(got, []string{"rmi", "-f", "bot:dev"}) {
		t.Errorf("RemoveImageArgs(force) = %v", got)
	}
}
