// SPDX-License-Identifier: MPL-2.0

package cratefile

import (
	"strings"
	"testing"
)

func TestRenderContainerfile_InstructionOrder(t *testing.T) {
	cf := validCratefile()
	out, err := cf.RenderContainerfile()
	if err != nil {
		t.Fatalf("RenderContainerfile() failed: %v", err)
	}

	// The step order is the contract: dependencies are installed before
	// the source copy so source-only edits reuse the install layer.
	instructions := []string{
		"FROM python:3.11-slim",
		"WORKDIR /app",
		"ENV LOG_LEVEL=",
		"COPY requirements.txt ./",
		"RUN pip install --no-cache-dir -r requirements.txt",
		"COPY . ./",
		"ENTRYPOINT [\"python\",\"main.py\"]",
	}

	last := -1
	for _, instr := range instructions {
		idx := strings.Index(out, instr)
		if idx < 0 {
			t.Fatalf("instruction %q missing from output:\n%s", instr, out)
		}
		if idx <= last {
			t.Errorf("instruction %q out of order:\n%s", instr, out)
		}
		last = idx
	}
}

func TestRenderContainerfile_EnvSortedAndQuoted(t *testing.T) {
	cf := validCratefile()
	cf.Env = map[string]string{
		"ZEBRA":     "z value",
		"ALPHA":     "a",
		"LOG_LEVEL": "info",
	}

	out, err := cf.RenderContainerfile()
	if err != nil {
		t.Fatal(err)
	}

	alpha := strings.Index(out, "ENV ALPHA=\"a\"")
	logLevel := strings.Index(out, "ENV LOG_LEVEL=\"info\"")
	zebra := strings.Index(out, "ENV ZEBRA=\"z value\"")
	if alpha < 0 || logLevel < 0 || zebra < 0 {
		t.Fatalf("env instructions missing:\n%s", out)
	}
	if !(alpha < logLevel && logLevel < zebra) {
		t.Errorf("env keys must be emitted in sorted order:\n%s", out)
	}
}

func TestRenderContainerfile_Deterministic(t *testing.T) {
	cf := validCratefile()
	cf.Env = map[string]string{"B": "2", "A": "1", "C": "3", "D": "4"}

	first, err := cf.RenderContainerfile()
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 20; i++ {
		out, err := cf.RenderContainerfile()
		if err != nil {
			t.Fatal(err)
		}
		if out != first {
			t.Fatal("rendering is not deterministic across calls")
		}
	}
}

func TestRenderContainerfile_NoEnv(t *testing.T) {
	cf := validCratefile()
	cf.Env = nil

	out, err := cf.RenderContainerfile()
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(out, "ENV ") {
		t.Errorf("no ENV instruction expected:\n%s", out)
	}
}

func TestRenderContainerfile_SourceSubdir(t *testing.T) {
	cf := validCratefile()
	cf.Source = "bot"

	out, err := cf.RenderContainerfile()
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "COPY bot/ ./") {
		t.Errorf("expected source contents copy:\n%s", out)
	}
}

func TestDefaultTag_Deterministic(t *testing.T) {
	a := DefaultTag("/home/dev/My Bot/cratefile.cue")
	b := DefaultTag("/home/dev/My Bot/cratefile.cue")
	if a != b {
		t.Errorf("same path must yield the same tag: %q vs %q", a, b)
	}
	if !strings.HasPrefix(a, "botcrate-my-bot:") {
		t.Errorf("tag should derive from the sanitized context dir: %q", a)
	}

	other := DefaultTag("/home/dev/other/cratefile.cue")
	if a == other {
		t.Error("different recipe paths should yield different tags")
	}
}
