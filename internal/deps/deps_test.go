package deps

import (
	"os"
	"path/filepath"
	"testing"

	"wobble/internal/config"
	"wobble/internal/testsupport"
)

func TestCheckBinaries(t *testing.T) {
	binDir := t.TempDir()
	present := filepath.Join(binDir, "present")
	script := []byte("#!/bin/sh\nexit 0\n")
	if err := os.WriteFile(present, script, 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	reqs := []Requirement{
		{Name: "Present", Command: present},
		{Name: "Missing", Command: "clearly-not-present-binary"},
		{Name: "Unset", Command: "  ", Optional: true},
	}

	results := CheckBinaries(reqs)
	if len(results) != len(reqs) {
		t.Fatalf("expected %d results, got %d", len(reqs), len(results))
	}
	if !results[0].Available || results[0].Path != present || results[0].Detail != "" {
		t.Fatalf("expected first requirement to be available, got %#v", results[0])
	}
	if results[1].Available || results[1].Detail == "" {
		t.Fatalf("expected missing binary to be unavailable with detail, got %#v", results[1])
	}
	if results[1].Command != "clearly-not-present-binary" {
		t.Fatalf("unexpected command recorded: %s", results[1].Command)
	}
	if results[2].Detail != "command not configured" {
		t.Fatalf("unexpected detail for unset command: %q", results[2].Detail)
	}

	missing := MissingRequired(results)
	if len(missing) != 1 || missing[0].Name != "Missing" {
		t.Fatalf("expected only the required missing binary, got %#v", missing)
	}
}

func TestRequirementsUseConfiguredFFprobe(t *testing.T) {
	cfg := config.Default()
	cfg.Tools.FFprobe = "/opt/ffmpeg/bin/ffprobe"

	reqs := Requirements(&cfg)
	if len(reqs) != 1 {
		t.Fatalf("expected one requirement, got %d", len(reqs))
	}
	if reqs[0].Command != "/opt/ffmpeg/bin/ffprobe" {
		t.Fatalf("unexpected command %q", reqs[0].Command)
	}
	if !reqs[0].Optional {
		t.Fatal("expected ffprobe to be optional")
	}
}

func TestRequirementsFoundOnStubbedPath(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithStubbedBinaries())

	statuses := CheckBinaries(Requirements(cfg))
	if len(statuses) != 1 || !statuses[0].Available {
		t.Fatalf("expected stubbed ffprobe to be available, got %#v", statuses)
	}
	want := filepath.Join(testsupport.BaseDir(cfg), "bin", "ffprobe")
	if statuses[0].Path != want {
		t.Fatalf("resolved %q, want %q", statuses[0].Path, want)
	}
	if missing := MissingRequired(statuses); len(missing) != 0 {
		t.Fatalf("unexpected missing requirements: %#v", missing)
	}
}
