package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"wobble/internal/testsupport"
)

const orphanProject = `{
    "input file": "episode.mkv",
    "source filter": "lsmas.LWLibavSource",
    "vfm parameters": {"order": 1},
    "matches": "ccnccccbcc",
    "sections": [{"start": 0}, {"start": 5}],
    "decimated frames": [2]
}`

type cliTestEnv struct {
	dir        string
	configPath string
	cachePath  string
}

func setupCLITestEnv(t *testing.T, withCache bool) cliTestEnv {
	t.Helper()

	dir := t.TempDir()
	t.Setenv("HOME", dir)

	env := cliTestEnv{dir: dir}
	if withCache {
		env.cachePath = filepath.Join(dir, "cache", "scores.db")
	}
	env.configPath = testsupport.WriteFile(t, filepath.Join(dir, "config.toml"), fmt.Sprintf(`[paths]
log_dir = %q
score_cache = %q

[tools]
ffprobe = %q
`, filepath.Join(dir, "logs"), env.cachePath, filepath.Join(dir, "bin", "ffprobe")))
	return env
}

func (e cliTestEnv) project(t *testing.T, contents string) string {
	t.Helper()
	return testsupport.WriteProject(t, e.dir, "episode.wob", contents)
}

// stubFFprobe installs an ffprobe that prints report regardless of arguments.
func (e cliTestEnv) stubFFprobe(t *testing.T, report string) {
	t.Helper()
	reportPath := testsupport.WriteFile(t, filepath.Join(e.dir, "probe.json"), report)
	script := fmt.Sprintf("#!/bin/sh\ncat %q\n", reportPath)
	path := testsupport.WriteFile(t, filepath.Join(e.dir, "bin", "ffprobe"), script)
	if err := os.Chmod(path, 0o755); err != nil {
		t.Fatalf("chmod stub: %v", err)
	}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}
