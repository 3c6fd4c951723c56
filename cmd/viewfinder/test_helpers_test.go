package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type cliTestEnv struct {
	home       string
	repo       string
	scene      string
	configPath string
}

// setupCLITestEnv isolates HOME and cwd and copies the tabletop scene into
// <repo>/scenes so the repository can be derived from it.
func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	home := filepath.Join(base, "home")
	if err := os.MkdirAll(home, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", home)
	t.Setenv("NO_COLOR", "1")

	src, err := os.ReadFile(filepath.Join("..", "..", "examples", "scenes", "tabletop.scene"))
	if err != nil {
		t.Fatalf("read example scene: %v", err)
	}
	repo := filepath.Join(base, "capture")
	scene := filepath.Join(repo, "scenes", "tabletop.scene")
	if err := os.MkdirAll(filepath.Dir(scene), 0o755); err != nil {
		t.Fatalf("mkdir scenes: %v", err)
	}
	if err := os.WriteFile(scene, src, 0o644); err != nil {
		t.Fatalf("write scene: %v", err)
	}

	work := filepath.Join(base, "work")
	if err := os.MkdirAll(work, 0o755); err != nil {
		t.Fatalf("mkdir work: %v", err)
	}
	t.Chdir(work)

	return &cliTestEnv{
		home:       home,
		repo:       repo,
		scene:      scene,
		configPath: filepath.Join(base, "viewfinder.toml"),
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

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
