package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"srtkit/internal/config"
	"srtkit/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	workDir    string
}

var sampleBlocks = []testsupport.Block{
	{Start: "00:00:01,000", Stop: "00:00:02,500", Text: "Hello there"},
	{Start: "00:00:05,000", Stop: "00:00:06,500", Text: "<i>General Kenobi</i>"},
	{Start: "00:00:03,000", Stop: "00:00:04,000", Text: "You are a bold one"},
}

func setupCLITestEnv(t *testing.T, opts ...testsupport.ConfigOption) *cliTestEnv {
	t.Helper()

	opts = append([]testsupport.ConfigOption{testsupport.WithSourceEncoding("UTF-8")}, opts...)
	cfg := testsupport.NewConfig(t, opts...)
	base := testsupport.BaseDir(cfg)
	t.Setenv("HOME", filepath.Join(base, "home"))
	t.Setenv("SRTKIT_ENCODING", "")

	configPath := filepath.Join(base, "srtkit.toml")
	writeTestConfig(t, configPath, cfg)

	workDir := filepath.Join(base, "work")
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		t.Fatalf("mkdir work dir: %v", err)
	}
	return &cliTestEnv{cfg: cfg, configPath: configPath, workDir: workDir}
}

func (e *cliTestEnv) writeSample(t *testing.T, name string) string {
	t.Helper()
	return testsupport.WriteSubtitle(t, e.workDir, name, testsupport.SRT(sampleBlocks...))
}

func (e *cliTestEnv) run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	return runCLI(t, args, e.configPath)
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

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	data, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

func requireNotContains(t *testing.T, output, substr string) {
	t.Helper()
	if strings.Contains(output, substr) {
		t.Fatalf("expected %q not to contain %q", output, substr)
	}
}
