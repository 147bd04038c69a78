package testsupport

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"srtkit/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config whose paths live under a per-test temp
// directory. Detection defaults to the in-process heuristic so tests do not
// depend on file(1) being installed.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.HistoryDB = filepath.Join(base, "history", "history.db")
	cfgVal.Paths.BackupDir = filepath.Join(base, "backups")
	cfgVal.Encoding.Detector = "heuristic"
	cfgVal.Logging.Level = "error"

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithSourceEncoding declares the encoding of every input.
func WithSourceEncoding(label string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Encoding.Source = label
	}
}

// WithStatsFormat selects the report format.
func WithStatsFormat(format string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Stats.Format = format
	}
}

// WithStubbedFileCommand writes a file(1) stand-in that prints output and
// points the config at it with the "file" detector selected.
func WithStubbedFileCommand(output string) ConfigOption {
	return func(b *configBuilder) {
		if runtime.GOOS == "windows" {
			b.t.Skip("shell stubs are not supported on windows")
		}
		binDir := filepath.Join(b.baseDir, "bin")
		if err := os.MkdirAll(binDir, 0o755); err != nil {
			b.t.Fatalf("mkdir bin dir: %v", err)
		}
		target := filepath.Join(binDir, "file")
		script := []byte("#!/bin/sh\nprintf '%s\\n' '" + output + "'\n")
		if err := os.WriteFile(target, script, 0o755); err != nil {
			b.t.Fatalf("write stub %s: %v", target, err)
		}
		b.cfg.Encoding.Detector = "file"
		b.cfg.Encoding.FileBinary = target
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.LogDir)
}
