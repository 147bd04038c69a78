package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"srtkit/internal/charset"
	"srtkit/internal/textutil"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains the on-disk locations srtkit writes to. An empty BackupDir
// keeps backups next to the file being replaced.
type Paths struct {
	LogDir    string `toml:"log_dir"`
	HistoryDB string `toml:"history_db"`
	BackupDir string `toml:"backup_dir"`
}

// Encoding controls how sources without a BOM are decoded. Source declares
// the encoding of every input and skips detection; when it is empty the
// Detector ("auto", "file", or "heuristic") guesses one per file.
type Encoding struct {
	Source     string `toml:"source"`
	Detector   string `toml:"detector"`
	FileBinary string `toml:"file_binary"`
}

// Output controls text rewriting and file replacement when documents are
// saved.
type Output struct {
	StripTags    bool                   `toml:"strip_tags"`
	StripBasic   bool                   `toml:"strip_basic"`
	WebVTT       bool                   `toml:"webvtt"`
	Backup       bool                   `toml:"backup"`
	Replacements []textutil.Replacement `toml:"replacements"`
}

// Stats controls reading-speed report rendering and history recording.
type Stats struct {
	Format string `toml:"format"`
	Record bool   `toml:"record"`
}

// Logging contains logging configuration.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for srtkit.
type Config struct {
	Paths    Paths    `toml:"paths"`
	Encoding Encoding `toml:"encoding"`
	Output   Output   `toml:"output"`
	Stats    Stats    `toml:"stats"`
	Logging  Logging  `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/srtkit/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("srtkit.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the log directory, the history database parent,
// and the backup directory when one is configured.
func (c *Config) EnsureDirectories() error {
	dirs := []string{c.Paths.LogDir}
	if c.Paths.HistoryDB != "" {
		dirs = append(dirs, filepath.Dir(c.Paths.HistoryDB))
	}
	if c.Paths.BackupDir != "" {
		dirs = append(dirs, c.Paths.BackupDir)
	}
	for _, dir := range dirs {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// Detector builds the encoding detector selected by encoding.detector.
func (c *Config) Detector() (charset.Detector, error) {
	return charset.NewDetector(c.Encoding.Detector, c.Encoding.FileBinary)
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
