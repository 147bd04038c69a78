package config

import (
	"fmt"
	"os"
	"strings"

	"srtkit/internal/charset"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeEncoding(); err != nil {
		return err
	}
	c.normalizeOutput()
	c.normalizeStats()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if c.Paths.HistoryDB, err = expandPath(c.Paths.HistoryDB); err != nil {
		return fmt.Errorf("paths.history_db: %w", err)
	}
	if c.Paths.BackupDir, err = expandPath(c.Paths.BackupDir); err != nil {
		return fmt.Errorf("paths.backup_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeEncoding() error {
	c.Encoding.Source = strings.TrimSpace(c.Encoding.Source)
	if c.Encoding.Source == "" {
		if value, ok := os.LookupEnv("SRTKIT_ENCODING"); ok {
			c.Encoding.Source = strings.TrimSpace(value)
		}
	}
	if c.Encoding.Source != "" {
		canonical, err := charset.Canonical(c.Encoding.Source)
		if err != nil {
			return fmt.Errorf("encoding.source: %w", err)
		}
		c.Encoding.Source = canonical
	}

	c.Encoding.Detector = strings.ToLower(strings.TrimSpace(c.Encoding.Detector))
	if c.Encoding.Detector == "" {
		c.Encoding.Detector = defaultDetector
	}
	c.Encoding.FileBinary = strings.TrimSpace(c.Encoding.FileBinary)
	if c.Encoding.FileBinary == "" {
		c.Encoding.FileBinary = defaultFileBinary
	}
	return nil
}

func (c *Config) normalizeOutput() {
	if c.Output.StripBasic {
		c.Output.StripTags = true
	}
	kept := c.Output.Replacements[:0]
	for _, r := range c.Output.Replacements {
		if r.Old == "" {
			continue
		}
		kept = append(kept, r)
	}
	c.Output.Replacements = kept
}

func (c *Config) normalizeStats() {
	c.Stats.Format = strings.ToLower(strings.TrimSpace(c.Stats.Format))
	if c.Stats.Format == "" {
		c.Stats.Format = defaultStatsFormat
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
