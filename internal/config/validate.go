package config

import (
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateEncoding(); err != nil {
		return err
	}
	if err := c.validateStats(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateEncoding() error {
	switch c.Encoding.Detector {
	case "auto", "file", "heuristic":
		return nil
	default:
		return fmt.Errorf("encoding.detector must be one of auto, file, heuristic (got %q)", c.Encoding.Detector)
	}
}

func (c *Config) validateStats() error {
	switch c.Stats.Format {
	case "table", "xml", "html":
	default:
		return fmt.Errorf("stats.format must be one of table, xml, html (got %q)", c.Stats.Format)
	}
	if c.Stats.Record && c.Paths.HistoryDB == "" {
		return fmt.Errorf("paths.history_db must be set when stats.record is true")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
		return nil
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error (got %q)", c.Logging.Level)
	}
}
