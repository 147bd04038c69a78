package main

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"srtkit/internal/config"
	"srtkit/internal/history"
	"srtkit/internal/logging"
	"srtkit/internal/subtitles"
)

type commandContext struct {
	configFlag   *string
	encodingFlag *string
	logLevelFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag, encodingFlag, logLevelFlag *string) *commandContext {
	return &commandContext{
		configFlag:   configFlag,
		encodingFlag: encodingFlag,
		logLevelFlag: logLevelFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, _, _, err := config.Load(flagValue(c.configFlag))
		if err != nil {
			c.configErr = err
			return
		}
		if level := flagValue(c.logLevelFlag); level != "" {
			cfg.Logging.Level = strings.ToLower(level)
			if err := cfg.Validate(); err != nil {
				c.configErr = err
				return
			}
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		c.logger, c.loggerErr = logging.NewFromConfig(cfg)
	})
	return c.logger, c.loggerErr
}

func (c *commandContext) sourceEncoding(cfg *config.Config) string {
	if value := flagValue(c.encodingFlag); value != "" {
		return value
	}
	return cfg.Encoding.Source
}

// loadDocument reads path with the configured encoding handling.
func (c *commandContext) loadDocument(cmd *cobra.Command, path string) (*subtitles.Document, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, err
	}
	detector, err := cfg.Detector()
	if err != nil {
		return nil, err
	}
	expanded, err := config.ExpandPath(path)
	if err != nil {
		return nil, err
	}
	return subtitles.Load(cmd.Context(), expanded, subtitles.LoadOptions{
		Encoding: c.sourceEncoding(cfg),
		Detector: detector,
		Logger:   logging.NewComponentLogger(logger, "subtitles"),
	})
}

// withHistory opens the history database for the duration of fn.
func (c *commandContext) withHistory(fn func(*history.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	store, err := history.Open(cfg.Paths.HistoryDB)
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(store)
}

// stripOptions merges the [output] section with per-command overrides.
func stripOptions(cfg *config.Config, force, basic bool) subtitles.StripOptions {
	return subtitles.StripOptions{
		StripTags:    cfg.Output.StripTags || force || basic,
		StripBasic:   cfg.Output.StripBasic || basic,
		Replacements: cfg.Output.Replacements,
	}
}

func flagValue(flag *string) string {
	if flag == nil {
		return ""
	}
	return strings.TrimSpace(*flag)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
