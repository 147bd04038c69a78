// Package logging assembles structured slog loggers and attribute helpers
// used across srtkit.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and provides a no-op logger for library code that is handed no
// logger. Library packages accept a *slog.Logger and tag their lines with a
// component through NewComponentLogger; the CLI builds the root logger from
// the [logging] configuration section.
package logging
