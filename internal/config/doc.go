// Package config loads, normalizes, and validates srtkit configuration data.
//
// It supplies defaults, expands user paths (including tilde shortcuts), reads
// TOML files, and honours the SRTKIT_ENCODING environment fallback. The Config
// type gathers the settings the CLI needs: where logs, history, and backups
// live, how unknown encodings are detected, and how cue text is rewritten on
// output.
//
// Always obtain settings through this package so downstream code receives
// expanded paths, canonical detector names, and clear validation errors.
package config
