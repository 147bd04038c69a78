// Package history persists reading-speed statistics runs in SQLite so the
// CLI can show how a subtitle file's pacing changed across edits.
package history
