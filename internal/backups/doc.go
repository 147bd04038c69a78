// Package backups lists and prunes the copies written before a subtitle file
// is replaced in place.
//
// Backups are plain files named <base>.<timestamp>.bak inside the configured
// backup directory. Nothing here reads their contents.
package backups
