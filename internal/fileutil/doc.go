// Package fileutil holds the byte-level file contract used by subtitle
// loading and saving: classified reads, lock-guarded writes, and verified
// backups of files about to be overwritten.
package fileutil
