package backups

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"srtkit/internal/logging"
)

// Suffix is the extension carried by every backup file.
const Suffix = ".bak"

// Info describes one backup file.
type Info struct {
	Name    string
	Path    string
	ModTime time.Time
	Size    int64
}

// CleanResult contains the outcome of a cleanup pass.
type CleanResult struct {
	Removed []string
	Errors  []CleanupError
}

// CleanupError pairs a path with the error that stopped its removal.
type CleanupError struct {
	Path  string
	Error error
}

// List returns the backups in dir, newest first. A blank or missing dir
// yields no entries.
func List(dir string) ([]Info, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return nil, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var out []Info
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), Suffix) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		out = append(out, Info{
			Name:    entry.Name(),
			Path:    filepath.Join(dir, entry.Name()),
			ModTime: info.ModTime(),
			Size:    info.Size(),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ModTime.After(out[j].ModTime)
	})
	return out, nil
}

// CleanStale removes backups in dir last modified more than maxAge ago.
// Files without the backup suffix are never touched.
func CleanStale(ctx context.Context, dir string, maxAge time.Duration, logger *slog.Logger) CleanResult {
	result := CleanResult{}
	if logger == nil {
		logger = logging.NewNop()
	}

	dir = strings.TrimSpace(dir)
	if dir == "" {
		return result
	}
	entries, err := List(dir)
	if err != nil {
		result.Errors = append(result.Errors, CleanupError{Path: dir, Error: err})
		return result
	}

	cutoff := time.Now().Add(-maxAge)
	for _, entry := range entries {
		if ctx.Err() != nil {
			result.Errors = append(result.Errors, CleanupError{Path: dir, Error: ctx.Err()})
			return result
		}
		if !entry.ModTime.Before(cutoff) {
			continue
		}
		if err := os.Remove(entry.Path); err != nil {
			result.Errors = append(result.Errors, CleanupError{Path: entry.Path, Error: err})
			logging.WarnWithContext(logger, "failed to remove stale backup", "backup_cleanup_failed",
				logging.String("path", entry.Path),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check backup_dir permissions"),
				logging.String(logging.FieldImpact, "disk space not reclaimed"),
			)
			continue
		}
		result.Removed = append(result.Removed, entry.Path)
		logger.Info("removed stale backup",
			logging.String("path", entry.Path),
			logging.Duration("age", time.Since(entry.ModTime)),
			logging.String(logging.FieldEventType, "backup_cleanup"),
		)
	}
	return result
}
