package fileutil

import (
	"bytes"
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

var (
	// ErrNotFound indicates the source path does not exist.
	ErrNotFound = errors.New("source not found")
	// ErrUnreadable indicates the source exists but could not be read.
	ErrUnreadable = errors.New("source unreadable")
	// ErrWriteFailed indicates the destination could not be written.
	ErrWriteFailed = errors.New("write failure")
)

const lockRetryDelay = 50 * time.Millisecond

// ReadSource reads path fully, classifying failures as ErrNotFound or
// ErrUnreadable.
func ReadSource(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err == nil {
		return data, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	return nil, fmt.Errorf("%w: %s: %w", ErrUnreadable, path, err)
}

// LockPath returns the advisory lock file guarding writes to path.
func LockPath(path string) string {
	return path + ".lock"
}

// WriteFileLocked replaces path with data while holding an advisory lock on
// LockPath(path). The content is staged in a temp file in the same directory
// and renamed into place. An existing target keeps its permission bits; perm
// applies only to new files. The lock file is left in place so every writer
// locks the same inode.
func WriteFileLocked(ctx context.Context, path string, data []byte, perm os.FileMode) error {
	lock := flock.New(LockPath(path))
	ok, err := lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return fmt.Errorf("%w: lock %s: %w", ErrWriteFailed, path, err)
	}
	if !ok {
		return fmt.Errorf("%w: lock %s: not acquired", ErrWriteFailed, path)
	}
	defer func() { _ = lock.Unlock() }()

	if info, err := os.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrWriteFailed, path, err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("%w: %s: %w", ErrWriteFailed, path, err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("%w: %s: %w", ErrWriteFailed, path, err)
	}
	if err := os.Chmod(tmpName, perm); err != nil {
		cleanup()
		return fmt.Errorf("%w: %s: %w", ErrWriteFailed, path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		cleanup()
		return fmt.Errorf("%w: %s: %w", ErrWriteFailed, path, err)
	}
	return nil
}

// Backup copies an existing file into dir (or next to it when dir is empty)
// with a timestamped name. It returns "" without error when path does not
// exist yet.
func Backup(path, dir string, now time.Time) (string, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("stat backup source: %w", err)
	}
	if dir == "" {
		dir = filepath.Dir(path)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create backup dir: %w", err)
	}
	name := fmt.Sprintf("%s.%s.bak", filepath.Base(path), now.UTC().Format("20060102T150405"))
	dst := filepath.Join(dir, name)
	if err := CopyFileVerified(path, dst); err != nil {
		return "", fmt.Errorf("backup %s: %w", path, err)
	}
	return dst, nil
}

// CopyFileVerified streams src to dst with SHA256 + size integrity verification.
// Removes dst on mismatch.
func CopyFileVerified(src, dst string) error {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("stat source: %w", err)
	}
	srcSize := srcInfo.Size()

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, srcInfo.Mode().Perm())
	if err != nil {
		return err
	}
	defer func() {
		_ = out.Close()
	}()

	srcHasher := sha256.New()
	dstHasher := sha256.New()
	tee := io.TeeReader(in, srcHasher)
	multi := io.MultiWriter(out, dstHasher)

	written, err := io.Copy(multi, tee)
	if err != nil {
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}

	if written != srcSize {
		_ = os.Remove(dst)
		return fmt.Errorf("copy size mismatch: source %d bytes, copied %d bytes", srcSize, written)
	}

	if !bytes.Equal(srcHasher.Sum(nil), dstHasher.Sum(nil)) {
		_ = os.Remove(dst)
		return fmt.Errorf("copy hash mismatch: file corrupted during copy")
	}

	return nil
}
