package testsupport

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// Block is one cue written by SRT.
type Block struct {
	Start string
	Stop  string
	Text  string
}

// SRT renders blocks as a SubRip document with CRLF line endings and
// sequential indices.
func SRT(blocks ...Block) string {
	var b strings.Builder
	for i, block := range blocks {
		fmt.Fprintf(&b, "%d\r\n%s --> %s\r\n%s\r\n\r\n", i+1, block.Start, block.Stop,
			strings.ReplaceAll(block.Text, "\n", "\r\n"))
	}
	return b.String()
}

// WriteFile writes data to path, creating parent directories.
func WriteFile(t testing.TB, path string, data []byte) string {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// WriteSubtitle writes content under dir/name and returns the path.
func WriteSubtitle(t testing.TB, dir, name, content string) string {
	t.Helper()
	return WriteFile(t, filepath.Join(dir, name), []byte(content))
}

// ReadFile returns the contents of path or fails the test.
func ReadFile(t testing.TB, path string) string {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}
