package charset

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func TestParseFileOutput(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"utf-8\n", "utf-8"},
		{"text/plain; charset=iso-8859-1\n", "iso-8859-1"},
		{"/dev/stdin: text/plain; charset=unknown-8bit", "unknown-8bit"},
		{"movie.srt: us-ascii", "us-ascii"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := parseFileOutput(tc.in); got != tc.want {
			t.Fatalf("parseFileOutput(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFileCommandRunsBinary(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell stub requires a POSIX shell")
	}
	dir := t.TempDir()
	stub := filepath.Join(dir, "file")
	script := "#!/bin/sh\ncat >/dev/null\necho 'text/plain; charset=utf-16le'\n"
	if err := os.WriteFile(stub, []byte(script), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}

	label, err := FileCommand{Binary: stub}.Detect(context.Background(), []byte("data"))
	if err != nil {
		t.Fatalf("Detect error: %v", err)
	}
	if label != "utf-16le" {
		t.Fatalf("Detect = %q, want utf-16le", label)
	}
}

func TestFileCommandMissingBinary(t *testing.T) {
	_, err := FileCommand{Binary: filepath.Join(t.TempDir(), "missing")}.Detect(context.Background(), []byte("x"))
	if err == nil {
		t.Fatal("expected error for missing binary")
	}
}

func TestHeuristicDetectsUTF8(t *testing.T) {
	sample := []byte(strings.Repeat("Voilà déjà l'été à Montréal, où ça bouge. ", 8))
	label, err := Heuristic{}.Detect(context.Background(), sample)
	if err != nil {
		t.Fatalf("Detect error: %v", err)
	}
	if label != "utf-8" {
		t.Fatalf("Detect = %q, want utf-8", label)
	}
	if _, err := (Heuristic{}).Detect(context.Background(), nil); err == nil {
		t.Fatal("expected error for empty input")
	}
}

func TestChainFallsThrough(t *testing.T) {
	failing := DetectorFunc(func(context.Context, []byte) (string, error) {
		return "", errors.New("boom")
	})
	empty := DetectorFunc(func(context.Context, []byte) (string, error) {
		return "", nil
	})
	fixed := DetectorFunc(func(context.Context, []byte) (string, error) {
		return "iso-8859-1", nil
	})

	label, err := Chain{failing, empty, fixed}.Detect(context.Background(), nil)
	if err != nil || label != "iso-8859-1" {
		t.Fatalf("Chain = %q, %v", label, err)
	}
	if _, err := (Chain{failing}).Detect(context.Background(), nil); err == nil {
		t.Fatal("expected error when every detector fails")
	}
}

func TestNormalizer(t *testing.T) {
	ctx := context.Background()
	unknown := DetectorFunc(func(context.Context, []byte) (string, error) {
		return "unknown", nil
	})

	got, err := Normalizer{Detector: unknown}.Normalize(ctx, []byte{0x80}, "")
	if err != nil {
		t.Fatalf("Normalize error: %v", err)
	}
	if got.Text != "€" || got.Encoding != DefaultEncoding {
		t.Fatalf("unexpected result: %+v", got)
	}

	got, err = Normalizer{Detector: unknown}.Normalize(ctx, []byte("é"), "utf-8")
	if err != nil || got.Text != "é" {
		t.Fatalf("declared label must bypass detection: %+v, %v", got, err)
	}

	blank := DetectorFunc(func(context.Context, []byte) (string, error) { return " ", nil })
	if _, err := (Normalizer{Detector: blank}).Normalize(ctx, []byte("x"), ""); !errors.Is(err, ErrEncodingUndetectable) {
		t.Fatalf("expected ErrEncodingUndetectable, got %v", err)
	}
	if _, err := (Normalizer{}).Normalize(ctx, []byte("x"), ""); !errors.Is(err, ErrEncodingUndetectable) {
		t.Fatalf("expected ErrEncodingUndetectable without detector, got %v", err)
	}
}

func TestNewDetector(t *testing.T) {
	for _, kind := range []string{"file", "heuristic", "auto", ""} {
		if _, err := NewDetector(kind, ""); err != nil {
			t.Fatalf("NewDetector(%q) error: %v", kind, err)
		}
	}
	if _, err := NewDetector("magic", ""); err == nil {
		t.Fatal("expected error for unknown detector kind")
	}
}
