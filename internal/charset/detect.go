package charset

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"

	"github.com/saintfish/chardet"
)

// Detector guesses the encoding label of raw subtitle bytes. A returned
// label of "unknown" is a valid answer.
type Detector interface {
	Detect(ctx context.Context, raw []byte) (string, error)
}

// DetectorFunc adapts a function to the Detector interface.
type DetectorFunc func(ctx context.Context, raw []byte) (string, error)

// Detect implements Detector.
func (f DetectorFunc) Detect(ctx context.Context, raw []byte) (string, error) {
	return f(ctx, raw)
}

// FileCommand asks file(1) for the MIME encoding of the bytes on stdin.
type FileCommand struct {
	Binary string
}

// Detect implements Detector.
func (f FileCommand) Detect(ctx context.Context, raw []byte) (string, error) {
	binary := strings.TrimSpace(f.Binary)
	if binary == "" {
		binary = "file"
	}
	cmd := exec.CommandContext(ctx, binary, "-b", "--mime-encoding", "-") //nolint:gosec
	cmd.Stdin = bytes.NewReader(raw)
	output, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("file encoding detection: %w", err)
	}
	return parseFileOutput(string(output)), nil
}

// parseFileOutput accepts both the bare "--mime-encoding" answer and the
// "text/plain; charset=utf-8" form printed by "file -i".
func parseFileOutput(output string) string {
	line := strings.TrimSpace(output)
	if idx := strings.IndexAny(line, "\r\n"); idx >= 0 {
		line = line[:idx]
	}
	if idx := strings.LastIndex(line, "="); idx >= 0 {
		line = line[idx+1:]
	} else if idx := strings.LastIndex(line, ": "); idx >= 0 {
		line = line[idx+2:]
	}
	return strings.TrimSpace(line)
}

// Heuristic guesses the charset in-process from byte statistics.
type Heuristic struct{}

// chardetAliases maps detector names onto labels the resolver understands.
var chardetAliases = map[string]string{
	"GB-18030": "gb18030",
}

// Detect implements Detector.
func (Heuristic) Detect(_ context.Context, raw []byte) (string, error) {
	if len(raw) == 0 {
		return "", errors.New("heuristic encoding detection: empty input")
	}
	result, err := chardet.NewTextDetector().DetectBest(raw)
	if err != nil {
		return "", fmt.Errorf("heuristic encoding detection: %w", err)
	}
	if alias, ok := chardetAliases[result.Charset]; ok {
		return alias, nil
	}
	return strings.ToLower(result.Charset), nil
}

// Chain tries each detector in order and returns the first non-empty label.
type Chain []Detector

// Detect implements Detector.
func (c Chain) Detect(ctx context.Context, raw []byte) (string, error) {
	var errs []error
	for _, d := range c {
		if d == nil {
			continue
		}
		label, err := d.Detect(ctx, raw)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if strings.TrimSpace(label) != "" {
			return label, nil
		}
	}
	if len(errs) > 0 {
		return "", errors.Join(errs...)
	}
	return "", nil
}

// Normalizer resolves a label (declared or detected) and decodes.
type Normalizer struct {
	Detector Detector
	Logger   *slog.Logger
}

// Normalize decodes raw using declared, or the detector's answer when
// declared is blank.
func (n Normalizer) Normalize(ctx context.Context, raw []byte, declared string) (Decoded, error) {
	label := strings.TrimSpace(declared)
	if label == "" {
		detected, err := n.detect(ctx, raw)
		if err != nil {
			return Decoded{}, err
		}
		label = detected
	}
	decoded, err := Decode(raw, label)
	if err != nil {
		return Decoded{}, err
	}
	if n.Logger != nil {
		n.Logger.Debug("subtitle bytes decoded",
			slog.String("label", label),
			slog.String("encoding", decoded.Encoding),
			slog.Bool("bom", decoded.HasBOM),
		)
	}
	return decoded, nil
}

func (n Normalizer) detect(ctx context.Context, raw []byte) (string, error) {
	if n.Detector == nil {
		return "", ErrEncodingUndetectable
	}
	label, err := n.Detector.Detect(ctx, raw)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrEncodingUndetectable, err)
	}
	label = strings.TrimSpace(label)
	if label == "" {
		return "", ErrEncodingUndetectable
	}
	if n.Logger != nil {
		n.Logger.Debug("encoding detected", slog.String("label", label))
	}
	return label, nil
}

// NewDetector builds the detector named by kind: "file", "heuristic", or
// "auto" (file(1) first, heuristic as fallback).
func NewDetector(kind, fileBinary string) (Detector, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "file":
		return FileCommand{Binary: fileBinary}, nil
	case "heuristic":
		return Heuristic{}, nil
	case "auto", "":
		return Chain{FileCommand{Binary: fileBinary}, Heuristic{}}, nil
	default:
		return nil, fmt.Errorf("unknown encoding detector %q", kind)
	}
}
