package subtitles

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"srtkit/internal/charset"
	"srtkit/internal/fileutil"
	"srtkit/internal/logging"
	"srtkit/internal/timecode"
)

const (
	lineBreak   = `(?:\r\n|\r|\n)`
	timecodeExp = `[0-9]{2}:[0-9]{2}:[0-9]{2}[,.][0-9]{3}`
)

// cuePattern matches one block: index line, timecode line, lazily matched
// text lines, blank separator.
var cuePattern = regexp.MustCompile(
	`[0-9]+` + lineBreak +
		`(` + timecodeExp + `) --> (` + timecodeExp + `)` + lineBreak +
		`((?:.*` + lineBreak + `)*?)` + lineBreak,
)

// blockPadding is appended before matching so a final block without its
// blank separator still matches.
const blockPadding = "\n\n"

// LoadOptions controls how raw bytes become a Document.
//
// Encoding is the declared source encoding; empty means detect. Detector
// guesses the encoding when none is declared and defaults to file(1)
// followed by the in-process heuristic.
type LoadOptions struct {
	Encoding string
	Detector charset.Detector
	Logger   *slog.Logger
}

// Valid reports whether text contains at least one cue block.
func Valid(text string) bool {
	return cuePattern.MatchString(text + blockPadding)
}

// ValidFile reads path and runs Valid on its bytes.
func ValidFile(path string) (bool, error) {
	raw, err := fileutil.ReadSource(path)
	if err != nil {
		return false, wrap("validate", path, err)
	}
	return Valid(string(raw)), nil
}

// Parse builds a Document from already decoded text. The document's encoding
// is UTF-8 without a BOM.
func Parse(name, text string) (*Document, error) {
	doc := &Document{source: name, encoding: charset.UTF8}
	if err := doc.parse(text); err != nil {
		return nil, err
	}
	return doc, nil
}

// Load reads path, decodes it, and parses the result.
func Load(ctx context.Context, path string, opts LoadOptions) (*Document, error) {
	raw, err := fileutil.ReadSource(path)
	if err != nil {
		return nil, wrap("load", path, err)
	}
	return FromBytes(ctx, path, raw, opts)
}

// FromBytes decodes raw and parses it under the given source name.
func FromBytes(ctx context.Context, name string, raw []byte, opts LoadOptions) (*Document, error) {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	if len(raw) == 0 {
		return nil, wrap("load", name, fmt.Errorf("%w: empty file", ErrUnreadableSource))
	}

	detector := opts.Detector
	declared := strings.TrimSpace(opts.Encoding)
	if detector == nil && declared == "" {
		detector = charset.Chain{charset.FileCommand{}, charset.Heuristic{}}
	}
	normalizer := charset.Normalizer{Detector: detector, Logger: logger}
	decoded, err := normalizer.Normalize(ctx, raw, declared)
	if err != nil {
		return nil, wrap("decode", name, err)
	}

	doc := &Document{
		source:   name,
		encoding: decoded.Encoding,
		hasBOM:   decoded.HasBOM,
	}
	if err := doc.parse(decoded.Text); err != nil {
		return nil, err
	}

	if inverted := doc.countInverted(); inverted > 0 {
		logging.WarnWithContext(logger, "cues with stop before start", "inverted_cues",
			logging.String(logging.FieldSource, name),
			logging.Int("count", inverted),
			logging.String(logging.FieldImpact, "durations of these cues are negative"),
		)
	}
	logger.Debug("subtitle document loaded",
		logging.String(logging.FieldSource, name),
		logging.String("encoding", doc.encoding),
		logging.Int("cues", len(doc.cues)),
		logging.Bool("webvtt", doc.webVTT),
	)
	return doc, nil
}

func (d *Document) parse(text string) error {
	matches := cuePattern.FindAllStringSubmatch(text+blockPadding, -1)
	if len(matches) == 0 {
		return wrap("parse", d.source, ErrInvalidFormat)
	}
	d.webVTT = timecode.IsVTT(matches[0][1])
	d.cues = make([]*Cue, 0, len(matches))
	for _, m := range matches {
		d.cues = append(d.cues, NewCue(m[1], m[2], m[3]))
	}
	return nil
}

func (d *Document) countInverted() int {
	n := 0
	for _, c := range d.cues {
		if c.Duration() < 0 {
			n++
		}
	}
	return n
}
