package subtitles

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"srtkit/internal/charset"
	"srtkit/internal/fileutil"
)

const (
	crlf      = "\r\n"
	vttHeader = "WEBVTT" + crlf + crlf
)

// Document is an ordered sequence of cues plus what is known about the
// bytes it came from.
type Document struct {
	source   string
	encoding string
	hasBOM   bool
	webVTT   bool
	cues     []*Cue
	stats    Stats
}

// NewDocument returns an empty UTF-8 document named source.
func NewDocument(source string) *Document {
	return &Document{source: source, encoding: charset.UTF8}
}

func (d *Document) Source() string   { return d.source }
func (d *Document) Encoding() string { return d.encoding }
func (d *Document) HasBOM() bool     { return d.hasBOM }
func (d *Document) WebVTT() bool     { return d.webVTT }
func (d *Document) Len() int         { return len(d.cues) }

// Cues returns a copy of the cue sequence. The cues themselves are shared.
func (d *Document) Cues() []*Cue {
	out := make([]*Cue, len(d.cues))
	copy(out, d.cues)
	return out
}

// Cue returns the cue at index i.
func (d *Document) Cue(i int) (*Cue, bool) {
	if i < 0 || i >= len(d.cues) {
		return nil, false
	}
	return d.cues[i], true
}

// Append adds cues at the end without reordering.
func (d *Document) Append(cues ...*Cue) {
	d.cues = append(d.cues, cues...)
}

// SetWebVTT switches the output format. Turning WebVTT on forces UTF-8
// output.
func (d *Document) SetWebVTT(on bool) {
	d.webVTT = on
	if on {
		d.encoding = charset.UTF8
	}
}

// SetEncoding overrides the encoding used by Encode and Save.
func (d *Document) SetEncoding(name string) error {
	canonical, err := charset.Canonical(name)
	if err != nil {
		return wrap("set encoding", d.source, err)
	}
	d.encoding = canonical
	return nil
}

// SearchOptions controls Search matching. Strict requires the match to be
// bounded by text edges, whitespace, or one of . , ! ? on both sides.
type SearchOptions struct {
	CaseSensitive bool
	Strict        bool
}

// Search returns the positions of cues whose raw text contains query.
// Spaces in query also match a line break. ErrNoMatches is returned when
// nothing matches.
func (d *Document) Search(query string, opts SearchOptions) ([]int, error) {
	if query == "" {
		return nil, wrap("search", d.source, fmt.Errorf("%w: empty query", ErrInvalidArgument))
	}
	re := searchPattern(query, opts)
	var hits []int
	for i, c := range d.cues {
		if re.MatchString(c.text) {
			hits = append(hits, i)
		}
	}
	if len(hits) == 0 {
		return nil, ErrNoMatches
	}
	return hits, nil
}

func searchPattern(query string, opts SearchOptions) *regexp.Regexp {
	pattern := strings.ReplaceAll(regexp.QuoteMeta(query), " ", `(?: |\r\n|\r|\n)`)
	if opts.Strict {
		pattern = `(?:^|\s|[.,!?])` + pattern + `(?:$|\s|[.,!?])`
	}
	if !opts.CaseSensitive {
		pattern = `(?i)` + pattern
	}
	return regexp.MustCompile(pattern)
}

// CueAt returns the index of the cue displayed at ms, or of the next cue when
// ms falls strictly inside the gap before it. Len() means no cue qualifies.
// Gap bounds are exclusive: ms equal to the previous cue's stop, and ms 0
// before a first cue starting later, both return Len().
func (d *Document) CueAt(ms int64) int {
	var prevStop int64
	for i, c := range d.cues {
		if (ms > prevStop && ms < c.startMS) || (ms >= c.startMS && ms < c.stopMS) {
			return i
		}
		prevStop = c.stopMS
	}
	return len(d.cues)
}

// Merge appends other's cues and re-sorts. other keeps its own sequence; the
// cue values are shared between both documents afterwards.
func (d *Document) Merge(other *Document) {
	if other == nil || other == d {
		return
	}
	d.cues = append(d.cues, other.cues...)
	d.Sort()
}

// Sort orders cues by start time. Cues with equal starts keep their relative
// order.
func (d *Document) Sort() {
	sort.SliceStable(d.cues, func(i, j int) bool {
		return d.cues[i].startMS < d.cues[j].startMS
	})
}

// Delete removes the cue at index; later cues shift down by one.
func (d *Document) Delete(index int) error {
	if index < 0 || index >= len(d.cues) {
		return wrap("delete", d.source, fmt.Errorf("%w: %d of %d", ErrCueIndex, index, len(d.cues)))
	}
	copy(d.cues[index:], d.cues[index+1:])
	d.cues[len(d.cues)-1] = nil
	d.cues = d.cues[:len(d.cues)-1]
	return nil
}

// ChangeFrameRate rescales every start and stop by newFPS/oldFPS, rounded to
// the nearest millisecond.
func (d *Document) ChangeFrameRate(oldFPS, newFPS float64) error {
	if !(oldFPS > 0) || !(newFPS > 0) || math.IsInf(oldFPS, 0) || math.IsInf(newFPS, 0) {
		return wrap("change frame rate", d.source,
			fmt.Errorf("%w: frame rates must be positive, got %v -> %v", ErrInvalidArgument, oldFPS, newFPS))
	}
	ratio := newFPS / oldFPS
	for _, c := range d.cues {
		start, stop := c.startMS, c.stopMS
		c.SetStart(int64(math.Round(float64(start) * ratio)))
		c.SetStop(int64(math.Round(float64(stop) * ratio)))
	}
	return nil
}

// Build serializes every cue.
func (d *Document) Build(opts StripOptions) string {
	return d.build(0, len(d.cues)-1, opts)
}

// BuildRange serializes cues from..to inclusive. A bound outside the valid
// index range is replaced by the first or last index respectively.
func (d *Document) BuildRange(from, to int, opts StripOptions) string {
	n := len(d.cues)
	if from < 0 || from >= n {
		from = 0
	}
	if to < 0 || to >= n {
		to = n - 1
	}
	return d.build(from, to, opts)
}

func (d *Document) build(from, to int, opts StripOptions) string {
	var b strings.Builder
	if d.webVTT {
		b.WriteString(vttHeader)
	}
	for i, j := 1, from; j <= to; i, j = i+1, j+1 {
		c := d.cues[j]
		b.WriteString(strconv.Itoa(i))
		b.WriteString(crlf)
		b.WriteString(c.TimecodeLine(d.webVTT))
		b.WriteString(crlf)
		b.WriteString(c.TextWith(opts))
		b.WriteString(crlf)
		b.WriteString(crlf)
	}
	return b.String()
}

// Encode converts serialized content to the document's encoding, restoring
// the BOM when the source had one.
func (d *Document) Encode(content string) ([]byte, error) {
	out, err := charset.Encode(content, d.encoding, d.hasBOM)
	if err != nil {
		return nil, wrap("encode", d.source, fmt.Errorf("%w: %w", ErrWriteFailure, err))
	}
	return out, nil
}

// SaveOptions controls Save. Backup copies an existing target into BackupDir
// (or beside it) before writing; Now stamps backup names and defaults to
// time.Now.
type SaveOptions struct {
	Backup    bool
	BackupDir string
	Now       func() time.Time
}

// SaveResult describes a completed save.
type SaveResult struct {
	Path       string
	BackupPath string
	Bytes      int
}

// Save encodes content and writes it to path (the source when path is
// empty) under an advisory lock.
func (d *Document) Save(ctx context.Context, path, content string, opts SaveOptions) (SaveResult, error) {
	if strings.TrimSpace(path) == "" {
		path = d.source
	}
	data, err := d.Encode(content)
	if err != nil {
		return SaveResult{}, err
	}
	result := SaveResult{Path: path, Bytes: len(data)}
	if opts.Backup {
		now := time.Now
		if opts.Now != nil {
			now = opts.Now
		}
		backup, err := fileutil.Backup(path, opts.BackupDir, now())
		if err != nil {
			return SaveResult{}, wrap("save", path, fmt.Errorf("%w: %w", ErrWriteFailure, err))
		}
		result.BackupPath = backup
	}
	if err := fileutil.WriteFileLocked(ctx, path, data, 0o644); err != nil {
		return SaveResult{}, wrap("save", path, err)
	}
	return result, nil
}
