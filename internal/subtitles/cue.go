package subtitles

import (
	"math"
	"strings"
	"unicode/utf8"

	"srtkit/internal/textutil"
	"srtkit/internal/timecode"
)

const (
	// readingSpeedOffset is subtracted from every duration before the
	// reading-speed division.
	readingSpeedOffset = 500
	// minReadingDuration replaces durations at or below the offset.
	minReadingDuration = readingSpeedOffset + 1
)

// cueTrimSet matches the characters trimmed from raw cue text.
const cueTrimSet = " \t\n\r\x00\x0B"

// StripOptions selects how cue text is rendered. StripTags removes {...}
// override blocks and applies Replacements; StripBasic additionally removes
// HTML-like markup such as <i> and <b>.
type StripOptions struct {
	StripTags    bool
	StripBasic   bool
	Replacements []textutil.Replacement
}

// Metrics is a snapshot of the values derived from one cue.
type Metrics struct {
	Visible      string
	Flattened    string
	Chars        int
	DurationMS   int64
	CPS          float64
	ReadingSpeed float64
}

// Cue is one subtitle display unit. Textual and millisecond timecodes are
// kept consistent by every setter; derived values are computed on demand.
type Cue struct {
	startTC string
	stopTC  string
	startMS int64
	stopMS  int64
	text    string
}

// NewCue builds a cue from textual timecodes. The text is trimmed once.
func NewCue(startTC, stopTC, text string) *Cue {
	return &Cue{
		startTC: startTC,
		stopTC:  stopTC,
		startMS: timecode.Parse(startTC),
		stopMS:  timecode.Parse(stopTC),
		text:    strings.Trim(text, cueTrimSet),
	}
}

// NewCueMS builds a cue from millisecond offsets.
func NewCueMS(startMS, stopMS int64, text string) *Cue {
	return &Cue{
		startTC: timecode.Format(startMS),
		stopTC:  timecode.Format(stopMS),
		startMS: startMS,
		stopMS:  stopMS,
		text:    strings.Trim(text, cueTrimSet),
	}
}

func (c *Cue) StartTC() string { return c.startTC }
func (c *Cue) StopTC() string  { return c.stopTC }
func (c *Cue) Start() int64    { return c.startMS }
func (c *Cue) Stop() int64     { return c.stopMS }

// Text returns the raw payload.
func (c *Cue) Text() string { return c.text }

// TextWith returns the raw payload, or the visible text when opts.StripTags
// is set.
func (c *Cue) TextWith(opts StripOptions) string {
	if !opts.StripTags {
		return c.text
	}
	visible, _ := c.StripTags(opts.StripBasic, opts.Replacements)
	return visible
}

// StripTags computes the visible text: markup removed when basic is set,
// {...} blocks removed, then replacements applied in order. The boolean
// reports whether the result differs from the raw text.
func (c *Cue) StripTags(basic bool, replacements []textutil.Replacement) (string, bool) {
	visible := c.text
	if basic {
		visible = textutil.StripMarkup(visible)
	}
	visible = textutil.StripStyleBlocks(visible)
	if len(replacements) > 0 {
		visible = textutil.ApplyReplacements(visible, replacements)
		visible = strings.ToValidUTF8(visible, "")
	}
	return visible, visible != c.text
}

// Flattened is the visible text with markup stripped and every line break
// replaced by a space. It is used only for measurement.
func (c *Cue) Flattened() string {
	visible, _ := c.StripTags(true, nil)
	return textutil.FlattenLineBreaks(visible)
}

// CharLength counts the runes of Flattened.
func (c *Cue) CharLength() int {
	return utf8.RuneCountInString(c.Flattened())
}

// Duration is stop minus start and may be zero or negative.
func (c *Cue) Duration() int64 {
	return c.stopMS - c.startMS
}

// CPS is characters per second rounded to one decimal. A zero duration
// yields 0.
func (c *Cue) CPS() float64 {
	return cps(c.CharLength(), c.Duration())
}

// ReadingSpeed is the VisualSubSync metric chars*1000/(duration-500), with
// durations of 500 ms or less treated as 501 ms.
func (c *Cue) ReadingSpeed() float64 {
	return readingSpeed(c.CharLength(), c.Duration())
}

// Metrics computes every derived value in one pass.
func (c *Cue) Metrics() Metrics {
	visible, _ := c.StripTags(true, nil)
	flat := textutil.FlattenLineBreaks(visible)
	chars := utf8.RuneCountInString(flat)
	duration := c.Duration()
	return Metrics{
		Visible:      visible,
		Flattened:    flat,
		Chars:        chars,
		DurationMS:   duration,
		CPS:          cps(chars, duration),
		ReadingSpeed: readingSpeed(chars, duration),
	}
}

// SetText replaces the raw payload as given.
func (c *Cue) SetText(text string) { c.text = text }

// SetStartTC sets the start from a textual timecode.
func (c *Cue) SetStartTC(tc string) {
	c.startTC = tc
	c.startMS = timecode.Parse(tc)
}

// SetStopTC sets the stop from a textual timecode.
func (c *Cue) SetStopTC(tc string) {
	c.stopTC = tc
	c.stopMS = timecode.Parse(tc)
}

// SetStart sets the start in milliseconds and regenerates its timecode.
func (c *Cue) SetStart(ms int64) {
	c.startMS = ms
	c.startTC = timecode.Format(ms)
}

// SetStop sets the stop in milliseconds and regenerates its timecode.
func (c *Cue) SetStop(ms int64) {
	c.stopMS = ms
	c.stopTC = timecode.Format(ms)
}

// TimecodeLine renders "start --> stop" with the separator of the target
// format.
func (c *Cue) TimecodeLine(vtt bool) string {
	line := c.startTC + " --> " + c.stopTC
	if vtt {
		return timecode.ToVTT(line)
	}
	return timecode.ToSRT(line)
}

func cps(chars int, durationMS int64) float64 {
	if durationMS == 0 {
		return 0
	}
	return round1(float64(chars) / (float64(durationMS) / 1000))
}

func readingSpeed(chars int, durationMS int64) float64 {
	if durationMS <= readingSpeedOffset {
		durationMS = minReadingDuration
	}
	return float64(chars) * 1000 / float64(durationMS-readingSpeedOffset)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
