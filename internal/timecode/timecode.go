package timecode

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

const (
	// SRTSeparator is the fractional-second separator used by SubRip.
	SRTSeparator = ','
	// VTTSeparator is the fractional-second separator used by WebVTT.
	VTTSeparator = '.'
)

var strictPattern = regexp.MustCompile(`^[0-9]{2,}:[0-9]{2}:[0-9]{2}[,.][0-9]{3}$`)

// Parse converts a timecode into milliseconds. Fields are coerced leniently:
// anything that does not parse as a number counts as zero. The seconds field
// accepts either separator.
func Parse(text string) int64 {
	parts := strings.SplitN(strings.TrimSpace(text), ":", 3)
	var hours, minutes, seconds float64
	if len(parts) > 0 {
		hours = leadingNumber(parts[0])
	}
	if len(parts) > 1 {
		minutes = leadingNumber(parts[1])
	}
	if len(parts) > 2 {
		seconds = leadingNumber(strings.ReplaceAll(parts[2], ",", "."))
	}
	total := hours*3600*1000 + minutes*60*1000 + seconds*1000
	// Inputs carry millisecond precision; rounding absorbs float error such
	// as 1.001*1000 == 1000.9999999999999.
	return int64(math.Round(total))
}

// ParseStrict validates the HH:MM:SS{,|.}mmm shape before converting.
func ParseStrict(text string) (int64, error) {
	trimmed := strings.TrimSpace(text)
	if !strictPattern.MatchString(trimmed) {
		return 0, fmt.Errorf("invalid timecode %q", text)
	}
	return Parse(trimmed), nil
}

// Format renders milliseconds as HH:MM:SS,mmm.
func Format(ms int64) string {
	return format(ms, SRTSeparator)
}

// FormatVTT renders milliseconds as HH:MM:SS.mmm.
func FormatVTT(ms int64) string {
	return format(ms, VTTSeparator)
}

func format(ms int64, sep byte) string {
	seconds := float64(ms) / 1000
	millis := int64(math.Round((seconds - math.Trunc(seconds)) * 1000))

	whole := ms / 1000
	s := whole % 60
	m := (whole / 60) % 60
	h := (whole / 3600) % 24

	return fmt.Sprintf("%02d:%02d:%02d%c%03d", h, m, s, sep, millis)
}

// ToVTT rewrites the fractional separator of tc to a dot.
func ToVTT(tc string) string {
	return strings.ReplaceAll(tc, string(SRTSeparator), string(VTTSeparator))
}

// ToSRT rewrites the fractional separator of tc to a comma.
func ToSRT(tc string) string {
	return strings.ReplaceAll(tc, string(VTTSeparator), string(SRTSeparator))
}

// IsVTT reports whether tc uses the WebVTT fractional separator.
func IsVTT(tc string) bool {
	return strings.IndexByte(tc, VTTSeparator) >= 0
}

// leadingNumber mirrors loose numeric coercion: the longest numeric prefix
// is used and an empty prefix yields zero.
func leadingNumber(value string) float64 {
	value = strings.TrimSpace(value)
	end := 0
	seenDot := false
	for end < len(value) {
		c := value[end]
		if c >= '0' && c <= '9' {
			end++
			continue
		}
		if c == '.' && !seenDot {
			seenDot = true
			end++
			continue
		}
		if (c == '-' || c == '+') && end == 0 {
			end++
			continue
		}
		break
	}
	if end == 0 {
		return 0
	}
	n, err := strconv.ParseFloat(strings.TrimRight(value[:end], "."), 64)
	if err != nil {
		return 0
	}
	return n
}
