package subtitles

import (
	"regexp"
	"strings"
)

var adPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)opensubtitles`),
	regexp.MustCompile(`(?i)subtitles? by`),
	regexp.MustCompile(`(?i)synced? and corrected`),
	regexp.MustCompile(`(?i)advertise (your|yours?) product`),
	regexp.MustCompile(`(?i)http(s)?://`),
	regexp.MustCompile(`(?i)\bwww\.`),
	regexp.MustCompile(`(?i)\bsubscene\b`),
	regexp.MustCompile(`(?i)\byts\b`),
	regexp.MustCompile(`(?i)\byify\b`),
}

var trailingSpace = regexp.MustCompile(`[ \t]+(\r\n|\r|\n|$)`)

// CleanStats reports the effects of Clean.
type CleanStats struct {
	RemovedCues    int
	NormalizedCues int
}

// RemoveAdvertisements drops cues whose visible text looks like a subtitle
// site credit or advertisement and returns how many were removed.
func (d *Document) RemoveAdvertisements() int {
	kept := d.cues[:0]
	removed := 0
	for _, c := range d.cues {
		if isAdvertisement(c) {
			removed++
			continue
		}
		kept = append(kept, c)
	}
	for i := len(kept); i < len(d.cues); i++ {
		d.cues[i] = nil
	}
	d.cues = kept
	return removed
}

// Clean removes advertisement cues and strips trailing blanks from every
// remaining text line.
func (d *Document) Clean() CleanStats {
	stats := CleanStats{RemovedCues: d.RemoveAdvertisements()}
	for _, c := range d.cues {
		normalized := trailingSpace.ReplaceAllString(c.text, "$1")
		if normalized != c.text {
			c.SetText(normalized)
			stats.NormalizedCues++
		}
	}
	return stats
}

func isAdvertisement(c *Cue) bool {
	payload := strings.TrimSpace(c.Flattened())
	if payload == "" {
		return false
	}
	for _, pattern := range adPatterns {
		if pattern.MatchString(payload) {
			return true
		}
	}
	return false
}
