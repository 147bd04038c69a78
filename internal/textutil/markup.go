package textutil

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

var (
	styleBlockPattern = regexp.MustCompile(`{[^}]+}`)
	lineBreakPattern  = regexp.MustCompile(`\r\n|\n|\r`)
)

// Replacement is one literal substring substitution.
type Replacement struct {
	Old string `toml:"old"`
	New string `toml:"new"`
}

// StripStyleBlocks removes every {...} override block.
func StripStyleBlocks(text string) string {
	return styleBlockPattern.ReplaceAllString(text, "")
}

// StripMarkup removes HTML-like tags, comments, and doctype declarations while
// keeping the surrounding text untouched. A '<' that does not open a tag is
// kept as text.
func StripMarkup(text string) string {
	if !strings.Contains(text, "<") {
		return text
	}
	z := html.NewTokenizer(strings.NewReader(text))
	var b strings.Builder
	b.Grow(len(text))
	for {
		switch z.Next() {
		case html.ErrorToken:
			// io.EOF for a strings.Reader; an unterminated tag is dropped.
			return b.String()
		case html.TextToken:
			b.Write(z.Raw())
		}
	}
}

// FlattenLineBreaks replaces each \r\n, \n, or \r with a single space.
func FlattenLineBreaks(text string) string {
	return lineBreakPattern.ReplaceAllString(text, " ")
}

// ApplyReplacements applies replacements in order, each one operating on the
// output of the previous. Entries with an empty Old value are skipped.
func ApplyReplacements(text string, replacements []Replacement) string {
	for _, r := range replacements {
		if r.Old == "" {
			continue
		}
		text = strings.ReplaceAll(text, r.Old, r.New)
	}
	return text
}
