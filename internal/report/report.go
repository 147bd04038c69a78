package report

import (
	"encoding/xml"
	"fmt"
	"html/template"
	"io"
	"strconv"
	"strings"

	"srtkit/internal/subtitles"
)

// Formats accepted by Render.
const (
	FormatTable = "table"
	FormatXML   = "xml"
	FormatHTML  = "html"
)

// Row is one bucket as rendered in every format.
type Row struct {
	Name    string
	Label   string
	Color   string
	Count   int
	Percent string
}

// Rows flattens stats into bucket order. Percentages are "0" when the stats
// are empty.
func Rows(stats subtitles.Stats) []Row {
	rows := make([]Row, 0, subtitles.BucketCount)
	for _, b := range subtitles.Buckets() {
		pct, err := stats.Percent(b)
		if err != nil {
			pct = 0
		}
		rows = append(rows, Row{
			Name:    b.Name(),
			Label:   b.Label(),
			Color:   b.Color(),
			Count:   stats.Count(b),
			Percent: formatPercent(pct),
		})
	}
	return rows
}

// Render writes stats to w in the named format.
func Render(w io.Writer, format, source string, stats subtitles.Stats) error {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case FormatXML:
		return XML(w, source, stats)
	case FormatHTML:
		return HTML(w, stats)
	case FormatTable, "":
		_, err := io.WriteString(w, Table(stats)+"\n")
		return err
	default:
		return fmt.Errorf("unknown report format %q", format)
	}
}

type xmlStatistics struct {
	XMLName xml.Name   `xml:"statistics"`
	File    string     `xml:"file,attr"`
	Ranges  []xmlRange `xml:"range"`
}

type xmlRange struct {
	Name    string `xml:"name,attr"`
	Color   string `xml:"color,attr"`
	Value   int    `xml:"value,attr"`
	Percent string `xml:"percent,attr"`
}

// XML writes a <statistics> document with one <range> per bucket.
func XML(w io.Writer, source string, stats subtitles.Stats) error {
	if stats.Total() == 0 {
		return subtitles.ErrEmptyDocument
	}
	doc := xmlStatistics{File: source}
	for _, row := range Rows(stats) {
		doc.Ranges = append(doc.Ranges, xmlRange{
			Name:    row.Name,
			Color:   row.Color,
			Value:   row.Count,
			Percent: row.Percent,
		})
	}
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode xml report: %w", err)
	}
	if err := enc.Close(); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

type htmlRow struct {
	Row
	Style template.CSS
}

var htmlTemplate = template.Must(template.New("stats").Parse(
	`<ul class="srt_stats">{{range .}}<li style="{{.Style}}">{{.Label}} = <span style="float:right;">{{.Count}} ({{.Percent}}%)</span></li>{{end}}</ul>`,
))

// HTML writes an unordered list with one coloured item per bucket.
func HTML(w io.Writer, stats subtitles.Stats) error {
	if stats.Total() == 0 {
		return subtitles.ErrEmptyDocument
	}
	rows := Rows(stats)
	items := make([]htmlRow, 0, len(rows))
	for _, row := range rows {
		items = append(items, htmlRow{Row: row, Style: template.CSS("background-color:" + row.Color)})
	}
	if err := htmlTemplate.Execute(w, items); err != nil {
		return fmt.Errorf("render html report: %w", err)
	}
	return nil
}

func formatPercent(p float64) string {
	return strconv.FormatFloat(p, 'f', -1, 64)
}
