package report

import (
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"srtkit/internal/subtitles"
)

// Alignment selects the horizontal alignment of a table column.
type Alignment int

const (
	AlignLeft Alignment = iota
	AlignRight
)

// RenderTable draws rows under headers with rounded borders. Short rows are
// padded with empty cells.
func RenderTable(headers []string, rows [][]string, aligns []Alignment) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, columns)
	for i := 0; i < columns; i++ {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := 0; i < columns; i++ {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	columnConfigs := make([]table.ColumnConfig, 0, columns)
	for i := 0; i < columns; i++ {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == AlignRight {
			align = text.AlignRight
		}
		columnConfigs = append(columnConfigs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(columnConfigs)

	return tw.Render()
}

// Table renders stats as a bucket/count/percent table with a total row.
func Table(stats subtitles.Stats) string {
	rows := make([][]string, 0, subtitles.BucketCount+1)
	for _, row := range Rows(stats) {
		rows = append(rows, []string{row.Label, row.Name, strconv.Itoa(row.Count), row.Percent + "%"})
	}
	rows = append(rows, []string{"Total", "", strconv.Itoa(stats.Total()), ""})
	return RenderTable(
		[]string{"Reading speed", "Bucket", "Cues", "Share"},
		rows,
		[]Alignment{AlignLeft, AlignLeft, AlignRight, AlignRight},
	)
}
