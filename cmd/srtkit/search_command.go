package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"srtkit/internal/report"
	"srtkit/internal/subtitles"
)

type searchHit struct {
	Index int    `json:"index"`
	Start string `json:"start"`
	Stop  string `json:"stop"`
	Text  string `json:"text"`
}

func newSearchCommand(ctx *commandContext) *cobra.Command {
	var opts subtitles.SearchOptions
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "search <file> <text>...",
		Short: "List cues containing a word or phrase",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := ctx.loadDocument(cmd, args[0])
			if err != nil {
				return err
			}
			query := strings.Join(args[1:], " ")
			positions, err := doc.Search(query, opts)
			if errors.Is(err, subtitles.ErrNoMatches) {
				if asJSON {
					return writeJSON(cmd, []searchHit{})
				}
				fmt.Fprintf(cmd.OutOrStdout(), "No cues match %q\n", query)
				return nil
			}
			if err != nil {
				return err
			}

			hits := make([]searchHit, 0, len(positions))
			for _, pos := range positions {
				c, _ := doc.Cue(pos)
				hits = append(hits, searchHit{
					Index: pos + 1,
					Start: c.StartTC(),
					Stop:  c.StopTC(),
					Text:  c.Flattened(),
				})
			}
			if asJSON {
				return writeJSON(cmd, hits)
			}

			rows := make([][]string, 0, len(hits))
			for _, hit := range hits {
				rows = append(rows, []string{strconv.Itoa(hit.Index), hit.Start, hit.Stop, hit.Text})
			}
			fmt.Fprintln(cmd.OutOrStdout(), report.RenderTable(
				[]string{"#", "Start", "Stop", "Text"},
				rows,
				[]report.Alignment{report.AlignRight, report.AlignLeft, report.AlignLeft, report.AlignLeft},
			))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&opts.CaseSensitive, "case-sensitive", "s", false, "Match letter case exactly")
	cmd.Flags().BoolVarP(&opts.Strict, "word", "w", false, "Only match whole words")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}
