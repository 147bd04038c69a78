package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"srtkit/internal/subtitles"
	"srtkit/internal/timecode"
)

type documentInfo struct {
	Source   string `json:"source"`
	Format   string `json:"format"`
	Encoding string `json:"encoding"`
	BOM      bool   `json:"bom"`
	Cues     int    `json:"cues"`
	Start    string `json:"start,omitempty"`
	Stop     string `json:"stop,omitempty"`
	Inverted int    `json:"inverted"`
}

func newInfoCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "info <file>",
		Short: "Show format, encoding, and cue count of a subtitle file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := ctx.loadDocument(cmd, args[0])
			if err != nil {
				return err
			}
			info := describeDocument(doc)
			if asJSON {
				return writeJSON(cmd, info)
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			fmt.Fprintln(out, renderField("Source", info.Source))
			fmt.Fprintln(out, renderField("Format", info.Format))
			fmt.Fprintln(out, renderField("Encoding", info.Encoding))
			fmt.Fprintln(out, renderField("BOM", yesNo(info.BOM)))
			fmt.Fprintln(out, renderField("Cues", strconv.Itoa(info.Cues)))
			if info.Cues > 0 {
				fmt.Fprintln(out, renderField("Span", info.Start+" - "+info.Stop))
			}
			if info.Inverted > 0 {
				fmt.Fprintln(out, renderStatusLine("Timing", statusWarn,
					fmt.Sprintf("%d cues stop before they start", info.Inverted), colorize))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

func describeDocument(doc *subtitles.Document) documentInfo {
	info := documentInfo{
		Source:   doc.Source(),
		Format:   "SubRip",
		Encoding: doc.Encoding(),
		BOM:      doc.HasBOM(),
		Cues:     doc.Len(),
	}
	if doc.WebVTT() {
		info.Format = "WebVTT"
	}
	cues := doc.Cues()
	if len(cues) == 0 {
		return info
	}
	first, last := cues[0].Start(), cues[0].Stop()
	for _, c := range cues {
		first = min(first, c.Start())
		last = max(last, c.Stop())
		if c.Duration() < 0 {
			info.Inverted++
		}
	}
	info.Start = timecode.Format(first)
	info.Stop = timecode.Format(last)
	return info
}
