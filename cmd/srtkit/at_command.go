package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"srtkit/internal/timecode"
)

func newAtCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "at <file> <timecode|ms>",
		Short: "Show the cue displayed at a time, or the next one",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ms, err := parseTime(args[1])
			if err != nil {
				return err
			}
			doc, err := ctx.loadDocument(cmd, args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			idx := doc.CueAt(ms)
			c, ok := doc.Cue(idx)
			if !ok {
				fmt.Fprintf(out, "No cue at or after %s\n", timecode.Format(ms))
				return nil
			}
			state := "showing"
			if ms < c.Start() {
				state = "next"
			}
			fmt.Fprintln(out, renderField("Cue", fmt.Sprintf("#%d (%s)", idx+1, state)))
			fmt.Fprintln(out, renderField("Time", c.StartTC()+" --> "+c.StopTC()))
			fmt.Fprintln(out, renderField("Text", c.Flattened()))
			return nil
		},
	}
}

// parseTime accepts HH:MM:SS,mmm, HH:MM:SS.mmm, or a plain millisecond count.
func parseTime(value string) (int64, error) {
	value = strings.TrimSpace(value)
	if ms, err := strconv.ParseInt(value, 10, 64); err == nil {
		if ms < 0 {
			return 0, fmt.Errorf("time must not be negative: %d", ms)
		}
		return ms, nil
	}
	return timecode.ParseStrict(value)
}
