package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"srtkit/internal/subtitles"
)

func newValidateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>...",
		Short: "Check that files parse as SubRip or WebVTT",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			failed := 0
			for _, path := range args {
				doc, err := ctx.loadDocument(cmd, path)
				switch {
				case err == nil:
					fmt.Fprintln(out, renderStatusLine(path, statusOK,
						fmt.Sprintf("%d cues, %s", doc.Len(), doc.Encoding()), colorize))
				case errors.Is(err, subtitles.ErrInvalidFormat):
					failed++
					fmt.Fprintln(out, renderStatusLine(path, statusError, "no cue blocks found", colorize))
				default:
					failed++
					fmt.Fprintln(out, renderStatusLine(path, statusError, err.Error(), colorize))
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d files failed validation", failed, len(args))
			}
			return nil
		},
	}
}
