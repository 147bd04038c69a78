package main

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"srtkit/internal/subtitles"
)

func newSortCommand(ctx *commandContext) *cobra.Command {
	var flags writeFlags

	cmd := &cobra.Command{
		Use:   "sort <file>",
		Short: "Order cues by start time and renumber them",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := ctx.loadDocument(cmd, args[0])
			if err != nil {
				return err
			}
			doc.Sort()
			return ctx.writeDocument(cmd, doc, flags, stripOptions(ctx.config, false, false))
		},
	}
	addWriteFlags(cmd, &flags)
	return cmd
}

func newFPSCommand(ctx *commandContext) *cobra.Command {
	var flags writeFlags
	var from, to float64

	cmd := &cobra.Command{
		Use:     "fps <file>",
		Short:   "Retime cues for a different frame rate",
		Example: "  srtkit fps movie.srt --from 25 --to 23.976",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := ctx.loadDocument(cmd, args[0])
			if err != nil {
				return err
			}
			if err := doc.ChangeFrameRate(from, to); err != nil {
				return err
			}
			return ctx.writeDocument(cmd, doc, flags, stripOptions(ctx.config, false, false))
		},
	}
	cmd.Flags().Float64Var(&from, "from", 0, "Frame rate the file was timed for")
	cmd.Flags().Float64Var(&to, "to", 0, "Frame rate to retime for")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
	addWriteFlags(cmd, &flags)
	return cmd
}

func newMergeCommand(ctx *commandContext) *cobra.Command {
	var flags writeFlags

	cmd := &cobra.Command{
		Use:   "merge <file> <other>...",
		Short: "Add the cues of other files and sort by start time",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := ctx.loadDocument(cmd, args[0])
			if err != nil {
				return err
			}
			for _, path := range args[1:] {
				other, err := ctx.loadDocument(cmd, path)
				if err != nil {
					return err
				}
				doc.Merge(other)
			}
			return ctx.writeDocument(cmd, doc, flags, stripOptions(ctx.config, false, false))
		},
	}
	addWriteFlags(cmd, &flags)
	return cmd
}

func newStripCommand(ctx *commandContext) *cobra.Command {
	var flags writeFlags
	var basic bool

	cmd := &cobra.Command{
		Use:   "strip <file>",
		Short: "Remove {...} style blocks and apply configured replacements",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := ctx.loadDocument(cmd, args[0])
			if err != nil {
				return err
			}
			return ctx.writeDocument(cmd, doc, flags, stripOptions(ctx.config, true, basic))
		},
	}
	cmd.Flags().BoolVar(&basic, "html", false, "Also remove HTML-like markup such as <i> and <font>")
	addWriteFlags(cmd, &flags)
	return cmd
}

func newCleanCommand(ctx *commandContext) *cobra.Command {
	var flags writeFlags

	cmd := &cobra.Command{
		Use:   "clean <file>",
		Short: "Drop advertisement cues and trailing blanks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := ctx.loadDocument(cmd, args[0])
			if err != nil {
				return err
			}
			result := doc.Clean()
			if !flags.dryRun {
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d cues, trimmed %d\n", result.RemovedCues, result.NormalizedCues)
			}
			return ctx.writeDocument(cmd, doc, flags, stripOptions(ctx.config, false, false))
		},
	}
	addWriteFlags(cmd, &flags)
	return cmd
}

func newDeleteCommand(ctx *commandContext) *cobra.Command {
	var flags writeFlags

	cmd := &cobra.Command{
		Use:   "delete <file> <index>...",
		Short: "Remove cues by their 1-based position",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			positions, err := parsePositions(args[1:])
			if err != nil {
				return err
			}
			doc, err := ctx.loadDocument(cmd, args[0])
			if err != nil {
				return err
			}
			// Highest first so earlier positions stay valid.
			sort.Sort(sort.Reverse(sort.IntSlice(positions)))
			for i, pos := range positions {
				if i > 0 && pos == positions[i-1] {
					continue
				}
				if err := doc.Delete(pos - 1); err != nil {
					return err
				}
			}
			return ctx.writeDocument(cmd, doc, flags, stripOptions(ctx.config, false, false))
		},
	}
	addWriteFlags(cmd, &flags)
	return cmd
}

func newExtractCommand(ctx *commandContext) *cobra.Command {
	var from, to int
	var output string

	cmd := &cobra.Command{
		Use:   "extract <file>",
		Short: "Print or save a renumbered slice of cues",
		Long: `Serialize cues --from..--to (1-based, inclusive) with fresh numbering.
A bound outside the file falls back to the first or last cue.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := ctx.loadDocument(cmd, args[0])
			if err != nil {
				return err
			}
			if doc.Len() == 0 {
				return subtitles.ErrEmptyDocument
			}
			content := doc.BuildRange(from-1, to-1, stripOptions(ctx.config, false, false))
			if output == "" {
				_, err := fmt.Fprint(cmd.OutOrStdout(), content)
				return err
			}
			result, err := doc.Save(cmd.Context(), output, content, subtitles.SaveOptions{})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d bytes)\n", result.Path, result.Bytes)
			return nil
		},
	}
	cmd.Flags().IntVar(&from, "from", 1, "First cue")
	cmd.Flags().IntVar(&to, "to", 0, "Last cue (default: last cue in the file)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to this path instead of stdout")
	return cmd
}

func parsePositions(args []string) ([]int, error) {
	positions := make([]int, 0, len(args))
	for _, arg := range args {
		pos, err := strconv.Atoi(arg)
		if err != nil || pos < 1 {
			return nil, fmt.Errorf("cue index must be a positive integer, got %q", arg)
		}
		positions = append(positions, pos)
	}
	return positions, nil
}
