package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"srtkit/internal/config"
	"srtkit/internal/history"
	"srtkit/internal/report"
	"srtkit/internal/subtitles"
)

type historyEntry struct {
	ID       string         `json:"id"`
	Source   string         `json:"source"`
	Encoding string         `json:"encoding"`
	Cues     int            `json:"cues"`
	Counts   map[string]int `json:"counts"`
	Recorded time.Time      `json:"recorded"`
}

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "history [file]",
		Short: "List recorded reading-speed reports",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := historySource(args)
			if err != nil {
				return err
			}
			return ctx.withHistory(func(store *history.Store) error {
				runs, err := store.List(cmd.Context(), source, limit)
				if err != nil {
					return err
				}
				if asJSON {
					entries := make([]historyEntry, 0, len(runs))
					for _, run := range runs {
						entries = append(entries, toHistoryEntry(run))
					}
					return writeJSON(cmd, entries)
				}
				if len(runs) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No recorded reports")
					return nil
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderHistoryTable(runs))
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of reports to show (0 for all)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	cmd.AddCommand(newHistoryPruneCommand(ctx))
	return cmd
}

func newHistoryPruneCommand(ctx *commandContext) *cobra.Command {
	var keep int

	return withPruneFlags(&cobra.Command{
		Use:   "prune [file]",
		Short: "Delete all but the newest reports",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if keep < 0 {
				return fmt.Errorf("--keep must not be negative")
			}
			source, err := historySource(args)
			if err != nil {
				return err
			}
			return ctx.withHistory(func(store *history.Store) error {
				removed, err := store.Prune(cmd.Context(), source, keep)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d reports\n", removed)
				return nil
			})
		},
	}, &keep)
}

func withPruneFlags(cmd *cobra.Command, keep *int) *cobra.Command {
	cmd.Flags().IntVar(keep, "keep", 10, "Number of newest reports to keep per file")
	return cmd
}

// historySource resolves the optional file argument the way documents are
// recorded: as an absolute path.
func historySource(args []string) (string, error) {
	if len(args) == 0 || strings.TrimSpace(args[0]) == "" {
		return "", nil
	}
	return config.ExpandPath(args[0])
}

func toHistoryEntry(run history.Run) historyEntry {
	counts := make(map[string]int, subtitles.BucketCount)
	for _, b := range subtitles.Buckets() {
		counts[b.Name()] = run.Count(b)
	}
	return historyEntry{
		ID:       run.ID,
		Source:   run.Source,
		Encoding: run.Encoding,
		Cues:     run.Cues,
		Counts:   counts,
		Recorded: run.CreatedAt,
	}
}

func renderHistoryTable(runs []history.Run) string {
	headers := []string{"Recorded", "Source", "Cues", "Too slow", "Perfect", "Too fast"}
	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		rows = append(rows, []string{
			run.CreatedAt.Local().Format("2006-01-02 15:04"),
			run.Source,
			strconv.Itoa(run.Cues),
			strconv.Itoa(run.Count(subtitles.TooSlow)),
			strconv.Itoa(run.Count(subtitles.Perfect)),
			strconv.Itoa(run.Count(subtitles.TooFast)),
		})
	}
	return report.RenderTable(headers, rows, []report.Alignment{
		report.AlignLeft, report.AlignLeft, report.AlignRight, report.AlignRight, report.AlignRight, report.AlignRight,
	})
}
