package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"srtkit/internal/history"
	"srtkit/internal/report"
	"srtkit/internal/textutil"
)

func newStatsCommand(ctx *commandContext) *cobra.Command {
	var format string
	var record bool
	var save bool

	cmd := &cobra.Command{
		Use:   "stats <file>",
		Short: "Report the reading-speed distribution of a subtitle file",
		Long: `Classify every cue into nine reading-speed ranges and print the count
and share of each as a table, an XML document, or an HTML fragment.

With --record (or stats.record in the config) the counts are also stored in
the history database; see 'srtkit history'.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			doc, err := ctx.loadDocument(cmd, args[0])
			if err != nil {
				return err
			}
			stats := doc.ComputeStats()

			if strings.TrimSpace(format) == "" {
				format = cfg.Stats.Format
			}
			format = strings.ToLower(strings.TrimSpace(format))

			var buf bytes.Buffer
			if err := report.Render(&buf, format, doc.Source(), stats); err != nil {
				return err
			}

			if save {
				if format == report.FormatTable {
					return fmt.Errorf("--save needs --format xml or html")
				}
				target := filepath.Join(filepath.Dir(doc.Source()),
					textutil.DerivedFileName(doc.Source(), ".stats."+format))
				if err := os.WriteFile(target, buf.Bytes(), 0o644); err != nil {
					return fmt.Errorf("write report: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s report to %s\n", strings.ToUpper(format), target)
			} else if _, err := cmd.OutOrStdout().Write(buf.Bytes()); err != nil {
				return err
			}

			if !record && !cfg.Stats.Record {
				return nil
			}
			return ctx.withHistory(func(store *history.Store) error {
				run, err := store.Record(cmd.Context(), doc.Source(), doc.Encoding(), stats)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "Recorded run %s\n", run.ID)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "Report format: table, xml, or html (default from config)")
	cmd.Flags().BoolVar(&record, "record", false, "Store the result in the history database")
	cmd.Flags().BoolVar(&save, "save", false, "Write the XML/HTML report next to the source file")
	return cmd
}
