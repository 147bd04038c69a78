package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"srtkit/internal/backups"
	"srtkit/internal/logging"
	"srtkit/internal/report"
)

func newBackupsCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backups",
		Short: "List copies kept before files were replaced",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if cfg.Paths.BackupDir == "" {
				fmt.Fprintln(out, "paths.backup_dir is not set; backups are kept beside each file")
				return nil
			}
			entries, err := backups.List(cfg.Paths.BackupDir)
			if err != nil {
				return fmt.Errorf("list backups: %w", err)
			}
			if len(entries) == 0 {
				fmt.Fprintln(out, "No backups")
				return nil
			}
			rows := make([][]string, 0, len(entries))
			for _, entry := range entries {
				rows = append(rows, []string{
					entry.ModTime.Local().Format("2006-01-02 15:04"),
					entry.Name,
					strconv.FormatInt(entry.Size, 10),
				})
			}
			fmt.Fprintln(out, report.RenderTable(
				[]string{"Modified", "Name", "Bytes"},
				rows,
				[]report.Alignment{report.AlignLeft, report.AlignLeft, report.AlignRight},
			))
			return nil
		},
	}
	cmd.AddCommand(newBackupsCleanCommand(ctx))
	return cmd
}

func newBackupsCleanCommand(ctx *commandContext) *cobra.Command {
	var olderThan time.Duration

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Delete backups older than a given age",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if olderThan < 0 {
				return fmt.Errorf("--older-than must not be negative")
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if cfg.Paths.BackupDir == "" {
				return fmt.Errorf("paths.backup_dir is not set")
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			result := backups.CleanStale(cmd.Context(), cfg.Paths.BackupDir, olderThan,
				logging.NewComponentLogger(logger, "backups"))
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d backups\n", len(result.Removed))
			if len(result.Errors) > 0 {
				return fmt.Errorf("%d backups could not be removed: %w", len(result.Errors), result.Errors[0].Error)
			}
			return nil
		},
	}

	cmd.Flags().DurationVar(&olderThan, "older-than", 30*24*time.Hour, "Minimum age of backups to delete")
	return cmd
}
