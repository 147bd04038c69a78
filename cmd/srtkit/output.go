package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"srtkit/internal/config"
	"srtkit/internal/subtitles"
)

// writeFlags are shared by every command that rewrites a document.
type writeFlags struct {
	output   string
	format   string
	encoding string
	noBackup bool
	dryRun   bool
}

func addWriteFlags(cmd *cobra.Command, flags *writeFlags) {
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "Write to this path instead of replacing the source")
	cmd.Flags().StringVar(&flags.format, "format", "", "Output format: srt or vtt (default keeps the source format)")
	cmd.Flags().StringVar(&flags.encoding, "output-encoding", "", "Encode output with this charset (default keeps the source encoding)")
	cmd.Flags().BoolVar(&flags.noBackup, "no-backup", false, "Do not keep a copy of the file being replaced")
	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "Print the result instead of writing it")
}

// applyFormat switches doc to the requested output format and encoding.
func (f writeFlags) applyFormat(cfg *config.Config, doc *subtitles.Document) error {
	switch strings.ToLower(strings.TrimSpace(f.format)) {
	case "":
		if cfg.Output.WebVTT {
			doc.SetWebVTT(true)
		}
	case "vtt", "webvtt":
		doc.SetWebVTT(true)
	case "srt", "subrip":
		doc.SetWebVTT(false)
	default:
		return fmt.Errorf("unknown output format %q (want srt or vtt)", f.format)
	}
	if enc := strings.TrimSpace(f.encoding); enc != "" {
		if doc.WebVTT() && !strings.EqualFold(enc, "utf-8") && !strings.EqualFold(enc, "utf8") {
			return fmt.Errorf("webvtt output must be UTF-8, got %q", enc)
		}
		if err := doc.SetEncoding(enc); err != nil {
			return err
		}
	}
	return nil
}

// writeDocument serializes doc and saves it, or prints it on --dry-run.
func (c *commandContext) writeDocument(cmd *cobra.Command, doc *subtitles.Document, flags writeFlags, opts subtitles.StripOptions) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	if err := flags.applyFormat(cfg, doc); err != nil {
		return err
	}
	content := doc.Build(opts)
	out := cmd.OutOrStdout()
	if flags.dryRun {
		_, err := io.WriteString(out, content)
		return err
	}

	target := strings.TrimSpace(flags.output)
	if target != "" {
		if target, err = config.ExpandPath(target); err != nil {
			return err
		}
	}
	result, err := doc.Save(cmd.Context(), target, content, subtitles.SaveOptions{
		Backup:    cfg.Output.Backup && !flags.noBackup,
		BackupDir: cfg.Paths.BackupDir,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Wrote %d cues to %s (%s, %d bytes)\n", doc.Len(), result.Path, doc.Encoding(), result.Bytes)
	if result.BackupPath != "" {
		fmt.Fprintf(out, "Backup: %s\n", result.BackupPath)
	}
	return nil
}
