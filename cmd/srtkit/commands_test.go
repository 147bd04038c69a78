package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"srtkit/internal/testsupport"
)

func TestInfoCommand(t *testing.T) {
	env := setupCLITestEnv(t)
	path := env.writeSample(t, "movie.srt")

	out, _, err := env.run(t, "info", path)
	if err != nil {
		t.Fatalf("info: %v", err)
	}
	requireContains(t, out, "SubRip")
	requireContains(t, out, "UTF-8")
	requireContains(t, out, renderField("Cues", "3"))
	requireContains(t, out, "00:00:01,000 - 00:00:06,500")

	out, _, err = env.run(t, "info", "--json", path)
	if err != nil {
		t.Fatalf("info --json: %v", err)
	}
	var info documentInfo
	if err := json.Unmarshal([]byte(out), &info); err != nil {
		t.Fatalf("decode info json: %v", err)
	}
	if info.Cues != 3 || info.Format != "SubRip" || info.BOM {
		t.Fatalf("unexpected info: %+v", info)
	}
}

func TestInfoReportsInvertedCues(t *testing.T) {
	env := setupCLITestEnv(t)
	path := testsupport.WriteSubtitle(t, env.workDir, "inverted.srt", testsupport.SRT(
		testsupport.Block{Start: "00:00:05,000", Stop: "00:00:04,000", Text: "backwards"},
	))

	out, _, err := env.run(t, "info", path)
	if err != nil {
		t.Fatalf("info: %v", err)
	}
	requireContains(t, out, "[WARN] 1 cues stop before they start")
}

func TestValidateCommand(t *testing.T) {
	env := setupCLITestEnv(t)
	good := env.writeSample(t, "good.srt")
	bad := testsupport.WriteSubtitle(t, env.workDir, "bad.srt", "just some prose\n")

	out, _, err := env.run(t, "validate", good)
	if err != nil {
		t.Fatalf("validate good: %v", err)
	}
	requireContains(t, out, "[OK] 3 cues, UTF-8")

	out, _, err = env.run(t, "validate", good, bad, filepath.Join(env.workDir, "missing.srt"))
	if err == nil {
		t.Fatal("expected validation failure")
	}
	requireContains(t, err.Error(), "2 of 3 files failed validation")
	requireContains(t, out, "no cue blocks found")
}

func TestStatsCommandFormats(t *testing.T) {
	env := setupCLITestEnv(t)
	path := env.writeSample(t, "movie.srt")

	out, _, err := env.run(t, "stats", path)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	requireContains(t, out, "TOO SLOW")
	requireContains(t, out, "Perfect")
	requireContains(t, out, "Total")

	out, _, err = env.run(t, "stats", "--format", "xml", path)
	if err != nil {
		t.Fatalf("stats xml: %v", err)
	}
	requireContains(t, out, "<statistics")
	requireContains(t, out, `name="perfect"`)

	out, _, err = env.run(t, "stats", "-f", "html", path)
	if err != nil {
		t.Fatalf("stats html: %v", err)
	}
	requireContains(t, out, `<ul class="srt_stats">`)

	if _, _, err := env.run(t, "stats", "--format", "pdf", path); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestStatsSaveWritesSiblingReport(t *testing.T) {
	env := setupCLITestEnv(t)
	path := env.writeSample(t, "movie.srt")

	out, _, err := env.run(t, "stats", "--format", "xml", "--save", path)
	if err != nil {
		t.Fatalf("stats --save: %v", err)
	}
	target := filepath.Join(env.workDir, "movie.stats.xml")
	requireContains(t, out, target)
	requireContains(t, testsupport.ReadFile(t, target), "<statistics")

	if _, _, err := env.run(t, "stats", "--save", path); err == nil {
		t.Fatal("expected --save to reject the table format")
	}
}

func TestStatsRecordAndHistory(t *testing.T) {
	env := setupCLITestEnv(t)
	path := env.writeSample(t, "movie.srt")

	for i := 0; i < 3; i++ {
		_, stderr, err := env.run(t, "stats", "--record", path)
		if err != nil {
			t.Fatalf("stats --record: %v", err)
		}
		requireContains(t, stderr, "Recorded run ")
	}

	out, _, err := env.run(t, "history")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	requireContains(t, out, path)

	out, _, err = env.run(t, "history", "--json", path)
	if err != nil {
		t.Fatalf("history --json: %v", err)
	}
	var entries []historyEntry
	if err := json.Unmarshal([]byte(out), &entries); err != nil {
		t.Fatalf("decode history json: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("got %d entries, want 3", len(entries))
	}
	if entries[0].Cues != 3 || entries[0].Encoding != "UTF-8" {
		t.Fatalf("unexpected entry: %+v", entries[0])
	}
	total := 0
	for _, n := range entries[0].Counts {
		total += n
	}
	if total != 3 {
		t.Fatalf("bucket counts sum to %d, want 3", total)
	}

	out, _, err = env.run(t, "history", "prune", "--keep", "1")
	if err != nil {
		t.Fatalf("history prune: %v", err)
	}
	requireContains(t, out, "Removed 2 reports")
}

func TestHistoryEmpty(t *testing.T) {
	env := setupCLITestEnv(t)
	out, _, err := env.run(t, "history")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	requireContains(t, out, "No recorded reports")
}

func TestSearchCommand(t *testing.T) {
	env := setupCLITestEnv(t)
	path := env.writeSample(t, "movie.srt")

	out, _, err := env.run(t, "search", path, "kenobi")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	requireContains(t, out, "General Kenobi")
	requireNotContains(t, out, "<i>")

	out, _, err = env.run(t, "search", "--case-sensitive", path, "kenobi")
	if err != nil {
		t.Fatalf("search case-sensitive: %v", err)
	}
	requireContains(t, out, `No cues match "kenobi"`)

	out, _, err = env.run(t, "search", "--json", "--word", path, "bold")
	if err != nil {
		t.Fatalf("search --json: %v", err)
	}
	var hits []searchHit
	if err := json.Unmarshal([]byte(out), &hits); err != nil {
		t.Fatalf("decode search json: %v", err)
	}
	if len(hits) != 1 || hits[0].Index != 3 || hits[0].Start != "00:00:03,000" {
		t.Fatalf("unexpected hits: %+v", hits)
	}
}

func TestAtCommand(t *testing.T) {
	env := setupCLITestEnv(t)
	path := env.writeSample(t, "movie.srt")

	tests := []struct {
		name string
		at   string
		want string
	}{
		{name: "inside first cue", at: "00:00:02,000", want: "#1 (showing)"},
		{name: "gap before second cue", at: "4500", want: "#2 (next)"},
		{name: "after every cue", at: "00:00:09.000", want: "No cue at or after 00:00:09,000"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			out, _, err := env.run(t, "at", path, tc.at)
			if err != nil {
				t.Fatalf("at: %v", err)
			}
			requireContains(t, out, tc.want)
		})
	}

	if _, _, err := env.run(t, "at", path, "soon"); err == nil {
		t.Fatal("expected error for malformed time")
	}
}

func TestSortWritesInPlaceWithBackup(t *testing.T) {
	env := setupCLITestEnv(t)
	path := env.writeSample(t, "movie.srt")
	original := testsupport.ReadFile(t, path)

	out, _, err := env.run(t, "sort", path)
	if err != nil {
		t.Fatalf("sort: %v", err)
	}
	requireContains(t, out, "Wrote 3 cues to "+path)
	requireContains(t, out, "Backup: "+env.cfg.Paths.BackupDir)

	got := testsupport.ReadFile(t, path)
	want := testsupport.SRT(sampleBlocks[0], sampleBlocks[2], sampleBlocks[1])
	if got != want {
		t.Fatalf("sorted output mismatch:\ngot  %q\nwant %q", got, want)
	}

	backups, err := filepath.Glob(filepath.Join(env.cfg.Paths.BackupDir, "movie.srt.*.bak"))
	if err != nil || len(backups) != 1 {
		t.Fatalf("expected one backup, got %v (%v)", backups, err)
	}
	if testsupport.ReadFile(t, backups[0]) != original {
		t.Fatal("backup does not match the original file")
	}
}

func TestSortToOutputAsWebVTT(t *testing.T) {
	env := setupCLITestEnv(t)
	path := env.writeSample(t, "movie.srt")
	target := filepath.Join(env.workDir, "movie.vtt")

	if _, _, err := env.run(t, "sort", "--format", "vtt", "--no-backup", "-o", target, path); err != nil {
		t.Fatalf("sort to vtt: %v", err)
	}
	got := testsupport.ReadFile(t, target)
	if !strings.HasPrefix(got, "WEBVTT\r\n\r\n") {
		t.Fatalf("expected WEBVTT header, got %q", got)
	}
	requireContains(t, got, "00:00:01.000 --> 00:00:02.500")
	if testsupport.ReadFile(t, path) != testsupport.SRT(sampleBlocks...) {
		t.Fatal("source should be untouched when --output is given")
	}

	if _, _, err := env.run(t, "sort", "--format", "vtt", "--output-encoding", "latin1", "--dry-run", path); err == nil {
		t.Fatal("expected webvtt to reject a legacy output encoding")
	}
}

func TestFPSDryRun(t *testing.T) {
	env := setupCLITestEnv(t)
	path := env.writeSample(t, "movie.srt")

	out, _, err := env.run(t, "fps", "--from", "25", "--to", "50", "--dry-run", path)
	if err != nil {
		t.Fatalf("fps: %v", err)
	}
	requireContains(t, out, "00:00:02,000 --> 00:00:05,000")
	if testsupport.ReadFile(t, path) != testsupport.SRT(sampleBlocks...) {
		t.Fatal("dry run must not modify the source")
	}

	if _, _, err := env.run(t, "fps", "--from", "0", "--to", "25", "--dry-run", path); err == nil {
		t.Fatal("expected error for zero frame rate")
	}
}

func TestMergeCommand(t *testing.T) {
	env := setupCLITestEnv(t)
	path := env.writeSample(t, "movie.srt")
	extra := testsupport.WriteSubtitle(t, env.workDir, "extra.srt", testsupport.SRT(
		testsupport.Block{Start: "00:00:00,500", Stop: "00:00:00,900", Text: "Opening"},
	))

	out, _, err := env.run(t, "merge", "--dry-run", path, extra)
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	if !strings.HasPrefix(out, "1\r\n00:00:00,500 --> 00:00:00,900\r\nOpening\r\n") {
		t.Fatalf("merged cue should come first, got %q", out)
	}
	requireContains(t, out, "4\r\n00:00:05,000 --> 00:00:06,500")
}

func TestStripCommand(t *testing.T) {
	env := setupCLITestEnv(t)
	path := testsupport.WriteSubtitle(t, env.workDir, "styled.srt", testsupport.SRT(
		testsupport.Block{Start: "00:00:01,000", Stop: "00:00:02,000", Text: "{\\an8}<b>Top</b> line"},
	))

	out, _, err := env.run(t, "strip", "--dry-run", path)
	if err != nil {
		t.Fatalf("strip: %v", err)
	}
	requireContains(t, out, "\r\n<b>Top</b> line\r\n")

	out, _, err = env.run(t, "strip", "--html", "--dry-run", path)
	if err != nil {
		t.Fatalf("strip --html: %v", err)
	}
	requireContains(t, out, "\r\nTop line\r\n")
}

func TestCleanCommand(t *testing.T) {
	env := setupCLITestEnv(t)
	path := testsupport.WriteSubtitle(t, env.workDir, "ads.srt", testsupport.SRT(
		testsupport.Block{Start: "00:00:01,000", Stop: "00:00:02,000", Text: "Subtitles by someone"},
		testsupport.Block{Start: "00:00:03,000", Stop: "00:00:04,000", Text: "Keep me  \nsecond line"},
	))

	out, _, err := env.run(t, "clean", "--no-backup", path)
	if err != nil {
		t.Fatalf("clean: %v", err)
	}
	requireContains(t, out, "Removed 1 cues, trimmed 1")
	got := testsupport.ReadFile(t, path)
	want := testsupport.SRT(testsupport.Block{Start: "00:00:03,000", Stop: "00:00:04,000", Text: "Keep me\nsecond line"})
	if got != want {
		t.Fatalf("cleaned output mismatch:\ngot  %q\nwant %q", got, want)
	}
}

func TestDeleteCommand(t *testing.T) {
	env := setupCLITestEnv(t)
	path := env.writeSample(t, "movie.srt")

	out, _, err := env.run(t, "delete", "--dry-run", path, "1", "3", "1")
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if out != testsupport.SRT(sampleBlocks[1]) {
		t.Fatalf("unexpected output %q", out)
	}

	if _, _, err := env.run(t, "delete", "--dry-run", path, "4"); err == nil {
		t.Fatal("expected out-of-range error")
	}
	if _, _, err := env.run(t, "delete", "--dry-run", path, "zero"); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestExtractCommand(t *testing.T) {
	env := setupCLITestEnv(t)
	path := env.writeSample(t, "movie.srt")

	out, _, err := env.run(t, "extract", "--from", "2", "--to", "3", path)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if out != testsupport.SRT(sampleBlocks[1], sampleBlocks[2]) {
		t.Fatalf("unexpected output %q", out)
	}

	out, _, err = env.run(t, "extract", "--from", "9", "--to", "1", path)
	if err != nil {
		t.Fatalf("extract clamped: %v", err)
	}
	if out != testsupport.SRT(sampleBlocks[0]) {
		t.Fatalf("unexpected clamped output %q", out)
	}

	target := filepath.Join(env.workDir, "part.srt")
	if _, _, err := env.run(t, "extract", "--to", "1", "-o", target, path); err != nil {
		t.Fatalf("extract to file: %v", err)
	}
	if testsupport.ReadFile(t, target) != testsupport.SRT(sampleBlocks[0]) {
		t.Fatal("unexpected extracted file content")
	}
}

func TestLegacyEncodingRoundTrip(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithSourceEncoding("Windows-1252"))
	raw := []byte("1\r\n00:00:01,000 --> 00:00:02,000\r\nCaf\xe9 cr\xe8me\r\n\r\n")
	path := testsupport.WriteFile(t, filepath.Join(env.workDir, "legacy.srt"), raw)

	out, _, err := env.run(t, "search", path, "café")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	requireContains(t, out, "Café crème")

	if _, _, err := env.run(t, "sort", "--no-backup", path); err != nil {
		t.Fatalf("sort: %v", err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(got) != string(raw) {
		t.Fatalf("legacy bytes not preserved:\ngot  %q\nwant %q", got, raw)
	}
}

func TestFileCommandDetector(t *testing.T) {
	env := setupCLITestEnv(t,
		testsupport.WithSourceEncoding(""),
		testsupport.WithStubbedFileCommand("legacy.srt: text/plain; charset=iso-8859-1"),
	)
	raw := []byte("1\r\n00:00:01,000 --> 00:00:02,000\r\nna\xc3\xafve\r\n\r\n")
	path := testsupport.WriteFile(t, filepath.Join(env.workDir, "legacy.srt"), raw)

	out, _, err := env.run(t, "info", path)
	if err != nil {
		t.Fatalf("info: %v", err)
	}
	requireContains(t, out, "Windows-1252")

	out, _, err = env.run(t, "--encoding", "utf-8", "info", path)
	if err != nil {
		t.Fatalf("info with --encoding: %v", err)
	}
	requireContains(t, out, renderField("Encoding", "UTF-8"))
}

func TestConfigInitAndValidate(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := env.run(t, "config", "validate")
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration valid")
	requireContains(t, out, env.configPath)

	target := filepath.Join(t.TempDir(), "config.toml")
	out, _, err = env.run(t, "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	if _, _, err := env.run(t, "config", "init", "--path", target); err == nil {
		t.Fatal("expected refusal to overwrite")
	}
	if _, _, err := env.run(t, "config", "init", "--path", target, "--overwrite"); err != nil {
		t.Fatalf("config init --overwrite: %v", err)
	}
}

func TestInvalidConfigFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "srtkit.toml")
	if err := os.WriteFile(path, []byte("[stats]\nformat = \"pdf\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	_, _, err := runCLI(t, []string{"info", "x.srt"}, path)
	if err == nil {
		t.Fatal("expected config error")
	}
	requireContains(t, err.Error(), "stats.format")
}

func TestBackupsListAndClean(t *testing.T) {
	env := setupCLITestEnv(t)
	path := env.writeSample(t, "movie.srt")

	out, _, err := env.run(t, "backups")
	if err != nil {
		t.Fatalf("backups: %v", err)
	}
	requireContains(t, out, "No backups")

	if _, _, err := env.run(t, "sort", path); err != nil {
		t.Fatalf("sort: %v", err)
	}
	out, _, err = env.run(t, "backups")
	if err != nil {
		t.Fatalf("backups: %v", err)
	}
	requireContains(t, out, "movie.srt.")

	out, _, err = env.run(t, "backups", "clean")
	if err != nil {
		t.Fatalf("backups clean: %v", err)
	}
	requireContains(t, out, "Removed 0 backups")

	out, _, err = env.run(t, "backups", "clean", "--older-than", "0s")
	if err != nil {
		t.Fatalf("backups clean --older-than 0s: %v", err)
	}
	requireContains(t, out, "Removed 1 backups")
}
