package history_test

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/uuid"

	"srtkit/internal/history"
	"srtkit/internal/subtitles"
)

func openStore(t *testing.T) (*history.Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "state", "history.db")
	store, err := history.Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store, path
}

func statsOf(speeds ...float64) subtitles.Stats {
	var stats subtitles.Stats
	for _, rs := range speeds {
		stats.Add(rs)
	}
	return stats
}

func TestRecordAndList(t *testing.T) {
	store, _ := openStore(t)
	ctx := context.Background()

	first, err := store.Record(ctx, "a.srt", "UTF-8", statsOf(4, 12, 20))
	if err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if _, err := uuid.Parse(first.ID); err != nil {
		t.Fatalf("run id %q is not a uuid: %v", first.ID, err)
	}
	second, err := store.Record(ctx, "a.srt", "UTF-8", statsOf(40))
	if err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if _, err := store.Record(ctx, "b.srt", "Windows-1252", statsOf(16)); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	runs, err := store.List(ctx, "a.srt", 0)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].ID != second.ID || runs[1].ID != first.ID {
		t.Fatalf("runs should be newest first: %s, %s", runs[0].ID, runs[1].ID)
	}
	got := runs[1]
	if got.Cues != 3 || got.Count(subtitles.TooSlow) != 1 || got.Count(subtitles.ABitSlow) != 1 || got.Count(subtitles.Perfect) != 1 {
		t.Fatalf("unexpected counts: %+v", got)
	}
	if runs[0].Count(subtitles.TooFast) != 1 {
		t.Fatalf("unexpected counts: %+v", runs[0])
	}

	all, err := store.List(ctx, "", 0)
	if err != nil || len(all) != 3 {
		t.Fatalf("List all = %d, %v", len(all), err)
	}
	limited, err := store.List(ctx, "", 1)
	if err != nil || len(limited) != 1 || limited[0].Source != "b.srt" {
		t.Fatalf("List limited = %+v, %v", limited, err)
	}
}

func TestPrune(t *testing.T) {
	store, _ := openStore(t)
	ctx := context.Background()
	for i := 0; i < 4; i++ {
		if _, err := store.Record(ctx, "a.srt", "UTF-8", statsOf(float64(i))); err != nil {
			t.Fatal(err)
		}
	}
	removed, err := store.Prune(ctx, "a.srt", 1)
	if err != nil {
		t.Fatalf("Prune failed: %v", err)
	}
	if removed != 3 {
		t.Fatalf("removed %d runs, want 3", removed)
	}
	runs, err := store.List(ctx, "a.srt", 0)
	if err != nil || len(runs) != 1 {
		t.Fatalf("remaining = %d, %v", len(runs), err)
	}
}

func TestPruneEverySource(t *testing.T) {
	store, _ := openStore(t)
	ctx := context.Background()
	for _, source := range []string{"a.srt", "a.srt", "b.srt", "b.srt", "b.srt", "c.srt"} {
		if _, err := store.Record(ctx, source, "UTF-8", statsOf(20)); err != nil {
			t.Fatal(err)
		}
	}
	removed, err := store.Prune(ctx, "", 1)
	if err != nil {
		t.Fatalf("Prune failed: %v", err)
	}
	if removed != 3 {
		t.Fatalf("removed %d runs, want 3", removed)
	}
	runs, err := store.List(ctx, "", 0)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	seen := map[string]int{}
	for _, run := range runs {
		seen[run.Source]++
	}
	for _, source := range []string{"a.srt", "b.srt", "c.srt"} {
		if seen[source] != 1 {
			t.Fatalf("source %s has %d runs, want 1", source, seen[source])
		}
	}
}

func TestReopenChecksSchemaVersion(t *testing.T) {
	store, path := openStore(t)
	if _, err := store.Record(context.Background(), "a.srt", "UTF-8", statsOf(20)); err != nil {
		t.Fatal(err)
	}
	if err := store.Close(); err != nil {
		t.Fatal(err)
	}

	reopened, err := history.Open(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	runs, err := reopened.List(context.Background(), "a.srt", 0)
	if err != nil || len(runs) != 1 {
		t.Fatalf("runs after reopen = %d, %v", len(runs), err)
	}
	_ = reopened.Close()

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.Exec("UPDATE schema_version SET version = 99"); err != nil {
		t.Fatal(err)
	}
	_ = db.Close()

	if _, err := history.Open(path); !errors.Is(err, history.ErrSchemaMismatch) {
		t.Fatalf("expected ErrSchemaMismatch, got %v", err)
	}
}

func TestOpenRequiresPath(t *testing.T) {
	if _, err := history.Open("  "); err == nil {
		t.Fatal("expected error for empty path")
	}
}
