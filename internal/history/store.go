package history

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"srtkit/internal/subtitles"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is bumped whenever schema.sql changes.
const schemaVersion = 1

// timestampLayout is fixed width so stored values sort chronologically.
const timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

// ErrSchemaMismatch indicates the database was created by another schema version.
var ErrSchemaMismatch = errors.New("schema version mismatch")

// Run is one recorded statistics computation.
type Run struct {
	ID        string
	Source    string
	Encoding  string
	Cues      int
	Counts    [subtitles.BucketCount]int
	CreatedAt time.Time
}

// Count returns the recorded count for b.
func (r Run) Count(b subtitles.Bucket) int {
	if b < 0 || int(b) >= subtitles.BucketCount {
		return 0
	}
	return r.Counts[b]
}

// Store manages run persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
	now  func() time.Time
}

// Open initializes or connects to the history database at path.
func Open(path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("history database path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create history dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// Pragmas below are per connection.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path, now: time.Now}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Path returns the database file location.
func (s *Store) Path() string { return s.path }

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Record stores stats for source and returns the persisted run.
func (s *Store) Record(ctx context.Context, source, encoding string, stats subtitles.Stats) (Run, error) {
	run := Run{
		ID:        uuid.NewString(),
		Source:    source,
		Encoding:  encoding,
		Cues:      stats.Total(),
		CreatedAt: s.now().UTC(),
	}
	for _, b := range subtitles.Buckets() {
		run.Counts[b] = stats.Count(b)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Run{}, fmt.Errorf("begin record tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO runs (id, source, encoding, cue_count, created_at) VALUES (?, ?, ?, ?, ?)`,
		run.ID, run.Source, run.Encoding, run.Cues, run.CreatedAt.Format(timestampLayout),
	); err != nil {
		return Run{}, fmt.Errorf("insert run: %w", err)
	}
	for _, b := range subtitles.Buckets() {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO run_buckets (run_id, bucket, position, count) VALUES (?, ?, ?, ?)`,
			run.ID, b.Name(), int(b), run.Counts[b],
		); err != nil {
			return Run{}, fmt.Errorf("insert bucket %s: %w", b.Name(), err)
		}
	}
	if err := tx.Commit(); err != nil {
		return Run{}, fmt.Errorf("commit run: %w", err)
	}
	return run, nil
}

// List returns runs newest first. An empty source lists every file; a limit
// of zero or less means no limit.
func (s *Store) List(ctx context.Context, source string, limit int) ([]Run, error) {
	query := `SELECT id, source, encoding, cue_count, created_at FROM runs`
	var args []any
	if source != "" {
		query += ` WHERE source = ?`
		args = append(args, source)
	}
	query += ` ORDER BY created_at DESC, rowid DESC`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			run     Run
			created string
		)
		if err := rows.Scan(&run.ID, &run.Source, &run.Encoding, &run.Cues, &created); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		run.CreatedAt, err = time.Parse(timestampLayout, created)
		if err != nil {
			return nil, fmt.Errorf("parse run timestamp: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	rows.Close()

	for i := range runs {
		if err := s.loadCounts(ctx, &runs[i]); err != nil {
			return nil, err
		}
	}
	return runs, nil
}

// Prune deletes runs beyond the newest keep entries of each source and
// returns how many were removed. An empty source prunes every file.
func (s *Store) Prune(ctx context.Context, source string, keep int) (int64, error) {
	if keep < 0 {
		keep = 0
	}
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM runs WHERE id IN (
            SELECT id FROM (
                SELECT id, ROW_NUMBER() OVER (
                    PARTITION BY source ORDER BY created_at DESC, rowid DESC
                ) AS position
                FROM runs WHERE ? = '' OR source = ?
            ) WHERE position > ?
        )`,
		source, source, keep,
	)
	if err != nil {
		return 0, fmt.Errorf("prune runs: %w", err)
	}
	return res.RowsAffected()
}

func (s *Store) loadCounts(ctx context.Context, run *Run) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT position, count FROM run_buckets WHERE run_id = ?`, run.ID)
	if err != nil {
		return fmt.Errorf("load buckets: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var position, count int
		if err := rows.Scan(&position, &count); err != nil {
			return fmt.Errorf("scan bucket: %w", err)
		}
		if position >= 0 && position < subtitles.BucketCount {
			run.Counts[position] = count
		}
	}
	return rows.Err()
}

func (s *Store) initSchema(ctx context.Context) error {
	var tableExists int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}
	if tableExists == 0 {
		return s.createSchema(ctx)
	}

	var version int
	if err := s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("%w: database has version %d, expected %d (delete %s to start over)",
			ErrSchemaMismatch, version, schemaVersion, s.path)
	}
	return nil
}

func (s *Store) createSchema(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema: %w", err)
	}
	return nil
}
