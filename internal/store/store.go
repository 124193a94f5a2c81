// Package store archives pipeline runs in a SQLite database.
//
// It uses modernc.org/sqlite, a pure Go SQLite implementation. Each run is
// keyed by a random UUID and stores its labeled records and topic keywords.
// The schema is managed through the versioned migrations in migrations/.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/tsawler/textpipe"
	"github.com/tsawler/textpipe/internal/store/migrations"
)

// ErrRunNotFound is returned when a run id is unknown.
var ErrRunNotFound = errors.New("run not found")

// Store is a SQLite-backed run archive.
type Store struct {
	db   *sql.DB
	path string
	now  func() time.Time
}

var _ textpipe.RunSink = (*Store)(nil)

// Run summarizes one archived run.
type Run struct {
	ID          string
	InputPath   string
	ModelPath   string
	Topics      int
	MaxFeatures int
	Seed        int64
	RecordCount int
	CreatedAt   time.Time
}

// Open opens or creates the database at path and applies pending
// migrations.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	// Pragmas in the DSN apply to every pooled connection.
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, path: path, now: time.Now}
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys fs.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			upFiles = append(upFiles, entry.Name())
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// "001_initial.up.sql" -> 1
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}
	return nil
}

// SaveRun stores result under a new run id. It implements textpipe.RunSink.
func (s *Store) SaveRun(ctx context.Context, result *textpipe.Result) error {
	_, err := s.Record(ctx, result)
	return err
}

// Record stores result in one transaction and returns its run id.
func (s *Store) Record(ctx context.Context, result *textpipe.Result) (string, error) {
	id := uuid.NewString()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	cfg := result.Config
	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (id, input_path, model_path, topics, max_features, seed, record_count, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, id, cfg.InputPath, cfg.ModelPath, cfg.Topic.Topics, cfg.Topic.MaxFeatures, cfg.Topic.Seed,
		len(result.Records), s.now().UTC())
	if err != nil {
		return "", fmt.Errorf("saving run: %w", err)
	}

	recStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO records (run_id, position, record_id, text, clean_text, topic, sentiment)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return "", fmt.Errorf("preparing record insert: %w", err)
	}
	defer recStmt.Close()

	for i, rec := range result.Records {
		if _, err := recStmt.ExecContext(ctx, id, i, rec.ID, rec.Text, rec.CleanText, rec.Topic, rec.Sentiment); err != nil {
			return "", fmt.Errorf("saving record %d: %w", i, err)
		}
	}

	for _, topic := range result.Topics {
		for rank, word := range topic.Words {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO topic_keywords (run_id, topic, rank, word) VALUES (?, ?, ?, ?)
			`, id, topic.Topic, rank, word)
			if err != nil {
				return "", fmt.Errorf("saving topic %d keywords: %w", topic.Topic, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing run: %w", err)
	}
	return id, nil
}

// GetRun retrieves a run summary by id.
func (s *Store) GetRun(ctx context.Context, id string) (*Run, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, input_path, model_path, topics, max_features, seed, record_count, created_at
		FROM runs WHERE id = ?
	`, id)

	var run Run
	err := row.Scan(&run.ID, &run.InputPath, &run.ModelPath, &run.Topics, &run.MaxFeatures,
		&run.Seed, &run.RecordCount, &run.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting run: %w", err)
	}
	return &run, nil
}

// ListRuns returns all runs, newest first.
func (s *Store) ListRuns(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, input_path, model_path, topics, max_features, seed, record_count, created_at
		FROM runs ORDER BY created_at DESC, id
	`)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		if err := rows.Scan(&run.ID, &run.InputPath, &run.ModelPath, &run.Topics, &run.MaxFeatures,
			&run.Seed, &run.RecordCount, &run.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Records returns a run's records in input order.
func (s *Store) Records(ctx context.Context, runID string) ([]textpipe.Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT record_id, text, clean_text, topic, sentiment
		FROM records WHERE run_id = ? ORDER BY position
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("listing records: %w", err)
	}
	defer rows.Close()

	var records []textpipe.Record
	for rows.Next() {
		var rec textpipe.Record
		if err := rows.Scan(&rec.ID, &rec.Text, &rec.CleanText, &rec.Topic, &rec.Sentiment); err != nil {
			return nil, fmt.Errorf("scanning record: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// TopicKeywords returns a run's keywords per topic, in rank order.
func (s *Store) TopicKeywords(ctx context.Context, runID string) ([]textpipe.TopicKeywords, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT topic, word FROM topic_keywords WHERE run_id = ? ORDER BY topic, rank
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("listing topic keywords: %w", err)
	}
	defer rows.Close()

	var topics []textpipe.TopicKeywords
	for rows.Next() {
		var (
			topic int
			word  string
		)
		if err := rows.Scan(&topic, &word); err != nil {
			return nil, fmt.Errorf("scanning topic keyword: %w", err)
		}
		if n := len(topics); n == 0 || topics[n-1].Topic != topic {
			topics = append(topics, textpipe.TopicKeywords{Topic: topic})
		}
		last := &topics[len(topics)-1]
		last.Words = append(last.Words, word)
	}
	return topics, rows.Err()
}

// DeleteRun removes a run and, through cascading keys, its records and
// keywords.
func (s *Store) DeleteRun(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM runs WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting run: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting run: %w", err)
	}
	if n == 0 {
		return ErrRunNotFound
	}
	return nil
}
