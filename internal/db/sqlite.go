package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/spacesedan/wordlens/internal/models"

	_ "modernc.org/sqlite" // SQLite driver.
)

// SQLiteStore persists the last analysis in a local SQLite file.
type SQLiteStore struct {
	db *sql.DB
	mu sync.Mutex
}

// OpenSQLite opens or creates the database at path and applies migrations.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("[SQLite] failed to create data dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("[SQLite] failed to open %s: %w", path, err)
	}
	// One connection serialises writers and keeps reads on the committed row.
	db.SetMaxOpenConns(1)

	store := &SQLiteStore{db: db}
	if err := store.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	slog.Info("[SQLite] Opened last analysis store", slog.String("path", path))
	return store, nil
}

func (s *SQLiteStore) migrate() error {
	stmts := []string{
		`PRAGMA busy_timeout = 5000;`,
		`CREATE TABLE IF NOT EXISTS last_analysis (
			id TEXT PRIMARY KEY,
			text TEXT NOT NULL,
			created_at TEXT NOT NULL
		);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("[SQLite] migration failed: %w", err)
		}
	}
	return nil
}

func (s *SQLiteStore) Save(ctx context.Context, text string) (rec models.LastAnalysis, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.LastAnalysis{}, fmt.Errorf("[SQLite] failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM last_analysis`); err != nil {
		return models.LastAnalysis{}, fmt.Errorf("[SQLite] failed to clear last analysis: %w", err)
	}

	rec = newRecord(text)
	if _, err = tx.ExecContext(ctx,
		`INSERT INTO last_analysis (id, text, created_at) VALUES (?, ?, ?)`,
		rec.ID, rec.Text, rec.CreatedAt.Format(time.RFC3339Nano),
	); err != nil {
		return models.LastAnalysis{}, fmt.Errorf("[SQLite] failed to insert last analysis: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return models.LastAnalysis{}, fmt.Errorf("[SQLite] failed to commit: %w", err)
	}
	return rec, nil
}

func (s *SQLiteStore) Latest(ctx context.Context) (models.LastAnalysis, error) {
	var (
		rec     models.LastAnalysis
		created string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, text, created_at FROM last_analysis ORDER BY created_at DESC LIMIT 1`,
	).Scan(&rec.ID, &rec.Text, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return models.LastAnalysis{}, ErrNotFound
	}
	if err != nil {
		return models.LastAnalysis{}, fmt.Errorf("[SQLite] failed to read last analysis: %w", err)
	}

	rec.CreatedAt, err = time.Parse(time.RFC3339Nano, created)
	if err != nil {
		return models.LastAnalysis{}, fmt.Errorf("[SQLite] bad created_at %q: %w", created, err)
	}
	return rec, nil
}

func (s *SQLiteStore) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.db.ExecContext(ctx, `DELETE FROM last_analysis`); err != nil {
		return fmt.Errorf("[SQLite] failed to reset: %w", err)
	}
	return nil
}

// Ping checks the database is reachable.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
