package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/spacesedan/wordlens/internal/clients"
	"github.com/spacesedan/wordlens/internal/models"
)

// Advisory lock key serialising writers of last_analysis.
const lastAnalysisLockKey = 0x776f72646c656e73

// PostgresStore persists the last analysis in PostgreSQL.
type PostgresStore struct {
	pg clients.Postgres
}

// NewPostgresStore wraps an open pool and makes sure the table exists.
func NewPostgresStore(ctx context.Context, pg clients.Postgres) (*PostgresStore, error) {
	_, err := pg.DB.Exec(ctx, `
        CREATE TABLE IF NOT EXISTS last_analysis (
            id TEXT PRIMARY KEY,
            text TEXT NOT NULL,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )
    `)
	if err != nil {
		return nil, fmt.Errorf("[Postgres] failed to create last_analysis: %w", err)
	}
	return &PostgresStore{pg: pg}, nil
}

func (p *PostgresStore) Save(ctx context.Context, text string) (rec models.LastAnalysis, err error) {
	tx, err := p.pg.DB.Begin(ctx)
	if err != nil {
		return models.LastAnalysis{}, fmt.Errorf("[Postgres] failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	if _, err = tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(lastAnalysisLockKey)); err != nil {
		return models.LastAnalysis{}, fmt.Errorf("[Postgres] failed to take writer lock: %w", err)
	}
	if _, err = tx.Exec(ctx, `DELETE FROM last_analysis`); err != nil {
		return models.LastAnalysis{}, fmt.Errorf("[Postgres] failed to clear last analysis: %w", err)
	}

	rec = newRecord(text)
	if _, err = tx.Exec(ctx,
		`INSERT INTO last_analysis (id, text, created_at) VALUES ($1, $2, $3)`,
		rec.ID, rec.Text, rec.CreatedAt,
	); err != nil {
		return models.LastAnalysis{}, fmt.Errorf("[Postgres] failed to insert last analysis: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return models.LastAnalysis{}, fmt.Errorf("[Postgres] failed to commit: %w", err)
	}
	return rec, nil
}

func (p *PostgresStore) Latest(ctx context.Context) (models.LastAnalysis, error) {
	var rec models.LastAnalysis
	err := p.pg.DB.QueryRow(ctx, `
        SELECT id, text, created_at
        FROM last_analysis
        ORDER BY created_at DESC
        LIMIT 1
    `).Scan(&rec.ID, &rec.Text, &rec.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.LastAnalysis{}, ErrNotFound
	}
	if err != nil {
		return models.LastAnalysis{}, fmt.Errorf("[Postgres] failed to read last analysis: %w", err)
	}
	rec.CreatedAt = rec.CreatedAt.UTC()
	return rec, nil
}

func (p *PostgresStore) Reset(ctx context.Context) error {
	if _, err := p.pg.DB.Exec(ctx, `DELETE FROM last_analysis`); err != nil {
		return fmt.Errorf("[Postgres] failed to reset: %w", err)
	}
	return nil
}

func (p *PostgresStore) Ping(ctx context.Context) error {
	return p.pg.DB.Ping(ctx)
}

func (p *PostgresStore) Close() error {
	p.pg.Close()
	return nil
}
