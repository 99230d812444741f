package clients

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Postgres struct {
	DB *pgxpool.Pool
}

func NewPostgresClient(ctx context.Context, dsn string) (Postgres, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return Postgres{}, fmt.Errorf("[PostgresClient] failed to create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return Postgres{}, fmt.Errorf("[PostgresClient] failed to ping PostgreSQL: %w", err)
	}

	slog.Info("[PostgresClient] Connected to PostgreSQL successfully")
	return Postgres{DB: pool}, nil
}

func (p Postgres) Close() {
	if p.DB != nil {
		p.DB.Close()
	}
}
