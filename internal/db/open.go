package db

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spacesedan/wordlens/config"
	"github.com/spacesedan/wordlens/internal/clients"
)

// Pinger is implemented by stores backed by a remote service or file.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Open builds the store selected by cfg.Driver.
func Open(ctx context.Context, cfg config.StoreConfig) (LastAnalysisStore, error) {
	slog.Info("[DB] Opening last analysis store", slog.String("driver", cfg.Driver))

	switch cfg.Driver {
	case config.StoreMemory:
		return NewMemoryStore(), nil

	case config.StoreSQLite:
		return OpenSQLite(cfg.SQLitePath)

	case config.StorePostgres:
		pg, err := clients.NewPostgresClient(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		store, err := NewPostgresStore(ctx, pg)
		if err != nil {
			pg.Close()
			return nil, err
		}
		return store, nil

	case config.StoreValkey:
		vc, err := clients.NewValkeyClient(ctx, clients.ValkeyOptions{
			Address:  cfg.ValkeyAddress,
			Password: cfg.ValkeyPassword,
			TLS:      cfg.ValkeyTLS,
		})
		if err != nil {
			return nil, err
		}
		return NewValkeyStore(vc), nil

	case config.StoreDynamoDB:
		awsCfg, err := clients.NewAWSConfig(ctx, cfg.AWSRegion)
		if err != nil {
			return nil, err
		}
		return NewDynamoDBStore(ctx, clients.NewDynamoDBClient(awsCfg, cfg.AWSEndpoint), cfg.DynamoDBTable)

	default:
		return nil, fmt.Errorf("[DB] unknown store driver %q", cfg.Driver)
	}
}
