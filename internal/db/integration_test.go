package db

import (
	"context"
	"os"
	"testing"

	"github.com/spacesedan/wordlens/config"
	"github.com/stretchr/testify/require"
)

// Backends that need a running service are exercised only when the matching
// WORDLENS_TEST_* variable is set.

func TestPostgresStore(t *testing.T) {
	dsn := os.Getenv("WORDLENS_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("WORDLENS_TEST_POSTGRES_DSN not set")
	}
	runStoreConformance(t, func(t *testing.T) LastAnalysisStore {
		return openIntegrationStore(t, config.StoreConfig{Driver: config.StorePostgres, PostgresDSN: dsn})
	})
}

func TestValkeyStore(t *testing.T) {
	addr := os.Getenv("WORDLENS_TEST_VALKEY_ADDR")
	if addr == "" {
		t.Skip("WORDLENS_TEST_VALKEY_ADDR not set")
	}
	runStoreConformance(t, func(t *testing.T) LastAnalysisStore {
		return openIntegrationStore(t, config.StoreConfig{Driver: config.StoreValkey, ValkeyAddress: addr})
	})
}

func TestDynamoDBStore(t *testing.T) {
	endpoint := os.Getenv("WORDLENS_TEST_DYNAMODB_ENDPOINT")
	if endpoint == "" {
		t.Skip("WORDLENS_TEST_DYNAMODB_ENDPOINT not set")
	}
	runStoreConformance(t, func(t *testing.T) LastAnalysisStore {
		return openIntegrationStore(t, config.StoreConfig{
			Driver:        config.StoreDynamoDB,
			AWSEndpoint:   endpoint,
			AWSRegion:     "us-west-2",
			DynamoDBTable: "LastAnalysisTest",
		})
	})
}

func openIntegrationStore(t *testing.T, cfg config.StoreConfig) LastAnalysisStore {
	t.Helper()
	ctx := context.Background()
	s, err := Open(ctx, cfg)
	require.NoError(t, err)
	require.NoError(t, s.Reset(ctx))
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestOpenMemoryAndUnknown(t *testing.T) {
	s, err := Open(context.Background(), config.StoreConfig{Driver: config.StoreMemory})
	require.NoError(t, err)
	require.IsType(t, &MemoryStore{}, s)

	_, err = Open(context.Background(), config.StoreConfig{Driver: "cassandra"})
	require.Error(t, err)
}
