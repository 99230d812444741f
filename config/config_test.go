package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("STORE_DRIVER", "")
	os.Unsetenv("STORE_DRIVER")
	t.Setenv("WORDLENS_CONFIG", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, StoreSQLite, cfg.Store.Driver)
	assert.Equal(t, "en", cfg.Ranking.Locale)
	assert.Equal(t, 60*time.Second, cfg.OpenAI.Timeout)
	assert.False(t, cfg.Kafka.Enabled())
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("STORE_DRIVER", "MEMORY")
	t.Setenv("OPENAI_TIMEOUT", "5s")
	t.Setenv("OPENAI_MAX_RETRIES", "2")
	t.Setenv("KAFKA_BROKER", "localhost:9092")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test, ,http://b.test")
	t.Setenv("WORDLENS_CONFIG", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, StoreMemory, cfg.Store.Driver)
	assert.Equal(t, 5*time.Second, cfg.OpenAI.Timeout)
	assert.Equal(t, 2, cfg.OpenAI.MaxRetries)
	assert.True(t, cfg.Kafka.Enabled())
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.HTTP.AllowedOrigins)
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	t.Setenv("STORE_DRIVER", "mongo")
	t.Setenv("WORDLENS_CONFIG", "")

	_, err := Load()
	assert.ErrorContains(t, err, "unknown STORE_DRIVER")
}

func TestLoadAppliesTOMLOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wordlens.toml")
	content := `
[server]
port = "9090"

[store]
driver = "memory"

[openai]
model = "gpt-4o"
timeout = "10s"

[ranking]
locale = "de"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Setenv("STORE_DRIVER", "sqlite")
	t.Setenv("WORDLENS_CONFIG", path)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, StoreMemory, cfg.Store.Driver)
	assert.Equal(t, "gpt-4o", cfg.OpenAI.Model)
	assert.Equal(t, 10*time.Second, cfg.OpenAI.Timeout)
	assert.Equal(t, "de", cfg.Ranking.Locale)
}

func TestLoadFileMissingIsNotAnError(t *testing.T) {
	fc, err := LoadFile(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Nil(t, fc.Store.Driver)
}
