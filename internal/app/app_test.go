package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/spacesedan/wordlens/config"
	"github.com/spacesedan/wordlens/internal/clients"
	"github.com/spacesedan/wordlens/internal/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() config.Config {
	return config.Config{
		Store:  config.StoreConfig{Driver: config.StoreMemory},
		OpenAI: config.OpenAIConfig{APIKey: "sk-test", Model: "gpt-test", MaxRetries: 1},
		HTTP:   config.HTTPConfig{MaxBodyBytes: 1 << 20},
	}
}

func TestNewWiresMemoryStack(t *testing.T) {
	a, err := New(context.Background(), testConfig())
	require.NoError(t, err)
	defer a.Close()

	assert.IsType(t, events.NoopPublisher{}, a.Publisher)
	assert.True(t, a.ModelHealthy.Load())

	rec := httptest.NewRecorder()
	a.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/search?term=x", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"term":"x","found":false}`, rec.Body.String())
}

func TestNewRequiresAPIKey(t *testing.T) {
	cfg := testConfig()
	cfg.OpenAI.APIKey = ""

	_, err := New(context.Background(), cfg)
	assert.ErrorIs(t, err, clients.ErrMissingOpenAIKey)
}

func TestNewRejectsUnknownStore(t *testing.T) {
	cfg := testConfig()
	cfg.Store.Driver = "cassandra"

	_, err := New(context.Background(), cfg)
	assert.Error(t, err)
}
