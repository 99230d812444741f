package clients

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/spacesedan/wordlens/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOpenAIClientRequiresKey(t *testing.T) {
	_, err := NewOpenAIClient(config.OpenAIConfig{})
	assert.ErrorIs(t, err, ErrMissingOpenAIKey)
}

func TestNewOpenAIClient(t *testing.T) {
	c, err := NewOpenAIClient(config.OpenAIConfig{
		APIKey:  "sk-test",
		BaseURL: "http://127.0.0.1:1/v1",
		Timeout: time.Second,
	})
	require.NoError(t, err)
	assert.NotNil(t, c.Client)
}

func TestOpenAIClientSendsUserAgent(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"object":"list","data":[]}`))
	}))
	defer srv.Close()

	c, err := NewOpenAIClient(config.OpenAIConfig{APIKey: "sk-test", BaseURL: srv.URL + "/v1"})
	require.NoError(t, err)

	_, err = c.Client.ListModels(context.Background())
	require.NoError(t, err)
	assert.Equal(t, USER_AGENT, got)
}
