package clients

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/spacesedan/wordlens/config"
)

const (
	defaultOpenAIRequestTimeout = 60 * time.Second // Timeout for individual OpenAI API requests
)

var ErrMissingOpenAIKey = errors.New("[OpenAIClient] missing OPENAI_API_KEY")

type OpenAIClient struct {
	Client *openai.Client
}

func NewOpenAIClient(cfg config.OpenAIConfig) (*OpenAIClient, error) {
	if cfg.APIKey == "" {
		slog.Error("[OpenAIClient] Missing OPENAI_API_KEY in environment variables")
		return nil, ErrMissingOpenAIKey
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultOpenAIRequestTimeout
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	clientConfig.HTTPClient = &http.Client{
		Timeout:   timeout,
		Transport: userAgentTransport{base: http.DefaultTransport},
	}

	slog.Info("[OpenAIClient] OpenAI client initialized with custom HTTP timeout",
		slog.Duration("timeout", timeout),
		slog.String("model", cfg.Model))

	return &OpenAIClient{
		Client: openai.NewClientWithConfig(clientConfig),
	}, nil
}

type userAgentTransport struct {
	base http.RoundTripper
}

func (t userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("User-Agent", USER_AGENT)
	return t.base.RoundTrip(req)
}
