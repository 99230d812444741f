// Package analysis talks to the language model that detects the language,
// sentiment and word statistics of a text.
package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/sony/gobreaker"
	"github.com/spacesedan/wordlens/internal/clients"
	"github.com/spacesedan/wordlens/internal/models"
)

var (
	// ErrModelUnavailable means the model could not be reached or the circuit is open.
	ErrModelUnavailable = errors.New("language model unavailable")
	// ErrMalformedResponse means the model answered with something we cannot use.
	ErrMalformedResponse = errors.New("malformed language model response")
)

// Analyzer is the collaborator that turns raw text into model-computed statistics.
type Analyzer interface {
	Analyze(ctx context.Context, text string) (models.ModelAnalysis, error)
}

// ChatClient is the subset of the OpenAI client used here.
type ChatClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
	ListModels(ctx context.Context) (openai.ModelsList, error)
}

type Options struct {
	Model          string
	MaxRetries     int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	Breaker        BreakerSettings
}

type BreakerSettings struct {
	MaxRequests      uint32
	Interval         time.Duration
	Timeout          time.Duration
	FailureThreshold float64
	MinRequests      uint32
}

func DefaultBreakerSettings() BreakerSettings {
	return BreakerSettings{
		MaxRequests:      1,
		Interval:         60 * time.Second,
		Timeout:          30 * time.Second,
		FailureThreshold: 0.6,
		MinRequests:      5,
	}
}

type OpenAIAnalyzer struct {
	client  ChatClient
	opts    Options
	breaker *gobreaker.CircuitBreaker
}

// NewOpenAIAnalyzer wraps an OpenAI client. Zero option values take the
// package defaults.
func NewOpenAIAnalyzer(client *clients.OpenAIClient, opts Options) *OpenAIAnalyzer {
	return newAnalyzer(client.Client, opts)
}

func newAnalyzer(client ChatClient, opts Options) *OpenAIAnalyzer {
	if opts.Model == "" {
		opts.Model = openai.GPT4oMini
	}
	if opts.MaxRetries < 1 {
		opts.MaxRetries = clients.MAX_RETRIES
	}
	if opts.InitialBackoff <= 0 {
		opts.InitialBackoff = clients.INITIAL_BACKOFF
	}
	if opts.MaxBackoff <= 0 {
		opts.MaxBackoff = clients.MAX_BACKOFF
	}
	if opts.Breaker == (BreakerSettings{}) {
		opts.Breaker = DefaultBreakerSettings()
	}

	bs := opts.Breaker
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "openai",
		MaxRequests: bs.MaxRequests,
		Interval:    bs.Interval,
		Timeout:     bs.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < bs.MinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= bs.FailureThreshold
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			slog.Warn("[Analyzer] Circuit breaker state changed",
				slog.String("name", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()))
		},
		// A rejected request says nothing about the health of the service.
		IsSuccessful: func(err error) bool {
			return err == nil || !isRetryable(err)
		},
	})

	return &OpenAIAnalyzer{client: client, opts: opts, breaker: breaker}
}

// Analyze asks the model for the language, sentiment and word statistics of text.
func (a *OpenAIAnalyzer) Analyze(ctx context.Context, text string) (models.ModelAnalysis, error) {
	req := openai.ChatCompletionRequest{
		Model:       a.opts.Model,
		Messages:    buildChatMessages(text),
		// A zero temperature is dropped by omitempty; this is the library's way to send 0.
		Temperature: math.SmallestNonzeroFloat32,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}

	resp, err := a.complete(ctx, req)
	if err != nil {
		return models.ModelAnalysis{}, err
	}

	if len(resp.Choices) == 0 {
		return models.ModelAnalysis{}, fmt.Errorf("%w: no choices returned", ErrMalformedResponse)
	}
	choice := resp.Choices[0]
	slog.Debug("[Analyzer] Model response finish reason",
		slog.String("finish_reason", string(choice.FinishReason)))

	return parseModelResponse(choice.Message.Content)
}

func (a *OpenAIAnalyzer) complete(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	var (
		resp    openai.ChatCompletionResponse
		lastErr error
	)
	backoff := a.opts.InitialBackoff

	for attempt := 0; attempt < a.opts.MaxRetries; attempt++ {
		start := time.Now()
		out, err := a.breaker.Execute(func() (interface{}, error) {
			return a.client.CreateChatCompletion(ctx, req)
		})
		if err == nil {
			resp = out.(openai.ChatCompletionResponse)
			slog.Info("[Analyzer] Model request successful",
				slog.Int("attempt", attempt+1),
				slog.Duration("elapsed", time.Since(start)))
			return resp, nil
		}
		lastErr = err

		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			slog.Warn("[Analyzer] Circuit breaker rejected model request",
				slog.String("error", err.Error()))
			return resp, fmt.Errorf("%w: %v", ErrModelUnavailable, err)
		}
		if !isRetryable(err) {
			slog.Error("[Analyzer] Model rejected request",
				slog.String("error", err.Error()))
			return resp, fmt.Errorf("%w: %v", ErrModelUnavailable, err)
		}

		slog.Warn("[Analyzer] Failed to get a response from the model, retrying...",
			slog.String("error", err.Error()),
			slog.Int("attempt", attempt+1),
			slog.Duration("elapsed", time.Since(start)))

		if attempt == a.opts.MaxRetries-1 {
			break
		}
		select {
		case <-ctx.Done():
			return resp, fmt.Errorf("%w: %v", ErrModelUnavailable, ctx.Err())
		case <-time.After(backoff):
		}
		backoff = min(backoff*2, a.opts.MaxBackoff)
	}

	slog.Error("[Analyzer] Failed to get a response from the model",
		slog.Int("attempts", a.opts.MaxRetries),
		slog.String("error", lastErr.Error()))
	return resp, fmt.Errorf("%w: %v", ErrModelUnavailable, lastErr)
}

// Ping checks that the model API answers.
func (a *OpenAIAnalyzer) Ping(ctx context.Context) error {
	_, err := a.client.ListModels(ctx)
	return err
}

// BreakerState reports the circuit breaker state, e.g. "closed" or "open".
func (a *OpenAIAnalyzer) BreakerState() string {
	return a.breaker.State().String()
}

// isRetryable reports whether err is worth another attempt. Client errors
// other than rate limiting are final.
func isRetryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	status := 0
	var apiErr *openai.APIError
	var reqErr *openai.RequestError
	switch {
	case errors.As(err, &apiErr):
		status = apiErr.HTTPStatusCode
	case errors.As(err, &reqErr):
		status = reqErr.HTTPStatusCode
	}
	if status >= 400 && status < 500 && status != http.StatusTooManyRequests {
		return false
	}
	return true
}

type modelReply struct {
	Idiom     string            `json:"idiom"`
	Sentiment string            `json:"sentiment"`
	Words     []models.WordStat `json:"words"`
}

func parseModelResponse(content string) (models.ModelAnalysis, error) {
	cleaned := cleanModelResponse(content)
	if cleaned == "" {
		return models.ModelAnalysis{}, fmt.Errorf("%w: response is not a JSON object", ErrMalformedResponse)
	}

	var reply modelReply
	if err := json.Unmarshal([]byte(cleaned), &reply); err != nil {
		slog.Error("[Analyzer] Failed to unmarshal model response",
			slog.String("error", err.Error()),
			slog.String("cleaned_response_snippet", snippet(cleaned)))
		return models.ModelAnalysis{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	if reply.Idiom == "" && reply.Sentiment == "" && reply.Words == nil {
		return models.ModelAnalysis{}, fmt.Errorf("%w: missing idiom, sentiment and words", ErrMalformedResponse)
	}

	words := make([]models.WordStat, 0, len(reply.Words))
	for _, w := range reply.Words {
		if strings.TrimSpace(w.Word) == "" || w.Count <= 0 {
			slog.Warn("[Analyzer] Dropping invalid word entry",
				slog.String("word", w.Word),
				slog.Int("count", w.Count))
			continue
		}
		words = append(words, w)
	}

	return models.ModelAnalysis{
		Idiom:     reply.Idiom,
		Sentiment: reply.Sentiment,
		Words:     words,
	}, nil
}

// NormalizeSentiment maps case and whitespace variants of the three known
// labels onto their lowercase form. Anything else is returned unchanged.
func NormalizeSentiment(s string) string {
	switch label := strings.ToLower(strings.TrimSpace(s)); label {
	case models.SentimentPositive, models.SentimentNegative, models.SentimentNeutral:
		return label
	default:
		return s
	}
}
