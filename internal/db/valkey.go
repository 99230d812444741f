package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spacesedan/wordlens/internal/clients"
	"github.com/spacesedan/wordlens/internal/models"
	"github.com/valkey-io/valkey-go"
)

const VALKEY_LAST_ANALYSIS_KEY = "wordlens:last_analysis"

const valkeyRetries = 3

// ValkeyStore keeps the last analysis as one JSON value under a fixed key.
// A single SET replaces it, which is atomic for readers.
type ValkeyStore struct {
	vc *clients.ValkeyClient
}

func NewValkeyStore(vc *clients.ValkeyClient) *ValkeyStore {
	return &ValkeyStore{vc: vc}
}

func (s *ValkeyStore) Save(ctx context.Context, text string) (models.LastAnalysis, error) {
	rec := newRecord(text)
	payload, err := json.Marshal(rec)
	if err != nil {
		return models.LastAnalysis{}, fmt.Errorf("[Valkey] failed to marshal last analysis: %w", err)
	}

	res := s.vc.DoWithRetry(ctx, func(c valkey.Client) valkey.Completed {
		return c.B().Set().Key(VALKEY_LAST_ANALYSIS_KEY).Value(string(payload)).Build()
	}, valkeyRetries)
	if err := res.Error(); err != nil {
		return models.LastAnalysis{}, fmt.Errorf("[Valkey] failed to store last analysis: %w", err)
	}
	return rec, nil
}

func (s *ValkeyStore) Latest(ctx context.Context) (models.LastAnalysis, error) {
	res := s.vc.DoWithRetry(ctx, func(c valkey.Client) valkey.Completed {
		return c.B().Get().Key(VALKEY_LAST_ANALYSIS_KEY).Build()
	}, valkeyRetries)

	raw, err := res.ToString()
	if valkey.IsValkeyNil(err) {
		return models.LastAnalysis{}, ErrNotFound
	}
	if err != nil {
		return models.LastAnalysis{}, fmt.Errorf("[Valkey] failed to read last analysis: %w", err)
	}

	var rec models.LastAnalysis
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return models.LastAnalysis{}, fmt.Errorf("[Valkey] failed to unmarshal last analysis: %w", err)
	}
	return rec, nil
}

func (s *ValkeyStore) Reset(ctx context.Context) error {
	res := s.vc.DoWithRetry(ctx, func(c valkey.Client) valkey.Completed {
		return c.B().Del().Key(VALKEY_LAST_ANALYSIS_KEY).Build()
	}, valkeyRetries)
	if err := res.Error(); err != nil {
		return fmt.Errorf("[Valkey] failed to reset: %w", err)
	}
	return nil
}

func (s *ValkeyStore) Ping(ctx context.Context) error {
	return s.vc.DoWithRetry(ctx, func(c valkey.Client) valkey.Completed {
		return c.B().Ping().Build()
	}, 1).Error()
}

func (s *ValkeyStore) Close() error {
	s.vc.Close()
	return nil
}
