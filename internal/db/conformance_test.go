package db

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runStoreConformance exercises the single-row contract every backend shares.
func runStoreConformance(t *testing.T, newStore func(t *testing.T) LastAnalysisStore) {
	t.Helper()

	t.Run("latest on empty store", func(t *testing.T) {
		s := newStore(t)
		_, err := s.Latest(context.Background())
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("save then latest", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		saved, err := s.Save(ctx, "Hello World")
		require.NoError(t, err)
		assert.NotEmpty(t, saved.ID)
		assert.False(t, saved.CreatedAt.IsZero())

		got, err := s.Latest(ctx)
		require.NoError(t, err)
		assert.Equal(t, saved.ID, got.ID)
		assert.Equal(t, "Hello World", got.Text)
		assert.WithinDuration(t, saved.CreatedAt, got.CreatedAt, time.Millisecond)
	})

	t.Run("save replaces previous record", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		first, err := s.Save(ctx, "Hello World")
		require.NoError(t, err)
		second, err := s.Save(ctx, "Second text")
		require.NoError(t, err)
		assert.NotEqual(t, first.ID, second.ID)

		got, err := s.Latest(ctx)
		require.NoError(t, err)
		assert.Equal(t, "Second text", got.Text)
		assert.Equal(t, second.ID, got.ID)
	})

	t.Run("text stored byte for byte", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		raw := "  Ünïcode\ttabs\nand 'quotes' \"too\"  "

		_, err := s.Save(ctx, raw)
		require.NoError(t, err)

		got, err := s.Latest(ctx)
		require.NoError(t, err)
		assert.Equal(t, raw, got.Text)
	})

	t.Run("reset empties the store", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		_, err := s.Save(ctx, "gone soon")
		require.NoError(t, err)
		require.NoError(t, s.Reset(ctx))

		_, err = s.Latest(ctx)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("concurrent saves leave one complete record", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		texts := []string{"alpha", "bravo", "charlie", "delta", "echo", "foxtrot"}

		_, err := s.Save(ctx, "seed")
		require.NoError(t, err)

		var wg sync.WaitGroup
		errs := make(chan error, len(texts)*2)
		for _, text := range texts {
			wg.Add(2)
			go func(text string) {
				defer wg.Done()
				if _, err := s.Save(ctx, text); err != nil {
					errs <- err
				}
			}(text)
			go func() {
				defer wg.Done()
				got, err := s.Latest(ctx)
				if err != nil {
					errs <- err
					return
				}
				if got.Text == "" {
					errs <- errors.New("observed empty record")
				}
			}()
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			t.Fatalf("concurrent access: %v", err)
		}

		got, err := s.Latest(ctx)
		require.NoError(t, err)
		assert.Contains(t, texts, got.Text)
	})
}
