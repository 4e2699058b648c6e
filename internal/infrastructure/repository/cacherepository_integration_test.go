package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"watchfleet/internal/shared/logger"
)

func TestCacheRepository_GetPut(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCacheRepository(db, logger.NewLogger())
	ctx := context.Background()

	t.Run("miss on empty table", func(t *testing.T) {
		_, _, err := repo.Get(ctx, "miwi.access_token")
		assert.ErrorIs(t, err, ErrCacheMiss)
	})

	t.Run("put then get round trip", func(t *testing.T) {
		at := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
		err := repo.Put(ctx, "miwi.access_token", "token-abc", at)
		require.NoError(t, err)

		value, updatedAt, err := repo.Get(ctx, "miwi.access_token")
		assert.NoError(t, err)
		assert.Equal(t, "token-abc", value)
		assert.True(t, updatedAt.Equal(at))
	})

	t.Run("put supersedes previous value", func(t *testing.T) {
		first := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
		second := first.Add(24 * time.Hour)
		require.NoError(t, repo.Put(ctx, "rotate-me", "old", first))
		require.NoError(t, repo.Put(ctx, "rotate-me", "new", second))

		value, updatedAt, err := repo.Get(ctx, "rotate-me")
		assert.NoError(t, err)
		assert.Equal(t, "new", value)
		assert.True(t, updatedAt.Equal(second))
	})

	t.Run("keys are independent", func(t *testing.T) {
		now := time.Now().UTC()
		require.NoError(t, repo.Put(ctx, "key-a", "a", now))
		require.NoError(t, repo.Put(ctx, "key-b", "b", now))

		value, _, err := repo.Get(ctx, "key-a")
		require.NoError(t, err)
		assert.Equal(t, "a", value)
	})
}
