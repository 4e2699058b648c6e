package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"watchfleet/internal/domain/setting"
	"watchfleet/internal/shared/logger"
)

func createTestSetting(t *testing.T, projectName, field, value string) *setting.ProjectSetting {
	s, err := setting.NewProjectSetting(projectName, field, value)
	require.NoError(t, err)
	return s
}

func TestSettingRepository_Upsert(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSettingRepository(db, logger.NewLogger())
	ctx := context.Background()

	t.Run("insert new setting", func(t *testing.T) {
		s := createTestSetting(t, "careline", "sos_phone_number", "29998888")
		err := repo.Upsert(ctx, s)
		assert.NoError(t, err)
		assert.NotZero(t, s.ID())
	})

	t.Run("upsert replaces existing value", func(t *testing.T) {
		s := createTestSetting(t, "careline", "call_center_number", "28887777")
		require.NoError(t, repo.Upsert(ctx, s))

		s2 := createTestSetting(t, "careline", "call_center_number", "25556666")
		require.NoError(t, repo.Upsert(ctx, s2))

		found, err := repo.GetByField(ctx, "careline", "call_center_number")
		assert.NoError(t, err)
		assert.Equal(t, "25556666", found.Value())

		all, err := repo.GetByProject(ctx, "careline")
		require.NoError(t, err)
		count := 0
		for _, item := range all {
			if item.Field() == "call_center_number" {
				count++
			}
		}
		assert.Equal(t, 1, count)
	})

	t.Run("same field across projects is independent", func(t *testing.T) {
		require.NoError(t, repo.Upsert(ctx, createTestSetting(t, "alpha", "stand_still", "1")))
		require.NoError(t, repo.Upsert(ctx, createTestSetting(t, "beta", "stand_still", "0")))

		a, err := repo.GetByField(ctx, "alpha", "stand_still")
		require.NoError(t, err)
		b, err := repo.GetByField(ctx, "beta", "stand_still")
		require.NoError(t, err)
		assert.Equal(t, "1", a.Value())
		assert.Equal(t, "0", b.Value())
	})
}

func TestSettingRepository_GetByField(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSettingRepository(db, logger.NewLogger())
	ctx := context.Background()

	t.Run("missing setting", func(t *testing.T) {
		found, err := repo.GetByField(ctx, "careline", "nope")
		assert.ErrorIs(t, err, setting.ErrSettingNotFound)
		assert.Nil(t, found)
	})
}

func TestSettingRepository_GetByProject(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSettingRepository(db, logger.NewLogger())
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, createTestSetting(t, "careline", "sos_phone_number", "29998888,29997777")))
	require.NoError(t, repo.Upsert(ctx, createTestSetting(t, "careline", "call_center_number", "28887777")))
	require.NoError(t, repo.Upsert(ctx, createTestSetting(t, "other", "call_center_number", "21112222")))

	all, err := repo.GetByProject(ctx, "careline")
	assert.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "call_center_number", all[0].Field())
	assert.Equal(t, "sos_phone_number", all[1].Field())
}

func TestSettingRepository_Delete(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSettingRepository(db, logger.NewLogger())
	ctx := context.Background()

	t.Run("delete existing setting", func(t *testing.T) {
		require.NoError(t, repo.Upsert(ctx, createTestSetting(t, "careline", "fall_sensitivity_level", "5")))

		err := repo.Delete(ctx, "careline", "fall_sensitivity_level")
		assert.NoError(t, err)

		_, err = repo.GetByField(ctx, "careline", "fall_sensitivity_level")
		assert.ErrorIs(t, err, setting.ErrSettingNotFound)
	})

	t.Run("delete non-existent setting", func(t *testing.T) {
		err := repo.Delete(ctx, "careline", "ghost")
		assert.ErrorIs(t, err, setting.ErrSettingNotFound)
	})
}
