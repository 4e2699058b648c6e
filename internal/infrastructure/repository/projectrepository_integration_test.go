package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"watchfleet/internal/domain/project"
	"watchfleet/internal/shared/logger"
)

func createTestProject(t *testing.T, name, url string) *project.Project {
	p, err := project.NewProject(name, url)
	require.NoError(t, err)
	return p
}

func TestProjectRepository_Save(t *testing.T) {
	db := setupTestDB(t)
	repo := NewProjectRepository(db, logger.NewLogger())
	ctx := context.Background()

	t.Run("save new project", func(t *testing.T) {
		p := createTestProject(t, "careline", "https://careline.example.com")
		err := repo.Save(ctx, p)
		assert.NoError(t, err)
		assert.NotZero(t, p.ID())
	})

	t.Run("save is an upsert on name", func(t *testing.T) {
		p := createTestProject(t, "upsert-me", "https://v1.example.com")
		require.NoError(t, repo.Save(ctx, p))

		p2 := createTestProject(t, "upsert-me", "https://v2.example.com")
		require.NoError(t, p2.LinkGroup(33))
		err := repo.Save(ctx, p2)
		assert.NoError(t, err)

		found, err := repo.GetByName(ctx, "upsert-me")
		require.NoError(t, err)
		assert.Equal(t, "https://v2.example.com", found.URL())
		assert.Equal(t, 33, found.GroupID())

		all, err := repo.List(ctx)
		require.NoError(t, err)
		names := 0
		for _, q := range all {
			if q.Name() == "upsert-me" {
				names++
			}
		}
		assert.Equal(t, 1, names)
	})
}

func TestProjectRepository_GetByName(t *testing.T) {
	db := setupTestDB(t)
	repo := NewProjectRepository(db, logger.NewLogger())
	ctx := context.Background()

	t.Run("get existing project", func(t *testing.T) {
		p := createTestProject(t, "careline", "https://careline.example.com")
		require.NoError(t, p.LinkGroup(7))
		require.NoError(t, repo.Save(ctx, p))

		found, err := repo.GetByName(ctx, "careline")
		assert.NoError(t, err)
		assert.Equal(t, "careline", found.Name())
		assert.Equal(t, 7, found.GroupID())
		assert.True(t, found.HasGroup())
	})

	t.Run("get non-existent project", func(t *testing.T) {
		found, err := repo.GetByName(ctx, "ghost")
		assert.ErrorIs(t, err, project.ErrProjectNotFound)
		assert.Nil(t, found)
	})
}

func TestProjectRepository_List(t *testing.T) {
	db := setupTestDB(t)
	repo := NewProjectRepository(db, logger.NewLogger())
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, createTestProject(t, "beta", "")))
	require.NoError(t, repo.Save(ctx, createTestProject(t, "alpha", "")))

	all, err := repo.List(ctx)
	assert.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "alpha", all[0].Name())
	assert.Equal(t, "beta", all[1].Name())
}

func TestProjectRepository_DeleteByName(t *testing.T) {
	db := setupTestDB(t)
	repo := NewProjectRepository(db, logger.NewLogger())
	ctx := context.Background()

	t.Run("delete existing project", func(t *testing.T) {
		require.NoError(t, repo.Save(ctx, createTestProject(t, "doomed", "")))

		err := repo.DeleteByName(ctx, "doomed")
		assert.NoError(t, err)

		_, err = repo.GetByName(ctx, "doomed")
		assert.ErrorIs(t, err, project.ErrProjectNotFound)
	})

	t.Run("delete non-existent project", func(t *testing.T) {
		err := repo.DeleteByName(ctx, "ghost")
		assert.ErrorIs(t, err, project.ErrProjectNotFound)
	})
}
