package repositories

import (
	"context"
	"testing"

	"yatube/app/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewBadgerGroupRepository(newTestDB(t))

	cats := &models.Group{Title: "Cats", Slug: "cats", Description: "all about cats"}
	require.NoError(t, repo.Create(ctx, cats))
	dogs := &models.Group{Title: "Dogs", Slug: "dogs"}
	require.NoError(t, repo.Create(ctx, dogs))

	t.Run("get by slug", func(t *testing.T) {
		got, err := repo.GetBySlug(ctx, "cats")
		require.NoError(t, err)
		assert.Equal(t, cats.ID, got.ID)
		assert.Equal(t, "all about cats", got.Description)
	})

	t.Run("missing slug", func(t *testing.T) {
		_, err := repo.GetBySlug(ctx, "birds")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("duplicate slug", func(t *testing.T) {
		err := repo.Create(ctx, &models.Group{Title: "Other cats", Slug: "cats"})
		assert.ErrorIs(t, err, ErrDuplicate)
	})

	t.Run("get by ids skips missing", func(t *testing.T) {
		got, err := repo.GetByIDs(ctx, []int{cats.ID, 999, dogs.ID})
		require.NoError(t, err)
		assert.Len(t, got, 2)
		assert.Equal(t, "Dogs", got[dogs.ID].Title)
	})

	t.Run("list", func(t *testing.T) {
		groups, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, groups, 2)
		assert.Equal(t, "cats", groups[0].Slug)
	})
}

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewBadgerUserRepository(newTestDB(t))

	leo := &models.User{Username: " leo ", PasswordHash: "hash"}
	require.NoError(t, repo.Create(ctx, leo))
	assert.Equal(t, "leo", leo.Username)

	t.Run("get by username", func(t *testing.T) {
		got, err := repo.GetByUsername(ctx, "leo")
		require.NoError(t, err)
		assert.Equal(t, leo.ID, got.ID)
	})

	t.Run("get by id", func(t *testing.T) {
		got, err := repo.GetByID(ctx, leo.ID)
		require.NoError(t, err)
		assert.Equal(t, "leo", got.Username)
		_, err = repo.GetByID(ctx, 404)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("duplicate username", func(t *testing.T) {
		err := repo.Create(ctx, &models.User{Username: "leo", PasswordHash: "other"})
		assert.ErrorIs(t, err, ErrDuplicate)
	})

	t.Run("missing username", func(t *testing.T) {
		_, err := repo.GetByUsername(ctx, "tolstoy")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("get by ids", func(t *testing.T) {
		got, err := repo.GetByIDs(ctx, []int{leo.ID, 55})
		require.NoError(t, err)
		assert.Len(t, got, 1)
		assert.Equal(t, "leo", got[leo.ID].Username)
	})
}
