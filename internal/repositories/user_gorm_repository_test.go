package repositories

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shoestore/internal/apperrors"
	"shoestore/internal/models"
	"shoestore/internal/testutil"
)

func TestGORMUserRepository_CreateAndLookup(t *testing.T) {
	ctx := context.Background()
	repo := NewGORMUserRepository(testutil.NewTestDB(t))

	user := &models.User{Username: "alice", Password: "hash", Email: "alice@example.com"}
	require.NoError(t, repo.Create(ctx, user))
	assert.True(t, models.IsValidID(user.ID))

	byID, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", byID.Username)

	byName, err := repo.GetByLogin(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byName.ID)

	byEmail, err := repo.GetByLogin(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)

	_, err = repo.GetByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestGORMUserRepository_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	repo := NewGORMUserRepository(testutil.NewTestDB(t))

	require.NoError(t, repo.Create(ctx, &models.User{Username: "a", Password: "x", Email: "same@example.com"}))
	err := repo.Create(ctx, &models.User{Username: "b", Password: "y", Email: "same@example.com"})
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestGORMUserRepository_UpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	repo := NewGORMUserRepository(testutil.NewTestDB(t))

	user := &models.User{Username: "bob", Password: "hash", Email: "bob@example.com"}
	require.NoError(t, repo.Create(ctx, user))

	updated, err := repo.Update(ctx, user.ID, map[string]any{"address": "1 Main St", "phone": "0123456789"})
	require.NoError(t, err)
	assert.Equal(t, "1 Main St", updated.Address)
	assert.Equal(t, "0123456789", updated.Phone)

	_, err = repo.Update(ctx, models.NewID(), map[string]any{"address": "x"})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	require.NoError(t, repo.Delete(ctx, user.ID))
	assert.ErrorIs(t, repo.Delete(ctx, user.ID), apperrors.ErrNotFound)
}
