package storage_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/myfood/myfood-backend/internal/domain"
	"github.com/myfood/myfood-backend/internal/storage"
)

func TestUserRepository(t *testing.T) {
	r := newRepos(t, testDBSetup(t))
	ctx := context.Background()

	first, err := r.users.FindFirst(ctx)
	require.NoError(t, err)
	assert.Nil(t, first, "fresh install has no user")

	ana, err := r.users.Create(ctx, domain.User{Email: "ana@example.com", Password: "hash-a", Name: "Ana", Height: ptr(1.65)})
	require.NoError(t, err)
	bruno, err := r.users.Create(ctx, domain.User{Email: "bruno@example.com", Password: "hash-b", Name: "Bruno"})
	require.NoError(t, err)

	t.Run("duplicate email", func(t *testing.T) {
		_, err := r.users.Create(ctx, domain.User{Email: "ana@example.com", Password: "x", Name: "Other"})
		assert.ErrorIs(t, err, storage.ErrEmailExists)
	})

	t.Run("find by email", func(t *testing.T) {
		found, err := r.users.FindByEmail(ctx, "bruno@example.com")
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, bruno.ID, found.ID)
		assert.Equal(t, "hash-b", found.Password)

		missing, err := r.users.FindByEmail(ctx, "nobody@example.com")
		require.NoError(t, err)
		assert.Nil(t, missing)
	})

	t.Run("first is the oldest account", func(t *testing.T) {
		found, err := r.users.FindFirst(ctx)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, ana.ID, found.ID)
		assert.InDelta(t, 1.65, *found.Height, 1e-9)
	})

	t.Run("partial update", func(t *testing.T) {
		updated, err := r.users.Update(ctx, ana.ID, domain.UserPatch{Weight: ptr(60.5), GoalWeight: ptr(58.0)})
		require.NoError(t, err)
		assert.Equal(t, "Ana", updated.Name)
		assert.Equal(t, "hash-a", updated.Password)
		assert.InDelta(t, 60.5, *updated.Weight, 1e-9)
		assert.InDelta(t, 58.0, *updated.GoalWeight, 1e-9)
		assert.Nil(t, updated.Age)
	})

	t.Run("update to a taken email", func(t *testing.T) {
		_, err := r.users.Update(ctx, bruno.ID, domain.UserPatch{Email: ptr("ana@example.com")})
		assert.ErrorIs(t, err, storage.ErrEmailExists)
	})

	t.Run("update missing user", func(t *testing.T) {
		_, err := r.users.Update(ctx, 9999, domain.UserPatch{Name: ptr("x")})
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("delete all", func(t *testing.T) {
		require.NoError(t, r.users.DeleteAll(ctx))
		count, err := r.users.Count(ctx)
		require.NoError(t, err)
		assert.Zero(t, count)
	})
}
