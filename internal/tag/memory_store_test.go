package tag_test

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/tagform/internal/tag"
)

func TestMemoryStore(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("create assigns identity", func(t *testing.T) {
		t.Parallel()
		store := tag.NewMemoryStore()
		red := tag.New("red")

		require.NoError(t, store.Create(ctx, red))
		assert.NotEqual(t, uuid.Nil, red.ID)
		assert.False(t, red.CreatedAt.IsZero())

		found, err := store.FindByName(ctx, " red ")
		require.NoError(t, err)
		assert.Same(t, red, found)
	})

	t.Run("duplicate name adopts existing identity", func(t *testing.T) {
		t.Parallel()
		store := tag.NewMemoryStore()
		first := tag.New("red")
		second := tag.New("red")

		require.NoError(t, store.Create(ctx, first))
		require.NoError(t, store.Create(ctx, second))
		assert.Equal(t, first.ID, second.ID)

		all, err := store.List(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 1)
	})

	t.Run("empty name is rejected", func(t *testing.T) {
		t.Parallel()
		store := tag.NewMemoryStore()
		assert.ErrorIs(t, store.Create(ctx, tag.New("   ")), tag.ErrEmptyName)
		assert.ErrorIs(t, store.Create(ctx, nil), tag.ErrEmptyName)
	})

	t.Run("unknown name", func(t *testing.T) {
		t.Parallel()
		_, err := tag.NewMemoryStore().FindByName(ctx, "missing")
		assert.ErrorIs(t, err, tag.ErrNotFound)
	})

	t.Run("list is ordered by name", func(t *testing.T) {
		t.Parallel()
		store := seededStore(t, "red", "blue", "green")
		all, err := store.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"blue", "green", "red"}, all.Names())
	})

	t.Run("concurrent creates keep names unique", func(t *testing.T) {
		t.Parallel()
		store := tag.NewMemoryStore()

		var wg sync.WaitGroup
		for range 50 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				assert.NoError(t, store.Create(ctx, tag.New("shared")))
			}()
		}
		wg.Wait()

		all, err := store.List(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 1)
	})
}

func TestPersistTransient(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := seededStore(t, "red")
	codec := tag.NewCodec(store)

	set, err := codec.Decode(ctx, "red, blue")
	require.NoError(t, err)
	require.True(t, set[1].IsTransient())

	require.NoError(t, tag.PersistTransient(ctx, store, set))
	assert.False(t, set[1].IsTransient())

	blue, err := store.FindByName(ctx, "blue")
	require.NoError(t, err)
	assert.Same(t, set[1], blue)
}
