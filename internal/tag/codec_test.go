package tag_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/tagform/internal/tag"
)

type failingLookup struct{ err error }

func (f failingLookup) FindByName(context.Context, string) (*tag.Tag, error) {
	return nil, f.err
}

func seededStore(t *testing.T, names ...string) *tag.MemoryStore {
	t.Helper()
	store := tag.NewMemoryStore()
	for _, name := range names {
		require.NoError(t, store.Create(context.Background(), tag.New(name)))
	}
	return store
}

func TestCodec_Encode(t *testing.T) {
	t.Parallel()
	codec := tag.NewCodec(tag.NewMemoryStore())

	tests := []struct {
		name string
		set  tag.Set
		want string
	}{
		{name: "nil set", set: nil, want: ""},
		{name: "empty set", set: tag.Set{}, want: ""},
		{name: "single tag", set: tag.Set{tag.New("red")}, want: "red"},
		{name: "keeps set order", set: tag.Set{tag.New("red"), tag.New("blue")}, want: "red, blue"},
		{name: "skips nil entries", set: tag.Set{tag.New("red"), nil, tag.New("blue")}, want: "red, blue"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, codec.Encode(tt.set))
		})
	}
}

func TestCodec_Decode(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("empty text yields empty set", func(t *testing.T) {
		t.Parallel()
		codec := tag.NewCodec(tag.NewMemoryStore())

		set, err := codec.Decode(ctx, "")
		require.NoError(t, err)
		assert.NotNil(t, set)
		assert.Empty(t, set)
	})

	t.Run("reuses stored tags and creates transient ones", func(t *testing.T) {
		t.Parallel()
		store := seededStore(t, "red")
		red, err := store.FindByName(ctx, "red")
		require.NoError(t, err)
		codec := tag.NewCodec(store)

		set, err := codec.Decode(ctx, "red, red, blue")
		require.NoError(t, err)
		require.Len(t, set, 2)

		assert.Same(t, red, set[0])
		assert.False(t, set[0].IsTransient())

		assert.Equal(t, "blue", set[1].Name)
		assert.True(t, set[1].IsTransient())
	})

	t.Run("trims whitespace around names", func(t *testing.T) {
		t.Parallel()
		codec := tag.NewCodec(tag.NewMemoryStore())

		set, err := codec.Decode(ctx, "  red ,  blue  ")
		require.NoError(t, err)
		assert.Equal(t, []string{"red", "blue"}, set.Names())
	})

	t.Run("splits on bare commas and drops empty tokens", func(t *testing.T) {
		t.Parallel()
		codec := tag.NewCodec(tag.NewMemoryStore())

		set, err := codec.Decode(ctx, ",red,blue,, green ,")
		require.NoError(t, err)
		assert.Equal(t, []string{"red", "blue", "green"}, set.Names())
	})

	t.Run("is case sensitive", func(t *testing.T) {
		t.Parallel()
		store := seededStore(t, "Go")
		codec := tag.NewCodec(store)

		set, err := codec.Decode(ctx, "Go, go")
		require.NoError(t, err)
		require.Len(t, set, 2)
		assert.False(t, set[0].IsTransient())
		assert.True(t, set[1].IsTransient())
	})

	t.Run("does not write to the store", func(t *testing.T) {
		t.Parallel()
		store := tag.NewMemoryStore()
		codec := tag.NewCodec(store)

		_, err := codec.Decode(ctx, "red, blue")
		require.NoError(t, err)

		all, err := store.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, all)
	})

	t.Run("lookup failure aborts decoding", func(t *testing.T) {
		t.Parallel()
		boom := errors.New("connection reset")
		codec := tag.NewCodec(failingLookup{err: boom})

		set, err := codec.Decode(ctx, "red")
		require.Error(t, err)
		assert.Nil(t, set)
		assert.ErrorIs(t, err, tag.ErrLookupFailed)
		assert.ErrorIs(t, err, boom)
	})

	t.Run("not found from lookup is not an error", func(t *testing.T) {
		t.Parallel()
		codec := tag.NewCodec(failingLookup{err: tag.ErrNotFound})

		set, err := codec.Decode(ctx, "red")
		require.NoError(t, err)
		require.Len(t, set, 1)
		assert.True(t, set[0].IsTransient())
	})
}

func TestCodec_DecodeValue(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	codec := tag.NewCodec(tag.NewMemoryStore())

	t.Run("nil is rejected", func(t *testing.T) {
		t.Parallel()
		_, err := codec.DecodeValue(ctx, nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, tag.ErrTransformationFailed)

		var terr *tag.TransformationError
		require.ErrorAs(t, err, &terr)
		assert.Equal(t, "unexpected null view value", terr.Reason)
	})

	t.Run("nil string pointer is rejected", func(t *testing.T) {
		t.Parallel()
		var s *string
		_, err := codec.DecodeValue(ctx, s)
		assert.ErrorIs(t, err, tag.ErrTransformationFailed)
	})

	t.Run("non string is rejected", func(t *testing.T) {
		t.Parallel()
		_, err := codec.DecodeValue(ctx, 42)
		assert.ErrorIs(t, err, tag.ErrTransformationFailed)
	})

	t.Run("string pointer is decoded", func(t *testing.T) {
		t.Parallel()
		s := "red, blue"
		set, err := codec.DecodeValue(ctx, &s)
		require.NoError(t, err)
		assert.Equal(t, []string{"red", "blue"}, set.Names())
	})

	t.Run("empty string is no tags", func(t *testing.T) {
		t.Parallel()
		set, err := codec.DecodeValue(ctx, "")
		require.NoError(t, err)
		assert.Empty(t, set)
	})
}

func TestCodec_RoundTrip(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := seededStore(t, "red", "green")
	codec := tag.NewCodec(store)

	red, _ := store.FindByName(ctx, "red")
	green, _ := store.FindByName(ctx, "green")
	original := tag.Set{red, tag.New("blue"), green}

	decoded, err := codec.Decode(ctx, codec.Encode(original))
	require.NoError(t, err)
	assert.Equal(t, original.Names(), decoded.Names())
	assert.Same(t, red, decoded[0])
	assert.Same(t, green, decoded[2])
	assert.True(t, decoded[1].IsTransient())
}

func TestCodec_Idempotent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	codec := tag.NewCodec(seededStore(t, "red"))

	inputs := []string{
		"",
		"red",
		"red, blue, red",
		"  spaced   out ,  name ",
		"a,b,,c,",
		"café, café",
	}

	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			t.Parallel()
			first, err := codec.Decode(ctx, in)
			require.NoError(t, err)

			second, err := codec.Decode(ctx, codec.Encode(first))
			require.NoError(t, err)

			assert.Equal(t, first.Names(), second.Names())
		})
	}
}

func TestNewCodec_NilLookupPanics(t *testing.T) {
	t.Parallel()
	assert.Panics(t, func() { tag.NewCodec(nil) })
}
