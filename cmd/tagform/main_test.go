package main

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/tagform/internal/post"
	"github.com/dmitrymomot/tagform/internal/tag"
	"github.com/dmitrymomot/tagform/pkg/logger"
	"github.com/dmitrymomot/tagform/pkg/ratelimiter"
)

// run executes the root command against st and returns stdout.
func run(t *testing.T, st *stores, args ...string) (string, error) {
	t.Helper()

	rt := &runtime{
		log: logger.Discard(),
		openStores: func(context.Context, *slog.Logger) (*stores, error) {
			return st, nil
		},
	}

	var out bytes.Buffer
	cmd := newRootCmd(rt)
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func newMemoryStores(t *testing.T) *stores {
	t.Helper()
	memory := tag.NewMemoryStore()
	limits := ratelimiter.NewMemoryStore(ratelimiter.WithCleanupInterval(0))
	t.Cleanup(limits.Close)
	return &stores{
		tags:   memory,
		lookup: memory,
		posts:  post.NewMemoryStore(memory),
		limits: limits,
	}
}

func TestTagsDecode(t *testing.T) {
	st := newMemoryStores(t)
	red := tag.New("red")
	require.NoError(t, st.tags.Create(context.Background(), red))

	out, err := run(t, st, "tags", "decode", "red, blue, red,")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, []string{"red", red.ID.String()}, strings.Fields(lines[0]))
	assert.Equal(t, []string{"blue", "(new)"}, strings.Fields(lines[1]))

	// decode never writes
	all, err := st.tags.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"red"}, all.Names())
}

func TestTagsEncode(t *testing.T) {
	out, err := run(t, newMemoryStores(t), "tags", "encode", "  red ", "blue")
	require.NoError(t, err)
	assert.Equal(t, "red, blue\n", out)

	_, err = run(t, newMemoryStores(t), "tags", "encode")
	assert.Error(t, err)
}

func TestTagsList(t *testing.T) {
	st := newMemoryStores(t)

	out, err := run(t, st, "tags", "list")
	require.NoError(t, err)
	assert.Equal(t, "No tags found.\n", out)

	for _, name := range []string{"go", "code"} {
		require.NoError(t, st.tags.Create(context.Background(), tag.New(name)))
	}
	out, err = run(t, st, "tags", "list")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "code "))
	assert.True(t, strings.HasPrefix(lines[1], "go "))
}

func TestSeed(t *testing.T) {
	st := newMemoryStores(t)
	file := filepath.Join(t.TempDir(), "fixtures.yaml")
	require.NoError(t, os.WriteFile(file, []byte(`
tags: [red, blue]
posts:
  - title: First
    tags: red, green
`), 0o600))

	out, err := run(t, st, "seed", file)
	require.NoError(t, err)
	assert.Equal(t, "seeded 3 tags and 1 posts\n", out)

	posts, err := st.posts.List(context.Background())
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, []string{"red", "green"}, posts[0].Tags.Names())

	_, err = run(t, st, "seed", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestEnvFile(t *testing.T) {
	_, err := run(t, newMemoryStores(t), "--env-file", filepath.Join(t.TempDir(), "nope.env"), "tags", "list")
	assert.Error(t, err)
}

func TestStoresClose(t *testing.T) {
	var order []string
	st := &stores{closer: []func(){
		func() { order = append(order, "pg") },
		func() { order = append(order, "redis") },
	}}
	st.Close()
	assert.Equal(t, []string{"redis", "pg"}, order)
}
