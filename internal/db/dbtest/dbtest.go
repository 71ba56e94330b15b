// Package dbtest gives integration tests a migrated Postgres schema of their own.
package dbtest

import (
	"context"
	"net/url"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/caarlos0/env/v11"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/tagform/internal/db"
	"github.com/dmitrymomot/tagform/pkg/pg"
)

// goose keeps its settings in package globals.
var migrateMu sync.Mutex

// Pool connects to PG_CONN_URL, creates a throwaway schema, applies the
// migrations inside it and returns a pool bound to that schema.
// The test is skipped when PG_CONN_URL is not set.
func Pool(t testing.TB) *pgxpool.Pool {
	t.Helper()
	if os.Getenv("PG_CONN_URL") == "" {
		t.Skip("PG_CONN_URL not set")
	}
	ctx := context.Background()

	cfg, err := env.ParseAs[pg.Config]()
	require.NoError(t, err)
	cfg.RetryAttempts = 1

	admin, err := pg.Connect(ctx, cfg)
	require.NoError(t, err)

	schema := "tagform_test_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	_, err = admin.Exec(ctx, "CREATE SCHEMA "+schema)
	if err != nil {
		admin.Close()
		require.NoError(t, err)
	}
	t.Cleanup(func() {
		_, _ = admin.Exec(context.Background(), "DROP SCHEMA IF EXISTS "+schema+" CASCADE")
		admin.Close()
	})

	cfg.ConnectionString = withSearchPath(cfg.ConnectionString, schema)
	pool, err := pg.Connect(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	migrateMu.Lock()
	err = pg.Migrate(ctx, pool, cfg, db.Migrations, db.MigrationsDir, nil)
	migrateMu.Unlock()
	require.NoError(t, err)

	return pool
}

// withSearchPath adds a search_path runtime parameter to either a URL or a
// keyword/value connection string.
func withSearchPath(conn, schema string) string {
	if !strings.Contains(conn, "://") {
		return conn + " search_path=" + schema
	}
	u, err := url.Parse(conn)
	if err != nil {
		return conn + "?search_path=" + schema
	}
	q := u.Query()
	q.Set("search_path", schema)
	u.RawQuery = q.Encode()
	return u.String()
}
