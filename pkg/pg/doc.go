// Package pg bootstraps PostgreSQL access on top of pgx/v5.
//
// Connect opens a *pgxpool.Pool with retries, Migrate applies goose migrations
// from any fs.FS (the application embeds its SQL files), WithTx wraps a unit
// of work in a transaction and Healthcheck plugs into readiness probes.
//
//	var cfg pg.Config
//	config.MustLoad(&cfg)
//
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	defer pool.Close()
//
//	if err := pg.Migrate(ctx, pool, cfg, db.Migrations, db.MigrationsDir, log); err != nil {
//	    return err
//	}
//
// Error helpers (IsNotFoundError, IsDuplicateKeyError, IsForeignKeyViolationError)
// classify driver errors without leaking pgx types into callers.
package pg
