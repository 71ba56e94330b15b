package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/tagform/internal/db"
	"github.com/dmitrymomot/tagform/pkg/config"
	"github.com/dmitrymomot/tagform/pkg/pg"
)

var errNoDatabase = errors.New("PG_CONN_URL is not set")

func newMigrateCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var cfg pg.Config
			if err := config.Load(&cfg); err != nil {
				return err
			}
			if !cfg.Enabled() {
				return errNoDatabase
			}

			pool, err := pg.Connect(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer pool.Close()

			return pg.Migrate(cmd.Context(), pool, cfg, db.Migrations, db.MigrationsDir, rt.log)
		},
	}
}
