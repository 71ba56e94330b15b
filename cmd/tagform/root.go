package main

import (
	"errors"
	"io/fs"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/tagform/internal/web"
	"github.com/dmitrymomot/tagform/pkg/clientip"
	"github.com/dmitrymomot/tagform/pkg/config"
	"github.com/dmitrymomot/tagform/pkg/logger"
	"github.com/dmitrymomot/tagform/pkg/requestid"
)

// runtime carries what subcommands share. Tests replace openStores.
type runtime struct {
	log        *slog.Logger
	app        web.Config
	openStores storesOpener
}

func defaultRuntime() *runtime {
	return &runtime{openStores: openStores}
}

func newRootCmd(rt *runtime) *cobra.Command {
	var envFile string

	cmd := &cobra.Command{
		Use:           "tagform",
		Short:         "Posts with comma-separated tags",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// A missing default .env is fine; an explicit --env-file must exist.
			err := config.LoadEnv(envFile)
			if err != nil && (cmd.Flags().Changed("env-file") || !errors.Is(err, fs.ErrNotExist)) {
				return err
			}
			if err := config.Load(&rt.app); err != nil {
				return err
			}
			if rt.log == nil {
				rt.log = logger.New(
					logger.WithEnvironment(rt.app.AppEnv, rt.app.AppName),
					logger.WithOutput(cmd.ErrOrStderr()),
					logger.WithContextExtractors(requestid.LoggerExtractor(), clientip.LoggerExtractor()),
				)
				logger.SetAsDefault(rt.log)
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file to load before reading the environment")

	cmd.AddCommand(
		newServeCmd(rt),
		newMigrateCmd(rt),
		newSeedCmd(rt),
		newTagsCmd(rt),
	)
	return cmd
}
