package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/tagform/internal/greeting"
	"github.com/dmitrymomot/tagform/internal/web"
	"github.com/dmitrymomot/tagform/pkg/clientip"
	"github.com/dmitrymomot/tagform/pkg/config"
	"github.com/dmitrymomot/tagform/pkg/cookie"
	"github.com/dmitrymomot/tagform/pkg/httpserver"
	"github.com/dmitrymomot/tagform/pkg/logger"
	"github.com/dmitrymomot/tagform/pkg/ratelimiter"
)

func newServeCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			var httpCfg httpserver.Config
			if err := config.Load(&httpCfg); err != nil {
				return err
			}
			var cookieCfg cookie.Config
			if err := config.Load(&cookieCfg); err != nil {
				return err
			}
			cookies, err := cookie.NewFromConfig(cookieCfg)
			if err != nil {
				return err
			}
			var ipCfg clientip.Config
			if err := config.Load(&ipCfg); err != nil {
				return err
			}
			var limitCfg ratelimiter.Config
			if err := config.Load(&limitCfg); err != nil {
				return err
			}
			if rt.app.AdminPasswordHash == "" {
				rt.log.WarnContext(ctx, "ADMIN_PASSWORD_HASH is not set, admin login is disabled")
			}

			st, err := rt.openStores(ctx, rt.log)
			if err != nil {
				return err
			}
			limiter, err := ratelimiter.NewBucket(st.limits, limitCfg)
			if err != nil {
				st.Close()
				return err
			}

			app := web.New(rt.app, web.Deps{
				Log:     rt.log,
				Greeter: greeting.New(rt.log, rt.app.GreetingFrom),
				Tags:    st.lookup,
				Posts:   st.posts,
				Cookies: cookies,
				Checks:  st.checks,

				ClientIPHeaders: ipCfg.Headers,
				LoginLimiter:    limiter,
			})

			srv := httpserver.NewFromConfig(httpCfg,
				httpserver.WithLogger(rt.log),
				httpserver.WithStopHook(func(log *slog.Logger) {
					st.Close()
					log.Info("stores closed", logger.Component("serve"))
				}),
			)
			return srv.Run(ctx, app.Handle())
		},
	}
}
