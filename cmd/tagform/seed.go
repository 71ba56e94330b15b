package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/tagform/internal/seed"
)

func newSeedCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "seed <fixtures.yaml>",
		Short: "Load tags and posts from a YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fx, err := seed.LoadFile(args[0])
			if err != nil {
				return err
			}

			st, err := rt.openStores(cmd.Context(), rt.log)
			if err != nil {
				return err
			}
			defer st.Close()

			res, err := seed.New(st.tags, st.posts, rt.log).Apply(cmd.Context(), fx)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d tags and %d posts\n", res.Tags, res.Posts)
			return nil
		},
	}
}
