package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/tagform/internal/tag"
)

func newTagsCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tags",
		Short: "Inspect tags and the tag text format",
	}
	cmd.AddCommand(
		newTagsEncodeCmd(rt),
		newTagsDecodeCmd(rt),
		newTagsListCmd(rt),
	)
	return cmd
}

func newTagsEncodeCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "encode <name>...",
		Short: "Print the tag text for the given names",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := rt.openStores(cmd.Context(), rt.log)
			if err != nil {
				return err
			}
			defer st.Close()

			set := make(tag.Set, 0, len(args))
			for _, name := range args {
				set = append(set, tag.New(name))
			}
			fmt.Fprintln(cmd.OutOrStdout(), tag.NewCodec(st.lookup).Encode(set))
			return nil
		},
	}
}

func newTagsDecodeCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "decode <text>",
		Short: "Resolve tag text against the store",
		Long:  "Splits the text on commas and shows, for each name, the stored tag or (new) when saving would create it.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := rt.openStores(cmd.Context(), rt.log)
			if err != nil {
				return err
			}
			defer st.Close()

			set, err := tag.NewCodec(st.lookup).Decode(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			return printTags(cmd, set)
		},
	}
}

func newTagsListCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored tags",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := rt.openStores(cmd.Context(), rt.log)
			if err != nil {
				return err
			}
			defer st.Close()

			set, err := st.tags.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(set) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No tags found.")
				return nil
			}
			return printTags(cmd, set)
		},
	}
}

func printTags(cmd *cobra.Command, set tag.Set) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	for _, t := range set {
		id := "(new)"
		if !t.IsTransient() {
			id = t.ID.String()
		}
		fmt.Fprintf(w, "%s\t%s\n", t.Name, id)
	}
	return w.Flush()
}
