package main

import (
	"github.com/spf13/cobra"

	"forum-mirror/internal/config"
)

func newCategoriesCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List the known forum categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.writeJSON(cmd, config.ForumCategories)
		},
	}
}
