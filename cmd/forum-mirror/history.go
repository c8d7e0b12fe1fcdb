package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newHistoryCmd(opts *rootOptions) *cobra.Command {
	var postKey string

	cmd := &cobra.Command{
		Use:   "history <thread-id>",
		Short: "Show stored post records of a thread, deleted ones included",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.loadApp(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			repo, ok := a.PostHistory()
			if !ok {
				return fmt.Errorf("history needs the thread cache (storage.enabled and a DSN)")
			}

			if postKey != "" {
				rec, err := repo.GetPostRecord(cmd.Context(), args[0], postKey)
				if err != nil {
					return err
				}
				if rec == nil {
					return fmt.Errorf("post %s of thread %s not found", postKey, args[0])
				}
				return opts.writeJSON(cmd, rec)
			}

			records, err := repo.ListPostRecords(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return opts.writeJSON(cmd, records)
		},
	}

	cmd.Flags().StringVar(&postKey, "post", "", "show a single post by id or synthetic key")
	return cmd
}
