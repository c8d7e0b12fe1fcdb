package main

import (
	"github.com/spf13/cobra"

	"forum-mirror/internal/app"
)

func newWatchCmd(opts *rootOptions) *cobra.Command {
	var (
		mode    string
		threads []string
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Keep the configured threads and categories refreshed",
		Long: `Refresh scheduler.threads and scheduler.categories through the cache,
once (oneshot), every scheduler.interval_s seconds (interval), or on
scheduler.cron_expr (cron). Stops on SIGINT or SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.loadApp(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			if mode != "" {
				a.Config.Scheduler.Mode = mode
			}
			if len(threads) > 0 {
				a.Config.Scheduler.Threads = threads
			}
			if err := a.Config.Validate(); err != nil {
				return err
			}

			ctx, cancel := app.GracefulShutdown(cmd.Context(), a.Logger)
			defer cancel()

			return a.Orchestrator().Run(ctx)
		},
	}

	cmd.Flags().StringVar(&mode, "mode", "", "override scheduler.mode (oneshot, interval, cron)")
	cmd.Flags().StringSliceVar(&threads, "thread", nil, "thread id to watch (repeatable, replaces scheduler.threads)")
	return cmd
}
