package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"forum-mirror/internal/app"
	"forum-mirror/internal/config"
	"forum-mirror/internal/observability"
)

type rootOptions struct {
	configPath string
	logLevel   string
	outPath    string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "forum-mirror",
		Short: "Mirror forum threads and categories into a versioned cache",
		Long: `forum-mirror crawls forum thread and category pages, extracts posts and
pagination, and keeps a persistent cache with per-post change history.

Configuration comes from an optional YAML file, a .env file and environment
variables (APP_ENV, FORUM_BASE_URL, THREAD_CACHE_ENABLED, DATABASE_URL,
DATABASE_DRIVER, DATABASE_SSL, LOG_LEVEL, LOG_PATH).`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "path to YAML config file")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "override observability.log_level")
	cmd.PersistentFlags().StringVarP(&opts.outPath, "out", "o", "", "write JSON output to this file instead of stdout")

	cmd.AddCommand(
		newCrawlCmd(opts),
		newCategoriesCmd(opts),
		newWatchCmd(opts),
		newHistoryCmd(opts),
	)
	return cmd
}

// loadApp builds the pipeline from flags and configuration. Logs go to
// stderr so stdout stays clean for JSON output.
func (o *rootOptions) loadApp(cmd *cobra.Command) (*app.App, error) {
	cfg, err := config.LoadConfig(o.configPath)
	if err != nil {
		return nil, err
	}
	if o.logLevel != "" {
		cfg.Observability.LogLevel = o.logLevel
	}

	logger, err := observability.NewLogger(observability.Options{
		LogPath:    cfg.Observability.LogPath,
		LogLevel:   cfg.Observability.LogLevel,
		MaxSizeMB:  cfg.Observability.LogMaxSizeMB,
		MaxBackups: cfg.Observability.LogMaxBackups,
		Output:     cmd.ErrOrStderr(),
	})
	if err != nil {
		return nil, err
	}

	return app.New(cmd.Context(), cfg, logger)
}

func (o *rootOptions) writeJSON(cmd *cobra.Command, v interface{}) error {
	var out io.Writer = cmd.OutOrStdout()
	if o.outPath != "" {
		file, err := os.Create(o.outPath)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer func() { _ = file.Close() }()
		out = file
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
