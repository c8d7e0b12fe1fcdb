package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"forum-mirror/internal/config"
	"forum-mirror/internal/fetcher"
)

func newCrawlCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crawl",
		Short: "Crawl a thread or a category page",
	}
	cmd.AddCommand(newCrawlThreadCmd(opts), newCrawlCategoryCmd(opts))
	return cmd
}

func newCrawlThreadCmd(opts *rootOptions) *cobra.Command {
	var (
		page     int
		all      bool
		maxPages int
	)

	cmd := &cobra.Command{
		Use:   "thread <thread-id>",
		Short: "Fetch one page of a thread, or the whole thread with --all",
		Long: `Fetch a thread page through the cache.

Examples:
  # First page, served from cache while fresh
  forum-mirror crawl thread 3912208

  # A later page
  forum-mirror crawl thread 3912208 --page 4

  # Every page, straight from the forum
  forum-mirror crawl thread 3912208 --all --out thread.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			threadID := strings.TrimSpace(args[0])
			if !isNumeric(threadID) {
				return fmt.Errorf("thread id must be numeric: %q", args[0])
			}
			if page < 1 {
				return fmt.Errorf("--page must be >= 1")
			}

			a, err := opts.loadApp(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			if all {
				pages, err := a.Crawler.CrawlThread(cmd.Context(), threadID, maxPages)
				if err != nil {
					return describeFetchError(err, "thread "+threadID)
				}
				return opts.writeJSON(cmd, pages)
			}

			result, err := a.Threads.GetThreadPage(cmd.Context(), threadID, page)
			if err != nil {
				return describeFetchError(err, "thread "+threadID)
			}
			return opts.writeJSON(cmd, result)
		},
	}

	cmd.Flags().IntVarP(&page, "page", "p", 1, "page number")
	cmd.Flags().BoolVar(&all, "all", false, "crawl every page, following pagination")
	cmd.Flags().IntVar(&maxPages, "max-pages", 0, "with --all, stop after this many pages (0 = no limit)")
	return cmd
}

func newCrawlCategoryCmd(opts *rootOptions) *cobra.Command {
	var page int

	cmd := &cobra.Command{
		Use:   "category <slug>",
		Short: "List the threads of a category page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			slug := strings.TrimSpace(args[0])
			if !config.IsKnownCategory(slug) {
				return fmt.Errorf("unknown category %q (see 'forum-mirror categories')", slug)
			}
			if page < 1 {
				return fmt.Errorf("--page must be >= 1")
			}

			a, err := opts.loadApp(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			result, err := a.Categories.GetCategoryPage(cmd.Context(), slug, page)
			if err != nil {
				return describeFetchError(err, "category "+slug)
			}
			return opts.writeJSON(cmd, result)
		},
	}

	cmd.Flags().IntVarP(&page, "page", "p", 1, "page number")
	return cmd
}

func describeFetchError(err error, what string) error {
	if fetcher.IsNotFound(err) {
		return fmt.Errorf("%s not found", what)
	}
	return err
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
