package app

import (
	"context"
	"errors"
	"fmt"

	"forum-mirror/internal/config"
	"forum-mirror/internal/crawler"
	"forum-mirror/internal/fetcher"
	"forum-mirror/internal/observability"
	"forum-mirror/internal/scraper"
	"forum-mirror/internal/service"
	"forum-mirror/internal/storage"
	"forum-mirror/internal/storage/sqlstore"
)

// App is the wired crawl-to-cache pipeline.
type App struct {
	Config     *config.Config
	Logger     *observability.Logger
	Crawler    *crawler.Crawler
	Threads    *service.ThreadService
	Categories *service.CategoryService
	Store      storage.Store

	closers []func() error
}

func New(ctx context.Context, cfg *config.Config, logger *observability.Logger) (*App, error) {
	selectors, err := config.LoadSelectors(cfg.SelectorsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load selectors: %w", err)
	}

	a := &App{Config: cfg, Logger: logger}

	var opts []fetcher.Option
	if cfg.Rod.Enabled {
		browser, err := fetcher.NewBrowserTransport(cfg)
		if err != nil {
			return nil, err
		}
		opts = append(opts, fetcher.WithTransport(browser))
		a.closers = append(a.closers, browser.Close)
		logger.Info("Using headless browser transport")
	}

	f := fetcher.NewFetcher(cfg, logger, opts...)
	a.Crawler = crawler.NewCrawler(cfg.Forum.BaseURL, f, scraper.NewScraper(selectors, nil), logger)

	a.Store = storage.Open(ctx, cfg, logger)
	a.closers = append(a.closers, a.Store.Close)

	a.Threads = service.NewThreadService(a.Crawler, a.Store, cfg.GetThreadCacheTTL(), logger)
	a.Categories = service.NewCategoryService(a.Crawler, logger)

	return a, nil
}

func (a *App) Orchestrator() *Orchestrator {
	return NewOrchestrator(a.Config, a.Logger, a.Threads, a.Categories)
}

// PostHistory returns the SQL repository when one is configured.
func (a *App) PostHistory() (*sqlstore.Repository, bool) {
	repo, ok := a.Store.(*sqlstore.Repository)
	return repo, ok
}

func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
