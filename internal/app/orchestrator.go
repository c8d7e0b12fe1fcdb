package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"

	"forum-mirror/internal/config"
	"forum-mirror/internal/forum"
	"forum-mirror/internal/observability"
)

const (
	ModeOneshot  = "oneshot"
	ModeInterval = "interval"
	ModeCron     = "cron"
)

type ThreadPageGetter interface {
	GetThreadPage(ctx context.Context, threadID string, page int) (*forum.ThreadPage, error)
}

type CategoryPageGetter interface {
	GetCategoryPage(ctx context.Context, slug string, page int) (*forum.CategoryPage, error)
}

// Orchestrator keeps the watched threads and categories warm in the cache.
// Pages go through the services, so the cache TTL decides what is re-crawled.
type Orchestrator struct {
	cfg        *config.Config
	logger     *observability.Logger
	threads    ThreadPageGetter
	categories CategoryPageGetter
}

func NewOrchestrator(
	cfg *config.Config,
	logger *observability.Logger,
	threads ThreadPageGetter,
	categories CategoryPageGetter,
) *Orchestrator {
	return &Orchestrator{
		cfg:        cfg,
		logger:     logger,
		threads:    threads,
		categories: categories,
	}
}

type RefreshStats struct {
	Threads    int
	Categories int
	Pages      int
	Failures   int
}

// Run refreshes once, or keeps refreshing on the configured schedule until
// ctx is cancelled.
func (o *Orchestrator) Run(ctx context.Context) error {
	switch o.cfg.Scheduler.Mode {
	case ModeOneshot:
		_, err := o.RefreshOnce(ctx)
		return err

	case ModeInterval:
		interval := o.cfg.GetSchedulerInterval()
		o.logger.Info("Watching on interval", "interval", interval.String())

		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			if _, err := o.RefreshOnce(ctx); err != nil && ctx.Err() == nil {
				o.logger.Error("Refresh failed", "error", err)
			}
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
			}
		}

	case ModeCron:
		c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
		_, err := c.AddFunc(o.cfg.Scheduler.CronExpr, func() {
			if _, err := o.RefreshOnce(ctx); err != nil && ctx.Err() == nil {
				o.logger.Error("Refresh failed", "error", err)
			}
		})
		if err != nil {
			return fmt.Errorf("invalid cron expression %q: %w", o.cfg.Scheduler.CronExpr, err)
		}

		o.logger.Info("Watching on cron schedule", "cron_expr", o.cfg.Scheduler.CronExpr)
		c.Start()
		<-ctx.Done()
		<-c.Stop().Done()
		return nil

	default:
		return fmt.Errorf("unknown scheduler mode %q", o.cfg.Scheduler.Mode)
	}
}

// RefreshOnce walks every watched thread (up to scheduler.max_pages pages,
// following HasNext) and the first page of every watched category. A failing
// thread or category is logged and counted; it does not stop the others.
func (o *Orchestrator) RefreshOnce(ctx context.Context) (*RefreshStats, error) {
	start := time.Now()
	stats := &RefreshStats{}
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.cfg.Scheduler.Concurrency)

	for _, threadID := range o.cfg.Scheduler.Threads {
		threadID := threadID
		g.Go(func() error {
			pages, err := o.refreshThread(gctx, threadID)

			mu.Lock()
			defer mu.Unlock()
			stats.Threads++
			stats.Pages += pages
			if err != nil {
				stats.Failures++
				o.logger.Warn("Thread refresh failed", "thread_id", threadID, "pages", pages, "error", err)
			}
			return nil
		})
	}

	for _, slug := range o.cfg.Scheduler.Categories {
		slug := slug
		g.Go(func() error {
			page, err := o.categories.GetCategoryPage(gctx, slug, 1)

			mu.Lock()
			defer mu.Unlock()
			stats.Categories++
			if err != nil {
				stats.Failures++
				o.logger.Warn("Category refresh failed", "category", slug, "error", err)
				return nil
			}
			stats.Pages++
			o.logger.Debug("Category refreshed", "category", slug, "threads", len(page.Threads))
			return nil
		})
	}

	_ = g.Wait()

	o.logger.Info("Refresh completed",
		"threads", stats.Threads,
		"categories", stats.Categories,
		"pages", stats.Pages,
		"failures", stats.Failures,
		"duration", time.Since(start).String(),
	)
	return stats, ctx.Err()
}

func (o *Orchestrator) refreshThread(ctx context.Context, threadID string) (int, error) {
	pages := 0
	for page := 1; page <= o.cfg.Scheduler.MaxPages; page++ {
		result, err := o.threads.GetThreadPage(ctx, threadID, page)
		if err != nil {
			return pages, fmt.Errorf("page %d: %w", page, err)
		}
		pages++
		if !result.Pagination.HasNext {
			break
		}
	}
	return pages, nil
}
