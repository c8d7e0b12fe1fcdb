package app

import (
	"context"
	"errors"
	"sync"
	"testing"

	"forum-mirror/internal/config"
	"forum-mirror/internal/forum"
	"forum-mirror/internal/observability"
)

type fakeThreads struct {
	mu         sync.Mutex
	totalPages map[string]int
	failing    map[string]bool
	requests   []string
	onCall     func()
}

func (f *fakeThreads) GetThreadPage(_ context.Context, threadID string, page int) (*forum.ThreadPage, error) {
	f.mu.Lock()
	f.requests = append(f.requests, threadID)
	onCall := f.onCall
	f.mu.Unlock()
	if onCall != nil {
		onCall()
	}

	if f.failing[threadID] {
		return nil, errors.New("upstream down")
	}
	return &forum.ThreadPage{
		ThreadID:   threadID,
		Pagination: forum.NewPageable(page, f.totalPages[threadID], 0),
	}, nil
}

type fakeCategories struct {
	mu    sync.Mutex
	slugs []string
	err   error
}

func (f *fakeCategories) GetCategoryPage(_ context.Context, slug string, page int) (*forum.CategoryPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.slugs = append(f.slugs, slug)
	if f.err != nil {
		return nil, f.err
	}
	return &forum.CategoryPage{Category: slug, Page: page, Pagination: forum.NewPageable(page, 1, 0)}, nil
}

func watchConfig(threads, categories []string) *config.Config {
	cfg := config.Default()
	cfg.Scheduler.Threads = threads
	cfg.Scheduler.Categories = categories
	cfg.Scheduler.MaxPages = 3
	cfg.Scheduler.Concurrency = 2
	return cfg
}

func TestRefreshOnce(t *testing.T) {
	threads := &fakeThreads{
		totalPages: map[string]int{"short": 1, "long": 10, "two": 2},
		failing:    map[string]bool{"broken": true},
	}
	categories := &fakeCategories{}
	cfg := watchConfig([]string{"short", "long", "two", "broken"}, []string{"news", "patch-notes"})
	o := NewOrchestrator(cfg, observability.NewNopLogger(), threads, categories)

	stats, err := o.RefreshOnce(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	want := RefreshStats{Threads: 4, Categories: 2, Pages: 1 + 3 + 2 + 2, Failures: 1}
	if *stats != want {
		t.Errorf("stats = %+v, want %+v", *stats, want)
	}

	perThread := map[string]int{}
	for _, id := range threads.requests {
		perThread[id]++
	}
	if perThread["long"] != 3 {
		t.Errorf("long thread fetched %d pages, want max_pages 3", perThread["long"])
	}
	if perThread["short"] != 1 || perThread["two"] != 2 || perThread["broken"] != 1 {
		t.Errorf("requests per thread = %v", perThread)
	}
}

func TestRefreshOnceCountsCategoryFailures(t *testing.T) {
	categories := &fakeCategories{err: errors.New("boom")}
	o := NewOrchestrator(watchConfig(nil, []string{"news"}), observability.NewNopLogger(), &fakeThreads{}, categories)

	stats, err := o.RefreshOnce(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if stats.Failures != 1 || stats.Pages != 0 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestRunOneshot(t *testing.T) {
	threads := &fakeThreads{totalPages: map[string]int{"1": 1}}
	cfg := watchConfig([]string{"1"}, nil)
	cfg.Scheduler.Mode = ModeOneshot
	o := NewOrchestrator(cfg, observability.NewNopLogger(), threads, &fakeCategories{})

	if err := o.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if len(threads.requests) != 1 {
		t.Errorf("requests = %v", threads.requests)
	}
}

func TestRunIntervalStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	threads := &fakeThreads{totalPages: map[string]int{"1": 1}, onCall: cancel}
	cfg := watchConfig([]string{"1"}, nil)
	cfg.Scheduler.Mode = ModeInterval
	cfg.Scheduler.IntervalS = 3600
	o := NewOrchestrator(cfg, observability.NewNopLogger(), threads, &fakeCategories{})

	if err := o.Run(ctx); err != nil {
		t.Fatal(err)
	}
	if len(threads.requests) != 1 {
		t.Errorf("requests = %v, want one immediate refresh", threads.requests)
	}
}

func TestRunCronRejectsBadExpression(t *testing.T) {
	cfg := watchConfig(nil, nil)
	cfg.Scheduler.Mode = ModeCron
	cfg.Scheduler.CronExpr = "not a schedule"
	o := NewOrchestrator(cfg, observability.NewNopLogger(), &fakeThreads{}, &fakeCategories{})

	if err := o.Run(context.Background()); err == nil {
		t.Error("expected error for invalid cron expression")
	}
}

func TestRunCronStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := watchConfig(nil, nil)
	cfg.Scheduler.Mode = ModeCron
	cfg.Scheduler.CronExpr = "@hourly"
	o := NewOrchestrator(cfg, observability.NewNopLogger(), &fakeThreads{}, &fakeCategories{})

	done := make(chan error, 1)
	go func() { done <- o.Run(ctx) }()
	cancel()
	if err := <-done; err != nil {
		t.Errorf("Run() = %v", err)
	}
}
