package service

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"

	"forum-mirror/internal/forum"
	"forum-mirror/internal/observability"
	"forum-mirror/internal/storage"
)

type ThreadCrawler interface {
	CrawlThreadPage(ctx context.Context, threadID string, page int) (*forum.ThreadPage, error)
}

// ThreadService serves thread pages from the persistent cache while fresh,
// crawls otherwise, and falls back to a stale copy when the crawl fails.
// Concurrent requests for the same page share one load.
type ThreadService struct {
	crawler ThreadCrawler
	repo    storage.ThreadCacheRepository
	ttl     time.Duration
	logger  *observability.Logger
	now     func() time.Time
	flights singleflight.Group
}

func NewThreadService(crawler ThreadCrawler, repo storage.ThreadCacheRepository, ttl time.Duration, logger *observability.Logger) *ThreadService {
	if repo == nil {
		repo = storage.NopRepository{}
	}
	return &ThreadService{
		crawler: crawler,
		repo:    repo,
		ttl:     ttl,
		logger:  logger,
		now:     time.Now,
	}
}

// GetThreadPage returns the page. The result may be shared with concurrent
// callers and must not be modified.
//
// The load is not cancelled when ctx ends; only this caller stops waiting.
func (s *ThreadService) GetThreadPage(ctx context.Context, threadID string, page int) (*forum.ThreadPage, error) {
	key := fmt.Sprintf("%s-%d", threadID, page)

	ch := s.flights.DoChan(key, func() (interface{}, error) {
		return s.load(context.WithoutCancel(ctx), threadID, page)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*forum.ThreadPage), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (s *ThreadService) load(ctx context.Context, threadID string, page int) (*forum.ThreadPage, error) {
	cached, err := s.repo.GetThreadPage(ctx, threadID, page)
	if err != nil {
		s.logger.Warn("Thread cache read failed, crawling", "thread_id", threadID, "page", page, "error", err)
		cached = nil
	}

	if cached != nil && cached.Age(s.now()) <= s.ttl {
		s.logger.Debug("Thread cache hit", "thread_id", threadID, "page", page)
		return cached.Page, nil
	}

	fresh, err := s.crawler.CrawlThreadPage(ctx, threadID, page)
	if err != nil {
		if cached != nil {
			s.logger.Warn("Crawl failed, serving stale cache",
				"thread_id", threadID,
				"page", page,
				"cached_at", cached.CachedAt,
				"error", err,
			)
			return cached.Page, nil
		}
		return nil, err
	}

	if err := s.repo.UpsertThreadPage(ctx, fresh); err != nil {
		s.logger.Warn("Thread cache write failed", "thread_id", threadID, "page", page, "error", err)
	}

	return fresh, nil
}
