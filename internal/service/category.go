package service

import (
	"context"
	"fmt"

	"golang.org/x/sync/singleflight"

	"forum-mirror/internal/forum"
	"forum-mirror/internal/observability"
)

type CategoryCrawler interface {
	CrawlCategoryPage(ctx context.Context, slug string, page int) (*forum.CategoryPage, error)
}

// CategoryService coalesces concurrent category page crawls. Category pages
// are not persisted.
type CategoryService struct {
	crawler CategoryCrawler
	logger  *observability.Logger
	flights singleflight.Group
}

func NewCategoryService(crawler CategoryCrawler, logger *observability.Logger) *CategoryService {
	return &CategoryService{crawler: crawler, logger: logger}
}

func (s *CategoryService) GetCategoryPage(ctx context.Context, slug string, page int) (*forum.CategoryPage, error) {
	key := fmt.Sprintf("%s-%d", slug, page)

	ch := s.flights.DoChan(key, func() (interface{}, error) {
		result, err := s.crawler.CrawlCategoryPage(context.WithoutCancel(ctx), slug, page)
		if err != nil {
			s.logger.Warn("Category crawl failed", "category", slug, "page", page, "error", err)
			return nil, err
		}
		return result, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*forum.CategoryPage), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
