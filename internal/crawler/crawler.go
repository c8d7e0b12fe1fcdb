package crawler

import (
	"context"
	"fmt"
	"strings"

	"forum-mirror/internal/forum"
	"forum-mirror/internal/observability"
	"forum-mirror/internal/scraper"
)

// PageFetcher returns the raw HTML of a URL.
type PageFetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// Crawler turns thread and category pages into domain objects. Caching and
// retries belong to the fetcher.
type Crawler struct {
	baseURL string
	fetcher PageFetcher
	scraper *scraper.Scraper
	logger  *observability.Logger
}

func NewCrawler(baseURL string, fetcher PageFetcher, s *scraper.Scraper, logger *observability.Logger) *Crawler {
	if s == nil {
		s = scraper.NewScraper(nil, nil)
	}
	return &Crawler{
		baseURL: strings.TrimRight(baseURL, "/"),
		fetcher: fetcher,
		scraper: s,
		logger:  logger,
	}
}

func (c *Crawler) ThreadURL(threadID string, page int) string {
	u := fmt.Sprintf("%s/forum/view-thread/%s", c.baseURL, threadID)
	if page > 1 {
		u += fmt.Sprintf("/page/%d", page)
	}
	return u
}

func (c *Crawler) CategoryURL(slug string, page int) string {
	u := fmt.Sprintf("%s/forum/view-forum/%s", c.baseURL, slug)
	if page > 1 {
		u += fmt.Sprintf("/page/%d", page)
	}
	return u
}

func (c *Crawler) CrawlThreadPage(ctx context.Context, threadID string, page int) (*forum.ThreadPage, error) {
	url := c.ThreadURL(threadID, page)
	html, err := c.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch thread %s page %d: %w", threadID, page, err)
	}

	doc, err := scraper.ParseDocument(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	result := c.scraper.ExtractThreadPage(doc, scraper.ThreadContext{
		ThreadID:    threadID,
		PageNumber:  page,
		IsFirstPage: page == 1,
	})

	c.logger.Debug("Crawled thread page",
		"thread_id", threadID,
		"page", page,
		"posts", len(result.Posts),
		"total_pages", result.Pagination.TotalPages,
	)
	return result, nil
}

func (c *Crawler) CrawlCategoryPage(ctx context.Context, slug string, page int) (*forum.CategoryPage, error) {
	url := c.CategoryURL(slug, page)
	html, err := c.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch category %s page %d: %w", slug, page, err)
	}

	doc, err := scraper.ParseDocument(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	result := c.scraper.ExtractCategoryPage(doc, slug, page)
	c.logger.Debug("Crawled category page", "category", slug, "page", page, "threads", len(result.Threads))
	return result, nil
}

// CrawlThread walks a thread from page 1, following HasNext, and stops after
// maxPages pages (0 = no limit). A failing page ends the walk with the error;
// the pages crawled so far are returned alongside it.
func (c *Crawler) CrawlThread(ctx context.Context, threadID string, maxPages int) ([]*forum.ThreadPage, error) {
	var pages []*forum.ThreadPage

	for page := 1; maxPages <= 0 || page <= maxPages; page++ {
		if err := ctx.Err(); err != nil {
			return pages, err
		}

		result, err := c.CrawlThreadPage(ctx, threadID, page)
		if err != nil {
			return pages, err
		}
		pages = append(pages, result)

		if !result.Pagination.HasNext {
			break
		}
	}

	c.logger.Info("Crawled thread", "thread_id", threadID, "pages", len(pages))
	return pages, nil
}
