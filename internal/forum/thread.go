// Package forum holds the mirrored forum domain model shared by the scraper,
// the cache repository and the services.
package forum

import "time"

// Post is one reply within a thread page.
type Post struct {
	// PostID is the forum's anchor id for the post. Empty when the row had no
	// anchor; such posts cannot be matched across crawls by id.
	PostID    string     `json:"postId"`
	ThreadID  string     `json:"threadId"`
	Author    string     `json:"author"`
	CreatedAt *time.Time `json:"createdAt"` // nil when the date was missing or unparseable
	// ContentText is the cleaned plain-text body.
	ContentText string `json:"contentText"`
	// ContentHTML is the inner markup of the post body, kept as extracted.
	ContentHTML string `json:"contentHtml"`
	IndexOnPage int    `json:"indexOnPage"`
}

// Pageable is pagination metadata for one listing page.
type Pageable struct {
	Page        int  `json:"page"`
	TotalPages  int  `json:"totalPages"`
	HasNext     bool `json:"hasNext"`
	HasPrevious bool `json:"hasPrevious"`
	PageSize    int  `json:"pageSize"`
}

// NewPageable builds a Pageable whose flags are derived from page and
// totalPages. page is clamped to >= 1 and totalPages to >= page.
func NewPageable(page, totalPages, pageSize int) Pageable {
	if page < 1 {
		page = 1
	}
	if totalPages < page {
		totalPages = page
	}
	if pageSize < 0 {
		pageSize = 0
	}
	return Pageable{
		Page:        page,
		TotalPages:  totalPages,
		HasNext:     page < totalPages,
		HasPrevious: page > 1,
		PageSize:    pageSize,
	}
}

// ThreadPage is one page of a thread. Title is only set on the first page.
type ThreadPage struct {
	ThreadID   string   `json:"threadId"`
	Title      string   `json:"title,omitempty"`
	Posts      []Post   `json:"posts"`
	Pagination Pageable `json:"pagination"`
}

// CachedThreadPage wraps a ThreadPage read back from the persistent cache.
type CachedThreadPage struct {
	Page     *ThreadPage
	CachedAt time.Time
}

// Age reports how old the cached copy is at now.
func (c *CachedThreadPage) Age(now time.Time) time.Duration {
	return now.Sub(c.CachedAt)
}

// CategoryThread is a summary row of a category listing.
type CategoryThread struct {
	ThreadID string `json:"threadId"`
	Title    string `json:"title"`
	Replies  int    `json:"replies"`
}

// CategoryPage is one page of a category listing.
type CategoryPage struct {
	Category   string           `json:"category"`
	Page       int              `json:"page"`
	Threads    []CategoryThread `json:"threads"`
	Pagination Pageable         `json:"pagination"`
}
