package scraper

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"forum-mirror/internal/forum"
	"forum-mirror/internal/normalize"
)

const unknownAuthor = "Unknown"

var (
	threadHrefID = regexp.MustCompile(`view-thread/(\d+)`)
	numericLabel = regexp.MustCompile(`^\d+$`)
)

type Scraper struct {
	selectors  *Selectors
	dateParser *DateParser
}

// NewScraper falls back to DefaultSelectors and a UTC date parser when given nil.
func NewScraper(selectors *Selectors, dateParser *DateParser) *Scraper {
	if selectors == nil {
		selectors = DefaultSelectors()
	}
	if dateParser == nil {
		dateParser = NewDateParser(nil)
	}
	return &Scraper{
		selectors:  selectors,
		dateParser: dateParser,
	}
}

// ParseDocument parses raw HTML into a queryable document.
func ParseDocument(r io.Reader) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return doc, nil
}

// ExtractThreadPage pulls the posts, the title (first page only) and the
// pagination out of a thread page. Missing author, date or anchor degrade the
// field; they never fail the page.
func (s *Scraper) ExtractThreadPage(doc *goquery.Document, tc ThreadContext) *forum.ThreadPage {
	page := &forum.ThreadPage{
		ThreadID: tc.ThreadID,
		Posts:    []forum.Post{},
	}

	if tc.IsFirstPage {
		page.Title = strings.TrimSpace(doc.Find(s.selectors.Title).First().Text())
	}

	// The first row of a first page is a header, not a post.
	skip := 0
	if tc.IsFirstPage {
		skip = 1
	}

	doc.Find(s.selectors.PostRows).Each(func(i int, row *goquery.Selection) {
		if i < skip {
			return
		}

		content := row.Find(s.selectors.PostContent).First()
		text := normalize.CleanContent(content.Text())
		if text == "" {
			return
		}
		html, _ := content.Html()

		author := strings.TrimSpace(row.Find(s.selectors.PostAuthor).First().Text())
		if author == "" {
			author = unknownAuthor
		}

		postID, _ := row.Find(s.selectors.PostAnchor).First().Attr("id")

		post := forum.Post{
			PostID:      strings.TrimSpace(postID),
			ThreadID:    tc.ThreadID,
			Author:      author,
			ContentText: text,
			ContentHTML: html,
			IndexOnPage: i - skip,
		}

		if raw := strings.TrimSpace(row.Find(s.selectors.PostDate).First().Text()); raw != "" {
			if t, err := s.dateParser.Parse(raw); err == nil {
				post.CreatedAt = &t
			}
		}

		page.Posts = append(page.Posts, post)
	})

	page.Pagination = s.ExtractPagination(doc, len(page.Posts))
	// The requested page number keys the page; the markup only adds the total.
	if tc.PageNumber > 0 && page.Pagination.Page != tc.PageNumber {
		total := page.Pagination.TotalPages
		if total < tc.PageNumber {
			total = tc.PageNumber
		}
		page.Pagination = forum.NewPageable(tc.PageNumber, total, len(page.Posts))
	}
	return page
}

// ExtractCategoryPage lists the threads of a category page. Rows without a
// title link are not threads and are skipped.
func (s *Scraper) ExtractCategoryPage(doc *goquery.Document, slug string, pageNumber int) *forum.CategoryPage {
	result := &forum.CategoryPage{
		Category: slug,
		Page:     pageNumber,
		Threads:  []forum.CategoryThread{},
	}

	doc.Find(s.selectors.CategoryRows).Each(func(_ int, row *goquery.Selection) {
		link := row.Find(s.selectors.CategoryTitle).First()
		if link.Length() == 0 {
			return
		}

		thread := forum.CategoryThread{
			Title: strings.TrimSpace(link.Text()),
		}
		href, _ := link.Attr("href")
		if m := threadHrefID.FindStringSubmatch(normalize.NormalizeURL(href)); m != nil {
			thread.ThreadID = m[1]
		}
		thread.Replies = parseCount(row.Find(s.selectors.CategoryViews).First().Text())

		result.Threads = append(result.Threads, thread)
	})

	result.Pagination = s.ExtractPagination(doc, len(result.Threads))
	return result
}

// ExtractPagination reads the pagination block. The current page comes from
// the element marked current, the total from the largest numeric label, and
// the next/previous flags are derived from those two.
func (s *Scraper) ExtractPagination(doc *goquery.Document, pageSize int) forum.Pageable {
	block := doc.Find(s.selectors.Pagination).First()
	if block.Length() == 0 {
		return forum.NewPageable(1, 1, pageSize)
	}

	page := 1
	if n, err := strconv.Atoi(strings.TrimSpace(block.Find(s.selectors.CurrentPage).First().Text())); err == nil && n > 0 {
		page = n
	}

	total := page
	block.Find(s.selectors.PaginationItem).Each(func(_ int, item *goquery.Selection) {
		label := strings.TrimSpace(item.Text())
		if !numericLabel.MatchString(label) {
			return
		}
		if n, err := strconv.Atoi(label); err == nil && n > total {
			total = n
		}
	})

	return forum.NewPageable(page, total, pageSize)
}

func parseCount(raw string) int {
	raw = strings.NewReplacer(",", "", ".", "", " ", "").Replace(strings.TrimSpace(raw))
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
