package crawler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"forum-mirror/internal/config"
	"forum-mirror/internal/fetcher"
	"forum-mirror/internal/observability"
)

func threadHTML(page, total int) string {
	var b strings.Builder
	b.WriteString(`<h1>League Announcement</h1><table class="forumTable">`)
	if page == 1 {
		b.WriteString(`<tr><td>header</td></tr>`)
	}
	for i := 0; i < 2; i++ {
		fmt.Fprintf(&b, `<tr>
  <td class="content-container"><div class="content">post %d-%d</div></td>
  <td class="posted-by"><div class="profile-link"><a>user%d</a></div><div class="post_date">2024-03-01 12:00:00</div></td>
  <td><div class="post_anchor" id="%d%d"></div></td>
</tr>`, page, i, i, page, i)
	}
	b.WriteString(`</table><div class="pagination">`)
	for n := 1; n <= total; n++ {
		if n == page {
			fmt.Fprintf(&b, `<span class="current">%d</span>`, n)
		} else {
			fmt.Fprintf(&b, `<a>%d</a>`, n)
		}
	}
	b.WriteString(`</div>`)
	return b.String()
}

const categoryHTML = `
<table><tbody>
  <tr>
    <td class="thread"><div class="thread_title"><div class="title"><a href="/forum/view-thread/555">Patch 3.25.1</a></div></div></td>
    <td class="views"><span>42</span></td>
  </tr>
</tbody></table>`

func newTestCrawler(t *testing.T, totalPages int) (*Crawler, *[]string) {
	t.Helper()
	var requested []string
	mux := http.NewServeMux()
	mux.HandleFunc("/forum/view-thread/", func(w http.ResponseWriter, r *http.Request) {
		requested = append(requested, r.URL.Path)
		parts := strings.Split(strings.TrimPrefix(r.URL.Path, "/forum/view-thread/"), "/")
		if parts[0] == "404" {
			http.NotFound(w, r)
			return
		}
		page := 1
		if len(parts) == 3 && parts[1] == "page" {
			_, _ = fmt.Sscanf(parts[2], "%d", &page)
		}
		_, _ = w.Write([]byte(threadHTML(page, totalPages)))
	})
	mux.HandleFunc("/forum/view-forum/news", func(w http.ResponseWriter, r *http.Request) {
		requested = append(requested, r.URL.Path)
		_, _ = w.Write([]byte(categoryHTML))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	cfg := config.Default()
	cfg.Environment = config.EnvTest
	cfg.RateLimit.RPM = 0
	logger := observability.NewNopLogger()
	f := fetcher.NewFetcher(cfg, logger)
	return NewCrawler(srv.URL+"/", f, nil, logger), &requested
}

func TestURLs(t *testing.T) {
	c := NewCrawler("https://www.pathofexile.com/", nil, nil, observability.NewNopLogger())

	tests := []struct {
		got  string
		want string
	}{
		{c.ThreadURL("3912208", 1), "https://www.pathofexile.com/forum/view-thread/3912208"},
		{c.ThreadURL("3912208", 4), "https://www.pathofexile.com/forum/view-thread/3912208/page/4"},
		{c.CategoryURL("patch-notes", 1), "https://www.pathofexile.com/forum/view-forum/patch-notes"},
		{c.CategoryURL("patch-notes", 2), "https://www.pathofexile.com/forum/view-forum/patch-notes/page/2"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("got %q, want %q", tt.got, tt.want)
		}
	}
}

func TestCrawlThreadPage(t *testing.T) {
	c, _ := newTestCrawler(t, 3)

	first, err := c.CrawlThreadPage(context.Background(), "77", 1)
	if err != nil {
		t.Fatal(err)
	}
	if first.Title != "League Announcement" || len(first.Posts) != 2 {
		t.Errorf("first page = %+v", first)
	}
	if first.Posts[0].PostID != "10" || first.Posts[0].ThreadID != "77" {
		t.Errorf("first post = %+v", first.Posts[0])
	}

	second, err := c.CrawlThreadPage(context.Background(), "77", 2)
	if err != nil {
		t.Fatal(err)
	}
	if second.Title != "" || second.Pagination.Page != 2 || !second.Pagination.HasPrevious {
		t.Errorf("second page = %+v", second)
	}
}

func TestCrawlThreadFollowsPagination(t *testing.T) {
	tests := []struct {
		name      string
		maxPages  int
		wantPages int
	}{
		{"unbounded", 0, 3},
		{"bounded", 2, 2},
		{"bound above total", 10, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, requested := newTestCrawler(t, 3)
			pages, err := c.CrawlThread(context.Background(), "77", tt.maxPages)
			if err != nil {
				t.Fatal(err)
			}
			if len(pages) != tt.wantPages || len(*requested) != tt.wantPages {
				t.Errorf("pages = %d requests = %v, want %d", len(pages), *requested, tt.wantPages)
			}
			for i, p := range pages {
				if p.Pagination.Page != i+1 {
					t.Errorf("pages[%d].Page = %d", i, p.Pagination.Page)
				}
			}
		})
	}
}

func TestCrawlThreadPageNotFound(t *testing.T) {
	c, _ := newTestCrawler(t, 1)

	_, err := c.CrawlThreadPage(context.Background(), "404", 1)
	var fe *fetcher.FetchError
	if !errors.As(err, &fe) || fe.StatusCode != http.StatusNotFound {
		t.Fatalf("error = %v, want wrapped 404 FetchError", err)
	}
	if !fetcher.IsNotFound(err) {
		t.Error("IsNotFound() = false")
	}
}

func TestCrawlCategoryPage(t *testing.T) {
	c, requested := newTestCrawler(t, 1)

	page, err := c.CrawlCategoryPage(context.Background(), "news", 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(page.Threads) != 1 || page.Threads[0].ThreadID != "555" || page.Threads[0].Replies != 42 {
		t.Errorf("threads = %+v", page.Threads)
	}
	if (*requested)[0] != "/forum/view-forum/news" {
		t.Errorf("requested %v", *requested)
	}
}
