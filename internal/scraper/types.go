package scraper

// ThreadContext says which thread page a document was fetched for.
type ThreadContext struct {
	ThreadID    string
	PageNumber  int
	IsFirstPage bool
}

type Selectors struct {
	Title          string `yaml:"title"`
	PostRows       string `yaml:"post_rows"`
	PostContent    string `yaml:"post_content"`
	PostAuthor     string `yaml:"post_author"`
	PostDate       string `yaml:"post_date"`
	PostAnchor     string `yaml:"post_anchor"`
	Pagination     string `yaml:"pagination"`
	PaginationItem string `yaml:"pagination_item"`
	CurrentPage    string `yaml:"current_page"`
	CategoryRows   string `yaml:"category_rows"`
	CategoryTitle  string `yaml:"category_title"`
	CategoryViews  string `yaml:"category_views"`
}

// DefaultSelectors match the forum markup as of this writing.
func DefaultSelectors() *Selectors {
	return &Selectors{
		Title:          "h1",
		PostRows:       "table.forumTable tr",
		PostContent:    "td.content-container .content",
		PostAuthor:     ".posted-by .profile-link a",
		PostDate:       ".posted-by .post_date",
		PostAnchor:     ".post_anchor",
		Pagination:     "div.pagination",
		PaginationItem: "a, span",
		CurrentPage:    ".current",
		CategoryRows:   "tbody tr",
		CategoryTitle:  ".thread .thread_title .title a",
		CategoryViews:  "td.views span",
	}
}
