package config

// ForumCategory is a forum section the mirror knows by slug.
type ForumCategory struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
	Game string `json:"game"`
}

var ForumCategories = []ForumCategory{
	// PoE 1
	{Name: "Announcements", Slug: "news", Game: "poe1"},
	{Name: "Development Manifesto", Slug: "dev-manifesto", Game: "poe1"},
	{Name: "Patch Notes", Slug: "patch-notes", Game: "poe1"},

	// PoE 2
	{Name: "Early Access Announcements", Slug: "2211", Game: "poe2"},
	{Name: "Early Access Patch Notes", Slug: "2212", Game: "poe2"},
	{Name: "Early Access Feedback", Slug: "2213", Game: "poe2"},
}

func IsKnownCategory(slug string) bool {
	for _, c := range ForumCategories {
		if c.Slug == slug {
			return true
		}
	}
	return false
}
