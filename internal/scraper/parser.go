package scraper

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var (
	// Layouts seen in forum timestamps, most specific first.
	dateLayouts = []string{
		time.RFC3339,
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05",
		"Jan 2, 2006, 3:04:05 PM",
		"Jan 2, 2006 3:04:05 PM",
		"Jan 2, 2006, 3:04 PM",
		"Jan 2, 2006 3:04 PM",
		"Jan 2, 2006, 15:04:05",
		"January 2, 2006, 3:04:05 PM",
		"2006-01-02",
		"Jan 2, 2006",
	}

	spaceRun    = regexp.MustCompile(`\s+`)
	postedOnPfx = regexp.MustCompile(`(?i)^(posted\s+)?on\s+`)
)

// DateParser turns raw post timestamps into UTC instants. Timestamps without a
// zone are read in loc.
type DateParser struct {
	loc *time.Location
}

func NewDateParser(loc *time.Location) *DateParser {
	if loc == nil {
		loc = time.UTC
	}
	return &DateParser{loc: loc}
}

// Parse returns the instant in UTC or an error if no known layout matches.
func (dp *DateParser) Parse(dateStr string) (time.Time, error) {
	dateStr = strings.ReplaceAll(dateStr, "\u00a0", " ")
	dateStr = spaceRun.ReplaceAllString(strings.TrimSpace(dateStr), " ")
	dateStr = postedOnPfx.ReplaceAllString(dateStr, "")
	if dateStr == "" {
		return time.Time{}, fmt.Errorf("empty date string")
	}

	for _, layout := range dateLayouts {
		t, err := time.ParseInLocation(layout, dateStr, dp.loc)
		if err == nil {
			return t.UTC(), nil
		}
	}

	return time.Time{}, fmt.Errorf("unable to parse date: %s", dateStr)
}
