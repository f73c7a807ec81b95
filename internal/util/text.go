package util

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

var slugStrip = regexp.MustCompile(`[^\w\s-]`)
var slugSpaces = regexp.MustCompile(`\s+`)

// Slugify derives a URL slug from a post title. A timestamp suffix keeps
// slugs unique without a round trip to the database.
func Slugify(title string, now time.Time) string {
	s := strings.ToLower(strings.TrimSpace(title))
	s = slugStrip.ReplaceAllString(s, "")
	s = slugSpaces.ReplaceAllString(strings.TrimSpace(s), "-")
	if s == "" {
		s = "post"
	}
	return fmt.Sprintf("%s-%d", s, now.UnixMilli())
}

// Excerpt truncates content to at most limit runes, appending an ellipsis
// when anything was cut.
func Excerpt(content string, limit int) string {
	content = strings.TrimSpace(content)
	if utf8.RuneCountInString(content) <= limit {
		return content
	}

	runes := []rune(content)
	return string(runes[:limit-3]) + "..."
}

// ReadingTime estimates minutes to read at ~200 words per minute, rounding
// up so short posts still report one minute.
func ReadingTime(content string) int {
	words := len(strings.Fields(content))
	if words == 0 {
		return 0
	}
	return (words + 199) / 200
}
