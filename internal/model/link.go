package model

import "strings"

// Link is a bookmarked URL. URL is always stored in absolute form.
type Link struct {
	ID    string `json:"id" yaml:"id" validate:"required"`
	Title string `json:"title" yaml:"title" validate:"notblank"`
	URL   string `json:"url" yaml:"url" validate:"absurl"`
}

// NewLink creates a Link with a generated ID.
// Title is trimmed and URL normalized; callers validate beforehand.
func NewLink(title, url string) Link {
	return Link{
		ID:    GenerateID(),
		Title: strings.TrimSpace(title),
		URL:   NormalizeURL(url),
	}
}

// IsValidTitle reports whether s is non-empty after trimming whitespace.
func IsValidTitle(s string) bool {
	return strings.TrimSpace(s) != ""
}

// IsAbsoluteURL reports whether s starts with http:// or https://.
func IsAbsoluteURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// NormalizeURL trims s and prefixes https:// when no scheme is present.
// An empty input stays empty.
func NormalizeURL(s string) string {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" || IsAbsoluteURL(trimmed) {
		return trimmed
	}
	return "https://" + trimmed
}
