package domain

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

// ListBodyLimit is the maximum article body length, in characters, in list views
const ListBodyLimit = 1000

// DefaultLocale is used when a request does not name a locale
const DefaultLocale = "en-us"

// Section is a knowledge-base section
type Section struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CategoryID  int64     `json:"category_id,omitempty"`
	Position    int       `json:"position"`
	Locale      string    `json:"locale,omitempty"`
	URL         string    `json:"url,omitempty"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Article is a help-center article
type Article struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	SectionID int64     `json:"section_id,omitempty"`
	AuthorID  int64     `json:"author_id,omitempty"`
	Locale    string    `json:"locale"`
	URL       string    `json:"url"`
	VoteSum   int       `json:"vote_sum"`
	VoteCount int       `json:"vote_count"`
	UpdatedAt time.Time `json:"updated_at"`
}

// hcLocaleSegment matches the locale path segment of a help-center URL
var hcLocaleSegment = regexp.MustCompile(`(?i)/hc/[a-z]{2,3}(?:-[a-z0-9]{2,8})*/`)

// Localized returns a copy of the article presented in the given locale.
//
// The URL locale segment is replaced even when no translation exists for
// that locale; the help center decides what to serve.
func (a Article) Localized(locale string) Article {
	a.Locale = locale
	a.URL = LocalizeURL(a.URL, locale)
	return a
}

// Summary returns a copy of the article with the body cut for list views
func (a Article) Summary() Article {
	a.Body = TruncateRunes(a.Body, ListBodyLimit)
	return a
}

// LocalizeURL rewrites the /hc/<locale>/ segment of a help-center URL
func LocalizeURL(rawURL, locale string) string {
	if rawURL == "" || locale == "" {
		return rawURL
	}
	segment := "/hc/" + locale + "/"
	if loc := hcLocaleSegment.FindStringIndex(rawURL); loc != nil {
		return rawURL[:loc[0]] + segment + rawURL[loc[1]:]
	}
	if i := strings.Index(rawURL, "/hc/"); i >= 0 {
		return rawURL[:i] + segment + rawURL[i+len("/hc/"):]
	}
	return rawURL
}

// TruncateRunes cuts s to at most n characters
func TruncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
