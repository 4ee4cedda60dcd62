package query

import (
	"strings"

	"masterblog/internal/models"
)

// SearchTerms are the search endpoint's query parameters.
type SearchTerms struct {
	Title   string
	Content string
	Author  string
	Date    string
}

// Search returns the posts whose field contains the term, ignoring case.
//
// Only the first non-empty term in the order title, content, author, date is
// used; the rest are ignored, not combined. No term yields an empty result.
func Search(posts []models.Post, terms SearchTerms) []models.Post {
	field, term := terms.active()
	if term == "" {
		return []models.Post{}
	}

	needle := strings.ToLower(term)
	out := []models.Post{}
	for _, p := range posts {
		if strings.Contains(strings.ToLower(field(p)), needle) {
			out = append(out, p)
		}
	}
	return out
}

func (t SearchTerms) active() (func(models.Post) string, string) {
	switch {
	case t.Title != "":
		return func(p models.Post) string { return p.Title }, t.Title
	case t.Content != "":
		return func(p models.Post) string { return p.Content }, t.Content
	case t.Author != "":
		return func(p models.Post) string { return p.Author }, t.Author
	case t.Date != "":
		return func(p models.Post) string { return p.Date }, t.Date
	}
	return nil, ""
}
