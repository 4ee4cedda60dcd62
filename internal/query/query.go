// Package query shapes a post snapshot for the list and search endpoints:
// sorting, pagination, response versioning and single-field search.
package query

import (
	"cmp"
	"slices"
	"strings"

	"masterblog/internal/models"
)

// SortField names the post field the list endpoint sorts on.
type SortField string

const (
	SortNone    SortField = ""
	SortTitle   SortField = "title"
	SortContent SortField = "content"
	SortAuthor  SortField = "author"
)

// Direction is the sort direction. The zero value sorts ascending.
type Direction string

const (
	DirectionDefault Direction = ""
	DirectionAsc     Direction = "asc"
	DirectionDesc    Direction = "desc"
)

// Pagination defaults applied when the request omits page or limit.
const (
	DefaultPage  = 1
	DefaultLimit = 10
)

// ParseSort validates the sort query parameter.
func ParseSort(raw string) (SortField, error) {
	switch f := SortField(raw); f {
	case SortNone, SortTitle, SortContent, SortAuthor:
		return f, nil
	}
	return SortNone, models.NewInvalidSortError(raw)
}

// ParseDirection validates the direction query parameter.
func ParseDirection(raw string) (Direction, error) {
	switch d := Direction(raw); d {
	case DirectionDefault, DirectionAsc, DirectionDesc:
		return d, nil
	}
	return DirectionDefault, models.NewInvalidDirectionError(raw)
}

func sortKey(p models.Post, field SortField) string {
	switch field {
	case SortTitle:
		return strings.ToLower(p.Title)
	case SortContent:
		return strings.ToLower(p.Content)
	case SortAuthor:
		return strings.ToLower(p.Author)
	}
	return ""
}

// Sort returns a sorted copy of posts. Keys compare case-insensitively and equal
// keys keep their stored order; DirectionDesc is the exact reverse of the
// ascending result. SortNone returns an unsorted copy.
func Sort(posts []models.Post, field SortField, dir Direction) []models.Post {
	out := models.ClonePosts(posts)
	if field == SortNone {
		return out
	}

	slices.SortStableFunc(out, func(a, b models.Post) int {
		return cmp.Compare(sortKey(a, field), sortKey(b, field))
	})
	if dir == DirectionDesc {
		slices.Reverse(out)
	}
	return out
}

// Paginate returns posts[(page-1)*limit : page*limit], clipped to the slice.
// Pages past the end yield an empty, non-nil slice. page and limit must be >= 1.
func Paginate(posts []models.Post, page, limit int) []models.Post {
	if page < 1 || limit < 1 || page-1 > len(posts)/limit {
		return []models.Post{}
	}
	start := (page - 1) * limit
	if start >= len(posts) {
		return []models.Post{}
	}
	end := len(posts)
	if limit < end-start {
		end = start + limit
	}
	return models.ClonePosts(posts[start:end])
}
