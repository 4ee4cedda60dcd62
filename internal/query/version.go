package query

import (
	"strings"

	"masterblog/internal/models"
)

// Version selects the response shape of the list endpoint.
type Version int

const (
	V1 Version = iota + 1
	V2
)

// Media types recognised in the Accept header.
const (
	MediaTypeV1   = "application/vnd.myapi.v1+json"
	MediaTypeV2   = "application/vnd.myapi.v2+json"
	MediaTypeJSON = "application/json"
)

func (v Version) String() string {
	if v == V2 {
		return "v2"
	}
	return "v1"
}

// NegotiateVersion picks the version from an Accept header value. The v1 marker
// or a bare application/json wins over v2; anything unrecognised is V1.
func NegotiateVersion(accept string) Version {
	switch {
	case strings.Contains(accept, MediaTypeV1), accept == MediaTypeJSON:
		return V1
	case strings.Contains(accept, MediaTypeV2):
		return V2
	}
	return V1
}

// Shape converts posts into the response body for version v.
func Shape(posts []models.Post, v Version) any {
	if v != V2 {
		return posts
	}
	out := make([]models.PostV2, len(posts))
	for i, p := range posts {
		out[i] = models.PostV2{Post: p, Version: V2.String()}
	}
	return out
}
