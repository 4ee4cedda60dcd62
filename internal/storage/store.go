// Package storage loads and saves the complete post collection.
//
// A Store always works on the whole collection: Load returns every post in
// persisted order and Save replaces the backing contents with the given slice.
package storage

import (
	"context"
	"errors"

	"masterblog/internal/models"
)

var (
	// ErrCorrupt marks a backing document that exists but could not be read or decoded.
	ErrCorrupt = errors.New("storage: posts could not be read")
	// ErrWrite marks a failed save.
	ErrWrite = errors.New("storage: posts could not be written")
	// ErrUnavailable marks a backend that could not be reached while loading.
	ErrUnavailable = errors.New("storage: backend unavailable")
)

// Store loads and saves the full ordered post collection.
type Store interface {
	// Load returns the full collection. A missing backing location is
	// initialised with models.ExamplePosts first.
	Load(ctx context.Context) ([]models.Post, error)
	// Save overwrites the backing contents with posts.
	Save(ctx context.Context, posts []models.Post) error
}

// CorruptPolicy decides what Load does with an undecodable document.
type CorruptPolicy int

const (
	// Strict returns an error wrapping ErrCorrupt.
	Strict CorruptPolicy = iota
	// Lenient logs the decode error and returns an empty collection.
	Lenient
)

// ParseCorruptPolicy maps a config value to a CorruptPolicy. Unknown values are Strict.
func ParseCorruptPolicy(raw string) CorruptPolicy {
	if raw == "lenient" {
		return Lenient
	}
	return Strict
}

func (p CorruptPolicy) String() string {
	if p == Lenient {
		return "lenient"
	}
	return "strict"
}
