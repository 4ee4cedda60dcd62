package storage

import (
	"context"
	"sync"

	"masterblog/internal/models"
)

// MemoryStore holds the collection in process memory. Nothing survives a restart.
type MemoryStore struct {
	mu    sync.Mutex
	posts []models.Post
}

// NewMemoryStore returns a store initialised with a copy of initial.
func NewMemoryStore(initial []models.Post) *MemoryStore {
	return &MemoryStore{posts: models.ClonePosts(initial)}
}

func (s *MemoryStore) Load(_ context.Context) ([]models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return models.ClonePosts(s.posts), nil
}

func (s *MemoryStore) Save(_ context.Context, posts []models.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.posts = models.ClonePosts(posts)
	return nil
}
