// Package repository guards the post store so each load-mutate-save cycle runs alone.
package repository

import (
	"context"
	"log/slog"
	"sync"

	"masterblog/internal/middleware"
	"masterblog/internal/models"
	"masterblog/internal/storage"
)

// MutateFunc receives the current collection and returns the collection to save.
// Returning an error aborts the cycle without saving.
type MutateFunc func(posts []models.Post) ([]models.Post, error)

// PostRepository defines the interface for post data operations
type PostRepository interface {
	// Snapshot returns a copy of the collection loaded fresh from the store.
	Snapshot(ctx context.Context) ([]models.Post, error)
	// Mutate loads the collection, applies fn and saves the result while holding the write lock.
	Mutate(ctx context.Context, fn MutateFunc) error
}

// postRepository implements PostRepository
type postRepository struct {
	mu    sync.Mutex
	store storage.Store
}

// NewPostRepository creates a new post repository
func NewPostRepository(store storage.Store) PostRepository {
	return &postRepository{store: store}
}

func (r *postRepository) Snapshot(ctx context.Context) ([]models.Post, error) {
	// Load may write the example collection, so reads take the same lock as writes.
	r.mu.Lock()
	defer r.mu.Unlock()

	posts, err := r.store.Load(ctx)
	if err != nil {
		logError(ctx, err, "snapshot")
		return nil, err
	}
	middleware.Logger.DebugContext(ctx, "repository read",
		slog.String("table", "posts"),
		slog.String("operation", "snapshot"),
		slog.Int("count", len(posts)),
	)
	return models.ClonePosts(posts), nil
}

func (r *postRepository) Mutate(ctx context.Context, fn MutateFunc) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	posts, err := r.store.Load(ctx)
	if err != nil {
		logError(ctx, err, "load")
		return err
	}

	updated, err := fn(models.ClonePosts(posts))
	if err != nil {
		return err
	}

	if err := r.store.Save(ctx, updated); err != nil {
		logError(ctx, err, "save")
		return err
	}
	middleware.Logger.DebugContext(ctx, "repository write",
		slog.String("table", "posts"),
		slog.String("operation", "mutate"),
		slog.Int("before", len(posts)),
		slog.Int("after", len(updated)),
	)
	return nil
}

func logError(ctx context.Context, err error, operation string) {
	middleware.Logger.ErrorContext(ctx, "repository error",
		slog.String("table", "posts"),
		slog.String("operation", operation),
		slog.String("error", err.Error()),
	)
}
