package storage

import (
	"context"
	"log/slog"

	"masterblog/internal/middleware"
	"masterblog/internal/models"
	"masterblog/internal/observability"
)

// instrumented records metrics, spans and error logs around another Store.
type instrumented struct {
	next    Store
	backend string
	metrics *observability.StoreMetrics
}

// Instrument wraps next so every Load and Save is measured under the backend label.
func Instrument(next Store, backend string) Store {
	return &instrumented{
		next:    next,
		backend: backend,
		metrics: observability.NewStoreMetrics(backend),
	}
}

func (s *instrumented) Load(ctx context.Context) ([]models.Post, error) {
	ctx, span := observability.StartStoreSpan(ctx, s.backend, "load")
	done := s.metrics.Track("load")

	posts, err := s.next.Load(ctx)
	done(len(posts), err)
	observability.EndSpan(span, err)

	if err != nil {
		middleware.Logger.ErrorContext(ctx, "store load failed",
			slog.String("backend", s.backend),
			slog.String("error", err.Error()))
	}
	return posts, err
}

func (s *instrumented) Save(ctx context.Context, posts []models.Post) error {
	ctx, span := observability.StartStoreSpan(ctx, s.backend, "save")
	done := s.metrics.Track("save")

	err := s.next.Save(ctx, posts)
	done(len(posts), err)
	observability.EndSpan(span, err)

	if err != nil {
		middleware.Logger.ErrorContext(ctx, "store save failed",
			slog.String("backend", s.backend),
			slog.Int("posts", len(posts)),
			slog.String("error", err.Error()))
	}
	return err
}
