// Package service implements the blog operations on top of the guarded repository.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"masterblog/internal/models"
	"masterblog/internal/query"
	"masterblog/internal/repository"
	"masterblog/internal/storage"
)

type PostService struct {
	postRepo      repository.PostRepository
	clock         func() time.Time
	dateLayout    string
	requireAuthor bool
}

// PostServiceOptions configures a PostService. Zero values fall back to
// time.Now, the ISO date layout and an optional author.
type PostServiceOptions struct {
	Clock         func() time.Time
	DateLayout    string
	RequireAuthor bool
}

type ListPostsInput struct {
	Sort      string
	Direction string
	Page      int
	Limit     int
	Accept    string
}

func NewPostService(postRepo repository.PostRepository, opts PostServiceOptions) *PostService {
	s := &PostService{
		postRepo:      postRepo,
		clock:         opts.Clock,
		dateLayout:    opts.DateLayout,
		requireAuthor: opts.RequireAuthor,
	}
	if s.clock == nil {
		s.clock = time.Now
	}
	if s.dateLayout == "" {
		s.dateLayout = time.DateOnly
	}
	return s
}

func (s *PostService) CreatePost(ctx context.Context, in models.CreatePostInput) (*models.Post, error) {
	if missing := s.missingFields(in); len(missing) > 0 {
		return nil, models.NewInvalidInputError(
			fmt.Sprintf("Invalid post data: missing %s", strings.Join(missing, ", ")))
	}

	var created models.Post
	err := s.postRepo.Mutate(ctx, func(posts []models.Post) ([]models.Post, error) {
		created = models.Post{
			ID:      models.NextID(posts),
			Title:   *in.Title,
			Content: *in.Content,
			Date:    s.clock().Format(s.dateLayout),
		}
		if in.Author != nil {
			created.Author = *in.Author
		}
		return append(posts, created), nil
	})
	if err != nil {
		return nil, translateStorageError(err)
	}
	return &created, nil
}

func (s *PostService) missingFields(in models.CreatePostInput) []string {
	var missing []string
	if in.Title == nil {
		missing = append(missing, "title")
	}
	if in.Content == nil {
		missing = append(missing, "content")
	}
	if s.requireAuthor && in.Author == nil {
		missing = append(missing, "author")
	}
	return missing
}

// ListPosts sorts, paginates and shapes the current collection. The returned
// value is either []models.Post or []models.PostV2 depending on Accept.
func (s *PostService) ListPosts(ctx context.Context, in ListPostsInput) (any, error) {
	field, err := query.ParseSort(in.Sort)
	if err != nil {
		return nil, err
	}
	var dir query.Direction
	if field != query.SortNone {
		if dir, err = query.ParseDirection(in.Direction); err != nil {
			return nil, err
		}
	}

	page, limit := in.Page, in.Limit
	if page == 0 {
		page = query.DefaultPage
	}
	if limit == 0 {
		limit = query.DefaultLimit
	}
	if page < 1 {
		return nil, models.NewInvalidPaginationError("page")
	}
	if limit < 1 {
		return nil, models.NewInvalidPaginationError("limit")
	}

	posts, err := s.postRepo.Snapshot(ctx)
	if err != nil {
		return nil, translateStorageError(err)
	}

	posts = query.Sort(posts, field, dir)
	posts = query.Paginate(posts, page, limit)
	return query.Shape(posts, query.NegotiateVersion(in.Accept)), nil
}

func (s *PostService) GetPost(ctx context.Context, id int) (*models.Post, error) {
	posts, err := s.postRepo.Snapshot(ctx)
	if err != nil {
		return nil, translateStorageError(err)
	}
	i := models.IndexOf(posts, id)
	if i < 0 {
		return nil, models.NewNotFoundError("Post", id)
	}
	return &posts[i], nil
}

// UpdatePost applies the present fields of in to the post with the given id.
// An empty update returns the post unchanged without saving.
func (s *PostService) UpdatePost(ctx context.Context, id int, in models.UpdatePostInput) (*models.Post, error) {
	if in.IsEmpty() {
		return s.GetPost(ctx, id)
	}

	var updated models.Post
	err := s.postRepo.Mutate(ctx, func(posts []models.Post) ([]models.Post, error) {
		i := models.IndexOf(posts, id)
		if i < 0 {
			return nil, models.NewNotFoundError("Post", id)
		}
		p := &posts[i]
		if in.Title != nil {
			p.Title = *in.Title
		}
		if in.Content != nil {
			p.Content = *in.Content
		}
		if in.Author != nil {
			p.Author = *in.Author
		}
		if in.Date != nil {
			p.Date = *in.Date
		}
		updated = *p
		return posts, nil
	})
	if err != nil {
		return nil, translateStorageError(err)
	}
	return &updated, nil
}

func (s *PostService) DeletePost(ctx context.Context, id int) error {
	err := s.postRepo.Mutate(ctx, func(posts []models.Post) ([]models.Post, error) {
		kept := make([]models.Post, 0, len(posts))
		for _, p := range posts {
			if p.ID != id {
				kept = append(kept, p)
			}
		}
		if len(kept) == len(posts) {
			return nil, models.NewNotFoundError("Post", id)
		}
		return kept, nil
	})
	return translateStorageError(err)
}

func (s *PostService) SearchPosts(ctx context.Context, terms query.SearchTerms) ([]models.Post, error) {
	posts, err := s.postRepo.Snapshot(ctx)
	if err != nil {
		return nil, translateStorageError(err)
	}
	return query.Search(posts, terms), nil
}

// translateStorageError maps storage sentinels onto AppErrors. AppErrors pass through.
func translateStorageError(err error) error {
	if err == nil {
		return nil
	}
	var appErr *models.AppError
	switch {
	case errors.As(err, &appErr):
		return err
	case errors.Is(err, storage.ErrCorrupt):
		return models.NewStorageCorruptError(err)
	case errors.Is(err, storage.ErrWrite):
		return models.NewStorageWriteError(err)
	case errors.Is(err, storage.ErrUnavailable):
		return models.NewStorageUnavailableError(err)
	}
	return models.NewInternalError(err)
}
