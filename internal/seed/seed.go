// Package seed fills the post store with fixture or generated data for
// development and demos.
package seed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"masterblog/internal/middleware"
	"masterblog/internal/models"
	"masterblog/internal/repository"

	"github.com/brianvoe/gofakeit/v6"
	"gopkg.in/yaml.v3"
)

// Export formats accepted by Export.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Options tunes generated posts.
type Options struct {
	// Seed makes generation deterministic when non-zero.
	Seed int64
	// MaxDays bounds how far back generated dates go. Defaults to 90.
	MaxDays    int
	DateLayout string
	Clock      func() time.Time
}

// Seeder writes posts through the guarded repository so ids follow max+1.
type Seeder struct {
	repo  repository.PostRepository
	faker *gofakeit.Faker
	opts  Options
}

func NewSeeder(repo repository.PostRepository, opts Options) *Seeder {
	if opts.MaxDays <= 0 {
		opts.MaxDays = 90
	}
	if opts.DateLayout == "" {
		opts.DateLayout = time.DateOnly
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Seeder{repo: repo, faker: gofakeit.New(seed), opts: opts}
}

// Generate builds n fake posts. IDs are left unset; Apply assigns them.
func (s *Seeder) Generate(n int) []models.Post {
	now := s.opts.Clock()
	start := now.AddDate(0, 0, -s.opts.MaxDays)

	posts := make([]models.Post, 0, n)
	for i := 0; i < n; i++ {
		posts = append(posts, models.Post{
			Title:   strings.TrimSuffix(s.faker.Sentence(5), "."),
			Content: s.faker.Paragraph(1, 3, 8, " "),
			Author:  s.faker.Name(),
			Date:    s.faker.DateRange(start, now).Format(s.opts.DateLayout),
		})
	}
	return posts
}

// LoadFixture decodes a YAML list of posts. Fixture ids are ignored.
func LoadFixture(r io.Reader) ([]models.Post, error) {
	var posts []models.Post
	if err := yaml.NewDecoder(r).Decode(&posts); err != nil {
		if err == io.EOF {
			return []models.Post{}, nil
		}
		return nil, fmt.Errorf("decode fixture: %w", err)
	}
	for i, p := range posts {
		if p.Title == "" || p.Content == "" {
			return nil, fmt.Errorf("fixture post %d: title and content are required", i+1)
		}
	}
	return posts, nil
}

// Apply appends posts to the collection, or replaces it when clean is set.
// Each post gets the next free id; empty dates are stamped with the clock.
func (s *Seeder) Apply(ctx context.Context, posts []models.Post, clean bool) ([]models.Post, error) {
	var added []models.Post
	err := s.repo.Mutate(ctx, func(current []models.Post) ([]models.Post, error) {
		if clean {
			current = current[:0]
		}
		added = make([]models.Post, 0, len(posts))
		for _, p := range posts {
			p.ID = models.NextID(current)
			if p.Date == "" {
				p.Date = s.opts.Clock().Format(s.opts.DateLayout)
			}
			current = append(current, p)
			added = append(added, p)
		}
		return current, nil
	})
	if err != nil {
		return nil, err
	}

	middleware.Logger.InfoContext(ctx, "seeded posts",
		slog.Int("count", len(added)),
		slog.Bool("clean", clean),
	)
	return added, nil
}

// Export writes the current collection as JSON (4-space indent) or YAML.
func Export(ctx context.Context, repo repository.PostRepository, w io.Writer, format string) error {
	posts, err := repo.Snapshot(ctx)
	if err != nil {
		return err
	}

	switch strings.ToLower(format) {
	case FormatJSON, "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "    ")
		return enc.Encode(posts)
	case FormatYAML, "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(posts); err != nil {
			return err
		}
		return enc.Close()
	}
	return fmt.Errorf("unsupported export format %q", format)
}
