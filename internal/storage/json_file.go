package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"masterblog/internal/middleware"
	"masterblog/internal/models"

	"github.com/spf13/afero"
)

const jsonIndent = "    "

// JSONFileStore keeps the collection as a single JSON array in one file.
type JSONFileStore struct {
	fs     afero.Fs
	path   string
	policy CorruptPolicy
}

// NewJSONFileStore returns a store for path on fs.
func NewJSONFileStore(fs afero.Fs, path string, policy CorruptPolicy) *JSONFileStore {
	return &JSONFileStore{fs: fs, path: path, policy: policy}
}

// Path returns the backing file path.
func (s *JSONFileStore) Path() string {
	return s.path
}

func (s *JSONFileStore) Load(ctx context.Context) ([]models.Post, error) {
	exists, err := afero.Exists(s.fs, s.path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w: %w", s.path, ErrCorrupt, err)
	}
	if !exists {
		middleware.Logger.InfoContext(ctx, "posts file missing, writing example posts",
			slog.String("path", s.path))
		if err := s.write(models.ExamplePosts()); err != nil {
			return nil, err
		}
	}

	data, err := afero.ReadFile(s.fs, s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			// Removed between the existence check and the read.
			return []models.Post{}, nil
		}
		return nil, fmt.Errorf("read %s: %w: %w", s.path, ErrCorrupt, err)
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return []models.Post{}, nil
	}

	var posts []models.Post
	if err := json.Unmarshal(data, &posts); err != nil {
		if s.policy == Lenient {
			middleware.Logger.WarnContext(ctx, "posts file could not be decoded, serving empty collection",
				slog.String("path", s.path),
				slog.String("error", err.Error()))
			return []models.Post{}, nil
		}
		return nil, fmt.Errorf("decode %s: %w: %w", s.path, ErrCorrupt, err)
	}
	if posts == nil {
		posts = []models.Post{}
	}
	return posts, nil
}

func (s *JSONFileStore) Save(_ context.Context, posts []models.Post) error {
	return s.write(posts)
}

// write replaces the file by writing a sibling temp file and renaming it over the target.
func (s *JSONFileStore) write(posts []models.Post) error {
	if posts == nil {
		posts = []models.Post{}
	}
	data, err := json.MarshalIndent(posts, "", jsonIndent)
	if err != nil {
		return fmt.Errorf("encode posts: %w: %w", ErrWrite, err)
	}

	dir := filepath.Dir(s.path)
	if err := s.fs.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w: %w", dir, ErrWrite, err)
	}

	tmp, err := afero.TempFile(s.fs, dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file in %s: %w: %w", dir, ErrWrite, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = s.fs.Remove(tmpName)
		return fmt.Errorf("write %s: %w: %w", tmpName, ErrWrite, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = s.fs.Remove(tmpName)
		return fmt.Errorf("sync %s: %w: %w", tmpName, ErrWrite, err)
	}
	if err := tmp.Close(); err != nil {
		_ = s.fs.Remove(tmpName)
		return fmt.Errorf("close %s: %w: %w", tmpName, ErrWrite, err)
	}
	if err := s.fs.Rename(tmpName, s.path); err != nil {
		_ = s.fs.Remove(tmpName)
		return fmt.Errorf("rename %s: %w: %w", tmpName, ErrWrite, err)
	}
	return nil
}
