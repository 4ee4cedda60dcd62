package storage

import (
	"context"
	"fmt"

	"masterblog/internal/models"

	"gorm.io/gorm"
)

// postRecord is the row layout of the posts table. Position keeps the collection order.
type postRecord struct {
	ID       int    `gorm:"primaryKey;autoIncrement:false"`
	Position int    `gorm:"not null;index"`
	Title    string `gorm:"not null"`
	Content  string `gorm:"type:text;not null"`
	Author   string
	Date     string
}

func (postRecord) TableName() string {
	return "posts"
}

// SQLStore keeps the collection in a relational table through gorm.
type SQLStore struct {
	db *gorm.DB
}

// NewSQLStore wraps an already-migrated database.
func NewSQLStore(db *gorm.DB) *SQLStore {
	return &SQLStore{db: db}
}

// OpenSQLStore migrates the posts table. A table that did not exist before is
// seeded with models.ExamplePosts.
func OpenSQLStore(ctx context.Context, db *gorm.DB) (*SQLStore, error) {
	fresh := !db.Migrator().HasTable(&postRecord{})
	if err := db.AutoMigrate(&postRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate posts table: %w", err)
	}

	s := NewSQLStore(db)
	if fresh {
		if err := s.Save(ctx, models.ExamplePosts()); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *SQLStore) Load(ctx context.Context) ([]models.Post, error) {
	var records []postRecord
	if err := s.db.WithContext(ctx).Order("position").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("query posts: %w: %w", ErrUnavailable, err)
	}

	posts := make([]models.Post, len(records))
	for i, r := range records {
		posts[i] = models.Post{
			ID:      r.ID,
			Title:   r.Title,
			Content: r.Content,
			Author:  r.Author,
			Date:    r.Date,
		}
	}
	return posts, nil
}

func (s *SQLStore) Save(ctx context.Context, posts []models.Post) error {
	records := make([]postRecord, len(posts))
	for i, p := range posts {
		records[i] = postRecord{
			ID:       p.ID,
			Position: i,
			Title:    p.Title,
			Content:  p.Content,
			Author:   p.Author,
			Date:     p.Date,
		}
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&postRecord{}).Error; err != nil {
			return err
		}
		if len(records) == 0 {
			return nil
		}
		return tx.Create(&records).Error
	})
	if err != nil {
		return fmt.Errorf("replace posts: %w: %w", ErrWrite, err)
	}
	return nil
}
