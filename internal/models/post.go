// Package models contains data structures shared by the storage, service and HTTP layers.
package models

// Post is a single blog entry as persisted and returned by the API.
type Post struct {
	ID      int    `json:"id" yaml:"id"`
	Title   string `json:"title" yaml:"title"`
	Content string `json:"content" yaml:"content"`
	// Author is absent on posts created by the in-memory iterations.
	Author string `json:"author,omitempty" yaml:"author,omitempty"`
	Date   string `json:"date,omitempty" yaml:"date,omitempty"`
}

// PostV2 is the v2 response shape: the post plus a version marker.
type PostV2 struct {
	Post
	Version string `json:"version"`
}

// CreatePostInput is the body of POST /api/posts. A nil field was absent from the payload.
type CreatePostInput struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
	Author  *string `json:"author"`
}

// UpdatePostInput is the body of PUT /api/posts/:id. Only non-nil fields are applied.
type UpdatePostInput struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
	Author  *string `json:"author"`
	Date    *string `json:"date"`
}

// IsEmpty reports whether the update carries no fields.
func (in UpdatePostInput) IsEmpty() bool {
	return in.Title == nil && in.Content == nil && in.Author == nil && in.Date == nil
}

// MessageResponse is the confirmation body returned by DELETE.
type MessageResponse struct {
	Message string `json:"message"`
}

// ExamplePosts returns the collection written when the backing store does not exist yet.
func ExamplePosts() []Post {
	return []Post{
		{
			ID:      1,
			Title:   "First post",
			Content: "This is the first post.",
			Author:  "Your Name",
			Date:    "2025-02-28",
		},
		{
			ID:      2,
			Title:   "Second post",
			Content: "And this is the second post.",
			Author:  "Your Name",
			Date:    "2025-03-31",
		},
	}
}

// ClonePosts returns a copy of posts that shares no backing array with the input.
func ClonePosts(posts []Post) []Post {
	out := make([]Post, len(posts))
	copy(out, posts)
	return out
}

// NextID returns max(existing ids)+1, or 1 for an empty collection.
func NextID(posts []Post) int {
	maxID := 0
	for _, p := range posts {
		if p.ID > maxID {
			maxID = p.ID
		}
	}
	return maxID + 1
}

// IndexOf returns the position of the post with the given id, or -1.
func IndexOf(posts []Post, id int) int {
	for i, p := range posts {
		if p.ID == id {
			return i
		}
	}
	return -1
}
