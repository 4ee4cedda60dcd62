package server

import (
	"fmt"

	"masterblog/internal/models"
	"masterblog/internal/query"
	"masterblog/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetPosts handles GET /api/posts
// @Summary List posts
// @Description Returns posts, optionally sorted and paginated. Send Accept: application/vnd.myapi.v2+json for the v2 shape.
// @Tags posts
// @Produce json
// @Param sort query string false "title, content or author"
// @Param direction query string false "asc or desc"
// @Param page query int false "page number" default(1)
// @Param limit query int false "page size" default(10)
// @Success 200 {array} models.Post
// @Failure 400 {object} models.ErrorResponse
// @Router /posts [get]
func (s *Server) GetPosts(c *fiber.Ctx) error {
	page, err := queryPositiveInt(c, "page")
	if err != nil {
		return respondError(c, err)
	}
	limit, err := queryPositiveInt(c, "limit")
	if err != nil {
		return respondError(c, err)
	}

	posts, err := s.postService.ListPosts(c.UserContext(), service.ListPostsInput{
		Sort:      c.Query("sort"),
		Direction: c.Query("direction"),
		Page:      page,
		Limit:     limit,
		Accept:    c.Get(fiber.HeaderAccept),
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(posts)
}

// CreatePost handles POST /api/posts
// @Summary Create a post
// @Tags posts
// @Accept json
// @Produce json
// @Param post body models.CreatePostInput true "title, content and author"
// @Success 201 {object} models.Post
// @Failure 400 {object} models.ErrorResponse
// @Router /posts [post]
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var req models.CreatePostInput
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.CreatePost(c.UserContext(), req)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(post)
}

// GetPost handles GET /api/posts/:id
// @Summary Get a post
// @Tags posts
// @Produce json
// @Param id path int true "post id"
// @Success 200 {object} models.Post
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/{id} [get]
func (s *Server) GetPost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.postService.GetPost(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(post)
}

// UpdatePost handles PUT /api/posts/:id
// @Summary Update a post
// @Description Applies only the fields present in the body.
// @Tags posts
// @Accept json
// @Produce json
// @Param id path int true "post id"
// @Param post body models.UpdatePostInput false "fields to change"
// @Success 200 {object} models.Post
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/{id} [put]
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req models.UpdatePostInput
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Invalid request body"))
		}
	}

	post, err := s.postService.UpdatePost(c.UserContext(), id, req)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(post)
}

// DeletePost handles DELETE /api/posts/:id
// @Summary Delete a post
// @Tags posts
// @Produce json
// @Param id path int true "post id"
// @Success 200 {object} models.MessageResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/{id} [delete]
func (s *Server) DeletePost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.postService.DeletePost(c.UserContext(), id); err != nil {
		return respondError(c, err)
	}

	return c.JSON(models.MessageResponse{
		Message: fmt.Sprintf("Post with id %d has been deleted successfully.", id),
	})
}

// SearchPosts handles GET /api/posts/search
// @Summary Search posts
// @Description Case-insensitive substring match on the first non-empty of title, content, author, date.
// @Tags posts
// @Produce json
// @Param title query string false "title term"
// @Param content query string false "content term"
// @Param author query string false "author term"
// @Param date query string false "date term"
// @Success 200 {array} models.Post
// @Router /posts/search [get]
func (s *Server) SearchPosts(c *fiber.Ctx) error {
	posts, err := s.postService.SearchPosts(c.UserContext(), query.SearchTerms{
		Title:   c.Query("title"),
		Content: c.Query("content"),
		Author:  c.Query("author"),
		Date:    c.Query("date"),
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(posts)
}
