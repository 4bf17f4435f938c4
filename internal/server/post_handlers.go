package server

import (
	"glimpse/internal/access"
	"glimpse/internal/models"

	"github.com/gofiber/fiber/v2"
)

// CreatePost handles POST /api/posts (multipart form).
func (s *Server) CreatePost(c *fiber.Ctx) error {
	file, err := formFile(c, "file")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid file upload"))
	}

	post, err := s.access.CreatePost(c.Context(), access.NewPost{
		CreatorID: c.FormValue("creator_id"),
		Caption:   c.FormValue("caption"),
		Location:  c.FormValue("location"),
		Tags:      c.FormValue("tags"),
		File:      file,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

// UpdatePost handles PUT /api/posts/:id (multipart form, file optional).
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	file, err := formFile(c, "file")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid file upload"))
	}

	in := access.UpdatePost{
		PostID:   c.Params("id"),
		Caption:  c.FormValue("caption"),
		Location: c.FormValue("location"),
		Tags:     c.FormValue("tags"),
		ImageURL: c.FormValue("image_url"),
		ImageID:  c.FormValue("image_id"),
	}
	if len(file.Data) > 0 {
		in.File = &file
	}

	post, err := s.access.UpdatePost(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(post)
}

// DeletePost handles DELETE /api/posts/:id?image_id=...
func (s *Server) DeletePost(c *fiber.Ctx) error {
	status, err := s.access.DeletePost(c.Context(), c.Params("id"), c.Query("image_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(status)
}

// LikePost handles POST /api/posts/:id/like. The body carries the full new
// liker set computed by the caller.
func (s *Server) LikePost(c *fiber.Ctx) error {
	var req struct {
		Likes []string `json:"likes"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.access.LikePost(c.Context(), c.Params("id"), req.Likes)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(post)
}

// SavePost handles POST /api/posts/:id/save.
func (s *Server) SavePost(c *fiber.Ctx) error {
	var req struct {
		UserID string `json:"user_id"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	saved, err := s.access.SavePost(c.Context(), req.UserID, c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(saved)
}

// UnsavePost handles DELETE /api/saves/:id.
func (s *Server) UnsavePost(c *fiber.Ctx) error {
	status, err := s.access.UnsavePost(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(status)
}

// PostPage handles GET /api/posts?cursor=... and serves one feed page,
// newest updates first.
func (s *Server) PostPage(c *fiber.Ctx) error {
	posts, err := s.access.PostPage(c.Context(), c.Query("cursor"))
	if err != nil {
		return respondError(c, err)
	}

	cursor := ""
	if len(posts) == access.FeedPageSize {
		cursor = posts[len(posts)-1].ID
	}
	return c.JSON(fiber.Map{
		"posts":       posts,
		"next_cursor": cursor,
	})
}

// RecentPosts handles GET /api/posts/recent.
func (s *Server) RecentPosts(c *fiber.Ctx) error {
	posts, err := s.access.RecentPosts(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(posts)
}

// SearchPosts handles GET /api/posts/search?q=...
func (s *Server) SearchPosts(c *fiber.Ctx) error {
	posts, err := s.access.SearchPosts(c.Context(), c.Query("q"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(posts)
}

// PostByID handles GET /api/posts/:id.
func (s *Server) PostByID(c *fiber.Ctx) error {
	post, err := s.access.PostByID(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(post)
}
