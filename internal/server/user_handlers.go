package server

import (
	"strconv"

	"glimpse/internal/access"
	"glimpse/internal/models"

	"github.com/gofiber/fiber/v2"
)

// Users handles GET /api/users?limit=...
func (s *Server) Users(c *fiber.Ctx) error {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Invalid limit"))
		}
		limit = parsed
	}

	users, err := s.access.Users(c.Context(), limit)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(users)
}

// UserByID handles GET /api/users/:id.
func (s *Server) UserByID(c *fiber.Ctx) error {
	user, err := s.access.UserByID(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(user)
}

// UpdateUser handles PUT /api/users/:id (multipart form, file optional).
func (s *Server) UpdateUser(c *fiber.Ctx) error {
	file, err := formFile(c, "file")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid file upload"))
	}

	in := access.UpdateUser{
		UserID:   c.Params("id"),
		Name:     c.FormValue("name"),
		Bio:      c.FormValue("bio"),
		ImageURL: c.FormValue("image_url"),
		ImageID:  c.FormValue("image_id"),
	}
	if len(file.Data) > 0 {
		in.File = &file
	}

	user, err := s.access.UpdateUser(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(user)
}

// UserPosts handles GET /api/users/:id/posts.
func (s *Server) UserPosts(c *fiber.Ctx) error {
	posts, err := s.access.UserPosts(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(posts)
}
