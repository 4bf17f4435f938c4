package server

import (
	"glimpse/internal/access"
	"glimpse/internal/models"

	"github.com/gofiber/fiber/v2"
)

// SignUp handles POST /api/auth/signup
func (s *Server) SignUp(c *fiber.Ctx) error {
	var req struct {
		Name     string `json:"name"`
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.access.CreateAccount(c.Context(), access.NewAccount{
		Name:     req.Name,
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(user)
}

// SignIn handles POST /api/auth/signin
func (s *Server) SignIn(c *fiber.Ctx) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	session, err := s.access.SignIn(c.Context(), req.Email, req.Password)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"session_id": session.ID,
		"expires_at": session.ExpiresAt,
	})
}

// SignOut handles POST /api/auth/signout
func (s *Server) SignOut(c *fiber.Ctx) error {
	if err := s.access.SignOut(c.Context()); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"status": "ok"})
}

// Me handles GET /api/auth/me. A missing session yields 200 with a null
// body: being logged out is not an error.
func (s *Server) Me(c *fiber.Ctx) error {
	user, err := s.access.CurrentUser(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(user)
}
