package server

import (
	"errors"
	"io"

	"glimpse/internal/access"
	"glimpse/internal/models"

	"github.com/gofiber/fiber/v2"
)

// respondError maps an access layer error onto an HTTP status and renders
// the standardized error body.
func respondError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError

	var appErr *models.AppError
	if errors.As(err, &appErr) {
		switch appErr.Code {
		case models.CodeValidation:
			status = fiber.StatusBadRequest
		case models.CodeAuth:
			status = fiber.StatusUnauthorized
		case models.CodeNotFound:
			status = fiber.StatusNotFound
		case models.CodeRemote, models.CodeAccountCreation, models.CodePostCreation:
			status = fiber.StatusBadGateway
		case models.CodePartialFailure:
			status = fiber.StatusInternalServerError
		}
	}
	return models.RespondWithError(c, status, err)
}

// formFile reads the multipart form file under the given key, returning a
// zero-value upload when the field is absent.
func formFile(c *fiber.Ctx, key string) (access.FileUpload, error) {
	header, err := c.FormFile(key)
	if err != nil {
		return access.FileUpload{}, nil
	}
	f, err := header.Open()
	if err != nil {
		return access.FileUpload{}, err
	}
	defer func() { _ = f.Close() }()

	data, err := io.ReadAll(f)
	if err != nil {
		return access.FileUpload{}, err
	}
	return access.FileUpload{Name: header.Filename, Data: data}, nil
}
