package server

import (
	"io"

	"tribune/internal/models"
	"tribune/internal/service"

	"github.com/gofiber/fiber/v2"
)

// UploadImage handles POST /api/images (multipart form, field "image").
func (s *Server) UploadImage(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		return respondError(c, models.NewValidationError("No file uploaded"))
	}

	file, err := fileHeader.Open()
	if err != nil {
		return respondError(c, models.NewInternalError(err))
	}
	defer func() { _ = file.Close() }()

	content, err := io.ReadAll(file)
	if err != nil {
		return respondError(c, models.NewInternalError(err))
	}

	img, err := s.imageService.Upload(c.Context(), service.UploadImageInput{
		UserID:      viewerID(c),
		Filename:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Content:     content,
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(img)
}

// GetImage handles GET /api/images/:name, serving the stored bytes.
func (s *Server) GetImage(c *fiber.Ctx) error {
	img, err := s.imageService.GetByName(c.Context(), c.Params("name"))
	if err != nil {
		return respondError(c, err)
	}

	c.Set(fiber.HeaderContentType, img.ContentType)
	c.Set(fiber.HeaderCacheControl, "public, max-age=31536000, immutable")
	return c.Send(img.Data)
}
