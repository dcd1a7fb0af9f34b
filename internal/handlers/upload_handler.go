package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jstyp/storefront-backend/internal/storage"
)

type UploadHandler struct {
	store storage.Store
}

func NewUploadHandler(store storage.Store) *UploadHandler {
	return &UploadHandler{store: store}
}

type uploadRequest struct {
	File string `json:"file"`
}

// Upload stores a base64 data URL and returns its public URL.
func (h *UploadHandler) Upload(c *fiber.Ctx) error {
	var req uploadRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if strings.TrimSpace(req.File) == "" {
		return errorJSON(c, fiber.StatusBadRequest, "No file provided.")
	}

	parsed, err := storage.ParseDataURL(req.File)
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid base64 file format")
	}
	url, err := storage.SaveBytes(c.UserContext(), h.store, parsed.Data, parsed.MimeType, parsed.Extension("png"))
	if err != nil {
		return respondError(c, err, "Failed to upload file")
	}
	return c.JSON(fiber.Map{"url": url})
}
