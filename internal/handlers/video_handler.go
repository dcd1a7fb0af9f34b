package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jstyp/storefront-backend/internal/dto"
	"github.com/jstyp/storefront-backend/internal/models"
	"github.com/jstyp/storefront-backend/internal/services"
)

type VideoHandler struct {
	videos *services.VideoService
}

func NewVideoHandler(videos *services.VideoService) *VideoHandler {
	return &VideoHandler{videos: videos}
}

func (h *VideoHandler) List(c *fiber.Ctx) error {
	videos, err := h.videos.ListCompleted(c.UserContext())
	if err != nil {
		return respondError(c, err, "Failed to fetch videos")
	}
	if videos == nil {
		videos = []models.Video{}
	}
	return c.JSON(videos)
}

// Generate starts a generation and returns immediately; the poller
// finishes it.
func (h *VideoHandler) Generate(c *fiber.Ctx) error {
	var req dto.GenerateVideoRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid request body")
	}
	video, err := h.videos.Start(c.UserContext(), req.Prompt)
	if err != nil {
		return respondError(c, err, "Failed to start video generation")
	}
	return c.Status(fiber.StatusAccepted).JSON(dto.GenerateVideoResponse{
		Video:         video,
		OperationName: video.OperationName,
	})
}

func (h *VideoHandler) Status(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return errorJSON(c, fiber.StatusNotFound, "Video not found")
	}
	video, err := h.videos.Status(c.UserContext(), id)
	if err != nil {
		return respondError(c, err, "Failed to check video status")
	}
	return c.JSON(dto.VideoStatusResponse{Status: video.Status, Video: video})
}
