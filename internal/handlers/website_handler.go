package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jstyp/storefront-backend/internal/dto"
	"github.com/jstyp/storefront-backend/internal/services"
)

type WebsiteHandler struct {
	website *services.WebsiteService
}

func NewWebsiteHandler(website *services.WebsiteService) *WebsiteHandler {
	return &WebsiteHandler{website: website}
}

func (h *WebsiteHandler) Get(c *fiber.Ctx) error {
	details, err := h.website.Get(c.UserContext())
	if err != nil {
		return respondError(c, err, "Failed to fetch website details")
	}
	return c.JSON(details)
}

// Save replaces the whole settings document.
func (h *WebsiteHandler) Save(c *fiber.Ctx) error {
	var req dto.WebsiteDetailsRequest
	if msg := bindBody(c, &req); msg != "" {
		return errorJSON(c, fiber.StatusBadRequest, msg)
	}
	details, err := h.website.Save(c.UserContext(), &req)
	if err != nil {
		return respondError(c, err, "Failed to save website details")
	}
	return c.JSON(details)
}
