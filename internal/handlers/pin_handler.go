package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jstyp/storefront-backend/internal/dto"
	"github.com/jstyp/storefront-backend/internal/services"
)

type PinHandler struct {
	pins *services.PinService
}

func NewPinHandler(pins *services.PinService) *PinHandler {
	return &PinHandler{pins: pins}
}

func (h *PinHandler) Issue(c *fiber.Ctx) error {
	var req dto.IssuePinRequest
	if msg := bindBody(c, &req); msg != "" {
		return errorJSON(c, fiber.StatusBadRequest, msg)
	}
	rec, err := h.pins.Issue(c.UserContext(), &req)
	if err != nil {
		return respondError(c, err, "Failed to generate PIN")
	}
	return c.Status(fiber.StatusCreated).JSON(rec)
}

func (h *PinHandler) List(c *fiber.Ctx) error {
	pins, err := h.pins.List(c.UserContext())
	if err != nil {
		return respondError(c, err, "Failed to fetch PINs")
	}
	return c.JSON(pins)
}
