package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jstyp/storefront-backend/internal/dto"
	"github.com/jstyp/storefront-backend/internal/middleware"
	"github.com/jstyp/storefront-backend/internal/services"
)

type AppHandler struct {
	catalog *services.CatalogService
	pins    *services.PinService
}

func NewAppHandler(catalog *services.CatalogService, pins *services.PinService) *AppHandler {
	return &AppHandler{catalog: catalog, pins: pins}
}

func (h *AppHandler) List(c *fiber.Ctx) error {
	apps, err := h.catalog.ListPublic(c.UserContext())
	if err != nil {
		return respondError(c, err, "Failed to fetch apps")
	}
	return c.JSON(apps)
}

func (h *AppHandler) Get(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return errorJSON(c, fiber.StatusNotFound, "App not found")
	}
	app, err := h.catalog.Get(c.UserContext(), id)
	if err != nil {
		return respondError(c, err, "Failed to fetch app")
	}
	return c.JSON(app)
}

// Unlock trades a PIN for the app's download links. A client session is
// optional here; PIN redemption itself requires one.
func (h *AppHandler) Unlock(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return errorJSON(c, fiber.StatusNotFound, "App not found")
	}
	var req dto.UnlockRequest
	if msg := bindBody(c, &req); msg != "" {
		return errorJSON(c, fiber.StatusBadRequest, msg)
	}

	var by *services.Redeemer
	if s := sessionOf(c); s != nil && s.Role == middleware.RoleClient {
		by = &services.Redeemer{ID: s.ID, Name: s.Name}
	}

	grant, err := h.pins.Unlock(c.UserContext(), id, req.Pin, by)
	if err != nil {
		return respondError(c, err, "Failed to unlock app")
	}
	return c.JSON(grant)
}

func (h *AppHandler) Rate(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return errorJSON(c, fiber.StatusBadRequest, "appId, clientId and a valid rating are required")
	}
	session := sessionOf(c)
	if session == nil {
		return errorJSON(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	var req dto.RatingRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "appId, clientId and a valid rating are required")
	}

	app, err := h.catalog.Rate(c.UserContext(), id, session.ID, req.Rating)
	if err != nil {
		return respondError(c, err, "Failed to save rating")
	}
	return c.JSON(app)
}

func (h *AppHandler) AdminList(c *fiber.Ctx) error {
	apps, err := h.catalog.ListAll(c.UserContext())
	if err != nil {
		return respondError(c, err, "Failed to fetch apps")
	}
	return c.JSON(apps)
}

func (h *AppHandler) AdminGet(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return errorJSON(c, fiber.StatusNotFound, "App not found")
	}
	app, err := h.catalog.GetFull(c.UserContext(), id)
	if err != nil {
		return respondError(c, err, "Failed to fetch app")
	}
	return c.JSON(app)
}

func (h *AppHandler) Create(c *fiber.Ctx) error {
	var req dto.AppRequest
	if msg := bindBody(c, &req); msg != "" {
		return errorJSON(c, fiber.StatusBadRequest, msg)
	}
	app, err := h.catalog.Create(c.UserContext(), &req)
	if err != nil {
		return respondError(c, err, "Failed to create app")
	}
	return c.Status(fiber.StatusCreated).JSON(app)
}

func (h *AppHandler) Update(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return errorJSON(c, fiber.StatusNotFound, "App not found")
	}
	var req dto.AppRequest
	if msg := bindBody(c, &req); msg != "" {
		return errorJSON(c, fiber.StatusBadRequest, msg)
	}
	app, err := h.catalog.Update(c.UserContext(), id, &req)
	if err != nil {
		return respondError(c, err, "Failed to update app")
	}
	return c.JSON(app)
}

func (h *AppHandler) Delete(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return errorJSON(c, fiber.StatusNotFound, "App not found")
	}
	if err := h.catalog.Delete(c.UserContext(), id); err != nil {
		return respondError(c, err, "Failed to delete app")
	}
	return c.JSON(dto.MessageResponse{Message: "App deleted successfully"})
}
