package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jstyp/storefront-backend/internal/models"
	"github.com/jstyp/storefront-backend/internal/services"
)

type ClientHandler struct {
	clients *services.ClientService
	pins    *services.PinService
}

func NewClientHandler(clients *services.ClientService, pins *services.PinService) *ClientHandler {
	return &ClientHandler{clients: clients, pins: pins}
}

// Me returns the logged-in client's profile.
func (h *ClientHandler) Me(c *fiber.Ctx) error {
	session := sessionOf(c)
	if session == nil {
		return errorJSON(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	client, err := h.clients.Get(c.UserContext(), session.ID)
	if err != nil {
		return respondError(c, err, "Failed to fetch profile")
	}
	return c.JSON(client)
}

func (h *ClientHandler) PurchasedApps(c *fiber.Ctx) error {
	session := sessionOf(c)
	if session == nil {
		return errorJSON(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	apps, err := h.pins.PurchasedApps(c.UserContext(), session.ID)
	if err != nil {
		return respondError(c, err, "Failed to fetch purchased apps")
	}
	return c.JSON(apps)
}

// AdminList returns every client, or the single client matching ?email=.
func (h *ClientHandler) AdminList(c *fiber.Ctx) error {
	if email := c.Query("email"); email != "" {
		client, err := h.clients.FindByEmail(c.UserContext(), email)
		if err != nil {
			return respondError(c, err, "Failed to fetch client")
		}
		return c.JSON(client)
	}

	clients, err := h.clients.List(c.UserContext())
	if err != nil {
		return respondError(c, err, "Failed to fetch clients")
	}
	if clients == nil {
		clients = []models.Client{}
	}
	return c.JSON(clients)
}

func (h *ClientHandler) AdminGet(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return errorJSON(c, fiber.StatusNotFound, "Client not found")
	}
	client, err := h.clients.Get(c.UserContext(), id)
	if err != nil {
		return respondError(c, err, "Failed to fetch client")
	}
	return c.JSON(client)
}
