package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jstyp/storefront-backend/internal/dto"
	"github.com/jstyp/storefront-backend/internal/services"
)

// RequestHandler serves app requests from visitors and re-download
// requests from clients.
type RequestHandler struct {
	appRequests *services.AppRequestService
	redownloads *services.RedownloadService
}

func NewRequestHandler(appRequests *services.AppRequestService, redownloads *services.RedownloadService) *RequestHandler {
	return &RequestHandler{appRequests: appRequests, redownloads: redownloads}
}

func (h *RequestHandler) CreateAppRequest(c *fiber.Ctx) error {
	var req dto.CreateAppRequestRequest
	if msg := bindBody(c, &req); msg != "" {
		return errorJSON(c, fiber.StatusBadRequest, msg)
	}
	created, err := h.appRequests.Create(c.UserContext(), req.ProblemDescription)
	if err != nil {
		return respondError(c, err, "Failed to submit request")
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *RequestHandler) ListAppRequests(c *fiber.Ctx) error {
	reqs, err := h.appRequests.List(c.UserContext())
	if err != nil {
		return respondError(c, err, "Failed to fetch requests")
	}
	return c.JSON(reqs)
}

func (h *RequestHandler) UpdateAppRequest(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return errorJSON(c, fiber.StatusNotFound, "Request not found")
	}
	var req dto.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid request body")
	}
	updated, err := h.appRequests.UpdateStatus(c.UserContext(), id, req.Status)
	if err != nil {
		return respondError(c, err, "Failed to update request")
	}
	return c.JSON(updated)
}

// CreateRedownload answers 200 with null when a pending request already
// exists for the client and app.
func (h *RequestHandler) CreateRedownload(c *fiber.Ctx) error {
	session := sessionOf(c)
	if session == nil {
		return errorJSON(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	var req dto.CreateRedownloadRequest
	if msg := bindBody(c, &req); msg != "" {
		return errorJSON(c, fiber.StatusBadRequest, msg)
	}

	created, err := h.redownloads.Create(c.UserContext(), services.Redeemer{ID: session.ID, Name: session.Name}, req.AppID)
	if err != nil {
		return respondError(c, err, "Failed to submit re-download request")
	}
	if created == nil {
		return c.JSON(nil)
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *RequestHandler) ListMyRedownloads(c *fiber.Ctx) error {
	session := sessionOf(c)
	if session == nil {
		return errorJSON(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	reqs, err := h.redownloads.ListByClient(c.UserContext(), session.ID)
	if err != nil {
		return respondError(c, err, "Failed to fetch re-download requests")
	}
	return c.JSON(reqs)
}

func (h *RequestHandler) ListRedownloads(c *fiber.Ctx) error {
	reqs, err := h.redownloads.List(c.UserContext())
	if err != nil {
		return respondError(c, err, "Failed to fetch re-download requests")
	}
	return c.JSON(reqs)
}

func (h *RequestHandler) ResolveRedownload(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return errorJSON(c, fiber.StatusNotFound, "Request not found")
	}
	var req dto.ResolveRedownloadRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid request body")
	}
	resolved, err := h.redownloads.Resolve(c.UserContext(), id, req.Status, req.Reason)
	if err != nil {
		return respondError(c, err, "Failed to resolve request")
	}
	return c.JSON(resolved)
}
