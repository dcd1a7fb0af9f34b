package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jstyp/storefront-backend/internal/dto"
	"github.com/jstyp/storefront-backend/internal/services"
)

type TeamHandler struct {
	team *services.TeamService
}

func NewTeamHandler(team *services.TeamService) *TeamHandler {
	return &TeamHandler{team: team}
}

func (h *TeamHandler) List(c *fiber.Ctx) error {
	members, err := h.team.List(c.UserContext())
	if err != nil {
		return respondError(c, err, "Failed to fetch team members")
	}
	return c.JSON(members)
}

func (h *TeamHandler) Create(c *fiber.Ctx) error {
	var req dto.TeamMemberRequest
	if msg := bindBody(c, &req); msg != "" {
		return errorJSON(c, fiber.StatusBadRequest, msg)
	}
	member, err := h.team.Create(c.UserContext(), &req)
	if err != nil {
		return respondError(c, err, "Failed to create team member")
	}
	return c.Status(fiber.StatusCreated).JSON(member)
}

func (h *TeamHandler) Update(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return errorJSON(c, fiber.StatusNotFound, "Team member not found")
	}
	var req dto.TeamMemberRequest
	if msg := bindBody(c, &req); msg != "" {
		return errorJSON(c, fiber.StatusBadRequest, msg)
	}
	member, err := h.team.Update(c.UserContext(), id, &req)
	if err != nil {
		return respondError(c, err, "Failed to update team member")
	}
	return c.JSON(member)
}

func (h *TeamHandler) Delete(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return errorJSON(c, fiber.StatusNotFound, "Team member not found")
	}
	if err := h.team.Delete(c.UserContext(), id); err != nil {
		return respondError(c, err, "Failed to delete team member")
	}
	return c.JSON(dto.MessageResponse{Message: "Team member deleted successfully"})
}
