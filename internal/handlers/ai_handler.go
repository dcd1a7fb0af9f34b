package handlers

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"
	"github.com/jstyp/storefront-backend/internal/dto"
	"github.com/jstyp/storefront-backend/internal/services"
	"github.com/jstyp/storefront-backend/internal/validation"
)

type AIHandler struct {
	ai *services.AIService
}

func NewAIHandler(ai *services.AIService) *AIHandler {
	return &AIHandler{ai: ai}
}

// Match is the public app advisor.
func (h *AIHandler) Match(c *fiber.Ctx) error {
	var req dto.MatchRequest
	if msg := bindBody(c, &req); msg != "" {
		return errorJSON(c, fiber.StatusBadRequest, msg)
	}
	resp, err := h.ai.Match(c.UserContext(), req.Problem)
	if err != nil {
		return respondError(c, err, "Failed to find a matching app")
	}
	return c.JSON(resp)
}

func (h *AIHandler) Dispatch(c *fiber.Ctx) error {
	var req dto.AITaskRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if req.Task == services.TaskFindMatchingApp {
		var p dto.MatchRequest
		if err := json.Unmarshal(req.Payload, &p); err != nil {
			return errorJSON(c, fiber.StatusBadRequest, "Invalid request body")
		}
		if err := validate.ValidateStruct(&p); err != nil {
			return errorJSON(c, fiber.StatusBadRequest, validation.FirstMessage(err))
		}
		resp, err := h.ai.Match(c.UserContext(), p.Problem)
		if err != nil {
			return respondError(c, err, "AI task failed")
		}
		return c.JSON(resp)
	}

	result, err := h.ai.Dispatch(c.UserContext(), req.Task, req.Payload)
	if err != nil {
		return respondError(c, err, "AI task failed")
	}
	return c.JSON(result)
}
