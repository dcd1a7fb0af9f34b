package handlers

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/jstyp/storefront-backend/internal/dto"
	"github.com/jstyp/storefront-backend/internal/middleware"
	"github.com/jstyp/storefront-backend/internal/services"
	"github.com/jstyp/storefront-backend/internal/validation"
)

var validate = validation.NewValidator()

type errorMapping struct {
	err     error
	status  int
	message string
}

// errorMappings is checked in order; the first match wins.
var errorMappings = []errorMapping{
	{services.ErrAppNotFound, fiber.StatusNotFound, "App not found"},
	{services.ErrInvalidRating, fiber.StatusBadRequest, "appId, clientId and a valid rating are required"},
	{services.ErrNotPurchased, fiber.StatusForbidden, "You can only rate apps you have purchased"},
	{services.ErrClientNotFound, fiber.StatusNotFound, "Client not found"},
	{services.ErrRequestNotFound, fiber.StatusNotFound, "Request not found"},
	{services.ErrInvalidStatus, fiber.StatusBadRequest, "Invalid status"},
	{services.ErrReasonRequired, fiber.StatusBadRequest, "A reason is required to deny a request"},
	{services.ErrAlreadyResolved, fiber.StatusConflict, "Request has already been resolved"},
	{services.ErrPinNotFound, fiber.StatusNotFound, "Invalid PIN code. Please try again."},
	{services.ErrPinWrongApp, fiber.StatusBadRequest, "This PIN is not valid for this app."},
	{services.ErrPinAlreadyRedeemed, fiber.StatusBadRequest, "This PIN has already been used."},
	{services.ErrLoginRequired, fiber.StatusUnauthorized, "Please log in to redeem your PIN."},
	{services.ErrEmailTaken, fiber.StatusConflict, "An account with this email already exists."},
	{services.ErrInvalidToken, fiber.StatusUnauthorized, "Invalid or expired refresh token"},
	{services.ErrTeamMemberNotFound, fiber.StatusNotFound, "Team member not found"},
	{services.ErrTeamEmailTaken, fiber.StatusConflict, "A team member with this email already exists"},
	{services.ErrTeamPinTaken, fiber.StatusConflict, "This PIN is already assigned"},
	{services.ErrWebsiteNotFound, fiber.StatusNotFound, "Website details not found"},
	{services.ErrVideoNotFound, fiber.StatusNotFound, "Video not found"},
	{services.ErrPromptRequired, fiber.StatusBadRequest, "Prompt is required"},
	{services.ErrInvalidAITask, fiber.StatusBadRequest, "Invalid AI task specified"},
	{services.ErrImageGenFailed, fiber.StatusBadGateway, "AI failed to generate an image from the provided prompt."},
	{services.ErrAIUnavailable, fiber.StatusBadGateway, "The AI service is unavailable. Please try again later."},
}

func errorJSON(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(dto.ErrorResponse{Error: true, Message: message})
}

// respondError maps service errors to a status and message. Anything
// unrecognised is logged and answered with fallback as a 500.
func respondError(c *fiber.Ctx, err error, fallback string) error {
	var inputErr *services.InputError
	if errors.As(err, &inputErr) {
		return errorJSON(c, fiber.StatusBadRequest, inputErr.Message)
	}
	for _, m := range errorMappings {
		if errors.Is(err, m.err) {
			return errorJSON(c, m.status, m.message)
		}
	}
	slog.Error(fallback, "method", c.Method(), "path", c.Path(), "error", err)
	return errorJSON(c, fiber.StatusInternalServerError, fallback)
}

// bindBody decodes the JSON body into out and validates it. A non-empty
// result is the message for a 400 response.
func bindBody(c *fiber.Ctx, out interface{}) string {
	if err := c.BodyParser(out); err != nil {
		return "Invalid request body"
	}
	if err := validate.ValidateStruct(out); err != nil {
		return validation.FirstMessage(err)
	}
	return ""
}

func paramID(c *fiber.Ctx, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Params(name))
	return id, err == nil
}

func sessionOf(c *fiber.Ctx) *middleware.Session {
	if s, ok := c.Locals("session").(*middleware.Session); ok {
		return s
	}
	s, err := middleware.GetSession(c)
	if err != nil {
		return nil
	}
	return s
}
