package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Session is the identity carried by a verified access token.
type Session struct {
	ID    uuid.UUID
	Role  string
	Name  string
	Email string
}

// GetSession extracts the session from JWT claims in context.
func GetSession(c *fiber.Ctx) (*Session, error) {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok || token == nil {
		return nil, errors.New("invalid token in context")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid claims")
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return nil, errors.New("missing sub claim")
	}
	id, err := uuid.Parse(sub)
	if err != nil {
		return nil, err
	}

	role, _ := claims["role"].(string)
	name, _ := claims["name"].(string)
	email, _ := claims["email"].(string)
	return &Session{ID: id, Role: role, Name: name, Email: email}, nil
}

// GetUserID extracts the subject UUID from JWT claims in context.
func GetUserID(c *fiber.Ctx) (uuid.UUID, error) {
	s, err := GetSession(c)
	if err != nil {
		return uuid.Nil, err
	}
	return s.ID, nil
}
