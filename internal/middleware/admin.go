package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jstyp/storefront-backend/internal/dto"
)

const (
	RoleClient = "client"
	RoleTeam   = "team"
	RoleMaster = "master"
)

// RequireRoles admits only sessions whose role is in roles. It must run
// after JWTProtected.
func RequireRoles(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		session, err := GetSession(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized",
			})
		}
		if contains(roles, session.Role) {
			c.Locals("session", session)
			return c.Next()
		}
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error: true, Message: forbiddenMessage(roles),
		})
	}
}

// AdminRequired admits team members and the master account.
func AdminRequired() fiber.Handler {
	return RequireRoles(RoleTeam, RoleMaster)
}

func MasterRequired() fiber.Handler {
	return RequireRoles(RoleMaster)
}

func ClientRequired() fiber.Handler {
	return RequireRoles(RoleClient)
}

func forbiddenMessage(roles []string) string {
	switch {
	case len(roles) == 1 && roles[0] == RoleMaster:
		return "Master access required"
	case contains(roles, RoleTeam):
		return "Admin access required"
	default:
		return "Forbidden"
	}
}

func contains(list []string, val string) bool {
	for _, item := range list {
		if item == val {
			return true
		}
	}
	return false
}
