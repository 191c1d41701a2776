package helper

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// GetUserIDFromToken reads c.Locals("user_id") set by the auth middleware.
// 401 when not logged in, 400 when the id is not a positive integer.
func GetUserIDFromToken(c *fiber.Ctx) (int64, error) {
	v := c.Locals("user_id")
	if v == nil {
		return 0, fiber.NewError(fiber.StatusUnauthorized, "User not logged in")
	}

	switch t := v.(type) {
	case int64:
		if t <= 0 {
			return 0, fiber.NewError(fiber.StatusBadRequest, "Invalid user id in token")
		}
		return t, nil
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return 0, fiber.NewError(fiber.StatusUnauthorized, "User not logged in")
		}
		id, err := strconv.ParseInt(s, 10, 64)
		if err != nil || id <= 0 {
			return 0, fiber.NewError(fiber.StatusBadRequest, "Invalid user id in token")
		}
		return id, nil
	default:
		return 0, fiber.NewError(fiber.StatusBadRequest, "Invalid user id in token")
	}
}
