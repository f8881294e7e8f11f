package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func getUserID(c *fiber.Ctx) (uuid.UUID, error) {
	return localUUID(c, "userID")
}

func getTenantID(c *fiber.Ctx) (uuid.UUID, error) {
	return localUUID(c, "tenantID")
}

func localUUID(c *fiber.Ctx, key string) (uuid.UUID, error) {
	value, ok := c.Locals(key).(string)
	if !ok {
		return uuid.Nil, fiber.ErrUnauthorized
	}

	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, err
	}

	return id, nil
}

// caller resolves the tenant and user of an authenticated request.
func caller(c *fiber.Ctx) (tenantID, userID uuid.UUID, ok bool) {
	tenantID, err := getTenantID(c)
	if err != nil {
		return uuid.Nil, uuid.Nil, false
	}
	userID, err = getUserID(c)
	if err != nil {
		return uuid.Nil, uuid.Nil, false
	}
	return tenantID, userID, true
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"error": "Unauthorized",
	})
}
