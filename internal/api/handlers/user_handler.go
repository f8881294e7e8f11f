package handlers

import (
	"context"

	"agency-ledger/internal/dto"
	"agency-ledger/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type userLister interface {
	ListUsers(ctx context.Context, tenantID uuid.UUID) ([]dto.UserSummaryResponse, error)
}

type UserHandler struct {
	users  userLister
	logger *zap.Logger
}

func NewUserHandler(authService *service.AuthService, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		users:  authService,
		logger: logger,
	}
}

// ListUsers godoc
// @Summary List tenant members
// @Description Members that can be assigned to rules and staged rows
// @Tags users
// @Produce json
// @Security Bearer
// @Success 200 {array} dto.UserSummaryResponse
// @Router /api/v1/users [get]
func (h *UserHandler) ListUsers(c *fiber.Ctx) error {
	tenantID, err := getTenantID(c)
	if err != nil {
		return unauthorized(c)
	}

	users, err := h.users.ListUsers(c.Context(), tenantID)
	if err != nil {
		h.logger.Error("Failed to list users", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list users",
		})
	}

	return c.JSON(users)
}
