package handlers

import (
	"context"
	"errors"

	"agency-ledger/internal/dto"
	"agency-ledger/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ruleService interface {
	List(ctx context.Context, tenantID uuid.UUID, activeOnly bool) ([]dto.RuleResponse, error)
	Create(ctx context.Context, tenantID uuid.UUID, req *dto.RuleRequest) (*dto.RuleResponse, error)
	Update(ctx context.Context, tenantID, id uuid.UUID, req *dto.RuleRequest) (*dto.RuleResponse, error)
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}

type RuleHandler struct {
	ruleService ruleService
	logger      *zap.Logger
}

func NewRuleHandler(ruleService *service.RuleService, logger *zap.Logger) *RuleHandler {
	return &RuleHandler{
		ruleService: ruleService,
		logger:      logger,
	}
}

// ListRules godoc
// @Summary List auto-match rules
// @Description Rules ordered by priority (highest first), then keyword
// @Tags auto-match-rules
// @Produce json
// @Param active query bool false "Only active rules"
// @Security Bearer
// @Success 200 {array} dto.RuleResponse
// @Router /api/v1/auto-match-rules [get]
func (h *RuleHandler) ListRules(c *fiber.Ctx) error {
	tenantID, err := getTenantID(c)
	if err != nil {
		return unauthorized(c)
	}

	rules, err := h.ruleService.List(c.Context(), tenantID, c.QueryBool("active", false))
	if err != nil {
		h.logger.Error("Failed to list rules", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list rules",
		})
	}

	return c.JSON(rules)
}

// CreateRule godoc
// @Summary Create an auto-match rule
// @Tags auto-match-rules
// @Accept json
// @Produce json
// @Param request body dto.RuleRequest true "Rule"
// @Security Bearer
// @Success 201 {object} dto.RuleResponse
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /api/v1/auto-match-rules [post]
func (h *RuleHandler) CreateRule(c *fiber.Ctx) error {
	tenantID, err := getTenantID(c)
	if err != nil {
		return unauthorized(c)
	}

	var req dto.RuleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	rule, err := h.ruleService.Create(c.Context(), tenantID, &req)
	if err != nil {
		return h.ruleError(c, err, "Failed to create rule")
	}

	return c.Status(fiber.StatusCreated).JSON(rule)
}

// UpdateRule godoc
// @Summary Replace an auto-match rule
// @Tags auto-match-rules
// @Accept json
// @Produce json
// @Param id path string true "Rule ID"
// @Param request body dto.RuleRequest true "Rule"
// @Security Bearer
// @Success 200 {object} dto.RuleResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /api/v1/auto-match-rules/{id} [put]
func (h *RuleHandler) UpdateRule(c *fiber.Ctx) error {
	tenantID, err := getTenantID(c)
	if err != nil {
		return unauthorized(c)
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid rule ID",
		})
	}

	var req dto.RuleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	rule, err := h.ruleService.Update(c.Context(), tenantID, id, &req)
	if err != nil {
		return h.ruleError(c, err, "Failed to update rule")
	}

	return c.JSON(rule)
}

// DeleteRule godoc
// @Summary Delete an auto-match rule
// @Tags auto-match-rules
// @Param id path string true "Rule ID"
// @Security Bearer
// @Success 204
// @Failure 404 {object} map[string]string
// @Router /api/v1/auto-match-rules/{id} [delete]
func (h *RuleHandler) DeleteRule(c *fiber.Ctx) error {
	tenantID, err := getTenantID(c)
	if err != nil {
		return unauthorized(c)
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid rule ID",
		})
	}

	if err := h.ruleService.Delete(c.Context(), tenantID, id); err != nil {
		return h.ruleError(c, err, "Failed to delete rule")
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *RuleHandler) ruleError(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case errors.Is(err, service.ErrInvalidRule):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, service.ErrDuplicateKeyword):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, service.ErrRuleNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}

	h.logger.Error(fallback, zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": fallback,
	})
}
