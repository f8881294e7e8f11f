package handlers

import (
	"context"
	"errors"
	"io"
	"time"

	"agency-ledger/internal/commit"
	"agency-ledger/internal/csvimport"
	"agency-ledger/internal/dto"
	"agency-ledger/internal/models"
	"agency-ledger/internal/preview"
	"agency-ledger/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type importService interface {
	Stage(ctx context.Context, req service.StageRequest) (*preview.Page, error)
	Preview(tenantID, sessionID uuid.UUID, offset, limit int) (*preview.Page, error)
	EditRow(ctx context.Context, tenantID, sessionID uuid.UUID, index int, patch preview.RowPatch) (models.StagedTransaction, error)
	Confirm(ctx context.Context, tenantID, sessionID uuid.UUID) (int, *dto.TransactionSummaryResponse, error)
	Cancel(tenantID, sessionID uuid.UUID) error
	PageSize() int
}

type ImportHandler struct {
	importService importService
	logger        *zap.Logger
}

func NewImportHandler(importService *service.ImportService, logger *zap.Logger) *ImportHandler {
	return &ImportHandler{
		importService: importService,
		logger:        logger,
	}
}

// Upload godoc
// @Summary Stage a CSV export for review
// @Description Parse a bank or PayPay CSV export, apply auto-match rules and open a preview session
// @Tags imports
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "CSV file"
// @Param format formData string true "Source format: bank or paypay"
// @Param encoding formData string false "auto, utf-8, shift_jis or euc-jp"
// @Security Bearer
// @Success 201 {object} dto.ImportPreviewResponse
// @Failure 400 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /api/v1/imports [post]
func (h *ImportHandler) Upload(c *fiber.Ctx) error {
	tenantID, userID, ok := caller(c)
	if !ok {
		return unauthorized(c)
	}

	file, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "File is required",
		})
	}

	format := c.FormValue("format")
	if format == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Format is required",
		})
	}

	src, err := file.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Failed to open file",
		})
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Failed to read file",
		})
	}

	page, err := h.importService.Stage(c.Context(), service.StageRequest{
		TenantID: tenantID,
		UserID:   userID,
		FileName: file.Filename,
		Format:   format,
		Encoding: c.FormValue("encoding"),
		Data:     data,
	})
	if err != nil {
		return h.importError(c, err, "Failed to stage import")
	}

	return c.Status(fiber.StatusCreated).JSON(newPreviewResponse(page, h.importService.PageSize()))
}

// Preview godoc
// @Summary Page through a staged import
// @Tags imports
// @Produce json
// @Param id path string true "Session ID"
// @Param offset query int false "Offset" default(0)
// @Param limit query int false "Limit"
// @Security Bearer
// @Success 200 {object} dto.ImportPreviewResponse
// @Failure 404 {object} map[string]string
// @Router /api/v1/imports/{id} [get]
func (h *ImportHandler) Preview(c *fiber.Ctx) error {
	tenantID, _, ok := caller(c)
	if !ok {
		return unauthorized(c)
	}

	sessionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid session ID",
		})
	}

	limit := c.QueryInt("limit", h.importService.PageSize())
	page, err := h.importService.Preview(tenantID, sessionID, c.QueryInt("offset", 0), limit)
	if err != nil {
		return h.importError(c, err, "Failed to load import")
	}

	return c.JSON(newPreviewResponse(page, limit))
}

// EditRow godoc
// @Summary Edit one staged row
// @Description Partial update of a staged row; only provided fields change
// @Tags imports
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param index path int true "Row index"
// @Param request body dto.EditRowRequest true "Fields to change"
// @Security Bearer
// @Success 200 {object} dto.PreviewRow
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/v1/imports/{id}/rows/{index} [patch]
func (h *ImportHandler) EditRow(c *fiber.Ctx) error {
	tenantID, _, ok := caller(c)
	if !ok {
		return unauthorized(c)
	}

	sessionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid session ID",
		})
	}

	index, err := c.ParamsInt("index")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid row index",
		})
	}

	var req dto.EditRowRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	patch, err := toRowPatch(req)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	row, err := h.importService.EditRow(c.Context(), tenantID, sessionID, index, patch)
	if err != nil {
		return h.importError(c, err, "Failed to edit row")
	}

	return c.JSON(dto.PreviewRow{Index: index, StagedTransaction: row})
}

// Confirm godoc
// @Summary Commit a staged import
// @Description Submit every staged row as one atomic batch. On failure the session is kept for retry.
// @Tags imports
// @Produce json
// @Param id path string true "Session ID"
// @Security Bearer
// @Success 200 {object} dto.ConfirmImportResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 502 {object} map[string]string
// @Router /api/v1/imports/{id}/confirm [post]
func (h *ImportHandler) Confirm(c *fiber.Ctx) error {
	tenantID, _, ok := caller(c)
	if !ok {
		return unauthorized(c)
	}

	sessionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid session ID",
		})
	}

	inserted, summary, err := h.importService.Confirm(c.Context(), tenantID, sessionID)
	if err != nil {
		return h.importError(c, err, "Failed to commit import")
	}

	return c.JSON(dto.ConfirmImportResponse{
		Success:  true,
		Inserted: inserted,
		Summary:  summary,
	})
}

// Cancel godoc
// @Summary Discard a staged import
// @Tags imports
// @Param id path string true "Session ID"
// @Security Bearer
// @Success 204
// @Failure 404 {object} map[string]string
// @Router /api/v1/imports/{id} [delete]
func (h *ImportHandler) Cancel(c *fiber.Ctx) error {
	tenantID, _, ok := caller(c)
	if !ok {
		return unauthorized(c)
	}

	sessionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid session ID",
		})
	}

	if err := h.importService.Cancel(tenantID, sessionID); err != nil {
		return h.importError(c, err, "Failed to cancel import")
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *ImportHandler) importError(c *fiber.Ctx, err error, fallback string) error {
	var remote *commit.RemoteError
	switch {
	case errors.Is(err, preview.ErrSessionNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Import session not found"})
	case errors.Is(err, preview.ErrSessionClosed):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, preview.ErrRowOutOfRange):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, preview.ErrNothingToCommit),
		errors.Is(err, preview.ErrInvalidEdit),
		errors.Is(err, service.ErrEmptyFile),
		errors.Is(err, service.ErrUnknownFormat),
		errors.Is(err, service.ErrUnknownEncoding),
		errors.Is(err, service.ErrInvalidBatch):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, csvimport.ErrUnreadableFile):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
	case errors.As(err, &remote):
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": remote.Message})
	}

	h.logger.Error(fallback, zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": fallback + ": " + err.Error(),
	})
}

func newPreviewResponse(page *preview.Page, limit int) dto.ImportPreviewResponse {
	resp := dto.ImportPreviewResponse{
		SessionID:        page.ID.String(),
		Format:           string(page.Format),
		FileName:         page.FileName,
		State:            string(page.State),
		Total:            page.Total,
		Skipped:          len(page.Skipped),
		SkippedRows:      make([]dto.SkippedRowResponse, 0, len(page.Skipped)),
		RulesApplied:     page.Matched,
		RulesUnavailable: page.RulesUnavailable,
		Offset:           page.Offset,
		Limit:            limit,
		Rows:             make([]dto.PreviewRow, 0, len(page.Rows)),
		CreatedAt:        page.CreatedAt.Format(time.RFC3339),
	}
	for _, s := range page.Skipped {
		resp.SkippedRows = append(resp.SkippedRows, dto.SkippedRowResponse{Line: s.Line, Reason: s.Reason})
	}
	for i, row := range page.Rows {
		resp.Rows = append(resp.Rows, dto.PreviewRow{Index: page.Offset + i, StagedTransaction: row})
	}
	return resp
}

func toRowPatch(req dto.EditRowRequest) (preview.RowPatch, error) {
	patch := preview.RowPatch{
		TransactionDate: req.TransactionDate,
		Amount:          req.Amount,
		ClearAssignee:   req.ClearAssignee,
		ItemName:        req.ItemName,
		Memo:            req.Memo,
	}
	if req.TransactionType != nil {
		t := models.TransactionType(*req.TransactionType)
		patch.TransactionType = &t
	}
	if req.PaymentMethod != nil {
		p := models.PaymentMethod(*req.PaymentMethod)
		patch.PaymentMethod = &p
	}
	if req.Category != nil {
		cat := models.Category(*req.Category)
		patch.Category = &cat
	}
	if req.AssignedUserID != nil {
		if *req.AssignedUserID == "" {
			patch.ClearAssignee = true
		} else {
			id, err := uuid.Parse(*req.AssignedUserID)
			if err != nil {
				return preview.RowPatch{}, errors.New("invalid assignedUserId")
			}
			patch.AssignedUserID = &id
		}
	}
	return patch, nil
}
