package handlers

import (
	"context"
	"errors"
	"time"

	"agency-ledger/internal/dto"
	"agency-ledger/internal/models"
	"agency-ledger/internal/repository"
	"agency-ledger/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ledgerService interface {
	BulkTransactions(ctx context.Context, tenantID, userID uuid.UUID, rows []models.StagedTransaction) (int, error)
	BulkSales(ctx context.Context, tenantID, userID uuid.UUID, sales []dto.PayPaySaleRequest) (int, error)
	ListTransactions(ctx context.Context, f repository.TransactionFilter) ([]dto.TransactionResponse, error)
	Summary(ctx context.Context, tenantID uuid.UUID) (*dto.TransactionSummaryResponse, error)
	ListSales(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]dto.PayPaySaleResponse, error)
	ListBatches(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]dto.ImportBatchResponse, error)
}

// LedgerHandler serves the persisted side of imports: bulk inserts and the
// listings refreshed after a commit.
type LedgerHandler struct {
	ledgerService ledgerService
	logger        *zap.Logger
}

func NewLedgerHandler(ledgerService *service.LedgerService, logger *zap.Logger) *LedgerHandler {
	return &LedgerHandler{
		ledgerService: ledgerService,
		logger:        logger,
	}
}

// BulkTransactions godoc
// @Summary Insert bank transactions in one batch
// @Description All rows are inserted in a single transaction, or none are
// @Tags transactions
// @Accept json
// @Produce json
// @Param request body dto.BulkTransactionsRequest true "Transactions"
// @Security Bearer
// @Success 201 {object} dto.BulkResponse
// @Failure 400 {object} map[string]string
// @Router /api/v1/transactions/bulk [post]
func (h *LedgerHandler) BulkTransactions(c *fiber.Ctx) error {
	tenantID, userID, ok := caller(c)
	if !ok {
		return unauthorized(c)
	}

	var req dto.BulkTransactionsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if len(req.Transactions) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "transactions must be a non-empty array",
		})
	}

	inserted, err := h.ledgerService.BulkTransactions(c.Context(), tenantID, userID, req.Transactions)
	if err != nil {
		return h.bulkError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(dto.BulkResponse{Success: true, Inserted: inserted})
}

// BulkSales godoc
// @Summary Insert PayPay sales in one batch
// @Tags paypay
// @Accept json
// @Produce json
// @Param request body dto.BulkPayPayRequest true "Sales"
// @Security Bearer
// @Success 201 {object} dto.BulkResponse
// @Failure 400 {object} map[string]string
// @Router /api/v1/paypay/sales/bulk [post]
func (h *LedgerHandler) BulkSales(c *fiber.Ctx) error {
	tenantID, userID, ok := caller(c)
	if !ok {
		return unauthorized(c)
	}

	var req dto.BulkPayPayRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if len(req.Sales) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "sales must be a non-empty array",
		})
	}

	inserted, err := h.ledgerService.BulkSales(c.Context(), tenantID, userID, req.Sales)
	if err != nil {
		return h.bulkError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(dto.BulkResponse{Success: true, Inserted: inserted})
}

// ListTransactions godoc
// @Summary List ledger transactions
// @Tags transactions
// @Produce json
// @Param start_date query string false "YYYY-MM-DD"
// @Param end_date query string false "YYYY-MM-DD"
// @Param limit query int false "Limit" default(100)
// @Param offset query int false "Offset" default(0)
// @Security Bearer
// @Success 200 {array} dto.TransactionResponse
// @Failure 400 {object} map[string]string
// @Router /api/v1/transactions [get]
func (h *LedgerHandler) ListTransactions(c *fiber.Ctx) error {
	tenantID, err := getTenantID(c)
	if err != nil {
		return unauthorized(c)
	}

	filter := repository.TransactionFilter{
		TenantID: tenantID,
		Limit:    c.QueryInt("limit", 100),
		Offset:   c.QueryInt("offset", 0),
	}
	for _, p := range []struct {
		key string
		dst **time.Time
	}{
		{"start_date", &filter.StartDate},
		{"end_date", &filter.EndDate},
	} {
		value := c.Query(p.key)
		if value == "" {
			continue
		}
		date, err := time.Parse("2006-01-02", value)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid " + p.key + ", expected YYYY-MM-DD",
			})
		}
		*p.dst = &date
	}

	txs, err := h.ledgerService.ListTransactions(c.Context(), filter)
	if err != nil {
		h.logger.Error("Failed to list transactions", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list transactions",
		})
	}

	return c.JSON(txs)
}

// Summary godoc
// @Summary Ledger totals
// @Tags transactions
// @Produce json
// @Security Bearer
// @Success 200 {object} dto.TransactionSummaryResponse
// @Router /api/v1/transactions/summary [get]
func (h *LedgerHandler) Summary(c *fiber.Ctx) error {
	tenantID, err := getTenantID(c)
	if err != nil {
		return unauthorized(c)
	}

	summary, err := h.ledgerService.Summary(c.Context(), tenantID)
	if err != nil {
		h.logger.Error("Failed to load summary", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load summary",
		})
	}

	return c.JSON(summary)
}

// ListSales godoc
// @Summary List PayPay sales
// @Tags paypay
// @Produce json
// @Param limit query int false "Limit" default(100)
// @Param offset query int false "Offset" default(0)
// @Security Bearer
// @Success 200 {array} dto.PayPaySaleResponse
// @Router /api/v1/paypay/sales [get]
func (h *LedgerHandler) ListSales(c *fiber.Ctx) error {
	tenantID, err := getTenantID(c)
	if err != nil {
		return unauthorized(c)
	}

	sales, err := h.ledgerService.ListSales(c.Context(), tenantID, c.QueryInt("limit", 100), c.QueryInt("offset", 0))
	if err != nil {
		h.logger.Error("Failed to list sales", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list sales",
		})
	}

	return c.JSON(sales)
}

// ListBatches godoc
// @Summary List committed imports
// @Tags imports
// @Produce json
// @Param limit query int false "Limit" default(20)
// @Param offset query int false "Offset" default(0)
// @Security Bearer
// @Success 200 {array} dto.ImportBatchResponse
// @Router /api/v1/imports/history [get]
func (h *LedgerHandler) ListBatches(c *fiber.Ctx) error {
	tenantID, err := getTenantID(c)
	if err != nil {
		return unauthorized(c)
	}

	batches, err := h.ledgerService.ListBatches(c.Context(), tenantID, c.QueryInt("limit", 20), c.QueryInt("offset", 0))
	if err != nil {
		h.logger.Error("Failed to list import batches", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list import batches",
		})
	}

	return c.JSON(batches)
}

func (h *LedgerHandler) bulkError(c *fiber.Ctx, err error) error {
	if errors.Is(err, service.ErrInvalidBatch) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	h.logger.Error("Bulk insert failed", zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(dto.BulkResponse{
		Success: false,
		Message: "Failed to save: " + err.Error(),
	})
}
