package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"agency-ledger/internal/commit"
	"agency-ledger/internal/csvimport"
	"agency-ledger/internal/dto"
	"agency-ledger/internal/models"
	"agency-ledger/internal/repository"
	"agency-ledger/pkg/postgres"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

var ErrInvalidBatch = errors.New("invalid batch")

const noItemName = "(no description)"

type transactionStore interface {
	CreateBatch(ctx context.Context, q repository.DBTX, transactions []*models.Transaction) error
	List(ctx context.Context, f repository.TransactionFilter) ([]*models.Transaction, error)
	Summary(ctx context.Context, tenantID uuid.UUID) (*models.TransactionSummary, error)
}

type salesStore interface {
	CreateBatch(ctx context.Context, q repository.DBTX, sales []*models.PayPaySale) error
	List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.PayPaySale, error)
}

type batchStore interface {
	Create(ctx context.Context, q repository.DBTX, batch *models.ImportBatch) error
	ListByTenant(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.ImportBatch, error)
}

// LedgerService is the persistence side of an import: it writes confirmed
// batches and serves the ledger back for listings and totals.
type LedgerService struct {
	txRepo    transactionStore
	salesRepo salesStore
	batchRepo batchStore
	members   MemberCounter
	inTx      func(ctx context.Context, fn func(q repository.DBTX) error) error
	now       func() time.Time
	logger    *zap.Logger
}

func NewLedgerService(
	db *pgxpool.Pool,
	txRepo *repository.TransactionRepository,
	salesRepo *repository.PayPaySaleRepository,
	batchRepo *repository.ImportBatchRepository,
	userRepo *repository.UserRepository,
	logger *zap.Logger,
) *LedgerService {
	return &LedgerService{
		txRepo:    txRepo,
		salesRepo: salesRepo,
		batchRepo: batchRepo,
		members:   userRepo,
		inTx: func(ctx context.Context, fn func(q repository.DBTX) error) error {
			return postgres.WithTx(ctx, db, func(tx pgx.Tx) error { return fn(tx) })
		},
		now:    time.Now,
		logger: logger,
	}
}

// Commit writes the batch and its audit row in one transaction.
func (s *LedgerService) Commit(ctx context.Context, batch commit.Batch) (int, error) {
	if len(batch.Rows) == 0 {
		return 0, fmt.Errorf("%w: no rows", ErrInvalidBatch)
	}

	now := s.now()
	audit := &models.ImportBatch{
		ID:        uuid.New(),
		TenantID:  batch.TenantID,
		Format:    string(batch.Format),
		FileName:  batch.FileName,
		RowCount:  len(batch.Rows),
		SkipCount: batch.Skipped,
		CreatedAt: now,
	}
	if batch.UserID != uuid.Nil {
		userID := batch.UserID
		audit.UserID = &userID
	}

	var write func(q repository.DBTX) error
	switch batch.Format {
	case csvimport.FormatBank:
		txs, err := toTransactions(batch.Rows, batch.TenantID, audit.ID, now)
		if err != nil {
			return 0, err
		}
		if err := s.checkAssignees(ctx, batch.TenantID, txs); err != nil {
			return 0, err
		}
		write = func(q repository.DBTX) error { return s.txRepo.CreateBatch(ctx, q, txs) }
	case csvimport.FormatPayPay:
		sales, err := toSales(batch.Rows, batch.TenantID, audit.ID, now)
		if err != nil {
			return 0, err
		}
		write = func(q repository.DBTX) error { return s.salesRepo.CreateBatch(ctx, q, sales) }
	default:
		return 0, fmt.Errorf("%w: unsupported format %q", ErrInvalidBatch, batch.Format)
	}

	err := s.inTx(ctx, func(q repository.DBTX) error {
		if err := s.batchRepo.Create(ctx, q, audit); err != nil {
			return fmt.Errorf("failed to record import batch: %w", err)
		}
		return write(q)
	})
	if err != nil {
		s.logger.Error("Batch commit failed",
			zap.String("tenant_id", batch.TenantID.String()),
			zap.String("format", string(batch.Format)),
			zap.Int("rows", len(batch.Rows)),
			zap.Error(err),
		)
		return 0, err
	}

	s.logger.Info("Batch committed",
		zap.String("tenant_id", batch.TenantID.String()),
		zap.String("batch_id", audit.ID.String()),
		zap.String("format", string(batch.Format)),
		zap.Int("rows", len(batch.Rows)),
		zap.Int("skipped", batch.Skipped),
	)
	return len(batch.Rows), nil
}

func (s *LedgerService) checkAssignees(ctx context.Context, tenantID uuid.UUID, txs []*models.Transaction) error {
	var ids []uuid.UUID
	for _, tx := range txs {
		if tx.AssignedUserID != nil {
			ids = append(ids, *tx.AssignedUserID)
		}
	}
	err := checkAssignees(ctx, s.members, tenantID, ids)
	if errors.Is(err, ErrUnknownAssignee) {
		return fmt.Errorf("%w: %w", ErrInvalidBatch, err)
	}
	return err
}

// BulkSales persists payment-processor sales posted over the API.
func (s *LedgerService) BulkSales(ctx context.Context, tenantID, userID uuid.UUID, sales []dto.PayPaySaleRequest) (int, error) {
	rows := make([]models.StagedTransaction, len(sales))
	for i, sale := range sales {
		rows[i] = models.StagedTransaction{
			TransactionDate: sale.Date,
			Category:        models.Category(sale.Category),
			UserIdentifier:  sale.UserID,
			ItemName:        sale.Name,
			ReceiptNumber:   sale.ReceiptNumber,
			Amount:          sale.Amount,
			Memo:            sale.Memo,
		}
	}
	return s.Commit(ctx, commit.Batch{TenantID: tenantID, UserID: userID, Format: csvimport.FormatPayPay, Rows: rows})
}

// BulkTransactions persists bank transactions posted over the API.
func (s *LedgerService) BulkTransactions(ctx context.Context, tenantID, userID uuid.UUID, rows []models.StagedTransaction) (int, error) {
	return s.Commit(ctx, commit.Batch{TenantID: tenantID, UserID: userID, Format: csvimport.FormatBank, Rows: rows})
}

func (s *LedgerService) ListTransactions(ctx context.Context, f repository.TransactionFilter) ([]dto.TransactionResponse, error) {
	txs, err := s.txRepo.List(ctx, f)
	if err != nil {
		return nil, err
	}

	out := make([]dto.TransactionResponse, 0, len(txs))
	for _, tx := range txs {
		resp := dto.TransactionResponse{
			ID:              tx.ID.String(),
			TransactionDate: tx.TransactionDate.Format("2006-01-02"),
			TransactionTime: tx.TransactionTime,
			TransactionType: string(tx.TransactionType),
			Category:        string(tx.Category),
			PaymentMethod:   string(tx.PaymentMethod),
			ItemName:        tx.ItemName,
			Amount:          tx.Amount.StringFixed(2),
			Memo:            tx.Memo,
			CreatedAt:       tx.CreatedAt.Format(time.RFC3339),
		}
		if tx.AssignedUserID != nil {
			id := tx.AssignedUserID.String()
			resp.AssignedUserID = &id
		}
		out = append(out, resp)
	}
	return out, nil
}

func (s *LedgerService) Summary(ctx context.Context, tenantID uuid.UUID) (*dto.TransactionSummaryResponse, error) {
	sum, err := s.txRepo.Summary(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	return &dto.TransactionSummaryResponse{
		Count:           sum.Count,
		DepositTotal:    sum.DepositTotal.StringFixed(2),
		WithdrawalTotal: sum.WithdrawalTotal.StringFixed(2),
		Net:             sum.DepositTotal.Sub(sum.WithdrawalTotal).StringFixed(2),
	}, nil
}

func (s *LedgerService) ListSales(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]dto.PayPaySaleResponse, error) {
	sales, err := s.salesRepo.List(ctx, tenantID, limit, offset)
	if err != nil {
		return nil, err
	}

	out := make([]dto.PayPaySaleResponse, 0, len(sales))
	for _, sale := range sales {
		out = append(out, dto.PayPaySaleResponse{
			ID:            sale.ID.String(),
			Date:          sale.SaleDate,
			Category:      sale.Category,
			UserID:        sale.UserID,
			Name:          sale.Name,
			ReceiptNumber: sale.ReceiptNumber,
			Amount:        sale.Amount.StringFixed(2),
			Memo:          sale.Memo,
			CreatedAt:     sale.CreatedAt.Format(time.RFC3339),
		})
	}
	return out, nil
}

// ListBatches returns the tenant's import history, newest first.
func (s *LedgerService) ListBatches(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]dto.ImportBatchResponse, error) {
	batches, err := s.batchRepo.ListByTenant(ctx, tenantID, limit, offset)
	if err != nil {
		return nil, err
	}

	out := make([]dto.ImportBatchResponse, 0, len(batches))
	for _, b := range batches {
		resp := dto.ImportBatchResponse{
			ID:        b.ID.String(),
			Format:    b.Format,
			FileName:  b.FileName,
			RowCount:  b.RowCount,
			SkipCount: b.SkipCount,
			CreatedAt: b.CreatedAt.Format(time.RFC3339),
		}
		if b.UserID != nil {
			id := b.UserID.String()
			resp.UserID = &id
		}
		out = append(out, resp)
	}
	return out, nil
}

func toTransactions(rows []models.StagedTransaction, tenantID, batchID uuid.UUID, now time.Time) ([]*models.Transaction, error) {
	txs := make([]*models.Transaction, len(rows))
	for i, row := range rows {
		date, err := time.Parse("2006-01-02", strings.TrimSpace(row.TransactionDate))
		if err != nil {
			return nil, fmt.Errorf("%w: transaction %d: invalid date %q", ErrInvalidBatch, i, row.TransactionDate)
		}
		if !row.TransactionType.Valid() {
			return nil, fmt.Errorf("%w: transaction %d: invalid type %q", ErrInvalidBatch, i, row.TransactionType)
		}
		if !row.Amount.IsPositive() {
			return nil, fmt.Errorf("%w: transaction %d: amount must be positive", ErrInvalidBatch, i)
		}

		method := models.NormalizePaymentMethod(row.PaymentMethod)
		if !method.Valid() {
			return nil, fmt.Errorf("%w: transaction %d: unknown payment method %q", ErrInvalidBatch, i, row.PaymentMethod)
		}
		category := row.Category
		if category == "" {
			category = models.CategoryUnspecified
		}
		if !category.Known() {
			return nil, fmt.Errorf("%w: transaction %d: unknown category %q", ErrInvalidBatch, i, row.Category)
		}
		itemName := strings.TrimSpace(row.ItemName)
		if itemName == "" {
			itemName = noItemName
		}

		batch := batchID
		txs[i] = &models.Transaction{
			ID:              uuid.New(),
			TenantID:        tenantID,
			BatchID:         &batch,
			TransactionDate: date,
			TransactionTime: row.TransactionTime,
			TransactionType: row.TransactionType,
			Category:        category,
			PaymentMethod:   method,
			ItemName:        itemName,
			Amount:          row.Amount,
			Memo:            row.Memo,
			AssignedUserID:  row.AssignedUserID,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
	}
	return txs, nil
}

func toSales(rows []models.StagedTransaction, tenantID, batchID uuid.UUID, now time.Time) ([]*models.PayPaySale, error) {
	sales := make([]*models.PayPaySale, len(rows))
	for i, row := range rows {
		if strings.TrimSpace(row.TransactionDate) == "" {
			return nil, fmt.Errorf("%w: sale %d: date is required", ErrInvalidBatch, i)
		}
		if row.Amount.IsNegative() {
			return nil, fmt.Errorf("%w: sale %d: amount must not be negative", ErrInvalidBatch, i)
		}

		batch := batchID
		sales[i] = &models.PayPaySale{
			ID:            uuid.New(),
			TenantID:      tenantID,
			BatchID:       &batch,
			SaleDate:      strings.TrimSpace(row.TransactionDate),
			Category:      string(row.Category),
			UserID:        row.UserIdentifier,
			Name:          row.ItemName,
			ReceiptNumber: row.ReceiptNumber,
			Amount:        row.Amount,
			Memo:          row.Memo,
			CreatedAt:     now,
		}
	}
	return sales, nil
}
