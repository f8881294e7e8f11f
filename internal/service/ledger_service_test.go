package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"agency-ledger/internal/commit"
	"agency-ledger/internal/csvimport"
	"agency-ledger/internal/dto"
	"agency-ledger/internal/models"
	"agency-ledger/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var fixedNow = time.Date(2025, 11, 7, 9, 0, 0, 0, time.UTC)

func newLedgerService(txs *fakeTransactionStore, sales *fakeSalesStore, batches *fakeBatchStore) *LedgerService {
	return &LedgerService{
		txRepo:    txs,
		salesRepo: sales,
		batchRepo: batches,
		members:   anyMembers(),
		inTx: func(ctx context.Context, fn func(q repository.DBTX) error) error {
			return fn(nil)
		},
		now:    func() time.Time { return fixedNow },
		logger: zap.NewNop(),
	}
}

func bankRow(item string, amount int64) models.StagedTransaction {
	return models.StagedTransaction{
		TransactionDate: "2025-11-05",
		TransactionTime: "10:30:00",
		TransactionType: models.TransactionTypeWithdrawal,
		Amount:          decimal.NewFromInt(amount),
		PaymentMethod:   models.PaymentMethodBankTransfer,
		Category:        models.CategoryUnspecified,
		ItemName:        item,
	}
}

func TestLedgerCommitBank(t *testing.T) {
	tenantID, userID := uuid.New(), uuid.New()

	var (
		audit   *models.ImportBatch
		written []*models.Transaction
	)
	svc := newLedgerService(
		&fakeTransactionStore{CreateBatchFunc: func(ctx context.Context, q repository.DBTX, txs []*models.Transaction) error {
			written = txs
			return nil
		}},
		nil,
		&fakeBatchStore{CreateFunc: func(ctx context.Context, q repository.DBTX, b *models.ImportBatch) error {
			audit = b
			return nil
		}},
	)

	legacy := bankRow("cash deposit", 100)
	legacy.PaymentMethod = "Cash/Bank"
	legacy.Category = ""
	blank := bankRow("  ", 200)

	inserted, err := svc.Commit(context.Background(), commit.Batch{
		TenantID: tenantID,
		UserID:   userID,
		Format:   csvimport.FormatBank,
		FileName: "nov.csv",
		Skipped:  2,
		Rows:     []models.StagedTransaction{bankRow("rent", 80000), legacy, blank},
	})
	require.NoError(t, err)
	require.Equal(t, 3, inserted)

	require.Equal(t, tenantID, audit.TenantID)
	require.Equal(t, userID, *audit.UserID)
	require.Equal(t, "bank", audit.Format)
	require.Equal(t, "nov.csv", audit.FileName)
	require.Equal(t, 3, audit.RowCount)
	require.Equal(t, 2, audit.SkipCount)

	require.Len(t, written, 3)
	for _, tx := range written {
		require.Equal(t, audit.ID, *tx.BatchID)
		require.Equal(t, tenantID, tx.TenantID)
		require.Equal(t, time.Date(2025, 11, 5, 0, 0, 0, 0, time.UTC), tx.TransactionDate)
	}
	require.Equal(t, "rent", written[0].ItemName)
	require.Equal(t, models.PaymentMethodBankTransfer, written[1].PaymentMethod)
	require.Equal(t, models.CategoryUnspecified, written[1].Category)
	require.Equal(t, noItemName, written[2].ItemName)
}

func TestLedgerCommitRejectsInvalidRowsBeforeWriting(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *models.StagedTransaction)
	}{
		{name: "bad date", mutate: func(r *models.StagedTransaction) { r.TransactionDate = "2025/11/05" }},
		{name: "bad type", mutate: func(r *models.StagedTransaction) { r.TransactionType = "transfer" }},
		{name: "zero amount", mutate: func(r *models.StagedTransaction) { r.Amount = decimal.Zero }},
		{name: "unknown method", mutate: func(r *models.StagedTransaction) { r.PaymentMethod = "cheque" }},
		{name: "unknown category", mutate: func(r *models.StagedTransaction) { r.Category = "groceries" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			svc := newLedgerService(
				&fakeTransactionStore{CreateBatchFunc: func(ctx context.Context, q repository.DBTX, txs []*models.Transaction) error {
					calls++
					return nil
				}},
				nil,
				&fakeBatchStore{CreateFunc: func(ctx context.Context, q repository.DBTX, b *models.ImportBatch) error {
					calls++
					return nil
				}},
			)

			bad := bankRow("x", 10)
			tt.mutate(&bad)
			_, err := svc.Commit(context.Background(), commit.Batch{
				Format: csvimport.FormatBank,
				Rows:   []models.StagedTransaction{bankRow("ok", 1), bad},
			})
			require.ErrorIs(t, err, ErrInvalidBatch)
			require.Contains(t, err.Error(), "transaction 1")
			require.Zero(t, calls)
		})
	}
}

func TestLedgerBulkTransactionsRejectsForeignAssignee(t *testing.T) {
	tenantID := uuid.New()
	member, outsider := uuid.New(), uuid.New()

	calls := 0
	svc := newLedgerService(
		&fakeTransactionStore{CreateBatchFunc: func(ctx context.Context, q repository.DBTX, txs []*models.Transaction) error {
			calls++
			return nil
		}},
		nil,
		&fakeBatchStore{CreateFunc: func(ctx context.Context, q repository.DBTX, b *models.ImportBatch) error {
			calls++
			return nil
		}},
	)
	svc.members = tenantMembers(tenantID, member)

	owned, foreign := bankRow("salary", 200), bankRow("fee", 10)
	owned.AssignedUserID = &member
	foreign.AssignedUserID = &outsider

	_, err := svc.BulkTransactions(context.Background(), tenantID, member, []models.StagedTransaction{owned, foreign})
	require.ErrorIs(t, err, ErrInvalidBatch)
	require.ErrorIs(t, err, ErrUnknownAssignee)
	require.Zero(t, calls)

	inserted, err := svc.BulkTransactions(context.Background(), tenantID, member, []models.StagedTransaction{owned, owned})
	require.NoError(t, err)
	require.Equal(t, 2, inserted)
	require.Equal(t, 2, calls)
}

func TestLedgerCommitWriteFailure(t *testing.T) {
	svc := newLedgerService(
		&fakeTransactionStore{CreateBatchFunc: func(ctx context.Context, q repository.DBTX, txs []*models.Transaction) error {
			return errors.New("insert failed")
		}},
		nil,
		&fakeBatchStore{CreateFunc: func(ctx context.Context, q repository.DBTX, b *models.ImportBatch) error {
			return nil
		}},
	)

	inserted, err := svc.Commit(context.Background(), commit.Batch{
		Format: csvimport.FormatBank,
		Rows:   []models.StagedTransaction{bankRow("a", 1)},
	})
	require.EqualError(t, err, "insert failed")
	require.Zero(t, inserted)
}

func TestLedgerBulkSales(t *testing.T) {
	var written []*models.PayPaySale
	svc := newLedgerService(
		nil,
		&fakeSalesStore{CreateBatchFunc: func(ctx context.Context, q repository.DBTX, sales []*models.PayPaySale) error {
			written = sales
			return nil
		}},
		&fakeBatchStore{CreateFunc: func(ctx context.Context, q repository.DBTX, b *models.ImportBatch) error {
			require.Equal(t, "paypay", b.Format)
			return nil
		}},
	)

	inserted, err := svc.BulkSales(context.Background(), uuid.New(), uuid.New(), []dto.PayPaySaleRequest{
		{Date: "2025-11-05", Category: "山田花子", UserID: "U-1", Name: "Studio", Amount: decimal.NewFromInt(1500)},
	})
	require.NoError(t, err)
	require.Equal(t, 1, inserted)
	require.Equal(t, "2025-11-05", written[0].SaleDate)
	require.Equal(t, "山田花子", written[0].Category)
	require.Equal(t, "U-1", written[0].UserID)
	require.Equal(t, "Studio", written[0].Name)
	require.Equal(t, "", written[0].ReceiptNumber)

	_, err = svc.BulkSales(context.Background(), uuid.New(), uuid.New(), []dto.PayPaySaleRequest{{Name: "no date"}})
	require.ErrorIs(t, err, ErrInvalidBatch)
}

func TestLedgerCommitEmpty(t *testing.T) {
	svc := newLedgerService(nil, nil, nil)
	_, err := svc.Commit(context.Background(), commit.Batch{Format: csvimport.FormatBank})
	require.ErrorIs(t, err, ErrInvalidBatch)
}

func TestLedgerSummary(t *testing.T) {
	svc := newLedgerService(&fakeTransactionStore{
		SummaryFunc: func(ctx context.Context, tenantID uuid.UUID) (*models.TransactionSummary, error) {
			return &models.TransactionSummary{
				Count:           3,
				DepositTotal:    decimal.RequireFromString("1200.5"),
				WithdrawalTotal: decimal.NewFromInt(200),
			}, nil
		},
	}, nil, nil)

	sum, err := svc.Summary(context.Background(), uuid.New())
	require.NoError(t, err)
	require.Equal(t, &dto.TransactionSummaryResponse{
		Count:           3,
		DepositTotal:    "1200.50",
		WithdrawalTotal: "200.00",
		Net:             "1000.50",
	}, sum)
}
