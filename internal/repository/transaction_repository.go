package repository

import (
	"context"
	"time"

	"agency-ledger/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

var transactionColumns = []string{
	"id", "tenant_id", "batch_id", "transaction_date", "transaction_time", "transaction_type",
	"category", "payment_method", "item_name", "amount", "memo", "assigned_user_id", "created_at", "updated_at",
}

type TransactionFilter struct {
	TenantID  uuid.UUID
	StartDate *time.Time
	EndDate   *time.Time
	Limit     int
	Offset    int
}

type TransactionRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewTransactionRepository(db *pgxpool.Pool, logger *zap.Logger) *TransactionRepository {
	return &TransactionRepository{
		db:     db,
		logger: logger,
	}
}

func insertTransactionsQuery(transactions []*models.Transaction) squirrel.InsertBuilder {
	builder := squirrel.Insert("accounting_transactions").
		Columns(transactionColumns...).
		PlaceholderFormat(squirrel.Dollar)

	for _, tx := range transactions {
		builder = builder.Values(
			tx.ID, tx.TenantID, tx.BatchID, tx.TransactionDate, tx.TransactionTime, tx.TransactionType,
			tx.Category, tx.PaymentMethod, tx.ItemName, tx.Amount, tx.Memo, tx.AssignedUserID, tx.CreatedAt, tx.UpdatedAt,
		)
	}
	return builder
}

// CreateBatch inserts all rows in one statement through q, which may be a pool or an open transaction.
func (r *TransactionRepository) CreateBatch(ctx context.Context, q DBTX, transactions []*models.Transaction) error {
	if len(transactions) == 0 {
		return nil
	}

	sql, args, err := insertTransactionsQuery(transactions).ToSql()
	if err != nil {
		return err
	}

	_, err = q.Exec(ctx, sql, args...)
	return err
}

func listTransactionsQuery(f TransactionFilter) squirrel.SelectBuilder {
	query := squirrel.Select(transactionColumns...).
		From("accounting_transactions").
		Where(squirrel.Eq{"tenant_id": f.TenantID}).
		OrderBy("transaction_date DESC", "transaction_time DESC").
		PlaceholderFormat(squirrel.Dollar)

	if f.StartDate != nil {
		query = query.Where(squirrel.GtOrEq{"transaction_date": *f.StartDate})
	}
	if f.EndDate != nil {
		query = query.Where(squirrel.LtOrEq{"transaction_date": *f.EndDate})
	}
	if f.Limit > 0 {
		query = query.Limit(uint64(f.Limit))
	}
	if f.Offset > 0 {
		query = query.Offset(uint64(f.Offset))
	}
	return query
}

func (r *TransactionRepository) List(ctx context.Context, f TransactionFilter) ([]*models.Transaction, error) {
	sql, args, err := listTransactionsQuery(f).ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	transactions := make([]*models.Transaction, 0)
	for rows.Next() {
		var tx models.Transaction
		if err := rows.Scan(
			&tx.ID, &tx.TenantID, &tx.BatchID, &tx.TransactionDate, &tx.TransactionTime, &tx.TransactionType,
			&tx.Category, &tx.PaymentMethod, &tx.ItemName, &tx.Amount, &tx.Memo, &tx.AssignedUserID, &tx.CreatedAt, &tx.UpdatedAt,
		); err != nil {
			return nil, err
		}
		transactions = append(transactions, &tx)
	}

	return transactions, rows.Err()
}

func summaryQuery(tenantID uuid.UUID) squirrel.SelectBuilder {
	return squirrel.Select(
		"COUNT(*)",
		"COALESCE(SUM(amount) FILTER (WHERE transaction_type = 'deposit'), 0)",
		"COALESCE(SUM(amount) FILTER (WHERE transaction_type = 'withdrawal'), 0)",
	).
		From("accounting_transactions").
		Where(squirrel.Eq{"tenant_id": tenantID}).
		PlaceholderFormat(squirrel.Dollar)
}

func (r *TransactionRepository) Summary(ctx context.Context, tenantID uuid.UUID) (*models.TransactionSummary, error) {
	sql, args, err := summaryQuery(tenantID).ToSql()
	if err != nil {
		return nil, err
	}

	var summary models.TransactionSummary
	if err := r.db.QueryRow(ctx, sql, args...).Scan(
		&summary.Count, &summary.DepositTotal, &summary.WithdrawalTotal,
	); err != nil {
		return nil, err
	}
	return &summary, nil
}
