package repository

import (
	"context"

	"agency-ledger/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

var payPayColumns = []string{
	"id", "tenant_id", "batch_id", "sale_date", "category", "user_id", "name", "receipt_number", "amount", "memo", "created_at",
}

type PayPaySaleRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewPayPaySaleRepository(db *pgxpool.Pool, logger *zap.Logger) *PayPaySaleRepository {
	return &PayPaySaleRepository{
		db:     db,
		logger: logger,
	}
}

func insertSalesQuery(sales []*models.PayPaySale) squirrel.InsertBuilder {
	builder := squirrel.Insert("paypay_sales").
		Columns(payPayColumns...).
		PlaceholderFormat(squirrel.Dollar)

	for _, s := range sales {
		builder = builder.Values(s.ID, s.TenantID, s.BatchID, s.SaleDate, s.Category, s.UserID, s.Name, s.ReceiptNumber, s.Amount, s.Memo, s.CreatedAt)
	}
	return builder
}

func (r *PayPaySaleRepository) CreateBatch(ctx context.Context, q DBTX, sales []*models.PayPaySale) error {
	if len(sales) == 0 {
		return nil
	}

	sql, args, err := insertSalesQuery(sales).ToSql()
	if err != nil {
		return err
	}

	_, err = q.Exec(ctx, sql, args...)
	return err
}

func (r *PayPaySaleRepository) List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.PayPaySale, error) {
	query := squirrel.Select(payPayColumns...).
		From("paypay_sales").
		Where(squirrel.Eq{"tenant_id": tenantID}).
		OrderBy("sale_date DESC", "created_at DESC").
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sales := make([]*models.PayPaySale, 0)
	for rows.Next() {
		var s models.PayPaySale
		if err := rows.Scan(
			&s.ID, &s.TenantID, &s.BatchID, &s.SaleDate, &s.Category, &s.UserID, &s.Name, &s.ReceiptNumber, &s.Amount, &s.Memo, &s.CreatedAt,
		); err != nil {
			return nil, err
		}
		sales = append(sales, &s)
	}

	return sales, rows.Err()
}
