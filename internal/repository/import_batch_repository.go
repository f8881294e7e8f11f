package repository

import (
	"context"

	"agency-ledger/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type ImportBatchRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewImportBatchRepository(db *pgxpool.Pool, logger *zap.Logger) *ImportBatchRepository {
	return &ImportBatchRepository{
		db:     db,
		logger: logger,
	}
}

func (r *ImportBatchRepository) Create(ctx context.Context, q DBTX, batch *models.ImportBatch) error {
	query := squirrel.Insert("import_batches").
		Columns("id", "tenant_id", "user_id", "format", "file_name", "row_count", "skip_count", "created_at").
		Values(batch.ID, batch.TenantID, batch.UserID, batch.Format, batch.FileName, batch.RowCount, batch.SkipCount, batch.CreatedAt).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = q.Exec(ctx, sql, args...)
	return err
}

func (r *ImportBatchRepository) ListByTenant(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.ImportBatch, error) {
	query := squirrel.Select("id", "tenant_id", "user_id", "format", "file_name", "row_count", "skip_count", "created_at").
		From("import_batches").
		Where(squirrel.Eq{"tenant_id": tenantID}).
		OrderBy("created_at DESC").
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

	batches := make([]*models.ImportBatch, 0)
	for rows.Next() {
		var b models.ImportBatch
		if err := rows.Scan(
			&b.ID, &b.TenantID, &b.UserID, &b.Format, &b.FileName, &b.RowCount, &b.SkipCount, &b.CreatedAt,
		); err != nil {
			return nil, err
		}
		batches = append(batches, &b)
	}

	return batches, rows.Err()
}
