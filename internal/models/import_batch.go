package models

import (
	"time"

	"github.com/google/uuid"
)

// ImportBatch records one committed CSV import.
type ImportBatch struct {
	ID        uuid.UUID  `db:"id"`
	TenantID  uuid.UUID  `db:"tenant_id"`
	UserID    *uuid.UUID `db:"user_id"`
	Format    string     `db:"format"`
	FileName  string     `db:"file_name"`
	RowCount  int        `db:"row_count"`
	SkipCount int        `db:"skip_count"`
	CreatedAt time.Time  `db:"created_at"`
}
