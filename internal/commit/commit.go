// Package commit defines the batch persistence boundary and a REST client for it.
package commit

import (
	"context"
	"fmt"

	"agency-ledger/internal/csvimport"
	"agency-ledger/internal/models"

	"github.com/google/uuid"
)

// Batch is one confirmed import, submitted as a unit.
type Batch struct {
	SessionID uuid.UUID
	TenantID  uuid.UUID
	UserID    uuid.UUID
	Format    csvimport.FormatID
	FileName  string
	Skipped   int
	Rows      []models.StagedTransaction
}

// Committer persists a batch atomically: every row or none. It returns the
// number of inserted rows.
type Committer interface {
	Commit(ctx context.Context, batch Batch) (int, error)
}

// RemoteError carries the persistence service's own failure message.
type RemoteError struct {
	Status  int
	Message string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("commit rejected with status %d: %s", e.Status, e.Message)
}
