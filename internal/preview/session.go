package preview

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"agency-ledger/internal/commit"
	"agency-ledger/internal/csvimport"
	"agency-ledger/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrSessionNotFound = errors.New("import session not found")
	ErrSessionClosed   = errors.New("import session already closed")
	ErrNothingToCommit = errors.New("no staged transactions to commit")
	ErrRowOutOfRange   = errors.New("row index out of range")
	ErrInvalidEdit     = errors.New("invalid edit")
)

type State string

const (
	StateOpen      State = "open"
	StateCommitted State = "committed"
	StateCancelled State = "cancelled"
)

// Session holds one staged file between upload and confirm. Rows live only here
// until Confirm hands them to a committer; a failed commit leaves them as they were.
type Session struct {
	mu sync.Mutex

	id               uuid.UUID
	tenantID         uuid.UUID
	userID           uuid.UUID
	format           csvimport.FormatID
	fileName         string
	rows             []models.StagedTransaction
	skipped          []csvimport.SkippedRow
	matched          int
	rulesUnavailable bool
	createdAt        time.Time
	state            State

	// touchedAt is guarded by the owning Store's mutex.
	touchedAt time.Time
}

// View is a detached copy of a session's state.
type View struct {
	ID               uuid.UUID
	Format           csvimport.FormatID
	FileName         string
	State            State
	Total            int
	Skipped          []csvimport.SkippedRow
	Matched          int
	RulesUnavailable bool
	CreatedAt        time.Time
}

// Page is a window onto the staged rows. Offset is the index of Rows[0].
type Page struct {
	View
	Offset int
	Rows   []models.StagedTransaction
}

func (s *Session) ID() uuid.UUID { return s.id }

func (s *Session) view() View {
	return View{
		ID:               s.id,
		Format:           s.format,
		FileName:         s.fileName,
		State:            s.state,
		Total:            len(s.rows),
		Skipped:          append([]csvimport.SkippedRow(nil), s.skipped...),
		Matched:          s.matched,
		RulesUnavailable: s.rulesUnavailable,
		CreatedAt:        s.createdAt,
	}
}

// Snapshot returns the session summary without rows.
func (s *Session) Snapshot() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view()
}

// Rows returns a copy of every staged row.
func (s *Session) Rows() []models.StagedTransaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return models.CloneStaged(s.rows)
}

// Page returns up to limit rows starting at offset. An offset past the end yields
// an empty page, not an error.
func (s *Session) Page(offset, limit int) Page {
	s.mu.Lock()
	defer s.mu.Unlock()

	if offset < 0 {
		offset = 0
	}
	end := len(s.rows)
	if offset > end {
		offset = end
	}
	if limit > 0 && limit < end-offset {
		end = offset + limit
	}

	return Page{
		View:   s.view(),
		Offset: offset,
		Rows:   models.CloneStaged(s.rows[offset:end]),
	}
}

// RowPatch is a partial edit; nil fields are left alone.
type RowPatch struct {
	TransactionDate *string
	TransactionType *models.TransactionType
	Amount          *decimal.Decimal
	PaymentMethod   *models.PaymentMethod
	Category        *models.Category
	AssignedUserID  *uuid.UUID
	ClearAssignee   bool
	ItemName        *string
	Memo            *string
}

// EditRow applies patch to the row at index and returns the updated row. The
// edit is validated as a whole; on error nothing changes.
func (s *Session) EditRow(index int, patch RowPatch) (models.StagedTransaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateOpen {
		return models.StagedTransaction{}, ErrSessionClosed
	}
	if index < 0 || index >= len(s.rows) {
		return models.StagedTransaction{}, ErrRowOutOfRange
	}

	row, err := patch.apply(s.rows[index].Clone(), s.format)
	if err != nil {
		return models.StagedTransaction{}, err
	}
	s.rows[index] = row
	return row.Clone(), nil
}

func (p RowPatch) apply(row models.StagedTransaction, format csvimport.FormatID) (models.StagedTransaction, error) {
	if p.TransactionDate != nil {
		date := strings.TrimSpace(*p.TransactionDate)
		if _, err := time.Parse("2006-01-02", date); err != nil {
			return row, fmt.Errorf("%w: transaction date must be YYYY-MM-DD", ErrInvalidEdit)
		}
		row.TransactionDate = date
	}
	if p.TransactionType != nil {
		if !p.TransactionType.Valid() {
			return row, fmt.Errorf("%w: unknown transaction type %q", ErrInvalidEdit, *p.TransactionType)
		}
		row.TransactionType = *p.TransactionType
	}
	if p.Amount != nil {
		if p.Amount.IsNegative() || (format == csvimport.FormatBank && p.Amount.IsZero()) {
			return row, fmt.Errorf("%w: amount must be positive", ErrInvalidEdit)
		}
		row.Amount = *p.Amount
	}
	if p.PaymentMethod != nil {
		if !p.PaymentMethod.Valid() {
			return row, fmt.Errorf("%w: unknown payment method %q", ErrInvalidEdit, *p.PaymentMethod)
		}
		row.PaymentMethod = *p.PaymentMethod
	}
	if p.Category != nil {
		if format == csvimport.FormatBank && !p.Category.Known() {
			return row, fmt.Errorf("%w: unknown category %q", ErrInvalidEdit, *p.Category)
		}
		row.Category = *p.Category
	}
	switch {
	case p.ClearAssignee:
		row.AssignedUserID = nil
	case p.AssignedUserID != nil:
		id := *p.AssignedUserID
		row.AssignedUserID = &id
	}
	if p.ItemName != nil {
		name := strings.TrimSpace(*p.ItemName)
		if name == "" {
			return row, fmt.Errorf("%w: item name is required", ErrInvalidEdit)
		}
		row.ItemName = name
	}
	if p.Memo != nil {
		row.Memo = *p.Memo
	}
	return row, nil
}

// Confirm submits every staged row as one batch. On success the session is
// emptied and closed; on failure it is left exactly as it was so the user can
// retry. The session stays locked while the committer runs.
func (s *Session) Confirm(ctx context.Context, c commit.Committer) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateOpen {
		return 0, ErrSessionClosed
	}
	if len(s.rows) == 0 {
		return 0, ErrNothingToCommit
	}

	inserted, err := c.Commit(ctx, commit.Batch{
		SessionID: s.id,
		TenantID:  s.tenantID,
		UserID:    s.userID,
		Format:    s.format,
		FileName:  s.fileName,
		Skipped:   len(s.skipped),
		Rows:      models.CloneStaged(s.rows),
	})
	if err != nil {
		return 0, err
	}

	s.rows = nil
	s.state = StateCommitted
	return inserted, nil
}

// Cancel discards the staged rows without side effects.
func (s *Session) Cancel() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateOpen {
		return ErrSessionClosed
	}
	s.rows = nil
	s.state = StateCancelled
	return nil
}
