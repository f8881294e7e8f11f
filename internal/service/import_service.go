package service

import (
	"context"
	"errors"
	"fmt"

	"agency-ledger/internal/commit"
	"agency-ledger/internal/csvimport"
	"agency-ledger/internal/dto"
	"agency-ledger/internal/models"
	"agency-ledger/internal/preview"
	"agency-ledger/pkg/config"
	"agency-ledger/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrUnknownFormat   = errors.New("unknown import format")
	ErrUnknownEncoding = errors.New("unknown encoding")
	ErrEmptyFile       = errors.New("uploaded file is empty")
)

// RuleSource supplies the active auto-match rules for a tenant.
type RuleSource interface {
	ActiveRules(ctx context.Context, tenantID uuid.UUID) ([]models.AutoMatchRule, error)
}

// SummaryReader reports ledger totals after a commit.
type SummaryReader interface {
	Summary(ctx context.Context, tenantID uuid.UUID) (*dto.TransactionSummaryResponse, error)
}

type StageRequest struct {
	TenantID uuid.UUID
	UserID   uuid.UUID
	FileName string
	Format   string
	Encoding string
	Data     []byte
}

// ImportService runs uploads through the staging pipeline and holds them for
// review until they are confirmed or cancelled.
type ImportService struct {
	rules        RuleSource
	committer    commit.Committer
	summary      SummaryReader
	members      MemberCounter
	store        *preview.Store
	matchOrder   csvimport.MatchOrder
	bankEncoding csvimport.Encoding
	pageSize     int
	logger       *zap.Logger
}

func NewImportService(
	rules RuleSource,
	committer commit.Committer,
	summary SummaryReader,
	members MemberCounter,
	cfg config.ImportConfig,
	logger *zap.Logger,
) (*ImportService, error) {
	order, err := csvimport.ParseMatchOrder(cfg.MatchOrder)
	if err != nil {
		return nil, err
	}
	bankEncoding, err := csvimport.ParseEncoding(cfg.BankEncoding)
	if err != nil {
		return nil, err
	}

	return &ImportService{
		rules:        rules,
		committer:    committer,
		summary:      summary,
		members:      members,
		store:        preview.NewStore(cfg.SessionTTL),
		matchOrder:   order,
		bankEncoding: bankEncoding,
		pageSize:     cfg.PreviewPageSize,
		logger:       logger,
	}, nil
}

// Stage parses an uploaded file and opens a review session for it. Rules are
// fetched once per upload; if that fails the file is staged without them.
func (s *ImportService) Stage(ctx context.Context, req StageRequest) (*preview.Page, error) {
	if len(req.Data) == 0 {
		return nil, ErrEmptyFile
	}

	format, err := csvimport.LookupFormat(req.Format, s.bankEncoding)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, req.Format)
	}

	enc := format.Encoding
	if req.Encoding != "" {
		if enc, err = csvimport.ParseEncoding(req.Encoding); err != nil {
			return nil, fmt.Errorf("%w: %q", ErrUnknownEncoding, req.Encoding)
		}
	}

	var (
		matcher          *csvimport.Matcher
		rulesUnavailable bool
	)
	if format.AutoMatch {
		rules, err := s.rules.ActiveRules(ctx, req.TenantID)
		if err != nil {
			s.logger.Warn("Failed to fetch auto-match rules, staging without them",
				zap.String("tenant_id", req.TenantID.String()),
				zap.Error(err),
			)
			rulesUnavailable = true
		}
		matcher = csvimport.NewMatcher(rules, s.matchOrder)
	}

	res, err := csvimport.Stage(req.Data, format, enc, matcher)
	if err != nil {
		return nil, err
	}

	sess := s.store.Open(preview.OpenParams{
		TenantID:         req.TenantID,
		UserID:           req.UserID,
		FileName:         req.FileName,
		Result:           res,
		RulesUnavailable: rulesUnavailable,
	})

	logger.ForImport(s.logger, sess.ID().String(), req.TenantID.String(), string(format.ID)).Info("Import staged",
		zap.String("file_name", req.FileName),
		zap.String("encoding", string(res.Encoding)),
		zap.Int("rows", len(res.Rows)),
		zap.Int("skipped", len(res.Skipped)),
		zap.Int("matched", res.Matched),
	)

	page := sess.Page(0, s.pageSize)
	return &page, nil
}

// maxPreviewLimit caps a single preview page.
const maxPreviewLimit = 1000

// Preview returns a page of a session's rows; a non-positive limit uses the
// configured page size.
func (s *ImportService) Preview(tenantID, sessionID uuid.UUID, offset, limit int) (*preview.Page, error) {
	sess, err := s.store.Get(tenantID, sessionID)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = s.pageSize
	}
	if limit > maxPreviewLimit {
		limit = maxPreviewLimit
	}
	page := sess.Page(offset, limit)
	return &page, nil
}

// EditRow applies a reviewer's correction to one staged row. A new assignee
// must be a user of the same tenant.
func (s *ImportService) EditRow(ctx context.Context, tenantID, sessionID uuid.UUID, index int, patch preview.RowPatch) (models.StagedTransaction, error) {
	sess, err := s.store.Get(tenantID, sessionID)
	if err != nil {
		return models.StagedTransaction{}, err
	}
	if patch.AssignedUserID != nil && !patch.ClearAssignee {
		err := checkAssignees(ctx, s.members, tenantID, []uuid.UUID{*patch.AssignedUserID})
		if errors.Is(err, ErrUnknownAssignee) {
			return models.StagedTransaction{}, fmt.Errorf("%w: %w", preview.ErrInvalidEdit, err)
		}
		if err != nil {
			return models.StagedTransaction{}, err
		}
	}
	return sess.EditRow(index, patch)
}

// Confirm commits every staged row of the session as one batch. On success the
// session is dropped and fresh ledger totals are returned; totals that cannot be
// read are reported as nil without failing the commit.
func (s *ImportService) Confirm(ctx context.Context, tenantID, sessionID uuid.UUID) (int, *dto.TransactionSummaryResponse, error) {
	sess, err := s.store.Get(tenantID, sessionID)
	if err != nil {
		return 0, nil, err
	}

	view := sess.Snapshot()
	log := logger.ForImport(s.logger, sessionID.String(), tenantID.String(), string(view.Format))

	inserted, err := sess.Confirm(ctx, s.committer)
	if err != nil {
		log.Warn("Import confirm failed", zap.Int("rows", view.Total), zap.Error(err))
		s.store.Touch(tenantID, sessionID)
		return 0, nil, err
	}
	s.store.Remove(tenantID, sessionID)
	log.Info("Import confirmed", zap.Int("inserted", inserted))

	if s.summary == nil {
		return inserted, nil, nil
	}
	summary, err := s.summary.Summary(ctx, tenantID)
	if err != nil {
		log.Warn("Failed to refresh ledger summary", zap.Error(err))
		return inserted, nil, nil
	}
	return inserted, summary, nil
}

// Cancel discards a session without side effects.
func (s *ImportService) Cancel(tenantID, sessionID uuid.UUID) error {
	sess, err := s.store.Get(tenantID, sessionID)
	if err != nil {
		return err
	}
	if err := sess.Cancel(); err != nil {
		return err
	}
	s.store.Remove(tenantID, sessionID)
	return nil
}

func (s *ImportService) PageSize() int {
	return s.pageSize
}
