package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"agency-ledger/internal/dto"
	"agency-ledger/internal/models"
	"agency-ledger/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrRuleNotFound     = errors.New("auto-match rule not found")
	ErrDuplicateKeyword = repository.ErrDuplicateKeyword
	ErrInvalidRule      = errors.New("invalid auto-match rule")
)

type ruleStore interface {
	List(ctx context.Context, tenantID uuid.UUID, activeOnly bool) ([]*models.AutoMatchRule, error)
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.AutoMatchRule, error)
	Create(ctx context.Context, rule *models.AutoMatchRule) error
	Update(ctx context.Context, rule *models.AutoMatchRule) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}

type RuleService struct {
	ruleRepo ruleStore
	members  MemberCounter
	logger   *zap.Logger
}

func NewRuleService(ruleRepo *repository.RuleRepository, userRepo *repository.UserRepository, logger *zap.Logger) *RuleService {
	return &RuleService{
		ruleRepo: ruleRepo,
		members:  userRepo,
		logger:   logger,
	}
}

func (s *RuleService) List(ctx context.Context, tenantID uuid.UUID, activeOnly bool) ([]dto.RuleResponse, error) {
	rules, err := s.ruleRepo.List(ctx, tenantID, activeOnly)
	if err != nil {
		return nil, err
	}

	out := make([]dto.RuleResponse, 0, len(rules))
	for _, r := range rules {
		out = append(out, dto.NewRuleResponse(r))
	}
	return out, nil
}

// ActiveRules is the snapshot an import session matches against.
func (s *RuleService) ActiveRules(ctx context.Context, tenantID uuid.UUID) ([]models.AutoMatchRule, error) {
	rules, err := s.ruleRepo.List(ctx, tenantID, true)
	if err != nil {
		return nil, err
	}

	out := make([]models.AutoMatchRule, 0, len(rules))
	for _, r := range rules {
		out = append(out, *r)
	}
	return out, nil
}

func (s *RuleService) Create(ctx context.Context, tenantID uuid.UUID, req *dto.RuleRequest) (*dto.RuleResponse, error) {
	now := time.Now()
	rule := &models.AutoMatchRule{
		ID:        uuid.New(),
		TenantID:  tenantID,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := applyRuleRequest(rule, req); err != nil {
		return nil, err
	}
	if err := s.checkAssignee(ctx, rule); err != nil {
		return nil, err
	}

	if err := s.ruleRepo.Create(ctx, rule); err != nil {
		return nil, err
	}

	s.logger.Info("Auto-match rule created",
		zap.String("tenant_id", tenantID.String()),
		zap.String("rule_id", rule.ID.String()),
		zap.String("keyword", rule.Keyword),
	)

	return s.get(ctx, tenantID, rule.ID)
}

func (s *RuleService) Update(ctx context.Context, tenantID, id uuid.UUID, req *dto.RuleRequest) (*dto.RuleResponse, error) {
	rule, err := s.ruleRepo.GetByID(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRuleNotFound
		}
		return nil, err
	}

	// PUT replaces the rule: omitted optional fields are cleared.
	rule.Category, rule.AssignedUserID, rule.PaymentMethod = nil, nil, nil
	rule.Priority, rule.IsActive = 0, true
	if err := applyRuleRequest(rule, req); err != nil {
		return nil, err
	}
	if err := s.checkAssignee(ctx, rule); err != nil {
		return nil, err
	}

	if err := s.ruleRepo.Update(ctx, rule); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRuleNotFound
		}
		return nil, err
	}

	return s.get(ctx, tenantID, id)
}

func (s *RuleService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	if err := s.ruleRepo.Delete(ctx, tenantID, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrRuleNotFound
		}
		return err
	}

	s.logger.Info("Auto-match rule deleted",
		zap.String("tenant_id", tenantID.String()),
		zap.String("rule_id", id.String()),
	)
	return nil
}

func (s *RuleService) checkAssignee(ctx context.Context, rule *models.AutoMatchRule) error {
	if rule.AssignedUserID == nil {
		return nil
	}
	err := checkAssignees(ctx, s.members, rule.TenantID, []uuid.UUID{*rule.AssignedUserID})
	if errors.Is(err, ErrUnknownAssignee) {
		return fmt.Errorf("%w: %w", ErrInvalidRule, err)
	}
	return err
}

func (s *RuleService) get(ctx context.Context, tenantID, id uuid.UUID) (*dto.RuleResponse, error) {
	rule, err := s.ruleRepo.GetByID(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRuleNotFound
		}
		return nil, err
	}
	resp := dto.NewRuleResponse(rule)
	return &resp, nil
}

func applyRuleRequest(rule *models.AutoMatchRule, req *dto.RuleRequest) error {
	keyword := strings.TrimSpace(req.Keyword)
	if keyword == "" {
		return fmt.Errorf("%w: keyword is required", ErrInvalidRule)
	}
	rule.Keyword = keyword

	if v := optional(req.Category); v != "" {
		c := models.Category(v)
		if !c.Known() {
			return fmt.Errorf("%w: unknown category %q", ErrInvalidRule, v)
		}
		rule.Category = &c
	}
	if v := optional(req.PaymentMethod); v != "" {
		p := models.NormalizePaymentMethod(models.PaymentMethod(v))
		if !p.Valid() {
			return fmt.Errorf("%w: unknown payment method %q", ErrInvalidRule, v)
		}
		rule.PaymentMethod = &p
	}
	if v := optional(req.AssignedUserID); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return fmt.Errorf("%w: invalid assigned_user_id", ErrInvalidRule)
		}
		rule.AssignedUserID = &id
	}
	if req.Priority != nil {
		rule.Priority = *req.Priority
	}
	if req.IsActive != nil {
		rule.IsActive = *req.IsActive
	}
	return nil
}

func optional(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}
