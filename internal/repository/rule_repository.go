package repository

import (
	"context"
	"errors"

	"agency-ledger/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

var ErrDuplicateKeyword = errors.New("a rule with this keyword already exists")

type RuleRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewRuleRepository(db *pgxpool.Pool, logger *zap.Logger) *RuleRepository {
	return &RuleRepository{
		db:     db,
		logger: logger,
	}
}

func selectRules(tenantID uuid.UUID) squirrel.SelectBuilder {
	return squirrel.Select(
		"r.id", "r.tenant_id", "r.keyword", "r.category", "r.assigned_user_id", "u.username",
		"r.payment_method", "r.priority", "r.is_active", "r.created_at", "r.updated_at",
	).
		From("accounting_auto_match_rules r").
		LeftJoin("users u ON u.id = r.assigned_user_id AND u.tenant_id = r.tenant_id").
		Where(squirrel.Eq{"r.tenant_id": tenantID}).
		PlaceholderFormat(squirrel.Dollar)
}

func listRulesQuery(tenantID uuid.UUID, activeOnly bool) squirrel.SelectBuilder {
	query := selectRules(tenantID).OrderBy("r.priority DESC", "r.keyword ASC")
	if activeOnly {
		query = query.Where(squirrel.Eq{"r.is_active": true})
	}
	return query
}

func scanRule(row interface{ Scan(dest ...any) error }) (*models.AutoMatchRule, error) {
	var rule models.AutoMatchRule
	if err := row.Scan(
		&rule.ID, &rule.TenantID, &rule.Keyword, &rule.Category, &rule.AssignedUserID, &rule.AssignedUserName,
		&rule.PaymentMethod, &rule.Priority, &rule.IsActive, &rule.CreatedAt, &rule.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &rule, nil
}

// List returns the tenant's rules ordered by priority, highest first.
func (r *RuleRepository) List(ctx context.Context, tenantID uuid.UUID, activeOnly bool) ([]*models.AutoMatchRule, error) {
	sql, args, err := listRulesQuery(tenantID, activeOnly).ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rules := make([]*models.AutoMatchRule, 0)
	for rows.Next() {
		rule, err := scanRule(rows)
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}

	return rules, rows.Err()
}

func (r *RuleRepository) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.AutoMatchRule, error) {
	sql, args, err := selectRules(tenantID).Where(squirrel.Eq{"r.id": id}).ToSql()
	if err != nil {
		return nil, err
	}

	rule, err := scanRule(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, notFound(err)
	}
	return rule, nil
}

func (r *RuleRepository) Create(ctx context.Context, rule *models.AutoMatchRule) error {
	query := squirrel.Insert("accounting_auto_match_rules").
		Columns("id", "tenant_id", "keyword", "category", "assigned_user_id", "payment_method", "priority", "is_active", "created_at", "updated_at").
		Values(rule.ID, rule.TenantID, rule.Keyword, rule.Category, rule.AssignedUserID, rule.PaymentMethod, rule.Priority, rule.IsActive, rule.CreatedAt, rule.UpdatedAt).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateKeyword
		}
		return err
	}
	return nil
}

func updateRuleQuery(rule *models.AutoMatchRule) squirrel.UpdateBuilder {
	return squirrel.Update("accounting_auto_match_rules").
		Set("keyword", rule.Keyword).
		Set("category", rule.Category).
		Set("assigned_user_id", rule.AssignedUserID).
		Set("payment_method", rule.PaymentMethod).
		Set("priority", rule.Priority).
		Set("is_active", rule.IsActive).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": rule.ID, "tenant_id": rule.TenantID}).
		PlaceholderFormat(squirrel.Dollar)
}

func (r *RuleRepository) Update(ctx context.Context, rule *models.AutoMatchRule) error {
	sql, args, err := updateRuleQuery(rule).ToSql()
	if err != nil {
		return err
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateKeyword
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *RuleRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	query := squirrel.Delete("accounting_auto_match_rules").
		Where(squirrel.Eq{"id": id, "tenant_id": tenantID}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
