package service

import (
	"context"
	"sync"

	"agency-ledger/internal/commit"
	"agency-ledger/internal/dto"
	"agency-ledger/internal/models"
	"agency-ledger/internal/repository"

	"github.com/google/uuid"
)

type fakeRuleStore struct {
	ListFunc    func(ctx context.Context, tenantID uuid.UUID, activeOnly bool) ([]*models.AutoMatchRule, error)
	GetByIDFunc func(ctx context.Context, tenantID, id uuid.UUID) (*models.AutoMatchRule, error)
	CreateFunc  func(ctx context.Context, rule *models.AutoMatchRule) error
	UpdateFunc  func(ctx context.Context, rule *models.AutoMatchRule) error
	DeleteFunc  func(ctx context.Context, tenantID, id uuid.UUID) error
}

func (f *fakeRuleStore) List(ctx context.Context, tenantID uuid.UUID, activeOnly bool) ([]*models.AutoMatchRule, error) {
	return f.ListFunc(ctx, tenantID, activeOnly)
}

func (f *fakeRuleStore) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.AutoMatchRule, error) {
	return f.GetByIDFunc(ctx, tenantID, id)
}

func (f *fakeRuleStore) Create(ctx context.Context, rule *models.AutoMatchRule) error {
	return f.CreateFunc(ctx, rule)
}

func (f *fakeRuleStore) Update(ctx context.Context, rule *models.AutoMatchRule) error {
	return f.UpdateFunc(ctx, rule)
}

func (f *fakeRuleStore) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return f.DeleteFunc(ctx, tenantID, id)
}

type fakeTransactionStore struct {
	CreateBatchFunc func(ctx context.Context, q repository.DBTX, transactions []*models.Transaction) error
	ListFunc        func(ctx context.Context, f repository.TransactionFilter) ([]*models.Transaction, error)
	SummaryFunc     func(ctx context.Context, tenantID uuid.UUID) (*models.TransactionSummary, error)
}

func (f *fakeTransactionStore) CreateBatch(ctx context.Context, q repository.DBTX, transactions []*models.Transaction) error {
	return f.CreateBatchFunc(ctx, q, transactions)
}

func (f *fakeTransactionStore) List(ctx context.Context, filter repository.TransactionFilter) ([]*models.Transaction, error) {
	return f.ListFunc(ctx, filter)
}

func (f *fakeTransactionStore) Summary(ctx context.Context, tenantID uuid.UUID) (*models.TransactionSummary, error) {
	return f.SummaryFunc(ctx, tenantID)
}

type fakeSalesStore struct {
	CreateBatchFunc func(ctx context.Context, q repository.DBTX, sales []*models.PayPaySale) error
	ListFunc        func(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.PayPaySale, error)
}

func (f *fakeSalesStore) CreateBatch(ctx context.Context, q repository.DBTX, sales []*models.PayPaySale) error {
	return f.CreateBatchFunc(ctx, q, sales)
}

func (f *fakeSalesStore) List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.PayPaySale, error) {
	return f.ListFunc(ctx, tenantID, limit, offset)
}

type fakeBatchStore struct {
	CreateFunc       func(ctx context.Context, q repository.DBTX, batch *models.ImportBatch) error
	ListByTenantFunc func(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.ImportBatch, error)
}

func (f *fakeBatchStore) Create(ctx context.Context, q repository.DBTX, batch *models.ImportBatch) error {
	return f.CreateFunc(ctx, q, batch)
}

func (f *fakeBatchStore) ListByTenant(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.ImportBatch, error) {
	return f.ListByTenantFunc(ctx, tenantID, limit, offset)
}

type fakeUserStore struct {
	CreateTenantWithAdminFunc func(ctx context.Context, tenant *models.Tenant, user *models.User) error
	GetByEmailFunc            func(ctx context.Context, email string) (*models.User, error)
	GetByIDFunc               func(ctx context.Context, id uuid.UUID) (*models.User, error)
	ListByTenantFunc          func(ctx context.Context, tenantID uuid.UUID) ([]*models.User, error)
}

func (f *fakeUserStore) CreateTenantWithAdmin(ctx context.Context, tenant *models.Tenant, user *models.User) error {
	return f.CreateTenantWithAdminFunc(ctx, tenant, user)
}

func (f *fakeUserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return f.GetByEmailFunc(ctx, email)
}

func (f *fakeUserStore) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return f.GetByIDFunc(ctx, id)
}

func (f *fakeUserStore) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]*models.User, error) {
	return f.ListByTenantFunc(ctx, tenantID)
}

type fakeMemberCounter struct {
	CountInTenantFunc func(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) (int, error)
}

func (f *fakeMemberCounter) CountInTenant(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) (int, error) {
	return f.CountInTenantFunc(ctx, tenantID, ids)
}

// tenantMembers knows only the given users, all of them in tenantID.
func tenantMembers(tenantID uuid.UUID, users ...uuid.UUID) *fakeMemberCounter {
	return &fakeMemberCounter{CountInTenantFunc: func(ctx context.Context, tid uuid.UUID, ids []uuid.UUID) (int, error) {
		if tid != tenantID {
			return 0, nil
		}
		n := 0
		for _, id := range ids {
			for _, u := range users {
				if id == u {
					n++
					break
				}
			}
		}
		return n, nil
	}}
}

// anyMembers treats every id as a member of whatever tenant asks.
func anyMembers() *fakeMemberCounter {
	return &fakeMemberCounter{CountInTenantFunc: func(ctx context.Context, tid uuid.UUID, ids []uuid.UUID) (int, error) {
		return len(ids), nil
	}}
}

type fakeRuleSource struct {
	ActiveRulesFunc func(ctx context.Context, tenantID uuid.UUID) ([]models.AutoMatchRule, error)
}

func (f *fakeRuleSource) ActiveRules(ctx context.Context, tenantID uuid.UUID) ([]models.AutoMatchRule, error) {
	return f.ActiveRulesFunc(ctx, tenantID)
}

type fakeCommitter struct {
	mu         sync.Mutex
	CommitFunc func(ctx context.Context, batch commit.Batch) (int, error)
	batches    []commit.Batch
}

func (f *fakeCommitter) Commit(ctx context.Context, batch commit.Batch) (int, error) {
	f.mu.Lock()
	f.batches = append(f.batches, batch)
	f.mu.Unlock()
	return f.CommitFunc(ctx, batch)
}

type fakeSummary struct {
	SummaryFunc func(ctx context.Context, tenantID uuid.UUID) (*dto.TransactionSummaryResponse, error)
}

func (f *fakeSummary) Summary(ctx context.Context, tenantID uuid.UUID) (*dto.TransactionSummaryResponse, error) {
	return f.SummaryFunc(ctx, tenantID)
}

func strPtr(s string) *string { return &s }

func intPtr(i int) *int { return &i }

func boolPtr(b bool) *bool { return &b }
