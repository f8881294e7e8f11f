package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"agency-ledger/internal/commit"
	"agency-ledger/internal/csvimport"
	"agency-ledger/internal/dto"
	"agency-ledger/internal/models"
	"agency-ledger/internal/preview"
	"agency-ledger/internal/repository"
	"agency-ledger/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var (
	testTenant = uuid.New()
	testUser   = uuid.New()
)

type fakeImportService struct {
	StageFunc   func(ctx context.Context, req service.StageRequest) (*preview.Page, error)
	PreviewFunc func(tenantID, sessionID uuid.UUID, offset, limit int) (*preview.Page, error)
	EditRowFunc func(ctx context.Context, tenantID, sessionID uuid.UUID, index int, patch preview.RowPatch) (models.StagedTransaction, error)
	ConfirmFunc func(ctx context.Context, tenantID, sessionID uuid.UUID) (int, *dto.TransactionSummaryResponse, error)
	CancelFunc  func(tenantID, sessionID uuid.UUID) error
}

func (f *fakeImportService) Stage(ctx context.Context, req service.StageRequest) (*preview.Page, error) {
	return f.StageFunc(ctx, req)
}

func (f *fakeImportService) Preview(tenantID, sessionID uuid.UUID, offset, limit int) (*preview.Page, error) {
	return f.PreviewFunc(tenantID, sessionID, offset, limit)
}

func (f *fakeImportService) EditRow(ctx context.Context, tenantID, sessionID uuid.UUID, index int, patch preview.RowPatch) (models.StagedTransaction, error) {
	return f.EditRowFunc(ctx, tenantID, sessionID, index, patch)
}

func (f *fakeImportService) Confirm(ctx context.Context, tenantID, sessionID uuid.UUID) (int, *dto.TransactionSummaryResponse, error) {
	return f.ConfirmFunc(ctx, tenantID, sessionID)
}

func (f *fakeImportService) Cancel(tenantID, sessionID uuid.UUID) error {
	return f.CancelFunc(tenantID, sessionID)
}

func (f *fakeImportService) PageSize() int { return 50 }

type fakeRuleService struct {
	ListFunc   func(ctx context.Context, tenantID uuid.UUID, activeOnly bool) ([]dto.RuleResponse, error)
	CreateFunc func(ctx context.Context, tenantID uuid.UUID, req *dto.RuleRequest) (*dto.RuleResponse, error)
	UpdateFunc func(ctx context.Context, tenantID, id uuid.UUID, req *dto.RuleRequest) (*dto.RuleResponse, error)
	DeleteFunc func(ctx context.Context, tenantID, id uuid.UUID) error
}

func (f *fakeRuleService) List(ctx context.Context, tenantID uuid.UUID, activeOnly bool) ([]dto.RuleResponse, error) {
	return f.ListFunc(ctx, tenantID, activeOnly)
}

func (f *fakeRuleService) Create(ctx context.Context, tenantID uuid.UUID, req *dto.RuleRequest) (*dto.RuleResponse, error) {
	return f.CreateFunc(ctx, tenantID, req)
}

func (f *fakeRuleService) Update(ctx context.Context, tenantID, id uuid.UUID, req *dto.RuleRequest) (*dto.RuleResponse, error) {
	return f.UpdateFunc(ctx, tenantID, id, req)
}

func (f *fakeRuleService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return f.DeleteFunc(ctx, tenantID, id)
}

type fakeLedgerService struct {
	BulkTransactionsFunc func(ctx context.Context, tenantID, userID uuid.UUID, rows []models.StagedTransaction) (int, error)
	BulkSalesFunc        func(ctx context.Context, tenantID, userID uuid.UUID, sales []dto.PayPaySaleRequest) (int, error)
	ListTransactionsFunc func(ctx context.Context, f repository.TransactionFilter) ([]dto.TransactionResponse, error)
}

func (f *fakeLedgerService) BulkTransactions(ctx context.Context, tenantID, userID uuid.UUID, rows []models.StagedTransaction) (int, error) {
	return f.BulkTransactionsFunc(ctx, tenantID, userID, rows)
}

func (f *fakeLedgerService) BulkSales(ctx context.Context, tenantID, userID uuid.UUID, sales []dto.PayPaySaleRequest) (int, error) {
	return f.BulkSalesFunc(ctx, tenantID, userID, sales)
}

func (f *fakeLedgerService) ListTransactions(ctx context.Context, filter repository.TransactionFilter) ([]dto.TransactionResponse, error) {
	return f.ListTransactionsFunc(ctx, filter)
}

func (f *fakeLedgerService) Summary(ctx context.Context, tenantID uuid.UUID) (*dto.TransactionSummaryResponse, error) {
	return &dto.TransactionSummaryResponse{}, nil
}

func (f *fakeLedgerService) ListSales(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]dto.PayPaySaleResponse, error) {
	return nil, nil
}

func (f *fakeLedgerService) ListBatches(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]dto.ImportBatchResponse, error) {
	return nil, nil
}

// newTestApp mounts routes behind a stand-in for the auth middleware.
func newTestApp(authenticated bool, mount func(r fiber.Router)) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		if authenticated {
			c.Locals("userID", testUser.String())
			c.Locals("tenantID", testTenant.String())
			c.Locals("role", "admin")
		}
		return c.Next()
	})
	mount(app)
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, target string, body any) (*http.Response, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)

	out := map[string]any{}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &out))
	}
	return resp, out
}

func stagedPage(sessionID uuid.UUID) *preview.Page {
	return &preview.Page{
		View: preview.View{
			ID:        sessionID,
			Format:    csvimport.FormatBank,
			FileName:  "nov.csv",
			State:     preview.StateOpen,
			Total:     3,
			Skipped:   []csvimport.SkippedRow{{Line: 6, Reason: "too few fields"}},
			Matched:   1,
			CreatedAt: time.Date(2025, 11, 7, 9, 0, 0, 0, time.UTC),
		},
		Offset: 2,
		Rows: []models.StagedTransaction{{
			TransactionDate: "2025-11-05",
			TransactionType: models.TransactionTypeWithdrawal,
			Amount:          decimal.NewFromInt(3000),
			Category:        models.CategoryOperating,
			ItemName:        "AMAZON",
		}},
	}
}

func importApp(svc *fakeImportService, authenticated bool) *fiber.App {
	h := &ImportHandler{importService: svc, logger: zap.NewNop()}
	return newTestApp(authenticated, func(r fiber.Router) {
		r.Post("/imports", h.Upload)
		r.Get("/imports/:id", h.Preview)
		r.Patch("/imports/:id/rows/:index", h.EditRow)
		r.Post("/imports/:id/confirm", h.Confirm)
		r.Delete("/imports/:id", h.Cancel)
	})
}

func TestImportUpload(t *testing.T) {
	sessionID := uuid.New()
	var got service.StageRequest
	svc := &fakeImportService{StageFunc: func(ctx context.Context, req service.StageRequest) (*preview.Page, error) {
		got = req
		return stagedPage(sessionID), nil
	}}

	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	part, err := w.CreateFormFile("file", "nov.csv")
	require.NoError(t, err)
	_, err = part.Write([]byte("header\nrow\n"))
	require.NoError(t, err)
	require.NoError(t, w.WriteField("format", "bank"))
	require.NoError(t, w.WriteField("encoding", "shift_jis"))
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/imports", body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	resp, err := importApp(svc, true).Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var out dto.ImportPreviewResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.Equal(t, sessionID.String(), out.SessionID)
	require.Equal(t, 3, out.Total)
	require.Equal(t, 1, out.Skipped)
	require.Equal(t, 1, out.RulesApplied)
	require.Len(t, out.Rows, 1)
	require.Equal(t, 2, out.Rows[0].Index)
	require.Equal(t, "AMAZON", out.Rows[0].ItemName)

	require.Equal(t, testTenant, got.TenantID)
	require.Equal(t, testUser, got.UserID)
	require.Equal(t, "nov.csv", got.FileName)
	require.Equal(t, "bank", got.Format)
	require.Equal(t, "shift_jis", got.Encoding)
	require.Equal(t, []byte("header\nrow\n"), got.Data)
}

func TestImportUploadRequiresFileAndAuth(t *testing.T) {
	svc := &fakeImportService{}

	resp, _ := doJSON(t, importApp(svc, true), http.MethodPost, "/imports", map[string]string{"format": "bank"})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = doJSON(t, importApp(svc, false), http.MethodPost, "/imports", nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestImportConfirm(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantError  string
	}{
		{name: "success", wantStatus: http.StatusOK},
		{name: "unknown session", err: preview.ErrSessionNotFound, wantStatus: http.StatusNotFound, wantError: "Import session not found"},
		{name: "already committed", err: preview.ErrSessionClosed, wantStatus: http.StatusConflict, wantError: preview.ErrSessionClosed.Error()},
		{name: "nothing staged", err: preview.ErrNothingToCommit, wantStatus: http.StatusBadRequest, wantError: preview.ErrNothingToCommit.Error()},
		{
			name:       "rejected by ledger",
			err:        &commit.RemoteError{Status: 400, Message: "invalid transaction at index 2"},
			wantStatus: http.StatusBadGateway,
			wantError:  "invalid transaction at index 2",
		},
		{
			name:       "database failure",
			err:        fmt.Errorf("transaction failed: %w", context.DeadlineExceeded),
			wantStatus: http.StatusInternalServerError,
			wantError:  "Failed to commit import: transaction failed: context deadline exceeded",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeImportService{ConfirmFunc: func(ctx context.Context, tenantID, sessionID uuid.UUID) (int, *dto.TransactionSummaryResponse, error) {
				require.Equal(t, testTenant, tenantID)
				if tt.err != nil {
					return 0, nil, tt.err
				}
				return 3, &dto.TransactionSummaryResponse{Count: 3}, nil
			}}

			resp, body := doJSON(t, importApp(svc, true), http.MethodPost, "/imports/"+uuid.NewString()+"/confirm", nil)
			require.Equal(t, tt.wantStatus, resp.StatusCode)
			if tt.wantError != "" {
				require.Equal(t, tt.wantError, body["error"])
				return
			}
			require.Equal(t, true, body["success"])
			require.Equal(t, float64(3), body["inserted"])
		})
	}
}

func TestImportEditRow(t *testing.T) {
	var (
		gotIndex int
		gotPatch preview.RowPatch
	)
	svc := &fakeImportService{EditRowFunc: func(ctx context.Context, tenantID, sessionID uuid.UUID, index int, patch preview.RowPatch) (models.StagedTransaction, error) {
		gotIndex, gotPatch = index, patch
		return models.StagedTransaction{ItemName: "edited", Category: models.CategoryRent}, nil
	}}

	resp, body := doJSON(t, importApp(svc, true), http.MethodPatch, "/imports/"+uuid.NewString()+"/rows/4", map[string]any{
		"category":       "rent",
		"amount":         "1200",
		"assignedUserId": "",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, float64(4), body["index"])
	require.Equal(t, "edited", body["itemName"])

	require.Equal(t, 4, gotIndex)
	require.Equal(t, models.CategoryRent, *gotPatch.Category)
	require.True(t, decimal.NewFromInt(1200).Equal(*gotPatch.Amount))
	require.True(t, gotPatch.ClearAssignee)
	require.Nil(t, gotPatch.TransactionDate)

	resp, body = doJSON(t, importApp(svc, true), http.MethodPatch, "/imports/"+uuid.NewString()+"/rows/1", map[string]any{
		"assignedUserId": "someone",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Equal(t, "invalid assignedUserId", body["error"])

	svc.EditRowFunc = func(ctx context.Context, tenantID, sessionID uuid.UUID, index int, patch preview.RowPatch) (models.StagedTransaction, error) {
		return models.StagedTransaction{}, fmt.Errorf("%w: amount must be positive", preview.ErrInvalidEdit)
	}
	resp, body = doJSON(t, importApp(svc, true), http.MethodPatch, "/imports/"+uuid.NewString()+"/rows/1", map[string]any{"amount": "0"})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Equal(t, "invalid edit: amount must be positive", body["error"])

	svc.EditRowFunc = func(ctx context.Context, tenantID, sessionID uuid.UUID, index int, patch preview.RowPatch) (models.StagedTransaction, error) {
		return models.StagedTransaction{}, fmt.Errorf("%w: %w", preview.ErrInvalidEdit, service.ErrUnknownAssignee)
	}
	resp, body = doJSON(t, importApp(svc, true), http.MethodPatch, "/imports/"+uuid.NewString()+"/rows/1", map[string]any{
		"assignedUserId": uuid.NewString(),
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Equal(t, "invalid edit: assigned user is not a member of this tenant", body["error"])
}

func TestImportPreviewAndCancel(t *testing.T) {
	sessionID := uuid.New()
	svc := &fakeImportService{
		PreviewFunc: func(tenantID, id uuid.UUID, offset, limit int) (*preview.Page, error) {
			require.Equal(t, 2, offset)
			require.Equal(t, 10, limit)
			return stagedPage(id), nil
		},
		CancelFunc: func(tenantID, id uuid.UUID) error {
			return preview.ErrSessionNotFound
		},
	}
	app := importApp(svc, true)

	resp, body := doJSON(t, app, http.MethodGet, "/imports/"+sessionID.String()+"?offset=2&limit=10", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, sessionID.String(), body["session_id"])
	require.Equal(t, float64(10), body["limit"])

	resp, _ = doJSON(t, app, http.MethodGet, "/imports/not-a-uuid", nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodDelete, "/imports/"+sessionID.String(), nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRuleHandlerErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{name: "created", wantStatus: http.StatusCreated},
		{name: "invalid", err: fmt.Errorf("%w: keyword is required", service.ErrInvalidRule), wantStatus: http.StatusBadRequest},
		{name: "foreign assignee", err: fmt.Errorf("%w: %w", service.ErrInvalidRule, service.ErrUnknownAssignee), wantStatus: http.StatusBadRequest},
		{name: "duplicate", err: service.ErrDuplicateKeyword, wantStatus: http.StatusConflict},
		{name: "other", err: context.Canceled, wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeRuleService{CreateFunc: func(ctx context.Context, tenantID uuid.UUID, req *dto.RuleRequest) (*dto.RuleResponse, error) {
				require.Equal(t, "amazon", req.Keyword)
				if tt.err != nil {
					return nil, tt.err
				}
				return &dto.RuleResponse{ID: uuid.NewString(), Keyword: req.Keyword}, nil
			}}
			h := &RuleHandler{ruleService: svc, logger: zap.NewNop()}
			app := newTestApp(true, func(r fiber.Router) { r.Post("/rules", h.CreateRule) })

			resp, _ := doJSON(t, app, http.MethodPost, "/rules", map[string]any{"keyword": "amazon", "category": "operating"})
			require.Equal(t, tt.wantStatus, resp.StatusCode)
		})
	}
}

func TestRuleHandlerListActive(t *testing.T) {
	svc := &fakeRuleService{
		ListFunc: func(ctx context.Context, tenantID uuid.UUID, activeOnly bool) ([]dto.RuleResponse, error) {
			require.True(t, activeOnly)
			return []dto.RuleResponse{{Keyword: "amazon"}, {Keyword: "rent"}}, nil
		},
		DeleteFunc: func(ctx context.Context, tenantID, id uuid.UUID) error {
			return service.ErrRuleNotFound
		},
	}
	h := &RuleHandler{ruleService: svc, logger: zap.NewNop()}
	app := newTestApp(true, func(r fiber.Router) {
		r.Get("/rules", h.ListRules)
		r.Delete("/rules/:id", h.DeleteRule)
	})

	req := httptest.NewRequest(http.MethodGet, "/rules?active=true", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var rules []dto.RuleResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&rules))
	require.Len(t, rules, 2)
	require.Equal(t, "amazon", rules[0].Keyword)

	resp, _ = doJSON(t, app, http.MethodDelete, "/rules/"+uuid.NewString(), nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestLedgerBulkTransactions(t *testing.T) {
	var got []models.StagedTransaction
	svc := &fakeLedgerService{BulkTransactionsFunc: func(ctx context.Context, tenantID, userID uuid.UUID, rows []models.StagedTransaction) (int, error) {
		got = rows
		if len(rows) > 1 {
			return 0, fmt.Errorf("%w: transaction 1: amount must be positive", service.ErrInvalidBatch)
		}
		return len(rows), nil
	}}
	h := &LedgerHandler{ledgerService: svc, logger: zap.NewNop()}
	app := newTestApp(true, func(r fiber.Router) { r.Post("/transactions/bulk", h.BulkTransactions) })

	row := map[string]any{"transactionDate": "2025-11-05", "transactionType": "deposit", "amount": "5000", "itemName": "refund"}

	resp, body := doJSON(t, app, http.MethodPost, "/transactions/bulk", map[string]any{"transactions": []any{row}})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.Equal(t, true, body["success"])
	require.Equal(t, float64(1), body["inserted"])
	require.Equal(t, "refund", got[0].ItemName)
	require.True(t, decimal.NewFromInt(5000).Equal(got[0].Amount))

	resp, body = doJSON(t, app, http.MethodPost, "/transactions/bulk", map[string]any{"transactions": []any{row, row}})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Equal(t, "invalid batch: transaction 1: amount must be positive", body["error"])

	resp, _ = doJSON(t, app, http.MethodPost, "/transactions/bulk", map[string]any{"transactions": []any{}})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestLedgerListTransactionsFilters(t *testing.T) {
	var got repository.TransactionFilter
	svc := &fakeLedgerService{ListTransactionsFunc: func(ctx context.Context, f repository.TransactionFilter) ([]dto.TransactionResponse, error) {
		got = f
		return []dto.TransactionResponse{}, nil
	}}
	h := &LedgerHandler{ledgerService: svc, logger: zap.NewNop()}
	app := newTestApp(true, func(r fiber.Router) { r.Get("/transactions", h.ListTransactions) })

	resp, _ := doJSON(t, app, http.MethodGet, "/transactions?start_date=2025-11-01&limit=20", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, testTenant, got.TenantID)
	require.Equal(t, time.Date(2025, 11, 1, 0, 0, 0, 0, time.UTC), *got.StartDate)
	require.Nil(t, got.EndDate)
	require.Equal(t, 20, got.Limit)

	resp, body := doJSON(t, app, http.MethodGet, "/transactions?end_date=11/30/2025", nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Equal(t, "Invalid end_date, expected YYYY-MM-DD", body["error"])
}
