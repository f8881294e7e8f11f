package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"agency-ledger/internal/api/handlers"
	"agency-ledger/pkg/auth"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRouterGuards(t *testing.T) {
	jwtManager := auth.NewJWTManager("router-test-secret", time.Hour, 24*time.Hour)
	logger := zap.NewNop()

	app := SetupRouter(
		handlers.NewAuthHandler(nil, logger),
		handlers.NewRuleHandler(nil, logger),
		handlers.NewImportHandler(nil, logger),
		handlers.NewLedgerHandler(nil, logger),
		handlers.NewUserHandler(nil, logger),
		jwtManager,
		logger,
		1024*1024,
	)

	member, err := jwtManager.GenerateToken(uuid.NewString(), uuid.NewString(), "staff", "staff@example.com", auth.RoleMember)
	require.NoError(t, err)

	tests := []struct {
		name       string
		method     string
		path       string
		token      string
		wantStatus int
	}{
		{name: "health is public", method: http.MethodGet, path: "/health", wantStatus: http.StatusOK},
		{name: "rules need a token", method: http.MethodGet, path: "/api/v1/auto-match-rules", wantStatus: http.StatusUnauthorized},
		{name: "garbage token", method: http.MethodGet, path: "/api/v1/imports/history", token: "nope", wantStatus: http.StatusUnauthorized},
		{name: "members cannot import", method: http.MethodPost, path: "/api/v1/imports", token: member, wantStatus: http.StatusForbidden},
		{name: "members cannot bulk insert", method: http.MethodPost, path: "/api/v1/transactions/bulk", token: member, wantStatus: http.StatusForbidden},
		{name: "members cannot edit rules", method: http.MethodDelete, path: "/api/v1/auto-match-rules/" + uuid.NewString(), token: member, wantStatus: http.StatusForbidden},
		{name: "unknown route", method: http.MethodGet, path: "/api/v2/nothing", wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}

			resp, err := app.Test(req)
			require.NoError(t, err)
			require.Equal(t, tt.wantStatus, resp.StatusCode)
		})
	}
}
