package commit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"agency-ledger/internal/csvimport"
	"agency-ledger/internal/dto"
	"agency-ledger/internal/models"

	"go.uber.org/zap"
)

// Client talks to a running ledger server: it fetches auto-match rules and
// submits confirmed batches to the bulk endpoints.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *zap.Logger
}

func NewClient(baseURL, token string, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// ActiveRules fetches the tenant's active rules in server order.
func (c *Client) ActiveRules(ctx context.Context) ([]models.AutoMatchRule, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/auto-match-rules?active=true", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch rules: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, remoteError(resp)
	}

	var payload []dto.RuleResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode rules: %w", err)
	}

	rules := make([]models.AutoMatchRule, 0, len(payload))
	for _, r := range payload {
		rule, err := r.ToModel()
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

// Commit posts the batch to the bulk endpoint for its format. A rejection is
// returned as *RemoteError with the server's message.
func (c *Client) Commit(ctx context.Context, batch Batch) (int, error) {
	var (
		path string
		body any
	)
	switch batch.Format {
	case csvimport.FormatBank:
		path = "/transactions/bulk"
		body = dto.BulkTransactionsRequest{Transactions: batch.Rows}
	case csvimport.FormatPayPay:
		sales := make([]dto.PayPaySaleRequest, len(batch.Rows))
		for i, row := range batch.Rows {
			sales[i] = dto.NewPayPaySaleRequest(row)
		}
		path = "/paypay/sales/bulk"
		body = dto.BulkPayPayRequest{Sales: sales}
	default:
		return 0, fmt.Errorf("unsupported batch format %q", batch.Format)
	}

	jsonData, err := json.Marshal(body)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal batch: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(jsonData))
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	c.setHeaders(req)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to submit batch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		rerr := remoteError(resp)
		c.logger.Warn("Batch commit rejected",
			zap.String("path", path),
			zap.Int("rows", len(batch.Rows)),
			zap.Error(rerr),
		)
		return 0, rerr
	}

	var result dto.BulkResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return 0, fmt.Errorf("failed to decode commit response: %w", err)
	}

	c.logger.Info("Batch committed",
		zap.String("path", path),
		zap.Int("inserted", result.Inserted),
	)
	return result.Inserted, nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}

// remoteError reads {"error": ...} or {"message": ...}, falling back to the raw body.
func remoteError(resp *http.Response) *RemoteError {
	bodyBytes, _ := io.ReadAll(resp.Body)

	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	msg := strings.TrimSpace(string(bodyBytes))
	if err := json.Unmarshal(bodyBytes, &payload); err == nil {
		switch {
		case payload.Error != "":
			msg = payload.Error
		case payload.Message != "":
			msg = payload.Message
		}
	}
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}
	return &RemoteError{Status: resp.StatusCode, Message: msg}
}
