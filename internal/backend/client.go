// Package backend is the HTTP JSON client for the ledger import service.
// The service owns all matching, generation and writing; this client only
// moves already-validated parameters over the wire and hands back typed
// payloads.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/ledgerdash/ledgerdash/internal/model"
)

// TransactionKind selects one of the transaction listing endpoints.
type TransactionKind string

const (
	Existing  TransactionKind = "existing"
	Generated TransactionKind = "generated"
	Unmatched TransactionKind = "unmatched"
)

// StatusError is returned for non-2xx GET and DELETE responses. POSTs pass
// their body through instead, since the backend reports validation failures
// as 4xx payloads.
type StatusError struct {
	Code   int
	Status string
}

func (e *StatusError) Error() string { return e.Status }

// Client talks to one backend host with a static token. Failed requests are
// reported through the returned error only; there is no retry.
type Client struct {
	host  string
	token string
	httpc *http.Client
	log   *slog.Logger
}

// New builds a client. An empty token disables the auth header, matching a
// backend running without a configured key.
func New(host, token string, log *slog.Logger) *Client {
	if log == nil {
		log = slog.Default()
	}
	return &Client{host: host, token: token, httpc: &http.Client{}, log: log}
}

// Ping checks liveness and credentials.
func (c *Client) Ping(ctx context.Context) error {
	return c.get(ctx, "ping", nil, nil)
}

// Accounts lists the known ledger account names.
func (c *Client) Accounts(ctx context.Context) ([]string, error) {
	var names []string
	err := c.get(ctx, "accounts", nil, &names)
	return names, err
}

// Balance fetches the per-commodity balances of one import account.
func (c *Client) Balance(ctx context.Context, account string, bypassCache bool) (model.BalancesResponse, error) {
	var resp model.BalancesResponse
	err := c.get(ctx, "balance/"+url.PathEscape(account), cacheQuery(bypassCache), &resp)
	return resp, err
}

// Transactions fetches the rows of one tab.
func (c *Client) Transactions(ctx context.Context, kind TransactionKind, account string, bypassCache bool) ([]model.TransactionRow, error) {
	var rows []model.TransactionRow
	path := fmt.Sprintf("transactions/%s/%s", kind, url.PathEscape(account))
	err := c.get(ctx, path, cacheQuery(bypassCache), &rows)
	return rows, err
}

// WriteTransactions records all currently generated transactions.
func (c *Client) WriteTransactions(ctx context.Context, account string) error {
	return c.post(ctx, "transactions/write/"+url.PathEscape(account), nil, nil)
}

// GenerateTransaction generates one ledger entry from a draft, committing it
// when req.ShouldWrite is set.
func (c *Client) GenerateTransaction(ctx context.Context, account string, req model.TransactionRequest) (model.HledgerTransaction, error) {
	var txn model.HledgerTransaction
	err := c.post(ctx, "transactions/new/"+url.PathEscape(account), req, &txn)
	return txn, err
}

// Rules lists the rules of one import account.
func (c *Client) Rules(ctx context.Context, account string) ([]model.Rule, error) {
	var rules []model.Rule
	err := c.get(ctx, "rules/"+url.PathEscape(account), nil, &rules)
	return rules, err
}

// SetRule upserts a rule. A non-empty message is the backend's validation
// complaint for that rule; the request itself still succeeded.
func (c *Client) SetRule(ctx context.Context, account string, rule model.Rule) (string, error) {
	var msg *string
	if err := c.post(ctx, "rules/"+url.PathEscape(account), rule, &msg); err != nil {
		return "", err
	}
	if msg == nil {
		return "", nil
	}
	return *msg, nil
}

// DeleteRule removes a rule by id.
func (c *Client) DeleteRule(ctx context.Context, id int64) error {
	return c.del(ctx, fmt.Sprintf("rule/%d", id))
}

// IncomeStatement fetches the aggregated income statement for a date range.
func (c *Client) IncomeStatement(ctx context.Context, from, to time.Time) (model.IncomeStatementResponse, error) {
	var resp model.IncomeStatementResponse
	q := url.Values{}
	if !from.IsZero() {
		q.Set("from", from.Format("2006-01-02"))
	}
	if !to.IsZero() {
		q.Set("to", to.Format("2006-01-02"))
	}
	err := c.get(ctx, "reports/income_statement", q, &resp)
	return resp, err
}

// NetWorth fetches the net worth series from a start date.
func (c *Client) NetWorth(ctx context.Context, from time.Time) (model.AlignedData, error) {
	var data model.AlignedData
	q := url.Values{}
	if !from.IsZero() {
		q.Set("from", from.Format("2006-01-02"))
	}
	err := c.get(ctx, "reports/net_worth", q, &data)
	return data, err
}

// DirtyJournalFiles lists journal files with uncommitted changes.
func (c *Client) DirtyJournalFiles(ctx context.Context) ([]string, error) {
	var files []string
	err := c.get(ctx, "journal/dirty", nil, &files)
	return files, err
}

// SaveJournal commits pending journal changes.
func (c *Client) SaveJournal(ctx context.Context, req model.SaveRequest) error {
	return c.post(ctx, "journal/save", req, nil)
}

func cacheQuery(bypass bool) url.Values {
	if !bypass {
		return nil
	}
	return url.Values{"bypass_cache": []string{"true"}}
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	resp, err := c.do(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if err := statusError(resp); err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// post decodes the response best-effort regardless of status: the backend
// answers some POSTs with a 4xx whose body is the payload the caller needs
// (rule validation), and an empty or non-JSON body counts as success.
func (c *Client) post(ctx context.Context, path string, body, out any) error {
	var payload io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s: %w", path, err)
		}
		payload = bytes.NewReader(buf)
	}
	resp, err := c.do(ctx, http.MethodPost, path, nil, payload)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if out != nil {
		_ = json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

func (c *Client) del(ctx context.Context, path string) error {
	resp, err := c.do(ctx, http.MethodDelete, path, nil, nil)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return statusError(resp)
}

func statusError(resp *http.Response) error {
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Code: resp.StatusCode, Status: resp.Status}
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body io.Reader) (*http.Response, error) {
	u := c.host + "/" + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	reqID := uuid.NewString()
	req.Header.Set("X-Request-Id", reqID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.SetBasicAuth("ledgerdash", c.token)
	}
	start := time.Now()
	resp, err := c.httpc.Do(req)
	if err != nil {
		c.log.Warn("request failed", "method", method, "path", path, "id", reqID, "err", err)
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	c.log.Debug("request", "method", method, "path", path, "id", reqID,
		"status", resp.StatusCode, "elapsed", time.Since(start))
	return resp, nil
}
