// Package dashboard is the operator-facing client of the ledger API: a typed
// HTTP client, the client-side state it keeps in sync, and a terminal view.
package dashboard

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const adminTokenHeader = "X-Admin-Token"

// Transaction is a ledger entry as returned by the API.
type Transaction struct {
	ID         string    `json:"id"`
	Tanggal    time.Time `json:"tanggal"`
	Penghuni   string    `json:"penghuni"`
	Kamar      string    `json:"kamar"`
	Keterangan string    `json:"keterangan"`
	Jumlah     int64     `json:"jumlah"`
	Tipe       string    `json:"tipe"`
	CreatedAt  time.Time `json:"created_at"`
}

// Stats are the ledger totals.
type Stats struct {
	Pemasukan   int64 `json:"pemasukan"`
	Pengeluaran int64 `json:"pengeluaran"`
	Saldo       int64 `json:"saldo"`
}

// CreateRequest is the body of a create call. Jumlah is sent as a JSON
// number; a nil Jumlah is sent as null and rejected by the server.
type CreateRequest struct {
	Tanggal    string       `json:"tanggal"`
	Penghuni   string       `json:"penghuni"`
	Kamar      string       `json:"kamar"`
	Keterangan string       `json:"keterangan"`
	Jumlah     *json.Number `json:"jumlah"`
	Tipe       string       `json:"tipe"`
}

// APIError is a non-2xx response. Detail is the server's message, or empty
// when the body could not be decoded.
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("unexpected status %d", e.Status)
	}
	return fmt.Sprintf("status %d: %s", e.Status, e.Detail)
}

// Client communicates with the ledger API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new ledger API client.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), httpClient: httpClient}
}

// ListTransactions fetches the whole ledger.
func (c *Client) ListTransactions(ctx context.Context) ([]Transaction, error) {
	var result struct {
		Items []Transaction `json:"items"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/transactions", "", nil, &result); err != nil {
		return nil, fmt.Errorf("fetching transactions: %w", err)
	}
	if result.Items == nil {
		result.Items = []Transaction{}
	}
	return result.Items, nil
}

// GetStats fetches the ledger totals.
func (c *Client) GetStats(ctx context.Context) (Stats, error) {
	var stats Stats
	if err := c.do(ctx, http.MethodGet, "/api/stats", "", nil, &stats); err != nil {
		return Stats{}, fmt.Errorf("fetching stats: %w", err)
	}
	return stats, nil
}

// CreateTransaction submits a new entry with the admin token.
func (c *Client) CreateTransaction(ctx context.Context, token string, req CreateRequest) (*Transaction, error) {
	var created Transaction
	if err := c.do(ctx, http.MethodPost, "/api/transactions", token, req, &created); err != nil {
		return nil, fmt.Errorf("creating transaction: %w", err)
	}
	return &created, nil
}

// DeleteTransaction removes an entry with the admin token.
func (c *Client) DeleteTransaction(ctx context.Context, token, id string) error {
	if err := c.do(ctx, http.MethodDelete, "/api/transactions/"+url.PathEscape(id), token, nil, nil); err != nil {
		return fmt.Errorf("deleting transaction: %w", err)
	}
	return nil
}

// VerifyToken asks the server whether token is a valid admin credential.
func (c *Client) VerifyToken(ctx context.Context, token string) error {
	if err := c.do(ctx, http.MethodGet, "/api/auth/verify", token, nil, nil); err != nil {
		return fmt.Errorf("verifying token: %w", err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path, token string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set(adminTokenHeader, token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		var payload struct {
			Detail string `json:"detail"`
		}
		if json.NewDecoder(resp.Body).Decode(&payload) == nil {
			apiErr.Detail = payload.Detail
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
