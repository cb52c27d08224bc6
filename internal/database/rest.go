package database

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

const (
	restPath      = "/rest/v1/"
	rpcPath       = "/rest/v1/rpc/"
	functionsPath = "/functions/v1/"

	maxErrorBody = 512
)

// StatusError is returned when the backend answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("backend status %d: %s", e.StatusCode, e.Body)
}

// RestClient talks to the hosted backend over HTTPS: table reads and upserts,
// edge functions and database RPCs. Every request carries the public API key.
type RestClient struct {
	baseUrl    string
	apiKey     string
	httpClient *http.Client
}

func NewRestClient(baseUrl, apiKey string, timeout time.Duration) *RestClient {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &RestClient{
		baseUrl: strings.TrimRight(baseUrl, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Select reads rows of table filtered by query into out.
func (c *RestClient) Select(ctx context.Context, table string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, restPath+table, query, nil, nil, out)
}

// Upsert inserts row into table or merges it into the row that conflicts on onConflict.
func (c *RestClient) Upsert(ctx context.Context, table, onConflict string, row any) error {
	query := url.Values{}
	if onConflict != "" {
		query.Set("on_conflict", onConflict)
	}
	headers := map[string]string{
		"Prefer": "resolution=merge-duplicates,return=minimal",
	}
	return c.do(ctx, http.MethodPost, restPath+table, query, row, headers, nil)
}

// Invoke calls an edge function with a JSON body.
func (c *RestClient) Invoke(ctx context.Context, function string, body, out any) error {
	return c.do(ctx, http.MethodPost, functionsPath+function, nil, body, nil, out)
}

// RPC calls a database function exposed by the backend.
func (c *RestClient) RPC(ctx context.Context, name string, args, out any) error {
	return c.do(ctx, http.MethodPost, rpcPath+name, nil, args, nil, out)
}

func (c *RestClient) do(ctx context.Context, method, path string, query url.Values, body any, headers map[string]string, out any) error {
	endpoint := c.baseUrl + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request %s: %w", path, err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("build request %s: %w", path, err)
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return fmt.Errorf("request %s: %w", path, &StatusError{StatusCode: resp.StatusCode, Body: string(b)})
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response %s: %w", path, err)
	}
	return nil
}
