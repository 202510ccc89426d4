package crmapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/crm/workbench/internal/domain/document"
)

// ErrBackendUnavailable indicates the CRM backend could not be reached
var ErrBackendUnavailable = errors.New("crmapi: backend unavailable")

type tokenKey struct{}

// WithToken returns a context carrying the caller's bearer token. The HTTP
// middleware stores the incoming token here so every backend call runs with
// the user's own credentials.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

func tokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(tokenKey{}).(string)
	return token
}

// Config holds client settings for the CRM backend
type Config struct {
	BaseURL     string
	Timeout     time.Duration
	MaxBodySize int64
}

// Client is the HTTP client for the CRM backend REST API. The resource files
// in this package build the five domain gateways on top of it.
type Client struct {
	baseURL     string
	httpClient  *http.Client
	maxBodySize int64
}

func NewClient(cfg Config) *Client {
	maxBody := cfg.MaxBodySize
	if maxBody == 0 {
		maxBody = 10 * 1024 * 1024
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		httpClient:  &http.Client{Timeout: timeout},
		maxBodySize: maxBody,
	}
}

// doJSON performs a JSON request against the backend. A non-2xx response is
// decoded into a RemoteError so callers can inspect the backend's error code
// and any idempotency-conflict target IDs.
func (c *Client) doJSON(ctx context.Context, method, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("crmapi: failed to encode request: %w", err)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("crmapi: failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := tokenFromContext(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBodySize))
	if err != nil {
		return fmt.Errorf("crmapi: failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return decodeRemoteError(resp.StatusCode, raw)
	}

	if out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("crmapi: failed to decode response: %w", err)
		}
	}
	return nil
}

func decodeRemoteError(status int, raw []byte) error {
	remote := &document.RemoteError{StatusCode: status}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, remote); err != nil {
			remote.Code = "UPSTREAM_ERROR"
		}
	}
	if remote.Code == "" {
		remote.Code = "UPSTREAM_ERROR"
	}
	if remote.Message == "" {
		remote.Message = fmt.Sprintf("CRM backend returned HTTP %d", status)
	}
	return remote
}
