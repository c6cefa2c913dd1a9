package gateway

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ogw/sanity-backend/internal/domain/runner"
	"go.uber.org/zap"
)

// maxResponseSize is the maximum allowed response size from the order
// gateway (10MB)
const maxResponseSize = 10 * 1024 * 1024

const defaultTimeout = 30 * time.Second

// Client is the outbound HTTP adapter for the order gateway. One transaction
// is one request; the gateway's business protocol reports faults in the
// response body, so HTTP status codes above 400 still return the body to the
// caller for fault classification.
type Client struct {
	httpClient *http.Client
	log        *zap.Logger
}

// NewClient creates a gateway client. A zero timeout falls back to the
// default.
func NewClient(timeout time.Duration, log *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		log:        log,
	}
}

// Post sends one SOAP-style transaction. The response body is returned for
// any HTTP status; only transport-level failures produce an error. The
// gateway never asks for retries and the client never performs them.
func (c *Client) Post(ctx context.Context, url, soapAction, payload string, creds runner.Credentials) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, strings.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("gateway: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "text/xml;charset=UTF-8")
	if soapAction != "" {
		req.Header.Set("SOAPAction", soapAction)
	}
	req.SetBasicAuth(creds.Username, creds.Password)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("gateway: request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return "", fmt.Errorf("gateway: failed to read response: %w", err)
	}

	c.log.Debug("Gateway transaction",
		zap.String("url", url),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
	)
	return string(body), nil
}

// Get fetches a supplementary document. Unlike Post, the HTTP status is part
// of the outcome and handed to the caller.
func (c *Client) Get(ctx context.Context, url string) (int, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, "", fmt.Errorf("gateway: failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, "", fmt.Errorf("gateway: request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return resp.StatusCode, "", fmt.Errorf("gateway: failed to read response: %w", err)
	}
	return resp.StatusCode, string(body), nil
}
