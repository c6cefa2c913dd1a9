package statusstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ogw/sanity-backend/internal/domain/runner"
	"github.com/ogw/sanity-backend/internal/domain/shared"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

// maxResponseSize caps proxy responses (10MB)
const maxResponseSize = 10 * 1024 * 1024

const proxyTimeout = 20 * time.Second

// ProxyClient queries the order-status store through the HTTP query proxy
// deployed next to it. One request carries the connection descriptor and one
// query; the proxy answers with a JSON row set.
type ProxyClient struct {
	cfg        runner.StatusStoreConfig
	httpClient *http.Client
	log        *zap.Logger
}

// NewProxyClient creates a proxy-backed status source for one run's
// connection parameters.
func NewProxyClient(cfg runner.StatusStoreConfig, log *zap.Logger) *ProxyClient {
	if log == nil {
		log = zap.NewNop()
	}
	return &ProxyClient{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: proxyTimeout},
		log:        log,
	}
}

type proxyRequest struct {
	DB    proxyConnection `json:"db"`
	Query string          `json:"query"`
}

type proxyConnection struct {
	Hostname       string `json:"hostname"`
	Port           string `json:"port"`
	ConnectionType string `json:"connectionType"`
	SID            string `json:"sid,omitempty"`
	ServiceName    string `json:"serviceName,omitempty"`
	Username       string `json:"username"`
	Password       string `json:"password"`
}

// OrderLineStatuses runs the completion-check query for a correlation
// identifier and maps the proxy's rows onto status rows.
func (c *ProxyClient) OrderLineStatuses(ctx context.Context, correlationID string) ([]runner.StatusRow, error) {
	body, err := c.query(ctx, orderLineStatusQuery(correlationID))
	if err != nil {
		return nil, err
	}
	return parseStatusRows(body), nil
}

// QueryValue runs an arbitrary scalar query and returns the first column of
// the first row.
func (c *ProxyClient) QueryValue(ctx context.Context, query string) (string, error) {
	body, err := c.query(ctx, query)
	if err != nil {
		return "", err
	}
	first := gjson.Get(body, "rows.0")
	if !first.Exists() {
		return "", nil
	}
	if first.IsArray() {
		return first.Get("0").String(), nil
	}
	var value string
	first.ForEach(func(_, v gjson.Result) bool {
		value = v.String()
		return false
	})
	return value, nil
}

func (c *ProxyClient) query(ctx context.Context, query string) (string, error) {
	payload, err := json.Marshal(proxyRequest{
		DB: proxyConnection{
			Hostname:       c.cfg.Hostname,
			Port:           c.cfg.Port,
			ConnectionType: c.cfg.ConnectionType,
			SID:            c.cfg.SID,
			ServiceName:    c.cfg.ServiceName,
			Username:       c.cfg.Username,
			Password:       c.cfg.Password,
		},
		Query: query,
	})
	if err != nil {
		return "", fmt.Errorf("statusstore: failed to encode proxy request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.ProxyURL, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("statusstore: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", shared.ErrStoreUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return "", fmt.Errorf("statusstore: failed to read response: %w", err)
	}
	if resp.StatusCode >= 400 {
		c.log.Warn("Proxy query rejected",
			zap.Int("status", resp.StatusCode),
		)
		return "", fmt.Errorf("%w: HTTP %d", shared.ErrStoreUnavailable, resp.StatusCode)
	}
	return string(body), nil
}

// parseStatusRows accepts both row shapes the proxy emits: keyed objects
// and positional arrays in query column order.
func parseStatusRows(body string) []runner.StatusRow {
	var rows []runner.StatusRow
	gjson.Get(body, "rows").ForEach(func(_, row gjson.Result) bool {
		if row.IsArray() {
			cols := row.Array()
			r := runner.StatusRow{}
			if len(cols) > 0 {
				r.Status = cols[0].String()
			}
			if len(cols) > 1 {
				r.LineID = cols[1].String()
			}
			if len(cols) > 2 {
				r.ErrorCode = cols[2].String()
			}
			rows = append(rows, r)
			return true
		}
		rows = append(rows, runner.StatusRow{
			Status:    row.Get("MESSAGE_STATUS").String(),
			LineID:    row.Get("ORDER_LINE_ID").String(),
			ErrorCode: row.Get("ERROR_CODE").String(),
		})
		return true
	})
	return rows
}
