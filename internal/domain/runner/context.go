package runner

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ogw/sanity-backend/internal/domain/shared"
)

// documentPort is the plain-HTTP port the gateway host exposes for CDM
// retrieval and legacy search.
const documentPort = 16500

// Credentials holds the basic-auth pair used for every outbound transaction.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// EndpointConfig holds the transaction endpoint location.
type EndpointConfig struct {
	Host string `json:"host"`
}

// URL joins the configured host with a service path.
func (e EndpointConfig) URL(path string) string {
	return strings.TrimRight(e.Host, "/") + path
}

var hostPortPattern = regexp.MustCompile(`:\d+$`)

// bareHost strips scheme and port from the configured host.
func (e EndpointConfig) bareHost() string {
	host := strings.TrimRight(e.Host, "/")
	host = strings.TrimPrefix(host, "https://")
	host = strings.TrimPrefix(host, "http://")
	return hostPortPattern.ReplaceAllString(host, "")
}

// PlainURL builds a plain-HTTP URL on the gateway's unencrypted port.
// Legacy search and CDM retrieval are only served there.
func (e EndpointConfig) PlainURL(path string) string {
	return fmt.Sprintf("http://%s:%d%s", e.bareHost(), documentPort, path)
}

// DocumentURL builds the CDM retrieval URL for a correlation identifier.
func (e EndpointConfig) DocumentURL(correlationID string) string {
	return e.PlainURL("/getCdm?ID=" + correlationID)
}

// StatusStoreConfig holds connection parameters for the order-status store.
// ProxyURL selects the query-proxy boundary; the remaining fields describe a
// direct connection for deployments that can reach the store themselves.
type StatusStoreConfig struct {
	ProxyURL       string `json:"proxyUrl,omitempty"`
	Hostname       string `json:"hostname,omitempty"`
	Port           string `json:"port,omitempty"`
	ConnectionType string `json:"connectionType,omitempty"`
	SID            string `json:"sid,omitempty"`
	ServiceName    string `json:"serviceName,omitempty"`
	Username       string `json:"username,omitempty"`
	Password       string `json:"password,omitempty"`
}

// EnvironmentConfig is the per-run connection configuration supplied by the
// caller. It is a plain value object; the engine never reads ambient state.
type EnvironmentConfig struct {
	Auth        Credentials       `json:"auth"`
	Endpoint    EndpointConfig    `json:"endpoint"`
	StatusStore StatusStoreConfig `json:"statusStore"`
}

// Validate checks that the fields every scenario depends on are present.
func (c EnvironmentConfig) Validate() error {
	if c.Auth.Username == "" || c.Auth.Password == "" {
		return shared.NewDomainError("INVALID_INPUT", "environment config is missing auth credentials")
	}
	if c.Endpoint.Host == "" {
		return shared.NewDomainError("INVALID_INPUT", "environment config is missing the endpoint host")
	}
	return nil
}

// ExecutionContext is the mutable per-run state threaded through a single
// workflow invocation. It is owned by exactly one invocation and never shared.
type ExecutionContext struct {
	// OrderID is the client-generated numeric order identifier.
	OrderID string
	// CorrelationID is the server-assigned OGW order identifier extracted
	// from the first successful step.
	CorrelationID string
	// LineIDs holds the subordinate order line identifiers discovered by the
	// first completion check. Once populated it is treated as immutable.
	LineIDs []string
	// DocumentID is the auftragId extracted mid-run for document-callback
	// scenarios.
	DocumentID string
	// Barcode is the FN order barcode looked up for DSL scenarios.
	Barcode string
	// CustomerID is the generated customer identifier for search scenarios.
	CustomerID string
}

// NewExecutionContext creates the per-run state for a fresh order identifier.
func NewExecutionContext(orderID string) *ExecutionContext {
	return &ExecutionContext{OrderID: orderID}
}

// SeedLineIDs records the discovered order line identifiers. The first
// successful completion check wins; later polls never overwrite the set.
func (ec *ExecutionContext) SeedLineIDs(lineIDs []string) {
	if len(ec.LineIDs) > 0 {
		return
	}
	ec.LineIDs = append([]string(nil), lineIDs...)
}
