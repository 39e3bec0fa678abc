package remoting

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"net/http"
	"strings"
	"time"
)

const maxResponseBytes = 4 << 20

// RouteBuilder maps a contract and operation name to the path appended to the
// base URL. It must be a pure function.
type RouteBuilder func(contract, operation string) string

// DefaultRouteBuilder routes to /<contract>/<operation>.
func DefaultRouteBuilder(contract, operation string) string {
	return "/" + contract + "/" + operation
}

// Proxy is the configuration a remote client is built from. It is a value;
// every With* method returns a modified copy.
type Proxy struct {
	baseURL string
	route   RouteBuilder
	headers map[string]string
	client  *http.Client
	logger  *slog.Logger
}

// CreateAPI starts from an empty proxy configuration.
func CreateAPI() Proxy {
	return Proxy{route: DefaultRouteBuilder}
}

func (p Proxy) WithBaseURL(baseURL string) Proxy {
	p.baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	return p
}

func (p Proxy) WithRouteBuilder(route RouteBuilder) Proxy {
	if route == nil {
		route = DefaultRouteBuilder
	}
	p.route = route
	return p
}

func (p Proxy) WithCustomHeader(key, value string) Proxy {
	headers := maps.Clone(p.headers)
	if headers == nil {
		headers = map[string]string{}
	}
	headers[http.CanonicalHeaderKey(key)] = value
	p.headers = headers
	return p
}

func (p Proxy) WithAuthorizationHeader(value string) Proxy {
	return p.WithCustomHeader("Authorization", value)
}

func (p Proxy) WithHTTPClient(client *http.Client) Proxy {
	p.client = client
	return p
}

func (p Proxy) WithLogger(logger *slog.Logger) Proxy {
	p.logger = logger
	return p
}

// Endpoint returns the URL an operation of the contract is served at.
func (p Proxy) Endpoint(contract, operation string) string {
	return p.baseURL + p.route(contract, operation)
}

// Build binds the proxy to a contract.
func (p Proxy) Build(contract Contract) (*Client, error) {
	if p.baseURL == "" {
		return nil, ErrNoBaseURL
	}
	if p.client == nil {
		p.client = http.DefaultClient
	}
	if p.logger == nil {
		p.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Client{proxy: p, contract: contract}, nil
}

// Client performs calls for the operations of one contract.
type Client struct {
	proxy    Proxy
	contract Contract
}

func (c *Client) Contract() Contract {
	return c.contract
}

// Bind returns a callable for op. Each call is one request/response round
// trip; failures of any kind wrap ErrTransport.
func Bind[Req, Resp any](c *Client, op Operation[Req, Resp]) (func(context.Context, Req) (Resp, error), error) {
	if !c.contract.Declares(op.Name) {
		return nil, fmt.Errorf("%w: %s.%s", ErrUnknownOperation, c.contract.Name, op.Name)
	}
	endpoint := c.proxy.Endpoint(c.contract.Name, op.Name)
	return func(ctx context.Context, req Req) (Resp, error) {
		var zero Resp
		body, err := op.Encode(req)
		if err != nil {
			return zero, fmt.Errorf("%w: encode %s.%s: %w", ErrTransport, c.contract.Name, op.Name, err)
		}
		data, err := c.roundTrip(ctx, endpoint, body)
		if err != nil {
			return zero, err
		}
		out, err := op.Decode(data)
		if err != nil {
			return zero, fmt.Errorf("%w: %s: %w", ErrDecode, endpoint, err)
		}
		return out, nil
	}, nil
}

func (c *Client) roundTrip(ctx context.Context, endpoint string, body []byte) ([]byte, error) {
	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range c.proxy.headers {
		req.Header.Set(k, v)
	}

	resp, err := c.proxy.client.Do(req)
	if err != nil {
		c.proxy.logger.DebugContext(ctx, "remoting call failed", "endpoint", endpoint, "error", err)
		return nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", ErrTransport, endpoint, err)
	}
	c.proxy.logger.DebugContext(ctx, "remoting call",
		"endpoint", endpoint,
		"status", resp.StatusCode,
		"bytes", len(data),
		"elapsed", time.Since(start),
	)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Endpoint: endpoint, Code: resp.StatusCode, Body: snippet(data)}
	}
	return data, nil
}

func snippet(data []byte) string {
	s := strings.TrimSpace(string(data))
	if len(s) > 200 {
		s = s[:200] + "..."
	}
	return s
}
