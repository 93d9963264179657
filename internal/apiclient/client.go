// Package apiclient is the HTTP client for the clientdesk REST API.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"clientdesk/internal/client"
)

// DefaultTimeout bounds every request when no HTTP client is supplied.
const DefaultTimeout = 30 * time.Second

// Health is the body of GET /health.
type Health struct {
	Status      string    `json:"status"`
	Message     string    `json:"message"`
	Timestamp   time.Time `json:"timestamp"`
	Version     string    `json:"version"`
	Environment string    `json:"environment"`
	Uptime      float64   `json:"uptime"`
	Clients     int       `json:"clients"`
	DB          string    `json:"db"`
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger sets the logger for failed calls.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// Client calls the clientdesk API at a base URL such as
// "http://localhost:3000".
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// New creates a Client for baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the API root.
func (c *Client) BaseURL() string { return c.baseURL }

// List fetches every client.
func (c *Client) List(ctx context.Context) ([]client.Client, error) {
	var out []client.Client
	if err := c.do(ctx, http.MethodGet, "/clients", nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []client.Client{}
	}
	return out, nil
}

// Get fetches one client.
func (c *Client) Get(ctx context.Context, id int64) (client.Client, error) {
	var out client.Client
	err := c.do(ctx, http.MethodGet, clientPath(id), nil, &out)
	return out, err
}

// Create adds a client.
func (c *Client) Create(ctx context.Context, in client.Input) (client.Client, error) {
	var out client.Client
	err := c.do(ctx, http.MethodPost, "/clients", in, &out)
	return out, err
}

// Update replaces the fields of client id.
func (c *Client) Update(ctx context.Context, id int64, in client.Input) (client.Client, error) {
	var out client.Client
	err := c.do(ctx, http.MethodPut, clientPath(id), in, &out)
	return out, err
}

// Delete removes client id.
func (c *Client) Delete(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, clientPath(id), nil, nil)
}

// Health fetches the server health report.
func (c *Client) Health(ctx context.Context) (Health, error) {
	var out Health
	err := c.do(ctx, http.MethodGet, "/health", nil, &out)
	return out, err
}

func clientPath(id int64) string {
	return "/clients/" + strconv.FormatInt(id, 10)
}

func (c *Client) do(ctx context.Context, method, path string, request, result any) error {
	var body io.Reader
	if request != nil {
		var buf bytes.Buffer
		if err := json.NewEncoder(&buf).Encode(request); err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		body = &buf
	}

	url := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		c.logger.Error("api request failed",
			zap.String("method", method),
			zap.String("url", url),
			zap.Error(err),
		)
		return &Error{Message: NetworkErrorMessage, Err: err}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &Error{
			Status:  resp.StatusCode,
			Message: MessageForStatus(resp.StatusCode),
			Details: readDetails(resp.Body),
		}
		c.logger.Warn("api returned error",
			zap.String("method", method),
			zap.String("url", url),
			zap.Int("status", resp.StatusCode),
			zap.Strings("details", apiErr.Details),
		)
		return apiErr
	}

	if result == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(result); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

// readDetails extracts {"error": "..."} or {"errors": [...]} from an error
// body. Anything else yields no details.
func readDetails(r io.Reader) []string {
	data, err := io.ReadAll(io.LimitReader(r, 64<<10))
	if err != nil || len(data) == 0 {
		return nil
	}
	var payload struct {
		Error  string          `json:"error"`
		Errors json.RawMessage `json:"errors"`
	}
	if json.Unmarshal(data, &payload) != nil {
		return nil
	}

	var details []string
	if len(payload.Errors) > 0 {
		var list []string
		var byField map[string]string
		switch {
		case json.Unmarshal(payload.Errors, &list) == nil:
			details = append(details, list...)
		case json.Unmarshal(payload.Errors, &byField) == nil:
			for field, msg := range byField {
				details = append(details, field+": "+msg)
			}
			slices.Sort(details)
		}
	}
	if len(details) == 0 && payload.Error != "" {
		details = append(details, payload.Error)
	}
	return details
}
