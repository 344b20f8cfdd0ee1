package dashctl

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/okian/crossdash/internal/domain/model"
	"github.com/okian/crossdash/internal/domain/types"
)

// idempotencyHeader matches the header the dashboard reads.
const idempotencyHeader = "Idempotency-Key"

// Client errors.
var (
	ErrRequest      = errors.New("dashboard request failed")
	ErrBackpressure = errors.New("dashboard is applying backpressure")
)

// CommandResponse is the reply to a country or toggle command.
type CommandResponse struct {
	Status    string      `json:"status"`
	Duplicate bool        `json:"duplicate"`
	State     types.State `json:"state"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Client talks to a running dashboard.
type Client struct {
	base   string
	client *http.Client
}

// NewClient creates a client for the dashboard at cfg.BaseURL.
func NewClient(cfg *Config) *Client {
	return &Client{
		base:   strings.TrimRight(cfg.BaseURL, "/"),
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

// Health checks that the dashboard answers /healthz.
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/healthz", nil, "", nil)
}

// State fetches the published dashboard state.
func (c *Client) State(ctx context.Context) (types.State, error) {
	var st types.State
	err := c.do(ctx, http.MethodGet, "/api/state", nil, "", &st)
	return st, err
}

// SetCountry sets the country filter; an empty country clears it.
func (c *Client) SetCountry(ctx context.Context, country string) (CommandResponse, error) {
	var resp CommandResponse
	err := c.do(ctx, http.MethodPost, "/api/commands/country", map[string]string{"country": country}, "", &resp)
	return resp, err
}

// Toggle flips slot to key. An empty idempotency key is replaced by a new uuid.
func (c *Client) Toggle(ctx context.Context, slot model.Slot, key, idempotencyKey string) (CommandResponse, error) {
	if idempotencyKey == "" {
		idempotencyKey = uuid.NewString()
	}
	var resp CommandResponse
	body := map[string]string{"slot": string(slot), "key": key}
	err := c.do(ctx, http.MethodPost, "/api/commands/toggle", body, idempotencyKey, &resp)
	return resp, err
}

func (c *Client) do(ctx context.Context, method, path string, body any, idempotencyKey string, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if idempotencyKey != "" {
		req.Header.Set(idempotencyHeader, idempotencyKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %w", ErrRequest, method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read %s: %w", ErrRequest, path, err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		var e errorResponse
		_ = json.Unmarshal(data, &e)
		kind := ErrRequest
		if resp.StatusCode == http.StatusTooManyRequests {
			kind = ErrBackpressure
		}
		return fmt.Errorf("%w: %s %s: %d %s: %s", kind, method, path, resp.StatusCode, e.Code, e.Message)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: decode %s: %w", ErrRequest, path, err)
	}
	return nil
}
