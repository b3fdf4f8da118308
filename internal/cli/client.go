package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"shopsim/internal/sim"
	"shopsim/internal/store"

	"github.com/google/uuid"
)

// APIError is a non-2xx response from the shopsim API.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api status %d: %s", e.Status, e.Body)
}

// IsAPIError reports whether err came back from the server rather than from
// the network.
func IsAPIError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr)
}

type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type CatalogEntry struct {
	Species string `json:"species"`
	Attack  int    `json:"attack"`
	Health  int    `json:"health"`
}

// CreateRun asks the server to simulate and store a round. A nil seed lets
// the server pick one.
func (c *Client) CreateRun(ctx context.Context, seed *int64, maxSteps int, idem string) (store.Run, error) {
	body := map[string]any{}
	if seed != nil {
		body["seed"] = *seed
	}
	if maxSteps > 0 {
		body["max_steps"] = maxSteps
	}
	var out store.Run
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/runs", body, &out, idem)
	return out, err
}

// ImportRun uploads a locally simulated round. The server replays it from its
// seed before storing it.
func (c *Client) ImportRun(ctx context.Context, res sim.Result, idem string) (store.Summary, error) {
	var out store.Summary
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/runs/import", res, &out, idem)
	return out, err
}

func (c *Client) GetRun(ctx context.Context, id uuid.UUID) (store.Run, error) {
	var out store.Run
	err := c.jsonRequest(ctx, http.MethodGet, "/v1/runs/"+url.PathEscape(id.String()), nil, &out, "")
	return out, err
}

func (c *Client) ListRuns(ctx context.Context, limit int) ([]store.Summary, error) {
	var out struct {
		Runs []store.Summary `json:"runs"`
	}
	err := c.jsonRequest(ctx, http.MethodGet, fmt.Sprintf("/v1/runs?limit=%d", limit), nil, &out, "")
	return out.Runs, err
}

func (c *Client) Catalog(ctx context.Context) ([]CatalogEntry, []string, error) {
	var out struct {
		Species []CatalogEntry `json:"species"`
		Foods   []string       `json:"foods"`
	}
	err := c.jsonRequest(ctx, http.MethodGet, "/v1/catalog", nil, &out, "")
	return out.Species, out.Foods, err
}

func (c *Client) jsonRequest(ctx context.Context, method, path string, in any, out any, idem string) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if idem != "" {
		req.Header.Set("Idempotency-Key", idem)
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &APIError{Status: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
