package client

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

	"spendo/internal/dto"
	"spendo/internal/models"

	"go.uber.org/zap"
)

const (
	DefaultBaseURL = "http://localhost:4000/api/Expenses"
	DefaultTimeout = 15 * time.Second
)

// APIError is a non-2xx response from the records API.
type APIError struct {
	Status  int
	Message string
	Detail  string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("api error %d: %s: %s", e.Status, e.Message, e.Detail)
	}
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// Client talks to a single records API base URL. It never retries.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

func New(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) List(ctx context.Context) ([]*models.Record, error) {
	var out []dto.RecordResponse
	if err := c.do(ctx, http.MethodGet, "", nil, &out); err != nil {
		return nil, err
	}

	records := make([]*models.Record, 0, len(out))
	for _, r := range out {
		rec, err := r.ToModel()
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

func (c *Client) Get(ctx context.Context, id string) (*models.Record, error) {
	var out dto.RecordResponse
	if err := c.do(ctx, http.MethodGet, recordPath(id), nil, &out); err != nil {
		return nil, err
	}
	return out.ToModel()
}

func (c *Client) Create(ctx context.Context, req *dto.CreateRecordRequest) (*models.Record, error) {
	var out dto.RecordResponse
	if err := c.do(ctx, http.MethodPost, "", req, &out); err != nil {
		return nil, err
	}
	return out.ToModel()
}

func (c *Client) Update(ctx context.Context, id string, req *dto.UpdateRecordRequest) (*models.Record, error) {
	var out dto.RecordResponse
	if err := c.do(ctx, http.MethodPut, recordPath(id), req, &out); err != nil {
		return nil, err
	}
	return out.ToModel()
}

func (c *Client) Delete(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, recordPath(id), nil, nil)
}

func recordPath(id string) string {
	return "/" + url.PathEscape(id)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("Request failed",
			zap.String("method", method),
			zap.String("url", req.URL.String()),
			zap.Error(err),
		)
		return fmt.Errorf("%s %s: %w", method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		var msg dto.MessageResponse
		if json.Unmarshal(data, &msg) == nil && msg.Message != "" {
			apiErr.Message = msg.Message
			apiErr.Detail = msg.Error
		} else {
			apiErr.Message = http.StatusText(resp.StatusCode)
			apiErr.Detail = strings.TrimSpace(string(data))
		}
		c.logger.Warn("API returned error",
			zap.String("method", method),
			zap.String("path", req.URL.Path),
			zap.Int("status", resp.StatusCode),
			zap.String("message", apiErr.Message),
		)
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
