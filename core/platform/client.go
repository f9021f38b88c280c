package platform

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

	"go.uber.org/zap"
)

// Client sends authenticated requests to the platform API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	project    string
	token      string
	pageSize   int
	maxRetries int
	backoff    time.Duration
	logger     *zap.Logger
}

// NewClient creates a client from cfg.
func NewClient(cfg Config, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = 500
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		project:    cfg.ProjectKey,
		token:      cfg.Token,
		pageSize:   pageSize,
		maxRetries: max(cfg.MaxRetries, 0),
		backoff:    500 * time.Millisecond,
		logger:     logger,
	}
}

// PageSize is the number of resources the client requests per page.
func (c *Client) PageSize() int {
	return c.pageSize
}

// do sends a request to path below the project and decodes a JSON response into out.
// out may be nil. A non-2xx response is returned as *Error.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out any) error {
	var payload []byte
	if in != nil {
		var err error
		if payload, err = json.Marshal(in); err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
	}

	target := c.baseURL + "/" + c.project + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var resp *http.Response
	for attempt := 0; ; attempt++ {
		var reqBody io.Reader = http.NoBody
		if payload != nil {
			reqBody = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, target, reqBody)
		if err != nil {
			return fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		if c.token != "" {
			req.Header.Set("Authorization", "Bearer "+c.token)
		}

		resp, err = c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("%s %s: %w", method, path, err)
		}
		if resp.StatusCode < 500 || attempt >= c.maxRetries {
			break
		}

		resp.Body.Close()
		c.logger.Debug("Retrying platform request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.Int("attempt", attempt+1),
		)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(attempt+1) * c.backoff):
		}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 300 {
		apiErr := &Error{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(body))}
		var eb errorBody
		if json.Unmarshal(body, &eb) == nil && eb.Message != "" {
			apiErr.Message = eb.Message
		}
		return apiErr
	}

	if out == nil || len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response of %s %s: %w", method, path, err)
	}
	return nil
}

// keyPredicate builds the query predicate matching any of keys.
func keyPredicate(keys []string) string {
	quoted := make([]string, len(keys))
	for i, k := range keys {
		b, _ := json.Marshal(k)
		quoted[i] = string(b)
	}
	return "key in (" + strings.Join(quoted, ", ") + ")"
}
