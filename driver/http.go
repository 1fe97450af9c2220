package driver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

const defaultAPITimeout = 10 * time.Second

// ErrUnexpectedStatus is wrapped by every non-2xx response error.
var ErrUnexpectedStatus = errors.New("unexpected status")

// StatusError carries the HTTP status of a failed API call.
type StatusError struct {
	Method     string
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.URL, e.StatusCode, http.StatusText(e.StatusCode))
}

func (e *StatusError) Unwrap() error {
	return ErrUnexpectedStatus
}

// APIClient talks JSON to the storefront API that serves products and stock.
type APIClient struct {
	baseURL *url.URL
	client  *http.Client
	logger  *zap.Logger
}

// ConnectAPI builds a client for baseURL. A zero timeout falls back to ten seconds.
func ConnectAPI(baseURL string, timeout time.Duration, logger *zap.Logger) (*APIClient, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid api url %q: %w", baseURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid api url %q: scheme and host are required", baseURL)
	}
	if timeout <= 0 {
		timeout = defaultAPITimeout
	}

	return &APIClient{
		baseURL: u,
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}, nil
}

// GetJSON issues GET {baseURL}/{path} and decodes the JSON body into out.
func (c *APIClient) GetJSON(ctx context.Context, path string, out any) error {
	endpoint := c.baseURL.JoinPath(path).String()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Error("api request failed", zap.String("url", endpoint), zap.Error(err))
		return err
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Warn("api request returned non-2xx", zap.String("url", endpoint), zap.Int("status", resp.StatusCode))
		return &StatusError{Method: http.MethodGet, URL: endpoint, StatusCode: resp.StatusCode}
	}

	if err = json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", endpoint, err)
	}

	return nil
}
