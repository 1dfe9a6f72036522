package httpclient

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Getter fetches a JSON document into out. Any final rejection is a fetch
// failure; callers map it to a domain error.
type Getter interface {
	GetJSON(ctx context.Context, rawURL string, params map[string]string, out interface{}) error
}

// Client is a thin JSON HTTP client with exponential-backoff retries on
// transient failures.
type Client struct {
	http       *http.Client
	logger     *zap.Logger
	maxRetries uint
}

// New creates a Client. timeout bounds each individual attempt.
func New(timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		http:       &http.Client{Timeout: timeout},
		logger:     logger.Named("httpclient"),
		maxRetries: 2,
	}
}

// GetJSON performs a GET request with query params and decodes the JSON
// response into out.
func (c *Client) GetJSON(ctx context.Context, rawURL string, params map[string]string, out interface{}) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return errors.Wrap(err, "url.Parse")
	}
	if len(params) > 0 {
		q := u.Query()
		for k, v := range params {
			q.Set(k, v)
		}
		u.RawQuery = q.Encode()
	}

	body, err := backoff.Retry(ctx, func() ([]byte, error) {
		return c.get(ctx, u.String())
	},
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxTries(c.maxRetries+1),
	)
	if err != nil {
		return errors.Wrap(err, "request failed")
	}

	if err := json.Unmarshal(body, out); err != nil {
		return errors.Wrap(err, "json.Unmarshal")
	}
	return nil
}

func (c *Client) get(ctx context.Context, fullURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, backoff.Permanent(errors.Wrap(err, "http.NewRequestWithContext"))
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug("request attempt failed", zap.String("url", fullURL), zap.Error(err))
		return nil, errors.Wrap(err, "c.http.Do")
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.logger.Debug("failed to close response body", zap.Error(err))
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "io.ReadAll")
	}

	if resp.StatusCode >= http.StatusInternalServerError {
		// Server-side failures are worth a retry.
		return nil, errors.Errorf("status %d", resp.StatusCode)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return nil, backoff.Permanent(errors.Errorf("status %d", resp.StatusCode))
	}
	return body, nil
}
