package catalog

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const maxBodyBytes = 4 << 20

// Getter performs GET requests and returns the status and body
type Getter interface {
	Get(ctx context.Context, url string) (int, []byte, error)
}

// ClientConfig holds configuration options for the catalog HTTP client
type ClientConfig struct {
	// Timeout per request attempt
	Timeout time.Duration

	// RequestsPerSecond caps outgoing requests; 0 disables limiting
	RequestsPerSecond float64
	Burst             int

	// Retries for transport failures and 5xx answers
	Retries    int
	RetryDelay time.Duration

	UserAgent string
}

// DefaultClientConfig returns the default client configuration
func DefaultClientConfig() *ClientConfig {
	return &ClientConfig{
		Timeout:           10 * time.Second,
		RequestsPerSecond: 5,
		Burst:             2,
		Retries:           1,
		RetryDelay:        250 * time.Millisecond,
		UserAgent:         "combosearch/1.0",
	}
}

// Client is the shared HTTP client for all pagers. It is safe for
// concurrent use.
type Client struct {
	config     *ClientConfig
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *zap.Logger
}

// NewClient creates a client; zero values in config fall back to defaults
func NewClient(config *ClientConfig, logger *zap.Logger) *Client {
	defaults := DefaultClientConfig()
	if config == nil {
		config = defaults
	}
	if config.Timeout <= 0 {
		config.Timeout = defaults.Timeout
	}
	if config.Burst <= 0 {
		config.Burst = defaults.Burst
	}
	if config.Retries < 0 {
		config.Retries = 0
	}
	if config.UserAgent == "" {
		config.UserAgent = defaults.UserAgent
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	limit := rate.Inf
	if config.RequestsPerSecond > 0 {
		limit = rate.Limit(config.RequestsPerSecond)
	}

	return &Client{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout},
		limiter:    rate.NewLimiter(limit, config.Burst),
		logger:     logger.Named("catalog"),
	}
}

// Get fetches url. Non-2xx statuses are returned, not treated as errors;
// only a transport failure on the last attempt yields an error.
func (c *Client) Get(ctx context.Context, url string) (int, []byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.config.Retries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return 0, nil, ctx.Err()
			case <-time.After(c.config.RetryDelay):
			}
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return 0, nil, err
		}

		status, body, err := c.do(ctx, url)
		switch {
		case err != nil:
			lastErr = err
			c.logger.Warn("request failed", zap.String("url", url), zap.Int("attempt", attempt+1), zap.Error(err))
			if ctx.Err() != nil {
				return 0, nil, ctx.Err()
			}
		case status >= 500 && attempt < c.config.Retries:
			c.logger.Warn("server error, retrying", zap.String("url", url), zap.Int("status", status))
		default:
			c.logger.Debug("request done", zap.String("url", url), zap.Int("status", status), zap.Int("bytes", len(body)))
			return status, body, nil
		}
	}
	return 0, nil, lastErr
}

func (c *Client) do(ctx context.Context, url string) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.config.UserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("failed to read body: %w", err)
	}
	return resp.StatusCode, body, nil
}
