package feed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Document names
const (
	DocumentAdvisor = "advisor"
	DocumentPrice   = "price"
)

const (
	DefaultAdvisorURL = "https://spot-bid-advisor.s3.amazonaws.com/spot-advisor-data.json"
	DefaultPriceURL   = "http://spot-price.s3.amazonaws.com/spot.js"

	defaultRetries = 3
	defaultTimeout = 30 * time.Second
)

// Backoff returns the retry sleep duration for the given attempt number.
func Backoff(attempt int) time.Duration {
	switch attempt {
	case 0:
		return 100 * time.Millisecond
	case 1:
		return 250 * time.Millisecond
	default:
		return 500 * time.Millisecond
	}
}

// StatusError is returned when a feed answers with a non-2xx status.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s returned %d", e.URL, e.StatusCode)
}

// Client fetches the advisor and price documents.
type Client struct {
	logger     *zap.Logger
	httpClient HTTPClient
	advisorURL string
	priceURL   string
	retryMax   int
	backoff    func(attempt int) time.Duration
	observer   FetchObserver
	timeout    time.Duration
}

// ClientOption allows customizing the client
type ClientOption func(*Client)

// WithHTTPClient allows injecting a custom HTTP client
func WithHTTPClient(client HTTPClient) ClientOption {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithURLs overrides the document locations. Empty values keep the defaults.
func WithURLs(advisorURL, priceURL string) ClientOption {
	return func(c *Client) {
		if advisorURL != "" {
			c.advisorURL = advisorURL
		}
		if priceURL != "" {
			c.priceURL = priceURL
		}
	}
}

// WithRetries sets how many times a failed request is retried.
func WithRetries(retries int) ClientOption {
	return func(c *Client) {
		c.retryMax = retries
	}
}

// WithBackoff replaces the retry sleep schedule.
func WithBackoff(backoff func(attempt int) time.Duration) ClientOption {
	return func(c *Client) {
		c.backoff = backoff
	}
}

// WithTimeout sets the per-request timeout. It applies to any *http.Client,
// whatever the option order; other HTTPClient implementations are left as is.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// WithFetchObserver reports the duration of every document retrieval.
func WithFetchObserver(obs FetchObserver) ClientOption {
	return func(c *Client) {
		c.observer = obs
	}
}

// NewClient creates a new feed client
func NewClient(logger *zap.Logger, opts ...ClientOption) *Client {
	c := &Client{
		logger:     logger,
		httpClient: &http.Client{Timeout: defaultTimeout},
		advisorURL: DefaultAdvisorURL,
		priceURL:   DefaultPriceURL,
		retryMax:   defaultRetries,
		backoff:    Backoff,
	}

	for _, opt := range opts {
		opt(c)
	}

	if hc, ok := c.httpClient.(*http.Client); ok && c.timeout > 0 {
		// Copy so a shared client such as http.DefaultClient is not mutated.
		withTimeout := *hc
		withTimeout.Timeout = c.timeout
		c.httpClient = &withTimeout
	}

	return c
}

// FetchAdvisorData downloads the spot advisor document.
func (c *Client) FetchAdvisorData(ctx context.Context) ([]byte, error) {
	c.logger.Info("Fetching spot advisor data...", zap.String("url", c.advisorURL))
	return c.fetch(ctx, DocumentAdvisor, c.advisorURL)
}

// FetchPriceData downloads the spot price document and removes its callback wrapper.
func (c *Client) FetchPriceData(ctx context.Context) ([]byte, error) {
	c.logger.Info("Fetching spot price data...", zap.String("url", c.priceURL))
	body, err := c.fetch(ctx, DocumentPrice, c.priceURL)
	if err != nil {
		return nil, err
	}
	return StripCallback(body)
}

func (c *Client) fetch(ctx context.Context, document, url string) ([]byte, error) {
	start := time.Now()
	body, err := c.get(ctx, url)
	if c.observer != nil {
		c.observer.ObserveFetch(document, time.Since(start), err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s document: %w", document, err)
	}

	c.logger.Debug("Fetched document",
		zap.String("document", document),
		zap.Int("bytes", len(body)),
		zap.Duration("elapsed", time.Since(start)))
	return body, nil
}

// get retries transport errors and 5xx answers; 4xx answers fail immediately.
func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.retryMax; attempt++ {
		if attempt > 0 {
			timer := time.NewTimer(c.backoff(attempt - 1))
			select {
			case <-ctx.Done():
				timer.Stop()
				return nil, fmt.Errorf("context cancelled during backoff: %w", ctx.Err())
			case <-timer.C:
			}
		}

		body, retry, err := c.do(ctx, url)
		if err == nil {
			return body, nil
		}
		if !retry {
			return nil, err
		}

		lastErr = err
		c.logger.Warn("Request failed, retrying",
			zap.String("url", url),
			zap.Int("attempt", attempt+1),
			zap.Int("max_retries", c.retryMax),
			zap.Error(err))
	}

	return nil, fmt.Errorf("request failed after %d attempts: %w", c.retryMax+1, lastErr)
}

func (c *Client) do(ctx context.Context, url string) ([]byte, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, false, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, false, err
		}
		return nil, true, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, true, fmt.Errorf("failed to read response body: %w", err)
	}

	switch {
	case resp.StatusCode >= 500:
		return nil, true, &StatusError{URL: url, StatusCode: resp.StatusCode}
	case resp.StatusCode >= 300:
		return nil, false, &StatusError{URL: url, StatusCode: resp.StatusCode}
	}

	return body, false, nil
}

const callbackPrefix = "callback("

// ErrNoJSONObject is returned by StripCallback when the text holds no braces.
var ErrNoJSONObject = errors.New("no JSON object found in callback wrapper")

// StripCallback extracts the JSON object from a JSONP style "callback({...});"
// wrapper: from the first '{' after "callback(" (or the first '{' anywhere if
// the prefix is missing) through the last '}'. Unwrapped JSON passes through.
func StripCallback(text []byte) ([]byte, error) {
	s := string(text)

	from := 0
	if idx := strings.Index(s, callbackPrefix); idx >= 0 {
		from = idx + len(callbackPrefix)
	}

	start := strings.IndexByte(s[from:], '{')
	end := strings.LastIndexByte(s, '}')
	if start < 0 || end < 0 || from+start > end {
		return nil, ErrNoJSONObject
	}

	return []byte(s[from+start : end+1]), nil
}
