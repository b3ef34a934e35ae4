package ebird

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/errors"
	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/logger"
)

// Client provides methods for interacting with the eBird API
type Client struct {
	config      Config
	httpClient  *http.Client
	cache       *cache.Cache
	rateLimiter *rate.Limiter
	log         logger.Logger
	firstCallMu sync.Once

	metrics struct {
		apiCalls    atomic.Int64
		cacheHits   atomic.Int64
		cacheMisses atomic.Int64
		apiErrors   atomic.Int64
	}
}

// NewClient creates a new eBird API client
func NewClient(config Config, log logger.Logger) (*Client, error) {
	if config.APIKey == "" {
		return nil, errors.Newf("eBird API key is required").
			Category(errors.CategoryConfiguration).
			Component("ebird").
			Build()
	}

	// Use defaults for missing config values
	defaults := DefaultConfig()
	if config.BaseURL == "" {
		config.BaseURL = defaults.BaseURL
	}
	config.BaseURL = strings.TrimRight(config.BaseURL, "/")
	if config.Timeout == 0 {
		config.Timeout = defaults.Timeout
	}
	if config.CacheTTL == 0 {
		config.CacheTTL = defaults.CacheTTL
	}
	if config.RateLimitMS == 0 {
		config.RateLimitMS = defaults.RateLimitMS
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: config.Timeout}
	}

	client := &Client{
		config:      config,
		httpClient:  httpClient,
		cache:       cache.New(config.CacheTTL, 0),
		rateLimiter: rate.NewLimiter(rate.Every(time.Duration(config.RateLimitMS)*time.Millisecond), 1),
		log:         logger.OrDiscard(log).Module("ebird"),
	}

	client.log.Info("eBird client initialized",
		logger.String("base_url", config.BaseURL),
		logger.Duration("cache_ttl", config.CacheTTL),
		logger.Int("rate_limit_ms", config.RateLimitMS))

	return client, nil
}

// GetTaxonomy retrieves the complete eBird taxonomy, optionally localized.
func (c *Client) GetTaxonomy(ctx context.Context, locale string) ([]TaxonomyEntry, error) {
	cacheKey := fmt.Sprintf("taxonomy:%s", locale)

	if cached, found := c.cache.Get(cacheKey); found {
		if taxonomy, ok := cached.([]TaxonomyEntry); ok {
			c.metrics.cacheHits.Add(1)
			c.log.Debug("eBird taxonomy cache hit",
				logger.String("cache_key", cacheKey),
				logger.Int("entries", len(taxonomy)))
			return taxonomy, nil
		}
	}
	c.metrics.cacheMisses.Add(1)

	reqCtx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	// eBird defaults to CSV
	query := url.Values{"fmt": {"json"}}
	if locale != "" {
		query.Set("locale", locale)
	}
	endpoint := c.config.BaseURL + "/ref/taxonomy/ebird?" + query.Encode()

	var taxonomy []TaxonomyEntry
	if err := c.doRequestWithRetry(reqCtx, endpoint, &taxonomy); err != nil {
		return nil, err
	}

	c.cache.Set(cacheKey, taxonomy, cache.DefaultExpiration)
	c.log.Debug("eBird taxonomy cached",
		logger.String("cache_key", cacheKey),
		logger.Int("entries", len(taxonomy)))

	return taxonomy, nil
}

// doRequest performs a GET request with rate limiting and auth
func (c *Client) doRequest(ctx context.Context, endpoint string, result any) error {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return errors.New(err).
			Category(errors.CategoryCancellation).
			Context("operation", "rate_limiter_wait").
			Component("ebird").
			Build()
	}

	start := time.Now()
	c.metrics.apiCalls.Add(1)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		c.metrics.apiErrors.Add(1)
		return errors.Newf("failed to create HTTP request: %w", err).
			Category(errors.CategoryNetwork).
			Component("ebird").
			Build()
	}
	req.Header.Set("X-eBirdApiToken", c.config.APIKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.apiErrors.Add(1)
		c.log.Error("eBird API request failed", logger.Error(err))
		return errors.Newf("HTTP request failed: %w", err).
			Category(errors.CategoryNetwork).
			NetworkContext(endpoint, c.config.Timeout).
			Component("ebird").
			Build()
	}
	defer func() { _ = resp.Body.Close() }()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Newf("failed to read response body: %w", err).
			Category(errors.CategoryNetwork).
			Context("status_code", resp.StatusCode).
			Component("ebird").
			Build()
	}

	if resp.StatusCode >= 400 {
		c.metrics.apiErrors.Add(1)
		detail := string(bodyBytes)
		var apiErr Error
		if json.Unmarshal(bodyBytes, &apiErr) == nil && apiErr.Detail != "" {
			detail = apiErr.Detail
		}

		if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
			c.log.Error("eBird API authentication failed",
				logger.Int("status_code", resp.StatusCode),
				logger.String("message", "Check your eBird API key in the configuration"))
		} else {
			c.log.Warn("eBird API error response",
				logger.Int("status_code", resp.StatusCode),
				logger.String("detail", detail))
		}

		return errors.Newf("eBird API error (status %d): %s", resp.StatusCode, detail).
			Category(getErrorCategory(resp.StatusCode)).
			Context("status_code", resp.StatusCode).
			Component("ebird").
			Build()
	}

	contentType := resp.Header.Get("Content-Type")
	if !strings.Contains(strings.ToLower(contentType), "application/json") {
		return errors.Newf("eBird API returned non-JSON response (Content-Type: %s)", contentType).
			Category(errors.CategoryNetwork).
			Context("status_code", resp.StatusCode).
			Context("content_type", contentType).
			Component("ebird").
			Build()
	}

	if err := json.Unmarshal(bodyBytes, result); err != nil {
		return errors.Newf("failed to parse response: %w", err).
			Category(errors.CategoryFileParsing).
			Context("response_size", len(bodyBytes)).
			Component("ebird").
			Build()
	}

	c.firstCallMu.Do(func() {
		c.log.Info("eBird API authentication successful")
	})
	c.log.Debug("eBird API response",
		logger.Int("status_code", resp.StatusCode),
		logger.Int("response_size", len(bodyBytes)),
		logger.Duration("elapsed", time.Since(start)))

	return nil
}

// doRequestWithRetry wraps doRequest with retry logic for transient failures
func (c *Client) doRequestWithRetry(ctx context.Context, endpoint string, result any) error {
	const maxRetries = 3
	var lastErr error

	for attempt := range maxRetries {
		err := c.doRequest(ctx, endpoint, result)
		if err == nil {
			return nil
		}
		if !retryable(err) {
			return err
		}
		lastErr = err

		if ctx.Err() != nil {
			return lastErr
		}

		if attempt < maxRetries-1 {
			delay := time.Duration(attempt+1) * 500 * time.Millisecond
			c.log.Warn("eBird API request failed, retrying",
				logger.Int("attempt", attempt+1),
				logger.Int("max_retries", maxRetries),
				logger.Duration("delay", delay),
				logger.Error(err))

			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}

	return lastErr
}

// retryable reports whether a request error may succeed on a later attempt.
func retryable(err error) bool {
	var enhancedErr *errors.EnhancedError
	if !errors.As(err, &enhancedErr) {
		return true
	}
	switch enhancedErr.Category {
	case errors.CategoryConfiguration, errors.CategoryNotFound, errors.CategoryValidation,
		errors.CategoryFileParsing, errors.CategoryCancellation:
		return false
	}
	if statusCode, ok := enhancedErr.Context["status_code"].(int); ok {
		// client errors other than 429 will not change on retry
		if statusCode >= 400 && statusCode < 500 && statusCode != http.StatusTooManyRequests {
			return false
		}
	}
	return true
}

// ClearCache clears all cached data
func (c *Client) ClearCache() {
	c.cache.Flush()
	c.log.Info("eBird cache cleared")
}

// Metrics represents eBird client counters
type Metrics struct {
	APICalls    int64 `json:"api_calls"`
	CacheHits   int64 `json:"cache_hits"`
	CacheMisses int64 `json:"cache_misses"`
	APIErrors   int64 `json:"api_errors"`
}

// GetMetrics returns current client metrics
func (c *Client) GetMetrics() Metrics {
	return Metrics{
		APICalls:    c.metrics.apiCalls.Load(),
		CacheHits:   c.metrics.cacheHits.Load(),
		CacheMisses: c.metrics.cacheMisses.Load(),
		APIErrors:   c.metrics.apiErrors.Load(),
	}
}

// getErrorCategory determines the appropriate error category based on HTTP status code
func getErrorCategory(statusCode int) errors.ErrorCategory {
	switch statusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return errors.CategoryConfiguration
	case http.StatusNotFound:
		return errors.CategoryNotFound
	default:
		return errors.CategoryNetwork
	}
}
