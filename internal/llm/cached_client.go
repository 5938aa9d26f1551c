package llm

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/odds-oracle/internal/config"
	"github.com/yourusername/odds-oracle/internal/models"
)

// CachedClient wraps Client with response caching. Identical payloads within
// the TTL reuse the earlier answer instead of calling the API again.
type CachedClient struct {
	client *Client
	cache  *ResponseCache
	logger *logrus.Entry
}

// NewCachedClient creates a new cached advisor client
func NewCachedClient(cfg *config.LLMConfig, logger *logrus.Logger) (*CachedClient, error) {
	client, err := NewClient(cfg, logger)
	if err != nil {
		return nil, err
	}

	ttl := time.Duration(cfg.CacheTTLSeconds) * time.Second
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return WrapWithCache(client, NewResponseCache(ttl, cfg.CacheMaxSize)), nil
}

// WrapWithCache builds a CachedClient around an existing client
func WrapWithCache(client *Client, cache *ResponseCache) *CachedClient {
	return &CachedClient{
		client: client,
		cache:  cache,
		logger: client.logger,
	}
}

// Advise returns a cached answer for payload when present; otherwise it asks
// the model and stores the answer. Errors are never cached.
func (c *CachedClient) Advise(ctx context.Context, payload *models.PredictionPayload) (string, error) {
	answer, _, err := c.AdviseCached(ctx, payload)
	return answer, err
}

// AdviseCached is Advise that also reports whether the answer came from the cache
func (c *CachedClient) AdviseCached(ctx context.Context, payload *models.PredictionPayload) (string, bool, error) {
	key, err := CacheKey(c.client.Model(), payload)
	if err != nil {
		answer, err := c.client.Advise(ctx, payload)
		return answer, false, err
	}

	if answer, ok := c.cache.Get(key); ok {
		c.logger.WithField("cache_key", key[:12]).Debug("Cache hit for advisor answer")
		return answer, true, nil
	}

	answer, err := c.client.Advise(ctx, payload)
	if err != nil {
		return "", false, err
	}

	c.cache.Set(key, answer)
	return answer, false, nil
}

// HealthCheck delegates to the underlying client
func (c *CachedClient) HealthCheck(ctx context.Context) error {
	return c.client.HealthCheck(ctx)
}

// Model returns the configured model name
func (c *CachedClient) Model() string {
	return c.client.Model()
}

// ClearCache clears all cached answers
func (c *CachedClient) ClearCache() {
	c.cache.Clear()
}

// GetCacheStats returns cache statistics
func (c *CachedClient) GetCacheStats() (hits, misses uint64, hitRatio float64) {
	return c.cache.Stats()
}

// Close closes the underlying client
func (c *CachedClient) Close() error {
	return c.client.Close()
}
