package llm

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sync"
	"time"

	cache "github.com/patrickmn/go-cache"

	"github.com/yourusername/odds-oracle/internal/models"
)

// CacheKey derives a stable key from the model name and the payload JSON
func CacheKey(model string, payload *models.PredictionPayload) (string, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	h := sha256.New()
	h.Write([]byte(model))
	h.Write([]byte{0})
	h.Write(raw)
	return hex.EncodeToString(h.Sum(nil)), nil
}

// ResponseCache provides in-memory caching of raw advisor answers
type ResponseCache struct {
	cache   *cache.Cache
	ttl     time.Duration
	maxSize int

	mu        sync.Mutex
	hitCount  uint64
	missCount uint64
}

// NewResponseCache creates a new response cache
func NewResponseCache(ttl time.Duration, maxSize int) *ResponseCache {
	return &ResponseCache{
		cache:   cache.New(ttl, ttl*2),
		ttl:     ttl,
		maxSize: maxSize,
	}
}

// Get retrieves a cached answer
func (rc *ResponseCache) Get(key string) (string, bool) {
	value, found := rc.cache.Get(key)
	answer, ok := value.(string)
	hit := found && ok

	rc.mu.Lock()
	if hit {
		rc.hitCount++
	} else {
		rc.missCount++
	}
	ratio := rc.ratioLocked()
	rc.mu.Unlock()

	if hit {
		LLMCacheRequestsTotal.WithLabelValues("hit").Inc()
	} else {
		LLMCacheRequestsTotal.WithLabelValues("miss").Inc()
	}
	LLMCacheHitRatio.Set(ratio)

	return answer, hit
}

// Set stores an answer. When the cache is full expired items are purged
// first and the new item is dropped if no room was freed.
func (rc *ResponseCache) Set(key, answer string) {
	if rc.maxSize > 0 && rc.cache.ItemCount() >= rc.maxSize {
		rc.cache.DeleteExpired()
		if rc.cache.ItemCount() >= rc.maxSize {
			return
		}
	}
	rc.cache.Set(key, answer, rc.ttl)
}

// Clear flushes the entire cache
func (rc *ResponseCache) Clear() {
	rc.cache.Flush()

	rc.mu.Lock()
	rc.hitCount = 0
	rc.missCount = 0
	rc.mu.Unlock()
}

// Stats returns cache statistics
func (rc *ResponseCache) Stats() (hits, misses uint64, ratio float64) {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	return rc.hitCount, rc.missCount, rc.ratioLocked()
}

func (rc *ResponseCache) ratioLocked() float64 {
	total := rc.hitCount + rc.missCount
	if total == 0 {
		return 0
	}
	return float64(rc.hitCount) / float64(total)
}

// ItemCount returns the number of items in cache
func (rc *ResponseCache) ItemCount() int {
	return rc.cache.ItemCount()
}
