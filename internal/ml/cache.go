package ml

import (
	"time"

	"github.com/google/uuid"
	cache "github.com/patrickmn/go-cache"

	"github.com/yourusername/value-better/internal/models"
)

// EstimateCache is an in-memory TTL cache for classifier estimates keyed by
// match. Estimates for a fixture don't change between calls within the TTL,
// so repeated analysis of the same slate hits the service only once.
type EstimateCache struct {
	cache   *cache.Cache
	ttl     time.Duration
	maxSize int
}

// NewEstimateCache creates an estimate cache with the given TTL and size
// ceiling.
func NewEstimateCache(ttl time.Duration, maxSize int) *EstimateCache {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	if maxSize <= 0 {
		maxSize = 1000
	}
	return &EstimateCache{
		cache:   cache.New(ttl, ttl*2),
		ttl:     ttl,
		maxSize: maxSize,
	}
}

// Get returns the cached estimate for a match, or nil on a miss.
func (ec *EstimateCache) Get(matchID uuid.UUID) *models.OutcomeEstimate {
	if v, found := ec.cache.Get(matchID.String()); found {
		if est, ok := v.(*models.OutcomeEstimate); ok {
			return est
		}
	}
	return nil
}

// Set stores an estimate. When the cache is full, expired entries are
// evicted first; the entry is dropped if the cache is still full.
func (ec *EstimateCache) Set(matchID uuid.UUID, estimate *models.OutcomeEstimate) {
	if ec.cache.ItemCount() >= ec.maxSize {
		ec.cache.DeleteExpired()
		if ec.cache.ItemCount() >= ec.maxSize {
			return
		}
	}
	ec.cache.Set(matchID.String(), estimate, ec.ttl)
}

// Invalidate removes the estimate for one match.
func (ec *EstimateCache) Invalidate(matchID uuid.UUID) {
	ec.cache.Delete(matchID.String())
}

// Len returns the number of cached entries, expired ones included.
func (ec *EstimateCache) Len() int {
	return ec.cache.ItemCount()
}
