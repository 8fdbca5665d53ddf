package ml

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/value-better/internal/config"
	"github.com/yourusername/value-better/internal/models"
)

// CachedClient wraps a Classifier with estimate caching.
type CachedClient struct {
	client Classifier
	cache  *EstimateCache
	logger *logrus.Logger
}

// NewCachedClient creates a classifier client with caching per the config.
func NewCachedClient(cfg *config.ClassifierConfig, logger *logrus.Logger) (*CachedClient, error) {
	client, err := NewClient(cfg, logger)
	if err != nil {
		return nil, err
	}
	return &CachedClient{
		client: client,
		cache:  NewEstimateCache(time.Duration(cfg.CacheTTLSeconds)*time.Second, cfg.CacheMaxSize),
		logger: logger,
	}, nil
}

// ClassifyMatch returns the cached estimate when present, otherwise fetches
// and caches it.
func (c *CachedClient) ClassifyMatch(ctx context.Context, matchID uuid.UUID, home, away models.TeamRating) (*models.OutcomeEstimate, error) {
	if cached := c.cache.Get(matchID); cached != nil {
		c.logger.WithField("match_id", matchID).Debug("Classifier cache hit")
		return cached, nil
	}

	estimate, err := c.client.ClassifyMatch(ctx, matchID, home, away)
	if err != nil {
		return nil, err
	}
	c.cache.Set(matchID, estimate)
	return estimate, nil
}

// Invalidate drops the cached estimate for a match, forcing a refetch.
func (c *CachedClient) Invalidate(matchID uuid.UUID) {
	c.cache.Invalidate(matchID)
}
