package database

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"credit-risk-workers/internal/models"
	"credit-risk-workers/internal/scoring"

	"github.com/redis/go-redis/v9"
)

const cacheKeyPrefix = "credit:assessment:"

// AssessmentCache memoizes scoring results in Redis. Entries are keyed by
// model version, score scale and application, so neither a model rollout nor
// a rescaled score serves stale results.
type AssessmentCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewAssessmentCache(client *redis.Client, ttl time.Duration) *AssessmentCache {
	return &AssessmentCache{client: client, ttl: ttl}
}

// CacheKey derives the cache key for app scored by modelVersion and mapped
// onto the scale of mapper.
func CacheKey(modelVersion string, mapper scoring.ScoreMapper, app models.CreditApplication) (string, error) {
	body, err := json.Marshal(app)
	if err != nil {
		return "", fmt.Errorf("encode application: %w", err)
	}
	h := sha256.New()
	h.Write([]byte(modelVersion))
	h.Write([]byte{0})
	fmt.Fprintf(h, "%g:%g", mapper.BaseScore, mapper.ScaleLength)
	h.Write([]byte{0})
	h.Write(body)
	return cacheKeyPrefix + hex.EncodeToString(h.Sum(nil)), nil
}

// Get returns the cached result, or nil on a miss. A malformed entry is
// treated as a miss.
func (c *AssessmentCache) Get(ctx context.Context, key string) (*models.ScoringResult, error) {
	val, err := c.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cache get: %w", err)
	}

	var res models.ScoringResult
	if err := json.Unmarshal([]byte(val), &res); err != nil {
		return nil, nil
	}
	return &res, nil
}

func (c *AssessmentCache) Put(ctx context.Context, key string, res *models.ScoringResult) error {
	data, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}
