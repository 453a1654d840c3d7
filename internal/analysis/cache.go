package analysis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// DefaultCacheTTL bounds how long a cached analysis stays valid.
const DefaultCacheTTL = 24 * time.Hour

// CachedAnalyzer wraps an Analyzer with a Redis result cache keyed by the
// SHA-256 of the image. Identical drawings are answered from the cache.
type CachedAnalyzer struct {
	inner Analyzer
	rdb   *redis.Client
	ttl   time.Duration
}

// NewCachedAnalyzer wraps inner with a cache. A non-positive ttl falls
// back to DefaultCacheTTL.
func NewCachedAnalyzer(inner Analyzer, rdb *redis.Client, ttl time.Duration) *CachedAnalyzer {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &CachedAnalyzer{
		inner: inner,
		rdb:   rdb,
		ttl:   ttl,
	}
}

// AnalyzeImage returns a cached response when one exists, otherwise asks
// the inner analyzer and stores the result. Cache failures degrade to a
// direct call rather than an error.
func (c *CachedAnalyzer) AnalyzeImage(ctx context.Context, imageData string) (string, error) {
	key := cacheKey(imageData)

	cached, err := c.rdb.Get(ctx, key).Result()
	if err == nil {
		logrus.WithField("key", key).Debug("analysis cache hit")
		return cached, nil
	}
	if !errors.Is(err, redis.Nil) {
		logrus.WithError(err).Warn("analysis cache read failed")
	}

	result, err := c.inner.AnalyzeImage(ctx, imageData)
	if err != nil {
		return "", err
	}

	if err := c.rdb.Set(ctx, key, result, c.ttl).Err(); err != nil {
		logrus.WithError(err).Warn("analysis cache write failed")
	}

	return result, nil
}

func cacheKey(imageData string) string {
	sum := sha256.Sum256([]byte(imageData))
	return "airsketch:analysis:" + hex.EncodeToString(sum[:])
}
