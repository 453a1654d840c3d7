package analysis

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

func TestNewGeminiAnalyzer_RequiresAPIKey(t *testing.T) {
	_, err := NewGeminiAnalyzer(context.Background(), "", "")
	if err == nil {
		t.Fatal("expected error for empty API key")
	}
}

func TestCacheKey(t *testing.T) {
	a := cacheKey("image-a")
	b := cacheKey("image-b")

	if a == b {
		t.Error("different images produced the same cache key")
	}
	if a != cacheKey("image-a") {
		t.Error("cache key is not deterministic")
	}
	if !strings.HasPrefix(a, "airsketch:analysis:") {
		t.Errorf("unexpected key prefix: %s", a)
	}
}

// unreachableRedis returns a client pointing at a closed port with short
// timeouts so cache failures surface quickly in tests.
func unreachableRedis() *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         "127.0.0.1:1",
		DialTimeout:  50 * time.Millisecond,
		ReadTimeout:  50 * time.Millisecond,
		WriteTimeout: 50 * time.Millisecond,
		MaxRetries:   -1,
	})
}

func TestCachedAnalyzer_FallsThroughWhenCacheUnavailable(t *testing.T) {
	mock := NewMockAnalyzer("the drawing is a circle")
	rdb := unreachableRedis()
	defer rdb.Close()

	cached := NewCachedAnalyzer(mock, rdb, time.Minute)

	result, err := cached.AnalyzeImage(context.Background(), "frame-data")
	if err != nil {
		t.Fatalf("AnalyzeImage failed: %v", err)
	}
	if result != "the drawing is a circle" {
		t.Errorf("unexpected result: %q", result)
	}
	if mock.Calls() != 1 {
		t.Errorf("inner analyzer called %d times, want 1", mock.Calls())
	}
}

func TestCachedAnalyzer_PropagatesInnerError(t *testing.T) {
	mock := NewMockAnalyzer("")
	mock.SetError(errors.New("quota exceeded"))
	rdb := unreachableRedis()
	defer rdb.Close()

	cached := NewCachedAnalyzer(mock, rdb, time.Minute)

	if _, err := cached.AnalyzeImage(context.Background(), "frame-data"); err == nil {
		t.Fatal("expected inner analyzer error to propagate")
	}
}
