package inprogress

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"

	"newsdesk/internal/content/models"
	"newsdesk/pkg/platform/sentinel"
)

var getDurationMs = promauto.NewHistogram(prometheus.HistogramOpts{
	Name:    "newsdesk_opened_set_get_duration_ms",
	Help:    "Latency of opened-set reads from redis in milliseconds",
	Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25},
})

// RedisStore reads opened-set records stored as JSON strings.
type RedisStore struct {
	client *redis.Client
}

// NewRedis constructs a redis-backed opened-set store.
func NewRedis(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Get returns the record under key. A missing key is an empty record.
func (s *RedisStore) Get(ctx context.Context, key string) (*models.OpenedSet, error) {
	start := time.Now()
	defer func() {
		getDurationMs.Observe(float64(time.Since(start).Microseconds()) / 1000.0)
	}()

	raw, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return &models.OpenedSet{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w: %w", key, sentinel.ErrUnavailable, err)
	}
	return decode(key, raw)
}

// Save writes a record under key. The editing surface owns this path; the
// resolution services only read.
func (s *RedisStore) Save(ctx context.Context, key string, set *models.OpenedSet) error {
	raw, err := json.Marshal(set)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := s.client.Set(ctx, key, raw, 0).Err(); err != nil {
		return fmt.Errorf("set %s: %w: %w", key, sentinel.ErrUnavailable, err)
	}
	return nil
}

func decode(key string, raw []byte) (*models.OpenedSet, error) {
	var set models.OpenedSet
	if err := json.Unmarshal(raw, &set); err != nil {
		return nil, fmt.Errorf("decode %s: %w: %w", key, sentinel.ErrCorrupt, err)
	}
	return &set, nil
}
