package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	domain "github.com/BruksfildServices01/dls-barber/internal/domain/reservation"
)

const keyPrefix = "availability"

var errStale = errors.New("availability cache: generation changed")

func availabilityKey(barberID uint, date string) string {
	return fmt.Sprintf("%s:%d:%s", keyPrefix, barberID, date)
}

func barberPattern(barberID uint) string {
	return fmt.Sprintf("%s:%d:*", keyPrefix, barberID)
}

// generationKey lives outside barberPattern so InvalidateBarber keeps it.
func generationKey(barberID uint) string {
	return fmt.Sprintf("%s:gen:%d", keyPrefix, barberID)
}

// NewRedisClient parses a redis:// URL and checks the server answers.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}

	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return rdb, nil
}

type RedisAvailabilityCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisAvailabilityCache(rdb *redis.Client, ttl time.Duration) *RedisAvailabilityCache {
	return &RedisAvailabilityCache{rdb: rdb, ttl: ttl}
}

func (c *RedisAvailabilityCache) Get(ctx context.Context, barberID uint, date string) ([]domain.TimeOfDay, bool, error) {
	raw, err := c.rdb.Get(ctx, availabilityKey(barberID, date)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var slots []domain.TimeOfDay
	if err := json.Unmarshal(raw, &slots); err != nil {
		return nil, false, err
	}
	return slots, true, nil
}

func (c *RedisAvailabilityCache) Generation(ctx context.Context, barberID uint) (int64, error) {
	gen, err := c.rdb.Get(ctx, generationKey(barberID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

// Set stores slots only while the barber's generation still equals
// generation. A concurrent invalidation aborts the write.
func (c *RedisAvailabilityCache) Set(ctx context.Context, barberID uint, date string, generation int64, slots []domain.TimeOfDay) error {
	if slots == nil {
		slots = []domain.TimeOfDay{}
	}
	raw, err := json.Marshal(slots)
	if err != nil {
		return err
	}

	genKey := generationKey(barberID)
	err = c.rdb.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, genKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != generation {
			return errStale
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, availabilityKey(barberID, date), raw, c.ttl)
			return nil
		})
		return err
	}, genKey)

	if errors.Is(err, errStale) || errors.Is(err, redis.TxFailedErr) {
		return nil
	}
	return err
}

func (c *RedisAvailabilityCache) Invalidate(ctx context.Context, barberID uint, date string) error {
	_, err := c.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, generationKey(barberID))
		pipe.Del(ctx, availabilityKey(barberID, date))
		return nil
	})
	return err
}

func (c *RedisAvailabilityCache) InvalidateBarber(ctx context.Context, barberID uint) error {
	if err := c.rdb.Incr(ctx, generationKey(barberID)).Err(); err != nil {
		return err
	}

	iter := c.rdb.Scan(ctx, 0, barberPattern(barberID), 100).Iterator()

	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return c.rdb.Del(ctx, keys...).Err()
}

var _ domain.AvailabilityCache = (*RedisAvailabilityCache)(nil)
