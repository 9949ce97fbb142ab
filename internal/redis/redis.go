package redis

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/fakhrymubarak/city-weather/internal/config"
	"github.com/fakhrymubarak/city-weather/internal/model"
	"github.com/pkg/errors"
	redisv9 "github.com/redis/go-redis/v9"
)

var (
	client *redisv9.Client
	once   sync.Once
)

func GetClient() *redisv9.Client {
	once.Do(func() {
		client = redisv9.NewClient(&redisv9.Options{
			Addr: config.GetRedisAddr(),
		})
	})
	return client
}

// ResetClientForTest resets the Redis client singleton. Use only in tests.
func ResetClientForTest() {
	once = sync.Once{}
	client = nil
}

// ErrCacheMiss is returned by PlaceCache.Get when the query has no entry.
var ErrCacheMiss = errors.New("cache miss")

// PlaceCache stores resolved places as JSON under prefix+query, expiring after ttl.
type PlaceCache struct {
	client *redisv9.Client
	prefix string
	ttl    time.Duration
}

// NewPlaceCache builds a cache on the given client. A nil client uses the shared one.
func NewPlaceCache(c *redisv9.Client, prefix string, ttl time.Duration) *PlaceCache {
	if c == nil {
		c = GetClient()
	}
	return &PlaceCache{client: c, prefix: prefix, ttl: ttl}
}

// Key returns the storage key for a raw query.
func (c *PlaceCache) Key(query string) string {
	return c.prefix + query
}

func (c *PlaceCache) Get(ctx context.Context, query string) (*model.Place, error) {
	val, err := c.client.Get(ctx, c.Key(query)).Bytes()
	if errors.Is(err, redisv9.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, errors.Wrap(err, "redis get")
	}

	var place model.Place
	if err := json.Unmarshal(val, &place); err != nil {
		return nil, errors.Wrap(err, "decode cached place")
	}
	return &place, nil
}

func (c *PlaceCache) Set(ctx context.Context, query string, place *model.Place) error {
	b, err := json.Marshal(place)
	if err != nil {
		return errors.Wrap(err, "encode place")
	}
	return errors.Wrap(c.client.Set(ctx, c.Key(query), b, c.ttl).Err(), "redis set")
}
