package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/fakhrymubarak/city-weather/internal/model"
	redisv9 "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetClient(t *testing.T) {
	client := GetClient()
	if client == nil {
		t.Error("Expected Redis client to be created")
	}

	client2 := GetClient()
	if client != client2 {
		t.Error("Expected same client instance (singleton pattern)")
	}
}

func TestResetClientForTest(t *testing.T) {
	client1 := GetClient()
	ResetClientForTest()
	client2 := GetClient()
	if client1 == client2 {
		t.Error("Expected a new client instance after reset")
	}
}

func newTestCache(t *testing.T, ttl time.Duration) (*PlaceCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c := redisv9.NewClient(&redisv9.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = c.Close() })
	return NewPlaceCache(c, "geo_cache_", ttl), mr
}

func TestPlaceCache_SetGet(t *testing.T) {
	cache, mr := newTestCache(t, time.Minute)
	ctx := context.Background()
	place := &model.Place{Latitude: 37.5666791, Longitude: 126.9782914, DisplayName: "Seoul, South Korea", SourceType: "city"}

	require.NoError(t, cache.Set(ctx, "서울", place))
	assert.True(t, mr.Exists("geo_cache_서울"))
	assert.Equal(t, time.Minute, mr.TTL("geo_cache_서울"))

	got, err := cache.Get(ctx, "서울")
	require.NoError(t, err)
	assert.Equal(t, place, got)
}

func TestPlaceCache_Miss(t *testing.T) {
	cache, _ := newTestCache(t, time.Minute)

	_, err := cache.Get(context.Background(), "Seoul")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestPlaceCache_KeyIsVerbatim(t *testing.T) {
	cache, _ := newTestCache(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "Seoul ", &model.Place{DisplayName: "a"}))
	_, err := cache.Get(ctx, "seoul ")
	assert.ErrorIs(t, err, ErrCacheMiss)
	_, err = cache.Get(ctx, "Seoul")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestPlaceCache_Expiry(t *testing.T) {
	cache, mr := newTestCache(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "Busan", &model.Place{DisplayName: "Busan"}))
	mr.FastForward(2 * time.Minute)

	_, err := cache.Get(ctx, "Busan")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestPlaceCache_CorruptEntry(t *testing.T) {
	cache, mr := newTestCache(t, time.Minute)
	require.NoError(t, mr.Set("geo_cache_Jeju", "{not json"))

	_, err := cache.Get(context.Background(), "Jeju")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrCacheMiss)
}

func TestPlaceCache_ServerDown(t *testing.T) {
	cache, mr := newTestCache(t, time.Minute)
	mr.Close()

	ctx := context.Background()
	_, err := cache.Get(ctx, "Daegu")
	assert.Error(t, err)
	assert.Error(t, cache.Set(ctx, "Daegu", &model.Place{}))
}

func BenchmarkGetClient(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_ = GetClient()
	}
}
