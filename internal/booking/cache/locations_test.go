package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"staybook/pkg/logger"
	"staybook/pkg/model"
)

type fakeStore struct {
	data    map[string]string
	ttl     time.Duration
	failGet error
}

func (f *fakeStore) Get(ctx context.Context, key string) *redis.StringCmd {
	if f.failGet != nil {
		return redis.NewStringResult("", f.failGet)
	}
	v, ok := f.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeStore) Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd {
	f.data[key] = string(value.([]byte))
	f.ttl = expiration
	return redis.NewStatusResult("OK", nil)
}

func TestKey(t *testing.T) {
	if Key("  Goa ") != Key("goa") {
		t.Errorf("keys differ: %q vs %q", Key("  Goa "), Key("goa"))
	}
}

func TestRedisLocationCache(t *testing.T) {
	store := &fakeStore{data: map[string]string{}}
	c := NewRedisLocationCache(store, 10*time.Minute, logger.Discard())
	ctx := context.Background()

	if _, ok := c.Get(ctx, "goa"); ok {
		t.Fatal("expected miss on empty cache")
	}

	c.Set(ctx, "Goa", []model.Location{{ID: "loc1", Name: "Goa", Type: "City"}})
	if store.ttl != 10*time.Minute {
		t.Errorf("ttl = %v", store.ttl)
	}

	got, ok := c.Get(ctx, " goa")
	if !ok || len(got) != 1 || got[0].ID != "loc1" {
		t.Errorf("Get = %+v, %v", got, ok)
	}

	c.Set(ctx, "nowhere", nil)
	got, ok = c.Get(ctx, "nowhere")
	if !ok || got == nil || len(got) != 0 {
		t.Errorf("empty result should be cached as an empty list, got %+v, %v", got, ok)
	}
}

func TestRedisLocationCache_FailuresAreMisses(t *testing.T) {
	store := &fakeStore{data: map[string]string{Key("bad"): "{not json"}}
	c := NewRedisLocationCache(store, time.Minute, logger.Discard())

	if _, ok := c.Get(context.Background(), "bad"); ok {
		t.Error("corrupt entry should be a miss")
	}
	store.failGet = errors.New("connection refused")
	if _, ok := c.Get(context.Background(), "goa"); ok {
		t.Error("read failure should be a miss")
	}
}
