package cache

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/yegors/co-mag/pkg/logger"
)

// newTestRedis connects to COMAG_TEST_REDIS_ADDR under a prefix unique to the test.
func newTestRedis(t *testing.T) *Redis {
	t.Helper()
	addr := os.Getenv("COMAG_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("COMAG_TEST_REDIS_ADDR not set")
	}
	ctx := context.Background()
	prefix := fmt.Sprintf("co-mag-test:%s:%d:", t.Name(), time.Now().UnixNano())
	r, err := NewRedis(ctx, RedisOptions{
		Addr:         addr,
		Password:     os.Getenv("COMAG_TEST_REDIS_PASSWORD"),
		KeyPrefix:    prefix,
		TTL:          time.Minute,
		ConnectRetry: 2 * time.Second,
	}, logger.NewNop())
	if err != nil {
		t.Fatalf("NewRedis: %v", err)
	}
	t.Cleanup(func() {
		keys, _ := r.client.Keys(ctx, prefix+"*").Result()
		if len(keys) > 0 {
			r.client.Del(ctx, keys...)
		}
		r.Close()
	})
	return r
}

func TestRedisGetSet(t *testing.T) {
	ctx := context.Background()
	r := newTestRedis(t)

	if _, ok, err := r.Get(ctx, "a"); ok || err != nil {
		t.Fatalf("Get on empty key = %v, %v, want miss", ok, err)
	}
	if err := r.Set(ctx, "a", field(7.5)); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, ok, err := r.Get(ctx, "a")
	if err != nil || !ok {
		t.Fatalf("Get = %v, %v, want hit", ok, err)
	}
	if diff := cmp.Diff(field(7.5), got); diff != "" {
		t.Errorf("cached field mismatch (-want +got):\n%s", diff)
	}

	ttl, err := r.client.TTL(ctx, r.prefix+"a").Result()
	if err != nil || ttl <= 0 || ttl > time.Minute {
		t.Errorf("ttl = %v, %v, want within a minute", ttl, err)
	}

	st := r.Stats()
	if st.Backend != "redis" || st.Hits != 1 || st.Misses != 1 || st.Size < 1 {
		t.Errorf("Stats = %+v", st)
	}
}

func TestRedisDiscardsUndecodableEntry(t *testing.T) {
	ctx := context.Background()
	r := newTestRedis(t)

	if err := r.client.Set(ctx, r.prefix+"bad", "{not json", time.Minute).Err(); err != nil {
		t.Fatalf("seed: %v", err)
	}
	got, ok, err := r.Get(ctx, "bad")
	if err != nil {
		t.Fatalf("Get = %v, want nil error", err)
	}
	if ok {
		t.Errorf("undecodable entry returned as hit: %+v", got)
	}
	if st := r.Stats(); st.Hits != 0 || st.Misses != 1 {
		t.Errorf("Stats = %+v, want one miss", st)
	}
}

func TestNewRedisGivesUpAfterRetryWindow(t *testing.T) {
	if os.Getenv("COMAG_TEST_REDIS_ADDR") == "" {
		t.Skip("COMAG_TEST_REDIS_ADDR not set")
	}
	start := time.Now()
	_, err := NewRedis(context.Background(), RedisOptions{
		Addr:         "127.0.0.1:1",
		ConnectRetry: 300 * time.Millisecond,
	}, logger.NewNop())
	if err == nil {
		t.Fatal("NewRedis succeeded against a closed port")
	}
	if elapsed := time.Since(start); elapsed > 10*time.Second {
		t.Errorf("retry ran for %v", elapsed)
	}
}
