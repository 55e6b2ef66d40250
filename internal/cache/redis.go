package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff"
	"github.com/redis/go-redis/v9"
	"github.com/yegors/co-mag/internal/physics"
	"github.com/yegors/co-mag/pkg/logger"
)

// RedisOptions configures a Redis cache
type RedisOptions struct {
	Addr         string
	Password     string
	DB           int
	KeyPrefix    string
	TTL          time.Duration
	ConnectRetry time.Duration // total time spent retrying the initial ping
}

// Redis stores reference results as JSON strings with a TTL
type Redis struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	logger *logger.Logger
	counters
}

// NewRedis connects to Redis, retrying the initial ping with exponential backoff
func NewRedis(ctx context.Context, opts RedisOptions, log *logger.Logger) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	log = log.Named("cache-redis")

	b := backoff.NewExponentialBackOff()
	if opts.ConnectRetry > 0 {
		b.MaxElapsedTime = opts.ConnectRetry
	}

	err := backoff.RetryNotify(
		func() error {
			return client.Ping(ctx).Err()
		},
		backoff.WithContext(b, ctx),
		func(err error, d time.Duration) {
			log.Warn("Redis not ready, retrying",
				logger.String("addr", opts.Addr),
				logger.Duration("retry_in", d),
				logger.Error(err))
		},
	)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", opts.Addr, err)
	}

	log.Info("Connected to redis", logger.String("addr", opts.Addr), logger.Int("db", opts.DB))

	return &Redis{
		client: client,
		prefix: opts.KeyPrefix,
		ttl:    opts.TTL,
		logger: log,
	}, nil
}

// Get returns the cached field for key
func (r *Redis) Get(ctx context.Context, key string) (physics.MagneticField, bool, error) {
	s, err := r.client.Get(ctx, r.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		r.record(false)
		return physics.MagneticField{}, false, nil
	}
	if err != nil {
		r.record(false)
		return physics.MagneticField{}, false, fmt.Errorf("redis get %s: %w", key, err)
	}

	var field physics.MagneticField
	if err := json.Unmarshal([]byte(s), &field); err != nil {
		r.record(false)
		r.logger.Warn("Discarding undecodable cache entry", logger.String("key", key), logger.Error(err))
		return physics.MagneticField{}, false, nil
	}
	r.record(true)
	return field, true, nil
}

// Set stores field under key with the configured TTL
func (r *Redis) Set(ctx context.Context, key string, field physics.MagneticField) error {
	b, err := json.Marshal(field)
	if err != nil {
		return fmt.Errorf("failed to encode cache entry: %w", err)
	}
	if err := r.client.Set(ctx, r.prefix+key, b, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Stats returns hit/miss counters. Size is the keyspace size of the selected DB.
func (r *Redis) Stats() Stats {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	size, err := r.client.DBSize(ctx).Result()
	if err != nil {
		size = -1
	}
	return Stats{
		Backend: "redis",
		Hits:    r.hits.Load(),
		Misses:  r.misses.Load(),
		Size:    int(size),
	}
}

// Close closes the client
func (r *Redis) Close() error {
	return r.client.Close()
}
