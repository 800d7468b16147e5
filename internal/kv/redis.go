// Package kv wraps the optional Redis accelerator. Every operation is best
// effort: the engine must keep serving reports when Redis is down.
package kv

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Config defines configurations to connect redis
type Config struct {
	Address  string        `mapstructure:"address"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// Store is a thin go-redis wrapper implementing dependency.KV.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

// New builds the client without dialing; connectivity is probed per request
// through Ready so a dead Redis never blocks startup.
func New(cfg Config) *Store {
	return &Store{
		client: redis.NewClient(&redis.Options{
			Addr:     cfg.Address,
			Password: cfg.Password,
			DB:       cfg.DB,
		}),
		ttl: cfg.TTL,
	}
}

// Ready reports whether the cache answers a ping right now.
func (s *Store) Ready(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	return s.client.Ping(ctx).Err() == nil
}

// Get returns nil with no error when the key is absent.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}
	return val, nil
}

func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	if err := s.client.Set(ctx, key, value, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// ScanCount walks the keyspace with SCAN and counts keys matching the glob
// pattern. A mid-scan failure returns the count so far.
func (s *Store) ScanCount(ctx context.Context, pattern string) (int64, error) {
	var (
		cursor uint64
		total  int64
	)
	for {
		keys, next, err := s.client.Scan(ctx, cursor, pattern, 5000).Result()
		if err != nil {
			return total, fmt.Errorf("redis scan %s: %w", pattern, err)
		}
		total += int64(len(keys))
		cursor = next
		if cursor == 0 {
			return total, nil
		}
	}
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	return s.client.Close()
}
