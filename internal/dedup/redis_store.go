package dedup

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const DefaultRedisKey = "cornerwatch:sent_matches"

// RedisStore keeps the history in a single Redis hash (field = match key,
// value = unix seconds).
type RedisStore struct {
	client *redis.Client
	key    string
}

// NewRedisStore connects and pings the server.
func NewRedisStore(addr, password string, db int, key string) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	if key == "" {
		key = DefaultRedisKey
	}
	return &RedisStore{client: client, key: key}, nil
}

func (s *RedisStore) Name() string { return "redis:" + s.key }

func (s *RedisStore) Load(ctx context.Context) (History, error) {
	raw, err := s.client.HGetAll(ctx, s.key).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read history hash: %w", err)
	}
	h := make(History, len(raw))
	for field, value := range raw {
		ts, err := strconv.ParseFloat(value, 64)
		if err != nil {
			continue // Skip invalid values
		}
		h[field] = ts
	}
	return h, nil
}

// Save replaces the hash in one MULTI/EXEC block.
func (s *RedisStore) Save(ctx context.Context, h History) error {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, s.key)
		if len(h) == 0 {
			return nil
		}
		values := make(map[string]interface{}, len(h))
		for key, ts := range h {
			values[key] = strconv.FormatFloat(ts, 'f', -1, 64)
		}
		pipe.HSet(ctx, s.key, values)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to write history hash: %w", err)
	}
	return nil
}

func (s *RedisStore) Reset(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("failed to delete history hash: %w", err)
	}
	return nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
