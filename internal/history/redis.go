package history

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// appendScript guards the ordered list with a set so the check and the push
// happen atomically on the server.
var appendScript = redis.NewScript(`
if redis.call('SADD', KEYS[2], ARGV[1]) == 1 then
  redis.call('RPUSH', KEYS[1], ARGV[1])
  if tonumber(ARGV[2]) > 0 then
    redis.call('EXPIRE', KEYS[1], ARGV[2])
    redis.call('EXPIRE', KEYS[2], ARGV[2])
  end
  return 1
end
return 0
`)

// RedisConfig holds connection settings for RedisStore.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	// Prefix namespaces keys. Defaults to "harunews:history".
	Prefix string
	// TTL expires idle sessions. Zero keeps them forever.
	TTL time.Duration
}

// RedisStore persists histories as a list plus a membership set per session.
type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

var _ Store = (*RedisStore)(nil)

// NewRedisStore connects and pings the server.
func NewRedisStore(ctx context.Context, cfg RedisConfig) (*RedisStore, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.Addr, err)
	}
	return NewRedisStoreWithClient(rdb, cfg.Prefix, cfg.TTL), nil
}

// NewRedisStoreWithClient wraps a preconfigured client.
func NewRedisStoreWithClient(rdb *redis.Client, prefix string, ttl time.Duration) *RedisStore {
	if prefix == "" {
		prefix = "harunews:history"
	}
	return &RedisStore{client: rdb, prefix: prefix, ttl: ttl}
}

func (s *RedisStore) listKey(session string) string { return s.prefix + ":" + session + ":list" }

func (s *RedisStore) setKey(session string) string { return s.prefix + ":" + session + ":set" }

func (s *RedisStore) History(ctx context.Context, session string) ([]string, error) {
	out, err := s.client.LRange(ctx, s.listKey(session), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	return out, nil
}

func (s *RedisStore) AppendIfAbsent(ctx context.Context, session, title string) (bool, error) {
	if title == "" {
		return false, nil
	}
	keys := []string{s.listKey(session), s.setKey(session)}
	added, err := appendScript.Run(ctx, s.client, keys, title, int64(s.ttl/time.Second)).Int()
	if err != nil {
		return false, fmt.Errorf("append history: %w", err)
	}
	return added == 1, nil
}

// Close releases the connection pool.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
