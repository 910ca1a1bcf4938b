package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type RedisOptions struct {
	Addr     string
	Password string
	DB       int
}

// RedisStore keeps the session under a single key so several terminals or
// hosts can share one login. The key expires together with the token.
type RedisStore struct {
	rdb    *goredis.Client
	key    string
	logger *zap.Logger
}

// NewRedisStore connects and pings the server before returning.
func NewRedisStore(opts RedisOptions, key string, logger *zap.Logger) (*RedisStore, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", opts.Addr, err)
	}

	logger.Debug("Connected to redis session store", zap.String("addr", opts.Addr), zap.String("key", key))
	return &RedisStore{rdb: rdb, key: key, logger: logger}, nil
}

func (r *RedisStore) Load(ctx context.Context) (*Session, error) {
	data, err := r.rdb.Get(ctx, r.key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session from redis: %w", err)
	}

	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse session from redis: %w", err)
	}
	return &s, nil
}

func (r *RedisStore) Save(ctx context.Context, s Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}

	var ttl time.Duration
	if exp, ok := tokenExpiry(s.Token); ok {
		ttl = time.Until(exp)
		if ttl <= 0 {
			r.logger.Warn("Refusing to store an expired session", zap.Time("expired_at", exp))
			return ErrTokenExpired
		}
	}
	return r.rdb.Set(ctx, r.key, data, ttl).Err()
}

func (r *RedisStore) Clear(ctx context.Context) error {
	return r.rdb.Del(ctx, r.key).Err()
}

func (r *RedisStore) Close() error {
	return r.rdb.Close()
}
