package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type redisTokenStore struct {
	logger *zap.Logger
	client *redis.Client
	key    string
	ttl    time.Duration
}

// NewRedisTokenStore provides an instance of redis-based token storage.
// A positive ttl makes redis expire the session on its own.
func NewRedisTokenStore(logger *zap.Logger, client *redis.Client, key string, ttl time.Duration) TokenStore {
	return &redisTokenStore{
		logger: logger,
		client: client,
		key:    key,
		ttl:    ttl,
	}
}

// GetRedisClient provides a ready to use redis client.
func GetRedisClient(config *Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%s", config.Redis.Host, config.Redis.Port),
		DialTimeout:  config.Redis.DialTimeout,
		ReadTimeout:  config.Redis.ReadTimeout,
		WriteTimeout: config.Redis.WriteTimeout,
		Password:     config.Redis.Password,
		Username:     config.Redis.Username,
		DB:           config.Redis.DatabaseIndex,
	})

	// test connection.
	if pong, err := client.Ping(context.Background()).Result(); pong != "PONG" || err != nil {
		client.Close()
		return nil, fmt.Errorf("test connection failed: %v", err)
	}
	return client, nil
}

// Load retrieves the stored token.
func (rs *redisTokenStore) Load(ctx context.Context) (string, error) {
	token, err := rs.client.Get(ctx, rs.key).Result()
	if errors.Is(err, redis.Nil) || (err == nil && token == "") {
		return "", ErrTokenNotFound
	}
	return token, err
}

// Save replaces the stored token and resets its expiration.
func (rs *redisTokenStore) Save(ctx context.Context, token string) error {
	if err := rs.client.Set(ctx, rs.key, token, rs.ttl).Err(); err != nil {
		return err
	}
	rs.logger.Debug("session token stored", zap.String("store.key", rs.key), zap.Duration("store.ttl", rs.ttl))
	return nil
}

// Delete erases the stored token.
func (rs *redisTokenStore) Delete(ctx context.Context) error {
	if err := rs.client.Del(ctx, rs.key).Err(); err != nil {
		return err
	}
	rs.logger.Debug("session token erased", zap.String("store.key", rs.key))
	return nil
}

// Close releases the connection pool.
func (rs *redisTokenStore) Close() error {
	return rs.client.Close()
}
