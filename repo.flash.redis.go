package main

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var _ FlashStore = (*redisFlashStore)(nil) // ensure redisFlashStore implements FlashStore.

// redisFlashStore keeps each session notices into a redis list
// which expires after the configured ttl.
type redisFlashStore struct {
	logger *zap.Logger
	client *redis.Client
	ttl    time.Duration
}

// NewRedisFlashStore provides an instance of redis-based flash store.
func NewRedisFlashStore(logger *zap.Logger, client *redis.Client, ttl time.Duration) FlashStore {
	return &redisFlashStore{
		logger: logger,
		client: client,
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
		PoolSize:     config.Redis.PoolSize,
		PoolTimeout:  config.Redis.PoolTimeout,
		Password:     config.Redis.Password,
		Username:     config.Redis.Username,
		DB:           config.Redis.DatabaseIndex,
	})

	// test connection.
	if pong, err := client.Ping(context.Background()).Result(); pong != "PONG" || err != nil {
		return client, fmt.Errorf("test connection failed: %v", err)
	}
	return client, nil
}

// Push appends messages to the session list and refreshes its expiry.
func (rf *redisFlashStore) Push(ctx context.Context, sid string, messages ...string) error {
	if sid == "" {
		return ErrInvalidSession
	}
	if len(messages) == 0 {
		return nil
	}
	values := make([]interface{}, 0, len(messages))
	for _, m := range messages {
		values = append(values, m)
	}
	key := flashKey(sid)
	_, err := rf.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.RPush(ctx, key, values...)
		pipe.Expire(ctx, key, rf.ttl)
		return nil
	})
	return err
}

// Pop returns all pending messages of the session in push order and removes them.
func (rf *redisFlashStore) Pop(ctx context.Context, sid string) ([]string, error) {
	if sid == "" {
		return nil, ErrInvalidSession
	}
	key := flashKey(sid)
	var lrange *redis.StringSliceCmd
	_, err := rf.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		lrange = pipe.LRange(ctx, key, 0, -1)
		pipe.Del(ctx, key)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return lrange.Val(), nil
}

// Close releases the redis connections pool.
func (rf *redisFlashStore) Close() error {
	return rf.client.Close()
}
