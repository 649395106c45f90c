package redis

import (
	"fmt"
)

// InitRedis connects to the Redis instance at url and checks it answers
func InitRedis(url string) (*RedisClient, error) {
	rc, err := NewRedisClient(url)
	if err != nil {
		return nil, err
	}

	if err := rc.client.Ping(rc.ctx).Err(); err != nil {
		rc.client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %v", err)
	}
	return rc, nil
}

// CloseRedis gracefully closes the Redis connection
func CloseRedis(rc *RedisClient) error {
	if err := rc.client.Close(); err != nil {
		return fmt.Errorf("error closing Redis connection: %v", err)
	}
	return nil
}
