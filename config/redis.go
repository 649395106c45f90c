package config

import (
	"Awardly/logging"
	"Awardly/services/redis"
)

// Connect to Redis
func Connect_redis(cfg RedisConfig) (*redis.RedisClient, error) {
	redisClient, err := redis.InitRedis(cfg.URL)
	if err != nil {
		logging.Log.Errorf("Error connecting to Redis: %v", err)
		return nil, err
	}
	if cfg.ReviewCursorTTL > 0 {
		redisClient.CursorTTL = cfg.ReviewCursorTTL
	}
	logging.Log.Info("Redis connection established")
	return redisClient, nil
}
