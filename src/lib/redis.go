package lib

import (
	"context"
	"errors"
	"log"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

var redisClient *redis.Client

func GetRedisClient() *redis.Client {
	if redisClient != nil {
		return redisClient
	}
	redisHost := os.Getenv("REDIS_HOST")
	opt, err := redis.ParseURL(redisHost)
	if err != nil {
		log.Printf("[redis] Error parsing connection string: %s\n", err.Error())
		return nil
	}
	rdb := redis.NewClient(opt)
	redisClient = rdb
	return rdb
}

// NewRedisClient Replace redis instance with custom client implementation
func NewRedisClient(c *redis.Client) *redis.Client {
	redisClient = c
	return redisClient
}

// CacheGet returns the cached value for key. A miss and an unavailable cache
// both come back as an empty string; callers fall through to the source.
func CacheGet(ctx context.Context, key string) string {
	rd := GetRedisClient()
	if rd == nil {
		return ""
	}
	val, err := rd.Get(ctx, key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Printf("[redis] Error reading key %s: %s\n", key, err.Error())
		}
		return ""
	}
	return val
}

// CacheSetEx stores value under key with a TTL, best-effort.
func CacheSetEx(ctx context.Context, key string, value string, ttl time.Duration) {
	rd := GetRedisClient()
	if rd == nil {
		return
	}
	if err := rd.SetEx(ctx, key, value, ttl).Err(); err != nil {
		log.Printf("[redis] Error caching key %s: %s\n", key, err.Error())
	}
}
