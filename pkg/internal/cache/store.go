package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/eko/gocache/lib/v4/store"
	redisStore "github.com/eko/gocache/store/redis/v4"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
)

// S is nil when caching is disabled, callers go straight to the database then.
var S store.StoreInterface

func NewCache() error {
	if !viper.GetBool("cache.enabled") {
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     viper.GetString("cache.addr"),
		Password: viper.GetString("cache.password"),
		DB:       viper.GetInt("cache.db"),
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("connect to redis: %w", err)
	}

	S = NewRedisStore(client, viper.GetDuration("cache.ttl"))
	return nil
}

func NewRedisStore(client *redis.Client, ttl time.Duration) store.StoreInterface {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return redisStore.NewRedis(client, store.WithExpiration(ttl))
}
