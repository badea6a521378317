package helper

import (
	"bus_portal/config"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

var Redis *redis.Client

// InitRedis connects to REDIS_ADDR. Without Redis the seat stream falls back to
// in-process broadcast and caching is skipped.
func InitRedis() {
	addr := config.Config("REDIS_ADDR")
	if addr == "" {
		log.Println("REDIS_ADDR not set, realtime fan-out is local only")
		return
	}
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: config.Config("REDIS_PASSWORD"),
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("Redis unavailable at %s: %v", addr, err)
		_ = client.Close()
		return
	}
	Redis = client
	log.Printf("Connected to Redis at %s", addr)
}

func CloseRedis() {
	if Redis != nil {
		_ = Redis.Close()
	}
}

func TripSeatChannel(tripId uint) string {
	return fmt.Sprintf("trip:%d:seats", tripId)
}

func Publish(ctx context.Context, channel string, payload any) error {
	if Redis == nil {
		return nil
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return Redis.Publish(ctx, channel, b).Err()
}

// CacheGet decodes a cached JSON value. It reports false on miss or when Redis is off.
func CacheGet(ctx context.Context, key string, dest any) bool {
	if Redis == nil {
		return false
	}
	raw, err := Redis.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Printf("cache get %s: %v", key, err)
		}
		return false
	}
	return json.Unmarshal(raw, dest) == nil
}

func CacheSet(ctx context.Context, key string, value any, ttl time.Duration) {
	if Redis == nil {
		return
	}
	b, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := Redis.Set(ctx, key, b, ttl).Err(); err != nil {
		log.Printf("cache set %s: %v", key, err)
	}
}

func CacheDelete(ctx context.Context, keys ...string) {
	if Redis == nil {
		return
	}
	if err := Redis.Del(ctx, keys...).Err(); err != nil {
		log.Printf("cache delete %v: %v", keys, err)
	}
}
