package redis

import (
	"context"
	"net"
	"time"

	"tourbook/config"

	goRedis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

func New(config *config.Config) *goRedis.Client {
	ctx := context.Background()
	client := goRedis.NewClient(&goRedis.Options{
		Addr:         net.JoinHostPort(config.Cache.Redis.Primary.Host, config.Cache.Redis.Primary.Port),
		Password:     config.Cache.Redis.Primary.Password,
		DB:           config.Cache.Redis.Primary.DB,
		DialTimeout:  time.Duration(config.Cache.DialTimeoutSeconds) * time.Second,
		ReadTimeout:  time.Duration(config.Cache.ReadWriteTimeoutMilli) * time.Millisecond,
		WriteTimeout: time.Duration(config.Cache.ReadWriteTimeoutMilli) * time.Millisecond,
	})

	// Cache and rate counters degrade gracefully, so an unreachable Redis is not fatal.
	if _, err := client.Ping(ctx).Result(); err != nil {
		log.Error().Err(err).
			Str("host", config.Cache.Redis.Primary.Host).
			Msg("Failed to connect to Redis, continuing with degraded cache and local rate limits")

		return client
	}

	log.Info().
		Int("db", config.Cache.Redis.Primary.DB).
		Str("host", config.Cache.Redis.Primary.Host).
		Str("port", config.Cache.Redis.Primary.Port).
		Msg("Connected to Redis")

	return client
}
