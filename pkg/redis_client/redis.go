package redis_client

import (
	"context"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/travigo/metroplanner/pkg/config"
)

// Connect returns nil without error when no Redis address is configured
func Connect(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	if cfg.Address == "" {
		log.Info().Msg("Skipping Redis setup")
		return nil, nil
	}

	var client *redis.Client

	if cfg.Password == "" {
		client = redis.NewClient(&redis.Options{
			Addr: cfg.Address,
			DB:   cfg.Database,
		})
	} else {
		client = redis.NewClient(&redis.Options{
			Addr:     cfg.Address,
			Password: cfg.Password,
			DB:       cfg.Database,
		})
	}

	statusCmd := client.Ping(ctx)
	if err := statusCmd.Err(); err != nil {
		client.Close()
		return nil, err
	}

	log.Info().Str("address", cfg.Address).Int("database", cfg.Database).Msg("Redis client setup")

	return client, nil
}
