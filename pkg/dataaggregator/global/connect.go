package global

import (
	"context"

	"github.com/redis/go-redis/v9"
	"github.com/travigo/metroplanner/pkg/config"
	"github.com/travigo/metroplanner/pkg/dataaggregator"
	"github.com/travigo/metroplanner/pkg/dataaggregator/source/cachedresults"
	"github.com/travigo/metroplanner/pkg/metrics"
	"github.com/travigo/metroplanner/pkg/redis_client"
	"github.com/travigo/metroplanner/pkg/stations"
)

type Services struct {
	Aggregator *dataaggregator.Aggregator
	Metrics    *metrics.Collector
	Redis      *redis.Client
}

// Connect loads the station directory, connects the optional Redis cache and registers the data sources
func Connect(ctx context.Context, cfg *config.Config) (*Services, error) {
	directory, err := stations.Load(cfg.StationsFile)
	if err != nil {
		return nil, err
	}

	redisClient, err := redis_client.Connect(ctx, cfg.Redis)
	if err != nil {
		return nil, err
	}

	collector := metrics.NewCollector()
	cache := cachedresults.New(redisClient, cfg.Redis.CacheExpiration, collector)

	return &Services{
		Aggregator: Setup(cfg, directory, cache, collector),
		Metrics:    collector,
		Redis:      redisClient,
	}, nil
}

func (s *Services) Close() {
	if s.Redis != nil {
		s.Redis.Close()
	}
}
