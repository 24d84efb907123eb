package global

import (
	"github.com/travigo/metroplanner/pkg/config"
	"github.com/travigo/metroplanner/pkg/dataaggregator"
	"github.com/travigo/metroplanner/pkg/dataaggregator/source/cachedresults"
	"github.com/travigo/metroplanner/pkg/dataaggregator/source/journeyplanner"
	"github.com/travigo/metroplanner/pkg/dataaggregator/source/metrovalencia"
	"github.com/travigo/metroplanner/pkg/dataaggregator/source/stationdirectory"
	"github.com/travigo/metroplanner/pkg/metrics"
	"github.com/travigo/metroplanner/pkg/stations"
)

// Setup registers every data source the service answers queries from
func Setup(cfg *config.Config, directory *stations.Directory, cache *cachedresults.Cache, collector *metrics.Collector) *dataaggregator.Aggregator {
	aggregator := &dataaggregator.Aggregator{}

	aggregator.RegisterSource(stationdirectory.Source{
		Directory: directory,
	})

	aggregator.RegisterSource(metrovalencia.Source{
		Client: metrovalencia.NewClient(cfg.Upstream, cache, collector),
	})

	aggregator.RegisterSource(journeyplanner.Source{
		Aggregator: aggregator,
		Metrics:    collector,
		Location:   cfg.Location,
	})

	return aggregator
}
