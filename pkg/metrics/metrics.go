package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Collector struct {
	reg *prometheus.Registry

	JourneyPlans        *prometheus.CounterVec // result label: found|no_service|invalid_input|upstream_error
	ItinerariesPerPlan  prometheus.Histogram
	UpstreamRequests    *prometheus.CounterVec // endpoint, outcome labels
	UpstreamDuration    *prometheus.HistogramVec
	TimetableCacheLooks *prometheus.CounterVec // outcome label: hit|miss|error
}

func NewCollector() *Collector {
	reg := prometheus.NewRegistry()

	c := &Collector{
		reg: reg,
		JourneyPlans: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "metroplanner_journey_plans_total",
			Help: "Journey plan requests by result.",
		}, []string{"result"}),
		ItinerariesPerPlan: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "metroplanner_itineraries_per_plan",
			Help:    "Number of itineraries returned per successful plan.",
			Buckets: prometheus.LinearBuckets(0, 10, 12),
		}),
		UpstreamRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "metroplanner_upstream_requests_total",
			Help: "Requests made to the timetable operator.",
		}, []string{"endpoint", "outcome"}),
		UpstreamDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "metroplanner_upstream_request_duration_seconds",
			Help:    "Duration of requests to the timetable operator, retries included.",
			Buckets: prometheus.ExponentialBuckets(0.025, 2, 10),
		}, []string{"endpoint"}),
		TimetableCacheLooks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "metroplanner_timetable_cache_total",
			Help: "Timetable cache lookups by outcome.",
		}, []string{"outcome"}),
	}

	reg.MustRegister(c.JourneyPlans, c.ItinerariesPerPlan, c.UpstreamRequests, c.UpstreamDuration, c.TimetableCacheLooks)

	return c
}

func (c *Collector) Handler() http.Handler { return promhttp.HandlerFor(c.reg, promhttp.HandlerOpts{}) }

// The record helpers accept a nil collector so packages can run without metrics wired in

func (c *Collector) RecordJourneyPlan(result string, itineraries int) {
	if c == nil {
		return
	}

	c.JourneyPlans.WithLabelValues(result).Inc()
	if result == "found" {
		c.ItinerariesPerPlan.Observe(float64(itineraries))
	}
}

func (c *Collector) RecordUpstreamRequest(endpoint string, outcome string, duration time.Duration) {
	if c == nil {
		return
	}

	c.UpstreamRequests.WithLabelValues(endpoint, outcome).Inc()
	c.UpstreamDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

func (c *Collector) RecordCacheLookup(outcome string) {
	if c == nil {
		return
	}

	c.TimetableCacheLooks.WithLabelValues(outcome).Inc()
}
