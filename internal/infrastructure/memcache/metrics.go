package memcache

import "github.com/prometheus/client_golang/prometheus"

var (
	cacheHits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_cache_hits_total",
			Help: "Server cache lookups answered by a live entry",
		},
		[]string{"cache"},
	)

	cacheMisses = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_cache_misses_total",
			Help: "Server cache lookups that found no live entry",
		},
		[]string{"cache"},
	)

	cacheGenerations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_cache_generations_total",
			Help: "Generator invocations by outcome",
		},
		[]string{"cache", "result"},
	)
)

func init() {
	prometheus.MustRegister(cacheHits)
	prometheus.MustRegister(cacheMisses)
	prometheus.MustRegister(cacheGenerations)
}
