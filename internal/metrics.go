package internal

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	queriesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "askgate_queries_total",
		Help: "Total number of answered queries.",
	})
	queryDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "askgate_query_duration_seconds",
		Help:    "Time from query to composed answer.",
		Buckets: prometheus.DefBuckets,
	})
	rebuildsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "askgate_rebuilds_total",
		Help: "Total number of index rebuilds.",
	})
	gateRunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "askgate_gate_runs_total",
		Help: "Total number of gate runs by verdict.",
	}, []string{"verdict"})
)

func observeQuery(d time.Duration) {
	queriesTotal.Inc()
	queryDuration.Observe(d.Seconds())
}

func countRebuild() {
	rebuildsTotal.Inc()
}

func countGateRun(v Verdict) {
	gateRunsTotal.WithLabelValues(string(v)).Inc()
}
