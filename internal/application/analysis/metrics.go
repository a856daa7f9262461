package analysis

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// analysesTotal counts finished analyses.
	// Labels: outcome (success, timeout, domain_error, invalid_input)
	analysesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fptaylor",
		Subsystem: "analysis",
		Name:      "total",
		Help:      "Total analyzer invocations by outcome",
	}, []string{"outcome"})

	analysisDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "fptaylor",
		Subsystem: "analysis",
		Name:      "duration_seconds",
		Help:      "Wall-clock time of analyzer invocations",
		Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
	}, []string{"outcome"})

	analysesRunning = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "fptaylor",
		Subsystem: "analysis",
		Name:      "running",
		Help:      "Analyzer processes currently running",
	})

	// queryLogWrites counts query log attempts.
	// Labels: result (created, exists, error)
	queryLogWrites = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fptaylor",
		Subsystem: "querylog",
		Name:      "writes_total",
		Help:      "Query log writes by result",
	}, []string{"result"})
)

func recordOutcome(outcome string, elapsed time.Duration) {
	analysesTotal.WithLabelValues(outcome).Inc()
	analysisDuration.WithLabelValues(outcome).Observe(elapsed.Seconds())
}
