// Package metrics exposes Prometheus instrumentation for the engine.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "value_better"

func init() {
	prometheus.MustRegister(
		BacktestRunsTotal,
		BetsSettledTotal,
		ReplayDuration,
		MonteCarloReplaysTotal,
	)
}

// Handler returns the HTTP handler serving the default registry, for the
// backtest CLI's optional /metrics listener during long Monte-Carlo batches.
func Handler() http.Handler {
	return promhttp.Handler()
}
