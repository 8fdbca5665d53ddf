// Package metrics defines backtesting-specific metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	BacktestRunsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "backtest_runs_total",
		Help:      "Total number of backtest runs by method and status",
	}, []string{"method", "status"})

	BetsSettledTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "bets_settled_total",
		Help:      "Total simulated bets settled by result",
	}, []string{"result"})

	ReplayDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "replay_duration_seconds",
		Help:      "Wall-clock duration of a single historical replay",
		Buckets:   prometheus.ExponentialBuckets(0.001, 2, 14),
	})

	MonteCarloReplaysTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "monte_carlo_replays_total",
		Help:      "Total replays executed inside Monte-Carlo batches",
	})
)

// RecordBacktestRun records a backtest run event.
// method is "historical_replay" or "monte_carlo"; status is "success" or "failure".
func RecordBacktestRun(method, status string) {
	BacktestRunsTotal.WithLabelValues(method, status).Inc()
}

// RecordSettledBet records one settled simulated bet.
func RecordSettledBet(won bool) {
	result := "lost"
	if won {
		result = "won"
	}
	BetsSettledTotal.WithLabelValues(result).Inc()
}

// ObserveReplayDuration records the duration of one replay.
func ObserveReplayDuration(d time.Duration) {
	ReplayDuration.Observe(d.Seconds())
}

// RecordMonteCarloReplay counts one replay completed inside a batch.
func RecordMonteCarloReplay() {
	MonteCarloReplaysTotal.Inc()
}
