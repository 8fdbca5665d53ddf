package backtest

import (
	"math"
	"sort"
)

// annualizationFactor scales per-bet return ratios onto a yearly horizon,
// treating a bet as one trading period.
const annualizationFactor = 252

func calculateSharpeRatio(returns []float64, riskFreeRate float64) float64 {
	if len(returns) == 0 {
		return 0
	}
	mean := average(returns)
	std := stddev(returns)
	if std == 0 {
		return 0
	}
	return (mean - riskFreeRate/annualizationFactor) / std * math.Sqrt(annualizationFactor)
}

// calculateSortinoRatio uses downside deviation normalized by the downside
// count (the conventional definition).
func calculateSortinoRatio(returns []float64, riskFreeRate float64) float64 {
	if len(returns) == 0 {
		return 0
	}
	mean := average(returns)
	downside := downsideDeviation(returns)
	if downside == 0 {
		return 0
	}
	return (mean - riskFreeRate/annualizationFactor) / downside * math.Sqrt(annualizationFactor)
}

func calculateCalmarRatio(roiPct, maxDrawdown float64) float64 {
	if maxDrawdown <= 0 {
		return 0
	}
	return roiPct / (maxDrawdown * 100.0)
}

func average(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func stddev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	mean := average(values)
	variance := 0.0
	for _, v := range values {
		diff := v - mean
		variance += diff * diff
	}
	variance /= float64(len(values))
	return math.Sqrt(variance)
}

func downsideDeviation(values []float64) float64 {
	variance := 0.0
	count := 0
	for _, v := range values {
		if v < 0 {
			variance += v * v
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return math.Sqrt(variance / float64(count))
}

func median(values []float64) float64 {
	return percentile(values, 0.5)
}

func percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := append([]float64{}, values...)
	sort.Float64s(sorted)
	idx := int(math.Floor(p * float64(len(sorted)-1)))
	if idx < 0 {
		idx = 0
	}
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}
