package backtest

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
)

// Verdict is the aggregate judgment on a strategy configuration.
type Verdict string

const (
	VerdictAccept      Verdict = "ACCEPT"
	VerdictNeedsReview Verdict = "NEEDS_REVIEW"
	VerdictReject      Verdict = "REJECT"
)

// AggregatedResult combines the historical replay with the Monte-Carlo
// distribution into a single scored judgment.
type AggregatedResult struct {
	Historical     *Report          `json:"historical"`
	MonteCarlo     *SimulationBatch `json:"monte_carlo,omitempty"`
	CompositeScore float64          `json:"composite_score"`
	Verdict        Verdict          `json:"verdict"`
}

// Aggregate scores a replay against its Monte-Carlo batch. The batch may be
// nil when only a historical run was requested; the verdict then rests on
// the replay alone.
func Aggregate(historical *Report, monteCarlo *SimulationBatch) AggregatedResult {
	score := compositeScore(historical, monteCarlo)
	return AggregatedResult{
		Historical:     historical,
		MonteCarlo:     monteCarlo,
		CompositeScore: score,
		Verdict:        verdict(score, historical, monteCarlo),
	}
}

// compositeScore maps the replay metrics onto [0,1]. Sharpe carries the
// largest weight; drawdown and sequencing fragility act as penalties.
func compositeScore(historical *Report, monteCarlo *SimulationBatch) float64 {
	sharpeScore := normalize(historical.SharpeRatio, -2, 3)
	roiScore := normalize(historical.ROIPct, -50, 100)
	drawdownPenalty := 1.0 - normalize(historical.MaxDrawdown, 0, 0.5)
	winRateScore := normalize(historical.WinRate, 0, 1)

	score := sharpeScore*0.35 + roiScore*0.25 + drawdownPenalty*0.20 + winRateScore*0.20

	if monteCarlo != nil {
		// A strategy that only wins in one ordering is curve-fit to the
		// calendar, not profitable.
		score = score*0.7 + monteCarlo.ProbProfit*0.3
	}
	return score
}

func verdict(score float64, historical *Report, monteCarlo *SimulationBatch) Verdict {
	ruin := 0.0
	if monteCarlo != nil {
		ruin = monteCarlo.ProbRuin
	}
	if score > 0.7 && historical.ROIPct > 0 && ruin < 0.05 {
		return VerdictAccept
	}
	if score < 0.4 || historical.ROIPct < 0 || ruin > 0.25 {
		return VerdictReject
	}
	return VerdictNeedsReview
}

func normalize(value, min, max float64) float64 {
	if max-min == 0 {
		return 0
	}
	v := (value - min) / (max - min)
	return math.Max(0, math.Min(1, v))
}

// GenerateConsoleReport formats the aggregated result for terminal output.
func GenerateConsoleReport(result AggregatedResult) string {
	var builder strings.Builder
	builder.WriteString("Backtest Report\n")
	builder.WriteString("================\n")
	builder.WriteString(fmt.Sprintf("Composite Score: %.2f\n", result.CompositeScore))
	builder.WriteString(fmt.Sprintf("Verdict: %s\n", result.Verdict))
	builder.WriteString(fmt.Sprintf("Final Balance: %.2f\n", result.Historical.FinalBalance))
	builder.WriteString(fmt.Sprintf("ROI: %.2f%%\n", result.Historical.ROIPct))
	builder.WriteString(fmt.Sprintf("Bets: %d (%.1f%% won)\n", result.Historical.TotalBets, result.Historical.WinRate*100))
	builder.WriteString(fmt.Sprintf("Sharpe Ratio: %.2f\n", result.Historical.SharpeRatio))
	builder.WriteString(fmt.Sprintf("Sortino Ratio: %.2f\n", result.Historical.SortinoRatio))
	builder.WriteString(fmt.Sprintf("Max Drawdown: %.2f%%\n", result.Historical.MaxDrawdown*100))
	if result.Historical.StoppedEarly {
		builder.WriteString(fmt.Sprintf("Stopped Early: %s\n", result.Historical.StopReason))
	}
	if mc := result.MonteCarlo; mc != nil {
		builder.WriteString("\nMonte-Carlo\n")
		builder.WriteString("-----------\n")
		builder.WriteString(fmt.Sprintf("Iterations: %d (seed %d)\n", mc.Iterations, mc.Seed))
		builder.WriteString(fmt.Sprintf("Mean ROI: %.2f%%  Median: %.2f%%  Std: %.2f\n", mc.MeanROI, mc.MedianROI, mc.StdROI))
		builder.WriteString(fmt.Sprintf("ROI P25/P75/P95: %.2f%% / %.2f%% / %.2f%%\n", mc.P25ROI, mc.P75ROI, mc.P95ROI))
		builder.WriteString(fmt.Sprintf("P(profit): %.1f%%  P(ruin): %.1f%%\n", mc.ProbProfit*100, mc.ProbRuin*100))
	}
	return builder.String()
}

// GenerateCSVExport writes the headline metrics for spreadsheets.
func GenerateCSVExport(result AggregatedResult, outputPath string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	var builder strings.Builder
	builder.WriteString("metric,value\n")
	builder.WriteString(fmt.Sprintf("composite_score,%.4f\n", result.CompositeScore))
	builder.WriteString(fmt.Sprintf("roi_pct,%.4f\n", result.Historical.ROIPct))
	builder.WriteString(fmt.Sprintf("sharpe_ratio,%.4f\n", result.Historical.SharpeRatio))
	builder.WriteString(fmt.Sprintf("sortino_ratio,%.4f\n", result.Historical.SortinoRatio))
	builder.WriteString(fmt.Sprintf("calmar_ratio,%.4f\n", result.Historical.CalmarRatio))
	builder.WriteString(fmt.Sprintf("max_drawdown,%.4f\n", result.Historical.MaxDrawdown))
	builder.WriteString(fmt.Sprintf("win_rate,%.4f\n", result.Historical.WinRate))
	if mc := result.MonteCarlo; mc != nil {
		builder.WriteString(fmt.Sprintf("mc_mean_roi_pct,%.4f\n", mc.MeanROI))
		builder.WriteString(fmt.Sprintf("mc_prob_profit,%.4f\n", mc.ProbProfit))
		builder.WriteString(fmt.Sprintf("mc_prob_ruin,%.4f\n", mc.ProbRuin))
	}
	builder.WriteString(fmt.Sprintf("verdict,%s\n", result.Verdict))
	return os.WriteFile(outputPath, []byte(builder.String()), 0o644)
}
