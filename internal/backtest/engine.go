package backtest

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/yourusername/value-better/internal/analysis"
	"github.com/yourusername/value-better/internal/bankroll"
	"github.com/yourusername/value-better/internal/metrics"
	"github.com/yourusername/value-better/internal/models"
)

// Engine replays historical match sequences against the decision analyzer.
// It holds no mutable state between runs; every replay gets a fresh ledger.
type Engine struct {
	settings Settings
	analyzer *analysis.Analyzer
	logger   *logrus.Logger
}

// NewEngine creates a backtesting engine. The analyzer's stake ceiling and
// Kelly damping are derived from the settings.
func NewEngine(settings Settings, logger *logrus.Logger) (*Engine, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logrus.New()
	}

	analyzerCfg := analysis.DefaultAnalyzerConfig()
	analyzerCfg.KellyFraction = settings.GrowthFraction
	analyzerCfg.MaxStakeFraction = settings.MaxStakePct / 100.0

	return &Engine{
		settings: settings,
		analyzer: analysis.NewAnalyzer(analyzerCfg, logger),
		logger:   logger,
	}, nil
}

// Settings returns the engine configuration.
func (e *Engine) Settings() Settings {
	return e.settings
}

// Run replays the match history in chronological order and returns the
// performance report. Any analysis error aborts the replay, attributed to
// the offending match; silent skips would corrupt comparability across
// Monte-Carlo runs.
func (e *Engine) Run(ctx context.Context, matches []models.Match) (*Report, error) {
	sorted := make([]models.Match, len(matches))
	copy(sorted, matches)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].KickoffTime.Before(sorted[j].KickoffTime)
	})

	report, err := e.replay(ctx, sorted)
	if err != nil {
		metrics.RecordBacktestRun("historical_replay", "failure")
		return nil, err
	}
	metrics.RecordBacktestRun("historical_replay", "success")
	return report, nil
}

// replay runs the matches in the order given. Monte-Carlo calls this
// directly with shuffled sequences; sorting there would undo the shuffle.
func (e *Engine) replay(ctx context.Context, matches []models.Match) (*Report, error) {
	if len(matches) == 0 {
		return nil, models.ErrNoMatches
	}

	start := time.Now()
	ledger := bankroll.NewLedger(e.settings.StartingBankroll)
	limits := bankroll.StopLimits{
		StopLossPct:   e.settings.StopLossPct,
		TakeProfitPct: e.settings.TakeProfitPct,
	}
	report := newReport(e.settings)

	for i := range matches {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		m := &matches[i]

		result, err := e.analyzer.Analyze(m.Estimate, m.Prices, ledger.Balance)
		if err != nil {
			return nil, fmt.Errorf("match %s (%s vs %s): %w", m.ID, m.HomeTeam, m.AwayTeam, err)
		}

		pick, ok := e.selectCandidate(result, m.Estimate.Confidence)
		if !ok {
			continue
		}

		fraction := e.stakeFraction(pick)
		stake := analysis.StakeAmount(ledger.Balance, fraction)
		if stake <= 0 {
			continue
		}

		won := m.OutcomeOccurred(pick.Outcome, m.Estimate.GoalLine)
		balanceBefore := ledger.Balance
		ledger = bankroll.Settle(ledger, stake, pick.Price, won)
		metrics.RecordSettledBet(won)

		bet := models.SimulatedBet{
			ID:           betID(m.ID, pick.Outcome),
			MatchID:      m.ID,
			Market:       pick.Market,
			Outcome:      pick.Outcome,
			Price:        pick.Price,
			Stake:        stake,
			Probability:  pick.Probability,
			EdgePct:      pick.EdgePct,
			Won:          won,
			Payout:       ledger.Balance - balanceBefore + stake,
			ProfitLoss:   ledger.Balance - balanceBefore,
			BalanceAfter: ledger.Balance,
			KickoffTime:  m.KickoffTime,
		}
		report.recordBet(bet, balanceBefore, ledger)

		if stop, reason := bankroll.ShouldStop(ledger, limits); stop {
			report.StoppedEarly = true
			report.StopReason = reason
			break
		}
	}

	report.finalize(ledger, e.settings.RiskFreeRate)
	metrics.ObserveReplayDuration(time.Since(start))

	e.logger.WithFields(logrus.Fields{
		"matches":       len(matches),
		"bets":          report.TotalBets,
		"final_balance": report.FinalBalance,
		"roi_pct":       report.ROIPct,
	}).Debug("Replay complete")

	return report, nil
}

// selectCandidate picks the single highest-edge recommendation meeting the
// configured thresholds. One bet per match keeps the bankroll math a strict
// sequential reduction.
func (e *Engine) selectCandidate(result *analysis.Analysis, confidence float64) (analysis.Recommendation, bool) {
	if confidence < e.settings.MinConfidence {
		return analysis.Recommendation{}, false
	}
	// Recommendations are already ranked by edge descending.
	for _, rec := range result.Recommendations {
		if rec.EdgePct >= e.settings.MinEdgePct && rec.EdgePct > 0 {
			return rec, true
		}
	}
	return analysis.Recommendation{}, false
}

func (e *Engine) stakeFraction(pick analysis.Recommendation) float64 {
	var fraction float64
	switch e.settings.Strategy {
	case StrategyFlatPercentage:
		fraction = analysis.FlatStakeFraction(pick.EdgePct)
	case StrategyEdgeProportional:
		fraction = analysis.EdgeProportionalFraction(pick.EdgePct)
	default:
		fraction = analysis.StakeFraction(pick.Probability, pick.Price, true, e.settings.GrowthFraction)
	}

	ceiling := e.settings.MaxStakePct / 100.0
	if fraction > ceiling {
		fraction = ceiling
	}
	return fraction
}

// betID derives a stable identifier so that equal inputs produce
// byte-identical reports.
func betID(matchID uuid.UUID, outcome models.Outcome) uuid.UUID {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(matchID.String()+"/"+string(outcome)))
}
