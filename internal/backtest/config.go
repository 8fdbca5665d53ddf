// Package backtest replays historical match sequences through the decision
// analyzer and bankroll ledger, and repeats those replays over shuffled
// sequences to measure robustness under sequencing variance.
package backtest

import (
	"fmt"

	"github.com/yourusername/value-better/internal/config"
)

// Strategy selects the stake-sizing rule used during a replay.
type Strategy string

const (
	// StrategyCapitalGrowth sizes by damped Kelly fractions.
	StrategyCapitalGrowth Strategy = "capital_growth"
	// StrategyFlatPercentage sizes by a fixed percentage tiered by edge.
	StrategyFlatPercentage Strategy = "flat_percentage"
	// StrategyEdgeProportional sizes in proportion to the edge.
	StrategyEdgeProportional Strategy = "edge_proportional"
)

// Settings is the fully enumerated backtest configuration. Defaults come
// from DefaultSettings at construction time; nothing is defaulted later.
type Settings struct {
	StartingBankroll     float64  `json:"starting_bankroll"`
	Strategy             Strategy `json:"strategy"`
	MinEdgePct           float64  `json:"min_edge_pct"`
	MaxStakePct          float64  `json:"max_stake_pct"`
	GrowthFraction       float64  `json:"growth_fraction"`
	MinConfidence        float64  `json:"min_confidence"`
	StopLossPct          float64  `json:"stop_loss_pct"`
	TakeProfitPct        float64  `json:"take_profit_pct"`
	MonteCarloIterations int      `json:"monte_carlo_iterations"`
	Workers              int      `json:"workers"`
	Seed                 int64    `json:"seed"`
	RiskFreeRate         float64  `json:"risk_free_rate"`
}

// DefaultSettings returns the standard backtest settings.
func DefaultSettings() Settings {
	return Settings{
		StartingBankroll:     1000,
		Strategy:             StrategyCapitalGrowth,
		MinEdgePct:           2.0,
		MaxStakePct:          10.0,
		GrowthFraction:       0.25,
		MinConfidence:        0.5,
		MonteCarloIterations: 1000,
	}
}

// FromConfig converts the app-level backtest config into engine settings.
func FromConfig(cfg *config.BacktestConfig) (Settings, error) {
	if cfg == nil {
		return Settings{}, fmt.Errorf("backtest config is required")
	}
	s := Settings{
		StartingBankroll:     cfg.StartingBankroll,
		Strategy:             Strategy(cfg.Strategy),
		MinEdgePct:           cfg.MinEdgePct,
		MaxStakePct:          cfg.MaxStakePct,
		GrowthFraction:       cfg.GrowthFraction,
		MinConfidence:        cfg.MinConfidence,
		StopLossPct:          cfg.StopLossPct,
		TakeProfitPct:        cfg.TakeProfitPct,
		MonteCarloIterations: cfg.MonteCarloIterations,
		Workers:              cfg.Workers,
		Seed:                 cfg.Seed,
		RiskFreeRate:         cfg.RiskFreeRate,
	}
	return s, s.Validate()
}

// Validate validates settings parameters.
func (s Settings) Validate() error {
	if s.StartingBankroll <= 0 {
		return fmt.Errorf("starting bankroll must be positive")
	}
	switch s.Strategy {
	case StrategyCapitalGrowth, StrategyFlatPercentage, StrategyEdgeProportional:
	default:
		return fmt.Errorf("unknown strategy %q", s.Strategy)
	}
	if s.MinEdgePct < 0 {
		return fmt.Errorf("min edge cannot be negative")
	}
	if s.MaxStakePct < 0 || s.MaxStakePct > 100 {
		return fmt.Errorf("max stake must be between 0 and 100 percent")
	}
	if s.GrowthFraction < 0 || s.GrowthFraction > 1 {
		return fmt.Errorf("growth fraction must be between 0 and 1")
	}
	if s.MinConfidence < 0 || s.MinConfidence > 1 {
		return fmt.Errorf("min confidence must be between 0 and 1")
	}
	if s.StopLossPct > 0 && s.TakeProfitPct > 0 && s.StopLossPct >= s.TakeProfitPct {
		return fmt.Errorf("stop-loss must be below take-profit")
	}
	if s.MonteCarloIterations < 0 {
		return fmt.Errorf("monte carlo iterations cannot be negative")
	}
	return nil
}
