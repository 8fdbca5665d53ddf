// Package bankroll models a sequential ledger of stakes and outcomes.
// The transition function is pure (ledger in, ledger out) so that backtest
// replays stay deterministic and trivially testable.
package bankroll

import (
	"fmt"
	"math/rand"
)

// StreakType labels the current run of results.
type StreakType string

const (
	StreakNone    StreakType = "NONE"
	StreakWinning StreakType = "WINNING"
	StreakLosing  StreakType = "LOSING"
)

// Ledger tracks a bankroll through a sequence of settled bets. It is the
// only mutable entity in the core and is advanced exactly once per settled
// bet, in chronological order, never concurrently.
type Ledger struct {
	StartingBalance float64    `json:"starting_balance"`
	Balance         float64    `json:"balance"`
	Peak            float64    `json:"peak"`
	Trough          float64    `json:"trough"`
	TotalBets       int        `json:"total_bets"`
	Wins            int        `json:"wins"`
	Losses          int        `json:"losses"`
	TotalStaked     float64    `json:"total_staked"`
	TotalReturned   float64    `json:"total_returned"`
	StreakLength    int        `json:"streak_length"`
	Streak          StreakType `json:"streak"`
	WinRate         float64    `json:"win_rate"`
	ROIPct          float64    `json:"roi_pct"`
	MaxDrawdown     float64    `json:"max_drawdown"`
}

// NewLedger initializes a ledger at the given starting balance.
func NewLedger(starting float64) Ledger {
	return Ledger{
		StartingBalance: starting,
		Balance:         starting,
		Peak:            starting,
		Trough:          starting,
		Streak:          StreakNone,
	}
}

// Settle advances the ledger by one settled bet and returns the new state.
// The input ledger is not modified. Max drawdown is tracked as a running
// maximum of (peak-balance)/peak, not recomputed from history.
func Settle(l Ledger, stake, price float64, won bool) Ledger {
	payout := 0.0
	if won {
		payout = stake * price
	}

	l.Balance += payout - stake
	l.TotalBets++
	l.TotalStaked += stake
	l.TotalReturned += payout

	if won {
		l.Wins++
		if l.Streak == StreakWinning {
			l.StreakLength++
		} else {
			l.Streak = StreakWinning
			l.StreakLength = 1
		}
	} else {
		l.Losses++
		if l.Streak == StreakLosing {
			l.StreakLength++
		} else {
			l.Streak = StreakLosing
			l.StreakLength = 1
		}
	}

	if l.Balance > l.Peak {
		l.Peak = l.Balance
	}
	if l.Balance < l.Trough {
		l.Trough = l.Balance
	}

	l.WinRate = float64(l.Wins) / float64(l.TotalBets)
	if l.TotalStaked > 0 {
		l.ROIPct = (l.TotalReturned - l.TotalStaked) / l.TotalStaked * 100.0
	}
	if l.Peak > 0 {
		if drawdown := (l.Peak - l.Balance) / l.Peak; drawdown > l.MaxDrawdown {
			l.MaxDrawdown = drawdown
		}
	}

	return l
}

// StopLimits configures the stop-loss floor and take-profit ceiling as
// percentages of the starting balance. A zero limit disables that side.
type StopLimits struct {
	StopLossPct   float64
	TakeProfitPct float64
}

// ShouldStop reports whether the ledger has breached a configured limit.
// Reaching a limit is a normal, expected termination, never an error.
func ShouldStop(l Ledger, limits StopLimits) (bool, string) {
	if l.StartingBalance <= 0 {
		return false, ""
	}
	pct := l.Balance / l.StartingBalance * 100.0
	if limits.StopLossPct > 0 && pct <= limits.StopLossPct {
		return true, fmt.Sprintf("stop-loss: balance at %.1f%% of starting", pct)
	}
	if limits.TakeProfitPct > 0 && pct >= limits.TakeProfitPct {
		return true, fmt.Sprintf("take-profit: balance at %.1f%% of starting", pct)
	}
	return false, ""
}

// SimulateOutcome draws a Bernoulli win/loss from an injected random source.
// Used when settling synthetic histories; real replays settle against
// recorded scores instead.
func SimulateOutcome(rng *rand.Rand, probability float64) bool {
	if probability <= 0 {
		return false
	}
	if probability >= 1 {
		return true
	}
	return rng.Float64() < probability
}
