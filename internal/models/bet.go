package models

import (
	"time"

	"github.com/google/uuid"
)

// SimulatedBet is one settled bet inside a backtest replay.
type SimulatedBet struct {
	ID           uuid.UUID `json:"id"`
	MatchID      uuid.UUID `json:"match_id"`
	Market       Market    `json:"market"`
	Outcome      Outcome   `json:"outcome"`
	Price        float64   `json:"price"`
	Stake        float64   `json:"stake"`
	Probability  float64   `json:"probability"`
	EdgePct      float64   `json:"edge_pct"`
	Won          bool      `json:"won"`
	Payout       float64   `json:"payout"`
	ProfitLoss   float64   `json:"profit_loss"`
	BalanceAfter float64   `json:"balance_after"`
	KickoffTime  time.Time `json:"kickoff_time"`
}

// GetROI returns the return on investment percentage for this bet.
func (b *SimulatedBet) GetROI() float64 {
	if b.Stake == 0 {
		return 0
	}
	return (b.ProfitLoss / b.Stake) * 100
}
