package backtest

import (
	"encoding/json"

	"github.com/yourusername/value-better/internal/bankroll"
	"github.com/yourusername/value-better/internal/models"
)

// EquityPoint is the bankroll balance after one settled bet.
type EquityPoint struct {
	BetIndex int     `json:"bet_index"`
	Balance  float64 `json:"balance"`
	Drawdown float64 `json:"drawdown"`
}

// Report is the immutable snapshot taken at the end of a single replay.
// It contains no wall-clock timestamps so that equal inputs produce
// byte-identical reports.
type Report struct {
	Settings     Settings              `json:"settings"`
	Ledger       bankroll.Ledger       `json:"ledger"`
	Bets         []models.SimulatedBet `json:"bets"`
	EquityCurve  []EquityPoint         `json:"equity_curve"`
	Returns      []float64             `json:"returns"`
	FinalBalance float64               `json:"final_balance"`
	ROIPct       float64               `json:"roi_pct"`
	TotalBets    int                   `json:"total_bets"`
	Wins         int                   `json:"wins"`
	Losses       int                   `json:"losses"`
	WinRate      float64               `json:"win_rate"`
	MaxDrawdown  float64               `json:"max_drawdown"`
	SharpeRatio  float64               `json:"sharpe_ratio"`
	SortinoRatio float64               `json:"sortino_ratio"`
	CalmarRatio  float64               `json:"calmar_ratio"`
	StoppedEarly bool                  `json:"stopped_early"`
	StopReason   string                `json:"stop_reason,omitempty"`
}

func newReport(settings Settings) *Report {
	return &Report{
		Settings: settings,
		EquityCurve: []EquityPoint{
			{BetIndex: 0, Balance: settings.StartingBankroll},
		},
	}
}

func (r *Report) recordBet(bet models.SimulatedBet, balanceBefore float64, ledger bankroll.Ledger) {
	r.Bets = append(r.Bets, bet)
	if balanceBefore > 0 {
		r.Returns = append(r.Returns, bet.ProfitLoss/balanceBefore)
	} else {
		r.Returns = append(r.Returns, 0)
	}

	drawdown := 0.0
	if ledger.Peak > 0 {
		drawdown = (ledger.Peak - ledger.Balance) / ledger.Peak
	}
	r.EquityCurve = append(r.EquityCurve, EquityPoint{
		BetIndex: len(r.Bets),
		Balance:  ledger.Balance,
		Drawdown: drawdown,
	})
}

func (r *Report) finalize(ledger bankroll.Ledger, riskFreeRate float64) {
	r.Ledger = ledger
	r.FinalBalance = ledger.Balance
	r.TotalBets = ledger.TotalBets
	r.Wins = ledger.Wins
	r.Losses = ledger.Losses
	r.WinRate = ledger.WinRate
	r.MaxDrawdown = ledger.MaxDrawdown
	if ledger.StartingBalance > 0 {
		r.ROIPct = (ledger.Balance - ledger.StartingBalance) / ledger.StartingBalance * 100.0
	}
	r.SharpeRatio = calculateSharpeRatio(r.Returns, riskFreeRate)
	r.SortinoRatio = calculateSortinoRatio(r.Returns, riskFreeRate)
	r.CalmarRatio = calculateCalmarRatio(r.ROIPct, r.MaxDrawdown)
}

// ToJSON exports the report for the surrounding application.
func (r *Report) ToJSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}
