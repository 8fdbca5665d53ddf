package models

import "fmt"

// Market represents a bet family quoted by the bookmaker.
type Market string

const (
	MarketMatchResult  Market = "MATCH_RESULT"
	MarketOverUnder    Market = "OVER_UNDER"
	MarketDoubleChance Market = "DOUBLE_CHANCE"
)

// Outcome represents a single bettable outcome within a market.
type Outcome string

const (
	OutcomeHomeWin    Outcome = "HOME_WIN"
	OutcomeDraw       Outcome = "DRAW"
	OutcomeAwayWin    Outcome = "AWAY_WIN"
	OutcomeOver       Outcome = "OVER"
	OutcomeUnder      Outcome = "UNDER"
	OutcomeHomeOrDraw Outcome = "HOME_OR_DRAW"
	OutcomeHomeOrAway Outcome = "HOME_OR_AWAY"
	OutcomeDrawOrAway Outcome = "DRAW_OR_AWAY"
)

// MatchResultPrices holds decimal prices for the 1X2 market.
type MatchResultPrices struct {
	Home float64 `json:"home"`
	Draw float64 `json:"draw"`
	Away float64 `json:"away"`
}

// Complete reports whether all three outcomes are priced.
func (p MatchResultPrices) Complete() bool {
	return p.Home > 0 && p.Draw > 0 && p.Away > 0
}

// Prices returns the price list in home/draw/away order.
func (p MatchResultPrices) Prices() []float64 {
	return []float64{p.Home, p.Draw, p.Away}
}

// OverUnderPrices holds decimal prices for a total-goals line.
type OverUnderPrices struct {
	GoalLine float64 `json:"goal_line"`
	Over     float64 `json:"over"`
	Under    float64 `json:"under"`
}

// Complete reports whether both sides of the line are priced.
func (p OverUnderPrices) Complete() bool {
	return p.GoalLine > 0 && p.Over > 0 && p.Under > 0
}

// DoubleChancePrices holds decimal prices for the double-chance market.
type DoubleChancePrices struct {
	HomeOrDraw float64 `json:"home_or_draw"`
	HomeOrAway float64 `json:"home_or_away"`
	DrawOrAway float64 `json:"draw_or_away"`
}

// Complete reports whether all three combinations are priced.
func (p DoubleChancePrices) Complete() bool {
	return p.HomeOrDraw > 0 && p.HomeOrAway > 0 && p.DrawOrAway > 0
}

// MarketPrices is the read-only price set quoted for one match. Families may
// be absent; an absent family is simply excluded from analysis.
type MarketPrices struct {
	MatchResult  *MatchResultPrices  `json:"match_result,omitempty"`
	OverUnder    *OverUnderPrices    `json:"over_under,omitempty"`
	DoubleChance *DoubleChancePrices `json:"double_chance,omitempty"`
}

// Validate rejects negative prices. A zero price means "not quoted" and is
// handled by excluding the outcome, not by erroring.
func (p MarketPrices) Validate() error {
	check := func(market Market, prices ...float64) error {
		for _, price := range prices {
			if price < 0 {
				return fmt.Errorf("%w: %s quoted at %.2f", ErrNegativePrice, market, price)
			}
		}
		return nil
	}

	if p.MatchResult != nil {
		if err := check(MarketMatchResult, p.MatchResult.Home, p.MatchResult.Draw, p.MatchResult.Away); err != nil {
			return err
		}
	}
	if p.OverUnder != nil {
		if err := check(MarketOverUnder, p.OverUnder.Over, p.OverUnder.Under); err != nil {
			return err
		}
	}
	if p.DoubleChance != nil {
		if err := check(MarketDoubleChance, p.DoubleChance.HomeOrDraw, p.DoubleChance.HomeOrAway, p.DoubleChance.DrawOrAway); err != nil {
			return err
		}
	}
	return nil
}
