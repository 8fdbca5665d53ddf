// Package probability estimates match outcome probabilities from team
// ratings, both analytically via a truncated joint Poisson distribution and
// stochastically via inverse-transform sampling.
package probability

import (
	"github.com/yourusername/value-better/internal/models"
)

const (
	// MinGoalRate and MaxGoalRate bound the expected goal rate to keep the
	// score distribution away from degenerate shapes.
	MinGoalRate = 0.3
	MaxGoalRate = 4.0

	// HomeAdvantage is the fixed additive boost for the side playing at home.
	HomeAdvantage = 0.25

	// chanceQualityWeight is the share of the rate taken from xG rather than
	// raw scored/conceded averages.
	chanceQualityWeight = 0.3

	// eloScale converts an Elo difference to a multiplicative adjustment;
	// 400 points swings the rate by eloWeight.
	eloScale  = 400.0
	eloWeight = 0.15
)

// ExpectedGoalRate derives the expected goals for one side from its own
// attacking profile and the opponent's defensive profile. Deterministic and
// pure; the result is clamped to [MinGoalRate, MaxGoalRate].
func ExpectedGoalRate(own, opp models.TeamRating, isHome bool) float64 {
	rate := (own.AvgGoalsScored + opp.AvgGoalsConceded) / 2.0
	if own.HasChanceQuality() {
		rate = rate*(1-chanceQualityWeight) + own.XGPerMatch*chanceQualityWeight
	}

	eloDiff := (own.EloRating - opp.EloRating) / eloScale
	rate *= 1.0 + eloWeight*eloDiff

	if isHome {
		rate += HomeAdvantage
	}
	return clampGoalRate(rate)
}

func clampGoalRate(rate float64) float64 {
	if rate < MinGoalRate {
		return MinGoalRate
	}
	if rate > MaxGoalRate {
		return MaxGoalRate
	}
	return rate
}
