package models

import (
	"fmt"
	"math"
)

// ProbabilityTolerance is the floating tolerance for the sum-to-1 invariant.
const ProbabilityTolerance = 1e-6

// OutcomeEstimate holds the model's probabilities for one match. The three
// match-result probabilities are mutually exclusive and must sum to 1 within
// ProbabilityTolerance; violating that indicates an upstream modeling bug and
// is rejected loudly rather than silently corrected.
type OutcomeEstimate struct {
	HomeWin       float64 `json:"home_win"`
	Draw          float64 `json:"draw"`
	AwayWin       float64 `json:"away_win"`
	GoalLine      float64 `json:"goal_line"`
	OverThreshold float64 `json:"over_threshold"` // P(total goals > GoalLine)
	Confidence    float64 `json:"confidence"`
}

// Validate enforces the sum-to-1 invariant and probability bounds.
func (e OutcomeEstimate) Validate() error {
	sum := e.HomeWin + e.Draw + e.AwayWin
	if math.Abs(sum-1.0) > ProbabilityTolerance {
		return fmt.Errorf("%w: got %.8f", ErrInvalidProbabilities, sum)
	}
	for _, p := range []float64{e.HomeWin, e.Draw, e.AwayWin, e.OverThreshold, e.Confidence} {
		if p < 0 || p > 1 || math.IsNaN(p) {
			return fmt.Errorf("%w: probability %.8f out of [0,1]", ErrInvalidProbabilities, p)
		}
	}
	return nil
}

// ProbabilityFor maps a bettable outcome to the estimate's probability for it.
// Double-chance probabilities are derived from the match-result triple.
func (e OutcomeEstimate) ProbabilityFor(outcome Outcome) (float64, bool) {
	switch outcome {
	case OutcomeHomeWin:
		return e.HomeWin, true
	case OutcomeDraw:
		return e.Draw, true
	case OutcomeAwayWin:
		return e.AwayWin, true
	case OutcomeOver:
		return e.OverThreshold, true
	case OutcomeUnder:
		return 1.0 - e.OverThreshold, true
	case OutcomeHomeOrDraw:
		return e.HomeWin + e.Draw, true
	case OutcomeHomeOrAway:
		return e.HomeWin + e.AwayWin, true
	case OutcomeDrawOrAway:
		return e.Draw + e.AwayWin, true
	default:
		return 0, false
	}
}
