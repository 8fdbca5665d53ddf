package probability

import (
	"math"

	"github.com/yourusername/value-better/internal/models"
)

const (
	// DefaultMaxGoals caps the score grid. For lambda <= 4 the truncated
	// mass above 10 goals per side is below 0.1%.
	DefaultMaxGoals = 10

	// DefaultGoalLine is the standard total-goals line.
	DefaultGoalLine = 2.5
)

// PoissonPMF returns P(X = k) for X ~ Poisson(lambda). A non-positive lambda
// collapses to a point mass at zero rather than producing NaN.
func PoissonPMF(lambda float64, k int) float64 {
	if k < 0 {
		return 0
	}
	if lambda <= 0 {
		if k == 0 {
			return 1
		}
		return 0
	}
	// Iterative form avoids factorial overflow for large k.
	p := math.Exp(-lambda)
	for i := 1; i <= k; i++ {
		p *= lambda / float64(i)
	}
	return p
}

// Distribution is the analytic joint score distribution for one match.
// ScoreGrid[h][a] is the probability of the exact scoreline h-a.
type Distribution struct {
	LambdaHome float64     `json:"lambda_home"`
	LambdaAway float64     `json:"lambda_away"`
	MaxGoals   int         `json:"max_goals"`
	HomeWin    float64     `json:"home_win"`
	Draw       float64     `json:"draw"`
	AwayWin    float64     `json:"away_win"`
	ScoreGrid  [][]float64 `json:"score_grid"`
}

// AnalyticDistribution builds the joint Poisson score grid over 0..maxGoals
// per side and folds its triangles into win/draw/loss totals. The triple is
// renormalized to sum to exactly 1 to absorb truncation error from the cap.
// Deterministic and pure.
func AnalyticDistribution(lambdaHome, lambdaAway float64, maxGoals int) Distribution {
	if maxGoals <= 0 {
		maxGoals = DefaultMaxGoals
	}

	grid := make([][]float64, maxGoals+1)
	var homeWin, draw, awayWin float64
	for h := 0; h <= maxGoals; h++ {
		grid[h] = make([]float64, maxGoals+1)
		ph := PoissonPMF(lambdaHome, h)
		for a := 0; a <= maxGoals; a++ {
			p := ph * PoissonPMF(lambdaAway, a)
			grid[h][a] = p
			switch {
			case h > a:
				homeWin += p
			case h == a:
				draw += p
			default:
				awayWin += p
			}
		}
	}

	total := homeWin + draw + awayWin
	if total > 0 {
		homeWin /= total
		draw /= total
		awayWin /= total
	}

	return Distribution{
		LambdaHome: lambdaHome,
		LambdaAway: lambdaAway,
		MaxGoals:   maxGoals,
		HomeWin:    homeWin,
		Draw:       draw,
		AwayWin:    awayWin,
		ScoreGrid:  grid,
	}
}

// OverProbability sums the grid mass where the combined score exceeds the
// given total-goals line.
func (d Distribution) OverProbability(goalLine float64) float64 {
	over := 0.0
	for h := range d.ScoreGrid {
		for a, p := range d.ScoreGrid[h] {
			if float64(h+a) > goalLine {
				over += p
			}
		}
	}
	if over > 1 {
		over = 1
	}
	return over
}

// MostLikelyScore returns the modal scoreline of the grid.
func (d Distribution) MostLikelyScore() (home, away int) {
	best := -1.0
	for h := range d.ScoreGrid {
		for a, p := range d.ScoreGrid[h] {
			if p > best {
				best = p
				home, away = h, a
			}
		}
	}
	return home, away
}

// ToEstimate converts the distribution into the estimate shape consumed by
// the decision analyzer. The triple already satisfies the sum-to-1 invariant.
func (d Distribution) ToEstimate(goalLine, confidence float64) models.OutcomeEstimate {
	if goalLine <= 0 {
		goalLine = DefaultGoalLine
	}
	return models.OutcomeEstimate{
		HomeWin:       d.HomeWin,
		Draw:          d.Draw,
		AwayWin:       d.AwayWin,
		GoalLine:      goalLine,
		OverThreshold: d.OverProbability(goalLine),
		Confidence:    confidence,
	}
}

// OverThresholdProbability is the standalone form of the over/under
// computation for callers that do not need the full grid.
func OverThresholdProbability(lambdaHome, lambdaAway, goalLine float64, maxGoals int) float64 {
	if goalLine <= 0 {
		goalLine = DefaultGoalLine
	}
	return AnalyticDistribution(lambdaHome, lambdaAway, maxGoals).OverProbability(goalLine)
}
