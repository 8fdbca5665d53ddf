package probability

import (
	"fmt"
	"math/rand"
	"time"
)

// Sampler draws random score pairs from two independent Poisson
// distributions. The random source is injected so that test runs are
// reproducible; a nil source falls back to a time-seeded one.
type Sampler struct {
	rng *rand.Rand
}

// NewSampler creates a sampler around the given random source.
func NewSampler(rng *rand.Rand) *Sampler {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Sampler{rng: rng}
}

// SampleResult tallies outcome frequencies over a batch of simulated matches.
type SampleResult struct {
	Trials        int            `json:"trials"`
	HomeWin       float64        `json:"home_win"`
	Draw          float64        `json:"draw"`
	AwayWin       float64        `json:"away_win"`
	AvgHomeGoals  float64        `json:"avg_home_goals"`
	AvgAwayGoals  float64        `json:"avg_away_goals"`
	GoalLine      float64        `json:"goal_line"`
	OverThreshold float64        `json:"over_threshold"`
	ScoreFreq     map[string]int `json:"score_freq"`
}

// Sample simulates trials independent matches at the default goal line.
// The frequencies converge toward AnalyticDistribution as trials grows.
func (s *Sampler) Sample(lambdaHome, lambdaAway float64, trials int) SampleResult {
	return s.SampleWithLine(lambdaHome, lambdaAway, trials, DefaultGoalLine)
}

// SampleWithLine simulates trials independent matches, tallying the
// over/under split at the given total-goals line.
func (s *Sampler) SampleWithLine(lambdaHome, lambdaAway float64, trials int, goalLine float64) SampleResult {
	if trials <= 0 {
		trials = 1
	}

	result := SampleResult{
		Trials:    trials,
		GoalLine:  goalLine,
		ScoreFreq: make(map[string]int),
	}

	var homeWins, draws, awayWins, overs, homeGoals, awayGoals int
	for i := 0; i < trials; i++ {
		h, a := s.DrawScore(lambdaHome, lambdaAway)
		homeGoals += h
		awayGoals += a
		result.ScoreFreq[scoreKey(h, a)]++
		switch {
		case h > a:
			homeWins++
		case h == a:
			draws++
		default:
			awayWins++
		}
		if float64(h+a) > goalLine {
			overs++
		}
	}

	n := float64(trials)
	result.HomeWin = float64(homeWins) / n
	result.Draw = float64(draws) / n
	result.AwayWin = float64(awayWins) / n
	result.OverThreshold = float64(overs) / n
	result.AvgHomeGoals = float64(homeGoals) / n
	result.AvgAwayGoals = float64(awayGoals) / n
	return result
}

// DrawScore draws one (home, away) score pair.
func (s *Sampler) DrawScore(lambdaHome, lambdaAway float64) (int, int) {
	return s.drawPoisson(lambdaHome), s.drawPoisson(lambdaAway)
}

// drawPoisson uses inverse-transform sampling: walk the CDF until the
// uniform draw is covered. A non-positive lambda is a point mass at zero.
func (s *Sampler) drawPoisson(lambda float64) int {
	if lambda <= 0 {
		return 0
	}

	u := s.rng.Float64()
	cumulative := 0.0
	p := PoissonPMF(lambda, 0)
	for k := 0; ; k++ {
		cumulative += p
		if u < cumulative || k >= 4*DefaultMaxGoals {
			return k
		}
		p *= lambda / float64(k+1)
	}
}

func scoreKey(home, away int) string {
	return fmt.Sprintf("%d-%d", home, away)
}
