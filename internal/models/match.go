package models

import (
	"time"

	"github.com/google/uuid"
)

// Match is one historical fixture with its recorded final score, the outcome
// probability estimate supplied by the prediction collaborator, and the
// market prices quoted before kickoff.
type Match struct {
	ID          uuid.UUID       `db:"id" json:"id"`
	HomeTeam    string          `db:"home_team" json:"home_team"`
	AwayTeam    string          `db:"away_team" json:"away_team"`
	KickoffTime time.Time       `db:"kickoff_time" json:"kickoff_time"`
	HomeGoals   int             `db:"home_goals" json:"home_goals"`
	AwayGoals   int             `db:"away_goals" json:"away_goals"`
	Estimate    OutcomeEstimate `db:"estimate" json:"estimate"`
	Prices      MarketPrices    `db:"prices" json:"prices"`
}

// TotalGoals returns the combined final score.
func (m *Match) TotalGoals() int {
	return m.HomeGoals + m.AwayGoals
}

// Result returns the settled match-result outcome.
func (m *Match) Result() Outcome {
	switch {
	case m.HomeGoals > m.AwayGoals:
		return OutcomeHomeWin
	case m.HomeGoals < m.AwayGoals:
		return OutcomeAwayWin
	default:
		return OutcomeDraw
	}
}

// OutcomeOccurred settles a bettable outcome against the recorded score.
// goalLine is the total-goals line the over/under outcomes were priced at.
func (m *Match) OutcomeOccurred(outcome Outcome, goalLine float64) bool {
	result := m.Result()
	switch outcome {
	case OutcomeHomeWin, OutcomeDraw, OutcomeAwayWin:
		return result == outcome
	case OutcomeOver:
		return float64(m.TotalGoals()) > goalLine
	case OutcomeUnder:
		return float64(m.TotalGoals()) < goalLine
	case OutcomeHomeOrDraw:
		return result == OutcomeHomeWin || result == OutcomeDraw
	case OutcomeHomeOrAway:
		return result == OutcomeHomeWin || result == OutcomeAwayWin
	case OutcomeDrawOrAway:
		return result == OutcomeDraw || result == OutcomeAwayWin
	default:
		return false
	}
}
