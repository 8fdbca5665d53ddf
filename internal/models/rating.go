package models

// TeamRating describes a competitor's strength going into a match.
// Ratings are supplied by the data-loading collaborator and are immutable
// for the duration of an analysis.
type TeamRating struct {
	Team             string  `db:"team" json:"team"`
	AvgGoalsScored   float64 `db:"avg_goals_scored" json:"avg_goals_scored" validate:"gte=0"`
	AvgGoalsConceded float64 `db:"avg_goals_conceded" json:"avg_goals_conceded" validate:"gte=0"`
	EloRating        float64 `db:"elo_rating" json:"elo_rating"`
	XGPerMatch       float64 `db:"xg_per_match" json:"xg_per_match" validate:"gte=0"` // quality of chances created
}

// HasChanceQuality reports whether an xG figure was supplied for this team.
func (r TeamRating) HasChanceQuality() bool {
	return r.XGPerMatch > 0
}
