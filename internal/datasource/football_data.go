package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/value-better/internal/models"
	"github.com/yourusername/value-better/internal/probability"
)

// FootballDataClient implements MatchSource against a football-data style
// results API.
type FootballDataClient struct {
	httpClient *RateLimitedHTTPClient
	baseURL    string
	apiKey     string
	logger     *logrus.Logger
}

// NewFootballDataClient creates a football data API client.
func NewFootballDataClient(httpClient *RateLimitedHTTPClient, baseURL, apiKey string, logger *logrus.Logger) *FootballDataClient {
	return &FootballDataClient{
		httpClient: httpClient,
		baseURL:    baseURL,
		apiKey:     apiKey,
		logger:     logger,
	}
}

// Name implements MatchSource.
func (c *FootballDataClient) Name() string {
	return "football_data"
}

// apiMatch mirrors the provider's wire format. Odds come as decimal strings
// and must survive parsing exactly before conversion to float prices.
type apiMatch struct {
	ID          string       `json:"id"`
	HomeTeam    apiTeam      `json:"homeTeam"`
	AwayTeam    apiTeam      `json:"awayTeam"`
	KickoffTime time.Time    `json:"utcDate"`
	Score       apiScore     `json:"score"`
	Odds        *apiOdds     `json:"odds"`
	GoalLine    *json.Number `json:"goalLine"`
}

type apiTeam struct {
	Name              string   `json:"name"`
	AvgGoalsScored    float64  `json:"avgGoalsScored"`
	AvgGoalsConceded  float64  `json:"avgGoalsConceded"`
	EloRating         float64  `json:"eloRating"`
	ExpectedGoalsMean *float64 `json:"xgPerMatch"`
}

type apiScore struct {
	FullTime struct {
		Home *int `json:"home"`
		Away *int `json:"away"`
	} `json:"fullTime"`
}

type apiOdds struct {
	HomeWin    *string `json:"homeWin"`
	Draw       *string `json:"draw"`
	AwayWin    *string `json:"awayWin"`
	Over       *string `json:"over"`
	Under      *string `json:"under"`
	HomeOrDraw *string `json:"homeOrDraw"`
	HomeOrAway *string `json:"homeOrAway"`
	DrawOrAway *string `json:"drawOrAway"`
}

type apiMatchesResponse struct {
	Matches []apiMatch `json:"matches"`
}

// FetchMatches retrieves settled matches in the date range.
func (c *FootballDataClient) FetchMatches(ctx context.Context, startDate, endDate time.Time) ([]models.Match, error) {
	url := fmt.Sprintf("%s/v4/matches?dateFrom=%s&dateTo=%s&status=FINISHED",
		c.baseURL, startDate.Format("2006-01-02"), endDate.Format("2006-01-02"))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, NewSourceError(c.Name(), ErrCodeNetworkError, "failed to create request", err)
	}
	req.Header.Set("X-Auth-Token", c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(ctx, req)
	if err != nil {
		return nil, NewSourceError(c.Name(), ErrCodeNetworkError, "failed to fetch matches", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, NewSourceError(c.Name(), ErrCodeAuthenticationFailed, "invalid API key", ErrAuthenticationFailed)
	case http.StatusTooManyRequests:
		return nil, NewSourceError(c.Name(), ErrCodeRateLimitExceeded, "rate limit exceeded", ErrRateLimitExceeded)
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, NewSourceError(c.Name(), ErrCodeServerError, fmt.Sprintf("unexpected status %d: %s", resp.StatusCode, body), nil)
	}

	var payload apiMatchesResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, NewSourceError(c.Name(), ErrCodeInvalidData, "failed to parse response", err)
	}

	matches := make([]models.Match, 0, len(payload.Matches))
	for _, am := range payload.Matches {
		m, err := c.normalize(am)
		if err != nil {
			c.logger.WithError(err).WithField("source_id", am.ID).Warn("Skipping malformed match")
			continue
		}
		matches = append(matches, m)
	}

	c.logger.WithFields(logrus.Fields{
		"source":  c.Name(),
		"fetched": len(payload.Matches),
		"usable":  len(matches),
	}).Info("Fetched match history")
	return matches, nil
}

func (c *FootballDataClient) normalize(am apiMatch) (models.Match, error) {
	if am.Score.FullTime.Home == nil || am.Score.FullTime.Away == nil {
		return models.Match{}, fmt.Errorf("%w: missing full-time score", ErrInvalidData)
	}

	goalLine := probability.DefaultGoalLine
	if am.GoalLine != nil {
		if v, err := am.GoalLine.Float64(); err == nil && v > 0 {
			goalLine = v
		}
	}

	home := toRating(am.HomeTeam)
	away := toRating(am.AwayTeam)
	lambdaHome := probability.ExpectedGoalRate(home, away, true)
	lambdaAway := probability.ExpectedGoalRate(away, home, false)
	dist := probability.AnalyticDistribution(lambdaHome, lambdaAway, probability.DefaultMaxGoals)

	prices, err := toPrices(am.Odds, goalLine)
	if err != nil {
		return models.Match{}, err
	}

	return models.Match{
		ID:          uuid.NewSHA1(uuid.NameSpaceURL, []byte("football_data/"+am.ID)),
		HomeTeam:    am.HomeTeam.Name,
		AwayTeam:    am.AwayTeam.Name,
		KickoffTime: am.KickoffTime,
		HomeGoals:   *am.Score.FullTime.Home,
		AwayGoals:   *am.Score.FullTime.Away,
		Estimate:    dist.ToEstimate(goalLine, ratingConfidence(home, away)),
		Prices:      prices,
	}, nil
}

func toRating(t apiTeam) models.TeamRating {
	r := models.TeamRating{
		Team:             t.Name,
		AvgGoalsScored:   t.AvgGoalsScored,
		AvgGoalsConceded: t.AvgGoalsConceded,
		EloRating:        t.EloRating,
	}
	if t.ExpectedGoalsMean != nil {
		r.XGPerMatch = *t.ExpectedGoalsMean
	}
	return r
}

// ratingConfidence grades estimate confidence by rating completeness. Both
// teams carrying chance-quality data raises it, missing Elo lowers it.
func ratingConfidence(home, away models.TeamRating) float64 {
	confidence := 0.6
	if home.HasChanceQuality() && away.HasChanceQuality() {
		confidence += 0.15
	}
	if home.EloRating == 0 || away.EloRating == 0 {
		confidence -= 0.15
	}
	return confidence
}

// toPrices parses decimal-string odds into market prices. An absent family
// stays nil; a present but unparsable quote is a data error.
func toPrices(odds *apiOdds, goalLine float64) (models.MarketPrices, error) {
	var prices models.MarketPrices
	if odds == nil {
		return prices, nil
	}

	parse := func(s *string) (float64, error) {
		if s == nil {
			return 0, nil
		}
		d, err := decimal.NewFromString(*s)
		if err != nil {
			return 0, fmt.Errorf("%w: odds %q: %v", ErrInvalidData, *s, err)
		}
		f, _ := d.Float64()
		return f, nil
	}

	homeWin, err := parse(odds.HomeWin)
	if err != nil {
		return prices, err
	}
	draw, err := parse(odds.Draw)
	if err != nil {
		return prices, err
	}
	awayWin, err := parse(odds.AwayWin)
	if err != nil {
		return prices, err
	}
	if homeWin > 0 || draw > 0 || awayWin > 0 {
		prices.MatchResult = &models.MatchResultPrices{Home: homeWin, Draw: draw, Away: awayWin}
	}

	over, err := parse(odds.Over)
	if err != nil {
		return prices, err
	}
	under, err := parse(odds.Under)
	if err != nil {
		return prices, err
	}
	if over > 0 || under > 0 {
		prices.OverUnder = &models.OverUnderPrices{GoalLine: goalLine, Over: over, Under: under}
	}

	homeOrDraw, err := parse(odds.HomeOrDraw)
	if err != nil {
		return prices, err
	}
	homeOrAway, err := parse(odds.HomeOrAway)
	if err != nil {
		return prices, err
	}
	drawOrAway, err := parse(odds.DrawOrAway)
	if err != nil {
		return prices, err
	}
	if homeOrDraw > 0 || homeOrAway > 0 || drawOrAway > 0 {
		prices.DoubleChance = &models.DoubleChancePrices{HomeOrDraw: homeOrDraw, HomeOrAway: homeOrAway, DrawOrAway: drawOrAway}
	}

	return prices, nil
}
