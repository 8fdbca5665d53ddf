package datasource

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/value-better/internal/models"
)

func testHTTPClient() *RateLimitedHTTPClient {
	cfg := DefaultHTTPClientConfig()
	cfg.MaxRetries = 0
	cfg.RateLimit = 1000
	return NewRateLimitedHTTPClient(cfg, testLogger())
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func finishedAPIMatch(id string) apiMatch {
	m := apiMatch{
		ID:          id,
		KickoffTime: time.Date(2024, 8, 17, 15, 0, 0, 0, time.UTC),
		Odds: &apiOdds{
			HomeWin: strPtr("1.80"),
			Draw:    strPtr("4.20"),
			AwayWin: strPtr("5.50"),
		},
	}
	m.HomeTeam = apiTeam{Name: "Arsenal", AvgGoalsScored: 2.1, AvgGoalsConceded: 0.9, EloRating: 1780}
	m.AwayTeam = apiTeam{Name: "Fulham", AvgGoalsScored: 1.2, AvgGoalsConceded: 1.6, EloRating: 1540}
	m.Score.FullTime.Home = intPtr(2)
	m.Score.FullTime.Away = intPtr(0)
	return m
}

func serveMatches(t *testing.T, handler http.HandlerFunc) *FootballDataClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewFootballDataClient(testHTTPClient(), srv.URL, "test-key", testLogger())
}

func TestFetchMatches(t *testing.T) {
	client := serveMatches(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v4/matches", r.URL.Path)
		assert.Equal(t, "2024-08-01", r.URL.Query().Get("dateFrom"))
		assert.Equal(t, "2024-08-31", r.URL.Query().Get("dateTo"))
		assert.Equal(t, "FINISHED", r.URL.Query().Get("status"))
		assert.Equal(t, "test-key", r.Header.Get("X-Auth-Token"))

		json.NewEncoder(w).Encode(apiMatchesResponse{Matches: []apiMatch{finishedAPIMatch("1001")}})
	})

	matches, err := client.FetchMatches(context.Background(),
		time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 8, 31, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, matches, 1)

	m := matches[0]
	assert.Equal(t, "Arsenal", m.HomeTeam)
	assert.Equal(t, 2, m.HomeGoals)
	assert.Equal(t, 0, m.AwayGoals)
	assert.NoError(t, m.Estimate.Validate())
	require.NotNil(t, m.Prices.MatchResult)
	assert.Equal(t, 1.80, m.Prices.MatchResult.Home)
	assert.Equal(t, 5.50, m.Prices.MatchResult.Away)
	assert.Nil(t, m.Prices.OverUnder)

	// Same provider ID maps to the same internal ID on refetch.
	again, err := client.FetchMatches(context.Background(),
		time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 8, 31, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, m.ID, again[0].ID)
}

func TestFetchMatchesSkipsUnsettled(t *testing.T) {
	unsettled := finishedAPIMatch("1002")
	unsettled.Score.FullTime.Home = nil

	client := serveMatches(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(apiMatchesResponse{Matches: []apiMatch{
			finishedAPIMatch("1001"), unsettled,
		}})
	})

	matches, err := client.FetchMatches(context.Background(), time.Now().AddDate(0, -1, 0), time.Now())
	require.NoError(t, err)
	assert.Len(t, matches, 1)
}

func TestFetchMatchesAuthFailure(t *testing.T) {
	client := serveMatches(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := client.FetchMatches(context.Background(), time.Now().AddDate(0, -1, 0), time.Now())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAuthenticationFailed)

	var srcErr SourceError
	require.ErrorAs(t, err, &srcErr)
	assert.Equal(t, ErrCodeAuthenticationFailed, srcErr.Code)
	assert.Equal(t, "football_data", srcErr.Source)
}

func TestToPrices(t *testing.T) {
	t.Run("all families", func(t *testing.T) {
		prices, err := toPrices(&apiOdds{
			HomeWin:    strPtr("1.80"),
			Draw:       strPtr("4.20"),
			AwayWin:    strPtr("5.50"),
			Over:       strPtr("1.95"),
			Under:      strPtr("1.90"),
			HomeOrDraw: strPtr("1.25"),
		}, 2.5)
		require.NoError(t, err)
		require.NotNil(t, prices.MatchResult)
		assert.Equal(t, 4.20, prices.MatchResult.Draw)
		require.NotNil(t, prices.OverUnder)
		assert.Equal(t, 2.5, prices.OverUnder.GoalLine)
		assert.Equal(t, 1.95, prices.OverUnder.Over)
		require.NotNil(t, prices.DoubleChance)
		assert.Equal(t, 1.25, prices.DoubleChance.HomeOrDraw)
		assert.Zero(t, prices.DoubleChance.DrawOrAway)
	})

	t.Run("absent odds", func(t *testing.T) {
		prices, err := toPrices(nil, 2.5)
		require.NoError(t, err)
		assert.Nil(t, prices.MatchResult)
		assert.Nil(t, prices.OverUnder)
		assert.Nil(t, prices.DoubleChance)
	})

	t.Run("absent family stays nil", func(t *testing.T) {
		prices, err := toPrices(&apiOdds{Over: strPtr("1.95")}, 2.5)
		require.NoError(t, err)
		assert.Nil(t, prices.MatchResult)
		require.NotNil(t, prices.OverUnder)
	})

	t.Run("unparsable quote", func(t *testing.T) {
		_, err := toPrices(&apiOdds{HomeWin: strPtr("not-a-price")}, 2.5)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidData)
	})
}

func TestRatingConfidence(t *testing.T) {
	withElo := models.TeamRating{EloRating: 1600}
	withBoth := models.TeamRating{EloRating: 1600, XGPerMatch: 1.4}
	bare := models.TeamRating{}

	assert.InDelta(t, 0.6, ratingConfidence(withElo, withElo), 1e-9)
	assert.InDelta(t, 0.75, ratingConfidence(withBoth, withBoth), 1e-9)
	assert.InDelta(t, 0.45, ratingConfidence(withElo, bare), 1e-9)
}
