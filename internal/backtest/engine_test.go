package backtest

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/value-better/internal/models"
	"github.com/yourusername/value-better/internal/probability"
)

func testSettings() Settings {
	s := DefaultSettings()
	s.Seed = 1
	s.Workers = 2
	s.MonteCarloIterations = 20
	return s
}

// fixtureMatches builds settled matches where the home outcome carries a
// clear positive edge (about +9% at 1.80 for lambdas 2.0/1.0).
func fixtureMatches(n int, homeGoals, awayGoals int) []models.Match {
	dist := probability.AnalyticDistribution(2.0, 1.0, probability.DefaultMaxGoals)
	estimate := dist.ToEstimate(2.5, 0.75)
	start := time.Date(2024, 8, 1, 15, 0, 0, 0, time.UTC)

	matches := make([]models.Match, n)
	for i := range matches {
		matches[i] = models.Match{
			ID:          uuid.NewSHA1(uuid.NameSpaceOID, []byte{byte(i), byte(i >> 8)}),
			HomeTeam:    "Home",
			AwayTeam:    "Away",
			KickoffTime: start.Add(time.Duration(i) * 24 * time.Hour),
			HomeGoals:   homeGoals,
			AwayGoals:   awayGoals,
			Estimate:    estimate,
			Prices: models.MarketPrices{
				MatchResult: &models.MatchResultPrices{Home: 1.80, Draw: 4.20, Away: 5.50},
			},
		}
	}
	return matches
}

func TestNewEngineValidatesSettings(t *testing.T) {
	bad := testSettings()
	bad.StartingBankroll = 0
	_, err := NewEngine(bad, nil)
	assert.Error(t, err)
}

func TestRunEmptyMatches(t *testing.T) {
	engine, err := NewEngine(testSettings(), nil)
	require.NoError(t, err)
	_, err = engine.Run(context.Background(), nil)
	assert.ErrorIs(t, err, models.ErrNoMatches)
}

func TestRunPlacesHighestEdgeBet(t *testing.T) {
	engine, err := NewEngine(testSettings(), nil)
	require.NoError(t, err)

	report, err := engine.Run(context.Background(), fixtureMatches(5, 2, 0))
	require.NoError(t, err)

	require.Equal(t, 5, report.TotalBets)
	for _, bet := range report.Bets {
		assert.Equal(t, models.OutcomeHomeWin, bet.Outcome)
		assert.Equal(t, 1.80, bet.Price)
		assert.True(t, bet.Won)
	}
	assert.Greater(t, report.FinalBalance, testSettings().StartingBankroll)
	assert.Equal(t, 1.0, report.WinRate)
}

func TestRunSettlesAgainstRecordedScore(t *testing.T) {
	engine, err := NewEngine(testSettings(), nil)
	require.NoError(t, err)

	report, err := engine.Run(context.Background(), fixtureMatches(5, 0, 1))
	require.NoError(t, err)

	require.Equal(t, 5, report.TotalBets)
	for _, bet := range report.Bets {
		assert.False(t, bet.Won)
		assert.Less(t, bet.ProfitLoss, 0.0)
	}
	assert.Less(t, report.FinalBalance, testSettings().StartingBankroll)
}

func TestRunOneBetPerMatch(t *testing.T) {
	engine, err := NewEngine(testSettings(), nil)
	require.NoError(t, err)

	matches := fixtureMatches(10, 2, 1)
	report, err := engine.Run(context.Background(), matches)
	require.NoError(t, err)
	assert.LessOrEqual(t, report.TotalBets, len(matches))

	seen := map[uuid.UUID]bool{}
	for _, bet := range report.Bets {
		assert.False(t, seen[bet.MatchID], "two bets on match %s", bet.MatchID)
		seen[bet.MatchID] = true
	}
}

func TestRunChronologicalOrder(t *testing.T) {
	engine, err := NewEngine(testSettings(), nil)
	require.NoError(t, err)

	matches := fixtureMatches(6, 2, 0)
	// Feed the matches reversed; the replay must re-sort them.
	for i, j := 0, len(matches)-1; i < j; i, j = i+1, j-1 {
		matches[i], matches[j] = matches[j], matches[i]
	}

	report, err := engine.Run(context.Background(), matches)
	require.NoError(t, err)
	for i := 1; i < len(report.Bets); i++ {
		assert.False(t, report.Bets[i].KickoffTime.Before(report.Bets[i-1].KickoffTime))
	}
}

func TestRunDeterministic(t *testing.T) {
	matches := fixtureMatches(20, 2, 1)

	engine1, err := NewEngine(testSettings(), nil)
	require.NoError(t, err)
	engine2, err := NewEngine(testSettings(), nil)
	require.NoError(t, err)

	r1, err := engine1.Run(context.Background(), matches)
	require.NoError(t, err)
	r2, err := engine2.Run(context.Background(), matches)
	require.NoError(t, err)

	j1, err := r1.ToJSON()
	require.NoError(t, err)
	j2, err := r2.ToJSON()
	require.NoError(t, err)
	assert.Equal(t, string(j1), string(j2))
}

func TestRunZeroMaxStakePlacesNoBets(t *testing.T) {
	settings := testSettings()
	settings.MaxStakePct = 0

	engine, err := NewEngine(settings, nil)
	require.NoError(t, err)

	report, err := engine.Run(context.Background(), fixtureMatches(10, 2, 0))
	require.NoError(t, err)
	assert.Zero(t, report.TotalBets)
	assert.Equal(t, settings.StartingBankroll, report.FinalBalance)
}

func TestRunMinEdgeFiltersBets(t *testing.T) {
	settings := testSettings()
	settings.MinEdgePct = 50.0 // nothing clears this

	engine, err := NewEngine(settings, nil)
	require.NoError(t, err)

	report, err := engine.Run(context.Background(), fixtureMatches(10, 2, 0))
	require.NoError(t, err)
	assert.Zero(t, report.TotalBets)
}

func TestRunMinConfidenceFiltersBets(t *testing.T) {
	settings := testSettings()
	settings.MinConfidence = 0.9

	engine, err := NewEngine(settings, nil)
	require.NoError(t, err)

	report, err := engine.Run(context.Background(), fixtureMatches(10, 2, 0))
	require.NoError(t, err)
	assert.Zero(t, report.TotalBets)
}

func TestRunStopLossEndsReplayEarly(t *testing.T) {
	settings := testSettings()
	settings.StopLossPct = 90

	engine, err := NewEngine(settings, nil)
	require.NoError(t, err)

	report, err := engine.Run(context.Background(), fixtureMatches(50, 0, 2))
	require.NoError(t, err)
	assert.True(t, report.StoppedEarly)
	assert.Contains(t, report.StopReason, "stop-loss")
	assert.Less(t, report.TotalBets, 50)
	assert.LessOrEqual(t, report.FinalBalance, settings.StartingBankroll*0.9)
}

func TestRunTakeProfitEndsReplayEarly(t *testing.T) {
	settings := testSettings()
	settings.TakeProfitPct = 110

	engine, err := NewEngine(settings, nil)
	require.NoError(t, err)

	report, err := engine.Run(context.Background(), fixtureMatches(200, 2, 0))
	require.NoError(t, err)
	assert.True(t, report.StoppedEarly)
	assert.Contains(t, report.StopReason, "take-profit")
}

func TestRunInvalidEstimateAborts(t *testing.T) {
	engine, err := NewEngine(testSettings(), nil)
	require.NoError(t, err)

	matches := fixtureMatches(3, 2, 0)
	matches[1].Estimate.HomeWin = 0.95

	_, err = engine.Run(context.Background(), matches)
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrInvalidProbabilities)
	assert.Contains(t, err.Error(), matches[1].ID.String())
}

func TestRunStrategies(t *testing.T) {
	matches := fixtureMatches(10, 2, 0)

	for _, strategy := range []Strategy{StrategyCapitalGrowth, StrategyFlatPercentage, StrategyEdgeProportional} {
		settings := testSettings()
		settings.Strategy = strategy

		engine, err := NewEngine(settings, nil)
		require.NoError(t, err)

		report, err := engine.Run(context.Background(), matches)
		require.NoError(t, err, "strategy %s", strategy)
		assert.Equal(t, 10, report.TotalBets, "strategy %s", strategy)

		ceiling := settings.MaxStakePct / 100.0
		for _, bet := range report.Bets {
			balanceBefore := bet.BalanceAfter - bet.ProfitLoss
			assert.LessOrEqual(t, bet.Stake/balanceBefore, ceiling+1e-9, "strategy %s", strategy)
		}
	}
}

func TestRunCancelled(t *testing.T) {
	engine, err := NewEngine(testSettings(), nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = engine.Run(ctx, fixtureMatches(10, 2, 0))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEquityCurveTracksBets(t *testing.T) {
	engine, err := NewEngine(testSettings(), nil)
	require.NoError(t, err)

	report, err := engine.Run(context.Background(), fixtureMatches(8, 2, 0))
	require.NoError(t, err)

	require.Len(t, report.EquityCurve, report.TotalBets+1)
	assert.Equal(t, testSettings().StartingBankroll, report.EquityCurve[0].Balance)
	for i, bet := range report.Bets {
		assert.Equal(t, bet.BalanceAfter, report.EquityCurve[i+1].Balance)
	}
	require.Len(t, report.Returns, report.TotalBets)
}

func TestSyntheticHistoryProfitableMostSeeds(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping seed sweep in short mode")
	}

	profitable := 0
	const seeds = 50
	for seed := int64(0); seed < seeds; seed++ {
		matches, err := GenerateSyntheticHistory(rand.New(rand.NewSource(seed)), DefaultSyntheticConfig())
		require.NoError(t, err)

		engine, err := NewEngine(testSettings(), nil)
		require.NoError(t, err)

		report, err := engine.Run(context.Background(), matches)
		require.NoError(t, err)
		if report.ROIPct > 0 {
			profitable++
		}
	}

	// With a ~9% edge and quarter-Kelly sizing the large majority of
	// 100-match seasons should end ahead.
	assert.GreaterOrEqual(t, profitable, seeds*8/10)
}

func TestGenerateSyntheticHistory(t *testing.T) {
	cfg := DefaultSyntheticConfig()
	matches, err := GenerateSyntheticHistory(rand.New(rand.NewSource(1)), cfg)
	require.NoError(t, err)
	require.Len(t, matches, cfg.Matches)

	for i, m := range matches {
		require.NoError(t, m.Estimate.Validate())
		require.NotNil(t, m.Prices.MatchResult)
		if i > 0 {
			assert.True(t, m.KickoffTime.After(matches[i-1].KickoffTime))
		}
	}

	// Same seed, same history.
	again, err := GenerateSyntheticHistory(rand.New(rand.NewSource(1)), cfg)
	require.NoError(t, err)
	assert.Equal(t, matches, again)
}

func TestGenerateSyntheticHistoryValidation(t *testing.T) {
	cfg := DefaultSyntheticConfig()
	cfg.Matches = 0
	_, err := GenerateSyntheticHistory(rand.New(rand.NewSource(1)), cfg)
	assert.Error(t, err)

	cfg = DefaultSyntheticConfig()
	cfg.LambdaHome = 0
	_, err = GenerateSyntheticHistory(rand.New(rand.NewSource(1)), cfg)
	assert.Error(t, err)

	cfg = DefaultSyntheticConfig()
	cfg.Prices.Draw = 0
	_, err = GenerateSyntheticHistory(rand.New(rand.NewSource(1)), cfg)
	assert.Error(t, err)
}
