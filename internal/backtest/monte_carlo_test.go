package backtest

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/value-better/internal/models"
)

func TestRunMonteCarloDeterministicWithSeed(t *testing.T) {
	matches := fixtureMatches(30, 2, 1)

	run := func() *SimulationBatch {
		engine, err := NewEngine(testSettings(), nil)
		require.NoError(t, err)
		batch, err := engine.RunMonteCarlo(context.Background(), matches, 16)
		require.NoError(t, err)
		return batch
	}

	a := run()
	b := run()

	assert.Equal(t, a.Seed, b.Seed)
	assert.Equal(t, a.MeanROI, b.MeanROI)
	assert.Equal(t, a.MedianROI, b.MedianROI)
	assert.Equal(t, a.StdROI, b.StdROI)
	assert.Equal(t, a.ProbProfit, b.ProbProfit)
	assert.Equal(t, a.ProbRuin, b.ProbRuin)

	// Per-iteration reports line up too, regardless of worker scheduling.
	require.Len(t, b.Reports, len(a.Reports))
	for i := range a.Reports {
		assert.Equal(t, a.Reports[i].FinalBalance, b.Reports[i].FinalBalance, "iteration %d", i)
	}
}

func TestRunMonteCarloWorkerCountIrrelevant(t *testing.T) {
	matches := fixtureMatches(20, 2, 1)

	run := func(workers int) *SimulationBatch {
		settings := testSettings()
		settings.Workers = workers
		engine, err := NewEngine(settings, nil)
		require.NoError(t, err)
		batch, err := engine.RunMonteCarlo(context.Background(), matches, 12)
		require.NoError(t, err)
		return batch
	}

	assert.Equal(t, run(1).MeanROI, run(4).MeanROI)
}

func TestRunMonteCarloEmptyMatches(t *testing.T) {
	engine, err := NewEngine(testSettings(), nil)
	require.NoError(t, err)
	_, err = engine.RunMonteCarlo(context.Background(), nil, 10)
	assert.ErrorIs(t, err, models.ErrNoMatches)
}

func TestRunMonteCarloCancellation(t *testing.T) {
	engine, err := NewEngine(testSettings(), nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = engine.RunMonteCarlo(ctx, fixtureMatches(30, 2, 1), 100)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunMonteCarloDefaultsIterations(t *testing.T) {
	settings := testSettings()
	settings.MonteCarloIterations = 8

	engine, err := NewEngine(settings, nil)
	require.NoError(t, err)

	batch, err := engine.RunMonteCarlo(context.Background(), fixtureMatches(10, 2, 1), 0)
	require.NoError(t, err)
	assert.Equal(t, 8, batch.Iterations)
	assert.Len(t, batch.Reports, 8)
}

func TestRunMonteCarloDistributionStats(t *testing.T) {
	engine, err := NewEngine(testSettings(), nil)
	require.NoError(t, err)

	batch, err := engine.RunMonteCarlo(context.Background(), fixtureMatches(40, 2, 0), 10)
	require.NoError(t, err)

	// All-home-win fixtures: every ordering ends profitable.
	assert.Equal(t, 1.0, batch.ProbProfit)
	assert.Equal(t, 0.0, batch.ProbRuin)
	assert.Greater(t, batch.MeanROI, 0.0)
	assert.LessOrEqual(t, batch.P25ROI, batch.P75ROI)
	assert.LessOrEqual(t, batch.P75ROI, batch.P95ROI)
}

func TestRunMonteCarloRuinDetection(t *testing.T) {
	settings := testSettings()
	settings.Strategy = StrategyFlatPercentage
	settings.MinEdgePct = 0

	engine, err := NewEngine(settings, nil)
	require.NoError(t, err)

	// Every bet loses; long histories grind the bankroll below half.
	batch, err := engine.RunMonteCarlo(context.Background(), fixtureMatches(300, 0, 2), 5)
	require.NoError(t, err)
	assert.Equal(t, 0.0, batch.ProbProfit)
	assert.Equal(t, 1.0, batch.ProbRuin)
}

func TestShuffleMatchesIsPermutation(t *testing.T) {
	matches := fixtureMatches(25, 2, 1)
	shuffled := shuffleMatches(matches, rand.New(rand.NewSource(3)))

	require.Len(t, shuffled, len(matches))

	count := map[string]int{}
	for i := range matches {
		count[matches[i].ID.String()]++
		count[shuffled[i].ID.String()]--
	}
	for id, n := range count {
		assert.Zero(t, n, "match %s", id)
	}
}

func TestShuffleMatchesDoesNotMutateInput(t *testing.T) {
	matches := fixtureMatches(10, 2, 1)
	original := make([]models.Match, len(matches))
	copy(original, matches)

	_ = shuffleMatches(matches, rand.New(rand.NewSource(1)))
	assert.Equal(t, original, matches)
}

func TestShuffleMatchesSeeded(t *testing.T) {
	matches := fixtureMatches(15, 2, 1)
	a := shuffleMatches(matches, rand.New(rand.NewSource(7)))
	b := shuffleMatches(matches, rand.New(rand.NewSource(7)))
	assert.Equal(t, a, b)
}
