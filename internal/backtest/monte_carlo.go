package backtest

import (
	"context"
	"math/rand"
	"runtime"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/value-better/internal/metrics"
	"github.com/yourusername/value-better/internal/models"
)

// ruinThreshold marks a run as ruined when the final balance drops below
// this share of the starting bankroll.
const ruinThreshold = 0.5

// SimulationBatch aggregates the outcome distribution of repeated replays
// over shuffled match sequences.
type SimulationBatch struct {
	Iterations int       `json:"iterations"`
	Seed       int64     `json:"seed"`
	Reports    []*Report `json:"-"`

	MeanROI    float64 `json:"mean_roi_pct"`
	MedianROI  float64 `json:"median_roi_pct"`
	StdROI     float64 `json:"std_roi_pct"`
	P25ROI     float64 `json:"p25_roi_pct"`
	P75ROI     float64 `json:"p75_roi_pct"`
	P95ROI     float64 `json:"p95_roi_pct"`
	ProbProfit float64 `json:"prob_profit"`
	ProbRuin   float64 `json:"prob_ruin"`
}

// RunMonteCarlo replays the match set over shuffled orderings to measure how
// sensitive the result is to sequencing. Each iteration derives its own rng
// from the batch seed, so a fixed seed reproduces the batch exactly
// regardless of worker scheduling. Cancellation is cooperative: pending
// iterations are abandoned between replays and the context error returned.
func (e *Engine) RunMonteCarlo(ctx context.Context, matches []models.Match, iterations int) (*SimulationBatch, error) {
	if len(matches) == 0 {
		return nil, models.ErrNoMatches
	}
	if iterations <= 0 {
		iterations = e.settings.MonteCarloIterations
	}
	if iterations <= 0 {
		iterations = 1
	}

	workers := e.settings.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > iterations {
		workers = iterations
	}

	seed := e.settings.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	e.logger.WithFields(logrus.Fields{
		"iterations": iterations,
		"workers":    workers,
		"matches":    len(matches),
		"seed":       seed,
	}).Info("Starting Monte-Carlo simulation")

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make([]*Report, iterations)
	indexes := make(chan int)
	errCh := make(chan error, workers)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indexes {
				rng := rand.New(rand.NewSource(seed + int64(i)))
				shuffled := shuffleMatches(matches, rng)
				report, err := e.replay(runCtx, shuffled)
				if err != nil {
					errCh <- err
					cancel()
					return
				}
				results[i] = report
				metrics.RecordMonteCarloReplay()
			}
		}()
	}

	feed := func() {
		defer close(indexes)
		for i := 0; i < iterations; i++ {
			select {
			case indexes <- i:
			case <-runCtx.Done():
				return
			}
		}
	}
	feed()
	wg.Wait()

	select {
	case err := <-errCh:
		metrics.RecordBacktestRun("monte_carlo", "failure")
		return nil, err
	default:
	}
	if err := ctx.Err(); err != nil {
		metrics.RecordBacktestRun("monte_carlo", "failure")
		return nil, err
	}

	batch := &SimulationBatch{
		Iterations: iterations,
		Seed:       seed,
		Reports:    results,
	}
	batch.summarize(e.settings.StartingBankroll)
	metrics.RecordBacktestRun("monte_carlo", "success")

	e.logger.WithFields(logrus.Fields{
		"mean_roi_pct": batch.MeanROI,
		"prob_profit":  batch.ProbProfit,
		"prob_ruin":    batch.ProbRuin,
	}).Info("Monte-Carlo simulation complete")

	return batch, nil
}

func (b *SimulationBatch) summarize(startingBankroll float64) {
	rois := make([]float64, 0, len(b.Reports))
	profitable := 0
	ruined := 0
	for _, r := range b.Reports {
		if r == nil {
			continue
		}
		rois = append(rois, r.ROIPct)
		if r.FinalBalance > startingBankroll {
			profitable++
		}
		if r.FinalBalance < startingBankroll*ruinThreshold {
			ruined++
		}
	}
	if len(rois) == 0 {
		return
	}

	b.MeanROI = average(rois)
	b.MedianROI = median(rois)
	b.StdROI = stddev(rois)
	b.P25ROI = percentile(rois, 0.25)
	b.P75ROI = percentile(rois, 0.75)
	b.P95ROI = percentile(rois, 0.95)
	b.ProbProfit = float64(profitable) / float64(len(rois))
	b.ProbRuin = float64(ruined) / float64(len(rois))
}

// shuffleMatches returns a Fisher-Yates shuffled copy. The input slice is
// never mutated; every iteration shuffles from the same base ordering.
func shuffleMatches(matches []models.Match, rng *rand.Rand) []models.Match {
	shuffled := make([]models.Match, len(matches))
	copy(shuffled, matches)
	for i := len(shuffled) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}
	return shuffled
}
