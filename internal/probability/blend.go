package probability

import (
	"fmt"

	"github.com/yourusername/value-better/internal/models"
)

// WeightedEstimate pairs an outcome estimate with its blending weight.
// Weights need not sum to 1; they are normalized before mixing.
type WeightedEstimate struct {
	Estimate models.OutcomeEstimate
	Weight   float64
}

// Blend mixes several outcome estimates (e.g. the analytic model plus one or
// more external classifier triples) into a single estimate satisfying the
// sum-to-1 invariant. Each component must itself be valid; an invalid
// component is an upstream contract breach and fails loudly.
//
// The over-threshold probability is blended only across components that
// carry one (classifier triples usually do not), with their weights
// renormalized among themselves. The goal line is taken from the first
// component that sets one.
func Blend(components []WeightedEstimate) (models.OutcomeEstimate, error) {
	if len(components) == 0 {
		return models.OutcomeEstimate{}, fmt.Errorf("at least one estimate is required")
	}

	totalWeight := 0.0
	for i, c := range components {
		if c.Weight <= 0 {
			return models.OutcomeEstimate{}, fmt.Errorf("component %d: weight must be positive", i)
		}
		if err := c.Estimate.Validate(); err != nil {
			return models.OutcomeEstimate{}, fmt.Errorf("component %d: %w", i, err)
		}
		totalWeight += c.Weight
	}

	var blended models.OutcomeEstimate
	overWeight := 0.0
	for _, c := range components {
		w := c.Weight / totalWeight
		blended.HomeWin += w * c.Estimate.HomeWin
		blended.Draw += w * c.Estimate.Draw
		blended.AwayWin += w * c.Estimate.AwayWin
		blended.Confidence += w * c.Estimate.Confidence
		if c.Estimate.OverThreshold > 0 {
			blended.OverThreshold += c.Weight * c.Estimate.OverThreshold
			overWeight += c.Weight
		}
		if blended.GoalLine == 0 && c.Estimate.GoalLine > 0 {
			blended.GoalLine = c.Estimate.GoalLine
		}
	}
	if overWeight > 0 {
		blended.OverThreshold /= overWeight
	}

	// Renormalize the triple so floating accumulation cannot drift past
	// the tolerance.
	sum := blended.HomeWin + blended.Draw + blended.AwayWin
	if sum > 0 {
		blended.HomeWin /= sum
		blended.Draw /= sum
		blended.AwayWin /= sum
	}

	return blended, nil
}
