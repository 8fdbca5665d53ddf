package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEdge(t *testing.T) {
	// 55% at 2.0 is a 10% edge.
	assert.InDelta(t, 10.0, Edge(0.55, 2.0), 1e-9)
	// 50% at 2.0 is break-even.
	assert.InDelta(t, 0.0, Edge(0.50, 2.0), 1e-9)
	// 40% at 2.0 is -20%.
	assert.InDelta(t, -20.0, Edge(0.40, 2.0), 1e-9)
	// Price at 1.0 always loses the margin.
	assert.InDelta(t, -30.0, Edge(0.70, 1.0), 1e-9)
}

func TestStakeFractionKelly(t *testing.T) {
	// f = (b*p - q) / b with b=1, p=0.55: (0.55-0.45)/1 = 0.10.
	assert.InDelta(t, 0.10, StakeFraction(0.55, 2.0, false, 0), 1e-9)
	// b=3, p=0.30: (0.9-0.7)/3 = 0.0666...
	assert.InDelta(t, 0.2/3.0, StakeFraction(0.30, 4.0, false, 0), 1e-9)
}

func TestStakeFractionZeroOnNonPositiveEdge(t *testing.T) {
	assert.Equal(t, 0.0, StakeFraction(0.50, 2.0, false, 0))
	assert.Equal(t, 0.0, StakeFraction(0.10, 2.0, false, 0))
	assert.Equal(t, 0.0, StakeFraction(0.0, 5.0, false, 0))
	assert.Equal(t, 0.0, StakeFraction(0.99, 1.0, false, 0))
	assert.Equal(t, 0.0, StakeFraction(0.99, 0.5, false, 0))
}

func TestStakeFractionClamped(t *testing.T) {
	// Certainty at any price above 1 solves to f=1, never above.
	f := StakeFraction(1.0, 1.5, false, 0)
	assert.Equal(t, 1.0, f)
}

func TestStakeFractionFractionalDamping(t *testing.T) {
	full := StakeFraction(0.60, 2.0, false, 0)
	quarter := StakeFraction(0.60, 2.0, true, 0.25)
	assert.InDelta(t, full*0.25, quarter, 1e-9)

	// A zero fraction falls back to the default damping.
	defaulted := StakeFraction(0.60, 2.0, true, 0)
	assert.InDelta(t, full*DefaultKellyFraction, defaulted, 1e-9)
}

func TestStakeFractionMonotoneInProbability(t *testing.T) {
	prev := 0.0
	for _, p := range []float64{0.51, 0.55, 0.60, 0.70, 0.85} {
		f := StakeFraction(p, 2.0, false, 0)
		assert.Greater(t, f, prev)
		prev = f
	}
}

func TestMarketMargin(t *testing.T) {
	// A typical 1X2 book: sum(1/price) - 1.
	margin := MarketMargin([]float64{1.8, 3.3, 2.1})
	expected := (1/1.8 + 1/3.3 + 1/2.1 - 1) * 100
	assert.InDelta(t, expected, margin, 1e-9)
	assert.Greater(t, margin, 0.0)

	// A fair book has zero margin.
	assert.InDelta(t, 0.0, MarketMargin([]float64{3.0, 3.0, 3.0}), 1e-9)
}

func TestMarketMarginSkipsUnquoted(t *testing.T) {
	assert.InDelta(t, MarketMargin([]float64{2.0, 2.0}), MarketMargin([]float64{2.0, 0, 2.0}), 1e-9)
	assert.Equal(t, 0.0, MarketMargin(nil))
}
