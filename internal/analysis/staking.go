package analysis

import "github.com/shopspring/decimal"

// FlatStakeFraction returns a fixed-percentage stake fraction tiered by edge.
func FlatStakeFraction(edgePct float64) float64 {
	switch {
	case edgePct >= 10:
		return 0.03
	case edgePct >= 5:
		return 0.02
	case edgePct > 0:
		return 0.01
	default:
		return 0
	}
}

// EdgeProportionalFraction sizes the stake in proportion to the edge, at half
// a percent of bankroll per percent of edge, capped at 5%.
func EdgeProportionalFraction(edgePct float64) float64 {
	if edgePct <= 0 {
		return 0
	}
	f := edgePct * 0.005
	if f > 0.05 {
		f = 0.05
	}
	return f
}

// StakeAmount converts a bankroll fraction into a monetary stake rounded to
// cents. Rounding happens here, at the money boundary, so the fraction math
// above stays exact.
func StakeAmount(bankroll, fraction float64) float64 {
	if bankroll <= 0 || fraction <= 0 {
		return 0
	}
	amount := decimal.NewFromFloat(bankroll).
		Mul(decimal.NewFromFloat(fraction)).
		Round(2)
	result, _ := amount.Float64()
	return result
}
