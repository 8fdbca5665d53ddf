// Package analysis turns outcome probabilities and market prices into graded
// bet recommendations, stake sizes, and arbitrage detection.
package analysis

// DefaultKellyFraction is the damping factor applied when fractional sizing
// is requested without an explicit fraction.
const DefaultKellyFraction = 0.25

// Edge returns the expected value of a bet as a percentage:
// probability * price - 1. Total over all real inputs; a price at or below 1
// yields a defined negative result, not an error.
func Edge(probability, price float64) float64 {
	return (probability*price - 1.0) * 100.0
}

// StakeFraction implements capital-growth-optimal (Kelly) sizing:
// f = ((price-1)*p - (1-p)) / (price-1), clamped to [0,1]. When fractional is
// set the result is damped by fraction to reduce variance. Returns exactly 0
// whenever the edge is non-positive; price <= 1 is a degenerate zero-edge
// input rather than a division hazard.
func StakeFraction(probability, price float64, fractional bool, fraction float64) float64 {
	if price <= 1.0 || probability <= 0 {
		return 0
	}
	b := price - 1.0
	f := (b*probability - (1.0 - probability)) / b
	if f <= 0 {
		return 0
	}
	if f > 1 {
		f = 1
	}
	if fractional {
		if fraction <= 0 {
			fraction = DefaultKellyFraction
		}
		f *= fraction
	}
	return f
}

// MarketMargin returns the bookmaker's structural edge over a mutually
// exclusive price set as a percentage: sum(1/price) - 1. Non-positive prices
// are skipped as unquoted.
func MarketMargin(prices []float64) float64 {
	implied := 0.0
	for _, price := range prices {
		if price <= 0 {
			continue
		}
		implied += 1.0 / price
	}
	if implied == 0 {
		return 0
	}
	return (implied - 1.0) * 100.0
}
