package analysis

// ArbitrageOpportunity describes a set of complementary prices whose implied
// probabilities sum to below 1, i.e. a guaranteed-profit stake split exists.
type ArbitrageOpportunity struct {
	IsArbitrage  bool      `json:"is_arbitrage"`
	ImpliedTotal float64   `json:"implied_total"`
	ProfitPct    float64   `json:"profit_pct"`
	StakeSplit   []float64 `json:"stake_split"`
}

// DetectArbitrage checks a mutually exclusive price set for an arbitrage.
// When one exists the optimal stake share per outcome is
// (1/price_i) / sum(1/price) and the guaranteed profit is
// 1/sum(1/price) - 1, regardless of which outcome lands.
func DetectArbitrage(prices []float64) ArbitrageOpportunity {
	if len(prices) == 0 {
		return ArbitrageOpportunity{}
	}

	implied := make([]float64, len(prices))
	total := 0.0
	for i, price := range prices {
		if price <= 0 {
			// An unquoted leg means the set cannot be covered.
			return ArbitrageOpportunity{}
		}
		implied[i] = 1.0 / price
		total += implied[i]
	}

	opportunity := ArbitrageOpportunity{ImpliedTotal: total}
	if total >= 1.0 {
		return opportunity
	}

	opportunity.IsArbitrage = true
	opportunity.ProfitPct = (1.0/total - 1.0) * 100.0
	opportunity.StakeSplit = make([]float64, len(prices))
	for i := range implied {
		opportunity.StakeSplit[i] = implied[i] / total
	}
	return opportunity
}
