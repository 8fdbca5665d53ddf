package analysis

import (
	"fmt"
	"math"
	"sort"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/value-better/internal/models"
)

// AnalyzerConfig enumerates every knob the analyzer reads. Defaults are
// applied at construction, never at point of use.
type AnalyzerConfig struct {
	KellyFraction    float64 // damping for the fractional sizing column
	MaxStakeFraction float64 // ceiling on any recommended fraction
	TopPicks         int     // size of the highlighted set
	HighMarginPct    float64 // warn when a family margin exceeds this
	LowConfidence    float64 // warn when estimate confidence is below this
	SmallBankroll    float64 // warn when the bankroll is below this
}

// DefaultAnalyzerConfig returns the standard analyzer settings.
func DefaultAnalyzerConfig() AnalyzerConfig {
	return AnalyzerConfig{
		KellyFraction:    DefaultKellyFraction,
		MaxStakeFraction: 0.10,
		TopPicks:         3,
		HighMarginPct:    8.0,
		LowConfidence:    0.50,
		SmallBankroll:    100.0,
	}
}

// Recommendation binds one outcome to its price, the model's probability,
// the computed edge, grades, and three alternative stake fractions.
// Recommendations are derived per analysis and never mutated.
type Recommendation struct {
	Market          models.Market  `json:"market"`
	Outcome         models.Outcome `json:"outcome"`
	Price           float64        `json:"price"`
	Probability     float64        `json:"probability"`
	EdgePct         float64        `json:"edge_pct"`
	ValueGrade      ValueGrade     `json:"value_grade"`
	RiskGrade       RiskGrade      `json:"risk_grade"`
	KellyFraction   float64        `json:"kelly_fraction"`
	FractionalKelly float64        `json:"fractional_kelly"`
	FlatFraction    float64        `json:"flat_fraction"`
	SuggestedStake  float64        `json:"suggested_stake"`
}

// Analysis is the full decision output for one match.
type Analysis struct {
	Recommendations []Recommendation           `json:"recommendations"`
	TopPicks        []Recommendation           `json:"top_picks"`
	Margins         map[models.Market]float64  `json:"margins"`
	Arbitrage       *ArbitrageOpportunity      `json:"arbitrage,omitempty"`
	EfficiencyScore float64                    `json:"efficiency_score"`
	Warnings        []string                   `json:"warnings,omitempty"`
	Bankroll        float64                    `json:"bankroll"`
}

// Analyzer builds betting analyses from estimates and market prices.
type Analyzer struct {
	config AnalyzerConfig
	logger *logrus.Logger
}

// NewAnalyzer creates an analyzer. Zero-valued config fields fall back to
// DefaultAnalyzerConfig; a nil logger gets a fresh one.
func NewAnalyzer(cfg AnalyzerConfig, logger *logrus.Logger) *Analyzer {
	defaults := DefaultAnalyzerConfig()
	if cfg.KellyFraction <= 0 {
		cfg.KellyFraction = defaults.KellyFraction
	}
	if cfg.TopPicks <= 0 {
		cfg.TopPicks = defaults.TopPicks
	}
	if cfg.HighMarginPct <= 0 {
		cfg.HighMarginPct = defaults.HighMarginPct
	}
	if cfg.LowConfidence <= 0 {
		cfg.LowConfidence = defaults.LowConfidence
	}
	if cfg.SmallBankroll <= 0 {
		cfg.SmallBankroll = defaults.SmallBankroll
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &Analyzer{config: cfg, logger: logger}
}

// Analyze builds one Recommendation per priced outcome across every
// populated market family, ranks them by edge, and derives margins,
// arbitrage, an efficiency score, and qualitative warnings.
//
// An estimate violating the sum-to-1 invariant, a negative price, or a
// negative bankroll is a caller contract breach and errors out. A family
// with missing prices is excluded without error.
func (a *Analyzer) Analyze(estimate models.OutcomeEstimate, prices models.MarketPrices, bankroll float64) (*Analysis, error) {
	if err := estimate.Validate(); err != nil {
		return nil, err
	}
	if err := prices.Validate(); err != nil {
		return nil, err
	}
	if bankroll < 0 {
		return nil, fmt.Errorf("%w: got %.2f", models.ErrInvalidBankroll, bankroll)
	}

	result := &Analysis{
		Margins:  make(map[models.Market]float64),
		Bankroll: bankroll,
	}

	for _, family := range a.pricedFamilies(estimate, prices) {
		result.Margins[family.market] = MarketMargin(family.prices)
		for i, outcome := range family.outcomes {
			rec, ok := a.recommend(family.market, outcome, family.prices[i], estimate, bankroll)
			if ok {
				result.Recommendations = append(result.Recommendations, rec)
			}
		}
	}

	sort.SliceStable(result.Recommendations, func(i, j int) bool {
		return result.Recommendations[i].EdgePct > result.Recommendations[j].EdgePct
	})

	for _, rec := range result.Recommendations {
		if rec.EdgePct <= 0 || len(result.TopPicks) >= a.config.TopPicks {
			break
		}
		result.TopPicks = append(result.TopPicks, rec)
	}

	if prices.MatchResult != nil && prices.MatchResult.Complete() {
		arb := DetectArbitrage(prices.MatchResult.Prices())
		result.Arbitrage = &arb
	}

	result.EfficiencyScore = efficiencyScore(result.Margins)
	result.Warnings = a.buildWarnings(estimate, result, bankroll)

	a.logger.WithFields(logrus.Fields{
		"recommendations": len(result.Recommendations),
		"top_picks":       len(result.TopPicks),
		"efficiency":      result.EfficiencyScore,
	}).Debug("Analysis complete")

	return result, nil
}

type pricedFamily struct {
	market   models.Market
	outcomes []models.Outcome
	prices   []float64
}

// pricedFamilies collects the families that are fully quoted. An over/under
// family whose line differs from the estimate's line is treated as
// degenerate: the model has no probability for that line.
func (a *Analyzer) pricedFamilies(estimate models.OutcomeEstimate, prices models.MarketPrices) []pricedFamily {
	var families []pricedFamily

	if p := prices.MatchResult; p != nil && p.Complete() {
		families = append(families, pricedFamily{
			market:   models.MarketMatchResult,
			outcomes: []models.Outcome{models.OutcomeHomeWin, models.OutcomeDraw, models.OutcomeAwayWin},
			prices:   p.Prices(),
		})
	}
	if p := prices.OverUnder; p != nil && p.Complete() && math.Abs(p.GoalLine-estimate.GoalLine) < 1e-9 {
		families = append(families, pricedFamily{
			market:   models.MarketOverUnder,
			outcomes: []models.Outcome{models.OutcomeOver, models.OutcomeUnder},
			prices:   []float64{p.Over, p.Under},
		})
	}
	if p := prices.DoubleChance; p != nil && p.Complete() {
		families = append(families, pricedFamily{
			market:   models.MarketDoubleChance,
			outcomes: []models.Outcome{models.OutcomeHomeOrDraw, models.OutcomeHomeOrAway, models.OutcomeDrawOrAway},
			prices:   []float64{p.HomeOrDraw, p.HomeOrAway, p.DrawOrAway},
		})
	}
	return families
}

func (a *Analyzer) recommend(market models.Market, outcome models.Outcome, price float64, estimate models.OutcomeEstimate, bankroll float64) (Recommendation, bool) {
	probability, ok := estimate.ProbabilityFor(outcome)
	if !ok || price <= 0 {
		return Recommendation{}, false
	}

	edge := Edge(probability, price)
	kelly := a.capFraction(StakeFraction(probability, price, false, 0))
	fractional := a.capFraction(StakeFraction(probability, price, true, a.config.KellyFraction))
	flat := a.capFraction(FlatStakeFraction(edge))

	return Recommendation{
		Market:          market,
		Outcome:         outcome,
		Price:           price,
		Probability:     probability,
		EdgePct:         edge,
		ValueGrade:      GradeValue(edge),
		RiskGrade:       GradeRisk(edge, price, estimate.Confidence),
		KellyFraction:   kelly,
		FractionalKelly: fractional,
		FlatFraction:    flat,
		SuggestedStake:  StakeAmount(bankroll, fractional),
	}, true
}

// capFraction enforces the configured stake ceiling. A ceiling of exactly 0
// is honored: every recommended fraction collapses to 0.
func (a *Analyzer) capFraction(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > a.config.MaxStakeFraction {
		return a.config.MaxStakeFraction
	}
	return f
}

func (a *Analyzer) buildWarnings(estimate models.OutcomeEstimate, result *Analysis, bankroll float64) []string {
	var warnings []string
	for market, margin := range result.Margins {
		if margin > a.config.HighMarginPct {
			warnings = append(warnings, fmt.Sprintf("%s margin %.1f%% is unusually high", market, margin))
		}
	}
	if estimate.Confidence < a.config.LowConfidence {
		warnings = append(warnings, fmt.Sprintf("model confidence %.2f is low", estimate.Confidence))
	}
	if bankroll > 0 && bankroll < a.config.SmallBankroll {
		warnings = append(warnings, fmt.Sprintf("bankroll %.2f is too small for meaningful staking", bankroll))
	}
	for _, pick := range result.TopPicks {
		if pick.RiskGrade == RiskHigh {
			warnings = append(warnings, fmt.Sprintf("top pick %s/%s carries the highest risk grade", pick.Market, pick.Outcome))
			break
		}
	}
	sort.Strings(warnings)
	return warnings
}

// efficiencyScore maps the average family margin onto [0,100]: a margin-free
// market scores 100, a 10% overround scores 0.
func efficiencyScore(margins map[models.Market]float64) float64 {
	if len(margins) == 0 {
		return 0
	}
	total := 0.0
	for _, margin := range margins {
		total += margin
	}
	avg := total / float64(len(margins))
	score := 100.0 * (1.0 - avg/10.0)
	return math.Max(0, math.Min(100, score))
}
