package analysis

// ValueGrade classifies a recommendation by its edge.
type ValueGrade string

const (
	ValueExcellent ValueGrade = "EXCELLENT"
	ValueGood      ValueGrade = "GOOD"
	ValueFair      ValueGrade = "FAIR"
	ValueMarginal  ValueGrade = "MARGINAL"
	ValueNegative  ValueGrade = "NEGATIVE"
)

// RiskGrade classifies a recommendation by how likely the edge is to be real.
type RiskGrade string

const (
	RiskLow    RiskGrade = "LOW"
	RiskMedium RiskGrade = "MEDIUM"
	RiskHigh   RiskGrade = "HIGH"
)

// GradeValue assigns a value grade from edge thresholds.
func GradeValue(edgePct float64) ValueGrade {
	switch {
	case edgePct >= 10:
		return ValueExcellent
	case edgePct >= 5:
		return ValueGood
	case edgePct >= 2:
		return ValueFair
	case edgePct > 0:
		return ValueMarginal
	default:
		return ValueNegative
	}
}

// GradeRisk combines edge sign, price magnitude, and model confidence.
// Long prices and low confidence dominate: a big edge on a 6.0 shot is still
// a high-variance bet.
func GradeRisk(edgePct, price, confidence float64) RiskGrade {
	if edgePct <= 0 || confidence < 0.40 || price >= 4.0 {
		return RiskHigh
	}
	if edgePct >= 5 && confidence >= 0.65 && price < 2.8 {
		return RiskLow
	}
	return RiskMedium
}
