package nutrition

import "math"

const (
	BandLow  = 0.9
	BandHigh = 1.1

	IdealCaPRatio     = 1.4
	CaPRatioTolerance = 0.3

	// VitaminsScore is a fixed placeholder. There is no vitamin data model, so
	// this is a provisional approximation rather than a computed value.
	VitaminsScore = 60

	bandSlope  = 200
	ratioSlope = 250
)

// BandScore scores actual against target using the default 0.9–1.1 band.
func BandScore(actual, target float64) float64 {
	return BandScoreWithin(actual, target, BandLow, BandHigh)
}

// BandScoreWithin returns 100 when actual/target lies within [low, high] and
// a linear penalty outside it. A non-positive target is fully satisfied.
func BandScoreWithin(actual, target, low, high float64) float64 {
	actual, target = amount(actual), amount(target)
	if target <= 0 {
		return 100
	}
	return penalize(actual/target, low, high, bandSlope)
}

// CaPRatioScore scores the calcium:phosphorus ratio against the ideal 1.4
// ± 0.3. Either mineral at zero scores 0 because balance can't be shown.
func CaPRatioScore(ca, p float64) float64 {
	ca, p = amount(ca), amount(p)
	if ca <= 0 || p <= 0 {
		return 0
	}
	return penalize(ca/p, IdealCaPRatio-CaPRatioTolerance, IdealCaPRatio+CaPRatioTolerance, ratioSlope)
}

// CaPRatio is ca/p, or 0 when phosphorus is absent.
func CaPRatio(ca, p float64) float64 {
	ca, p = amount(ca), amount(p)
	if p <= 0 {
		return 0
	}
	return ca / p
}

// penalize maps ratio to 100 inside [low, high]; outside, the distance from
// the nearer edge is normalized by that edge and multiplied by slope.
func penalize(ratio, low, high, slope float64) float64 {
	var distance float64
	switch {
	case ratio < low:
		distance = (low - ratio) / low
	case ratio > high:
		distance = (ratio - high) / high
	default:
		return 100
	}
	return clamp(100-distance*slope, 0, 100)
}

// ProgressPercent is round(actual/target × 100) clamped to [0, 100].
func ProgressPercent(actual, target float64) int {
	actual, target = amount(actual), amount(target)
	if target <= 0 {
		return 100
	}
	return int(clamp(math.Round(actual/target*100), 0, 100))
}

// Progress holds the per-nutrient percentages shown on the radar chart.
type Progress struct {
	Protein    int `json:"protein"`
	Fat        int `json:"fat"`
	Energy     int `json:"energy"`
	Fiber      int `json:"fiber"`
	Calcium    int `json:"calcium"`
	Phosphorus int `json:"phosphorus"`
}

// ProgressOf computes Progress for totals against targets.
func ProgressOf(totals, targets Nutrients) Progress {
	return Progress{
		Protein:    ProgressPercent(totals.Protein, targets.Protein),
		Fat:        ProgressPercent(totals.Fat, targets.Fat),
		Energy:     ProgressPercent(totals.Calories, targets.Calories),
		Fiber:      ProgressPercent(totals.Fiber, targets.Fiber),
		Calcium:    ProgressPercent(totals.Calcium, targets.Calcium),
		Phosphorus: ProgressPercent(totals.Phosphorus, targets.Phosphorus),
	}
}

// MineralsScore averages absolute sufficiency (mean of the calcium and
// phosphorus band scores) with ratio balance, weighting each half equally.
func MineralsScore(totals, targets Nutrients) int {
	sufficiency := (BandScore(totals.Calcium, targets.Calcium) + BandScore(totals.Phosphorus, targets.Phosphorus)) / 2
	balance := CaPRatioScore(totals.Calcium, totals.Phosphorus)
	return int(math.Round((sufficiency + balance) / 2))
}

// Scores is the full adequacy breakdown for one set of totals.
type Scores struct {
	Protein       float64 `json:"protein"`
	Fat           float64 `json:"fat"`
	Energy        float64 `json:"energy"`
	Fiber         float64 `json:"fiber"`
	Calcium       float64 `json:"calcium"`
	Phosphorus    float64 `json:"phosphorus"`
	CaPRatio      float64 `json:"ca_p_ratio"`
	CaPRatioScore float64 `json:"ca_p_ratio_score"`
	Minerals      int     `json:"minerals"`
	Vitamins      int     `json:"vitamins"`
}

// Score computes every band score plus the composite minerals and
// placeholder vitamins scores.
func Score(totals, targets Nutrients) Scores {
	return Scores{
		Protein:       BandScore(totals.Protein, targets.Protein),
		Fat:           BandScore(totals.Fat, targets.Fat),
		Energy:        BandScore(totals.Calories, targets.Calories),
		Fiber:         BandScore(totals.Fiber, targets.Fiber),
		Calcium:       BandScore(totals.Calcium, targets.Calcium),
		Phosphorus:    BandScore(totals.Phosphorus, targets.Phosphorus),
		CaPRatio:      math.Round(CaPRatio(totals.Calcium, totals.Phosphorus)*100) / 100,
		CaPRatioScore: CaPRatioScore(totals.Calcium, totals.Phosphorus),
		Minerals:      MineralsScore(totals, targets),
		Vitamins:      VitaminsScore,
	}
}
