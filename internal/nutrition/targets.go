package nutrition

import (
	"math"
	"strings"
)

// ActivityLevel is a dog's typical daily activity.
type ActivityLevel string

const (
	ActivityLow      ActivityLevel = "Low"
	ActivityModerate ActivityLevel = "Moderate"
	ActivityHigh     ActivityLevel = "High"
)

// activityMultipliers maps activity level to the RER -> MER factor. This is
// also the source of truth for which levels are valid.
var activityMultipliers = map[ActivityLevel]float64{
	ActivityLow:      1.2,
	ActivityModerate: 1.4,
	ActivityHigh:     1.6,
}

// ParseActivityLevel matches s case-insensitively against the known levels.
func ParseActivityLevel(s string) (ActivityLevel, bool) {
	for level := range activityMultipliers {
		if strings.EqualFold(strings.TrimSpace(s), string(level)) {
			return level, true
		}
	}
	return "", false
}

// ActivityMultiplier returns the MER factor for level. Unknown or empty
// levels fall back to Moderate.
func ActivityMultiplier(level ActivityLevel) float64 {
	if parsed, ok := ParseActivityLevel(string(level)); ok {
		return activityMultipliers[parsed]
	}
	return activityMultipliers[ActivityModerate]
}

// WeightUnit is the unit a dog's weight was entered in.
type WeightUnit string

const (
	Kilograms WeightUnit = "kg"
	Pounds    WeightUnit = "lb"
)

const (
	// DefaultWeightKG stands in for a missing or invalid weight.
	DefaultWeightKG = 10.0
	lbsPerKG        = 2.20462
)

// ParseWeightUnit accepts kg/lb and a few common spellings.
func ParseWeightUnit(s string) (WeightUnit, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "kg", "kgs", "kilogram", "kilograms":
		return Kilograms, true
	case "lb", "lbs", "pound", "pounds":
		return Pounds, true
	}
	return "", false
}

// DogProfile is the read-only input to target derivation. HealthFocus tags
// are carried for callers but do not change the targets.
type DogProfile struct {
	Weight        float64
	WeightUnit    WeightUnit
	ActivityLevel ActivityLevel
	HealthFocus   []string
}

// WeightKG returns the profile weight in kilograms, defaulting to 10 when the
// weight is missing, non-positive or not finite.
func (p DogProfile) WeightKG() float64 {
	w := p.Weight
	if math.IsNaN(w) || math.IsInf(w, 0) || w <= 0 {
		return DefaultWeightKG
	}
	if unit, ok := ParseWeightUnit(string(p.WeightUnit)); ok && unit == Pounds {
		return w / lbsPerKG
	}
	return w
}

// RER is the resting energy requirement in kcal/day: 70 × kg^0.75.
func RER(weightKG float64) float64 {
	return 70 * math.Pow(weightKG, 0.75)
}

// MER is the maintenance energy requirement: RER scaled by activity.
func MER(weightKG float64, level ActivityLevel) float64 {
	return RER(weightKG) * ActivityMultiplier(level)
}

// DailyTargets derives the per-day targets for p. Carbohydrate has no target
// and is left at zero, which the score layer treats as satisfied.
func DailyTargets(p DogProfile) Nutrients {
	w := p.WeightKG()
	return Nutrients{
		Protein:    2.5 * w,
		Fat:        1.2 * w,
		Calories:   MER(w, p.ActivityLevel),
		Fiber:      clamp(0.7*w, 8, 18),
		Calcium:    0.07 * w,
		Phosphorus: 0.06 * w,
	}
}

// WindowTargets scales the daily targets to a window of the given length.
func WindowTargets(p DogProfile, days int) Nutrients {
	if days < 1 {
		days = 1
	}
	return DailyTargets(p).Scale(float64(days))
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}
